// Source resolution: which archive actually has the file?

package awhina

import (
	"strings"
)

// A Location is one half of a resolution result: where an artifact was
// found and which source it came from. The zero Location means "not found".
type Location struct {
	URL    string // remote URL, or a local path when Source is LocalSource
	Source string
}

// Found reports whether the location has been set.
func (l Location) Found() bool { return l.URL != "" }

// ResolveState describes how far a resolution pass has progressed.
type ResolveState int

const (
	Unresolved ResolveState = iota
	GribFound
	IdxFound
	BothFound
)

func (s ResolveState) String() string {
	switch s {
	case GribFound:
		return "grib found"
	case IdxFound:
		return "idx found"
	case BothFound:
		return "grib and idx found"
	}
	return "unresolved"
}

// A ProbeRecord is the structured outcome of probing one source. Records
// accumulate on the Resolution so callers and tests can assert on what
// happened without parsing log text.
type ProbeRecord struct {
	Source    string
	GribURL   string
	IdxURL    string
	GribFound bool
	IdxFound  bool
	Err       error // transport-level probe failure, soft
}

// A Resolution is the outcome of scanning the candidate sources. The grib
// and idx halves resolve independently and may come from different sources;
// once set, neither is overwritten within the same pass.
type Resolution struct {
	Grib   Location
	Idx    Location
	Probes []ProbeRecord
}

// State derives the state-machine position from which halves are set.
func (res *Resolution) State() ResolveState {
	switch {
	case res.Grib.Found() && res.Idx.Found():
		return BothFound
	case res.Grib.Found():
		return GribFound
	case res.Idx.Found():
		return IdxFound
	}
	return Unresolved
}

// advance folds one probe outcome into the resolution. First found wins on
// each track independently; later successes never displace earlier ones.
func advance(res Resolution, probe ProbeRecord) Resolution {
	if !res.Grib.Found() && probe.GribFound {
		res.Grib = Location{URL: probe.GribURL, Source: probe.Source}
	}
	if !res.Idx.Found() && probe.IdxFound {
		res.Idx = Location{URL: probe.IdxURL, Source: probe.Source}
	}
	res.Probes = append(res.Probes, probe)
	return res
}

// A prober answers existence questions about one source's URLs. The HTTP
// and S3 transports both implement it; tests substitute their own.
type prober interface {
	// CheckGrib reports whether the grib file exists and exceeds the
	// minimum plausible size.
	CheckGrib(url string, minSize int64) (bool, error)
	// CheckIdx reports whether the index file exists.
	CheckIdx(url string) (bool, error)
	// Ping warms up a flaky backend before the real probes.
	Ping(url string) error
}

// indexURL derives the index URL from the grib URL. wgrib2 archives place
// the index beside the file as <name>.idx; ecCodes archives swap the
// .grib2 extension for the index suffix.
func indexURL(gribURL, suffix string, style IndexStyle) string {
	if style == IndexEccodes {
		return strings.TrimSuffix(gribURL, ".grib2") + suffix
	}
	return gribURL + suffix
}

// proberFor selects a transport by URL scheme. Swappable for tests.
var proberFor = func(cfg *Config, rawURL string) prober {
	if strings.HasPrefix(rawURL, "s3://") {
		return newS3Prober()
	}
	return &httpProber{client: cfg.httpClient()}
}

// Resolve scans the candidate sources in priority order looking for the
// grib file and its companion index, stopping as soon as both are located.
// A local copy from an earlier download satisfies the grib half (unless
// recheck is set) but never the idx half: index files are not cached.
//
// Exhausting every source without a hit is not an error; the corresponding
// Location simply stays unset and the caller decides how much that matters.
func (run *Run) Resolve(recheck bool) *Resolution {
	res := Resolution{}

	if local := run.LocalPath(nil); !recheck && fileExists(local) {
		res.Grib = Location{URL: local, Source: LocalSource}
	}

	for _, src := range run.Candidates() {
		probe := ProbeRecord{
			Source:  src.Name,
			GribURL: src.URL,
			IdxURL:  indexURL(src.URL, run.tmpl.IndexSuffix(), run.tmpl.IndexStyle()),
		}

		p := proberFor(run.cfg, src.URL)
		if src.PingURL != "" {
			// A failed warm-up ping is worth knowing about but
			// must not stop the scan.
			if err := p.Ping(src.PingURL); err != nil {
				Logger.WithError(err).WithField("source", src.Name).
					Warn("pre-flight ping failed")
			}
		}

		if !res.Grib.Found() {
			ok, err := p.CheckGrib(src.URL, run.cfg.minGribSize())
			probe.GribFound = ok
			if err != nil {
				// Treat transport failures as "this source
				// doesn't have it" and move on.
				probe.Err = err
				Logger.WithError(err).WithField("source", src.Name).
					Debug("grib probe failed")
			}
		}
		if !res.Idx.Found() {
			ok, err := p.CheckIdx(probe.IdxURL)
			probe.IdxFound = ok
			if err != nil {
				probe.Err = err
				Logger.WithError(err).WithField("source", src.Name).
					Debug("idx probe failed")
			}
		}

		res = advance(res, probe)

		Logger.WithFields(map[string]interface{}{
			"source": src.Name, "grib": probe.GribFound, "idx": probe.IdxFound,
			"model": run.Model, "date": run.Date, "fxx": run.ForecastHour,
		}).Info("probed source")

		if res.State() == BothFound {
			break
		}
	}

	if res.State() == Unresolved {
		Logger.WithFields(map[string]interface{}{
			"model": run.Model, "date": run.Date, "fxx": run.ForecastHour,
		}).Warn("no source has a grib or index file for this run")
	}
	return &res
}
