// Downloading: whole files, or per-message subsets reassembled from byte
// ranges. GRIB2 messages are self-delimiting, so appending complete
// messages in order yields a valid multi-message file.

package awhina

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DownloadOptions control one Download call.
type DownloadOptions struct {
	// Search restricts the download to the GRIB messages whose
	// variable:level:forecast-time key matches this regular expression.
	// Empty (or ":") downloads the whole file.
	Search string

	// Overwrite forces a transfer even when the local file exists.
	Overwrite bool

	// Errors selects whether a missing grib location is fatal (ModeRaise)
	// or logged and skipped (ModeWarn).
	Errors ErrorMode
}

// A fetcher performs the actual byte transfers for one transport.
type fetcher interface {
	FetchAll(url string, w io.Writer) (int64, error)
	FetchRange(url string, byteRange string, w io.Writer) (int64, error)
}

// fetcherFor selects a transport by URL scheme. Swappable for tests.
var fetcherFor = func(cfg *Config, rawURL string) fetcher {
	if strings.HasPrefix(rawURL, "s3://") {
		return newS3Fetcher()
	}
	return &httpFetcher{client: cfg.httpClient()}
}

// LocalPath is the deterministic cache location for this run:
// {SaveDir}/{model}/{YYYYMMDD}/{localfile}. A non-nil inventory marks a
// subset download and appends the sorted matched message numbers, so
// distinct message sets never collide while identical sets share one entry.
func (run *Run) LocalPath(subset *Inventory) string {
	p := filepath.Join(run.cfg.SaveDir, run.Model,
		run.Date.Format("20060102"), run.tmpl.LocalFile(run))
	if subset != nil {
		p += ".subset_" + subset.MessageSuffix()
	}
	return p
}

// Download fetches the run's grib file (or the subset selected by
// opts.Search) to its deterministic local path and returns that path.
//
// If the file is already present and Overwrite is unset, Download returns
// immediately without touching the network. When a subset is requested but
// no index was resolved, it warns and falls back to the whole file.
//
// Two processes downloading the same run race benignly: no lock file is
// taken, the last writer wins and both end up with identical bytes. Callers
// parallelise across runs, never within one.
func (run *Run) Download(res *Resolution, opts DownloadOptions) (string, error) {
	subset := opts.Search != "" && opts.Search != ":"

	var inv *Inventory
	if subset {
		if res.Idx.Found() {
			var err error
			if inv, err = run.ReadIndex(res, opts.Search); err != nil {
				return "", err
			}
			// An empty match set must not leave an empty file behind
			// for later idempotence checks to mistake for a download.
			if len(inv.Items) == 0 {
				err := errors.WithMessagef(ErrNotFound,
					"search %q matched no GRIB messages in %s %s f%02d",
					opts.Search, run.Model, run.Date.Format("20060102"), run.ForecastHour)
				if opts.Errors == ModeWarn {
					Logger.WithError(err).Warn("nothing to download")
					return "", nil
				}
				return "", err
			}
		} else if opts.Errors == ModeRaise {
			return "", errors.WithMessagef(ErrNotFound,
				"no index file, cannot subset %s %s f%02d",
				run.Model, run.Date.Format("20060102"), run.ForecastHour)
		} else {
			Logger.WithFields(logrus.Fields{
				"model": run.Model, "date": run.Date, "fxx": run.ForecastHour,
			}).Warn("no index file, downloading the whole file instead of a subset")
			subset = false
		}
	}

	outPath := run.LocalPath(inv)
	if fileExists(outPath) && !opts.Overwrite {
		Logger.WithField("path", outPath).Debug("already have a local copy")
		return outPath, nil
	}

	if !res.Grib.Found() {
		err := errors.WithMessagef(ErrNotFound, "no grib file for %s %s f%02d",
			run.Model, run.Date.Format("20060102"), run.ForecastHour)
		if opts.Errors == ModeWarn {
			Logger.WithError(err).Warn("nothing to download")
			return "", nil
		}
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", errors.Wrapf(err, "create %s", filepath.Dir(outPath))
	}

	if subset {
		if err := run.downloadSubset(res.Grib, inv, outPath); err != nil {
			return "", err
		}
	} else {
		if err := run.downloadWhole(res.Grib, outPath); err != nil {
			return "", err
		}
	}

	Logger.WithFields(logrus.Fields{
		"source": res.Grib.Source, "src": res.Grib.URL, "dst": outPath,
	}).Info("download complete")
	return outPath, nil
}

// downloadWhole transfers the complete grib file to outPath.
func (run *Run) downloadWhole(grib Location, outPath string) error {
	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrapf(err, "create %s", outPath)
	}
	defer out.Close()

	if grib.Source == LocalSource {
		in, err := os.Open(grib.URL)
		if err != nil {
			return errors.Wrapf(err, "open local grib %s", grib.URL)
		}
		defer in.Close()
		_, err = io.Copy(out, in)
		return errors.Wrapf(err, "copy local grib %s", grib.URL)
	}

	_, err = fetcherFor(run.cfg, grib.URL).FetchAll(grib.URL, out)
	return err
}

// downloadSubset reassembles the selected messages into outPath, fetching
// each message's byte range in ascending message-number order. The file is
// created once and every message appended in turn.
func (run *Run) downloadSubset(grib Location, inv *Inventory, outPath string) error {
	items := make([]*InventoryItem, len(inv.Items))
	copy(items, inv.Items)
	sort.Slice(items, func(i, j int) bool {
		return items[i].MessageNumber < items[j].MessageNumber
	})

	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrapf(err, "create %s", outPath)
	}
	defer out.Close()

	var local *os.File
	if grib.Source == LocalSource {
		// The full file is already on disk; read the ranges straight
		// out of it rather than going back to the network.
		if local, err = os.Open(grib.URL); err != nil {
			return errors.Wrapf(err, "open local grib %s", grib.URL)
		}
		defer local.Close()
	}

	for _, item := range items {
		Logger.WithFields(logrus.Fields{
			"message": item.MessageNumber, "range": item.Range(),
			"key": item.searchKey(),
		}).Info("fetching GRIB message")

		if local != nil {
			if err := copyLocalRange(out, local, item); err != nil {
				return err
			}
			continue
		}

		if _, err := fetcherFor(run.cfg, grib.URL).FetchRange(grib.URL, item.RangeHeader(), out); err != nil {
			return err
		}
	}
	return nil
}

// copyLocalRange appends one message's bytes from a local full file.
func copyLocalRange(out io.Writer, in *os.File, item *InventoryItem) error {
	var src io.Reader
	if item.EndByte < 0 {
		if _, err := in.Seek(item.StartByte, io.SeekStart); err != nil {
			return errors.Wrapf(err, "seek to %d in %s", item.StartByte, in.Name())
		}
		src = in
	} else {
		src = io.NewSectionReader(in, item.StartByte, item.EndByte-item.StartByte)
	}

	if _, err := io.Copy(out, src); err != nil {
		return errors.Wrapf(err, "copy range %s from %s", item.Range(), in.Name())
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
