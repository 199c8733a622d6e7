// Individual model runs.

package awhina

import (
	"net/url"
	"path"
	"strings"
	"time"
)

// A RunSpec identifies the model output the caller wants. Exactly one of
// Date (initialization time) and ValidDate must be set; the other is
// derived from the forecast lead.
type RunSpec struct {
	Model        string
	Product      string // empty selects the template's first product
	Date         time.Time
	ValidDate    time.Time
	ForecastHour int
	Member       int // ensemble member, for models that have them

	// Priority overrides Config.Priority for this run. Nil falls back
	// to the config, then to template order.
	Priority []string
}

// A Run is a validated run identifier bound to its model template and
// configuration. Each Run handles exactly one file; resolution state is
// private per instance and nothing is shared between Runs.
type Run struct {
	Model        string
	Product      string
	Date         time.Time // initialization time, UTC
	ValidDate    time.Time // Date + ForecastHour
	ForecastHour int
	Member       int

	cfg      *Config
	tmpl     Template
	priority []string

	// Unfiltered index table, fetched lazily and kept for the life of
	// the instance so repeated subset requests stay off the network.
	cachedIdx    *Inventory
	cachedIdxURL string
}

// clock is stubbed in tests that need a fixed "now".
var clock = time.Now

// NewRun validates spec against the registered model templates and returns
// a Run ready to resolve. All identifier problems surface here as
// *ValidationError; nothing is retried.
func NewRun(cfg *Config, spec RunSpec) (*Run, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	tmpl := LookupTemplate(spec.Model)
	if tmpl == nil {
		return nil, &ValidationError{
			Field:  "model",
			Reason: "unknown model " + spec.Model + "; registered: " + strings.Join(Models(), ", "),
		}
	}

	run := &Run{
		Model:        strings.ToLower(spec.Model),
		ForecastHour: spec.ForecastHour,
		Member:       spec.Member,
		cfg:          cfg,
		tmpl:         tmpl,
	}

	lead := time.Duration(spec.ForecastHour) * time.Hour
	switch {
	case !spec.Date.IsZero() && !spec.ValidDate.IsZero():
		return nil, &ValidationError{Field: "date", Reason: "set either Date or ValidDate, not both"}
	case !spec.Date.IsZero():
		run.Date = spec.Date.UTC()
		run.ValidDate = run.Date.Add(lead)
	case !spec.ValidDate.IsZero():
		run.ValidDate = spec.ValidDate.UTC()
		run.Date = run.ValidDate.Add(-lead)
	default:
		return nil, &ValidationError{Field: "date", Reason: "either Date or ValidDate is required"}
	}

	if run.Date.After(clock().UTC()) {
		return nil, &ValidationError{Field: "date", Reason: "initialization time cannot be in the future"}
	}

	products := tmpl.Products()
	if spec.Product == "" {
		run.Product = products[0].Code
		Logger.WithField("model", run.Model).
			Warnf("product not specified, using %q", run.Product)
	} else {
		run.Product = spec.Product
		found := false
		for _, p := range products {
			if p.Code == run.Product {
				found = true
				break
			}
		}
		if !found {
			codes := make([]string, len(products))
			for i, p := range products {
				codes[i] = p.Code
			}
			return nil, &ValidationError{
				Field:  "product",
				Reason: "unknown product " + run.Product + " for " + run.Model + "; available: " + strings.Join(codes, ", "),
			}
		}
	}

	priority := spec.Priority
	if priority == nil {
		priority = cfg.Priority
	}
	if priority != nil {
		run.priority = make([]string, len(priority))
		for i, name := range priority {
			run.priority[i] = strings.ToLower(name)
		}

		// A priority list naming no source the template has would
		// silently search nothing. Reject it up front.
		if len(run.selectSources(tmpl.Sources(run))) == 0 {
			return nil, &ValidationError{
				Field:  "priority",
				Reason: "no source in [" + strings.Join(run.priority, ",") + "] is available for model " + run.Model,
			}
		}
	}

	return run, nil
}

// Candidates returns the sources to probe for this run, in priority order,
// with retention-expired archives already removed. The resolved source, if
// any, is always the earliest candidate whose probe succeeds.
func (run *Run) Candidates() []Source {
	now := clock().UTC()

	candidates := []Source{}
	for _, src := range run.selectSources(run.tmpl.Sources(run)) {
		if src.Retention > 0 && run.Date.Before(now.Add(-src.Retention)) {
			Logger.WithFields(map[string]interface{}{
				"source": src.Name, "retention": src.Retention, "date": run.Date,
			}).Debug("run predates source retention window, skipping")
			continue
		}
		candidates = append(candidates, src)
	}
	return candidates
}

// selectSources prunes and reorders the template's sources by the run's
// priority list. A nil priority keeps template order; a source absent from
// the priority list is dropped, never silently probed.
func (run *Run) selectSources(sources []Source) []Source {
	if run.priority == nil {
		return sources
	}

	selected := []Source{}
	for _, name := range run.priority {
		for _, src := range sources {
			if strings.EqualFold(src.Name, name) {
				selected = append(selected, src)
				break
			}
		}
	}
	return selected
}

// RemoteFileName predicts the filename of the grib file from the first
// template source. Templates use it as the default local filename.
func (run *Run) RemoteFileName() string {
	sources := run.tmpl.Sources(run)
	if len(sources) == 0 {
		return ""
	}
	u, err := url.Parse(sources[0].URL)
	if err != nil {
		return path.Base(sources[0].URL)
	}
	return path.Base(u.Path)
}

// Template returns the model template the run was validated against.
func (run *Run) Template() Template { return run.tmpl }
