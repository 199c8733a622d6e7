// Model templates: static per-model metadata describing which products
// exist, how each remote source names the grib file for a given run, and
// what the sidecar index file looks like.

package awhina

import (
	"sort"
	"strings"
	"time"
)

// IndexStyle identifies the text dialect of a model's index files.
type IndexStyle int

const (
	// IndexWgrib2 is the colon-delimited "short" inventory emitted by
	// wgrib2, used by the NCEP models.
	IndexWgrib2 IndexStyle = iota
	// IndexEccodes is the JSON-lines index emitted by ecCodes, used by
	// the ECMWF open-data files.
	IndexEccodes
)

// A Product pairs a product code with its human description. Order matters:
// a template's first product is the default when the caller omits one.
type Product struct {
	Code        string
	Description string
}

// A Source is one remote archive that may host a run, with the fully
// resolved grib URL for that specific run. Order matters: when no priority
// list is given, sources are probed in the order the template emits them.
type Source struct {
	Name string
	URL  string

	// PingURL, when set, is fetched before probing this source. Some
	// backends return bad TLS handshakes unless warmed up; a failed ping
	// is logged and non-fatal.
	PingURL string

	// Retention is how long this archive keeps data, or zero for
	// indefinitely. Runs older than the window are dropped from the
	// candidate list before any probing.
	Retention time.Duration
}

// A Template supplies everything the core needs to know about one model.
// The core never special-cases a model by name: adding a model is writing a
// Template and registering it.
type Template interface {
	// Model is the registry key, lower case.
	Model() string

	// Description of the model, full name and domain.
	Description() string

	// Products available for this model, default first.
	Products() []Product

	// Sources returns the candidate archives with the grib URL each one
	// would use for this run, in the template's natural priority order.
	Sources(run *Run) []Source

	// LocalFile is the filename (not path) used for local storage.
	LocalFile(run *Run) string

	// IndexSuffix is appended to the grib URL to form the index URL,
	// e.g. ".idx" or ".index".
	IndexSuffix() string

	// IndexStyle selects the parser for the index text.
	IndexStyle() IndexStyle
}

var templates = map[string]Template{}

// Register adds a model template to the registry. Call from init or at
// process start, before any run is constructed. Registering the same model
// name twice panics: it is a programming error, not a runtime condition.
func Register(t Template) {
	name := strings.ToLower(t.Model())
	if _, ok := templates[name]; ok {
		panic("awhina: duplicate model template " + name)
	}
	templates[name] = t
}

// LookupTemplate returns the template registered for model, nil if unknown.
// Lookup is case-insensitive.
func LookupTemplate(model string) Template {
	return templates[strings.ToLower(model)]
}

// Models lists the registered model names, sorted.
func Models() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
