package awhina

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors. Wrap with errors.Wrapf to add context; test with
// errors.Is so wrapped instances still match.
var (
	// ErrNotFound means no configured source yielded the requested
	// artifact after exhausting the priority list. Non-fatal by default.
	ErrNotFound = errors.New("not found at any source")

	// ErrTransfer means a fetch failed at the transport level. During
	// resolution this is a soft failure (the next source is tried);
	// during an actual download it is fatal unless ModeWarn is selected.
	ErrTransfer = errors.New("transfer failed")

	// ErrIndexFormat means index text did not split into the expected
	// columns. Always fatal: silently dropping malformed rows would
	// corrupt the byte-range reconstruction.
	ErrIndexFormat = errors.New("malformed index file")
)

// A ValidationError reports a malformed run identifier at construction
// time: a future date, an unknown model or product, or a priority list
// naming no source the model actually has. Never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ErrorMode selects how Download reacts to a missing grib location.
type ErrorMode int

const (
	// ModeWarn logs a warning and performs no transfer. The default.
	ModeWarn ErrorMode = iota
	// ModeRaise returns a terminal error.
	ModeRaise
)
