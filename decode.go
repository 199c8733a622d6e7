// Handing downloaded files to a decoding collaborator.

package awhina

import (
	"os"

	"github.com/pkg/errors"
)

// A Decoder turns a local GRIB2 file into an in-memory dataset. Decoding
// the binary format is outside this package; callers plug in a third-party
// reader. The path handed to Decode is guaranteed to exist and to be a
// complete GRIB2 stream, whole or subset.
type Decoder interface {
	Decode(path string) (interface{}, error)
}

// Open downloads the run (honouring opts) if it is not already cached,
// decodes it, and returns the decoded dataset. When removeIfCreated is set
// and the local file did not exist before this call, the file is deleted
// after the read so one-off inspections do not clutter the cache.
func (run *Run) Open(res *Resolution, dec Decoder, opts DownloadOptions, removeIfCreated bool) (interface{}, error) {
	var subset *Inventory
	if opts.Search != "" && opts.Search != ":" && res.Idx.Found() {
		var err error
		if subset, err = run.ReadIndex(res, opts.Search); err != nil {
			return nil, err
		}
	}

	preExisting := fileExists(run.LocalPath(subset))

	path, err := run.Download(res, opts)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, errors.WithMessage(ErrNotFound, "nothing was downloaded")
	}

	dataset, err := dec.Decode(path)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}

	if removeIfCreated && !preExisting {
		if err := os.Remove(path); err != nil {
			Logger.WithError(err).WithField("path", path).
				Warn("could not remove one-off download")
		}
	}
	return dataset, nil
}
