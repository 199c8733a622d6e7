// Package awhina locates and downloads numerical-weather-model output in
// GRIB2 format from whichever of several redundant remote archives actually
// hosts it. Given a model run (initialization time, forecast lead, product)
// it probes the configured sources in priority order, parses the sidecar
// index file to map variables and levels to byte ranges, and downloads
// either the whole file or only the GRIB messages matching a search pattern.
package awhina

import "time"

// Sentinel source name recorded when a previously downloaded local copy
// satisfies the grib half of a search. Index files are never cached locally,
// so the idx half still probes remote sources.
const LocalSource = "local"

// DefaultMinGribSize is the Content-Length a grib file must exceed before an
// existence probe counts it as real. Archives answer missing files with
// small HTML error pages; anything under this is assumed to be one. The
// threshold is configurable because sparse regional subsets can be
// legitimately small.
const DefaultMinGribSize int64 = 1_000_000

// DefaultFetchTimeout bounds a single whole-file or ranged transfer.
const DefaultFetchTimeout = 5 * time.Minute
