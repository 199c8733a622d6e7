// The Global Forecast System model.

package awhina

import (
	"fmt"
	"time"
)

func init() { Register(gfsTemplate{}) }

type gfsTemplate struct{}

func (gfsTemplate) Model() string       { return "gfs" }
func (gfsTemplate) Description() string { return "Global Forecast System" }

func (gfsTemplate) Products() []Product {
	return []Product{
		{"pgrb2.0p25", "common fields, 0.25 degree resolution"},
		{"pgrb2.0p50", "common fields, 0.50 degree resolution"},
		{"pgrb2.1p00", "common fields, 1.00 degree resolution"},
		{"pgrb2b.0p25", "uncommon fields, 0.25 degree resolution"},
		{"pgrb2b.0p50", "uncommon fields, 0.50 degree resolution"},
		{"pgrb2b.1p00", "uncommon fields, 1.00 degree resolution"},
		{"pgrb2full.0p50", "combined grids of 0.50 resolution"},
	}
}

func (gfsTemplate) Sources(run *Run) []Source {
	dir := run.Date.Format("20060102/15")
	file := fmt.Sprintf("gfs.t%sz.%s.f%03d", run.Date.Format("15"), run.Product, run.ForecastHour)

	return []Source{
		{Name: "aws",
			URL: fmt.Sprintf("https://noaa-gfs-bdp-pds.s3.amazonaws.com/gfs.%s/atmos/%s", dir, file)},
		{Name: "nomads",
			URL:       fmt.Sprintf("https://nomads.ncep.noaa.gov/pub/data/nccf/com/gfs/prod/gfs.%s/atmos/%s", dir, file),
			Retention: 14 * 24 * time.Hour},
		{Name: "google",
			URL: fmt.Sprintf("https://storage.googleapis.com/global-forecast-system/gfs.%s/atmos/%s", dir, file)},
		{Name: "azure",
			URL: fmt.Sprintf("https://noaagfs.blob.core.windows.net/gfs/gfs.%s/atmos/%s", dir, file)},
		{Name: "aws-s3",
			URL: fmt.Sprintf("s3://noaa-gfs-bdp-pds/gfs.%s/atmos/%s", dir, file)},
	}
}

func (gfsTemplate) LocalFile(run *Run) string { return run.RemoteFileName() }
func (gfsTemplate) IndexSuffix() string       { return ".idx" }
func (gfsTemplate) IndexStyle() IndexStyle    { return IndexWgrib2 }
