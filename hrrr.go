// The High-Resolution Rapid Refresh model.

package awhina

import (
	"fmt"
	"time"
)

func init() { Register(hrrrTemplate{}) }

type hrrrTemplate struct{}

func (hrrrTemplate) Model() string       { return "hrrr" }
func (hrrrTemplate) Description() string { return "High-Resolution Rapid Refresh - CONUS" }

func (hrrrTemplate) Products() []Product {
	return []Product{
		{"sfc", "2D surface level fields; 3-km resolution"},
		{"prs", "3D pressure level fields; 3-km resolution"},
		{"nat", "Native level fields; 3-km resolution"},
		{"subh", "Subhourly grids; 3-km resolution"},
	}
}

func (hrrrTemplate) Sources(run *Run) []Source {
	day := run.Date.Format("20060102")
	file := fmt.Sprintf("hrrr.t%sz.wrf%sf%02d.grib2", run.Date.Format("15"), run.Product, run.ForecastHour)

	return []Source{
		{Name: "aws",
			URL: fmt.Sprintf("https://noaa-hrrr-bdp-pds.s3.amazonaws.com/hrrr.%s/conus/%s", day, file)},
		{Name: "nomads",
			URL: fmt.Sprintf("https://nomads.ncep.noaa.gov/pub/data/nccf/com/hrrr/prod/hrrr.%s/conus/%s", day, file),
			// NOMADS only keeps recent runs online.
			Retention: 14 * 24 * time.Hour},
		{Name: "google",
			URL: fmt.Sprintf("https://storage.googleapis.com/high-resolution-rapid-refresh/hrrr.%s/conus/%s", day, file)},
		{Name: "azure",
			URL: fmt.Sprintf("https://noaahrrr.blob.core.windows.net/hrrr/hrrr.%s/conus/%s", day, file)},
		{Name: "pando",
			URL: fmt.Sprintf("https://pando-rgw01.chpc.utah.edu/hrrr/%s/%s/%s", run.Product, day, file),
			// Pando sometimes fails its first TLS handshake; a warm-up
			// ping works around it.
			PingURL: "https://pando-rgw01.chpc.utah.edu/"},
		{Name: "pando2",
			URL:     fmt.Sprintf("https://pando-rgw02.chpc.utah.edu/hrrr/%s/%s/%s", run.Product, day, file),
			PingURL: "https://pando-rgw02.chpc.utah.edu/"},
		{Name: "aws-s3",
			// The same Big Data Program bucket, over the S3 API rather
			// than https. Useful inside AWS where it avoids the public
			// endpoint.
			URL: fmt.Sprintf("s3://noaa-hrrr-bdp-pds/hrrr.%s/conus/%s", day, file)},
	}
}

func (hrrrTemplate) LocalFile(run *Run) string { return run.RemoteFileName() }
func (hrrrTemplate) IndexSuffix() string       { return ".idx" }
func (hrrrTemplate) IndexStyle() IndexStyle    { return IndexWgrib2 }
