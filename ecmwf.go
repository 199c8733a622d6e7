// The ECMWF open-data forecasts.
//
// Published under CC BY 4.0: © European Centre for Medium-Range Weather
// Forecasts (ECMWF).

package awhina

import "fmt"

func init() { Register(ecmwfTemplate{}) }

type ecmwfTemplate struct{}

// ecmwfVersion names the grid resolution directory in the open-data layout.
// TODO: bump when ECMWF promotes the beta to plain 0p4.
const ecmwfVersion = "0p4-beta"

func (ecmwfTemplate) Model() string       { return "ecmwf" }
func (ecmwfTemplate) Description() string { return "ECMWF open data" }

func (ecmwfTemplate) Products() []Product {
	return []Product{
		{"oper", "operational high-resolution forecast, atmospheric fields"},
		{"enfo", "ensemble forecast, atmospheric fields"},
		{"wave", "wave forecasts"},
		{"waef", "ensemble forecast, ocean wave fields"},
	}
}

func (ecmwfTemplate) Sources(run *Run) []Source {
	// Ensemble products use a different type suffix.
	suffix := "fc"
	if run.Product == "enfo" || run.Product == "waef" {
		suffix = "ef"
	}

	// e.g. 20220126/00z/0p4-beta/oper/20220126000000-0h-oper-fc.grib2
	postRoot := fmt.Sprintf("%s/%sz/%s/%s/%s-%dh-%s-%s.grib2",
		run.Date.Format("20060102"), run.Date.Format("15"), ecmwfVersion,
		run.Product, run.Date.Format("20060102150405"), run.ForecastHour,
		run.Product, suffix)

	return []Source{
		{Name: "azure",
			URL: "https://ai4edataeuwest.blob.core.windows.net/ecmwf/" + postRoot},
		{Name: "ecmwf",
			URL: "https://data.ecmwf.int/forecasts/" + postRoot},
	}
}

func (ecmwfTemplate) LocalFile(run *Run) string { return run.RemoteFileName() }
func (ecmwfTemplate) IndexSuffix() string       { return ".index" }
func (ecmwfTemplate) IndexStyle() IndexStyle    { return IndexEccodes }
