// The Global Ensemble Forecast System model.

package awhina

import "fmt"

func init() { Register(gefsTemplate{}) }

type gefsTemplate struct{}

func (gefsTemplate) Model() string       { return "gefs" }
func (gefsTemplate) Description() string { return "Global Ensemble Forecast System (GEFS)" }

func (gefsTemplate) Products() []Product {
	return []Product{
		{"pgrb2ap5", "most common variables, 0.50 degree resolution"},
		{"pgrb2bp5", "less common variables, 0.50 degree resolution"},
		{"pgrb2sp25", "select variables, 0.25 degree resolution"},
	}
}

// memberCode renders the ensemble member the way GEFS filenames spell it:
// member 0 is the control run, the rest are perturbation members.
func memberCode(member int) string {
	if member == 0 {
		return "gec00"
	}
	return fmt.Sprintf("gep%02d", member)
}

func (gefsTemplate) Sources(run *Run) []Source {
	dir := run.Date.Format("20060102/15")

	var res string
	switch run.Product {
	case "pgrb2ap5":
		res = "pgrb2a.0p50"
	case "pgrb2bp5":
		res = "pgrb2b.0p50"
	default:
		res = "pgrb2s.0p25"
	}
	file := fmt.Sprintf("%s.t%sz.%s.f%03d",
		memberCode(run.Member), run.Date.Format("15"), res, run.ForecastHour)

	return []Source{
		{Name: "aws",
			URL: fmt.Sprintf("https://noaa-gefs-pds.s3.amazonaws.com/gefs.%s/atmos/%s/%s", dir, run.Product, file)},
		{Name: "aws-s3",
			URL: fmt.Sprintf("s3://noaa-gefs-pds/gefs.%s/atmos/%s/%s", dir, run.Product, file)},
	}
}

func (gefsTemplate) LocalFile(run *Run) string { return run.RemoteFileName() }
func (gefsTemplate) IndexSuffix() string       { return ".idx" }
func (gefsTemplate) IndexStyle() IndexStyle    { return IndexWgrib2 }
