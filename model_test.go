package awhina

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func templateRun(t *testing.T, spec RunSpec) *Run {
	fixedClock(t, testNow)
	run, err := NewRun(testConfig(t), spec)
	require.NoError(t, err)
	return run
}

func sourceURL(t *testing.T, run *Run, name string) string {
	for _, src := range run.Template().Sources(run) {
		if src.Name == name {
			return src.URL
		}
	}
	t.Fatalf("no source %q for model %s", name, run.Model)
	return ""
}

func TestLookupTemplateIsCaseInsensitive(t *testing.T) {
	assert.NotNil(t, LookupTemplate("HRRR"))
	assert.NotNil(t, LookupTemplate("hrrr"))
	assert.Nil(t, LookupTemplate("nosuch"))
}

func TestModelsAreRegistered(t *testing.T) {
	models := Models()
	for _, want := range []string{"ecmwf", "gefs", "gfs", "hrrr"} {
		assert.Contains(t, models, want)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	assert.Panics(t, func() { Register(hrrrTemplate{}) })
}

func TestHRRRSourceURLs(t *testing.T) {
	run := templateRun(t, RunSpec{
		Model: "hrrr", Product: "sfc", Date: testDate, ForecastHour: 6,
	})

	assert.Equal(t,
		"https://noaa-hrrr-bdp-pds.s3.amazonaws.com/hrrr.20220126/conus/hrrr.t00z.wrfsfcf06.grib2",
		sourceURL(t, run, "aws"))
	assert.Equal(t,
		"https://pando-rgw01.chpc.utah.edu/hrrr/sfc/20220126/hrrr.t00z.wrfsfcf06.grib2",
		sourceURL(t, run, "pando"))
	assert.Equal(t,
		"s3://noaa-hrrr-bdp-pds/hrrr.20220126/conus/hrrr.t00z.wrfsfcf06.grib2",
		sourceURL(t, run, "aws-s3"))

	assert.Equal(t, "hrrr.t00z.wrfsfcf06.grib2", run.Template().LocalFile(run))
}

func TestGFSSourceURLs(t *testing.T) {
	run := templateRun(t, RunSpec{
		Model: "gfs", Product: "pgrb2.0p25", Date: testDate.Add(12 * time.Hour), ForecastHour: 120,
	})

	assert.Equal(t,
		"https://noaa-gfs-bdp-pds.s3.amazonaws.com/gfs.20220126/12/atmos/gfs.t12z.pgrb2.0p25.f120",
		sourceURL(t, run, "aws"))
}

func TestGEFSMemberCodes(t *testing.T) {
	assert.Equal(t, "gec00", memberCode(0))
	assert.Equal(t, "gep03", memberCode(3))
	assert.Equal(t, "gep20", memberCode(20))

	run := templateRun(t, RunSpec{
		Model: "gefs", Product: "pgrb2ap5", Date: testDate, Member: 3, ForecastHour: 6,
	})
	assert.Equal(t,
		"https://noaa-gefs-pds.s3.amazonaws.com/gefs.20220126/00/atmos/pgrb2ap5/gep03.t00z.pgrb2a.0p50.f006",
		sourceURL(t, run, "aws"))
}

func TestECMWFSourceURLs(t *testing.T) {
	run := templateRun(t, RunSpec{
		Model: "ecmwf", Product: "oper", Date: testDate,
	})

	assert.Equal(t,
		"https://ai4edataeuwest.blob.core.windows.net/ecmwf/20220126/00z/0p4-beta/oper/20220126000000-0h-oper-fc.grib2",
		sourceURL(t, run, "azure"))
	assert.Equal(t,
		"https://data.ecmwf.int/forecasts/20220126/00z/0p4-beta/oper/20220126000000-0h-oper-fc.grib2",
		sourceURL(t, run, "ecmwf"))

	// Ensemble products switch the fc suffix to ef.
	enfo := templateRun(t, RunSpec{Model: "ecmwf", Product: "enfo", Date: testDate})
	assert.Contains(t, sourceURL(t, enfo, "azure"), "-enfo-ef.grib2")
}

// The ECMWF index replaces the .grib2 extension rather than appending.
func TestECMWFIndexURL(t *testing.T) {
	run := templateRun(t, RunSpec{Model: "ecmwf", Product: "oper", Date: testDate})
	grib := sourceURL(t, run, "azure")

	assert.Equal(t,
		"https://ai4edataeuwest.blob.core.windows.net/ecmwf/20220126/00z/0p4-beta/oper/20220126000000-0h-oper-fc.index",
		indexURL(grib, run.Template().IndexSuffix(), run.Template().IndexStyle()))
}

func TestECMWFResolveToLocalPath(t *testing.T) {
	fixedClock(t, testNow)
	cfg := testConfig(t)

	run, err := NewRun(cfg, RunSpec{
		Model: "ecmwf", Product: "oper", Date: testDate,
		Priority: []string{"azure", "ecmwf"},
	})
	require.NoError(t, err)

	azureGrib := "https://ai4edataeuwest.blob.core.windows.net/ecmwf/20220126/00z/0p4-beta/oper/20220126000000-0h-oper-fc.grib2"
	p := &fakeProber{
		grib: map[string]bool{azureGrib: true},
		idx: map[string]bool{
			"https://ai4edataeuwest.blob.core.windows.net/ecmwf/20220126/00z/0p4-beta/oper/20220126000000-0h-oper-fc.index": true,
		},
	}
	useFakeProber(t, p)

	res := run.Resolve(false)
	assert.Equal(t, BothFound, res.State())
	assert.Equal(t, "azure", res.Grib.Source)
	assert.Equal(t, "azure", res.Idx.Source)

	assert.Equal(t, filepath.Join(cfg.SaveDir, "ecmwf", "20220126",
		"20220126000000-0h-oper-fc.grib2"), run.LocalPath(nil))
}
