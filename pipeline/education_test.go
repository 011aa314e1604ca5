package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const acsHeader = "GEO_ID,NAME,S1501_C01_003E,S1501_C02_003E," +
	"S1501_C01_005E,S1501_C02_005E,S1501_C01_059E"

const acsLabelRow = "Geography,\"Geographic Area Name\",lbl,lbl,lbl,lbl,lbl"

func educationConfig(t *testing.T) *Config {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Education.In = filepath.Join(dir, "georgia")
	cfg.Education.Out = filepath.Join(dir, "georgia.csv")
	cfg.Education.Counties = filepath.Join(dir, "appalachian_counties.csv")
	cfg.Education.State = "Georgia"
	assert.Nil(t, os.MkdirAll(cfg.Education.In, 0o755))

	writeFile(t, dir, "appalachian_counties.csv",
		"state,county\nGeorgia,Fannin\nGeorgia,Gilmer\nAlabama,Bibb\n")

	return cfg
}

func TestEducation(t *testing.T) {
	cfg := educationConfig(t)

	writeFile(t, cfg.Education.In, "ACSST5Y2016.S1501-Data.csv",
		acsHeader+"\n"+acsLabelRow+"\n"+
			"0500000US13111,\"Fannin County, Georgia\",100,50.0,30,15.0,25000\n"+
			"0500000US13121,\"Fulton County, Georgia\",999,99.0,99,99.0,99999\n")

	writeFile(t, cfg.Education.In, "ACSST5Y2020.S1501-Data.csv",
		acsHeader+"\n"+acsLabelRow+"\n"+
			"0500000US13111,\"Fannin County, Georgia\",120,55.0,35,18.0,27000\n"+
			"0500000US13123,\"Gilmer County, Georgia\",80,45.0,20,12.0,23000\n")

	df, e := Education(cfg, testLogger())
	assert.Nil(t, e)

	// Fulton is not Appalachian; the label rows are dropped
	assert.Equal(t, 3, df.RowCount())

	assert.Equal(t, []string{"GEO_ID", "NAME", "state", "county", "year",
		"Adults(18-24) with High School",
		"Percent Adults(18-24) with High School",
		"Adults(18-24) with College Degree",
		"Percent Adults(18-24) with College Degree",
		"Total Median Earnings"}, df.ColumnNames())

	year, _ := df.Column("year")
	county, _ := df.Column("county")
	state, _ := df.Column("state")

	assert.Equal(t, []int{2016, 2020, 2020}, year.AsInt())
	assert.Equal(t, []string{"Fannin", "Fannin", "Gilmer"}, county.AsString())
	assert.Equal(t, []string{"Georgia", "Georgia", "Georgia"}, state.AsString())

	hs, _ := df.Column("Adults(18-24) with High School")
	assert.Equal(t, []string{"100", "120", "80"}, hs.AsString())

	// written out too
	_, e2 := os.Stat(cfg.Education.Out)
	assert.Nil(t, e2)
}

func TestEducation_NoState(t *testing.T) {
	cfg := educationConfig(t)
	cfg.Education.State = ""

	_, e := Education(cfg, testLogger())
	assert.NotNil(t, e)
}

func TestEducation_UnknownState(t *testing.T) {
	cfg := educationConfig(t)
	cfg.Education.State = "Ohio"

	writeFile(t, cfg.Education.In, "ACSST5Y2016.csv",
		acsHeader+"\n"+acsLabelRow+"\n"+
			"0500000US13111,\"Fannin County, Georgia\",100,50.0,30,15.0,25000\n")

	_, e := Education(cfg, testLogger())
	assert.NotNil(t, e)
}

func TestYearFromName(t *testing.T) {
	y1, e1 := yearFromName("ACSST5Y2016.S1501-Data.csv")
	assert.Nil(t, e1)
	assert.Equal(t, 2016, y1)

	y2, e2 := yearFromName("georgia_16.csv")
	assert.Nil(t, e2)
	assert.Equal(t, 2016, y2)

	_, e3 := yearFromName("georgia.csv")
	assert.NotNil(t, e3)
}
