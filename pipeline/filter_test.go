package pipeline

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fultonring/fahe"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, contents string) string {
	fileName := filepath.Join(dir, name)
	assert.Nil(t, os.WriteFile(fileName, []byte(contents), 0o644))

	return fileName
}

const cleanedHeader = "fiscal_year,state_name,county,zip_code,county_fips," +
	"funding_code,program_area,investment_dollars,number_of_investments"

func TestFilter(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Filter.In = filepath.Join(dir, "cleaned")
	cfg.Filter.Out = filepath.Join(dir, "filtered")
	assert.Nil(t, os.MkdirAll(cfg.Filter.In, 0o755))

	writeFile(t, cfg.Filter.In, "al.csv",
		cleanedHeader+",extra\n"+
			"2020,Alabama,Bibb,\"35034\",\"1007\",502 Direct,SFH,\"$100,000\",1,x\n"+
			"2020,Alabama,Bibb,\"35034\",\"1007\",521,MFH,50000,2,y\n"+
			"2021,Alabama,Clay,\"36251\",\"1027\",RHS-502,SFH,75000,1,z\n")

	// no 502 records at all: output still gets the header
	writeFile(t, cfg.Filter.In, "empty.csv",
		cleanedHeader+"\n"+
			"2020,Alabama,Bibb,\"35034\",\"1007\",521,MFH,50000,2\n")

	// no funding_code column: counted as failed
	writeFile(t, cfg.Filter.In, "bad.csv", "a,b\n1,2\n")

	res, e := Filter(context.Background(), cfg, testLogger())
	assert.Nil(t, e)
	assert.Equal(t, 3, res.Files)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 2, res.Records)

	f, _ := fahe.NewFiles(fahe.FileTypes(map[string]fahe.DataTypes{
		"county_fips": fahe.DTstring,
		"zip_code":    fahe.DTstring,
	}))

	df, e2 := f.Load(filepath.Join(cfg.Filter.Out, "al.csv"))
	assert.Nil(t, e2)
	assert.Equal(t, 2, df.RowCount())

	// the extra column is gone and the analysis columns survive in order
	assert.Equal(t, []string{"fiscal_year", "state_name", "county", "zip_code",
		"county_fips", "funding_code", "program_area", "investment_dollars",
		"number_of_investments"}, df.ColumnNames())

	funding, _ := df.Column("funding_code")
	assert.Equal(t, []string{"502 Direct", "RHS-502"}, funding.AsString())

	fips, _ := df.Column("county_fips")
	assert.Equal(t, fahe.DTstring, fips.VectorType())

	dfEmpty, e3 := f.Load(filepath.Join(cfg.Filter.Out, "empty.csv"))
	assert.Nil(t, e3)
	assert.Equal(t, 0, dfEmpty.RowCount())
	assert.Equal(t, 9, dfEmpty.ColumnCount())

	// the failed file produced no output
	_, e4 := os.Stat(filepath.Join(cfg.Filter.Out, "bad.csv"))
	assert.NotNil(t, e4)
}

func TestFilter_NoFiles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Filter.In = t.TempDir()
	cfg.Filter.Out = filepath.Join(cfg.Filter.In, "out")

	_, e := Filter(context.Background(), cfg, testLogger())
	assert.NotNil(t, e)
}
