package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFinalize(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Finalize.In = filepath.Join(dir, "filtered")
	cfg.Finalize.Out = filepath.Join(dir, "final")
	assert.Nil(t, os.MkdirAll(cfg.Finalize.In, 0o755))

	writeFile(t, cfg.Finalize.In, "al.csv",
		cleanedHeader+"\n"+
			"2020,Alabama,Bibb,\"35034\",\"FIPS 1007\",502,SFH,\"$303,030.00\",3\n"+
			"2021,Alabama,Clay,\"36251\",\"1027\",502,SFH,N/A,x\n")

	res, e := Finalize(context.Background(), cfg, testLogger())
	assert.Nil(t, e)
	assert.Equal(t, 1, res.Files)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, 2, res.Records)

	// the published CSV contract: header unquoted, only county_fips quoted,
	// dollars and counts as bare ints
	b, e2 := os.ReadFile(filepath.Join(cfg.Finalize.Out, "al.csv"))
	assert.Nil(t, e2)
	assert.Equal(t,
		"year,county,state_name,county_fips,502_investment_dollars,number_of_502_investment\n"+
			"2020,Bibb,Alabama,\"1007\",303030,3\n"+
			"2021,Clay,Alabama,\"1027\",0,0\n",
		string(b))
}

func TestFinalize_MissingColumns(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Finalize.In = filepath.Join(dir, "filtered")
	cfg.Finalize.Out = filepath.Join(dir, "final")
	assert.Nil(t, os.MkdirAll(cfg.Finalize.In, 0o755))

	// no county column
	writeFile(t, cfg.Finalize.In, "bad.csv",
		"fiscal_year,state_name,investment_dollars,number_of_investments\n"+
			"2020,Alabama,100,1\n")

	res, e := Finalize(context.Background(), cfg, testLogger())
	assert.Nil(t, e)
	assert.Equal(t, 1, res.Failed)
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, 303030, parseAmount("$303,030.00"))
	assert.Equal(t, 1500, parseAmount(" 1,500 "))
	assert.Equal(t, 7, parseAmount("7"))
	assert.Equal(t, 0, parseAmount("N/A"))
	assert.Equal(t, 0, parseAmount(""))
}
