package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fultonring/fahe"
)

func aggregateFrame(t *testing.T) *fahe.Frame {
	year, _ := fahe.NewColumn("year", []int{2020})
	county, _ := fahe.NewColumn("county", []string{"Bibb"})
	state, _ := fahe.NewColumn("state_name", []string{"Alabama"})
	fips, _ := fahe.NewColumn("county_fips", []string{"1007"})
	dollars, _ := fahe.NewColumn("total_502_investment_dollars", []int{303030})

	df, e := fahe.NewFrame(year, county, state, fips, dollars)
	assert.Nil(t, e)

	return df
}

func TestCreateSQL(t *testing.T) {
	df := aggregateFrame(t)

	dCH, e1 := NewDialect("clickhouse", nil)
	assert.Nil(t, e1)

	sqlCH, e2 := dCH.CreateSQL("investment_502", "year", df)
	assert.Nil(t, e2)
	assert.Equal(t,
		`CREATE TABLE investment_502 ("year" Int64,"county" String,"state_name" String,`+
			`"county_fips" String,"total_502_investment_dollars" Int64) `+
			`ENGINE = MergeTree() ORDER BY ("year")`,
		sqlCH)

	dPG, e3 := NewDialect("postgres", nil)
	assert.Nil(t, e3)

	sqlPG, e4 := dPG.CreateSQL("investment_502", "", df)
	assert.Nil(t, e4)
	assert.Equal(t,
		`CREATE TABLE investment_502 ("year" BIGINT,"county" TEXT,"state_name" TEXT,`+
			`"county_fips" TEXT,"total_502_investment_dollars" BIGINT)`,
		sqlPG)

	// orderBy must name real columns
	_, e5 := dCH.CreateSQL("investment_502", "nope", df)
	assert.NotNil(t, e5)
}

func TestNewDialect_Unknown(t *testing.T) {
	_, e := NewDialect("mysql", nil)
	assert.NotNil(t, e)
}

func TestToString(t *testing.T) {
	d, _ := NewDialect("clickhouse", nil)

	assert.Equal(t, "303030", d.ToString(303030))
	assert.Equal(t, "1.5", d.ToString(1.5))
	assert.Equal(t, "'Bibb'", d.ToString("Bibb"))
	assert.Equal(t, "'O''Brien'", d.ToString("O'Brien"))
}

func TestCredsFromEnv(t *testing.T) {
	creds, e := CredsFromEnv()
	assert.Nil(t, e)
	assert.Equal(t, "clickhouse", creds.Dialect)
	assert.Equal(t, "127.0.0.1", creds.Host)

	t.Setenv("FAHE_DB_DIALECT", "postgres")
	t.Setenv("FAHE_DB_PORT", "5432")

	creds2, e2 := CredsFromEnv()
	assert.Nil(t, e2)
	assert.Equal(t, "postgres", creds2.Dialect)
	assert.Equal(t, 5432, creds2.Port)
}
