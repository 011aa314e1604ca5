package fahe

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildFrame(t *testing.T) *Frame {
	year, e1 := NewColumn("year", []int{2021, 2020, 2020, 2021})
	assert.Nil(t, e1)

	county, e2 := NewColumn("county", []string{"Bell", "Adair", "Bell", "Adair"})
	assert.Nil(t, e2)

	dollars, e3 := NewColumn("dollars", []int{400, 100, 300, 200})
	assert.Nil(t, e3)

	df, e4 := NewFrame(year, county, dollars)
	assert.Nil(t, e4)

	return df
}

func TestNewFrame(t *testing.T) {
	df := buildFrame(t)

	assert.Equal(t, 4, df.RowCount())
	assert.Equal(t, 3, df.ColumnCount())
	assert.Equal(t, []string{"year", "county", "dollars"}, df.ColumnNames())

	// duplicate names are rejected
	dup, _ := NewColumn("year", []int{1, 2, 3, 4})
	assert.NotNil(t, df.AppendColumn(dup))

	// length mismatches are rejected
	short, _ := NewColumn("short", []int{1})
	assert.NotNil(t, df.AppendColumn(short))
}

func TestFrame_Sort(t *testing.T) {
	df := buildFrame(t)

	e := df.Sort("year", "county")
	assert.Nil(t, e)

	year, _ := df.Column("year")
	county, _ := df.Column("county")
	dollars, _ := df.Column("dollars")

	assert.Equal(t, []int{2020, 2020, 2021, 2021}, year.AsInt())
	assert.Equal(t, []string{"Adair", "Bell", "Adair", "Bell"}, county.AsString())
	assert.Equal(t, []int{100, 300, 200, 400}, dollars.AsInt())

	assert.NotNil(t, df.Sort("missing"))
}

func TestFrame_AppendRows(t *testing.T) {
	df := buildFrame(t)

	// same columns, different order
	dollars, _ := NewColumn("dollars", []int{500})
	county, _ := NewColumn("county", []string{"Clay"})
	year, _ := NewColumn("year", []int{2022})
	df2, e1 := NewFrame(dollars, county, year)
	assert.Nil(t, e1)

	e2 := df.AppendRows(df2)
	assert.Nil(t, e2)
	assert.Equal(t, 5, df.RowCount())

	countyOut, _ := df.Column("county")
	assert.Equal(t, "Clay", countyOut.ElementString(4))

	// type mismatch
	badYear, _ := NewColumn("year", []string{"2022"})
	badCounty, _ := NewColumn("county", []string{"Clay"})
	badDollars, _ := NewColumn("dollars", []int{1})
	df3, _ := NewFrame(badYear, badCounty, badDollars)
	assert.NotNil(t, df.AppendRows(df3))
}

func TestFrame_Where(t *testing.T) {
	df := buildFrame(t)

	year, _ := df.Column("year")
	indic := MakeVector(DTint, df.RowCount())
	for ind := 0; ind < df.RowCount(); ind++ {
		if year.ElementInt(ind) == 2020 {
			indic.SetInt(1, ind)
		}
	}

	sub, e := df.Where(indic)
	assert.Nil(t, e)
	assert.Equal(t, 2, sub.RowCount())

	county, _ := sub.Column("county")
	assert.Equal(t, []string{"Adair", "Bell"}, county.AsString())

	// original frame is untouched
	assert.Equal(t, 4, df.RowCount())
}

func TestFrame_KeepDrop(t *testing.T) {
	df := buildFrame(t)

	sub, e1 := df.KeepColumns("county", "dollars")
	assert.Nil(t, e1)
	assert.Equal(t, []string{"county", "dollars"}, sub.ColumnNames())

	_, e2 := df.KeepColumns("nope")
	assert.NotNil(t, e2)

	e3 := df.DropColumns("year")
	assert.Nil(t, e3)
	assert.Equal(t, []string{"county", "dollars"}, df.ColumnNames())
}

func TestVector_Coerce(t *testing.T) {
	v, e := NewVector([]string{"1", "2", "3"})
	assert.Nil(t, e)

	vi := v.Coerce(DTint)
	assert.Equal(t, []int{1, 2, 3}, vi.AsInt())

	vb, _ := NewVector([]string{"1", "x"})
	assert.Nil(t, vb.Coerce(DTint))
}

func ExampleFrame_Sort() {
	year, _ := NewColumn("year", []int{2021, 2020})
	county, _ := NewColumn("county", []string{"Bell", "Adair"})
	df, _ := NewFrame(year, county)

	_ = df.Sort("year")
	for row := 0; row < df.RowCount(); row++ {
		fmt.Println(df.Row(row))
	}
	// Output:
	// [2020 Adair]
	// [2021 Bell]
}
