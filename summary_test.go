package fahe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrame_Summarize(t *testing.T) {
	dollars, _ := NewColumn("dollars", []int{10, 20, 30, 40, 50})
	county, _ := NewColumn("county", []string{"a", "b", "c", "d", "e"})
	df, _ := NewFrame(dollars, county)

	s, e := df.Summarize("dollars")
	assert.Nil(t, e)
	assert.Equal(t, 5, s.N)
	assert.Equal(t, 10.0, s.Min)
	assert.Equal(t, 50.0, s.Max)
	assert.Equal(t, 30.0, s.Mean)
	assert.Equal(t, 30.0, s.Median)

	_, e2 := df.Summarize("county")
	assert.NotNil(t, e2)

	_, e3 := df.Summarize("missing")
	assert.NotNil(t, e3)
}
