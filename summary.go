package fahe

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Summary holds the usual one-column description.
type Summary struct {
	Min    float64
	LQ     float64
	Median float64
	Mean   float64
	UQ     float64
	Max    float64
	N      int
}

// Summarize describes a numeric column: min, lower quartile, median, mean,
// upper quartile, max and count.
func (f *Frame) Summarize(colName string) (*Summary, error) {
	var (
		col *Column
		e   error
	)
	if col, e = f.Column(colName); e != nil {
		return nil, e
	}

	if col.VectorType() == DTstring {
		return nil, fmt.Errorf("column %s is not numeric", colName)
	}

	if col.Len() == 0 {
		return nil, fmt.Errorf("column %s is empty", colName)
	}

	x := make([]float64, col.Len())
	copy(x, col.AsFloat())
	sort.Float64s(x)

	s := &Summary{
		Min:    x[0],
		LQ:     stat.Quantile(0.25, 4, x, nil),
		Median: stat.Quantile(0.5, 4, x, nil),
		Mean:   stat.Mean(x, nil),
		UQ:     stat.Quantile(0.75, 4, x, nil),
		Max:    x[len(x)-1],
		N:      col.Len(),
	}

	return s, nil
}

func (s *Summary) String() string {
	cats := []string{"min", "lq", "median", "mean", "uq", "max", "n"}
	vals := []float64{s.Min, s.LQ, s.Median, s.Mean, s.UQ, s.Max, float64(s.N)}

	var lines []string
	for ind := 0; ind < len(cats); ind++ {
		lines = append(lines, fmt.Sprintf("%-8s %v", cats[ind], vals[ind]))
	}

	return strings.Join(lines, "\n")
}
