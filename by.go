package fahe

import (
	"fmt"
	"strings"
)

// By groups the rows of f by the comma-separated columns in groupBy and
// calculates one output column per equation. Equations have the form
//
//	result := op(col)
//
// where op is one of sum, count, mean, min, max. The output frame has one
// row per distinct value of the groupBy columns and is sorted by them.
// An empty groupBy produces a single all-row summary.
func (f *Frame) By(groupBy string, eqns ...string) (*Frame, error) {
	var gbCols []*Column

	var gbNames []string
	if groupBy != "" {
		gbNames = strings.Split(strings.ReplaceAll(groupBy, " ", ""), ",")
	}

	for ind := 0; ind < len(gbNames); ind++ {
		var (
			col *Column
			e   error
		)
		if col, e = f.Column(gbNames[ind]); e != nil {
			return nil, e
		}

		gbCols = append(gbCols, col)
	}

	if eqns == nil {
		return nil, fmt.Errorf("no equations in By")
	}

	var aggs []*agg
	for ind := 0; ind < len(eqns); ind++ {
		var (
			a *agg
			e error
		)
		if a, e = parseAgg(eqns[ind]); e != nil {
			return nil, e
		}

		if has(a.result, gbNames) {
			return nil, fmt.Errorf("result %s duplicates a grouping column", a.result)
		}

		if _, e = f.Column(a.source); e != nil {
			return nil, e
		}

		aggs = append(aggs, a)
	}

	// map each row to its group
	const keySep = "\x1f"

	groupOf := make(map[string]int)
	var rowsOf [][]int

	for row := 0; row < f.RowCount(); row++ {
		var parts []string
		for ind := 0; ind < len(gbCols); ind++ {
			parts = append(parts, gbCols[ind].ElementString(row))
		}

		key := strings.Join(parts, keySep)
		grp, ok := groupOf[key]
		if !ok {
			grp = len(rowsOf)
			groupOf[key] = grp
			rowsOf = append(rowsOf, nil)
		}

		rowsOf[grp] = append(rowsOf[grp], row)
	}

	// an empty groupBy leaves a single group holding every row
	nGrp := len(rowsOf)

	var outCols []*Column

	for ind := 0; ind < len(gbCols); ind++ {
		v := MakeVector(gbCols[ind].VectorType(), nGrp)
		for grp := 0; grp < nGrp; grp++ {
			switch gbCols[ind].VectorType() {
			case DTint:
				v.SetInt(gbCols[ind].ElementInt(rowsOf[grp][0]), grp)
			case DTfloat:
				v.SetFloat(gbCols[ind].AsFloat()[rowsOf[grp][0]], grp)
			case DTstring:
				v.SetString(gbCols[ind].ElementString(rowsOf[grp][0]), grp)
			}
		}

		outCols = append(outCols, &Column{name: gbCols[ind].Name(), Vector: v})
	}

	for ind := 0; ind < len(aggs); ind++ {
		var (
			col *Column
			e   error
		)
		if col, e = aggs[ind].apply(f, rowsOf); e != nil {
			return nil, e
		}

		outCols = append(outCols, col)
	}

	var (
		outDF *Frame
		e     error
	)
	if outDF, e = NewFrame(outCols...); e != nil {
		return nil, e
	}

	if gbNames != nil {
		if e = outDF.Sort(gbNames...); e != nil {
			return nil, e
		}
	}

	return outDF, nil
}

// ***************** aggregation ops *****************

type agg struct {
	result string
	op     string
	source string
}

func parseAgg(eqn string) (*agg, error) {
	indx := strings.Index(eqn, ":=")
	if indx <= 0 {
		return nil, fmt.Errorf("missing := in %s", eqn)
	}

	result := strings.TrimSpace(eqn[:indx])
	right := strings.TrimSpace(eqn[indx+2:])

	open := strings.Index(right, "(")
	if open <= 0 || !strings.HasSuffix(right, ")") {
		return nil, fmt.Errorf("cannot parse %s", eqn)
	}

	a := &agg{
		result: result,
		op:     strings.TrimSpace(right[:open]),
		source: strings.TrimSpace(right[open+1 : len(right)-1]),
	}

	if !has(a.op, []string{"sum", "count", "mean", "min", "max"}) {
		return nil, fmt.Errorf("unknown op %s in %s", a.op, eqn)
	}

	if !validName(a.result) || a.source == "" {
		return nil, fmt.Errorf("cannot parse %s", eqn)
	}

	return a, nil
}

func (a *agg) apply(f *Frame, rowsOf [][]int) (*Column, error) {
	src, _ := f.Column(a.source)

	switch a.op {
	case "count":
		v := MakeVector(DTint, len(rowsOf))
		for grp := 0; grp < len(rowsOf); grp++ {
			v.SetInt(len(rowsOf[grp]), grp)
		}

		return &Column{name: a.result, Vector: v}, nil
	case "mean":
		if src.VectorType() == DTstring {
			return nil, fmt.Errorf("mean needs a numeric column, got %s", a.source)
		}

		x := src.AsFloat()
		v := MakeVector(DTfloat, len(rowsOf))
		for grp := 0; grp < len(rowsOf); grp++ {
			total := 0.0
			for _, row := range rowsOf[grp] {
				total += x[row]
			}

			v.SetFloat(total/float64(len(rowsOf[grp])), grp)
		}

		return &Column{name: a.result, Vector: v}, nil
	case "sum":
		switch src.VectorType() {
		case DTint:
			x := src.AsInt()
			v := MakeVector(DTint, len(rowsOf))
			for grp := 0; grp < len(rowsOf); grp++ {
				total := 0
				for _, row := range rowsOf[grp] {
					total += x[row]
				}

				v.SetInt(total, grp)
			}

			return &Column{name: a.result, Vector: v}, nil
		case DTfloat:
			x := src.AsFloat()
			v := MakeVector(DTfloat, len(rowsOf))
			for grp := 0; grp < len(rowsOf); grp++ {
				total := 0.0
				for _, row := range rowsOf[grp] {
					total += x[row]
				}

				v.SetFloat(total, grp)
			}

			return &Column{name: a.result, Vector: v}, nil
		default:
			return nil, fmt.Errorf("sum needs a numeric column, got %s", a.source)
		}
	case "min", "max":
		v := MakeVector(src.VectorType(), len(rowsOf))
		for grp := 0; grp < len(rowsOf); grp++ {
			best := rowsOf[grp][0]
			for _, row := range rowsOf[grp][1:] {
				extreme := src.Vector.Less(row, best)
				if a.op == "max" {
					extreme = src.Vector.Less(best, row)
				}

				if extreme {
					best = row
				}
			}

			switch src.VectorType() {
			case DTint:
				v.SetInt(src.ElementInt(best), grp)
			case DTfloat:
				v.SetFloat(src.AsFloat()[best], grp)
			case DTstring:
				v.SetString(src.ElementString(best), grp)
			}
		}

		return &Column{name: a.result, Vector: v}, nil
	}

	return nil, fmt.Errorf("unknown op %s", a.op)
}
