package fahe

import (
	"fmt"
	"strconv"
	"strings"
)

// DataTypes are the column types the package supports
type DataTypes uint8

const (
	DTunknown DataTypes = 0 + iota
	DTint
	DTfloat
	DTstring
)

func (dt DataTypes) String() string {
	switch dt {
	case DTint:
		return "DTint"
	case DTfloat:
		return "DTfloat"
	case DTstring:
		return "DTstring"
	default:
		return "DTunknown"
	}
}

// Vector is a typed slice. The data is one of []int, []float64, []string.
type Vector struct {
	dt DataTypes

	data any
}

func NewVector(data any) (*Vector, error) {
	switch data.(type) {
	case []int:
		return &Vector{dt: DTint, data: data}, nil
	case []float64:
		return &Vector{dt: DTfloat, data: data}, nil
	case []string:
		return &Vector{dt: DTstring, data: data}, nil
	default:
		return nil, fmt.Errorf("unsupported data type in NewVector")
	}
}

func MakeVector(dt DataTypes, n int) *Vector {
	switch dt {
	case DTint:
		return &Vector{dt: dt, data: make([]int, n)}
	case DTfloat:
		return &Vector{dt: dt, data: make([]float64, n)}
	case DTstring:
		return &Vector{dt: dt, data: make([]string, n)}
	default:
		panic(fmt.Errorf("cannot make Vector with data type %s", dt))
	}
}

func (v *Vector) VectorType() DataTypes {
	return v.dt
}

func (v *Vector) AsAny() any {
	return v.data
}

func (v *Vector) SetInt(val, indx int) {
	if v.VectorType() != DTint {
		panic(fmt.Errorf("vector isn't DTint"))
	}

	if indx < 0 || indx >= v.Len() {
		panic(fmt.Errorf("index out of range"))
	}

	v.data.([]int)[indx] = val
}

func (v *Vector) SetFloat(val float64, indx int) {
	if v.VectorType() != DTfloat {
		panic(fmt.Errorf("vector isn't DTfloat"))
	}

	if indx < 0 || indx >= v.Len() {
		panic(fmt.Errorf("index out of range"))
	}

	v.data.([]float64)[indx] = val
}

func (v *Vector) SetString(val string, indx int) {
	if v.VectorType() != DTstring {
		panic(fmt.Errorf("vector isn't DTstring"))
	}

	if indx < 0 || indx >= v.Len() {
		panic(fmt.Errorf("index out of range"))
	}

	v.data.([]string)[indx] = val
}

func (v *Vector) AsInt() []int {
	if v.VectorType() == DTint {
		return v.data.([]int)
	}

	var vx *Vector
	if vx = v.Coerce(DTint); vx == nil {
		panic(fmt.Errorf("cannot convert in Vector.AsInt"))
	}

	return vx.data.([]int)
}

func (v *Vector) AsFloat() []float64 {
	if v.VectorType() == DTfloat {
		return v.data.([]float64)
	}

	if v.VectorType() == DTint {
		xOut := make([]float64, v.Len())
		for ind, xx := range v.data.([]int) {
			xOut[ind] = float64(xx)
		}

		return xOut
	}

	var vx *Vector
	if vx = v.Coerce(DTfloat); vx == nil {
		panic(fmt.Errorf("cannot convert in Vector.AsFloat"))
	}

	return vx.data.([]float64)
}

func (v *Vector) AsString() []string {
	if v.VectorType() == DTstring {
		return v.data.([]string)
	}

	return v.Coerce(DTstring).data.([]string)
}

func (v *Vector) Element(indx int) any {
	if indx < 0 || indx >= v.Len() {
		panic(fmt.Errorf("index out of range"))
	}

	switch v.dt {
	case DTint:
		return v.data.([]int)[indx]
	case DTfloat:
		return v.data.([]float64)[indx]
	case DTstring:
		return v.data.([]string)[indx]
	default:
		panic(fmt.Errorf("error in Element"))
	}
}

func (v *Vector) ElementInt(indx int) int {
	if v.VectorType() == DTint {
		return v.data.([]int)[indx]
	}

	if val, ok := toInt(v.Element(indx)); ok {
		return val.(int)
	}

	panic(fmt.Errorf("element is not int-able"))
}

func (v *Vector) ElementString(indx int) string {
	if v.VectorType() == DTstring {
		return v.data.([]string)[indx]
	}

	if x, ok := toString(v.Element(indx)); ok {
		return x.(string)
	}

	return ""
}

func (v *Vector) Len() int {
	switch v.dt {
	case DTint:
		return len(v.data.([]int))
	case DTfloat:
		return len(v.data.([]float64))
	case DTstring:
		return len(v.data.([]string))
	default:
		panic(fmt.Errorf("unexpected error in Vector.Len"))
	}
}

func (v *Vector) Swap(i, j int) {
	switch v.dt {
	case DTint:
		v.data.([]int)[i], v.data.([]int)[j] = v.data.([]int)[j], v.data.([]int)[i]
	case DTfloat:
		v.data.([]float64)[i], v.data.([]float64)[j] = v.data.([]float64)[j], v.data.([]float64)[i]
	case DTstring:
		v.data.([]string)[i], v.data.([]string)[j] = v.data.([]string)[j], v.data.([]string)[i]
	default:
		panic(fmt.Errorf("unexpected error in Vector.Swap"))
	}
}

func (v *Vector) Less(i, j int) bool {
	switch v.dt {
	case DTint:
		return v.data.([]int)[i] < v.data.([]int)[j]
	case DTfloat:
		return v.data.([]float64)[i] < v.data.([]float64)[j]
	case DTstring:
		return v.data.([]string)[i] < v.data.([]string)[j]
	default:
		panic(fmt.Errorf("unexpected error in Vector.Less"))
	}
}

func (v *Vector) AppendVector(vAdd *Vector) {
	if v.VectorType() != vAdd.VectorType() {
		panic(fmt.Errorf("appending different vector types"))
	}

	switch v.dt {
	case DTint:
		v.data = append(v.data.([]int), vAdd.data.([]int)...)
	case DTfloat:
		v.data = append(v.data.([]float64), vAdd.data.([]float64)...)
	case DTstring:
		v.data = append(v.data.([]string), vAdd.data.([]string)...)
	default:
		panic(fmt.Errorf("unknown type in Vector.AppendVector"))
	}
}

func (v *Vector) Append(data ...any) {
	for ind := 0; ind < len(data); ind++ {
		switch v.dt {
		case DTint:
			var (
				x  any
				ok bool
			)
			if x, ok = toInt(data[ind]); !ok {
				panic(fmt.Errorf("cannot make int in Append"))
			}

			v.data = append(v.data.([]int), x.(int))
		case DTfloat:
			var (
				x  any
				ok bool
			)
			if x, ok = toFloat(data[ind]); !ok {
				panic(fmt.Errorf("cannot make float in Append"))
			}

			v.data = append(v.data.([]float64), x.(float64))
		case DTstring:
			var (
				x  any
				ok bool
			)
			if x, ok = toString(data[ind]); !ok {
				panic(fmt.Errorf("cannot make string in Append"))
			}

			v.data = append(v.data.([]string), x.(string))
		}
	}
}

func (v *Vector) Copy() *Vector {
	vCopy := &Vector{dt: v.dt}
	switch v.dt {
	case DTint:
		x := make([]int, v.Len())
		copy(x, v.data.([]int))
		vCopy.data = x
	case DTfloat:
		x := make([]float64, v.Len())
		copy(x, v.data.([]float64))
		vCopy.data = x
	case DTstring:
		x := make([]string, v.Len())
		copy(x, v.data.([]string))
		vCopy.data = x
	default:
		panic(fmt.Errorf("unexpected error in Vector.Copy"))
	}

	return vCopy
}

// Where returns the elements of v for which indic is positive
func (v *Vector) Where(indic *Vector) *Vector {
	outVec := MakeVector(v.VectorType(), 0)
	for ind := 0; ind < v.Len(); ind++ {
		if indic.ElementInt(ind) > 0 {
			outVec.Append(v.Element(ind))
		}
	}

	return outVec
}

func (v *Vector) Coerce(to DataTypes) *Vector {
	xOut := MakeVector(to, v.Len())
	for ind := 0; ind < v.Len(); ind++ {
		vIn := v.Element(ind)
		switch to {
		case DTint:
			if vOut, ok := toInt(vIn); ok {
				xOut.SetInt(vOut.(int), ind)
				continue
			}

			return nil
		case DTfloat:
			if vOut, ok := toFloat(vIn); ok {
				xOut.SetFloat(vOut.(float64), ind)
				continue
			}

			return nil
		case DTstring:
			if vOut, ok := toString(vIn); ok {
				xOut.SetString(vOut.(string), ind)
				continue
			}

			return nil
		}
	}

	return xOut
}

// ***************** conversions *****************

func toInt(x any) (any, bool) {
	switch v := x.(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	case string:
		xx, e := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if e != nil {
			return nil, false
		}

		return int(xx), true
	}

	return nil, false
}

func toFloat(x any) (any, bool) {
	switch v := x.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		xx, e := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if e != nil {
			return nil, false
		}

		return xx, true
	}

	return nil, false
}

func toString(x any) (any, bool) {
	switch v := x.(type) {
	case string:
		return v, true
	case int:
		return strconv.Itoa(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}

	return nil, false
}
