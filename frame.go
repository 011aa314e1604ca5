// Package fahe is a small column-oriented dataframe built for the FAHE
// socioeconomic data pipelines. A Frame holds typed Columns and supports
// row selection, multi-key sorting, group-by aggregation and CSV I/O.
package fahe

import (
	"fmt"
	"sort"
	"strings"
)

// Column is a named Vector.
type Column struct {
	name string

	*Vector
}

func NewColumn(name string, data any) (*Column, error) {
	var (
		v *Vector
		e error
	)
	if v, e = NewVector(data); e != nil {
		return nil, e
	}

	return &Column{name: name, Vector: v}, nil
}

func (c *Column) Name() string {
	return c.name
}

func (c *Column) Rename(newName string) error {
	if !validName(newName) {
		return fmt.Errorf("invalid column name: %s", newName)
	}

	c.name = newName

	return nil
}

func (c *Column) Copy() *Column {
	return &Column{name: c.name, Vector: c.Vector.Copy()}
}

// Frame is an ordered set of Columns, all the same length.
type Frame struct {
	cols []*Column

	by []*Column
}

func NewFrame(cols ...*Column) (*Frame, error) {
	if cols == nil {
		return nil, fmt.Errorf("no columns in NewFrame")
	}

	f := &Frame{}
	for ind := 0; ind < len(cols); ind++ {
		if e := f.AppendColumn(cols[ind]); e != nil {
			return nil, e
		}
	}

	return f, nil
}

func (f *Frame) RowCount() int {
	return f.cols[0].Len()
}

func (f *Frame) ColumnCount() int {
	return len(f.cols)
}

func (f *Frame) ColumnNames() []string {
	var names []string
	for ind := 0; ind < len(f.cols); ind++ {
		names = append(names, f.cols[ind].Name())
	}

	return names
}

func (f *Frame) Column(colName string) (*Column, error) {
	for ind := 0; ind < len(f.cols); ind++ {
		if f.cols[ind].Name() == colName {
			return f.cols[ind], nil
		}
	}

	return nil, fmt.Errorf("column %s not found", colName)
}

func (f *Frame) HasColumns(colNames ...string) bool {
	for _, nm := range colNames {
		if _, e := f.Column(nm); e != nil {
			return false
		}
	}

	return true
}

func (f *Frame) AppendColumn(col *Column) error {
	if col == nil {
		return fmt.Errorf("nil column in AppendColumn")
	}

	if has(col.Name(), f.ColumnNames()) {
		return fmt.Errorf("duplicate column name: %s", col.Name())
	}

	if f.cols != nil && col.Len() != f.RowCount() {
		return fmt.Errorf("length mismatch: frame - %d, append col - %d", f.RowCount(), col.Len())
	}

	f.cols = append(f.cols, col)

	return nil
}

func (f *Frame) DropColumns(colNames ...string) error {
	for _, cName := range colNames {
		if !f.HasColumns(cName) {
			return fmt.Errorf("column %s not found", cName)
		}

		if len(f.cols) == 1 {
			return fmt.Errorf("no columns left")
		}

		var keep []*Column
		for ind := 0; ind < len(f.cols); ind++ {
			if f.cols[ind].Name() != cName {
				keep = append(keep, f.cols[ind])
			}
		}

		f.cols = keep
	}

	return nil
}

// KeepColumns returns a new Frame with only colNames, in that order.
// The columns are shared, not copied.
func (f *Frame) KeepColumns(colNames ...string) (*Frame, error) {
	var cols []*Column
	for ind := 0; ind < len(colNames); ind++ {
		var (
			col *Column
			e   error
		)
		if col, e = f.Column(colNames[ind]); e != nil {
			return nil, e
		}

		cols = append(cols, col)
	}

	return NewFrame(cols...)
}

func (f *Frame) Copy() *Frame {
	var cols []*Column
	for ind := 0; ind < len(f.cols); ind++ {
		cols = append(cols, f.cols[ind].Copy())
	}

	fCopy, _ := NewFrame(cols...)

	return fCopy
}

// Row returns row indx as one value per column.
func (f *Frame) Row(indx int) []any {
	var row []any
	for ind := 0; ind < len(f.cols); ind++ {
		row = append(row, f.cols[ind].Element(indx))
	}

	return row
}

// AppendRows appends the rows of fAdd, matching columns by name.
// The two frames must have the same column names and types.
func (f *Frame) AppendRows(fAdd *Frame) error {
	if f.ColumnCount() != fAdd.ColumnCount() {
		return fmt.Errorf("append frames must have same columns")
	}

	for ind := 0; ind < len(f.cols); ind++ {
		var (
			colAdd *Column
			e      error
		)
		if colAdd, e = fAdd.Column(f.cols[ind].Name()); e != nil {
			return e
		}

		if colAdd.VectorType() != f.cols[ind].VectorType() {
			return fmt.Errorf("append columns must have same type, got %s and %s for %s",
				f.cols[ind].VectorType(), colAdd.VectorType(), f.cols[ind].Name())
		}
	}

	for ind := 0; ind < len(f.cols); ind++ {
		colAdd, _ := fAdd.Column(f.cols[ind].Name())
		f.cols[ind].AppendVector(colAdd.Vector)
	}

	return nil
}

// Where returns the rows of f for which indic is positive.
func (f *Frame) Where(indic *Vector) (*Frame, error) {
	if indic.Len() != f.RowCount() {
		return nil, fmt.Errorf("indicator length mismatch in Where")
	}

	var cols []*Column
	for ind := 0; ind < len(f.cols); ind++ {
		cols = append(cols, &Column{name: f.cols[ind].Name(), Vector: f.cols[ind].Where(indic)})
	}

	return NewFrame(cols...)
}

// ***************** sorting *****************

// Sort sorts the rows ascending by keys. All columns move together.
func (f *Frame) Sort(keys ...string) error {
	var by []*Column
	for ind := 0; ind < len(keys); ind++ {
		var (
			col *Column
			e   error
		)
		if col, e = f.Column(keys[ind]); e != nil {
			return e
		}

		by = append(by, col)
	}

	f.by = by
	sort.Stable(f)
	f.by = nil

	return nil
}

// Len is required for sort
func (f *Frame) Len() int {
	return f.RowCount()
}

func (f *Frame) Less(i, j int) bool {
	for ind := 0; ind < len(f.by); ind++ {
		// strictly less on this key
		if f.by[ind].Vector.Less(i, j) {
			return true
		}

		if f.by[ind].Vector.Less(j, i) {
			return false
		}

		// equal -- keep checking
	}

	return false
}

func (f *Frame) Swap(i, j int) {
	for ind := 0; ind < len(f.cols); ind++ {
		f.cols[ind].Vector.Swap(i, j)
	}
}

func (f *Frame) String() string {
	return fmt.Sprintf("frame: %d rows, columns: %s", f.RowCount(), strings.Join(f.ColumnNames(), ", "))
}

// ***************** helpers *****************

func has[C comparable](needle C, haystack []C) bool {
	for _, straw := range haystack {
		if needle == straw {
			return true
		}
	}

	return false
}

func position[C comparable](needle C, haystack []C) int {
	for ind, straw := range haystack {
		if needle == straw {
			return ind
		}
	}

	return -1
}

func validName(name string) bool {
	if name == "" {
		return false
	}

	// anything goes except characters that break the CSV layer
	return !strings.ContainsAny(name, ",\"\n")
}
