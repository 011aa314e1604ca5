package fahe

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// All code interacting with CSV files is here

const (
	Sep         = ','
	EOL         = '\n'
	StringDelim = '"'
	FloatFormat = "%.2f"
	Peek        = 500
)

// Files reads and writes CSV files with a header row.
type Files struct {
	sep         byte
	eol         byte
	stringDelim byte
	floatFormat string
	peek        int
	strict      bool
	quoteOnly   []string
	types       map[string]DataTypes
}

type FileOpt func(f *Files) error

func NewFiles(opts ...FileOpt) (*Files, error) {
	f := &Files{
		sep:         byte(Sep),
		eol:         byte(EOL),
		stringDelim: byte(StringDelim),
		floatFormat: FloatFormat,
		peek:        Peek,
	}

	for _, opt := range opts {
		if e := opt(f); e != nil {
			return nil, e
		}
	}

	return f, nil
}

func FileSep(sep byte) FileOpt {
	return func(f *Files) error {
		if sep == f.stringDelim || sep == f.eol {
			return fmt.Errorf("invalid separator")
		}

		f.sep = sep
		return nil
	}
}

func FileQuote(delim byte) FileOpt {
	return func(f *Files) error {
		if delim == f.sep || delim == f.eol {
			return fmt.Errorf("invalid string delimiter")
		}

		f.stringDelim = delim
		return nil
	}
}

func FileFloatFormat(format string) FileOpt {
	return func(f *Files) error {
		f.floatFormat = format
		return nil
	}
}

// FilePeek sets how many rows Load examines to impute column types.
func FilePeek(n int) FileOpt {
	return func(f *Files) error {
		if n < 1 {
			return fmt.Errorf("peek must be positive")
		}

		f.peek = n
		return nil
	}
}

// FileStrict fails Load on ragged rows and unparseable numerics. Without it,
// ragged rows are skipped and blank numerics load as zero.
func FileStrict(strict bool) FileOpt {
	return func(f *Files) error {
		f.strict = strict
		return nil
	}
}

// FileQuoteOnly restricts Save quoting to the named columns. Other string
// columns are written bare.
func FileQuoteOnly(colNames ...string) FileOpt {
	return func(f *Files) error {
		f.quoteOnly = colNames
		return nil
	}
}

// FileTypes forces the types of the named columns, overriding imputation.
func FileTypes(types map[string]DataTypes) FileOpt {
	return func(f *Files) error {
		f.types = types
		return nil
	}
}

// ***************** Load *****************

// Load reads fileName into a Frame. The first row is the header. Column
// types are imputed by examining up to Peek data rows: a column whose values
// are all (quoted or not) integers is DTint, all floats DTfloat, otherwise
// DTstring. A column any of whose peeked values is quoted is DTstring.
func (f *Files) Load(fileName string) (*Frame, error) {
	var (
		file *os.File
		e    error
	)
	if file, e = os.Open(fileName); e != nil {
		return nil, e
	}
	defer func() { _ = file.Close() }()

	var (
		fieldNames []string
		rows       [][]string
		quoted     []bool
	)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		fields, q := f.splitLine(line)

		if fieldNames == nil {
			fieldNames = fields
			quoted = make([]bool, len(fields))
			continue
		}

		if len(fields) != len(fieldNames) {
			if f.strict {
				return nil, fmt.Errorf("row %d of %s has %d fields, want %d",
					len(rows)+1, fileName, len(fields), len(fieldNames))
			}

			continue
		}

		if len(rows) < f.peek {
			for ind := 0; ind < len(q); ind++ {
				quoted[ind] = quoted[ind] || q[ind]
			}
		}

		rows = append(rows, fields)
	}

	if e = scanner.Err(); e != nil {
		return nil, e
	}

	if fieldNames == nil {
		return nil, fmt.Errorf("%s has no header", fileName)
	}

	var cols []*Column
	for ind := 0; ind < len(fieldNames); ind++ {
		dt := f.imputeType(rows, ind, quoted[ind])
		if forced, ok := f.types[fieldNames[ind]]; ok {
			dt = forced
		}

		var (
			col *Column
			ex  error
		)
		if col, ex = f.makeColumn(fieldNames[ind], dt, rows, ind); ex != nil {
			return nil, fmt.Errorf("%s: %w", fileName, ex)
		}

		cols = append(cols, col)
	}

	return NewFrame(cols...)
}

// splitLine splits on the separator, honoring the string delimiter.
// The second return flags fields that were quoted.
func (f *Files) splitLine(line string) ([]string, []bool) {
	var (
		fields []string
		quoted []bool
	)

	var fld []byte
	inQuote, wasQuoted := false, false
	for ind := 0; ind < len(line); ind++ {
		c := line[ind]
		switch {
		case c == f.stringDelim:
			inQuote = !inQuote
			wasQuoted = true
		case c == f.sep && !inQuote:
			fields = append(fields, string(fld))
			quoted = append(quoted, wasQuoted)
			fld, wasQuoted = nil, false
		default:
			fld = append(fld, c)
		}
	}

	fields = append(fields, string(fld))
	quoted = append(quoted, wasQuoted)

	return fields, quoted
}

func (f *Files) imputeType(rows [][]string, colInd int, wasQuoted bool) DataTypes {
	if wasQuoted || rows == nil {
		return DTstring
	}

	dt := DTint
	n := min(len(rows), f.peek)
	for row := 0; row < n; row++ {
		val := strings.TrimSpace(rows[row][colInd])
		if val == "" {
			continue
		}

		if _, ok := toInt(val); ok {
			continue
		}

		if _, ok := toFloat(val); ok {
			dt = DTfloat
			continue
		}

		return DTstring
	}

	return dt
}

func (f *Files) makeColumn(name string, dt DataTypes, rows [][]string, colInd int) (*Column, error) {
	v := MakeVector(dt, len(rows))
	for row := 0; row < len(rows); row++ {
		val := strings.TrimSpace(rows[row][colInd])
		switch dt {
		case DTint:
			x, ok := toInt(val)
			if !ok {
				if f.strict {
					return nil, fmt.Errorf("cannot read %s as int for column %s", val, name)
				}

				x = 0
			}

			v.SetInt(x.(int), row)
		case DTfloat:
			x, ok := toFloat(val)
			if !ok {
				if f.strict {
					return nil, fmt.Errorf("cannot read %s as float for column %s", val, name)
				}

				x = 0.0
			}

			v.SetFloat(x.(float64), row)
		case DTstring:
			v.SetString(rows[row][colInd], row)
		}
	}

	return &Column{name: name, Vector: v}, nil
}

// ***************** Save *****************

// Save writes the Frame to fileName. The header is never quoted. String
// columns are quoted unless FileQuoteOnly was given, in which case only the
// named columns are.
func (f *Files) Save(fileName string, df *Frame) error {
	var (
		file *os.File
		e    error
	)
	if file, e = os.Create(fileName); e != nil {
		return e
	}
	defer func() { _ = file.Close() }()

	w := bufio.NewWriter(file)

	names := df.ColumnNames()
	if _, e = w.WriteString(strings.Join(names, string(f.sep)) + string(f.eol)); e != nil {
		return e
	}

	quote := make([]bool, len(names))
	for ind := 0; ind < len(names); ind++ {
		col, _ := df.Column(names[ind])
		quote[ind] = col.VectorType() == DTstring
		if f.quoteOnly != nil {
			quote[ind] = has(names[ind], f.quoteOnly)
		}
	}

	for row := 0; row < df.RowCount(); row++ {
		var line []byte
		for ind := 0; ind < len(names); ind++ {
			col, _ := df.Column(names[ind])

			var lx []byte
			switch d := col.Element(row).(type) {
			case int:
				lx = []byte(fmt.Sprintf("%d", d))
			case float64:
				lx = []byte(fmt.Sprintf(f.floatFormat, d))
			case string:
				lx = []byte(d)
			default:
				lx = []byte("#err#")
			}

			if quote[ind] {
				lx = append([]byte{f.stringDelim}, lx...)
				lx = append(lx, f.stringDelim)
			}

			line = append(line, lx...)
			if ind < len(names)-1 {
				line = append(line, f.sep)
			}
		}

		line = append(line, f.eol)
		if _, e = w.Write(line); e != nil {
			return e
		}
	}

	return w.Flush()
}
