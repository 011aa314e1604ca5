package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/fultonring/fahe"
)

// finalRename maps the filtered-stage names to the published names.
var finalRename = map[string]string{
	"fiscal_year":           "year",
	"investment_dollars":    "502_investment_dollars",
	"number_of_investments": "number_of_502_investment",
}

// finalColumns is the published schema, in order.
var finalColumns = []string{
	"year",
	"county",
	"state_name",
	"county_fips",
	"502_investment_dollars",
	"number_of_502_investment",
}

var digitRun = regexp.MustCompile(`\d+`)

// Finalize renames the filtered columns to the published names, keeps only
// the published schema, coerces the FIPS code to a digit string and the
// dollar and count columns to integers, and writes each file with only
// county_fips quoted.
func Finalize(ctx context.Context, cfg *Config, lg *slog.Logger) (*Result, error) {
	var (
		files []string
		e     error
	)
	if files, e = stageFiles(cfg.Finalize.In); e != nil {
		return nil, e
	}

	if e = os.MkdirAll(cfg.Finalize.Out, 0o755); e != nil {
		return nil, e
	}

	lg.Info("finalizing files", "count", len(files), "in", cfg.Finalize.In)

	var (
		mu  sync.Mutex
		res Result
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for _, inFile := range files {
		g.Go(func() error {
			if e := ctx.Err(); e != nil {
				return e
			}

			outFile := filepath.Join(cfg.Finalize.Out, filepath.Base(inFile))
			n, ex := finalizeFile(inFile, outFile)

			mu.Lock()
			defer mu.Unlock()
			res.Files++
			if ex != nil {
				lg.Error("finalize failed", "file", inFile, "error", ex)
				res.Failed++
				return nil
			}

			res.Records += n
			lg.Info("finalized", "file", filepath.Base(inFile), "records", n)

			return nil
		})
	}

	if e = g.Wait(); e != nil {
		return nil, e
	}

	lg.Info("data finalization summary",
		"files", res.Files, "failed", res.Failed, "records", res.Records,
		"out", cfg.Finalize.Out)

	return &res, nil
}

func finalizeFile(inFile, outFile string) (int, error) {
	var (
		f *fahe.Files
		e error
	)
	// the coercion columns load as strings so punctuation survives to here
	if f, e = fahe.NewFiles(fahe.FileTypes(map[string]fahe.DataTypes{
		"county_fips":           fahe.DTstring,
		"investment_dollars":    fahe.DTstring,
		"number_of_investments": fahe.DTstring,
	})); e != nil {
		return 0, e
	}

	var df *fahe.Frame
	if df, e = f.Load(inFile); e != nil {
		return 0, e
	}

	for from, to := range finalRename {
		var col *fahe.Column
		if col, e = df.Column(from); e != nil {
			continue
		}

		if e = col.Rename(to); e != nil {
			return 0, e
		}
	}

	if !df.HasColumns(finalColumns...) {
		return 0, fmt.Errorf("missing required columns in %s", inFile)
	}

	var out *fahe.Frame
	if out, e = df.KeepColumns(finalColumns...); e != nil {
		return 0, e
	}

	if e = coerceFips(out); e != nil {
		return 0, e
	}

	for _, nm := range []string{"502_investment_dollars", "number_of_502_investment"} {
		if e = coerceAmount(out, nm); e != nil {
			return 0, e
		}
	}

	var fOut *fahe.Files
	if fOut, e = fahe.NewFiles(fahe.FileQuoteOnly("county_fips")); e != nil {
		return 0, e
	}

	if e = fOut.Save(outFile, out); e != nil {
		return 0, e
	}

	return out.RowCount(), nil
}

// coerceFips reduces county_fips to its first digit run ("" when none).
func coerceFips(df *fahe.Frame) error {
	var (
		col *fahe.Column
		e   error
	)
	if col, e = df.Column("county_fips"); e != nil {
		return e
	}

	v := fahe.MakeVector(fahe.DTstring, df.RowCount())
	for ind := 0; ind < df.RowCount(); ind++ {
		v.SetString(digitRun.FindString(col.ElementString(ind)), ind)
	}

	return replaceColumn(df, "county_fips", v)
}

// coerceAmount turns a currency-ish string column into ints. "$" and ","
// are stripped; anything unparseable becomes 0.
func coerceAmount(df *fahe.Frame, colName string) error {
	var (
		col *fahe.Column
		e   error
	)
	if col, e = df.Column(colName); e != nil {
		return e
	}

	v := fahe.MakeVector(fahe.DTint, df.RowCount())
	for ind := 0; ind < df.RowCount(); ind++ {
		v.SetInt(parseAmount(col.ElementString(ind)), ind)
	}

	return replaceColumn(df, colName, v)
}

func parseAmount(s string) int {
	s = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(s, ",", ""), "$", ""))

	var (
		x float64
		e error
	)
	if x, e = strconv.ParseFloat(s, 64); e != nil {
		return 0
	}

	return int(x)
}

// replaceColumn swaps in a new vector for colName, keeping column order.
func replaceColumn(df *fahe.Frame, colName string, v *fahe.Vector) error {
	names := df.ColumnNames()

	var cols []*fahe.Column
	for _, nm := range names {
		if nm != colName {
			col, _ := df.Column(nm)
			cols = append(cols, col)
			continue
		}

		var (
			col *fahe.Column
			e   error
		)
		if col, e = fahe.NewColumn(nm, v.AsAny()); e != nil {
			return e
		}

		cols = append(cols, col)
	}

	newDF, e := fahe.NewFrame(cols...)
	if e != nil {
		return e
	}

	*df = *newDF

	return nil
}
