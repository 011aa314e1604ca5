package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/fultonring/fahe"
)

// fundingMatch selects the single-family housing direct loan program.
const fundingMatch = "502"

// filterColumns are kept by the filter stage, in this order.
var filterColumns = []string{
	"fiscal_year",
	"state_name",
	"county",
	"zip_code",
	"county_fips",
	"funding_code",
	"program_area",
	"investment_dollars",
	"number_of_investments",
}

// Result counts what a per-file stage did.
type Result struct {
	Files   int
	Failed  int
	Records int
}

// Filter reads every CSV in cfg.Filter.In, keeps the rows whose funding_code
// contains "502" (case-insensitive), keeps the analysis columns, and writes
// each file under the same name to cfg.Filter.Out. A file that fails to
// process is logged and counted; it does not stop the run.
func Filter(ctx context.Context, cfg *Config, lg *slog.Logger) (*Result, error) {
	var (
		files []string
		e     error
	)
	if files, e = stageFiles(cfg.Filter.In); e != nil {
		return nil, e
	}

	if e = os.MkdirAll(cfg.Filter.Out, 0o755); e != nil {
		return nil, e
	}

	lg.Info("filtering files", "count", len(files), "in", cfg.Filter.In)

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

			outFile := filepath.Join(cfg.Filter.Out, filepath.Base(inFile))
			n, ex := filterFile(inFile, outFile, lg)

			mu.Lock()
			defer mu.Unlock()
			res.Files++
			if ex != nil {
				lg.Error("filter failed", "file", inFile, "error", ex)
				res.Failed++
				return nil
			}

			res.Records += n

			return nil
		})
	}

	if e = g.Wait(); e != nil {
		return nil, e
	}

	lg.Info("data filtering summary",
		"files", res.Files, "failed", res.Failed, "records", res.Records,
		"out", cfg.Filter.Out)

	return &res, nil
}

func filterFile(inFile, outFile string, lg *slog.Logger) (int, error) {
	var (
		f *fahe.Files
		e error
	)
	// zip and FIPS codes carry leading zeros
	if f, e = fahe.NewFiles(fahe.FileTypes(map[string]fahe.DataTypes{
		"county_fips": fahe.DTstring,
		"zip_code":    fahe.DTstring,
	})); e != nil {
		return 0, e
	}

	var df *fahe.Frame
	if df, e = f.Load(inFile); e != nil {
		return 0, e
	}

	var funding *fahe.Column
	if funding, e = df.Column("funding_code"); e != nil {
		return 0, fmt.Errorf("funding_code column not found in %s", inFile)
	}

	indic := fahe.MakeVector(fahe.DTint, df.RowCount())
	for ind := 0; ind < df.RowCount(); ind++ {
		if strings.Contains(strings.ToLower(funding.ElementString(ind)), fundingMatch) {
			indic.SetInt(1, ind)
		}
	}

	var sub *fahe.Frame
	if sub, e = df.Where(indic); e != nil {
		return 0, e
	}

	var keep []string
	for _, nm := range filterColumns {
		if sub.HasColumns(nm) {
			keep = append(keep, nm)
			continue
		}

		lg.Warn("missing column", "file", inFile, "column", nm)
	}

	if keep == nil {
		return 0, fmt.Errorf("no required columns found in %s", inFile)
	}

	var out *fahe.Frame
	if out, e = sub.KeepColumns(keep...); e != nil {
		return 0, e
	}

	if out.RowCount() == 0 {
		lg.Warn("no matching records", "file", inFile)
	}

	if e = f.Save(outFile, out); e != nil {
		return 0, e
	}

	lg.Info("filtered", "file", filepath.Base(inFile), "records", out.RowCount())

	return out.RowCount(), nil
}

// stageFiles lists the CSVs in dir, sorted so runs are deterministic.
func stageFiles(dir string) ([]string, error) {
	var (
		files []string
		e     error
	)
	if files, e = filepath.Glob(filepath.Join(dir, "*.csv")); e != nil {
		return nil, e
	}

	if files == nil {
		return nil, fmt.Errorf("no CSV files found in %s", dir)
	}

	sort.Strings(files)

	return files, nil
}
