package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/fultonring/fahe"
)

// aggregateColumns is the output schema of the aggregate stage, in order.
var aggregateColumns = []string{
	"year",
	"county",
	"state_name",
	"county_fips",
	"total_502_investment_dollars",
	"total_number_of_502_investment",
}

// Aggregate loads every final CSV, stacks the rows, and totals the 502
// investment dollars and counts by year, county, state and FIPS code. The
// result is ordered by year, state_name, county and written to
// cfg.Aggregate.Out.
func Aggregate(cfg *Config, lg *slog.Logger) (*fahe.Frame, error) {
	var (
		files []string
		e     error
	)
	if files, e = stageFiles(cfg.Aggregate.In); e != nil {
		return nil, e
	}

	var f *fahe.Files
	if f, e = fahe.NewFiles(fahe.FileTypes(map[string]fahe.DataTypes{
		"year":                     fahe.DTint,
		"county_fips":              fahe.DTstring,
		"502_investment_dollars":   fahe.DTint,
		"number_of_502_investment": fahe.DTint,
	})); e != nil {
		return nil, e
	}

	var all *fahe.Frame
	for _, inFile := range files {
		var df *fahe.Frame
		if df, e = f.Load(inFile); e != nil {
			return nil, e
		}

		if df.RowCount() == 0 {
			lg.Warn("empty file", "file", inFile)
			continue
		}

		if df, e = df.KeepColumns(finalColumns...); e != nil {
			return nil, fmt.Errorf("%s: %w", inFile, e)
		}

		if all == nil {
			all = df
			continue
		}

		if e = all.AppendRows(df); e != nil {
			return nil, fmt.Errorf("%s: %w", inFile, e)
		}
	}

	if all == nil {
		return nil, fmt.Errorf("no records found in %s", cfg.Aggregate.In)
	}

	lg.Info("aggregating", "files", len(files), "records", all.RowCount())

	var dfBy *fahe.Frame
	if dfBy, e = all.By("year,county,state_name,county_fips",
		"total_502_investment_dollars := sum(502_investment_dollars)",
		"total_number_of_502_investment := sum(number_of_502_investment)"); e != nil {
		return nil, e
	}

	// By already emits the grouping columns first; pin the published order
	if dfBy, e = dfBy.KeepColumns(aggregateColumns...); e != nil {
		return nil, e
	}

	if e = dfBy.Sort("year", "state_name", "county"); e != nil {
		return nil, e
	}

	if cfg.Aggregate.Out != "" {
		var fOut *fahe.Files
		if fOut, e = fahe.NewFiles(fahe.FileQuoteOnly("county_fips")); e != nil {
			return nil, e
		}

		if e = fOut.Save(cfg.Aggregate.Out, dfBy); e != nil {
			return nil, e
		}

		lg.Info("aggregate written", "file", cfg.Aggregate.Out, "groups", dfBy.RowCount())
	}

	return dfBy, nil
}
