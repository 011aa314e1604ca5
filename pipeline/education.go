package pipeline

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/fultonring/fahe"
)

// acsRename maps the ACS S1501 measure codes to readable names.
var acsRename = map[string]string{
	"S1501_C01_003E": "Adults(18-24) with High School",
	"S1501_C02_003E": "Percent Adults(18-24) with High School",
	"S1501_C01_005E": "Adults(18-24) with College Degree",
	"S1501_C02_005E": "Percent Adults(18-24) with College Degree",
	"S1501_C01_059E": "Total Median Earnings",
}

// acsColumns are the measure codes, in output order.
var acsColumns = []string{
	"S1501_C01_003E",
	"S1501_C02_003E",
	"S1501_C01_005E",
	"S1501_C02_005E",
	"S1501_C01_059E",
}

var (
	fullYear   = regexp.MustCompile(`20\d{2}`)
	suffixYear = regexp.MustCompile(`(\d{2})\.csv$`)
)

// yearFromName pulls the survey year out of an ACS file name: the first
// full year (2016, 2023, ...) if present, else the two digits before ".csv"
// plus 2000.
func yearFromName(name string) (int, error) {
	if m := fullYear.FindString(name); m != "" {
		return strconv.Atoi(m)
	}

	if m := suffixYear.FindStringSubmatch(name); m != nil {
		two, _ := strconv.Atoi(m[1])
		return 2000 + two, nil
	}

	return 0, fmt.Errorf("no year in file name %s", name)
}

// Education merges the per-year ACS S1501 files for one state, labels each
// row with the survey year, splits NAME into county and state, renames the
// measure columns, and keeps only the Appalachian counties for that state.
func Education(cfg *Config, lg *slog.Logger) (*fahe.Frame, error) {
	if cfg.Education.State == "" {
		return nil, fmt.Errorf("education stage needs a state")
	}

	var (
		counties map[string]bool
		e        error
	)
	if counties, e = appalachianCounties(cfg.Education.Counties, cfg.Education.State); e != nil {
		return nil, e
	}

	var files []string
	if files, e = stageFiles(cfg.Education.In); e != nil {
		return nil, e
	}

	// the ACS measures pass through untouched, as text
	forced := map[string]fahe.DataTypes{"GEO_ID": fahe.DTstring, "NAME": fahe.DTstring}
	for _, nm := range acsColumns {
		forced[nm] = fahe.DTstring
	}

	var f *fahe.Files
	if f, e = fahe.NewFiles(fahe.FileTypes(forced)); e != nil {
		return nil, e
	}

	var all *fahe.Frame
	for _, inFile := range files {
		var df *fahe.Frame
		if df, e = educationFile(f, inFile); e != nil {
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

	// keep only the Appalachian counties for this state
	countyCol, _ := all.Column("county")
	stateCol, _ := all.Column("state")
	indic := fahe.MakeVector(fahe.DTint, all.RowCount())
	for ind := 0; ind < all.RowCount(); ind++ {
		if stateCol.ElementString(ind) == cfg.Education.State && counties[countyCol.ElementString(ind)] {
			indic.SetInt(1, ind)
		}
	}

	var out *fahe.Frame
	if out, e = all.Where(indic); e != nil {
		return nil, e
	}

	lg.Info("education merge", "state", cfg.Education.State,
		"files", len(files), "records", out.RowCount())

	if cfg.Education.Out != "" {
		var fOut *fahe.Files
		if fOut, e = fahe.NewFiles(); e != nil {
			return nil, e
		}

		if e = fOut.Save(cfg.Education.Out, out); e != nil {
			return nil, e
		}
	}

	return out, nil
}

// educationFile loads one ACS year file: drops the repeated-label first row,
// adds the year, splits NAME, and renames the measures.
func educationFile(f *fahe.Files, inFile string) (*fahe.Frame, error) {
	var (
		df *fahe.Frame
		e  error
	)
	if df, e = f.Load(inFile); e != nil {
		return nil, e
	}

	if !df.HasColumns("GEO_ID", "NAME") {
		return nil, fmt.Errorf("not an ACS file")
	}

	// the first data row repeats the column labels
	if df.RowCount() > 0 {
		indic := fahe.MakeVector(fahe.DTint, df.RowCount())
		for ind := 1; ind < df.RowCount(); ind++ {
			indic.SetInt(1, ind)
		}

		if df, e = df.Where(indic); e != nil {
			return nil, e
		}
	}

	var year int
	if year, e = yearFromName(filepath.Base(inFile)); e != nil {
		return nil, e
	}

	yearData := make([]int, df.RowCount())
	for ind := 0; ind < df.RowCount(); ind++ {
		yearData[ind] = year
	}

	var yearCol *fahe.Column
	if yearCol, e = fahe.NewColumn("year", yearData); e != nil {
		return nil, e
	}

	if e = df.AppendColumn(yearCol); e != nil {
		return nil, e
	}

	if e = splitName(df); e != nil {
		return nil, e
	}

	// keep the id columns plus whichever measures this vintage has
	keep := []string{"GEO_ID", "NAME", "state", "county", "year"}
	for _, nm := range acsColumns {
		if df.HasColumns(nm) {
			keep = append(keep, nm)
		}
	}

	if df, e = df.KeepColumns(keep...); e != nil {
		return nil, e
	}

	for from, to := range acsRename {
		var col *fahe.Column
		if col, e = df.Column(from); e != nil {
			continue
		}

		if e = col.Rename(to); e != nil {
			return nil, e
		}
	}

	return df, nil
}

// splitName turns "Bell County, Kentucky" into county "Bell" and state
// "Kentucky".
func splitName(df *fahe.Frame) error {
	var (
		name *fahe.Column
		e    error
	)
	if name, e = df.Column("NAME"); e != nil {
		return e
	}

	county := fahe.MakeVector(fahe.DTstring, df.RowCount())
	state := fahe.MakeVector(fahe.DTstring, df.RowCount())
	for ind := 0; ind < df.RowCount(); ind++ {
		c, s, _ := strings.Cut(name.ElementString(ind), ",")
		c = strings.TrimSpace(strings.ReplaceAll(c, "County", ""))
		county.SetString(c, ind)
		state.SetString(strings.TrimSpace(s), ind)
	}

	var countyCol, stateCol *fahe.Column
	if countyCol, e = fahe.NewColumn("county", county.AsAny()); e != nil {
		return e
	}

	if stateCol, e = fahe.NewColumn("state", state.AsAny()); e != nil {
		return e
	}

	if e = df.AppendColumn(countyCol); e != nil {
		return e
	}

	return df.AppendColumn(stateCol)
}

// appalachianCounties loads the reference county list and returns the
// counties for one state.
func appalachianCounties(fileName, state string) (map[string]bool, error) {
	var (
		f *fahe.Files
		e error
	)
	if f, e = fahe.NewFiles(); e != nil {
		return nil, e
	}

	var df *fahe.Frame
	if df, e = f.Load(fileName); e != nil {
		return nil, e
	}

	if !df.HasColumns("state", "county") {
		return nil, fmt.Errorf("county list %s needs state and county columns", fileName)
	}

	stateCol, _ := df.Column("state")
	countyCol, _ := df.Column("county")

	counties := make(map[string]bool)
	for ind := 0; ind < df.RowCount(); ind++ {
		if stateCol.ElementString(ind) == state {
			counties[countyCol.ElementString(ind)] = true
		}
	}

	if len(counties) == 0 {
		return nil, fmt.Errorf("no counties for state %s in %s", state, fileName)
	}

	return counties, nil
}
