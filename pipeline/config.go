// Package pipeline implements the FAHE data-processing stages: filtering the
// cleaned USDA investment files down to 502 funding codes, finalizing the
// filtered files into the published schema, aggregating the final files by
// county and year, and merging the ACS education files per state.
package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Dirs is an input/output directory pair for a stage.
type Dirs struct {
	In  string `yaml:"in"`
	Out string `yaml:"out"`
}

type Config struct {
	Filter   Dirs `yaml:"filter"`
	Finalize Dirs `yaml:"finalize"`

	Aggregate struct {
		In  string `yaml:"in"`
		Out string `yaml:"out"`
	} `yaml:"aggregate"`

	Education struct {
		In       string `yaml:"in"`
		Out      string `yaml:"out"`
		Counties string `yaml:"counties"`
		State    string `yaml:"state"`
	} `yaml:"education"`

	DB struct {
		Save      bool   `yaml:"save"`
		Table     string `yaml:"table"`
		OrderBy   string `yaml:"orderBy"`
		Overwrite bool   `yaml:"overwrite"`
	} `yaml:"db"`

	// Workers caps the per-file fan-out in the filter and finalize stages.
	Workers int `yaml:"workers"`
}

// DefaultConfig wires the stages together the way the project lays out its
// data directories: cleaned -> filtered -> final -> one aggregate file.
func DefaultConfig() *Config {
	cfg := &Config{
		Filter:   Dirs{In: "cleaned_data", Out: "filtered_data"},
		Finalize: Dirs{In: "filtered_data", Out: "final_data"},
		Workers:  4,
	}

	cfg.Aggregate.In = "final_data"
	cfg.Aggregate.Out = "502_investment_by_county.csv"
	cfg.DB.Table = "investment_502"
	cfg.DB.OrderBy = "year,state_name,county"

	return cfg
}

// LoadConfig reads a YAML config, filling anything not given from
// DefaultConfig.
func LoadConfig(fileName string) (*Config, error) {
	cfg := DefaultConfig()

	var (
		b []byte
		e error
	)
	if b, e = os.ReadFile(fileName); e != nil {
		return nil, e
	}

	if e = yaml.Unmarshal(b, cfg); e != nil {
		return nil, fmt.Errorf("cannot parse config %s: %w", fileName, e)
	}

	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	return cfg, nil
}
