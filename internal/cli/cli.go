// Package cli wires the pipeline stages into the fahe command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fultonring/fahe"
	"github.com/fultonring/fahe/dialect"
	"github.com/fultonring/fahe/pipeline"
)

var configFile string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fahe",
		Short: "FAHE socioeconomic data pipeline",
		Long: `fahe processes the cleaned USDA county investment files: filter keeps the
502 funding-code records, finalize publishes the per-file schema, aggregate
totals the 502 investment by year, county, state and FIPS code, and
education merges the ACS S1501 files for one state.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file")

	rootCmd.AddCommand(newFilterCmd(), newFinalizeCmd(), newAggregateCmd(),
		newEducationCmd(), newRunCmd(), newDescribeCmd())

	return rootCmd
}

// Execute runs the fahe command.
func Execute() error {
	return newRootCmd().Execute()
}

func logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func loadConfig() (*pipeline.Config, error) {
	if configFile == "" {
		return pipeline.DefaultConfig(), nil
	}

	return pipeline.LoadConfig(configFile)
}

func newFilterCmd() *cobra.Command {
	var in, out string

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "keep the 502 funding-code records of each cleaned CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cfg *pipeline.Config
				e   error
			)
			if cfg, e = loadConfig(); e != nil {
				return e
			}

			if in != "" {
				cfg.Filter.In = in
			}
			if out != "" {
				cfg.Filter.Out = out
			}

			_, e = pipeline.Filter(cmd.Context(), cfg, logger())

			return e
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "input directory of cleaned CSVs")
	cmd.Flags().StringVar(&out, "out", "", "output directory")

	return cmd
}

func newFinalizeCmd() *cobra.Command {
	var in, out string

	cmd := &cobra.Command{
		Use:   "finalize",
		Short: "publish the filtered files in the final schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cfg *pipeline.Config
				e   error
			)
			if cfg, e = loadConfig(); e != nil {
				return e
			}

			if in != "" {
				cfg.Finalize.In = in
			}
			if out != "" {
				cfg.Finalize.Out = out
			}

			_, e = pipeline.Finalize(cmd.Context(), cfg, logger())

			return e
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "input directory of filtered CSVs")
	cmd.Flags().StringVar(&out, "out", "", "output directory")

	return cmd
}

func newAggregateCmd() *cobra.Command {
	var in, out string
	var save bool

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "total the 502 investment by year, county, state and FIPS code",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cfg *pipeline.Config
				e   error
			)
			if cfg, e = loadConfig(); e != nil {
				return e
			}

			if in != "" {
				cfg.Aggregate.In = in
			}
			if out != "" {
				cfg.Aggregate.Out = out
			}
			if save {
				cfg.DB.Save = true
			}

			var df *fahe.Frame
			if df, e = pipeline.Aggregate(cfg, logger()); e != nil {
				return e
			}

			if cfg.DB.Save {
				return saveDB(cfg, df)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "input directory of final CSVs")
	cmd.Flags().StringVar(&out, "out", "", "output CSV file")
	cmd.Flags().BoolVar(&save, "db", false, "also save to the configured database")

	return cmd
}

func saveDB(cfg *pipeline.Config, df *fahe.Frame) error {
	var (
		creds *dialect.Creds
		e     error
	)
	if creds, e = dialect.CredsFromEnv(); e != nil {
		return e
	}

	var d *dialect.Dialect
	if d, e = dialect.Open(creds); e != nil {
		return e
	}
	defer func() { _ = d.Close() }()

	return d.Save(cfg.DB.Table, cfg.DB.OrderBy, cfg.DB.Overwrite, df)
}

func newEducationCmd() *cobra.Command {
	var in, out, counties, state string

	cmd := &cobra.Command{
		Use:   "education",
		Short: "merge the ACS S1501 files for one state",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cfg *pipeline.Config
				e   error
			)
			if cfg, e = loadConfig(); e != nil {
				return e
			}

			if in != "" {
				cfg.Education.In = in
			}
			if out != "" {
				cfg.Education.Out = out
			}
			if counties != "" {
				cfg.Education.Counties = counties
			}
			if state != "" {
				cfg.Education.State = state
			}

			_, e = pipeline.Education(cfg, logger())

			return e
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "input directory of ACS CSVs")
	cmd.Flags().StringVar(&out, "out", "", "output CSV file")
	cmd.Flags().StringVar(&counties, "counties", "", "Appalachian county list CSV")
	cmd.Flags().StringVar(&state, "state", "", "state to merge")

	return cmd
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "run filter, finalize and aggregate",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cfg *pipeline.Config
				e   error
			)
			if cfg, e = loadConfig(); e != nil {
				return e
			}

			var df *fahe.Frame
			if df, e = pipeline.Run(cmd.Context(), cfg, logger()); e != nil {
				return e
			}

			if cfg.DB.Save {
				return saveDB(cfg, df)
			}

			return nil
		},
	}
}

func newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <file.csv> <column>",
		Short: "summarize a numeric column of a CSV",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				f *fahe.Files
				e error
			)
			if f, e = fahe.NewFiles(); e != nil {
				return e
			}

			var df *fahe.Frame
			if df, e = f.Load(args[0]); e != nil {
				return e
			}

			var s *fahe.Summary
			if s, e = df.Summarize(args[1]); e != nil {
				return e
			}

			fmt.Fprintln(cmd.OutOrStdout(), s)

			return nil
		},
	}

	return cmd
}
