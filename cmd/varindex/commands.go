package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configPath      string
	outPath         string
	formatPath      string
	sqlitePath      string
	compressionName string
	nmax            int
	workers         int

	rootCmd = &cobra.Command{
		Use:   "varindex",
		Short: "Compute variability indices of lightcurves",
		Long: `varindex computes the Stetson family and the ratio, moment and
excursion indices for a set of lightcurve files and writes one row
per star to the index log.`,
		SilenceUsage: true,
	}

	computeCmd = &cobra.Command{
		Use:   "compute [file, directory or glob...]",
		Short: "Compute the indices of lightcurve files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCompute, // Defined in cmd_compute.go
	}

	columnsCmd = &cobra.Command{
		Use:   "columns",
		Short: "Print the index log columns",
		Args:  cobra.NoArgs,
		RunE:  runColumns, // Defined in cmd_columns.go
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run:   runVersion, // Defined in cmd_columns.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")

	computeCmd.Flags().StringVarP(&outPath, "out", "o", "", "Index log path, '-' for stdout (overrides output.log_path)")
	computeCmd.Flags().StringVar(&formatPath, "format-file", "", "Format file path (overrides output.format_path)")
	computeCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "Also upsert results into this SQLite database")
	computeCmd.Flags().StringVar(&compressionName, "compression", "", "Index log compression: none, snappy")
	computeCmd.Flags().IntVar(&nmax, "nmax", 0, "Number of images in the survey (0 = longest lightcurve)")
	computeCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent computations (0 = GOMAXPROCS)")

	rootCmd.AddCommand(computeCmd)
	rootCmd.AddCommand(columnsCmd)
	rootCmd.AddCommand(versionCmd)
}
