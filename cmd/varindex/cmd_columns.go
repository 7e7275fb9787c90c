package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soltixdb/varindex/internal/output"
)

func runColumns(cmd *cobra.Command, _ []string) error {
	for _, line := range output.FormatLines() {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return err
		}
	}
	return nil
}

func runVersion(cmd *cobra.Command, _ []string) {
	fmt.Fprintf(cmd.OutOrStdout(), "varindex %s (commit %s, built %s)\n", Version, GitCommit, BuildTime)
}
