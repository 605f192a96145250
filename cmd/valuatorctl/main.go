package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "valuatorctl",
		Short:        "Maintenance tools for the used-car valuator",
		Long:         "Imports listing data, checks artifacts against a dataset and publishes artifacts to B2.",
		SilenceUsage: true,
	}

	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newPublishCmd())
	return cmd
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
