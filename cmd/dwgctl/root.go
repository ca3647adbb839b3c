package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dwgctl",
		Short: "Inspect CAD drawings from the command line",
		Long: `dwgctl parses DXF files (and DWG files when the ODA File Converter is
installed) and prints the same layer, measurement and preview analyses the
dashboard API serves.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringP("format", "f", "json", "Output format: json or yaml")
	root.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn or error")

	root.AddCommand(
		newAnalyseCmd(kindLayers, "Per-layer entity counts, lengths and areas"),
		newAnalyseCmd(kindMeasurements, "Totals, bounding box and dimensions"),
		newAnalyseCmd(kindPreview, "Simplified 2D preview geometry"),
		newTokenCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dwgctl",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dwgctl version %s\n", version)
		},
	}
}
