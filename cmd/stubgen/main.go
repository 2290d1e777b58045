// Package main provides the CLI entrypoint for stubgen.
//
// stubgen adds methods to Go types in place:
//   - delegate: methods forwarding to a field's methods
//   - implement: stubs for interface methods a type lacks
//   - candidates: the keys available for either operation
//   - batch: many operations described by a YAML file
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	rootCmd := &cobra.Command{
		Use:   "stubgen",
		Short: "Synthesize delegate and interface stub methods for Go types",
		Long: `stubgen adds methods to Go types in place.

Commands:
  delegate     Add methods forwarding to a field
  implement    Add stubs for missing interface methods
  candidates   List the keys available for a type
  batch        Run the requests of a YAML batch file`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.noColor {
				color.NoColor = true //nolint:reassign // intentional override of library global
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: .stubgen.yaml in CWD or $HOME)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging on stderr")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(delegateCmd(&opts))
	rootCmd.AddCommand(implementCmd(&opts))
	rootCmd.AddCommand(candidatesCmd(&opts))
	rootCmd.AddCommand(batchCmd(&opts))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}
