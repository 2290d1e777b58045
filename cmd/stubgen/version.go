package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version information. These variables can be overridden at build time via -ldflags.
var (
	Version = "0.1.0-dev"
	Commit  = ""
)

var versionColor = color.New(color.FgGreen, color.Bold)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "stubgen %s", versionColor.Sprint(Version))

			if Commit != "" {
				fmt.Fprintf(out, " (commit: %s)", Commit)
			}

			fmt.Fprintln(out)
		},
	}
}
