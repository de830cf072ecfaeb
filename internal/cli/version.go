package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

func addVersion(topLevel *cobra.Command, version string) {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the focuslock version.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "focuslock %s\n", version)
			if !verbose {
				return
			}
			if info, ok := debug.ReadBuildInfo(); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "go: %s\n", info.GoVersion)
				for _, dep := range info.Deps {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", dep.Path, dep.Version)
				}
			}
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also print the Go version and dependencies")
	topLevel.AddCommand(cmd)
}
