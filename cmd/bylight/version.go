package main

import (
	"fmt"
	"runtime"

	"github.com/praetorian-inc/bylight/pkg/scanner"
	"github.com/praetorian-inc/bylight/pkg/serve"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE:  runVersion,
}

func runVersion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "bylight v%s (%s)\n", version, commit)
	fmt.Fprintf(out, "Serve protocol: %s\n", serve.Version)
	if sets, err := scanner.GetBuiltinSets(); err == nil {
		fmt.Fprintf(out, "Builtin pattern sets: %d\n", len(sets))
	}
	fmt.Fprintf(out, "Built with %s for %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return nil
}
