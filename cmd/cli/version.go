package main

import (
	"fmt"
	"runtime/debug"

	"github.com/limaJavier/tutorshifts/pkg/sat"
	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.version=..."
var version = ""

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the available SAT solvers",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tutorshifts %v\nsolvers: %v\n", resolveVersion(), sat.Names())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func resolveVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}
