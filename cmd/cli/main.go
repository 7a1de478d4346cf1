package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes
const (
	exitWritten    = 0
	exitError      = 1
	exitInfeasible = 20
	exitUnknown    = 30
)

// exitCodeError carries the process exit code of a run that ended without a written schedule
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }
func (e *exitCodeError) Unwrap() error { return e.err }

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "tutorshifts",
	Short:         "Weekly tutor shift scheduling from availability surveys",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if err == nil {
		return exitWritten
	}

	var exitErr *exitCodeError
	if errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, exitErr.Error())
		return exitErr.code
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	return exitError
}
