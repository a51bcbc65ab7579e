package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Nomadcxx/fixnums/internal/ui"
)

var (
	version = "dev" // Set by build flags: -ldflags="-X main.version=1.0.0"

	exit = os.Exit
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// usageError marks a command line that could not be parsed.
type usageError struct {
	err   error
	usage string
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// app holds everything one invocation shares between its commands.
type app struct {
	stdout io.Writer
	stderr io.Writer
	fs     afero.Fs

	cfgFile   string
	flags     flagValues
	helpShown bool
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		fs:     afero.NewOsFs(),
	}
}

// run executes the command line and returns the process exit status. Help
// exits with 1 and unparseable options with 2.
func run(args []string, stdout, stderr io.Writer) int {
	return newApp(stdout, stderr).execute(args)
}

func (a *app) execute(args []string) int {
	ui.SetOutput(a.stdout)

	root := a.rootCmd()
	root.SetArgs(args)

	err := root.Execute()
	if a.helpShown {
		return exitFailure
	}

	var uerr *usageError
	switch {
	case errors.As(err, &uerr):
		fmt.Fprintf(a.stderr, "Error: %v\n\n%s", uerr.err, uerr.usage)
		return exitUsage
	case err != nil:
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitFailure
	}
	return exitOK
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fixnums %s\n", version)
		},
	}
}
