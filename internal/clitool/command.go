// Package clitool provides the shared command/flag-parsing scaffolding used
// by the four driver tools (create, evaluate, generation, weed). It owns
// none of the core's logic -- only option parsing, usage text, and the
// exit-code policy (0 success, 1 runtime fault, 2 usage/validation).
package clitool

import (
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command describes one driver tool's CLI surface.
type Command struct {
	// Flags defines the tool's flags; nil is treated as no flags.
	Flags *flag.FlagSet

	// Usage is the freeform "name [flags] args..." string shown in help.
	Usage string

	// Short is a one-line description.
	Short string

	// Exec runs the tool after flags are parsed, receiving the remaining
	// positional arguments. A returned error wrapped in *ExitError
	// controls the process exit code directly; any other error is
	// reported as a runtime fault (exit 1).
	Exec func(o *IO, args []string) error
}

// ExitError pins a specific process exit code to an error: 1 for runtime
// faults (I/O, allocation, internal), 2 for usage/validation errors.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// Usage wraps err as a usage/validation error (exit code 2).
func Usage(err error) error {
	return &ExitError{Code: 2, Err: err}
}

// Usagef is a convenience wrapper combining fmt.Errorf and Usage.
func Usagef(format string, a ...any) error {
	return Usage(fmt.Errorf(format, a...))
}

// PrintHelp writes the tool's usage line, description, and flag defaults.
func (c *Command) PrintHelp(o *IO) {
	o.Println("Usage:", c.Usage)
	if c.Short != "" {
		o.Println()
		o.Println(c.Short)
	}
	if c.Flags != nil && c.Flags.HasFlags() {
		o.Println()
		o.Println("Flags:")
		var buf strings.Builder
		c.Flags.SetOutput(&buf)
		c.Flags.PrintDefaults()
		o.Printf("%s", buf.String())
	}
}

// Run parses args against Flags, runs Exec, and returns the process exit
// code. It never panics on parse or Exec errors; both are reported to
// stderr.
func (c *Command) Run(o *IO, args []string) int {
	if c.Flags == nil {
		c.Flags = flag.NewFlagSet(c.Usage, flag.ContinueOnError)
	}
	c.Flags.SetOutput(&strings.Builder{}) // suppress pflag's own error/usage printing

	if err := c.Flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c.PrintHelp(o)
			return 0
		}
		o.ErrPrintln("error:", err)
		c.PrintHelp(o)
		return 2
	}

	if err := c.Exec(o, c.Flags.Args()); err != nil {
		o.ErrPrintln("error:", err)

		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		return 1
	}

	return 0
}
