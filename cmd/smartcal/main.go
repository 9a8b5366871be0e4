package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"smart-calendar/config"
	"smart-calendar/pkg/log"
)

// errReported marks failures whose status line was already printed.
var errReported = errors.New("reported")

// cli holds state shared by the subcommands.
type cli struct {
	stdin   io.Reader
	stdout  io.Writer
	verbose bool

	cfg    *config.Config
	logger log.Logger
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// execute runs the CLI and returns the process exit code.
func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(&cli{stdin: stdin, stdout: stdout})
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "smartcal",
		Short: "Turn natural-language text into calendar events",
		Long: `smartcal sends a piece of text to the AI gateway, normalizes the reply into a
validated event, picks a target calendar, optionally creates a Zoom meeting, and
adds the event to the calendar backend (AppleScript, ICS file or Google Calendar).`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(newCreateCmd(c), newServeCmd(c), newCacheCmd(c), newAuthCmd(c))
	return root
}

// setup loads configuration and the logger once per invocation.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	level := cfg.Logger.Level
	if c.verbose {
		level = "debug"
	}
	c.cfg = cfg
	c.logger = log.Init(log.ZapConfig{
		Level:        level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})
	return nil
}
