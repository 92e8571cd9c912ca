package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/guard/core/logger"
)

type cli struct {
	verbose bool
	noColor bool
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{logger: logger.Nop()}

	root := &cobra.Command{
		Use:   "guardctl",
		Short: "Sanitize, validate, store and send data the way guard clients do",
		Long: `guardctl drives the guard building blocks from the command line.

Examples:
  guardctl sanitize '<b>hi</b>'
  guardctl validate --type email user@example.com
  guardctl vault set auth_token s3cret
  guardctl request GET /me --base-url https://api.example.com`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if c.noColor {
				color.NoColor = true
			}
			level := slog.LevelWarn
			if c.verbose {
				level = slog.LevelDebug
			}
			c.logger = logger.New(
				logger.WithTextFormatter(),
				logger.WithLevel(level),
				logger.WithOutput(cmd.ErrOrStderr()),
				logger.WithAttr(logger.Component("guardctl")),
			)
		},
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging to stderr")
	root.PersistentFlags().BoolVar(&c.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		c.sanitizeCmd(),
		c.validateCmd(),
		c.vaultCmd(),
		c.requestCmd(),
		c.healthCmd(),
	)
	return root
}

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

// readInput joins args, or reads stdin when there are none.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
