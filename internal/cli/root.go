// Package cli implements the calc terminal front-end: a keypad driven from
// command arguments or standard input.
package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the calc CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Four-function keypad calculator",
		Long: `A four-function keypad calculator.

Keys are the labels printed on the keypad: 0-9, ".", "ce", the operators
"+", "-", "x", "/" and "=" to compute.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log every key press to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewPressCommand(opts))
	cmd.AddCommand(NewKeypadCommand(opts))
	cmd.AddCommand(NewReplCommand(opts))

	return cmd
}

// newLogger returns a console logger on w in verbose mode and a no-op
// logger otherwise.
func newLogger(opts *RootOptions, w io.Writer) *zap.Logger {
	if !opts.Verbose {
		return zap.NewNop()
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format: opts.Format,
		Writer: cmd.OutOrStdout(),
	}
}
