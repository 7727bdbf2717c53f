package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/view"

	"github.com/spf13/cobra"
)

// NewReplCommand creates the repl command.
func NewReplCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Read keys from standard input, one batch per line",
		Long: `Read whitespace-separated keys from standard input and print the
display after every line. An unknown key is reported and the rest of its
line is skipped. "q" or "quit" ends the session.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(rootOpts, cmd)
		},
	}
}

func runRepl(opts *RootOptions, cmd *cobra.Command) error {
	logger := newLogger(opts, cmd.ErrOrStderr())
	defer logger.Sync()

	out := cmd.OutOrStdout()
	f := newFormatter(opts, cmd)
	k := calculator.NewKeypad(calculator.New())

	if opts.Format == "text" {
		fmt.Fprint(out, view.Render(k.Engine()))
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		keys := strings.Fields(scanner.Text())
		if len(keys) == 0 {
			continue
		}
		if keys[0] == "q" || keys[0] == "quit" {
			return nil
		}

		last, err := pressKeys(k, keys, logger)
		if err != nil {
			if !errors.Is(err, calculator.ErrUnknownKey) {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		}

		if err := f.State(k.Engine().State(), last); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitCommandError, "read input", err)
	}
	return nil
}
