package cli

import (
	"errors"

	"go-chi-calculator/internal/calculator"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewPressCommand creates the press command.
func NewPressCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "press <key>...",
		Short: "Press keys on a fresh calculator and print the display",
		Long: `Press keys on a fresh calculator and print the display.

Example:
  calc press 3 + 2 =
  calc --format json press 7 / 0 =`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPress(rootOpts, cmd, args)
		},
	}
	// Keys such as "-" must not be parsed as flags.
	cmd.Flags().SetInterspersed(false)

	return cmd
}

func runPress(opts *RootOptions, cmd *cobra.Command, keys []string) error {
	logger := newLogger(opts, cmd.ErrOrStderr())
	defer logger.Sync()

	k := calculator.NewKeypad(calculator.New())
	last, err := pressKeys(k, keys, logger)
	if err != nil {
		return err
	}

	return newFormatter(opts, cmd).State(k.Engine().State(), last)
}

// pressKeys presses keys in order, logging each one. It returns the outcome
// of the last "=" pressed, if any.
func pressKeys(k *calculator.Keypad, keys []string, logger *zap.Logger) (*calculator.Outcome, error) {
	var last *calculator.Outcome

	for _, key := range keys {
		out, err := k.Press(key)
		if err != nil {
			if errors.Is(err, calculator.ErrUnknownKey) {
				return last, WrapExitError(ExitFailure, "cannot press key", err)
			}
			return last, err
		}

		logger.Debug("key pressed",
			zap.String("key", key),
			zap.String("display_value", k.Engine().DisplayValue()),
			zap.String("stored_value", k.Engine().StoredValue()),
			zap.String("selected_operator", k.Engine().SelectedOperator()),
		)

		if key == calculator.SubmitKey {
			last = &out
			if out.Normalized {
				logger.Warn("result normalized to zero", zap.String("reason", out.Reason))
			}
		}
	}

	return last, nil
}
