package cli

import (
	"encoding/json"
	"fmt"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/view"

	"github.com/spf13/cobra"
)

// keypadOutput is the JSON shape of the keypad command.
type keypadOutput struct {
	DisplayValue string   `json:"display_value"`
	Numbers      []string `json:"numbers"`
	Operators    []string `json:"operators"`
	Submit       string   `json:"submit"`
}

// NewKeypadCommand creates the keypad command.
func NewKeypadCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keypad",
		Short: "Show the display and the keypad",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := calculator.New()

			if rootOpts.Format == "json" {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(keypadOutput{
					DisplayValue: e.DisplayValue(),
					Numbers:      e.Numbers(),
					Operators:    e.Operators(),
					Submit:       calculator.SubmitKey,
				})
			}

			_, err := fmt.Fprint(cmd.OutOrStdout(), view.Render(e))
			return err
		},
	}
}
