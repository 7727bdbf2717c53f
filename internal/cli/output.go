package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go-chi-calculator/internal/calculator"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Rejected input, such as a key that is not on the keypad
	ExitCommandError = 2 // Command error (bad flags, unreadable input)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// StateOutput is the JSON shape of an engine state.
type StateOutput struct {
	calculator.State
	Normalized bool   `json:"normalized,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// State prints the display value as text or the whole state as JSON.
func (f *OutputFormatter) State(st calculator.State, last *calculator.Outcome) error {
	if f.Format == "json" {
		out := StateOutput{State: st}
		if last != nil {
			out.Normalized = last.Normalized
			out.Reason = last.Reason
		}
		return json.NewEncoder(f.Writer).Encode(out)
	}

	_, err := fmt.Fprintln(f.Writer, st.DisplayValue)
	return err
}
