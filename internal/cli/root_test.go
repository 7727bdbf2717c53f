package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go-chi-calculator/internal/calculator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "calc", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"press", "keypad", "repl"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := execute(t, "", "--format", "xml", "keypad")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestPressText(t *testing.T) {
	stdout, _, err := execute(t, "", "press", "3", "/", "2", "=")
	require.NoError(t, err)
	assert.Equal(t, "1.5\n", stdout)
}

func TestPressSubtractIsNotAFlag(t *testing.T) {
	stdout, _, err := execute(t, "", "press", "6", "-", "4", "=")
	require.NoError(t, err)
	assert.Equal(t, "2\n", stdout)
}

func TestPressJSONReportsNormalization(t *testing.T) {
	stdout, _, err := execute(t, "", "--format", "json", "press", "7", "/", "0", "=")
	require.NoError(t, err)

	var got StateOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "0", got.DisplayValue)
	assert.True(t, got.Normalized)
	assert.Equal(t, calculator.ReasonNotFinite, got.Reason)
}

func TestPressUnknownKey(t *testing.T) {
	_, _, err := execute(t, "", "press", "4", "%")
	require.Error(t, err)
	assert.True(t, errors.Is(err, calculator.ErrUnknownKey))
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestPressVerboseLogsToStderr(t *testing.T) {
	stdout, stderr, err := execute(t, "", "--verbose", "press", "5")
	require.NoError(t, err)
	assert.Equal(t, "5\n", stdout)
	assert.Contains(t, stderr, "key pressed")
}

func TestKeypadJSON(t *testing.T) {
	stdout, _, err := execute(t, "", "--format", "json", "keypad")
	require.NoError(t, err)

	var got keypadOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "0", got.DisplayValue)
	assert.Equal(t, []string{"+", "-", "x", "/"}, got.Operators)
	assert.Equal(t, "=", got.Submit)
}

func TestKeypadText(t *testing.T) {
	stdout, _, err := execute(t, "", "keypad")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[ ce]")
	assert.Contains(t, stdout, "[  =]")
}

func TestReplKeepsStateAcrossLines(t *testing.T) {
	stdout, stderr, err := execute(t, "1 2\n+\n3 0 =\n% 5\nquit\n9\n", "--format", "json", "repl")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 4)

	var last StateOutput
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &last))
	assert.Equal(t, "42", last.DisplayValue)

	require.NoError(t, json.Unmarshal([]byte(lines[3]), &last))
	assert.Equal(t, "42", last.DisplayValue, "line with unknown key is skipped")
	assert.Contains(t, stderr, "unknown key")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("boom")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))
}
