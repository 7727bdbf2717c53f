package calculator

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Keypad labels that UpdateDisplay treats specially.
const (
	ClearEntry   = "ce"
	DecimalPoint = "."
	zero         = "0"
)

// Operator symbols understood by CallOperator.
const (
	OpAdd      = "+"
	OpSubtract = "-"
	OpMultiply = "x"
	OpDivide   = "/"
)

var (
	defaultNumbers   = []string{"9", "8", "7", "6", "5", "4", "3", "2", "1", DecimalPoint, "0", ClearEntry}
	defaultOperators = []string{OpAdd, OpSubtract, OpMultiply, OpDivide}
)

// State is the mutable part of an Engine.
type State struct {
	DisplayValue     string `json:"display_value"`
	StoredValue      string `json:"stored_value"`
	SelectedOperator string `json:"selected_operator"`
}

// Engine is the calculator state machine behind a display and a keypad.
// UpdateDisplay, SetOperator and CallOperator are its only mutators.
// An Engine is not safe for concurrent use.
type Engine struct {
	state     State
	numbers   []string
	operators []string
}

// New returns an engine showing "0" with no pending operation.
func New() *Engine {
	return &Engine{
		state:     State{DisplayValue: zero},
		numbers:   defaultNumbers,
		operators: defaultOperators,
	}
}

func (e *Engine) DisplayValue() string     { return e.state.DisplayValue }
func (e *Engine) StoredValue() string      { return e.state.StoredValue }
func (e *Engine) SelectedOperator() string { return e.state.SelectedOperator }
func (e *Engine) State() State             { return e.state }

// Numbers returns the digit and control labels offered by the keypad.
func (e *Engine) Numbers() []string {
	return append([]string(nil), e.numbers...)
}

// Operators returns the operator labels offered by the keypad.
func (e *Engine) Operators() []string {
	return append([]string(nil), e.operators...)
}

// UpdateDisplay applies a single keypad token to the display value.
func (e *Engine) UpdateDisplay(input string) {
	display := e.state.DisplayValue

	switch {
	case input == ClearEntry:
		display = dropLast(display)
	case input == DecimalPoint:
		if !strings.Contains(display, DecimalPoint) {
			display += DecimalPoint
		}
	case display == zero:
		display = input
	default:
		display += input
	}

	// A lone sign is left behind when ce eats the digits of a negative result.
	if display == "" || display == OpSubtract {
		display = zero
	}

	e.state.DisplayValue = display
}

// SetOperator selects the pending operator. The first selection for an
// operand pair moves the display into the stored value; later selections
// only swap the operator.
func (e *Engine) SetOperator(operator string) {
	if e.state.StoredValue == "" {
		e.state.StoredValue = e.state.DisplayValue
		e.state.DisplayValue = zero
	}
	e.state.SelectedOperator = operator
}

// CallOperator applies the selected operator to the stored and displayed
// values and shows the result. Anything that cannot produce a finite number
// shows "0" instead. The pending operand and operator are cleared afterwards.
func (e *Engine) CallOperator() Outcome {
	out := evaluate(e.state.StoredValue, e.state.SelectedOperator, e.state.DisplayValue)

	e.state.DisplayValue = out.Value
	e.state.StoredValue = ""
	e.state.SelectedOperator = ""

	return out
}

// Outcome describes what CallOperator did. It carries no error: a
// normalized outcome has already been applied to the display as "0".
type Outcome struct {
	Operator   string
	Left       float64
	Right      float64
	Result     float64
	Value      string
	Normalized bool
	Reason     string
}

// Reasons reported on a normalized Outcome.
const (
	ReasonNoPending       = "no pending operation"
	ReasonInvalidOperand  = "operand is not a number"
	ReasonUnknownOperator = "unrecognized operator"
	ReasonNotFinite       = "result is not finite"
)

func evaluate(stored, operator, display string) Outcome {
	out := Outcome{Operator: operator}

	if stored == "" || operator == "" {
		return out.normalize(ReasonNoPending)
	}

	left, ok := parseOperand(stored)
	if !ok {
		return out.normalize(ReasonInvalidOperand)
	}
	right, ok := parseOperand(display)
	if !ok {
		return out.normalize(ReasonInvalidOperand)
	}
	out.Left, out.Right = left, right

	var result float64
	switch operator {
	case OpAdd:
		result = left + right
	case OpSubtract:
		result = left - right
	case OpMultiply:
		result = left * right
	case OpDivide:
		result = left / right
	default:
		return out.normalize(ReasonUnknownOperator)
	}

	if math.IsNaN(result) || math.IsInf(result, 0) {
		return out.normalize(ReasonNotFinite)
	}

	out.Result = result
	out.Value = formatResult(result)
	return out
}

func (o Outcome) normalize(reason string) Outcome {
	o.Result = 0
	o.Value = zero
	o.Normalized = true
	o.Reason = reason
	return o
}

func parseOperand(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func formatResult(v float64) string {
	if v == 0 {
		return zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func dropLast(s string) string {
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
