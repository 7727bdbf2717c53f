package calculator

import (
	"errors"
	"fmt"
	"slices"
)

// SubmitKey is the keypad button that triggers CallOperator.
const SubmitKey = "="

// ErrUnknownKey is returned when a label is not on the keypad.
var ErrUnknownKey = errors.New("unknown key")

// KeyKind tells which engine operation a button drives.
type KeyKind int

const (
	KeyNumber KeyKind = iota
	KeyOperator
	KeySubmit
)

func (k KeyKind) String() string {
	switch k {
	case KeyNumber:
		return "number"
	case KeyOperator:
		return "operator"
	case KeySubmit:
		return "submit"
	default:
		return fmt.Sprintf("KeyKind(%d)", int(k))
	}
}

// Key is a single keypad button.
type Key struct {
	Label string  `json:"label"`
	Kind  KeyKind `json:"-"`
}

// Keypad dispatches button presses to an Engine.
type Keypad struct {
	engine *Engine
}

func NewKeypad(e *Engine) *Keypad {
	return &Keypad{engine: e}
}

// Engine returns the engine the keypad drives.
func (k *Keypad) Engine() *Engine {
	return k.engine
}

// Keys lists the buttons: numbers, then operators, then the submit key.
func (k *Keypad) Keys() []Key {
	numbers := k.engine.Numbers()
	operators := k.engine.Operators()

	keys := make([]Key, 0, len(numbers)+len(operators)+1)
	for _, n := range numbers {
		keys = append(keys, Key{Label: n, Kind: KeyNumber})
	}
	for _, op := range operators {
		keys = append(keys, Key{Label: op, Kind: KeyOperator})
	}
	return append(keys, Key{Label: SubmitKey, Kind: KeySubmit})
}

// Lookup reports the kind of the button with the given label.
func (k *Keypad) Lookup(label string) (KeyKind, bool) {
	switch {
	case label == SubmitKey:
		return KeySubmit, true
	case slices.Contains(k.engine.numbers, label):
		return KeyNumber, true
	case slices.Contains(k.engine.operators, label):
		return KeyOperator, true
	}
	return 0, false
}

// Press activates one button. The returned Outcome is only set for the
// submit key.
func (k *Keypad) Press(label string) (Outcome, error) {
	kind, ok := k.Lookup(label)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownKey, label)
	}

	switch kind {
	case KeyNumber:
		k.engine.UpdateDisplay(label)
	case KeyOperator:
		k.engine.SetOperator(label)
	case KeySubmit:
		return k.engine.CallOperator(), nil
	}
	return Outcome{}, nil
}

// PressAll presses the labels in order and stops at the first unknown key.
// Keys pressed before the failure stay applied.
func (k *Keypad) PressAll(labels []string) (State, []Outcome, error) {
	var outcomes []Outcome
	for i, label := range labels {
		kind, _ := k.Lookup(label)
		out, err := k.Press(label)
		if err != nil {
			return k.engine.State(), outcomes, fmt.Errorf("key %d: %w", i, err)
		}
		if kind == KeySubmit {
			outcomes = append(outcomes, out)
		}
	}
	return k.engine.State(), outcomes, nil
}
