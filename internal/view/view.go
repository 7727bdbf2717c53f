// Package view renders the calculator display and keypad as text. Renderers
// only read from their sources.
package view

import (
	"fmt"
	"strings"
)

const (
	keyWidth    = 5 // "[ ce]"
	keysPerRow  = 3
	columnGap   = "  "
	submitLabel = "="
)

// width is the full width of a rendered keypad row.
var width = keysPerRow*keyWidth + len(columnGap) + keyWidth

// DisplaySource is what the display renderer reads.
type DisplaySource interface {
	DisplayValue() string
}

// KeypadSource is what the keypad renderer reads.
type KeypadSource interface {
	Numbers() []string
	Operators() []string
}

// Source is satisfied by *calculator.Engine.
type Source interface {
	DisplaySource
	KeypadSource
}

// RenderDisplay draws the display value right-aligned in a box. Values too
// wide for the box keep their rightmost characters.
func RenderDisplay(src DisplaySource) string {
	inner := width - 4
	value := src.DisplayValue()
	if len(value) > inner {
		value = value[len(value)-inner:]
	}

	border := "+" + strings.Repeat("-", width-2) + "+\n"

	var b strings.Builder
	b.WriteString(border)
	fmt.Fprintf(&b, "| %*s |\n", inner, value)
	b.WriteString(border)
	return b.String()
}

// RenderKeypad draws the number keys in rows of three with the operators in
// a column on the right and the submit key underneath.
func RenderKeypad(src KeypadSource) string {
	numbers := src.Numbers()
	operators := src.Operators()

	rows := (len(numbers) + keysPerRow - 1) / keysPerRow
	if len(operators) > rows {
		rows = len(operators)
	}

	var b strings.Builder
	for row := 0; row < rows; row++ {
		var left strings.Builder
		for col := 0; col < keysPerRow; col++ {
			i := row*keysPerRow + col
			if i < len(numbers) {
				left.WriteString(key(numbers[i]))
			}
		}
		fmt.Fprintf(&b, "%-*s", keysPerRow*keyWidth, left.String())
		b.WriteString(columnGap)
		if row < len(operators) {
			b.WriteString(key(operators[row]))
		} else {
			b.WriteString(strings.Repeat(" ", keyWidth))
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat(" ", keysPerRow*keyWidth))
	b.WriteString(columnGap)
	b.WriteString(key(submitLabel))
	b.WriteString("\n")

	return b.String()
}

// Render draws the display above the keypad.
func Render(src Source) string {
	return RenderDisplay(src) + RenderKeypad(src)
}

func key(label string) string {
	return fmt.Sprintf("[%3s]", label)
}
