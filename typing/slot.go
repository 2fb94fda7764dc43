// Package typing animates text into output slots one grapheme cluster at a
// time. A Looper cycles through a list of lines forever, typing and deleting
// each one; a OneShot types two fixed lines once and marks itself complete.
//
// Sequencers never block. Every step schedules the next one through a
// Scheduler, and at most one step is outstanding per sequencer.
package typing

import "github.com/rivo/uniseg"

// TextSlot receives the displayed text
type TextSlot interface {
	SetText(text string)
}

// Indicator is a visibility toggle such as a blinking cursor
type Indicator interface {
	SetVisible(visible bool)
}

// Completer is flagged once when a sequence finishes
type Completer interface {
	MarkComplete()
}

// TextFunc adapts a function to a TextSlot
type TextFunc func(text string)

func (f TextFunc) SetText(text string) { f(text) }

// VisibleFunc adapts a function to an Indicator
type VisibleFunc func(visible bool)

func (f VisibleFunc) SetVisible(visible bool) { f(visible) }

// CompleteFunc adapts a function to a Completer
type CompleteFunc func()

func (f CompleteFunc) MarkComplete() { f() }

// validText reports whether t can receive text. A nil adapter counts as
// missing, like a nil interface.
func validText(t TextSlot) bool {
	if f, ok := t.(TextFunc); ok {
		return f != nil
	}
	return t != nil
}

func validIndicator(i Indicator) bool {
	if f, ok := i.(VisibleFunc); ok {
		return f != nil
	}
	return i != nil
}

func validCompleter(c Completer) bool {
	if f, ok := c.(CompleteFunc); ok {
		return f != nil
	}
	return c != nil
}

// clusters splits s into user-perceived characters
func clusters(s string) []string {
	var out []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// prefix joins the first n clusters
func prefix(cs []string, n int) string {
	size := 0
	for _, c := range cs[:n] {
		size += len(c)
	}
	b := make([]byte, 0, size)
	for _, c := range cs[:n] {
		b = append(b, c...)
	}
	return string(b)
}
