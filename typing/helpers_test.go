package typing

import (
	"fmt"
	"sync"
)

// recorder logs every slot write as "name:value"
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) text(name string) TextFunc {
	return func(s string) { r.add("%s:%s", name, s) }
}

func (r *recorder) cursor(name string) VisibleFunc {
	return func(v bool) { r.add("%s:%t", name, v) }
}

func (r *recorder) done() CompleteFunc {
	return func() { r.add("complete") }
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

// fixedJitter always draws the same offset into the span
type fixedJitter int

func (f fixedJitter) IntN(n int) int {
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}
