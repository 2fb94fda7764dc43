package typing

import (
	"context"
	"sync"
	"time"
)

// Mode says whether a Looper is adding or removing characters
type Mode int

const (
	Typing Mode = iota
	Deleting
)

func (m Mode) String() string {
	if m == Deleting {
		return "deleting"
	}
	return "typing"
}

// LoopTiming holds the delays between Looper steps
type LoopTiming struct {
	Type      time.Duration // between typed characters
	Delete    time.Duration // between deleted characters
	ReadPause time.Duration // after a line is fully typed
	NextLine  time.Duration // after a line is fully deleted
}

// DefaultLoopTiming matches the hero subtitle animation
var DefaultLoopTiming = LoopTiming{
	Type:      100 * time.Millisecond,
	Delete:    50 * time.Millisecond,
	ReadPause: 2000 * time.Millisecond,
	NextLine:  500 * time.Millisecond,
}

// LoopState is a snapshot of a Looper
type LoopState struct {
	LineIndex int
	CharIndex int
	Mode      Mode
	Text      string
}

// LoopOption configures a Looper
type LoopOption func(*Looper)

// WithScheduler sets the scheduler driving the Looper
func WithScheduler(s Scheduler) LoopOption {
	return func(l *Looper) { l.sched = s }
}

// WithLoopTiming overrides DefaultLoopTiming
func WithLoopTiming(t LoopTiming) LoopOption {
	return func(l *Looper) { l.timing = t }
}

// Looper types each line, pauses, deletes it and moves on to the next,
// wrapping after the last line. It never terminates on its own.
type Looper struct {
	lines  [][]string
	out    TextSlot
	sched  Scheduler
	timing LoopTiming

	mu        sync.Mutex
	lineIndex int
	charIndex int
	mode      Mode
	text      string
	pending   Timer
	started   bool
	stopped   bool
}

// NewLooper creates a Looper over lines writing to out. Empty lines are
// dropped.
func NewLooper(lines []string, out TextSlot, opts ...LoopOption) *Looper {
	l := &Looper{
		out:    out,
		sched:  Clock{},
		timing: DefaultLoopTiming,
	}
	for _, line := range lines {
		if cs := clusters(line); len(cs) > 0 {
			l.lines = append(l.lines, cs)
		}
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start schedules the first step. It returns false, scheduling nothing, when
// there are no lines or no output slot. Calling Start again is a no-op.
func (l *Looper) Start() bool {
	if len(l.lines) == 0 || !validText(l.out) {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started || l.stopped {
		return l.started && !l.stopped
	}
	l.started = true
	l.pending = l.sched.AfterFunc(0, l.step)
	return true
}

// Run starts the Looper and stops it once ctx is done
func (l *Looper) Run(ctx context.Context) bool {
	if !l.Start() {
		return false
	}
	context.AfterFunc(ctx, l.Stop)
	return true
}

// Stop cancels the outstanding step. The Looper cannot be restarted.
func (l *Looper) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopped = true
	if l.pending != nil {
		l.pending.Stop()
		l.pending = nil
	}
}

// State returns a snapshot of the sequencer
func (l *Looper) State() LoopState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return LoopState{
		LineIndex: l.lineIndex,
		CharIndex: l.charIndex,
		Mode:      l.mode,
		Text:      l.text,
	}
}

func (l *Looper) step() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}

	line := l.lines[l.lineIndex]
	var delay time.Duration
	if l.mode == Deleting {
		l.charIndex--
		delay = l.timing.Delete
	} else {
		l.charIndex++
		delay = l.timing.Type
	}
	l.text = prefix(line, l.charIndex)
	text := l.text

	switch {
	case l.mode == Typing && l.charIndex == len(line):
		l.mode = Deleting
		delay = l.timing.ReadPause
	case l.mode == Deleting && l.charIndex == 0:
		l.mode = Typing
		l.lineIndex = (l.lineIndex + 1) % len(l.lines)
		delay = l.timing.NextLine
	}
	l.mu.Unlock()

	l.out.SetText(text)

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.stopped {
		l.pending = l.sched.AfterFunc(delay, l.step)
	}
}
