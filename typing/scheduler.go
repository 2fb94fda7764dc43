package typing

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending callback returned by a Scheduler
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the call
	// stopped the timer, false if it already fired or was stopped.
	Stop() bool
}

// Scheduler runs a callback once after a delay
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Clock schedules callbacks on the real wall clock
type Clock struct{}

// AfterFunc wraps time.AfterFunc
func (Clock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualScheduler is a virtual-time Scheduler for tests. Nothing fires until
// Advance or Step is called; callbacks run on the caller's goroutine.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*manualTimer
	delays  []time.Duration
}

type manualTimer struct {
	s   *ManualScheduler
	at  time.Duration
	seq int
	f   func()
}

// NewManualScheduler creates a scheduler positioned at virtual time zero
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &manualTimer{s: s, at: s.now + d, seq: s.seq, f: f}
	s.pending = append(s.pending, t)
	s.delays = append(s.delays, d)
	return t
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for i, p := range t.s.pending {
		if p == t {
			t.s.pending = append(t.s.pending[:i], t.s.pending[i+1:]...)
			return true
		}
	}
	return false
}

// next removes and returns the earliest timer due at or before limit
func (s *ManualScheduler) next(limit time.Duration, bounded bool) *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return nil
	}
	sort.SliceStable(s.pending, func(i, j int) bool {
		if s.pending[i].at != s.pending[j].at {
			return s.pending[i].at < s.pending[j].at
		}
		return s.pending[i].seq < s.pending[j].seq
	})
	t := s.pending[0]
	if bounded && t.at > limit {
		return nil
	}
	s.pending = s.pending[1:]
	if t.at > s.now {
		s.now = t.at
	}
	return t
}

// Advance moves virtual time forward by d, firing every callback that
// becomes due, including ones scheduled by callbacks fired along the way.
// It returns the number of callbacks fired.
func (s *ManualScheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	limit := s.now + d
	s.mu.Unlock()

	fired := 0
	for {
		t := s.next(limit, true)
		if t == nil {
			break
		}
		t.f()
		fired++
	}

	s.mu.Lock()
	if s.now < limit {
		s.now = limit
	}
	s.mu.Unlock()
	return fired
}

// Step fires the earliest pending callback. It returns the virtual time
// that elapsed before it fired and false when nothing was pending.
func (s *ManualScheduler) Step() (time.Duration, bool) {
	s.mu.Lock()
	before := s.now
	s.mu.Unlock()

	t := s.next(0, false)
	if t == nil {
		return 0, false
	}
	t.f()
	return t.at - before, true
}

// RunUntilIdle fires callbacks until none are pending or max callbacks have
// fired, and returns how many fired.
func (s *ManualScheduler) RunUntilIdle(max int) int {
	fired := 0
	for fired < max {
		if _, ok := s.Step(); !ok {
			break
		}
		fired++
	}
	return fired
}

// Pending returns the number of outstanding callbacks
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Now returns the elapsed virtual time
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Delays returns every delay requested so far, in request order
func (s *ManualScheduler) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Duration, len(s.delays))
	copy(out, s.delays)
	return out
}
