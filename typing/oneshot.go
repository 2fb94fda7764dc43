package typing

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// Jitter draws the random perturbation added to each character delay.
// *rand.Rand from math/rand/v2 satisfies it.
type Jitter interface {
	IntN(n int) int
}

type globalJitter struct{}

func (globalJitter) IntN(n int) int { return rand.IntN(n) }

// OneShotConfig describes the two lines and their timing
type OneShotConfig struct {
	First  string
	Second string

	FirstSpeed  time.Duration // nominal delay per character of First
	SecondSpeed time.Duration // nominal delay per character of Second
	FirstDelay  time.Duration // wait before First starts
	SecondDelay time.Duration // wait before Second starts, after Pause
	Pause       time.Duration // wait between the lines
	MinInterval time.Duration // floor for any character delay

	// Jitter is JitterLow + IntN(JitterSpan) milliseconds
	JitterLow  int
	JitterSpan int
}

// DefaultOneShotConfig returns the greeting timings for the given lines
func DefaultOneShotConfig(first, second string) OneShotConfig {
	return OneShotConfig{
		First:       first,
		Second:      second,
		FirstSpeed:  65 * time.Millisecond,
		SecondSpeed: 55 * time.Millisecond,
		FirstDelay:  150 * time.Millisecond,
		SecondDelay: 100 * time.Millisecond,
		Pause:       320 * time.Millisecond,
		MinInterval: 18 * time.Millisecond,
		JitterLow:   -10,
		JitterSpan:  20,
	}
}

// OneShotSlots are the outputs a OneShot writes to. All are required.
type OneShotSlots struct {
	First        TextSlot
	Second       TextSlot
	FirstCursor  Indicator
	SecondCursor Indicator
	Done         Completer
}

func (s OneShotSlots) complete() bool {
	return validText(s.First) && validText(s.Second) &&
		validIndicator(s.FirstCursor) && validIndicator(s.SecondCursor) && validCompleter(s.Done)
}

// OneShotOption configures a OneShot
type OneShotOption func(*OneShot)

// WithOneShotScheduler sets the scheduler driving the OneShot
func WithOneShotScheduler(s Scheduler) OneShotOption {
	return func(o *OneShot) { o.sched = s }
}

// WithJitter sets the random source for character delays
func WithJitter(j Jitter) OneShotOption {
	return func(o *OneShot) { o.jitter = j }
}

type phase int

const (
	phaseIdle phase = iota
	phaseFirstWait
	phaseFirst
	phasePause
	phaseSecondWait
	phaseSecond
	phaseComplete
)

// OneShot types two lines once, moving the cursor from the first to the
// second between them, then marks completion. It never deletes.
type OneShot struct {
	cfg    OneShotConfig
	first  []string
	second []string
	slots  OneShotSlots
	sched  Scheduler
	jitter Jitter

	mu      sync.Mutex
	phase   phase
	idx     int
	typed   string
	pending Timer
	stopped bool
}

// NewOneShot creates a OneShot writing to slots
func NewOneShot(cfg OneShotConfig, slots OneShotSlots, opts ...OneShotOption) *OneShot {
	o := &OneShot{
		cfg:    cfg,
		first:  clusters(cfg.First),
		second: clusters(cfg.Second),
		slots:  slots,
		sched:  Clock{},
		jitter: globalJitter{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Start shows the first cursor and schedules the first line. It returns
// false, touching nothing, when any slot is missing. Calling Start again is
// a no-op.
func (o *OneShot) Start() bool {
	if !o.slots.complete() {
		return false
	}
	o.mu.Lock()
	if o.phase != phaseIdle || o.stopped {
		started := o.phase != phaseIdle
		o.mu.Unlock()
		return started
	}
	o.phase = phaseFirstWait
	o.mu.Unlock()

	o.slots.FirstCursor.SetVisible(true)
	o.slots.SecondCursor.SetVisible(false)

	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.stopped {
		o.pending = o.sched.AfterFunc(o.cfg.FirstDelay, o.step)
	}
	return true
}

// Run starts the OneShot and stops it once ctx is done
func (o *OneShot) Run(ctx context.Context) bool {
	if !o.Start() {
		return false
	}
	context.AfterFunc(ctx, o.Stop)
	return true
}

// Stop cancels the outstanding step
func (o *OneShot) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopped = true
	if o.pending != nil {
		o.pending.Stop()
		o.pending = nil
	}
}

// Done reports whether the sequence completed
func (o *OneShot) Done() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase == phaseComplete
}

// interval is the delay after a character typed at the given speed
func (o *OneShot) interval(speed time.Duration) time.Duration {
	d := speed
	if o.cfg.JitterSpan > 0 {
		d += time.Duration(o.cfg.JitterLow+o.jitter.IntN(o.cfg.JitterSpan)) * time.Millisecond
	}
	return max(o.cfg.MinInterval, d)
}

func (o *OneShot) step() {
	o.mu.Lock()
	if o.stopped || o.phase == phaseComplete {
		o.mu.Unlock()
		return
	}

	var (
		effects []func()
		delay   time.Duration
		next    = true
	)
	for advanced := true; advanced; {
		advanced = false
		switch o.phase {
		case phaseFirstWait:
			o.phase, o.idx, o.typed = phaseFirst, 0, ""
			effects = append(effects, func() { o.slots.First.SetText("") })
			advanced = true
		case phaseFirst:
			if o.idx < len(o.first) {
				effects = append(effects, o.typeNext(o.first, o.slots.First))
				delay = o.interval(o.cfg.FirstSpeed)
			} else {
				o.phase = phasePause
				delay = o.cfg.Pause
			}
		case phasePause:
			effects = append(effects, func() {
				o.slots.FirstCursor.SetVisible(false)
				o.slots.SecondCursor.SetVisible(true)
			})
			o.phase = phaseSecondWait
			delay = o.cfg.SecondDelay
		case phaseSecondWait:
			o.phase, o.idx, o.typed = phaseSecond, 0, ""
			advanced = true
		case phaseSecond:
			if o.idx < len(o.second) {
				effects = append(effects, o.typeNext(o.second, o.slots.Second))
				delay = o.interval(o.cfg.SecondSpeed)
			} else {
				o.phase = phaseComplete
				next = false
				effects = append(effects, func() {
					o.slots.FirstCursor.SetVisible(false)
					o.slots.SecondCursor.SetVisible(true)
					o.slots.Done.MarkComplete()
				})
			}
		}
	}
	o.pending = nil
	o.mu.Unlock()

	for _, f := range effects {
		f()
	}

	if !next {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.stopped {
		o.pending = o.sched.AfterFunc(delay, o.step)
	}
}

// typeNext appends the next cluster of line and returns the slot update.
// Called with o.mu held.
func (o *OneShot) typeNext(line []string, slot TextSlot) func() {
	o.typed += line[o.idx]
	o.idx++
	text := o.typed
	return func() { slot.SetText(text) }
}
