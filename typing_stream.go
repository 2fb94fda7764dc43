package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/portfolio-site/portfolio/typing"
)

// Event names match the element ids the page script writes into
const (
	eventSubtitle = "typing-text"
	eventTyped1   = "typed1"
	eventTyped2   = "typed2"
	eventCursor1  = "cursor1"
	eventCursor2  = "cursor2"
	eventComplete = "complete"
)

type streamFrame struct {
	event string
	data  string
	last  bool
}

// frameSink turns sequencer slot writes into server-sent events. Writes
// block until the handler has sent the previous frame, so a slow client
// slows the animation rather than buffering it.
type frameSink struct {
	ctx    context.Context
	frames chan streamFrame
}

func newFrameSink(ctx context.Context) frameSink {
	return frameSink{ctx: ctx, frames: make(chan streamFrame)}
}

func (f frameSink) emit(fr streamFrame) {
	select {
	case f.frames <- fr:
	case <-f.ctx.Done():
	}
}

func (f frameSink) text(event string) typing.TextFunc {
	return func(s string) { f.emit(streamFrame{event: event, data: s}) }
}

func (f frameSink) cursor(event string) typing.VisibleFunc {
	return func(visible bool) {
		data := "0"
		if visible {
			data = "1"
		}
		f.emit(streamFrame{event: event, data: data})
	}
}

func (f frameSink) done() typing.CompleteFunc {
	return func() { f.emit(streamFrame{event: eventComplete, data: "1", last: true}) }
}

// pump writes frames to the client until the last frame or disconnect
func (f frameSink) pump(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	for {
		select {
		case <-f.ctx.Done():
			return
		case fr := <-f.frames:
			c.SSEvent(fr.event, fr.data)
			c.Writer.Flush()
			if fr.last {
				return
			}
		}
	}
}

// streamSubtitles loops the hero subtitles for as long as the client listens
func (s *site) streamSubtitles(c *gin.Context) {
	ctx := c.Request.Context()
	sink := newFrameSink(ctx)

	seq := typing.NewLooper(s.portfolio.Profile.Subtitles, sink.text(eventSubtitle),
		typing.WithScheduler(s.clock))
	if !seq.Run(ctx) {
		c.Status(http.StatusNoContent)
		return
	}
	defer seq.Stop()

	sink.pump(c)
}

// streamGreeting types the two greeting lines once and ends the stream
func (s *site) streamGreeting(c *gin.Context) {
	greeting := s.portfolio.Profile.Greeting
	if greeting[0] == "" && greeting[1] == "" {
		c.Status(http.StatusNoContent)
		return
	}

	ctx := c.Request.Context()
	sink := newFrameSink(ctx)

	opts := []typing.OneShotOption{typing.WithOneShotScheduler(s.clock)}
	if s.jitter != nil {
		opts = append(opts, typing.WithJitter(s.jitter))
	}
	seq := typing.NewOneShot(typing.DefaultOneShotConfig(greeting[0], greeting[1]), typing.OneShotSlots{
		First:        sink.text(eventTyped1),
		Second:       sink.text(eventTyped2),
		FirstCursor:  sink.cursor(eventCursor1),
		SecondCursor: sink.cursor(eventCursor2),
		Done:         sink.done(),
	}, opts...)

	// Start writes the cursors synchronously, so pump must already be running
	started := make(chan bool, 1)
	go func() { started <- seq.Run(ctx) }()
	defer seq.Stop()

	sink.pump(c)
	<-started
}
