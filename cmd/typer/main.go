// Command typer plays the portfolio's hero typing animations in a terminal
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/portfolio-site/portfolio/content"
	"github.com/portfolio-site/portfolio/typing"
)

// hero mirrors the page's typing slots
type hero struct {
	line1    string
	line2    string
	cursor1  bool
	cursor2  bool
	complete bool
	subtitle string
}

// view redraws the hero whenever a sequencer writes a slot
type view struct {
	screen tcell.Screen
	name   string

	mu    sync.Mutex
	state hero
}

func (v *view) update(f func(h *hero)) {
	v.mu.Lock()
	f(&v.state)
	v.mu.Unlock()
	// a full queue drops this redraw, the next one shows the latest state
	v.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

func (v *view) textSlot(field func(h *hero) *string) typing.TextFunc {
	return func(s string) { v.update(func(h *hero) { *field(h) = s }) }
}

func (v *view) cursorSlot(field func(h *hero) *bool) typing.VisibleFunc {
	return func(b bool) { v.update(func(h *hero) { *field(h) = b }) }
}

func (v *view) draw() {
	v.mu.Lock()
	h := v.state
	v.mu.Unlock()

	v.screen.Clear()
	w, ht := v.screen.Size()
	top := ht/2 - 3

	text := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	accent := tcell.StyleDefault.Foreground(tcell.ColorTeal)
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)

	drawLine(v.screen, w, top, h.line1, h.cursor1, text, accent)
	drawLine(v.screen, w, top+1, h.line2, h.cursor2 && !h.complete, text, accent)
	drawLine(v.screen, w, top+3, v.name, false, text.Bold(true), accent)
	drawLine(v.screen, w, top+4, h.subtitle, true, accent, accent)
	drawLine(v.screen, w, ht-1, "q / Esc to quit", false, dim, dim)
	v.screen.Show()
}

// drawLine centers s on row y, one grapheme cluster per cell run
func drawLine(s tcell.Screen, width, y int, str string, cursor bool, style, cursorStyle tcell.Style) {
	total := runewidth.StringWidth(str)
	if cursor {
		total++
	}
	x := (width - total) / 2
	if x < 0 {
		x = 0
	}

	g := uniseg.NewGraphemes(str)
	for g.Next() {
		runes := g.Runes()
		s.SetContent(x, y, runes[0], runes[1:], style)
		x += max(1, runewidth.StringWidth(g.Str()))
	}
	if cursor {
		s.SetContent(x, y, '▌', nil, cursorStyle)
	}
}

func loadPortfolio(path string) (*content.Portfolio, error) {
	if path == "" {
		return content.Default()
	}
	return content.Load(path)
}

func run(contentPath string) error {
	p, err := loadPortfolio(contentPath)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	v := &view{screen: screen, name: p.Profile.Name}
	greeting := typing.NewOneShot(
		typing.DefaultOneShotConfig(p.Profile.Greeting[0], p.Profile.Greeting[1]),
		typing.OneShotSlots{
			First:        v.textSlot(func(h *hero) *string { return &h.line1 }),
			Second:       v.textSlot(func(h *hero) *string { return &h.line2 }),
			FirstCursor:  v.cursorSlot(func(h *hero) *bool { return &h.cursor1 }),
			SecondCursor: v.cursorSlot(func(h *hero) *bool { return &h.cursor2 }),
			Done:         typing.CompleteFunc(func() { v.update(func(h *hero) { h.complete = true }) }),
		})
	subtitles := typing.NewLooper(p.Profile.Subtitles,
		v.textSlot(func(h *hero) *string { return &h.subtitle }))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	greeting.Run(ctx)
	subtitles.Run(ctx)

	v.draw()
	for {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventInterrupt:
			v.draw()
		case *tcell.EventResize:
			screen.Sync()
			v.draw()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				return nil
			}
		case nil:
			return nil
		}
	}
}

func main() {
	contentPath := flag.String("content", os.Getenv("CONTENT_PATH"), "portfolio TOML file, embedded default when empty")
	flag.Parse()

	if err := run(*contentPath); err != nil {
		fmt.Fprintf(os.Stderr, "typer: %v\n", err)
		os.Exit(1)
	}
}
