package main

import (
	"bufio"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/portfolio-site/portfolio/content"
)

type sseEvent struct {
	Name string
	Data string
}

// readEvents parses up to max server-sent events, stopping early at EOF
func readEvents(t *testing.T, r io.Reader, max int) []sseEvent {
	t.Helper()
	var (
		events []sseEvent
		cur    sseEvent
		seen   bool
	)
	sc := bufio.NewScanner(r)
	for len(events) < max && sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
			if seen {
				events = append(events, cur)
			}
			cur, seen = sseEvent{}, false
		case strings.HasPrefix(line, "event:"):
			cur.Name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			seen = true
		case strings.HasPrefix(line, "data:"):
			cur.Data = strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " ")
			seen = true
		}
	}
	return events
}

func openStream(t *testing.T, ts *testSite, path string) *http.Response {
	t.Helper()
	srv := httptest.NewServer(ts.router)
	t.Cleanup(srv.Close)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+path, nil)
	req.Header.Set("DNT", "1")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestSubtitleStream(t *testing.T) {
	ts := newTestSite(t, func(p *content.Portfolio) {
		p.Profile.Subtitles = []string{"A", "BB"}
	})
	resp := openStream(t, ts, "/typing/subtitles")
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("Content-Type = %q", ct)
	}

	var got []string
	for _, ev := range readEvents(t, resp.Body, 12) {
		if ev.Name != eventSubtitle {
			t.Fatalf("unexpected event %q", ev.Name)
		}
		got = append(got, ev.Data)
	}
	cycle := []string{"A", "", "B", "BB", "B", ""}
	want := append(append([]string{}, cycle...), cycle...)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("subtitle frames mismatch (-want +got):\n%s", diff)
	}
}

func TestGreetingStream(t *testing.T) {
	ts := newTestSite(t, func(p *content.Portfolio) {
		p.Profile.Greeting = [2]string{"Hi", "Bye"}
	})
	resp := openStream(t, ts, "/typing/greeting")

	events := readEvents(t, resp.Body, 100)
	want := []sseEvent{
		{eventCursor1, "1"}, {eventCursor2, "0"},
		{eventTyped1, ""}, {eventTyped1, "H"}, {eventTyped1, "Hi"},
		{eventCursor1, "0"}, {eventCursor2, "1"},
		{eventTyped2, "B"}, {eventTyped2, "By"}, {eventTyped2, "Bye"},
		{eventCursor1, "0"}, {eventCursor2, "1"},
		{eventComplete, "1"},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("greeting frames mismatch (-want +got):\n%s", diff)
	}
}

func TestInertStreams(t *testing.T) {
	ts := newTestSite(t, func(p *content.Portfolio) {
		p.Profile.Subtitles = []string{"", ""}
		p.Profile.Greeting = [2]string{}
	})
	for _, path := range []string{"/typing/subtitles", "/typing/greeting"} {
		if w := ts.get(path); w.Code != http.StatusNoContent {
			t.Errorf("GET %s = %d, want 204", path, w.Code)
		}
	}
}
