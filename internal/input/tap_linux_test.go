//go:build linux

package input

import (
	"testing"
	"time"

	"github.com/levskiy0/skreenme-capture-kit/internal/protocol"
)

// feedLines runs a test-xi2 transcript through the parser with a ticking
// clock and returns the emitted events.
func feedLines(lines []string) []RawEvent {
	var tick time.Duration
	p := newXI2Parser(func() time.Duration {
		tick += time.Millisecond
		return tick
	})

	var out []RawEvent
	for _, line := range lines {
		if ev, ok := p.feed(line); ok {
			out = append(out, ev)
		}
	}
	return out
}

func TestXI2ParserClickSequence(t *testing.T) {
	events := feedLines([]string{
		"EVENT type 6 (Motion)",
		"    device: 2 (11)",
		"    detail: 0",
		"    flags:",
		"    root: 1047.21/403.58",
		"    event: 1047.21/403.58",
		"EVENT type 4 (ButtonPress)",
		"    device: 2 (11)",
		"    detail: 1",
		"    root: 1047.21/403.58",
		"EVENT type 5 (ButtonRelease)",
		"    device: 2 (11)",
		"    detail: 1",
		"    root: 1047.21/403.58",
	})

	if len(events) != 3 {
		t.Fatalf("got %d events, want 3: %+v", len(events), events)
	}
	if events[0].Kind != protocol.PointerMove || events[0].X != 1047.21 || events[0].Y != 403.58 {
		t.Errorf("move = %+v", events[0])
	}
	if events[1].Kind != protocol.PointerDown || events[1].Button != "left" {
		t.Errorf("down = %+v", events[1])
	}
	if events[2].Kind != protocol.PointerUp || events[2].Button != "left" {
		t.Errorf("up = %+v", events[2])
	}
	// The injected clock ticks once per line, so timestamps increase.
	if !(events[0].HWTime < events[1].HWTime && events[1].HWTime < events[2].HWTime) {
		t.Errorf("timestamps not increasing: %+v", events)
	}
}

func TestXI2ParserButtonNames(t *testing.T) {
	cases := []struct {
		detail string
		want   string
	}{
		{"1", "left"},
		{"2", "middle"},
		{"3", "right"},
	}
	for _, tc := range cases {
		events := feedLines([]string{
			"EVENT type 4 (ButtonPress)",
			"    detail: " + tc.detail,
			"    root: 10.00/20.00",
		})
		if len(events) != 1 || events[0].Button != tc.want {
			t.Errorf("detail %s: events = %+v, want button %q", tc.detail, events, tc.want)
		}
	}
}

func TestXI2ParserScrollButtons(t *testing.T) {
	cases := []struct {
		detail string
		dx, dy float64
	}{
		{"4", 0, 1},
		{"5", 0, -1},
		{"6", -1, 0},
		{"7", 1, 0},
	}
	for _, tc := range cases {
		events := feedLines([]string{
			"EVENT type 4 (ButtonPress)",
			"    detail: " + tc.detail,
			"    root: 10.00/20.00",
			// The matching release of a scroll button is synthetic noise.
			"EVENT type 5 (ButtonRelease)",
			"    detail: " + tc.detail,
			"    root: 10.00/20.00",
		})
		if len(events) != 1 {
			t.Fatalf("detail %s: got %d events, want the press only", tc.detail, len(events))
		}
		ev := events[0]
		if ev.Kind != protocol.PointerWheel || ev.DeltaX != tc.dx || ev.DeltaY != tc.dy {
			t.Errorf("detail %s: event = %+v, want deltas %v,%v", tc.detail, ev, tc.dx, tc.dy)
		}
	}
}

func TestXI2ParserKeyboard(t *testing.T) {
	events := feedLines([]string{
		"EVENT type 2 (KeyPress)",
		"    device: 3 (9)",
		"    detail: 38",
		"EVENT type 3 (KeyRelease)",
		"    detail: 38",
	})
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	for _, ev := range events {
		if !ev.Keyboard {
			t.Errorf("event = %+v, want keyboard flag", ev)
		}
	}
}

func TestXI2ParserIgnoresGarbage(t *testing.T) {
	events := feedLines([]string{
		"WAITING FOR EVENTS",
		"EVENT type 4 (ButtonPress)",
		"    detail: not-a-number",
		"    root: broken",
		"    root: also/broken",
		"EVENT type 99 (Unknown)",
		"    root: 1.00/2.00",
	})
	if len(events) != 0 {
		t.Fatalf("events = %+v, want none from malformed input", events)
	}
}
