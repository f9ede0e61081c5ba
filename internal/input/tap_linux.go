//go:build linux

package input

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/levskiy0/skreenme-capture-kit/internal/protocol"
)

// XI2 event type codes as printed by xinput test-xi2.
const (
	xiKeyPress      = 2
	xiKeyRelease    = 3
	xiButtonPress   = 4
	xiButtonRelease = 5
	xiMotion        = 6
)

// xinputTap listens to the X server's root window through
// `xinput test-xi2 --root` and translates its text stream into raw events.
// The child has no timestamp output, so HWTime is elapsed time since the
// tap started; the synchronizer only relies on the deltas.
type xinputTap struct {
	mu   sync.Mutex
	cmd  *exec.Cmd
	done chan struct{}
}

// NewTap returns the platform hardware tap.
func NewTap() Tap {
	return &xinputTap{}
}

func (t *xinputTap) Start(onEvent func(RawEvent)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cmd != nil {
		return nil
	}

	cmd := exec.Command("xinput", "test-xi2", "--root")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start xinput: %w", err)
	}

	t.cmd = cmd
	t.done = make(chan struct{})

	epoch := time.Now()
	go t.readLoop(stdout, onEvent, func() time.Duration { return time.Since(epoch) })
	return nil
}

func (t *xinputTap) readLoop(r io.Reader, onEvent func(RawEvent), now func() time.Duration) {
	defer close(t.done)

	parser := newXI2Parser(now)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if ev, ok := parser.feed(sc.Text()); ok {
			onEvent(ev)
		}
	}
}

func (t *xinputTap) Stop() {
	t.mu.Lock()
	cmd, done := t.cmd, t.done
	t.cmd, t.done = nil, nil
	t.mu.Unlock()

	if cmd == nil {
		return
	}
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
	<-done
	_ = cmd.Wait()
}

// xi2Parser assembles events from the multi-line test-xi2 format:
//
//	EVENT type 4 (ButtonPress)
//	    device: 2 (11)
//	    detail: 1
//	    root: 1047.21/403.58
//
// Pointer events complete on the root coordinate line; key events carry no
// payload the timeline needs and are emitted on the header line.
type xi2Parser struct {
	now       func() time.Duration
	eventType int
	detail    int
}

func newXI2Parser(now func() time.Duration) *xi2Parser {
	return &xi2Parser{now: now}
}

func (p *xi2Parser) feed(line string) (RawEvent, bool) {
	s := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(s, "EVENT type "):
		rest := strings.TrimPrefix(s, "EVENT type ")
		if i := strings.IndexByte(rest, ' '); i > 0 {
			rest = rest[:i]
		}
		p.eventType, _ = strconv.Atoi(rest)
		p.detail = 0
		if p.eventType == xiKeyPress || p.eventType == xiKeyRelease {
			p.eventType = 0
			return RawEvent{Keyboard: true, HWTime: p.now()}, true
		}

	case strings.HasPrefix(s, "detail:"):
		p.detail, _ = strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(s, "detail:")))

	case strings.HasPrefix(s, "root:"):
		x, y, ok := parseRootCoords(strings.TrimSpace(strings.TrimPrefix(s, "root:")))
		if !ok {
			return RawEvent{}, false
		}
		ev, ok := p.pointerEvent(x, y)
		p.eventType = 0
		return ev, ok
	}
	return RawEvent{}, false
}

func (p *xi2Parser) pointerEvent(x, y float64) (RawEvent, bool) {
	ev := RawEvent{X: x, Y: y, HWTime: p.now()}
	switch p.eventType {
	case xiMotion:
		ev.Kind = protocol.PointerMove
		return ev, true

	case xiButtonPress:
		if dx, dy, wheel := wheelDelta(p.detail); wheel {
			ev.Kind = protocol.PointerWheel
			ev.DeltaX, ev.DeltaY = dx, dy
			return ev, true
		}
		if name := buttonName(p.detail); name != "" {
			ev.Kind = protocol.PointerDown
			ev.Button = name
			return ev, true
		}

	case xiButtonRelease:
		// Scroll buttons release right after the synthetic press; only real
		// button releases make the timeline.
		if name := buttonName(p.detail); name != "" {
			ev.Kind = protocol.PointerUp
			ev.Button = name
			return ev, true
		}
	}
	return RawEvent{}, false
}

func parseRootCoords(s string) (float64, float64, bool) {
	xs, ys, found := strings.Cut(s, "/")
	if !found {
		return 0, 0, false
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if errX != nil || errY != nil {
		return 0, 0, false
	}
	return x, y, true
}

func buttonName(detail int) string {
	switch detail {
	case 1:
		return "left"
	case 2:
		return "middle"
	case 3:
		return "right"
	}
	return ""
}

// wheelDelta maps the X scroll buttons (4..7) onto wheel deltas.
func wheelDelta(detail int) (dx, dy float64, ok bool) {
	switch detail {
	case 4:
		return 0, 1, true
	case 5:
		return 0, -1, true
	case 6:
		return -1, 0, true
	case 7:
		return 1, 0, true
	}
	return 0, 0, false
}
