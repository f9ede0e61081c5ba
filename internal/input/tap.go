// Package input produces the session's normalized pointer-event timeline.
// A hardware tap and a fixed-interval poller feed one synchronizer that
// aligns every event onto the primary lane's time base.
package input

import (
	"time"
)

// RawEvent is one hardware transition as delivered by the tap, in global
// logical (point) coordinates. HWTime is the tap's own monotonic timestamp
// with an arbitrary base.
type RawEvent struct {
	Kind     string // protocol.PointerMove/Down/Up/Wheel
	X        float64
	Y        float64
	Button   string
	DeltaX   float64
	DeltaY   float64
	HWTime   time.Duration
	Keyboard bool
}

// Tap is a listen-only hardware event source. Start must be called from
// the goroutine that pumps the platform's main event loop; the tap cannot
// be driven from an arbitrary worker.
type Tap interface {
	Start(onEvent func(RawEvent)) error
	Stop()
}

// Prober reports the current pointer position and, where the platform can,
// the explicit cursor style.
type Prober interface {
	// Position returns the pointer in global logical coordinates.
	Position() (x, y float64, ok bool)
	// Shape returns the platform's explicit cursor style, or "" when only
	// the generic default is reported.
	Shape() string
}
