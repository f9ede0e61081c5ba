// Package geometry resolves a capture target against a source snapshot into
// the capture geometry shared by the video pipeline and the pointer-event
// transform. Pure computation, invoked once per session start.
package geometry

import (
	"errors"

	"github.com/levskiy0/skreenme-capture-kit/internal/protocol"
)

var (
	ErrDisplayNotFound = errors.New("display not found")
	ErrWindowNotFound  = errors.New("window not found")
	ErrInvalidRegion   = errors.New("invalid region")
	ErrInvalidMode     = errors.New("invalid capture mode")
)

// Geometry maps global screen coordinates onto one capture target.
// Offset and the underlying bounds are logical points; PixelWidth/Height
// are physical pixels (points x scale).
type Geometry struct {
	OffsetX     float64
	OffsetY     float64
	Scale       float64
	PixelWidth  int
	PixelHeight int
}

// Target names what to capture. Exactly one of DisplayID/WindowID/Region is
// meaningful, selected by Mode.
type Target struct {
	Mode      string
	DisplayID string
	WindowID  string
	Region    *protocol.Rect
}

// Resolve computes the capture geometry for target against a fresh snapshot
// of displays and windows.
func Resolve(target Target, displays []protocol.DisplayInfo, windows []protocol.WindowInfo) (Geometry, error) {
	switch target.Mode {
	case protocol.ModeDisplay:
		for _, d := range displays {
			if d.ID == target.DisplayID {
				return fromRect(d.Bounds, scaleOr(d.ScaleFactor)), nil
			}
		}
		return Geometry{}, ErrDisplayNotFound

	case protocol.ModeWindow:
		for _, w := range windows {
			if w.ID == target.WindowID {
				return fromRect(w.Bounds, windowScale(w.Bounds, displays)), nil
			}
		}
		return Geometry{}, ErrWindowNotFound

	case protocol.ModeRegion:
		if target.Region == nil || target.Region.Width <= 0 || target.Region.Height <= 0 {
			return Geometry{}, ErrInvalidRegion
		}
		return fromRect(*target.Region, primaryScale(displays)), nil

	default:
		return Geometry{}, ErrInvalidMode
	}
}

func fromRect(r protocol.Rect, scale float64) Geometry {
	return Geometry{
		OffsetX:     r.X,
		OffsetY:     r.Y,
		Scale:       scale,
		PixelWidth:  int(r.Width * scale),
		PixelHeight: int(r.Height * scale),
	}
}

// windowScale picks the scale factor of the display with the largest
// overlap with the window. Falls back to the first display, then 1.0.
func windowScale(bounds protocol.Rect, displays []protocol.DisplayInfo) float64 {
	best := -1.0
	scale := 0.0
	for _, d := range displays {
		if a := overlapArea(bounds, d.Bounds); a > best {
			best = a
			scale = d.ScaleFactor
		}
	}
	if best <= 0 {
		return primaryScale(displays)
	}
	return scaleOr(scale)
}

func primaryScale(displays []protocol.DisplayInfo) float64 {
	for _, d := range displays {
		if d.Primary {
			return scaleOr(d.ScaleFactor)
		}
	}
	if len(displays) > 0 {
		return scaleOr(displays[0].ScaleFactor)
	}
	return 1.0
}

func scaleOr(s float64) float64 {
	if s <= 0 {
		return 1.0
	}
	return s
}

func overlapArea(a, b protocol.Rect) float64 {
	w := min(a.X+a.Width, b.X+b.Width) - max(a.X, b.X)
	h := min(a.Y+a.Height, b.Y+b.Height) - max(a.Y, b.Y)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
