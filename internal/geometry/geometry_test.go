package geometry

import (
	"errors"
	"testing"

	"github.com/levskiy0/skreenme-capture-kit/internal/protocol"
)

func testDisplays() []protocol.DisplayInfo {
	return []protocol.DisplayInfo{
		{
			ID:          "1",
			Bounds:      protocol.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
			ScaleFactor: 2.0,
			Primary:     true,
		},
		{
			ID:          "2",
			Bounds:      protocol.Rect{X: 1920, Y: 0, Width: 1280, Height: 1024},
			ScaleFactor: 1.0,
		},
	}
}

func TestResolveDisplay(t *testing.T) {
	g, err := Resolve(Target{Mode: protocol.ModeDisplay, DisplayID: "1"}, testDisplays(), nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if g.PixelWidth != 3840 || g.PixelHeight != 2160 {
		t.Errorf("pixel size = %dx%d, want 3840x2160", g.PixelWidth, g.PixelHeight)
	}
	if g.Scale != 2.0 {
		t.Errorf("scale = %v, want 2.0", g.Scale)
	}
	if g.OffsetX != 0 || g.OffsetY != 0 {
		t.Errorf("offset = %v,%v, want 0,0", g.OffsetX, g.OffsetY)
	}
}

func TestResolveDisplayNotFound(t *testing.T) {
	_, err := Resolve(Target{Mode: protocol.ModeDisplay, DisplayID: "99"}, testDisplays(), nil)
	if !errors.Is(err, ErrDisplayNotFound) {
		t.Fatalf("err = %v, want ErrDisplayNotFound", err)
	}
}

func TestResolveWindowPicksMostOverlappingDisplay(t *testing.T) {
	windows := []protocol.WindowInfo{
		// Mostly on display 2.
		{ID: "w1", Bounds: protocol.Rect{X: 1800, Y: 100, Width: 800, Height: 600}},
	}
	g, err := Resolve(Target{Mode: protocol.ModeWindow, WindowID: "w1"}, testDisplays(), windows)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if g.Scale != 1.0 {
		t.Errorf("scale = %v, want display 2's 1.0", g.Scale)
	}
	if g.OffsetX != 1800 || g.OffsetY != 100 {
		t.Errorf("offset = %v,%v, want 1800,100", g.OffsetX, g.OffsetY)
	}
	if g.PixelWidth != 800 || g.PixelHeight != 600 {
		t.Errorf("pixel size = %dx%d, want 800x600", g.PixelWidth, g.PixelHeight)
	}
}

func TestResolveWindowOffscreenFallsBack(t *testing.T) {
	windows := []protocol.WindowInfo{
		{ID: "w1", Bounds: protocol.Rect{X: -5000, Y: -5000, Width: 100, Height: 100}},
	}
	g, err := Resolve(Target{Mode: protocol.ModeWindow, WindowID: "w1"}, testDisplays(), windows)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if g.Scale != 2.0 {
		t.Errorf("scale = %v, want primary display fallback 2.0", g.Scale)
	}
}

func TestResolveWindowNoDisplays(t *testing.T) {
	windows := []protocol.WindowInfo{
		{ID: "w1", Bounds: protocol.Rect{X: 0, Y: 0, Width: 100, Height: 100}},
	}
	g, err := Resolve(Target{Mode: protocol.ModeWindow, WindowID: "w1"}, nil, windows)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if g.Scale != 1.0 {
		t.Errorf("scale = %v, want default 1.0", g.Scale)
	}
}

func TestResolveWindowNotFound(t *testing.T) {
	_, err := Resolve(Target{Mode: protocol.ModeWindow, WindowID: "nope"}, testDisplays(), nil)
	if !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("err = %v, want ErrWindowNotFound", err)
	}
}

func TestResolveRegion(t *testing.T) {
	region := &protocol.Rect{X: 100, Y: 50, Width: 640, Height: 480}
	g, err := Resolve(Target{Mode: protocol.ModeRegion, Region: region}, testDisplays(), nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// Primary display's scale factor applies.
	if g.Scale != 2.0 {
		t.Errorf("scale = %v, want 2.0", g.Scale)
	}
	if g.PixelWidth != 1280 || g.PixelHeight != 960 {
		t.Errorf("pixel size = %dx%d, want 1280x960", g.PixelWidth, g.PixelHeight)
	}
}

func TestResolveRegionInvalid(t *testing.T) {
	cases := []struct {
		name   string
		region *protocol.Rect
	}{
		{"nil region", nil},
		{"zero width", &protocol.Rect{Width: 0, Height: 100}},
		{"negative height", &protocol.Rect{Width: 100, Height: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Resolve(Target{Mode: protocol.ModeRegion, Region: tc.region}, testDisplays(), nil)
			if !errors.Is(err, ErrInvalidRegion) {
				t.Fatalf("err = %v, want ErrInvalidRegion", err)
			}
		})
	}
}

func TestResolveInvalidMode(t *testing.T) {
	_, err := Resolve(Target{Mode: "banana"}, testDisplays(), nil)
	if !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("err = %v, want ErrInvalidMode", err)
	}
}
