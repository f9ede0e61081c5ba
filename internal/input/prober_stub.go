//go:build !linux

package input

// nilProber reports no pointer data.
// TODO: darwin backend over NSEvent.mouseLocation + NSCursor.currentSystem,
// windows over GetCursorPos/GetCursorInfo.
type nilProber struct{}

// NewProber returns the platform cursor prober.
func NewProber() Prober {
	return &nilProber{}
}

func (p *nilProber) Position() (float64, float64, bool) { return 0, 0, false }

func (p *nilProber) Shape() string { return "" }
