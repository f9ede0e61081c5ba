//go:build !linux

package input

// noopTap is the placeholder hardware tap. The poller still produces the
// timeline on platforms without a tap backend.
// TODO: darwin backend over a CGEventTap, windows over SetWindowsHookEx.
type noopTap struct{}

// NewTap returns the platform hardware tap.
func NewTap() Tap {
	return &noopTap{}
}

func (t *noopTap) Start(onEvent func(RawEvent)) error { return nil }

func (t *noopTap) Stop() {}
