//go:build !linux

package sources

import (
	"github.com/levskiy0/skreenme-capture-kit/internal/protocol"
)

// stubProvider reports a single default display and no devices.
// TODO: darwin backend over CGDisplay/SCShareableContent enumeration,
// windows backend over EnumDisplayMonitors/EnumWindows.
type stubProvider struct{}

// NewProvider returns the platform source provider.
func NewProvider() Provider {
	return &stubProvider{}
}

func (p *stubProvider) Snapshot(filter WindowFilter) (Snapshot, error) {
	return Snapshot{
		Displays: []protocol.DisplayInfo{{
			ID:          "0",
			Name:        "Display 0",
			Bounds:      protocol.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
			ScaleFactor: 1.0,
			Primary:     true,
		}},
	}, nil
}

func (p *stubProvider) CheckPermissions() protocol.PermissionsStatus {
	return protocol.PermissionsStatus{
		ScreenRecording: false,
		Camera:          protocol.PermissionUnknown,
		Microphone:      protocol.PermissionUnknown,
		Accessibility:   false,
	}
}

func (p *stubProvider) RequestPermissions() protocol.PermissionsStatus {
	return p.CheckPermissions()
}
