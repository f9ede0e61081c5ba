// Package sources enumerates capture sources (displays, windows, cameras,
// microphones) and probes capture permissions. Snapshots are taken fresh on
// every call; nothing is cached across sessions.
package sources

import (
	"strings"

	"github.com/levskiy0/skreenme-capture-kit/internal/protocol"
)

// WindowFilter removes the controller's own windows from listings and from
// display/region capture.
type WindowFilter struct {
	ExcludedID    string
	ExcludedTitle string
}

// Snapshot is one fresh enumeration of everything capturable.
type Snapshot struct {
	Displays    []protocol.DisplayInfo
	Windows     []protocol.WindowInfo
	Cameras     []protocol.DeviceInfo
	Microphones []protocol.DeviceInfo
}

// Provider is the platform boundary for source enumeration and permission
// plumbing.
type Provider interface {
	Snapshot(filter WindowFilter) (Snapshot, error)
	CheckPermissions() protocol.PermissionsStatus
	RequestPermissions() protocol.PermissionsStatus
}

// Matches reports whether the filter excludes the given window.
func (f WindowFilter) Matches(w protocol.WindowInfo) bool {
	if f.ExcludedID != "" && w.ID == f.ExcludedID {
		return true
	}
	if f.ExcludedTitle != "" && strings.Contains(w.Title, f.ExcludedTitle) {
		return true
	}
	return false
}

// FilterWindows returns windows with filtered entries removed.
func FilterWindows(ws []protocol.WindowInfo, f WindowFilter) []protocol.WindowInfo {
	out := make([]protocol.WindowInfo, 0, len(ws))
	for _, w := range ws {
		if !f.Matches(w) {
			out = append(out, w)
		}
	}
	return out
}
