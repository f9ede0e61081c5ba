// Package capture wraps the native capture sources. Each adapter owns
// exactly one active device at a time, is independently startable and
// stoppable, and hands timestamped frames to a callback supplied at start.
package capture

import (
	"errors"
	"time"

	"github.com/levskiy0/skreenme-capture-kit/internal/geometry"
)

var (
	ErrDeviceNotFound = errors.New("device not found")
	ErrNotSupported   = errors.New("capture not supported on this platform")
)

// VideoFrame is one raw BGRA frame. TS is the monotonic receive time; the
// frame owns Data until it is handed to a lane.
type VideoFrame struct {
	Data   []byte
	Width  int
	Height int
	TS     time.Time
}

// AudioChunk is one block of interleaved s16le PCM.
type AudioChunk struct {
	Data []byte
	TS   time.Time
}

type ScreenDescriptor struct {
	Geometry   geometry.Geometry
	FrameRate  int
	ShowCursor bool
}

// ScreenAdapter captures one display/window/region stream.
type ScreenAdapter interface {
	Start(desc ScreenDescriptor, onFrame func(VideoFrame)) error
	Stop()
}

type CameraDescriptor struct {
	DeviceID string
	// Target output size; required whenever DeviceID is set.
	Width  int
	Height int
	// Aspect format applied by the adapter before hand-off: square or wide.
	Format    string
	FrameRate int
}

// CameraAdapter captures one camera. Start with the already-bound device id
// is a no-op; a different id tears down the old binding first.
type CameraAdapter interface {
	Start(desc CameraDescriptor, onFrame func(VideoFrame)) error
	Stop()
	BoundDevice() string
}

type MicrophoneDescriptor struct {
	DeviceID string
}

// MicrophoneAdapter captures one input device as PCM chunks.
type MicrophoneAdapter interface {
	Start(desc MicrophoneDescriptor, onChunk func(AudioChunk)) error
	Stop()
	BoundDevice() string
}
