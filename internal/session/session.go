// Package session owns the capture-session lifecycle: one state machine
// gluing source enumeration, geometry resolution, the capture adapters, the
// two writer lanes and the input-event synchronizer together with
// exactly-once start/stop semantics.
package session

import (
	"errors"
	"time"

	"github.com/levskiy0/skreenme-capture-kit/internal/capture"
	"github.com/levskiy0/skreenme-capture-kit/internal/encode"
	"github.com/levskiy0/skreenme-capture-kit/internal/geometry"
	"github.com/levskiy0/skreenme-capture-kit/internal/protocol"
	"github.com/levskiy0/skreenme-capture-kit/internal/sources"
)

var (
	ErrAlreadyRunning = errors.New("session already running")
	ErrNotRunning     = errors.New("session not running")
)

// State of the orchestrator. Exactly one session may be live at a time.
type State int

const (
	StateIdle State = iota
	StateStarting
	StateRunning
	StateStopping
)

// Lane is one media writer pipeline. Satisfied by *encode.Lane; faked in
// tests.
type Lane interface {
	SubmitVideo(capture.VideoFrame)
	SubmitAudio(capture.AudioChunk)
	Anchor() (time.Time, bool)
	Finish() error
	Stats() encode.LaneStats
}

// EventRecorder is the input-event synchronizer boundary.
type EventRecorder interface {
	Start() error
	Stop()
	Events() []protocol.PointerEvent
}

// Deps are the orchestrator's collaborators, injectable for tests.
type Deps struct {
	Sources    sources.Provider
	Screen     capture.ScreenAdapter
	Camera     capture.CameraAdapter
	Microphone capture.MicrophoneAdapter

	NewPrimaryLane func(path string, g geometry.Geometry, fps int, withAudio bool) (Lane, error)
	NewCameraLane  func(path string, width, height int) (Lane, error)
	NewRecorder    func(g geometry.Geometry, anchor func() (time.Time, bool)) EventRecorder

	Now func() time.Time
}

// activeSession is the per-session state, cleared unconditionally on stop.
type activeSession struct {
	id         string
	geom       geometry.Geometry
	fps        int
	outputPath string
	cameraPath string
	camWidth   int
	camHeight  int

	primary  Lane
	camera   Lane
	recorder EventRecorder

	usedCamera bool
	usedMic    bool

	startedAt time.Time
}
