package session

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/levskiy0/skreenme-capture-kit/internal/capture"
	"github.com/levskiy0/skreenme-capture-kit/internal/config"
	"github.com/levskiy0/skreenme-capture-kit/internal/geometry"
	"github.com/levskiy0/skreenme-capture-kit/internal/protocol"
	"github.com/levskiy0/skreenme-capture-kit/internal/sources"
)

// Orchestrator is the session state machine. Commands are serialized by the
// dispatch loop; frame callbacks arrive concurrently and only touch the
// routing table.
type Orchestrator struct {
	cfg  *config.Config
	deps Deps

	mu    sync.Mutex
	state State
	sess  *activeSession

	// routeMu guards the lanes frame callbacks write into. Kept separate
	// from mu so adapter read loops never block on a state transition.
	routeMu sync.RWMutex
	primary Lane
	camLane Lane
}

func NewOrchestrator(cfg *config.Config, deps Deps) *Orchestrator {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Orchestrator{cfg: cfg, deps: deps}
}

// State reports the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// --- FRAME ROUTING ---

func (o *Orchestrator) onScreenFrame(f capture.VideoFrame) {
	o.routeMu.RLock()
	lane := o.primary
	o.routeMu.RUnlock()
	if lane != nil {
		lane.SubmitVideo(f)
	}
}

func (o *Orchestrator) onAudioChunk(c capture.AudioChunk) {
	o.routeMu.RLock()
	lane := o.primary
	o.routeMu.RUnlock()
	if lane != nil {
		lane.SubmitAudio(c)
	}
}

func (o *Orchestrator) onCameraFrame(f capture.VideoFrame) {
	o.routeMu.RLock()
	lane := o.camLane
	o.routeMu.RUnlock()
	if lane != nil {
		lane.SubmitVideo(f)
	}
}

// --- START ---

// Start runs the full start sequence. Any mid-sequence failure unwinds
// everything already started and returns to Idle; there is no partially
// running session.
func (o *Orchestrator) Start(req protocol.StartSessionRequest) (protocol.StartSessionResponse, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateIdle {
		return protocol.StartSessionResponse{}, ErrAlreadyRunning
	}
	o.state = StateStarting

	resp, err := o.startLocked(req)
	if err != nil {
		o.state = StateIdle
		return protocol.StartSessionResponse{}, err
	}
	o.state = StateRunning
	return resp, nil
}

func (o *Orchestrator) startLocked(req protocol.StartSessionRequest) (protocol.StartSessionResponse, error) {
	var rollback []func()
	fail := func(err error) (protocol.StartSessionResponse, error) {
		for i := len(rollback) - 1; i >= 0; i-- {
			rollback[i]()
		}
		return protocol.StartSessionResponse{}, err
	}

	// Always a fresh snapshot; targets are never cached across sessions.
	snap, err := o.deps.Sources.Snapshot(sources.WindowFilter{
		ExcludedID:    req.ExcludedWindowID,
		ExcludedTitle: req.ExcludedWindowTitle,
	})
	if err != nil {
		return fail(fmt.Errorf("enumerate sources: %w", err))
	}

	geom, err := geometry.Resolve(geometry.Target{
		Mode:      req.Mode,
		DisplayID: req.DisplayID,
		WindowID:  req.WindowID,
		Region:    req.Region,
	}, snap.Displays, snap.Windows)
	if err != nil {
		return fail(err)
	}

	fps := req.FrameRate
	if fps <= 0 {
		fps = o.cfg.Capture.FrameRate
	}
	showCursor := o.cfg.Capture.ShowCursor
	if req.ShowCursor != nil {
		showCursor = *req.ShowCursor
	}

	startedAt := o.deps.Now()
	outputPath := req.OutputPath
	defaultScreen, defaultCamera := config.OutputPaths(o.cfg.RecordingsDir, startedAt)
	if outputPath == "" {
		outputPath = defaultScreen
	}
	cameraPath := defaultCamera

	sess := &activeSession{
		geom:       geom,
		fps:        fps,
		outputPath: outputPath,
		cameraPath: cameraPath,
		startedAt:  startedAt,
	}

	// Camera adapter + lazy camera lane.
	if req.CameraSourceID != "" {
		if req.CameraWidth <= 0 || req.CameraHeight <= 0 {
			return fail(fmt.Errorf("%w: camera dimensions required", geometry.ErrInvalidRegion))
		}
		if !validCameraFormat(req.CameraFormat) {
			return fail(fmt.Errorf("%w: camera format must be %q or %q",
				geometry.ErrInvalidRegion, protocol.CameraFormatSquare, protocol.CameraFormatWide))
		}
		err := o.deps.Camera.Start(capture.CameraDescriptor{
			DeviceID:  req.CameraSourceID,
			Width:     req.CameraWidth,
			Height:    req.CameraHeight,
			Format:    req.CameraFormat,
			FrameRate: fps,
		}, o.onCameraFrame)
		if err != nil {
			return fail(err)
		}
		rollback = append(rollback, o.deps.Camera.Stop)

		camLane, err := o.deps.NewCameraLane(cameraPath, req.CameraWidth, req.CameraHeight)
		if err != nil {
			return fail(err)
		}
		rollback = append(rollback, func() {
			_ = camLane.Finish()
			_ = os.Remove(cameraPath)
		})
		sess.camera = camLane
		sess.camWidth = req.CameraWidth
		sess.camHeight = req.CameraHeight
		sess.usedCamera = true
	}

	// Primary lane: video always, audio only when a microphone is asked
	// for. Sink construction failure here aborts the start.
	primary, err := o.deps.NewPrimaryLane(outputPath, geom, fps, req.AudioSourceID != "")
	if err != nil {
		return fail(err)
	}
	rollback = append(rollback, func() {
		_ = primary.Finish()
		_ = os.Remove(outputPath)
	})
	sess.primary = primary

	if req.AudioSourceID != "" {
		err := o.deps.Microphone.Start(capture.MicrophoneDescriptor{DeviceID: req.AudioSourceID}, o.onAudioChunk)
		if err != nil {
			return fail(err)
		}
		rollback = append(rollback, o.deps.Microphone.Stop)
		sess.usedMic = true
	}

	// Platform capture stream.
	err = o.deps.Screen.Start(capture.ScreenDescriptor{
		Geometry:   geom,
		FrameRate:  fps,
		ShowCursor: showCursor,
	}, o.onScreenFrame)
	if err != nil {
		return fail(err)
	}
	rollback = append(rollback, o.deps.Screen.Stop)

	// Event capture, aligned to the primary lane's anchor.
	recorder := o.deps.NewRecorder(geom, primary.Anchor)
	if err := recorder.Start(); err != nil {
		return fail(err)
	}
	sess.recorder = recorder

	sess.id = uuid.NewString()

	o.routeMu.Lock()
	o.primary = sess.primary
	o.camLane = sess.camera
	o.routeMu.Unlock()

	o.sess = sess
	slog.Info("session started",
		"session", sess.id, "mode", req.Mode, "fps", fps,
		"size", fmt.Sprintf("%dx%d", geom.PixelWidth, geom.PixelHeight),
		"camera", req.CameraSourceID != "", "audio", req.AudioSourceID != "")

	return protocol.StartSessionResponse{SessionID: sess.id, OutputPath: outputPath}, nil
}

// --- STOP ---

// Stop finalizes both lanes and returns the accumulated metadata and event
// timeline. The orchestrator returns to Idle unconditionally, even when
// finalization partially failed.
func (o *Orchestrator) Stop(sessionID string) (protocol.StopSessionResponse, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateRunning || o.sess == nil || o.sess.id != sessionID {
		return protocol.StopSessionResponse{}, ErrNotRunning
	}
	o.state = StateStopping
	sess := o.sess

	// Stop producing new work before finalizing the writers.
	o.routeMu.Lock()
	o.primary = nil
	o.camLane = nil
	o.routeMu.Unlock()

	o.deps.Screen.Stop()
	if sess.usedCamera {
		o.deps.Camera.Stop()
	}
	if sess.usedMic {
		o.deps.Microphone.Stop()
	}
	sess.recorder.Stop()

	events := sess.recorder.Events()
	if events == nil {
		events = []protocol.PointerEvent{}
	}

	// Bounded join: both lanes signal finalize completion exactly once.
	primaryErr := sess.primary.Finish()
	if primaryErr != nil {
		slog.Error("primary lane finalize failed", "session", sess.id, "error", primaryErr)
	}
	var cameraInfo *protocol.TrackInfo
	if sess.camera != nil {
		if err := sess.camera.Finish(); err != nil {
			slog.Warn("camera lane finalize failed", "session", sess.id, "error", err)
		}
		stats := sess.camera.Stats()
		if _, anchored := sess.camera.Anchor(); anchored && stats.VideoFrames > 0 {
			cameraInfo = &protocol.TrackInfo{
				Path:       sess.cameraPath,
				SizeBytes:  fileSize(sess.cameraPath),
				Resolution: protocol.Resolution{Width: sess.camWidth, Height: sess.camHeight},
				Frames:     stats.VideoFrames,
			}
		}
	}

	stats := sess.primary.Stats()
	status := protocol.StatusCompleted
	if primaryErr != nil {
		status = protocol.StatusError
	}

	resp := protocol.StopSessionResponse{
		Recording: protocol.RecordingInfo{
			Status:     status,
			OutputPath: sess.outputPath,
			Duration:   o.deps.Now().Sub(sess.startedAt).Seconds(),
			Screen: &protocol.TrackInfo{
				Path:      sess.outputPath,
				SizeBytes: fileSize(sess.outputPath),
				Resolution: protocol.Resolution{
					Width:  sess.geom.PixelWidth,
					Height: sess.geom.PixelHeight,
				},
				FPS:    sess.fps,
				Frames: stats.VideoFrames,
			},
			Camera: cameraInfo,
		},
		Events: events,
	}

	slog.Info("session stopped",
		"session", sess.id, "status", status,
		"frames", stats.VideoFrames, "dropped", stats.Dropped,
		"events", len(events), "duration", resp.Recording.Duration)

	// Per-session state is cleared no matter how finalize went; the
	// orchestrator must never be stuck out of Idle.
	o.sess = nil
	o.state = StateIdle
	return resp, nil
}

// --- LIVE RECONFIGURATION ---

// ConfigureCamera binds the camera adapter, or releases it when the source
// id is empty. Rebinding the already-bound device is a no-op.
func (o *Orchestrator) ConfigureCamera(req protocol.ConfigureCameraRequest) error {
	if req.SourceID == "" {
		o.deps.Camera.Stop()
		return nil
	}
	if req.Width <= 0 || req.Height <= 0 {
		return fmt.Errorf("%w: camera dimensions required", geometry.ErrInvalidRegion)
	}
	if !validCameraFormat(req.Format) {
		return fmt.Errorf("%w: camera format must be %q or %q",
			geometry.ErrInvalidRegion, protocol.CameraFormatSquare, protocol.CameraFormatWide)
	}
	return o.deps.Camera.Start(capture.CameraDescriptor{
		DeviceID:  req.SourceID,
		Width:     req.Width,
		Height:    req.Height,
		Format:    req.Format,
		FrameRate: o.cfg.Capture.FrameRate,
	}, o.onCameraFrame)
}

// ConfigureAudio binds the microphone adapter, or releases it when the
// source id is empty.
func (o *Orchestrator) ConfigureAudio(req protocol.ConfigureAudioRequest) error {
	if req.SourceID == "" {
		o.deps.Microphone.Stop()
		return nil
	}
	return o.deps.Microphone.Start(capture.MicrophoneDescriptor{DeviceID: req.SourceID}, o.onAudioChunk)
}

func validCameraFormat(format string) bool {
	return format == protocol.CameraFormatSquare || format == protocol.CameraFormatWide
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
