package input

import (
	"sync"
	"time"

	"github.com/levskiy0/skreenme-capture-kit/internal/config"
	"github.com/levskiy0/skreenme-capture-kit/internal/geometry"
	"github.com/levskiy0/skreenme-capture-kit/internal/protocol"
)

// SyncConfig wires one synchronizer to a session.
type SyncConfig struct {
	Geometry geometry.Geometry
	// Anchor exposes the primary lane's anchor timestamp. Events arriving
	// before the lane has anchored are dropped: their relative time is
	// undefined.
	Anchor func() (time.Time, bool)

	Tap       Tap
	Prober    Prober
	HitTester HitTester

	// Notify pushes the out-of-band cursorUpdate; called only when the
	// resolved shape differs from the last one sent.
	Notify func(shape string)

	PollInterval time.Duration
}

// Synchronizer merges the hardware tap and the idle poller into one ordered
// pointer timeline normalized to the capture geometry and the primary
// lane's time base. The event list is the only cross-context shared state;
// every append goes through one mutex.
type Synchronizer struct {
	cfg SyncConfig

	mu         sync.Mutex
	events     []protocol.PointerEvent
	clockDelta time.Duration
	clockSet   bool
	lastShape  string
	lastX      float64
	lastY      float64
	lastValid  bool

	stopChan chan struct{}
	wg       sync.WaitGroup
	started  bool
}

func NewSynchronizer(cfg SyncConfig) *Synchronizer {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = config.PollInterval
	}
	return &Synchronizer{cfg: cfg}
}

// Start begins tap and poller capture. The caller must invoke Start from
// the main-loop goroutine (tap constraint).
func (s *Synchronizer) Start() error {
	if s.started {
		return nil
	}

	if s.cfg.Tap != nil {
		if err := s.cfg.Tap.Start(s.handleRaw); err != nil {
			return err
		}
	}

	s.stopChan = make(chan struct{})
	if s.cfg.Prober != nil {
		s.wg.Add(1)
		go s.pollLoop()
	}
	s.started = true
	return nil
}

// Stop halts both producers. Events remain readable afterwards.
func (s *Synchronizer) Stop() {
	if !s.started {
		return
	}
	if s.cfg.Tap != nil {
		s.cfg.Tap.Stop()
	}
	close(s.stopChan)
	s.wg.Wait()
	s.started = false
}

// Events returns a copy of the accumulated timeline.
func (s *Synchronizer) Events() []protocol.PointerEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]protocol.PointerEvent, len(s.events))
	copy(out, s.events)
	return out
}

// --- PRODUCERS ---

func (s *Synchronizer) handleRaw(ev RawEvent) {
	if ev.Keyboard {
		// Key activity invalidates the poller dedup so the next poll
		// re-samples shape and position.
		s.mu.Lock()
		s.lastValid = false
		s.mu.Unlock()
		return
	}

	anchor, ok := s.cfg.Anchor()
	if !ok {
		return
	}
	now := time.Now()
	shape := s.resolveShape(ev.X, ev.Y)

	s.mu.Lock()
	// The first hardware sample after anchoring fixes the offset between
	// the tap clock and the pipeline's monotonic clock; all later events
	// in the session reuse it.
	if !s.clockSet {
		s.clockDelta = now.Sub(anchor) - ev.HWTime
		s.clockSet = true
	}
	rel := ev.HWTime + s.clockDelta
	if rel < 0 {
		rel = 0
	}

	s.events = append(s.events, protocol.PointerEvent{
		Kind:                ev.Kind,
		NormalizedX:         s.normalizeX(ev.X),
		NormalizedY:         s.normalizeY(ev.Y),
		RelativeTimeSeconds: rel.Seconds(),
		Button:              ev.Button,
		ScrollDeltaX:        ev.DeltaX,
		ScrollDeltaY:        ev.DeltaY,
		Cursor:              shape,
	})
	notify := s.shapeChangedLocked(shape)
	s.mu.Unlock()

	if notify {
		s.cfg.Notify(shape)
	}
}

func (s *Synchronizer) pollLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.pollOnce()
		}
	}
}

// pollOnce records a synthetic move sample so a shape/position sample
// exists even during otherwise-idle intervals.
func (s *Synchronizer) pollOnce() {
	x, y, ok := s.cfg.Prober.Position()
	if !ok {
		return
	}
	anchor, anchored := s.cfg.Anchor()
	if !anchored {
		return
	}
	shape := s.resolveShape(x, y)
	rel := time.Since(anchor)
	if rel < 0 {
		rel = 0
	}

	s.mu.Lock()
	if s.lastValid && s.lastX == x && s.lastY == y {
		notify := s.shapeChangedLocked(shape)
		s.mu.Unlock()
		if notify {
			s.cfg.Notify(shape)
		}
		return
	}
	s.lastX, s.lastY, s.lastValid = x, y, true

	s.events = append(s.events, protocol.PointerEvent{
		Kind:                protocol.PointerMove,
		NormalizedX:         s.normalizeX(x),
		NormalizedY:         s.normalizeY(y),
		RelativeTimeSeconds: rel.Seconds(),
		Cursor:              shape,
	})
	notify := s.shapeChangedLocked(shape)
	s.mu.Unlock()

	if notify {
		s.cfg.Notify(shape)
	}
}

// --- TRANSFORMS ---

func (s *Synchronizer) normalizeX(x float64) float64 {
	g := s.cfg.Geometry
	return clamp01((x - g.OffsetX) * g.Scale / float64(g.PixelWidth))
}

func (s *Synchronizer) normalizeY(y float64) float64 {
	g := s.cfg.Geometry
	return clamp01((y - g.OffsetY) * g.Scale / float64(g.PixelHeight))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// resolveShape is the layered best-effort strategy: explicit platform
// style, then accessibility hit test, then the generic default.
func (s *Synchronizer) resolveShape(x, y float64) string {
	if s.cfg.Prober != nil {
		if explicit := s.cfg.Prober.Shape(); explicit != "" && explicit != ShapeDefault {
			return explicit
		}
	}
	if s.cfg.HitTester != nil {
		if el := s.cfg.HitTester.ElementAt(x, y); el != nil {
			if shape := InferShape(el, config.ShapeWalkDepth); shape != "" {
				return shape
			}
		}
	}
	return ShapeDefault
}

func (s *Synchronizer) shapeChangedLocked(shape string) bool {
	if s.cfg.Notify == nil || shape == s.lastShape {
		return false
	}
	s.lastShape = shape
	return true
}
