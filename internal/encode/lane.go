// Package encode serializes capture frames into muxed output files. Each
// MediaLane is one independent encode-and-write pipeline with a single
// writer goroutine; producers enqueue and never touch writer state.
package encode

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/levskiy0/skreenme-capture-kit/internal/capture"
)

// Sink is the lane's output: a muxing writer for raw video bytes and
// optional PCM audio.
type Sink interface {
	WriteVideo(frame []byte) error
	WriteAudio(pcm []byte) error
	Finalize() error
}

// SinkFactory builds the lane's sink. For lazy lanes it runs on the first
// received sample instead of at lane construction.
type SinkFactory func() (Sink, error)

// LaneStats are the lane's write counters, surfaced in stop metadata.
type LaneStats struct {
	VideoFrames int64
	AudioChunks int64
	Dropped     int64
}

type sample struct {
	frame capture.VideoFrame
	pcm   []byte
	ts    time.Time
	audio bool
}

// Options configures one lane.
type Options struct {
	Factory SinkFactory
	// Lazy defers sink construction to the first sample. A lazy factory
	// failure is logged once and the lane silently drops everything after;
	// it never surfaces on the hot path.
	Lazy       bool
	QueueDepth int
	// Render optionally converts each video frame before writing (the
	// camera lane uses this for cover scaling into the target rect).
	Render func(capture.VideoFrame) []byte
}

// Lane is one ordered write pipeline. All writes go through one goroutine,
// so samples never reach the sink out of order even with concurrent
// producers.
type Lane struct {
	mu     sync.Mutex
	queue  chan sample
	closed bool

	done        chan struct{}
	finalizeErr error

	anchorMu sync.Mutex
	anchor   time.Time
	anchored bool

	statsMu sync.Mutex
	stats   LaneStats

	factory    SinkFactory
	lazy       bool
	sink       Sink
	sinkFailed bool
	render     func(capture.VideoFrame) []byte
}

// NewLane builds a lane and, unless Lazy, its sink. A non-lazy factory
// error aborts construction.
func NewLane(opts Options) (*Lane, error) {
	if opts.Factory == nil {
		return nil, errors.New("lane requires a sink factory")
	}
	depth := opts.QueueDepth
	if depth <= 0 {
		depth = 30
	}

	l := &Lane{
		queue:   make(chan sample, depth),
		done:    make(chan struct{}),
		factory: opts.Factory,
		lazy:    opts.Lazy,
		render:  opts.Render,
	}

	if !opts.Lazy {
		sink, err := opts.Factory()
		if err != nil {
			return nil, err
		}
		l.sink = sink
	}

	go l.writeLoop()
	return l, nil
}

// SubmitVideo enqueues a frame. Drops when the queue is full or the lane is
// already finished; producers never block on the writer.
func (l *Lane) SubmitVideo(f capture.VideoFrame) {
	l.submit(sample{frame: f, ts: f.TS})
}

// SubmitAudio enqueues a PCM chunk.
func (l *Lane) SubmitAudio(c capture.AudioChunk) {
	l.submit(sample{pcm: c.Data, ts: c.TS, audio: true})
}

func (l *Lane) submit(s sample) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	select {
	case l.queue <- s:
	default:
		l.statsMu.Lock()
		l.stats.Dropped++
		l.statsMu.Unlock()
	}
}

// Anchor returns the timestamp of the lane's first accepted sample, which
// defines presentation-time zero for the lane.
func (l *Lane) Anchor() (time.Time, bool) {
	l.anchorMu.Lock()
	defer l.anchorMu.Unlock()
	return l.anchor, l.anchored
}

// Finish marks the input finished, waits for the writer to drain and the
// sink to finalize, and returns the finalize error. Completion is signalled
// exactly once; repeated calls return the same result.
func (l *Lane) Finish() error {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		close(l.queue)
	}
	l.mu.Unlock()

	<-l.done
	return l.finalizeErr
}

// Stats returns a snapshot of the write counters.
func (l *Lane) Stats() LaneStats {
	l.statsMu.Lock()
	defer l.statsMu.Unlock()
	return l.stats
}

func (l *Lane) writeLoop() {
	defer close(l.done)

	for s := range l.queue {
		l.anchorMu.Lock()
		if !l.anchored {
			l.anchor = s.ts
			l.anchored = true
		}
		l.anchorMu.Unlock()

		if l.sink == nil && !l.sinkFailed {
			sink, err := l.factory()
			if err != nil {
				// Degraded mode: recording continues without this lane.
				slog.Warn("lane sink construction failed, dropping lane output", "error", err)
				l.sinkFailed = true
			} else {
				l.sink = sink
			}
		}
		if l.sinkFailed {
			l.statsMu.Lock()
			l.stats.Dropped++
			l.statsMu.Unlock()
			continue
		}

		if s.audio {
			if err := l.sink.WriteAudio(s.pcm); err != nil {
				slog.Debug("audio write failed", "error", err)
				continue
			}
			l.statsMu.Lock()
			l.stats.AudioChunks++
			l.statsMu.Unlock()
			continue
		}

		data := s.frame.Data
		if l.render != nil {
			data = l.render(s.frame)
		}
		if err := l.sink.WriteVideo(data); err != nil {
			slog.Debug("video write failed", "error", err)
			continue
		}
		l.statsMu.Lock()
		l.stats.VideoFrames++
		l.statsMu.Unlock()
	}

	if l.sink != nil {
		l.finalizeErr = l.sink.Finalize()
	}
}
