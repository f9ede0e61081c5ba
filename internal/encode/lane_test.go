package encode

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/levskiy0/skreenme-capture-kit/internal/capture"
)

// memSink records writes in arrival order.
type memSink struct {
	mu        sync.Mutex
	writes    []string // "v:<first byte>" / "a:<first byte>"
	finalized int
	videoErr  error
}

func (s *memSink) WriteVideo(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.videoErr != nil {
		return s.videoErr
	}
	s.writes = append(s.writes, "v:"+string(frame[:1]))
	return nil
}

func (s *memSink) WriteAudio(pcm []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, "a:"+string(pcm[:1]))
	return nil
}

func (s *memSink) Finalize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalized++
	return nil
}

func (s *memSink) snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.writes))
	copy(out, s.writes)
	return out
}

func frame(tag byte, ts time.Time) capture.VideoFrame {
	return capture.VideoFrame{Data: []byte{tag, 0, 0, 255}, Width: 1, Height: 1, TS: ts}
}

func TestLanePreservesSubmissionOrder(t *testing.T) {
	sink := &memSink{}
	lane, err := NewLane(Options{Factory: func() (Sink, error) { return sink, nil }, QueueDepth: 64})
	if err != nil {
		t.Fatalf("NewLane: %v", err)
	}

	base := time.Now()
	lane.SubmitVideo(frame('1', base))
	lane.SubmitAudio(capture.AudioChunk{Data: []byte{'x'}, TS: base})
	lane.SubmitVideo(frame('2', base.Add(time.Millisecond)))
	if err := lane.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	got := sink.snapshot()
	want := []string{"v:1", "a:x", "v:2"}
	if len(got) != len(want) {
		t.Fatalf("writes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("writes = %v, want %v", got, want)
		}
	}

	stats := lane.Stats()
	if stats.VideoFrames != 2 || stats.AudioChunks != 1 || stats.Dropped != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestLaneAnchorIsFirstAcceptedSample(t *testing.T) {
	sink := &memSink{}
	lane, err := NewLane(Options{Factory: func() (Sink, error) { return sink, nil }})
	if err != nil {
		t.Fatalf("NewLane: %v", err)
	}

	if _, ok := lane.Anchor(); ok {
		t.Fatal("anchored before any sample")
	}

	first := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	lane.SubmitAudio(capture.AudioChunk{Data: []byte{'a'}, TS: first})
	lane.SubmitVideo(frame('1', first.Add(time.Second)))
	if err := lane.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	anchor, ok := lane.Anchor()
	if !ok {
		t.Fatal("not anchored after samples")
	}
	if !anchor.Equal(first) {
		t.Errorf("anchor = %v, want %v", anchor, first)
	}
}

func TestLaneFinishIdempotent(t *testing.T) {
	sink := &memSink{}
	lane, err := NewLane(Options{Factory: func() (Sink, error) { return sink, nil }})
	if err != nil {
		t.Fatalf("NewLane: %v", err)
	}
	lane.SubmitVideo(frame('1', time.Now()))

	if err := lane.Finish(); err != nil {
		t.Fatalf("first Finish: %v", err)
	}
	if err := lane.Finish(); err != nil {
		t.Fatalf("second Finish: %v", err)
	}
	if n := func() int { sink.mu.Lock(); defer sink.mu.Unlock(); return sink.finalized }(); n != 1 {
		t.Errorf("finalized %d times, want 1", n)
	}
}

func TestLaneSubmitAfterFinishIsDropped(t *testing.T) {
	sink := &memSink{}
	lane, err := NewLane(Options{Factory: func() (Sink, error) { return sink, nil }})
	if err != nil {
		t.Fatalf("NewLane: %v", err)
	}
	if err := lane.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	// Must not panic on the closed queue and must not reach the sink.
	lane.SubmitVideo(frame('1', time.Now()))
	lane.SubmitAudio(capture.AudioChunk{Data: []byte{'a'}, TS: time.Now()})

	if got := sink.snapshot(); len(got) != 0 {
		t.Errorf("writes after finish = %v, want none", got)
	}
}

func TestLaneLazyFactoryRunsOnFirstSample(t *testing.T) {
	sink := &memSink{}
	var calls int
	lane, err := NewLane(Options{
		Lazy: true,
		Factory: func() (Sink, error) {
			calls++
			return sink, nil
		},
	})
	if err != nil {
		t.Fatalf("NewLane: %v", err)
	}
	if calls != 0 {
		t.Fatalf("factory ran at construction for a lazy lane")
	}

	lane.SubmitVideo(frame('1', time.Now()))
	lane.SubmitVideo(frame('2', time.Now()))
	if err := lane.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if calls != 1 {
		t.Errorf("factory called %d times, want 1", calls)
	}
	if got := sink.snapshot(); len(got) != 2 {
		t.Errorf("writes = %v, want 2 frames", got)
	}
}

func TestLaneLazyFactoryFailureDropsSilently(t *testing.T) {
	var calls int
	lane, err := NewLane(Options{
		Lazy: true,
		Factory: func() (Sink, error) {
			calls++
			return nil, errors.New("device busy")
		},
	})
	if err != nil {
		t.Fatalf("NewLane: %v", err)
	}

	lane.SubmitVideo(frame('1', time.Now()))
	lane.SubmitVideo(frame('2', time.Now()))
	lane.SubmitVideo(frame('3', time.Now()))

	// Finish succeeds: a failed lazy sink degrades the lane, it does not
	// fail the recording.
	if err := lane.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if calls != 1 {
		t.Errorf("factory called %d times, want exactly 1", calls)
	}
	stats := lane.Stats()
	if stats.VideoFrames != 0 {
		t.Errorf("VideoFrames = %d, want 0", stats.VideoFrames)
	}
	if stats.Dropped != 3 {
		t.Errorf("Dropped = %d, want 3", stats.Dropped)
	}
	// The anchor is still set: time zero is defined by acceptance, not by
	// a successful write.
	if _, ok := lane.Anchor(); !ok {
		t.Error("lane did not anchor")
	}
}

func TestLaneEagerFactoryFailureAbortsConstruction(t *testing.T) {
	want := errors.New("no such file")
	_, err := NewLane(Options{Factory: func() (Sink, error) { return nil, want }})
	if !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
}

func TestLaneRenderAppliesToVideoOnly(t *testing.T) {
	sink := &memSink{}
	lane, err := NewLane(Options{
		Factory: func() (Sink, error) { return sink, nil },
		Render: func(f capture.VideoFrame) []byte {
			return []byte{'R'}
		},
	})
	if err != nil {
		t.Fatalf("NewLane: %v", err)
	}
	lane.SubmitVideo(frame('1', time.Now()))
	lane.SubmitAudio(capture.AudioChunk{Data: []byte{'a'}, TS: time.Now()})
	if err := lane.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	got := sink.snapshot()
	want := []string{"v:R", "a:a"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("writes = %v, want %v", got, want)
	}
}

func TestLaneWriteErrorSkipsCounter(t *testing.T) {
	sink := &memSink{videoErr: errors.New("pipe closed")}
	lane, err := NewLane(Options{Factory: func() (Sink, error) { return sink, nil }})
	if err != nil {
		t.Fatalf("NewLane: %v", err)
	}
	lane.SubmitVideo(frame('1', time.Now()))
	if err := lane.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if stats := lane.Stats(); stats.VideoFrames != 0 {
		t.Errorf("VideoFrames = %d, want 0 after write failure", stats.VideoFrames)
	}
}
