package capture

import (
	"sync"
)

// FFmpegScreen captures the screen by running ffmpeg with the platform grab
// input (x11grab / avfoundation / gdigrab) and reading raw BGRA frames.
type FFmpegScreen struct {
	FFmpegPath string
	start      grabStarter

	mu     sync.Mutex
	runner grabRunner
}

func NewScreen(ffmpegPath string) *FFmpegScreen {
	return &FFmpegScreen{FFmpegPath: ffmpegPath, start: startGrab}
}

func (s *FFmpegScreen) Start(desc ScreenDescriptor, onFrame func(VideoFrame)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runner != nil {
		r := s.runner
		s.runner = nil
		r.stop()
	}

	args, err := screenGrabArgs(desc)
	if err != nil {
		return err
	}

	runner, err := s.start(s.FFmpegPath, args, desc.Geometry.PixelWidth, desc.Geometry.PixelHeight, onFrame)
	if err != nil {
		return err
	}
	s.runner = runner
	return nil
}

func (s *FFmpegScreen) Stop() {
	s.mu.Lock()
	runner := s.runner
	s.runner = nil
	s.mu.Unlock()

	if runner != nil {
		runner.stop()
	}
}
