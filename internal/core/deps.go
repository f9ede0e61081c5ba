package core

import (
	"time"

	"github.com/levskiy0/skreenme-capture-kit/internal/capture"
	"github.com/levskiy0/skreenme-capture-kit/internal/config"
	"github.com/levskiy0/skreenme-capture-kit/internal/encode"
	"github.com/levskiy0/skreenme-capture-kit/internal/geometry"
	"github.com/levskiy0/skreenme-capture-kit/internal/input"
	"github.com/levskiy0/skreenme-capture-kit/internal/session"
	"github.com/levskiy0/skreenme-capture-kit/internal/sources"
)

// newOrchestrator assembles the production dependency graph.
func newOrchestrator(cfg *config.Config, provider sources.Provider, notify func(string)) *session.Orchestrator {
	deps := session.Deps{
		Sources:    provider,
		Screen:     capture.NewScreen(cfg.FFmpegPath),
		Camera:     capture.NewCamera(cfg.FFmpegPath),
		Microphone: capture.NewMicrophone(),

		NewPrimaryLane: func(path string, g geometry.Geometry, fps int, withAudio bool) (session.Lane, error) {
			lane, err := encode.NewLane(encode.Options{
				QueueDepth: config.VideoQueueDepth,
				Factory: func() (encode.Sink, error) {
					return encode.NewFFmpegSink(encode.FFmpegOptions{
						FFmpegPath: cfg.FFmpegPath,
						OutputPath: path,
						Width:      g.PixelWidth,
						Height:     g.PixelHeight,
						FrameRate:  fps,
						WithAudio:  withAudio,
						SampleRate: config.SampleRate,
						Channels:   config.Channels,
					})
				},
			})
			if err != nil {
				return nil, err
			}
			return lane, nil
		},

		NewCameraLane: func(path string, width, height int) (session.Lane, error) {
			lane, err := encode.NewLane(encode.Options{
				// The native writer opens on the first camera frame, not
				// at configure time.
				Lazy:       true,
				QueueDepth: config.VideoQueueDepth,
				Render: func(f capture.VideoFrame) []byte {
					return encode.RenderCover(f, width, height)
				},
				Factory: func() (encode.Sink, error) {
					return encode.NewFFmpegSink(encode.FFmpegOptions{
						FFmpegPath: cfg.FFmpegPath,
						OutputPath: path,
						Width:      width,
						Height:     height,
						FrameRate:  cfg.Capture.FrameRate,
					})
				},
			})
			if err != nil {
				return nil, err
			}
			return lane, nil
		},

		NewRecorder: func(g geometry.Geometry, anchor func() (time.Time, bool)) session.EventRecorder {
			return input.NewSynchronizer(input.SyncConfig{
				Geometry:     g,
				Anchor:       anchor,
				Tap:          input.NewTap(),
				Prober:       input.NewProber(),
				Notify:       notify,
				PollInterval: config.PollInterval,
			})
		},
	}

	return session.NewOrchestrator(cfg, deps)
}
