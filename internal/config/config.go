package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// --- CONSTANTS ---

const (
	AppName    = "capturekit"
	AppVersion = "1.0.0"

	// Capture defaults
	DefaultFrameRate = 30
	SampleRate       = 48000
	Channels         = 2

	// Pointer poller cadence (~60 Hz)
	PollInterval = time.Second / 60

	// Queue depths. Audio chunks are small and arrive ~100/s, so the mic
	// queue is deeper than the frame queue.
	VideoQueueDepth = 30
	AudioQueueDepth = 50

	// Bounded parent walk for cursor shape inference.
	ShapeWalkDepth = 5
)

// --- CONFIG STRUCTS ---

type Config struct {
	LogLevel      string
	FFmpegPath    string
	RecordingsDir string
	Capture       CaptureConfig
}

type CaptureConfig struct {
	FrameRate  int
	ShowCursor bool
}

// NewDefaultConfig returns the built-in defaults.
func NewDefaultConfig() *Config {
	return &Config{
		LogLevel:      "info",
		FFmpegPath:    "ffmpeg",
		RecordingsDir: DefaultRecordingsDir(),
		Capture: CaptureConfig{
			FrameRate:  DefaultFrameRate,
			ShowCursor: true,
		},
	}
}

// Load reads an optional capturekit.yaml plus CAPTUREKIT_* environment
// variables on top of the defaults. A missing config file is not an error.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	v := viper.New()
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("ffmpeg_path", cfg.FFmpegPath)
	v.SetDefault("recordings_dir", cfg.RecordingsDir)
	v.SetDefault("capture.frame_rate", cfg.Capture.FrameRate)
	v.SetDefault("capture.show_cursor", cfg.Capture.ShowCursor)

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", AppName))
		}
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg.LogLevel = v.GetString("log_level")
	cfg.FFmpegPath = v.GetString("ffmpeg_path")
	cfg.RecordingsDir = v.GetString("recordings_dir")
	cfg.Capture.FrameRate = v.GetInt("capture.frame_rate")
	cfg.Capture.ShowCursor = v.GetBool("capture.show_cursor")

	return cfg, nil
}

// DefaultRecordingsDir returns the per-platform folder recordings land in
// when the start request carries no explicit output path.
func DefaultRecordingsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Movies", "CaptureKit")
	default:
		return filepath.Join(home, "Videos", "CaptureKit")
	}
}

// OutputPaths builds the screen and camera file names for one session.
func OutputPaths(dir string, at time.Time) (screen, camera string) {
	stamp := at.Format("20060102-150405")
	screen = filepath.Join(dir, fmt.Sprintf("recording-%s.mp4", stamp))
	camera = filepath.Join(dir, fmt.Sprintf("recording-%s-camera.mp4", stamp))
	return screen, camera
}
