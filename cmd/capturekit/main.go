package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/levskiy0/skreenme-capture-kit/internal/config"
	"github.com/levskiy0/skreenme-capture-kit/internal/core"
	"github.com/levskiy0/skreenme-capture-kit/internal/logging"
)

func init() {
	// The hardware event tap must be pumped by the thread that owns the
	// platform's main event loop.
	runtime.LockOSThread()
}

func main() {
	var (
		configPath    string
		logLevel      string
		recordingsDir string
		ffmpegPath    string
	)

	root := &cobra.Command{
		Use:     config.AppName,
		Short:   "Screen/camera/microphone capture engine driven by JSON line commands",
		Version: config.AppVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if recordingsDir != "" {
				cfg.RecordingsDir = recordingsDir
			}
			if ffmpegPath != "" {
				cfg.FFmpegPath = ffmpegPath
			}

			logging.Setup(cfg.LogLevel)

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return core.New(cfg).Run(ctx)
		},
	}

	root.Flags().StringVar(&configPath, "config", "", "path to capturekit.yaml")
	root.Flags().StringVar(&logLevel, "log-level", "", "debug|info|warn|error")
	root.Flags().StringVar(&recordingsDir, "recordings-dir", "", "default output folder for recordings")
	root.Flags().StringVar(&ffmpegPath, "ffmpeg", "", "ffmpeg binary path")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
