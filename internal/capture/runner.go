package capture

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// grabRunner is the handle an adapter holds on one running grab process.
type grabRunner interface {
	stop()
}

// grabStarter launches a grab process. Adapters hold it as a field so tests
// can substitute the ffmpeg child.
type grabStarter func(ffmpegPath string, args []string, width, height int, onFrame func(VideoFrame)) (grabRunner, error)

func startGrab(ffmpegPath string, args []string, width, height int, onFrame func(VideoFrame)) (grabRunner, error) {
	r, err := startFrameRunner(ffmpegPath, args, width, height, onFrame)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// frameRunner drives one ffmpeg child emitting raw BGRA frames on stdout
// and fans each complete frame out to the adapter callback.
type frameRunner struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	done   chan struct{}
}

func startFrameRunner(ffmpegPath string, args []string, width, height int, onFrame func(VideoFrame)) (*frameRunner, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}

	cmd := exec.Command(ffmpegPath, args...)
	cmd.Stderr = os.Stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", ffmpegPath, err)
	}

	r := &frameRunner{
		cmd:    cmd,
		stdout: stdout,
		done:   make(chan struct{}),
	}

	go r.readLoop(width, height, onFrame)
	return r, nil
}

func (r *frameRunner) readLoop(width, height int, onFrame func(VideoFrame)) {
	defer close(r.done)

	frameSize := width * height * 4
	for {
		buf := make([]byte, frameSize)
		if _, err := io.ReadFull(r.stdout, buf); err != nil {
			if err != io.EOF {
				slog.Debug("frame stream ended", "error", err)
			}
			return
		}
		onFrame(VideoFrame{Data: buf, Width: width, Height: height, TS: time.Now()})
	}
}

// stop kills the child and waits for the read loop to drain.
func (r *frameRunner) stop() {
	if r == nil {
		return
	}
	if r.cmd.Process != nil {
		_ = r.cmd.Process.Kill()
	}
	<-r.done
	_ = r.cmd.Wait()
}
