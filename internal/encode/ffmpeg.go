package encode

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// FFmpegOptions configures one muxing sink.
type FFmpegOptions struct {
	FFmpegPath string
	OutputPath string
	Width      int
	Height     int
	FrameRate  int
	// WithAudio adds an s16le PCM input on fd 3 muxed as AAC.
	WithAudio  bool
	SampleRate int
	Channels   int
}

// FFmpegSink muxes raw BGRA frames (stdin) and optional PCM (fd 3) into an
// MP4 through an ffmpeg child process. ffmpeg's stderr goes to a sidecar
// log next to the output file.
type FFmpegSink struct {
	cmd     *exec.Cmd
	videoIn io.WriteCloser
	audioIn *os.File
	stderr  *os.File
}

// NewFFmpegSink spawns the ffmpeg child. The output directory is created
// if missing.
func NewFFmpegSink(opts FFmpegOptions) (*FFmpegSink, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid output size %dx%d", opts.Width, opts.Height)
	}
	if opts.FrameRate <= 0 {
		opts.FrameRate = 30
	}
	if err := os.MkdirAll(filepath.Dir(opts.OutputPath), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	args := []string{
		"-hide_banner", "-y",
		"-f", "rawvideo",
		"-pix_fmt", "bgra",
		"-video_size", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"-framerate", fmt.Sprint(opts.FrameRate),
		"-i", "pipe:0",
	}
	if opts.WithAudio {
		args = append(args,
			"-f", "s16le",
			"-ar", fmt.Sprint(opts.SampleRate),
			"-ac", fmt.Sprint(opts.Channels),
			"-i", "pipe:3",
		)
	}
	args = append(args,
		// h264 requires even dimensions.
		"-vf", "crop=trunc(iw/2)*2:trunc(ih/2)*2",
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-pix_fmt", "yuv420p",
	)
	if opts.WithAudio {
		args = append(args, "-c:a", "aac", "-b:a", "128k")
	}
	args = append(args, "-movflags", "+faststart", opts.OutputPath)

	cmd := exec.Command(opts.FFmpegPath, args...)

	videoIn, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}

	stderr, err := os.Create(opts.OutputPath + ".ffmpeg.log")
	if err == nil {
		cmd.Stderr = stderr
	}

	sink := &FFmpegSink{cmd: cmd, videoIn: videoIn, stderr: stderr}
	cleanup := func() {
		_ = videoIn.Close()
		if sink.audioIn != nil {
			_ = sink.audioIn.Close()
		}
		if stderr != nil {
			_ = stderr.Close()
		}
	}

	if opts.WithAudio {
		r, w, err := os.Pipe()
		if err != nil {
			cleanup()
			return nil, err
		}
		cmd.ExtraFiles = []*os.File{r}
		sink.audioIn = w
		defer r.Close()
	}

	if err := cmd.Start(); err != nil {
		cleanup()
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}
	return sink, nil
}

func (s *FFmpegSink) WriteVideo(frame []byte) error {
	_, err := s.videoIn.Write(frame)
	return err
}

func (s *FFmpegSink) WriteAudio(pcm []byte) error {
	if s.audioIn == nil {
		return nil
	}
	_, err := s.audioIn.Write(pcm)
	return err
}

// Finalize closes the inputs and waits for ffmpeg to write the trailer.
func (s *FFmpegSink) Finalize() error {
	_ = s.videoIn.Close()
	if s.audioIn != nil {
		_ = s.audioIn.Close()
	}
	err := s.cmd.Wait()
	if s.stderr != nil {
		_ = s.stderr.Close()
	}
	if err != nil {
		return fmt.Errorf("ffmpeg finalize: %w", err)
	}
	return nil
}
