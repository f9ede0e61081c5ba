package encode

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFFmpegSinkRejectsInvalidSize(t *testing.T) {
	_, err := NewFFmpegSink(FFmpegOptions{
		FFmpegPath: "ffmpeg",
		OutputPath: filepath.Join(t.TempDir(), "out.mp4"),
	})
	if err == nil || !strings.Contains(err.Error(), "invalid output size") {
		t.Fatalf("err = %v, want invalid size", err)
	}
}

func TestNewFFmpegSinkMissingBinary(t *testing.T) {
	dir := t.TempDir()
	_, err := NewFFmpegSink(FFmpegOptions{
		FFmpegPath: filepath.Join(dir, "no-such-ffmpeg"),
		OutputPath: filepath.Join(dir, "out.mp4"),
		Width:      2,
		Height:     2,
		FrameRate:  30,
		WithAudio:  true,
		SampleRate: 48000,
		Channels:   2,
	})
	if err == nil {
		t.Fatal("want error when the binary cannot start")
	}
	if !strings.Contains(err.Error(), "start ffmpeg") {
		t.Errorf("err = %v", err)
	}
}
