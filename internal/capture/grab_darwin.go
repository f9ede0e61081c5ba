//go:build darwin

package capture

import (
	"fmt"
)

func screenGrabArgs(desc ScreenDescriptor) ([]string, error) {
	g := desc.Geometry

	captureCursor := "0"
	if desc.ShowCursor {
		captureCursor = "1"
	}

	// avfoundation grabs the whole display; the target rect is cropped out
	// before the raw frames leave ffmpeg.
	return []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "avfoundation",
		"-capture_cursor", captureCursor,
		"-framerate", fmt.Sprint(desc.FrameRate),
		"-i", "Capture screen 0:none",
		"-vf", fmt.Sprintf("crop=%d:%d:%d:%d",
			g.PixelWidth, g.PixelHeight,
			int(g.OffsetX*g.Scale), int(g.OffsetY*g.Scale)),
		"-pix_fmt", "bgra",
		"-f", "rawvideo", "pipe:1",
	}, nil
}

func cameraGrabArgs(desc CameraDescriptor, captureW, captureH int) ([]string, error) {
	return []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "avfoundation",
		"-framerate", fmt.Sprint(desc.FrameRate),
		"-video_size", fmt.Sprintf("%dx%d", captureW, captureH),
		"-i", desc.DeviceID + ":none",
		"-pix_fmt", "bgra",
		"-f", "rawvideo", "pipe:1",
	}, nil
}
