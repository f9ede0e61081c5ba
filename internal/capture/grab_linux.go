//go:build linux

package capture

import (
	"fmt"
	"os"
)

func screenGrabArgs(desc ScreenDescriptor) ([]string, error) {
	g := desc.Geometry
	display := os.Getenv("DISPLAY")
	if display == "" {
		display = ":0"
	}

	drawMouse := "0"
	if desc.ShowCursor {
		drawMouse = "1"
	}

	return []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "x11grab",
		"-framerate", fmt.Sprint(desc.FrameRate),
		"-video_size", fmt.Sprintf("%dx%d", g.PixelWidth, g.PixelHeight),
		"-draw_mouse", drawMouse,
		"-i", fmt.Sprintf("%s+%d,%d", display, int(g.OffsetX*g.Scale), int(g.OffsetY*g.Scale)),
		"-pix_fmt", "bgra",
		"-f", "rawvideo", "pipe:1",
	}, nil
}

func cameraGrabArgs(desc CameraDescriptor, captureW, captureH int) ([]string, error) {
	return []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "v4l2",
		"-framerate", fmt.Sprint(desc.FrameRate),
		"-video_size", fmt.Sprintf("%dx%d", captureW, captureH),
		"-i", desc.DeviceID,
		"-pix_fmt", "bgra",
		"-f", "rawvideo", "pipe:1",
	}, nil
}
