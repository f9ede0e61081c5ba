//go:build windows

package capture

import (
	"fmt"
)

func screenGrabArgs(desc ScreenDescriptor) ([]string, error) {
	g := desc.Geometry

	drawMouse := "0"
	if desc.ShowCursor {
		drawMouse = "1"
	}

	return []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "gdigrab",
		"-framerate", fmt.Sprint(desc.FrameRate),
		"-draw_mouse", drawMouse,
		"-offset_x", fmt.Sprint(int(g.OffsetX * g.Scale)),
		"-offset_y", fmt.Sprint(int(g.OffsetY * g.Scale)),
		"-video_size", fmt.Sprintf("%dx%d", g.PixelWidth, g.PixelHeight),
		"-i", "desktop",
		"-pix_fmt", "bgra",
		"-f", "rawvideo", "pipe:1",
	}, nil
}

func cameraGrabArgs(desc CameraDescriptor, captureW, captureH int) ([]string, error) {
	return []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "dshow",
		"-framerate", fmt.Sprint(desc.FrameRate),
		"-video_size", fmt.Sprintf("%dx%d", captureW, captureH),
		"-i", "video=" + desc.DeviceID,
		"-pix_fmt", "bgra",
		"-f", "rawvideo", "pipe:1",
	}, nil
}
