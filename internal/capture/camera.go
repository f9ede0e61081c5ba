package capture

import (
	"fmt"
	"sync"
)

// Default size requested from the camera driver before the aspect
// transform shapes it to the configured target.
const (
	cameraCaptureWidth  = 1280
	cameraCaptureHeight = 720
)

// FFmpegCamera captures one camera device through ffmpeg and applies the
// configured aspect transform to every frame before hand-off.
type FFmpegCamera struct {
	FFmpegPath string
	start      grabStarter

	mu     sync.Mutex
	runner grabRunner
	bound  string
}

func NewCamera(ffmpegPath string) *FFmpegCamera {
	return &FFmpegCamera{FFmpegPath: ffmpegPath, start: startGrab}
}

func (c *FFmpegCamera) Start(desc CameraDescriptor, onFrame func(VideoFrame)) error {
	if desc.DeviceID == "" {
		return fmt.Errorf("%w: empty camera device id", ErrDeviceNotFound)
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return fmt.Errorf("camera target size required")
	}
	if desc.FrameRate <= 0 {
		desc.FrameRate = 30
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Reconfiguring with the bound device is a no-op.
	if c.runner != nil && c.bound == desc.DeviceID {
		return nil
	}
	if c.runner != nil {
		r := c.runner
		c.runner = nil
		c.bound = ""
		r.stop()
	}

	args, err := cameraGrabArgs(desc, cameraCaptureWidth, cameraCaptureHeight)
	if err != nil {
		return err
	}

	shaped := func(f VideoFrame) {
		onFrame(ApplyAspect(f, desc.Format, desc.Width, desc.Height))
	}

	runner, err := c.start(c.FFmpegPath, args, cameraCaptureWidth, cameraCaptureHeight, shaped)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, err)
	}
	c.runner = runner
	c.bound = desc.DeviceID
	return nil
}

func (c *FFmpegCamera) Stop() {
	c.mu.Lock()
	runner := c.runner
	c.runner = nil
	c.bound = ""
	c.mu.Unlock()

	if runner != nil {
		runner.stop()
	}
}

func (c *FFmpegCamera) BoundDevice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bound
}
