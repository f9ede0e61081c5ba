//go:build !linux && !darwin && !windows

package capture

func screenGrabArgs(desc ScreenDescriptor) ([]string, error) {
	return nil, ErrNotSupported
}

func cameraGrabArgs(desc CameraDescriptor, captureW, captureH int) ([]string, error) {
	return nil, ErrNotSupported
}
