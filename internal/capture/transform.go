package capture

import (
	"github.com/levskiy0/skreenme-capture-kit/internal/protocol"
)

// ApplyAspect shapes a raw camera frame for the configured target.
// Square: center-crop to the min dimension, then scale to the target.
// Wide (and anything unrecognized): uniform scale-to-fit, no crop.
func ApplyAspect(f VideoFrame, format string, targetW, targetH int) VideoFrame {
	switch format {
	case protocol.CameraFormatSquare:
		return Scale(CropCenterSquare(f), targetW, targetH)
	default:
		return FitScale(f, targetW, targetH)
	}
}

// CropCenterSquare center-crops the frame to its smaller dimension.
func CropCenterSquare(f VideoFrame) VideoFrame {
	side := f.Width
	if f.Height < side {
		side = f.Height
	}
	if side == f.Width && side == f.Height {
		return f
	}

	x0 := (f.Width - side) / 2
	y0 := (f.Height - side) / 2

	out := make([]byte, side*side*4)
	for row := 0; row < side; row++ {
		srcOff := ((y0+row)*f.Width + x0) * 4
		copy(out[row*side*4:(row+1)*side*4], f.Data[srcOff:srcOff+side*4])
	}
	return VideoFrame{Data: out, Width: side, Height: side, TS: f.TS}
}

// Scale resizes with nearest-neighbor sampling.
func Scale(f VideoFrame, w, h int) VideoFrame {
	if w <= 0 || h <= 0 || (w == f.Width && h == f.Height) {
		return f
	}

	out := make([]byte, w*h*4)
	idx := 0
	for y := 0; y < h; y++ {
		srcY := y * f.Height / h
		rowOff := srcY * f.Width * 4
		for x := 0; x < w; x++ {
			srcOff := rowOff + (x*f.Width/w)*4
			copy(out[idx:idx+4], f.Data[srcOff:srcOff+4])
			idx += 4
		}
	}
	return VideoFrame{Data: out, Width: w, Height: h, TS: f.TS}
}

// FitScale uniformly scales the frame so it fits inside maxW x maxH without
// cropping. The result keeps the source aspect ratio.
func FitScale(f VideoFrame, maxW, maxH int) VideoFrame {
	if f.Width <= 0 || f.Height <= 0 || maxW <= 0 || maxH <= 0 {
		return f
	}

	// Pick the tighter axis.
	w := maxW
	h := f.Height * maxW / f.Width
	if h > maxH {
		h = maxH
		w = f.Width * maxH / f.Height
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return Scale(f, w, h)
}
