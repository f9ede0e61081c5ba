package encode

import (
	"github.com/levskiy0/skreenme-capture-kit/internal/capture"
)

// RenderCover draws src into a w x h BGRA buffer with cover scaling:
// scale = max(scaleX, scaleY), then center-crop. The output always fully
// fills the target rect with no letterboxing.
func RenderCover(src capture.VideoFrame, w, h int) []byte {
	out := make([]byte, w*h*4)
	if src.Width <= 0 || src.Height <= 0 || w <= 0 || h <= 0 {
		return out
	}
	if src.Width == w && src.Height == h {
		copy(out, src.Data)
		return out
	}

	scaleX := float64(w) / float64(src.Width)
	scaleY := float64(h) / float64(src.Height)
	scale := scaleX
	if scaleY > scale {
		scale = scaleY
	}

	// Source window that survives the crop, centered.
	visW := float64(w) / scale
	visH := float64(h) / scale
	x0 := (float64(src.Width) - visW) / 2
	y0 := (float64(src.Height) - visH) / 2

	idx := 0
	for y := 0; y < h; y++ {
		srcY := int(y0 + (float64(y)+0.5)/scale)
		if srcY < 0 {
			srcY = 0
		}
		if srcY >= src.Height {
			srcY = src.Height - 1
		}
		rowOff := srcY * src.Width * 4
		for x := 0; x < w; x++ {
			srcX := int(x0 + (float64(x)+0.5)/scale)
			if srcX < 0 {
				srcX = 0
			}
			if srcX >= src.Width {
				srcX = src.Width - 1
			}
			srcOff := rowOff + srcX*4
			copy(out[idx:idx+4], src.Data[srcOff:srcOff+4])
			idx += 4
		}
	}
	return out
}
