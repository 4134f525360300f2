package watermark

import (
	"image"

	"github.com/disintegration/imaging"
)

// AlphaMap holds per-pixel watermark opacity in [0, 1], row-major, with
// dimensions matching one resolved watermark rectangle. Maps are immutable
// once derived and may be shared across concurrent restore calls.
type AlphaMap struct {
	Width  int
	Height int
	Values []float32
}

// At returns the opacity at map-local coordinates.
func (m AlphaMap) At(x, y int) float32 {
	return m.Values[y*m.Width+x]
}

// deriveAlphaMap resamples the reference capture to the target size and
// converts every pixel to a scalar opacity. Captures are authored as the
// white watermark composited over black, so the maximum RGB channel is the
// opacity. Lanczos keeps the resample smooth at non-calibration sizes, and
// the whole derivation is deterministic: identical inputs yield bit-identical
// maps, which is what makes the orchestrator's cache safe.
func deriveAlphaMap(capture image.Image, targetWidth, targetHeight int) AlphaMap {
	src := capture
	bounds := capture.Bounds()
	if bounds.Dx() != targetWidth || bounds.Dy() != targetHeight {
		src = imaging.Resize(capture, targetWidth, targetHeight, imaging.Lanczos)
		bounds = src.Bounds()
	}

	values := make([]float32, targetWidth*targetHeight)

	idx := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := src.At(x, y).RGBA()

			max := r
			if g > max {
				max = g
			}
			if b > max {
				max = b
			}

			a := float32(max) / 65535.0
			if a < 0 {
				a = 0
			} else if a > 1 {
				a = 1
			}
			values[idx] = a
			idx++
		}
	}

	return AlphaMap{Width: targetWidth, Height: targetHeight, Values: values}
}
