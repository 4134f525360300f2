package watermark

import (
	"image"
	"math"
)

const (
	// Pixels with opacity below this carry no visible watermark; skipping
	// them leaves the original bytes bit-identical.
	alphaThreshold = 0.002
	// Ceiling applied before dividing by (1 - alpha). A fully opaque
	// watermark pixel would otherwise divide by zero.
	maxAlpha = 0.99
)

// applyReverseBlend inverts the forward model C_obs = a*F + (1-a)*C_true for
// every pixel inside rect, mutating img in place. tint is the constant
// foreground value F the watermark was painted with. Only the color channels
// change; the buffer's alpha channel is left as-is.
//
// The alpha map's dimensions must equal rect's.
func applyReverseBlend(img *image.RGBA, rect image.Rectangle, alphaMap AlphaMap, tint float64) {
	for row := 0; row < rect.Dy(); row++ {
		for col := 0; col < rect.Dx(); col++ {
			alpha := float64(alphaMap.Values[row*alphaMap.Width+col])
			if alpha < alphaThreshold {
				continue
			}

			if alpha > maxAlpha {
				alpha = maxAlpha
			}

			oneMinusAlpha := 1.0 - alpha
			offset := img.PixOffset(rect.Min.X+col, rect.Min.Y+row)

			for c := 0; c < 3; c++ {
				observed := float64(img.Pix[offset+c])
				original := (observed - alpha*tint) / oneMinusAlpha

				original = math.Max(0, math.Min(255, original))
				img.Pix[offset+c] = uint8(math.Round(original))
			}
		}
	}
}
