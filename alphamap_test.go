package watermark

import (
	"image"
	"image/color"
	"testing"
)

// gradientCapture builds a deterministic synthetic reference capture.
func gradientCapture(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8((x*7 + y*13) % 256)
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v / 2, B: v / 3, A: 255})
		}
	}
	return img
}

func TestDeriveAlphaMapDeterministic(t *testing.T) {
	capture := gradientCapture(96, 96)

	first := deriveAlphaMap(capture, 37, 29)
	second := deriveAlphaMap(capture, 37, 29)

	if first.Width != 37 || first.Height != 29 {
		t.Fatalf("map dimensions = %dx%d, want 37x29", first.Width, first.Height)
	}
	if len(first.Values) != 37*29 {
		t.Fatalf("map length = %d, want %d", len(first.Values), 37*29)
	}

	for i := range first.Values {
		if first.Values[i] != second.Values[i] {
			t.Fatalf("maps differ at index %d: %v vs %v", i, first.Values[i], second.Values[i])
		}
	}
}

func TestDeriveAlphaMapRange(t *testing.T) {
	capture := gradientCapture(96, 96)

	for _, size := range []struct{ w, h int }{{96, 96}, {48, 48}, {173, 173}, {7, 3}} {
		m := deriveAlphaMap(capture, size.w, size.h)
		for i, v := range m.Values {
			if v < 0 || v > 1 {
				t.Fatalf("alpha out of range at %d for %dx%d: %v", i, size.w, size.h, v)
			}
		}
	}
}

func TestDeriveAlphaMapExactSizeSkipsResample(t *testing.T) {
	// A uniform capture at the exact target size must convert without any
	// resampling error: max(R,G,B)/max-value precisely.
	img := image.NewNRGBA(image.Rect(0, 0, 48, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 48; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 128, G: 64, B: 32, A: 255})
		}
	}

	m := deriveAlphaMap(img, 48, 48)
	want := float32(128*257) / 65535.0
	for i, v := range m.Values {
		if v != want {
			t.Fatalf("alpha[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestDeriveAlphaMapUsesMaxChannel(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 200, B: 30, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 0, G: 0, B: 255, A: 255})

	m := deriveAlphaMap(img, 2, 1)
	if want := float32(200*257) / 65535.0; m.At(0, 0) != want {
		t.Fatalf("alpha(0,0) = %v, want %v", m.At(0, 0), want)
	}
	if m.At(1, 0) != 1.0 {
		t.Fatalf("alpha(1,0) = %v, want 1", m.At(1, 0))
	}
}
