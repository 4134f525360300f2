package watermark

import (
	"fmt"
	"image"
	"image/draw"
	"sync"
)

// Info reports the resolved watermark placement for a processed image.
type Info struct {
	Variant  Variant
	Position image.Rectangle
}

// Engine owns the decoded reference captures and an append-only cache of
// derived alpha maps. Construction either yields a fully ready engine or
// fails; there is no partially initialized state. A single engine instance
// services any number of concurrent Restore calls.
type Engine struct {
	captures  map[captureKey]image.Image
	alphaMaps sync.Map // alphaCacheKey -> AlphaMap
}

// alphaCacheKey identifies one derived alpha map. Captures never change at
// runtime, so entries are never invalidated.
type alphaCacheKey struct {
	capture captureKey
	width   int
	height  int
}

// NewEngine decodes every embedded reference capture and returns a ready
// engine. Any asset failing to load or decode aborts construction with an
// *InitError.
func NewEngine() (*Engine, error) {
	captures, err := loadReferenceCaptures()
	if err != nil {
		return nil, &InitError{Err: err}
	}
	return &Engine{captures: captures}, nil
}

var defaultEngine struct {
	once sync.Once
	eng  *Engine
	err  error
}

// Default returns the lazily constructed shared engine.
func Default() (*Engine, error) {
	defaultEngine.once.Do(func() {
		defaultEngine.eng, defaultEngine.err = NewEngine()
	})
	return defaultEngine.eng, defaultEngine.err
}

// Restore applies the default engine to the provided buffer.
func Restore(img *image.RGBA, v Variant) (*image.RGBA, error) {
	eng, err := Default()
	if err != nil {
		return nil, err
	}
	return eng.Restore(img, v)
}

// Restore removes the variant's watermark from img by reverse alpha blending,
// mutating the buffer in place within the watermark rectangle only. The same
// buffer is returned for chaining. The rectangle is validated before any
// pixel changes, so a failed call leaves the buffer untouched.
func (e *Engine) Restore(img *image.RGBA, v Variant) (*image.RGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image provided")
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", width, height)
	}
	if len(img.Pix) < img.PixOffset(bounds.Max.X-1, bounds.Max.Y-1)+4 {
		return nil, fmt.Errorf("pixel buffer too short for declared bounds %v", bounds)
	}

	cfg, err := ResolveRegion(width, height, v)
	if err != nil {
		return nil, err
	}

	rect, err := cfg.Rect(bounds)
	if err != nil {
		return nil, err
	}

	alphaMap, err := e.alphaMap(cfg)
	if err != nil {
		return nil, err
	}

	applyReverseBlend(img, rect, alphaMap, tintFor(v))
	return img, nil
}

// RestorePix wraps a caller-owned RGBA byte buffer of the declared dimensions
// and restores it in place. The buffer length must be exactly 4*width*height.
func (e *Engine) RestorePix(pix []byte, width, height int, v Variant) error {
	if len(pix) != 4*width*height {
		return fmt.Errorf("pixel buffer length %d does not match %dx%d RGBA", len(pix), width, height)
	}

	img := &image.RGBA{
		Pix:    pix,
		Stride: 4 * width,
		Rect:   image.Rect(0, 0, width, height),
	}
	_, err := e.Restore(img, v)
	return err
}

// RestoreImage clones src into a fresh RGBA buffer and restores that, leaving
// src untouched.
func (e *Engine) RestoreImage(src image.Image, v Variant) (*image.RGBA, error) {
	if src == nil {
		return nil, fmt.Errorf("nil image provided")
	}
	return e.Restore(cloneToRGBA(src), v)
}

// Region reports the watermark placement the engine would use for an image of
// the given dimensions.
func (e *Engine) Region(width, height int, v Variant) (Info, error) {
	rect, err := RegionInfo(width, height, v)
	if err != nil {
		return Info{}, err
	}
	return Info{Variant: v, Position: rect}, nil
}

// alphaMap returns the cached map for the config's capture and size, deriving
// it on first use. Concurrent derivation of the same key may compute the map
// twice; LoadOrStore keeps a single winner and both computations are
// identical, so the race is benign.
func (e *Engine) alphaMap(cfg RegionConfig) (AlphaMap, error) {
	key := alphaCacheKey{capture: cfg.capture, width: cfg.Width, height: cfg.Height}

	if cached, ok := e.alphaMaps.Load(key); ok {
		return cached.(AlphaMap), nil
	}

	capture, ok := e.captures[cfg.capture]
	if !ok {
		return AlphaMap{}, fmt.Errorf("%w: no reference capture %q", ErrUnsupportedVariant, cfg.capture)
	}

	derived := deriveAlphaMap(capture, cfg.Width, cfg.Height)
	actual, _ := e.alphaMaps.LoadOrStore(key, derived)
	return actual.(AlphaMap), nil
}

// cloneToRGBA copies the image into a mutable RGBA buffer.
func cloneToRGBA(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
