package watermark

import (
	"fmt"
	"image"
	"math"
)

// RegionConfig describes the watermark's pixel footprint and its offset from
// the bottom-right corner of the target image, plus the reference capture the
// alpha map scales from. It is derived deterministically from the image
// dimensions and variant; pixel content is never read.
type RegionConfig struct {
	Width        int
	Height       int
	MarginRight  int
	MarginBottom int

	capture captureKey
}

// Rect places the config inside bounds as an absolute rectangle. It fails
// with ErrRegionOutOfBounds when the image is too small for the footprint the
// calibration assumes.
func (c RegionConfig) Rect(bounds image.Rectangle) (image.Rectangle, error) {
	x := bounds.Max.X - c.MarginRight - c.Width
	y := bounds.Max.Y - c.MarginBottom - c.Height

	rect := image.Rect(x, y, x+c.Width, y+c.Height)
	if !rect.In(bounds) {
		return image.Rectangle{}, fmt.Errorf("%w: rectangle %v does not fit %v", ErrRegionOutOfBounds, rect, bounds)
	}
	return rect, nil
}

// ResolveRegion computes the watermark footprint for an image of the given
// dimensions. Output dimensions and margins are always non-negative integers.
func ResolveRegion(width, height int, v Variant) (RegionConfig, error) {
	if width <= 0 || height <= 0 {
		return RegionConfig{}, fmt.Errorf("invalid image dimensions %dx%d", width, height)
	}

	switch v {
	case VariantGemini:
		return resolveGeminiRegion(width, height), nil
	case VariantNanoBanana:
		return resolveBannerRegion(width, height), nil
	default:
		return RegionConfig{}, fmt.Errorf("%w: %v", ErrUnsupportedVariant, v)
	}
}

// RegionInfo resolves the absolute watermark rectangle for display or
// pre-flight checks.
func RegionInfo(width, height int, v Variant) (image.Rectangle, error) {
	cfg, err := ResolveRegion(width, height, v)
	if err != nil {
		return image.Rectangle{}, err
	}
	return cfg.Rect(image.Rect(0, 0, width, height))
}

// resolveGeminiRegion applies the size buckets on the shorter edge, then
// interpolates between the two calibration points past the largest bucket.
func resolveGeminiRegion(width, height int) RegionConfig {
	edge := width
	if height < edge {
		edge = height
	}

	for _, b := range geminiBuckets {
		if edge <= b.maxEdge {
			return RegionConfig{
				Width:        b.size,
				Height:       b.size,
				MarginRight:  b.margin,
				MarginBottom: b.margin,
				capture:      b.capture,
			}
		}
	}

	p0, p1 := geminiCalibration[0], geminiCalibration[1]
	span := float64(p1.edge - p0.edge)
	t := float64(edge - p0.edge)

	size := int(math.Round(float64(p0.size) + t*float64(p1.size-p0.size)/span))
	margin := int(math.Round(float64(p0.margin) + t*float64(p1.margin-p0.margin)/span))

	return RegionConfig{
		Width:        size,
		Height:       size,
		MarginRight:  margin,
		MarginBottom: margin,
		capture:      captureGemini96,
	}
}

// resolveBannerRegion classifies the image into an aspect bucket and scales
// that bucket's measured footprint by the shorter-edge ratio. Scaling both
// axes by the same factor preserves the banner's true aspect ratio.
func resolveBannerRegion(width, height int) RegionConfig {
	tpl := bannerTemplates[classifyAspect(width, height)]

	edge := width
	if height < edge {
		edge = height
	}
	scale := float64(edge) / float64(tpl.refShortEdge())

	round := func(v int) int { return int(math.Round(float64(v) * scale)) }

	return RegionConfig{
		Width:        round(tpl.width),
		Height:       round(tpl.height),
		MarginRight:  round(tpl.marginRight),
		MarginBottom: round(tpl.marginBottom),
		capture:      tpl.capture,
	}
}
