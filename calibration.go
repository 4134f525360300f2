package watermark

// captureKey names one embedded reference capture.
type captureKey string

const (
	captureGemini48     captureKey = "gemini_48"
	captureGemini96     captureKey = "gemini_96"
	captureBannerTall   captureKey = "banner_tall"
	captureBannerSquare captureKey = "banner_square"
	captureBannerWide   captureKey = "banner_wide"
)

// captureKeys lists every asset the engine loads at startup.
var captureKeys = []captureKey{
	captureGemini48,
	captureGemini96,
	captureBannerTall,
	captureBannerSquare,
	captureBannerWide,
}

// sizeBucket fixes the logo size and margin for images whose shorter edge is
// at most maxEdge.
type sizeBucket struct {
	maxEdge int
	size    int
	margin  int
	capture captureKey
}

// geminiBuckets must be ordered by ascending maxEdge.
var geminiBuckets = []sizeBucket{
	{maxEdge: 1024, size: 48, margin: 32, capture: captureGemini48},
	{maxEdge: 2048, size: 96, margin: 64, capture: captureGemini96},
}

// calibrationPoint is an empirically measured (shorter edge, logo size,
// margin) triple. Edges beyond the largest bucket interpolate linearly
// between the two points so the overlay stays visually proportional on
// arbitrarily large images.
type calibrationPoint struct {
	edge   int
	size   int
	margin int
}

var geminiCalibration = [2]calibrationPoint{
	{edge: 2048, size: 96, margin: 64},
	{edge: 3058, size: 173, margin: 104},
}

// aspectClass buckets an image by its width/height ratio.
type aspectClass int

const (
	aspectTall aspectClass = iota
	aspectSquare
	aspectWide
)

func (c aspectClass) String() string {
	switch c {
	case aspectTall:
		return "tall"
	case aspectWide:
		return "wide"
	default:
		return "square"
	}
}

// classifyAspect picks the banner template bucket. The 0.8 and 1.2 boundary
// ratios belong to the square bucket.
func classifyAspect(width, height int) aspectClass {
	ratio := float64(width) / float64(height)
	switch {
	case ratio < 0.8:
		return aspectTall
	case ratio > 1.2:
		return aspectWide
	default:
		return aspectSquare
	}
}

// aspectTemplate is the banner footprint measured at the bucket's reference
// dimensions. Every field scales by targetShortEdge/refShortEdge, which keeps
// the banner's true aspect ratio regardless of the image's exact size.
type aspectTemplate struct {
	refWidth     int
	refHeight    int
	width        int
	height       int
	marginRight  int
	marginBottom int
	capture      captureKey
}

func (t aspectTemplate) refShortEdge() int {
	if t.refWidth < t.refHeight {
		return t.refWidth
	}
	return t.refHeight
}

// Template dimensions match the shipped reference captures exactly; the
// capture pixels are the calibration.
var bannerTemplates = map[aspectClass]aspectTemplate{
	aspectTall: {
		refWidth: 832, refHeight: 1248,
		width: 136, height: 40,
		marginRight: 26, marginBottom: 26,
		capture: captureBannerTall,
	},
	aspectSquare: {
		refWidth: 1024, refHeight: 1024,
		width: 168, height: 48,
		marginRight: 32, marginBottom: 32,
		capture: captureBannerSquare,
	},
	aspectWide: {
		refWidth: 1248, refHeight: 832,
		width: 200, height: 44,
		marginRight: 28, marginBottom: 28,
		capture: captureBannerWide,
	},
}

// tintFor returns the constant foreground value the variant's watermark was
// painted with. Both supported families stamp a white overlay.
func tintFor(v Variant) float64 {
	switch v {
	case VariantGemini, VariantNanoBanana:
		return 255.0
	default:
		return 255.0
	}
}
