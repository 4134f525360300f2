package watermark

import "fmt"

// Variant identifies the generator family whose overlay is being removed. The
// variant decides which calibration table and reference capture apply; it is
// always supplied by the caller, never inferred from pixel content.
type Variant int

const (
	// VariantGemini is the square sparkle logo. Its size and margin depend on
	// the shorter image edge only.
	VariantGemini Variant = iota
	// VariantNanoBanana is the wordmark banner whose footprint follows the
	// image's aspect ratio.
	VariantNanoBanana
)

// Variants lists every supported variant.
func Variants() []Variant {
	return []Variant{VariantGemini, VariantNanoBanana}
}

func (v Variant) String() string {
	switch v {
	case VariantGemini:
		return "gemini"
	case VariantNanoBanana:
		return "nano-banana"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// ParseVariant maps a user-facing name to a Variant. It accepts the canonical
// String() forms plus a few common spellings.
func ParseVariant(name string) (Variant, error) {
	switch name {
	case "gemini":
		return VariantGemini, nil
	case "nano-banana", "nanobanana", "banana":
		return VariantNanoBanana, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedVariant, name)
	}
}
