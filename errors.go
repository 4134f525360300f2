package watermark

import "errors"

var (
	// ErrUnsupportedVariant reports a variant the engine has no reference
	// capture or calibration for.
	ErrUnsupportedVariant = errors.New("unsupported watermark variant")

	// ErrRegionOutOfBounds reports an image too small to contain the
	// watermark rectangle its dimensions resolve to. The caller's buffer is
	// left untouched.
	ErrRegionOutOfBounds = errors.New("watermark region out of bounds")
)

// InitError reports a failed engine initialization: one or more embedded
// reference captures could not be read or decoded. Unlike the per-image
// errors above it is fatal; the engine cannot serve any restore call.
type InitError struct {
	Err error
}

func (e *InitError) Error() string {
	return "watermark: initialization failed: " + e.Err.Error()
}

func (e *InitError) Unwrap() error { return e.Err }
