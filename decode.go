package watermark

import (
	"image"
	"image/png"
	"io"

	_ "image/gif"
	_ "image/jpeg"

	// Register the WebP decoder.
	_ "golang.org/x/image/webp"
)

// Decode reads an image from the reader, returning the decoded image and the
// detected format string ("png", "jpeg", "webp", etc.).
func Decode(r io.Reader) (image.Image, string, error) {
	return image.Decode(r)
}

// EncodePNG writes the provided image to the writer as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
