package watermark

import (
	"bytes"
	"fmt"
	"image"
)

// DecodeImageBytes decodes raw image bytes, returning the image and the
// detected format string ("png", "jpeg", "webp", etc.).
func DecodeImageBytes(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty image data")
	}
	return Decode(bytes.NewReader(data))
}

// RestoreBytes decodes raw image bytes, restores the pixels beneath the
// variant's watermark, and re-encodes the result as PNG. It also reports the
// watermark placement that was used.
func RestoreBytes(data []byte, v Variant) (output []byte, info Info, err error) {
	img, _, err := DecodeImageBytes(data)
	if err != nil {
		return nil, Info{}, err
	}

	eng, err := Default()
	if err != nil {
		return nil, Info{}, err
	}

	restored, err := eng.RestoreImage(img, v)
	if err != nil {
		return nil, Info{}, err
	}

	bounds := img.Bounds()
	info, err = eng.Region(bounds.Dx(), bounds.Dy(), v)
	if err != nil {
		return nil, Info{}, err
	}

	var buf bytes.Buffer
	if err := EncodePNG(&buf, restored); err != nil {
		return nil, Info{}, err
	}

	return buf.Bytes(), info, nil
}
