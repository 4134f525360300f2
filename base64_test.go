package watermark

import (
	"bytes"
	"encoding/base64"
	"image"
	"testing"
)

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := EncodePNG(&buf, patternRGBA(w, h)); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestRestoreBytes(t *testing.T) {
	data := encodeTestPNG(t, 1200, 1200)

	out, info, err := RestoreBytes(data, VariantGemini)
	if err != nil {
		t.Fatalf("RestoreBytes: %v", err)
	}
	if len(out) == 0 {
		t.Fatalf("empty output")
	}

	img, format, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if format != "png" {
		t.Fatalf("output format = %q, want png", format)
	}
	if img.Bounds().Dx() != 1200 || img.Bounds().Dy() != 1200 {
		t.Fatalf("output dimensions = %v, want 1200x1200", img.Bounds())
	}

	want, err := RegionInfo(1200, 1200, VariantGemini)
	if err != nil {
		t.Fatalf("RegionInfo: %v", err)
	}
	if info.Position != want {
		t.Fatalf("info position = %v, want %v", info.Position, want)
	}
}

func TestRestoreBytesEmptyInput(t *testing.T) {
	if _, _, err := RestoreBytes(nil, VariantGemini); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestRestoreBase64DataURL(t *testing.T) {
	data := encodeTestPNG(t, 1024, 1024)
	input := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)

	out, info, err := RestoreBase64(input, VariantGemini)
	if err != nil {
		t.Fatalf("RestoreBase64: %v", err)
	}

	decoded, err := base64.StdEncoding.DecodeString(out)
	if err != nil {
		t.Fatalf("output is not valid base64: %v", err)
	}
	if _, _, err := image.Decode(bytes.NewReader(decoded)); err != nil {
		t.Fatalf("output is not a decodable image: %v", err)
	}
	if info.Position.Empty() {
		t.Fatalf("expected non-empty watermark position")
	}
}

func TestRestoreBase64RejectsGarbage(t *testing.T) {
	if _, _, err := RestoreBase64("not base64 at all!!!", VariantGemini); err == nil {
		t.Fatalf("expected error for invalid base64")
	}
}
