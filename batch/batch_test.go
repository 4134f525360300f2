package batch

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"strings"
	"testing"

	watermark "github.com/clearframe/wmrestore"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	state := uint32(7)
	for i := range img.Pix {
		state = state*1664525 + 1013904223
		img.Pix[i] = uint8(state >> 24)
	}

	var buf bytes.Buffer
	if err := watermark.EncodePNG(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	eng, err := watermark.NewEngine()
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return New(eng, 3, nil)
}

func TestProcessIsolatesFailures(t *testing.T) {
	proc := newTestProcessor(t)

	items := []Item{
		{Name: "good.png", Data: testPNG(t, 1200, 1200)},
		{Name: "corrupt.png", Data: []byte("not an image")},
		{Name: "tiny.png", Data: testPNG(t, 50, 50)},
		{Name: "also_good.png", Data: testPNG(t, 2048, 2048)},
	}

	results := proc.Process(context.Background(), items, watermark.VariantGemini)
	if len(results) != len(items) {
		t.Fatalf("got %d results, want %d", len(results), len(items))
	}

	for i, res := range results {
		if res.Name != items[i].Name {
			t.Fatalf("result %d name = %q, want %q (order must match input)", i, res.Name, items[i].Name)
		}
	}

	if results[0].Err != nil {
		t.Fatalf("good.png failed: %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Fatalf("corrupt.png should have failed")
	}
	if results[2].Err == nil {
		t.Fatalf("tiny.png should have failed (region out of bounds)")
	}
	if results[3].Err != nil {
		t.Fatalf("also_good.png failed: %v", results[3].Err)
	}

	if results[0].Box.Empty() {
		t.Fatalf("expected a watermark box for good.png")
	}
}

func TestProcessCanceledContext(t *testing.T) {
	proc := newTestProcessor(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := []Item{
		{Name: "a.png", Data: testPNG(t, 1200, 1200)},
		{Name: "b.png", Data: testPNG(t, 1200, 1200)},
	}

	results := proc.Process(ctx, items, watermark.VariantGemini)
	for _, res := range results {
		if res.Err == nil {
			t.Fatalf("expected context error for %s", res.Name)
		}
	}
}

func TestWriteArchive(t *testing.T) {
	proc := newTestProcessor(t)

	items := []Item{
		{Name: "dir/photo.jpg", Data: testPNG(t, 1200, 1200)},
		{Name: "broken.png", Data: []byte("nope")},
	}
	results := proc.Process(context.Background(), items, watermark.VariantGemini)

	var buf bytes.Buffer
	n, err := WriteArchive(&buf, results)
	if err != nil {
		t.Fatalf("WriteArchive: %v", err)
	}
	if n != 1 {
		t.Fatalf("archived %d files, want 1", n)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	if len(zr.File) != 1 {
		t.Fatalf("archive holds %d entries, want 1", len(zr.File))
	}
	if got := zr.File[0].Name; got != "photo_restored.png" || strings.Contains(got, "/") {
		t.Fatalf("entry name = %q, want photo_restored.png", got)
	}
}

func TestNewDefaults(t *testing.T) {
	eng, err := watermark.NewEngine()
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	proc := New(eng, 0, nil)
	if proc.concurrency != DefaultConcurrency {
		t.Fatalf("concurrency = %d, want %d", proc.concurrency, DefaultConcurrency)
	}
	if proc.log == nil {
		t.Fatalf("nil logger not replaced")
	}
}
