package watermark

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/png"
	"sync"
)

//go:embed assets/gemini_48.png assets/gemini_96.png assets/banner_tall.png assets/banner_square.png assets/banner_wide.png
var embeddedAssets embed.FS

// decodeCapture reads and decodes one embedded reference capture.
func decodeCapture(key captureKey) (image.Image, error) {
	filename := fmt.Sprintf("assets/%s.png", key)

	data, err := embeddedAssets.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}

	return img, nil
}

// loadReferenceCaptures decodes every embedded capture concurrently and
// returns the full set, or the first failure. A single bad asset fails the
// whole load; there is no partially usable set.
func loadReferenceCaptures() (map[captureKey]image.Image, error) {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		captures = make(map[captureKey]image.Image, len(captureKeys))
		firstErr error
	)

	for _, key := range captureKeys {
		wg.Add(1)
		go func(key captureKey) {
			defer wg.Done()

			img, err := decodeCapture(key)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			captures[key] = img
		}(key)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return captures, nil
}
