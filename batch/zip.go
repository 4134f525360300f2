package batch

import (
	"archive/zip"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"
)

// WriteArchive zips the successful results into w for multi-file download.
// Failed items are skipped; the count of archived files is returned. PNG data
// is already compressed, so the deflate level favors speed over ratio.
func WriteArchive(w io.Writer, results []Result) (int, error) {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestSpeed)
	})

	written := 0
	for _, res := range results {
		if res.Err != nil {
			continue
		}

		f, err := zw.Create(restoredName(res.Name))
		if err != nil {
			return written, fmt.Errorf("create archive entry for %s: %w", res.Name, err)
		}
		if _, err := f.Write(res.Data); err != nil {
			return written, fmt.Errorf("write archive entry for %s: %w", res.Name, err)
		}
		written++
	}

	if err := zw.Close(); err != nil {
		return written, fmt.Errorf("finalize archive: %w", err)
	}
	return written, nil
}

// restoredName derives the output filename for a restored image. Output is
// always PNG regardless of the input format.
func restoredName(original string) string {
	base := filepath.Base(original)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_restored.png"
}
