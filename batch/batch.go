// Package batch restores watermarks across many images with bounded
// concurrency and packages the results for multi-file download. One item's
// failure never aborts the rest of the batch.
package batch

import (
	"bytes"
	"context"
	"image"
	"sync"

	"go.uber.org/zap"

	watermark "github.com/clearframe/wmrestore"
)

// DefaultConcurrency bounds how many images restore at once. Restoration is
// CPU-bound and each in-flight image holds its full pixel buffer, so a small
// limit keeps peak memory flat on large batches.
const DefaultConcurrency = 3

// Item is one image queued for restoration.
type Item struct {
	Name string
	Data []byte
}

// Result is the per-item outcome. Data holds the restored PNG bytes when Err
// is nil.
type Result struct {
	Name string
	Data []byte
	Box  image.Rectangle
	Err  error
}

// Processor runs restorations over a shared engine.
type Processor struct {
	eng         *watermark.Engine
	concurrency int
	log         *zap.Logger
}

// New builds a Processor. A concurrency below 1 falls back to
// DefaultConcurrency; a nil logger is replaced with a no-op one.
func New(eng *watermark.Engine, concurrency int, log *zap.Logger) *Processor {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{eng: eng, concurrency: concurrency, log: log}
}

// Process restores every item and returns one Result per input, in input
// order. Items not yet started when ctx is canceled fail with ctx.Err();
// items already in flight run to completion, since a single restoration is
// short and non-suspending.
func (p *Processor) Process(ctx context.Context, items []Item, v watermark.Variant) []Result {
	results := make([]Result, len(items))

	var wg sync.WaitGroup
	sem := make(chan struct{}, p.concurrency)

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(items); j++ {
				results[j] = Result{Name: items[j].Name, Err: err}
			}
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, item Item) {
			defer wg.Done()
			defer func() { <-sem }()

			results[i] = p.processOne(item, v)
		}(i, item)
	}

	wg.Wait()
	return results
}

func (p *Processor) processOne(item Item, v watermark.Variant) Result {
	data, info, err := p.restore(item.Data, v)
	if err != nil {
		p.log.Warn("restore failed",
			zap.String("name", item.Name),
			zap.Error(err))
		return Result{Name: item.Name, Err: err}
	}

	p.log.Info("restored",
		zap.String("name", item.Name),
		zap.Stringer("variant", v),
		zap.Stringer("box", info.Position))

	return Result{Name: item.Name, Data: data, Box: info.Position}
}

func (p *Processor) restore(data []byte, v watermark.Variant) ([]byte, watermark.Info, error) {
	img, _, err := watermark.DecodeImageBytes(data)
	if err != nil {
		return nil, watermark.Info{}, err
	}

	restored, err := p.eng.RestoreImage(img, v)
	if err != nil {
		return nil, watermark.Info{}, err
	}

	bounds := img.Bounds()
	info, err := p.eng.Region(bounds.Dx(), bounds.Dy(), v)
	if err != nil {
		return nil, watermark.Info{}, err
	}

	var buf bytes.Buffer
	if err := watermark.EncodePNG(&buf, restored); err != nil {
		return nil, watermark.Info{}, err
	}

	return buf.Bytes(), info, nil
}
