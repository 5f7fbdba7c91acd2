// Package pipeline wires fetcher, rasterizer, extractor and assembler into
// the single linear flow a request passes through.
package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hackrx/bill-extractor/internal/assemble"
	"github.com/hackrx/bill-extractor/internal/common"
	"github.com/hackrx/bill-extractor/internal/extract"
	"github.com/hackrx/bill-extractor/internal/raster"
)

// Fetcher is satisfied by fetch.Fetcher.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (body []byte, isPDF bool, err error)
}

// Rasterizer is satisfied by raster.Rasterizer.
type Rasterizer interface {
	Rasterize(ctx context.Context, body []byte, isPDF bool) ([]raster.Page, error)
}

// Pipeline coordinates document download, page rendering and per-page
// extraction. Pages share no mutable state, so extraction can fan out when
// Workers > 1; output order is always document order.
type Pipeline struct {
	fetcher    Fetcher
	rasterizer Rasterizer
	extractor  extract.PageExtractor
	workers    int
	logger     *slog.Logger
}

func New(f Fetcher, r Rasterizer, e extract.PageExtractor, workers int, logger *slog.Logger) *Pipeline {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{fetcher: f, rasterizer: r, extractor: e, workers: workers, logger: logger}
}

// Process runs the whole extraction for one document URL.
//
// Fetch and decode failures are fatal and returned; a single page's
// extraction failure is absorbed as an Unknown page with no items and only
// degrades the output.
func (p *Pipeline) Process(ctx context.Context, url string) (assemble.Response, error) {
	reqID := common.RequestIDFromContext(ctx)
	start := time.Now()

	body, isPDF, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return assemble.Response{}, err
	}

	pages, err := p.rasterizer.Rasterize(ctx, body, isPDF)
	if err != nil {
		return assemble.Response{}, err
	}

	results, degraded := p.extractPages(ctx, pages)

	resp := assemble.Assemble(results, assemble.Options{
		Deduplicate: p.extractor.Deduplicate(),
		Logger:      p.logger,
	})

	p.logger.Info("pipeline.done",
		"req_id", reqID,
		"pages", len(results),
		"degraded_pages", degraded,
		"total_items", resp.Data.TotalItemCount,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return resp, nil
}

// extractPages runs the extractor over every page, sequentially by default.
// With workers > 1 pages are processed concurrently; results land in a slice
// indexed by page position, so order is preserved regardless of completion
// order. Returns the ordered results and the count of degraded pages.
func (p *Pipeline) extractPages(ctx context.Context, pages []raster.Page) ([]extract.PageResult, int) {
	results := make([]extract.PageResult, len(pages))

	if p.workers == 1 || len(pages) == 1 {
		degraded := 0
		for i, page := range pages {
			results[i] = p.extractOne(ctx, page, &degraded)
		}
		return results, degraded
	}

	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	degraded := 0

	for i, page := range pages {
		wg.Add(1)
		go func(i int, page raster.Page) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			var d int
			results[i] = p.extractOne(ctx, page, &d)
			if d > 0 {
				mu.Lock()
				degraded += d
				mu.Unlock()
			}
		}(i, page)
	}
	wg.Wait()
	return results, degraded
}

func (p *Pipeline) extractOne(ctx context.Context, page raster.Page, degraded *int) extract.PageResult {
	p.logger.Info("pipeline.page.start", "page_no", page.Number)

	res, err := p.extractor.ExtractPage(ctx, page.Image, page.Number)
	if err != nil {
		// Degraded, not fatal: the page comes back as Unknown with no items.
		p.logger.Error("pipeline.page.degraded", "page_no", page.Number, "error", err)
		*degraded++
		return res
	}

	p.logger.Info("pipeline.page.ok", "page_no", page.Number, "items", len(res.Items))
	return res
}
