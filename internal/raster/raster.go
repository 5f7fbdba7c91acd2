// Package raster turns a fetched document into a 1-based ordered sequence of
// page images. PDFs are rendered with MuPDF (go-fitz), the same engine the
// rest of the pipeline was tuned against; anything else is decoded as a
// single already-raster image.
package raster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"

	"github.com/gen2brain/go-fitz"

	"github.com/hackrx/bill-extractor/internal/common"
)

// Base DPI of an unscaled PDF page render.
const baseDPI = 72.0

// Page is one rendered document page, 1-based.
type Page struct {
	Number int
	Image  image.Image
}

// Rasterizer renders PDF pages at a fixed scale factor.
type Rasterizer struct {
	scale  float64
	logger *slog.Logger
}

func NewRasterizer(scale float64, logger *slog.Logger) *Rasterizer {
	if scale <= 0 {
		scale = 1.5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Rasterizer{scale: scale, logger: logger}
}

// Rasterize converts the document bytes into page images in document order.
// Invalid bytes are fatal for the whole request; there is no partial-page
// recovery.
func (r *Rasterizer) Rasterize(ctx context.Context, body []byte, isPDF bool) ([]Page, error) {
	if isPDF {
		return r.rasterizePDF(ctx, body)
	}

	img, format, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, common.DecodeError("decode image", err)
	}
	r.logger.Debug("raster.image_decoded", "format", format)
	return []Page{{Number: 1, Image: img}}, nil
}

func (r *Rasterizer) rasterizePDF(ctx context.Context, body []byte) ([]Page, error) {
	doc, err := fitz.NewFromMemory(body)
	if err != nil {
		return nil, common.DecodeError("open pdf", err)
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			r.logger.Warn("raster.pdf_close_error", "error", cerr)
		}
	}()

	count := doc.NumPage()
	if count == 0 {
		return nil, common.DecodeError("pdf has no pages", nil)
	}

	pages := make([]Page, 0, count)
	for i := 0; i < count; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		img, err := doc.ImageDPI(i, baseDPI*r.scale)
		if err != nil {
			return nil, common.DecodeError(fmt.Sprintf("render page %d", i+1), err)
		}
		pages = append(pages, Page{Number: i + 1, Image: img})
	}

	r.logger.Debug("raster.pdf_rendered", "pages", count, "scale", r.scale)
	return pages, nil
}
