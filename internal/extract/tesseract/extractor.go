// Package tesseract implements the local OCR extraction strategy: image
// preprocessing, text recognition through the tesseract binary, and
// regex-based line parsing.
package tesseract

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hackrx/bill-extractor/internal/common"
	"github.com/hackrx/bill-extractor/internal/extract"
)

type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Lang        string // default "eng"
	PSM         int    // 6 is good for a uniform block of text
	OEM         int    // 3 = default engine, LSTM preferred
	TessdataDir string
	Contrast    float64 // preprocess contrast boost, default 2.0
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if cfg.PSM == 0 {
		cfg.PSM = 6
	}
	if cfg.OEM == 0 {
		cfg.OEM = 3
	}
	if cfg.Contrast <= 0 {
		cfg.Contrast = 2.0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// Deduplicate is true: regex parsing over OCR text repeats rows across
// overlapping patterns, so the assembler must run the document-wide pass.
func (e *Extractor) Deduplicate() bool { return true }

// ExtractPage recognizes text on one page image and parses bill items out of
// it. Any failure degrades to an Unknown page with no items; the error is
// returned for logging but must not abort sibling pages.
func (e *Extractor) ExtractPage(ctx context.Context, img image.Image, pageNo int) (extract.PageResult, error) {
	text, err := e.recognize(ctx, img)
	if err != nil {
		return extract.DegradedPage(pageNo), fmt.Errorf("page %d: %w: %w", pageNo, common.ErrPageExtraction, err)
	}

	e.logger.Debug("ocr.page_text", "page_no", pageNo, "snippet", truncate(text, 200))

	pageType := classifyPage(text)
	items := parseLines(text)
	if sub, ok := findSubtotal(text); ok {
		items = append(items, sub)
		e.logger.Debug("ocr.subtotal_found", "page_no", pageNo, "amount", sub.ItemAmount)
	}

	e.logger.Info("ocr.page_done", "page_no", pageNo, "page_type", string(pageType), "items", len(items))
	return extract.PageResult{PageNo: pageNo, PageType: pageType, Items: items}, nil
}

// recognize preprocesses the image, writes it to a temp PNG and runs
// tesseract over it.
func (e *Extractor) recognize(ctx context.Context, img image.Image) (string, error) {
	tmpDir, err := os.MkdirTemp("", "bx-ocr-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if rerr := os.RemoveAll(tmpDir); rerr != nil {
			e.logger.Warn("ocr.tmp_cleanup_failed", "dir", tmpDir, "error", rerr)
		}
	}()

	path := filepath.Join(tmpDir, "page.png")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := png.Encode(f, preprocess(img, e.cfg.Contrast)); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("encode page png: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	// tesseract <file> stdout -l <lang> --oem 3 --psm 6
	args := []string{path, "stdout", "-l", e.cfg.Lang}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", fmt.Sprintf("%d", e.cfg.OEM))
	}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", fmt.Sprintf("%d", e.cfg.PSM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, truncate(string(errb), 512))
	}
	return string(out), nil
}
