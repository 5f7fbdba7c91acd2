// billx runs the extraction pipeline once against a document URL and prints
// the response JSON. Handy for trying a strategy without standing up the
// server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/hackrx/bill-extractor/internal/common"
	"github.com/hackrx/bill-extractor/internal/extract"
	"github.com/hackrx/bill-extractor/internal/extract/tesseract"
	"github.com/hackrx/bill-extractor/internal/extract/vision"
	"github.com/hackrx/bill-extractor/internal/fetch"
	"github.com/hackrx/bill-extractor/internal/pipeline"
	"github.com/hackrx/bill-extractor/internal/raster"
)

func main() {
	_ = godotenv.Load()

	var (
		strategy = flag.String("strategy", "", "extraction strategy: vision | ocr (overrides EXTRACTOR_STRATEGY)")
		workers  = flag.Int("workers", 0, "parallel page extractions (overrides EXTRACTOR_WORKERS)")
		timeout  = flag.Duration("timeout", 5*time.Minute, "overall deadline for the run")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <document-url>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	url := flag.Arg(0)

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *strategy != "" {
		cfg.Extractor.Strategy = *strategy
	}
	if *workers > 0 {
		cfg.Extractor.Workers = *workers
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	pipe := pipeline.New(
		fetch.NewFetcher(cfg.Fetch.Timeout, logger),
		raster.NewRasterizer(cfg.Raster.Scale, logger),
		buildExtractor(cfg, logger),
		cfg.Extractor.Workers,
		logger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	resp, err := pipe.Process(ctx, url)
	if err != nil {
		logger.Error("extraction failed", "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		logger.Error("encode response", "error", err)
		os.Exit(1)
	}
}

func buildExtractor(cfg *common.Config, logger *slog.Logger) extract.PageExtractor {
	switch cfg.Extractor.Strategy {
	case common.StrategyOCR:
		return tesseract.NewExtractor(tesseract.Config{
			Tesseract:   cfg.OCR.Tesseract,
			Lang:        cfg.OCR.Lang,
			PSM:         cfg.OCR.PSM,
			OEM:         cfg.OCR.OEM,
			TessdataDir: cfg.OCR.TessdataDir,
			Contrast:    cfg.OCR.Contrast,
		}, logger)
	default:
		return vision.NewClient(vision.Config{
			APIKey:      cfg.Vision.APIKey,
			BaseURL:     cfg.Vision.BaseURL,
			Model:       cfg.Vision.Model,
			Temperature: cfg.Vision.Temperature,
			MaxTokens:   cfg.Vision.MaxTokens,
			JPEGQuality: cfg.Vision.JPEGQuality,
			Timeout:     cfg.Vision.Timeout,
		}, logger)
	}
}
