package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hackrx/bill-extractor/internal/common"
	"github.com/hackrx/bill-extractor/internal/extract"
	"github.com/hackrx/bill-extractor/internal/extract/tesseract"
	"github.com/hackrx/bill-extractor/internal/extract/vision"
	"github.com/hackrx/bill-extractor/internal/fetch"
	"github.com/hackrx/bill-extractor/internal/pipeline"
	"github.com/hackrx/bill-extractor/internal/raster"
	"github.com/hackrx/bill-extractor/internal/server"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	extractor := buildExtractor(cfg, logger)

	pipe := pipeline.New(
		fetch.NewFetcher(cfg.Fetch.Timeout, logger),
		raster.NewRasterizer(cfg.Raster.Scale, logger),
		extractor,
		cfg.Extractor.Workers,
		logger,
	)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(pipe, logger).Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("http serving",
			"addr", cfg.Server.Addr,
			"strategy", cfg.Extractor.Strategy,
			"workers", cfg.Extractor.Workers,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown interrupted", "error", err)
	}
	logger.Info("stopped")
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
