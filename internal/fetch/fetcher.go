// Package fetch downloads the bill document and classifies it as PDF or
// raster image.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hackrx/bill-extractor/constants"
	"github.com/hackrx/bill-extractor/internal/common"
)

// Fetcher retrieves a document over HTTP(S) with a bounded timeout.
// Single attempt, no retries: an unreachable document fails the request fast.
type Fetcher struct {
	client *http.Client
	logger *slog.Logger
}

func NewFetcher(timeout time.Duration, logger *slog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Fetch downloads rawURL and reports whether the payload is a PDF.
// Detection checks the URL path extension first (query params ignored), then
// falls back to the response Content-Type.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, bool, error) {
	reqID := common.RequestIDFromContext(ctx)
	start := time.Now()

	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, false, common.NewAppError("INVALID_URL", fmt.Sprintf("not an absolute http(s) URL: %q", rawURL), common.ErrInvalidInput)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, common.FetchError("build request", err)
	}

	f.logger.Info("fetch.request", "req_id", reqID, "url", rawURL)

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Error("fetch.send_error", "req_id", reqID, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, false, common.FetchError("download document", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			f.logger.Warn("fetch.body_close_error", "req_id", reqID, "error", cerr)
		}
	}()

	if resp.StatusCode/100 != 2 {
		f.logger.Error("fetch.bad_status", "req_id", reqID, "status", resp.StatusCode, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, false, common.FetchError("download document", fmt.Errorf("non-2xx status: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, common.FetchError("read body", err)
	}

	isPDF := isPDFDocument(u, resp)

	f.logger.Info("fetch.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(body),
		"is_pdf", isPDF,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return body, isPDF, nil
}

// isPDFDocument checks the URL path extension (robust against ?query=),
// then the declared content type.
func isPDFDocument(u *url.URL, resp *http.Response) bool {
	if constants.IsPDFPath(u.Path) {
		return true
	}
	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	return strings.Contains(ct, constants.PDFContentType)
}
