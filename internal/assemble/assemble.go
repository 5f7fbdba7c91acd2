// Package assemble folds per-page extraction results into the response
// schema served over HTTP.
package assemble

import (
	"log/slog"
	"math"
	"strconv"

	"github.com/hackrx/bill-extractor/constants"
	"github.com/hackrx/bill-extractor/internal/extract"
)

// BillItem is the wire form of one extracted row, rounded to 2 decimals.
type BillItem struct {
	ItemName     string  `json:"item_name"`
	ItemAmount   float64 `json:"item_amount"`
	ItemRate     float64 `json:"item_rate"`
	ItemQuantity float64 `json:"item_quantity"`
}

// PageData is the wire form of one page. page_no is a 1-based string, which
// is what the consumer of this API expects.
type PageData struct {
	PageNo    string     `json:"page_no"`
	PageType  string     `json:"page_type"`
	BillItems []BillItem `json:"bill_items"`
}

type Data struct {
	PagewiseLineItems []PageData `json:"pagewise_line_items"`
	TotalItemCount    int        `json:"total_item_count"`
}

// Response is constructed once per request and never mutated afterwards.
type Response struct {
	IsSuccess bool `json:"is_success"`
	Data      Data `json:"data"`
}

// Options controls the assembly pass.
type Options struct {
	// Deduplicate drops repeated items across the whole document, keyed by
	// (name, quantity, rate). The synthetic Subtotal item is always kept.
	// Only the OCR strategy asks for this.
	Deduplicate bool

	Logger *slog.Logger
}

type dedupKey struct {
	name     string
	quantity float64
	rate     float64
}

// Assemble aggregates page results in page order and computes the total item
// count after any deduplication.
func Assemble(pages []extract.PageResult, opts Options) Response {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	seen := make(map[dedupKey]struct{})
	out := make([]PageData, 0, len(pages))
	total := 0

	for _, page := range pages {
		items := make([]BillItem, 0, len(page.Items))
		for _, item := range page.Items {
			if opts.Deduplicate && item.ItemName != constants.SubtotalItemName {
				key := dedupKey{name: item.ItemName, quantity: item.ItemQuantity, rate: item.ItemRate}
				if _, dup := seen[key]; dup {
					// The key can collide for genuinely distinct rows with
					// identical values; accepted and surfaced in logs only.
					logger.Debug("assemble.item_deduplicated",
						"page_no", page.PageNo, "item_name", item.ItemName)
					continue
				}
				seen[key] = struct{}{}
			}
			items = append(items, BillItem{
				ItemName:     item.ItemName,
				ItemAmount:   round2(item.ItemAmount),
				ItemRate:     round2(item.ItemRate),
				ItemQuantity: round2(item.ItemQuantity),
			})
		}
		out = append(out, PageData{
			PageNo:    strconv.Itoa(page.PageNo),
			PageType:  string(page.PageType),
			BillItems: items,
		})
		total += len(items)
	}

	return Response{
		IsSuccess: true,
		Data: Data{
			PagewiseLineItems: out,
			TotalItemCount:    total,
		},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
