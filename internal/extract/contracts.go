package extract

import (
	"context"
	"image"

	"github.com/hackrx/bill-extractor/constants"
)

// BillItem is one charged row on a bill. Values are carried exactly as
// extracted; amount is not recomputed from quantity and rate.
type BillItem struct {
	ItemName     string  `json:"item_name"`
	ItemQuantity float64 `json:"item_quantity"`
	ItemRate     float64 `json:"item_rate"`
	ItemAmount   float64 `json:"item_amount"`
}

// PageResult is produced once per page and immutable thereafter.
type PageResult struct {
	PageNo   int
	PageType constants.PageType
	Items    []BillItem
}

// PageExtractor is the interface the pipeline depends on. ExtractPage must
// always return a usable PageResult: on failure it returns page_type Unknown
// with no items alongside a non-nil error, and the caller decides whether to
// log or abort. Implementations must be safe for concurrent use.
type PageExtractor interface {
	ExtractPage(ctx context.Context, img image.Image, pageNo int) (PageResult, error)

	// Deduplicate reports whether results of this extractor need the
	// document-wide dedup pass in the assembler.
	Deduplicate() bool
}

// DegradedPage is the result substituted when a single page's extraction
// fails; sibling pages are unaffected.
func DegradedPage(pageNo int) PageResult {
	return PageResult{PageNo: pageNo, PageType: constants.PageTypeUnknown, Items: []BillItem{}}
}
