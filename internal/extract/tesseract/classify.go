package tesseract

import (
	"strings"

	"github.com/hackrx/bill-extractor/constants"
)

// classifyPage infers the page type from raw OCR text. Matching is
// case-insensitive; pharmacy keywords take precedence over final-bill ones,
// and anything else is a detail page.
func classifyPage(text string) constants.PageType {
	lower := strings.ToLower(text)
	for _, kw := range constants.PharmacyKeywords {
		if strings.Contains(lower, kw) {
			return constants.PageTypePharmacy
		}
	}
	for _, kw := range constants.FinalBillKeywords {
		if strings.Contains(lower, kw) {
			return constants.PageTypeFinalBill
		}
	}
	return constants.PageTypeBillDetail
}
