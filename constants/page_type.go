package constants

// PageType is the coarse classification of a bill page.
type PageType string

// Stable values (these exact strings go on the wire).
const (
	PageTypeBillDetail PageType = "Bill Detail"
	PageTypeFinalBill  PageType = "Final Bill"
	PageTypePharmacy   PageType = "Pharmacy"
	PageTypeUnknown    PageType = "Unknown"
)

// PharmacyKeywords marks a page as a pharmacy bill when any of them appears
// (case-insensitive) in the OCR text.
var PharmacyKeywords = []string{"pharmacy", "drug", "qty.", "batch no.", "mfrs."}

// FinalBillKeywords marks a page as a final/summary bill. Checked only after
// the pharmacy keywords miss.
var FinalBillKeywords = []string{"total payable", "net payable", "subtotal", "interim bill", "final total"}

// SubtotalItemName is the synthetic line item appended when a subtotal row is
// found; it is exempt from deduplication.
const SubtotalItemName = "Subtotal"
