package tesseract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hackrx/bill-extractor/constants"
	"github.com/hackrx/bill-extractor/internal/extract"
)

// minLineLength filters out separators and OCR noise before any pattern runs.
const minLineLength = 10

// linePattern pairs a line regex with the parser that turns its submatches
// into a bill item. Patterns are tried in order; first match wins.
type linePattern struct {
	re    *regexp.Regexp
	parse func(m []string) (extract.BillItem, bool)
}

var linePatterns = []linePattern{
	// 01 Paracetamol 05/05/2024 2.00 10.00 20.00 0.00
	{
		re: regexp.MustCompile(`^\s*(\d{2})\s+(.+?)\s+\d{2}/\d{2}/\d{4}\s+(\d+(?:\.\d+)?)\s+([\d.,]+)\s+([\d.,]+)\s+0\.00\s*$`),
		parse: func(m []string) (extract.BillItem, bool) {
			qty, ok1 := parseAmount(m[3])
			rate, ok2 := parseAmount(m[4])
			amount, ok3 := parseAmount(m[5])
			if !ok1 || !ok2 || !ok3 {
				return extract.BillItem{}, false
			}
			return extract.BillItem{
				ItemName:     strings.TrimSpace(m[2]),
				ItemQuantity: qty,
				ItemRate:     rate,
				ItemAmount:   amount,
			}, true
		},
	},
	// 1 IP CONSULTATION CHARGES Dr. Name (Cardiology) 1.00 1,500.00 1,500.00 0 12345
	{
		re: regexp.MustCompile(`^\s*(\d+)\s+IP CONSULTATION\s+CHARGES\s+(.+?)\s+\(.+?\)\s+1\.00\s+([\d,]+\.00)\s+([\d,]+\.00)\s+0\s+\d+\s*$`),
		parse: func(m []string) (extract.BillItem, bool) {
			rate, ok1 := parseAmount(m[3])
			amount, ok2 := parseAmount(m[4])
			if !ok1 || !ok2 {
				return extract.BillItem{}, false
			}
			return extract.BillItem{
				ItemName:     strings.TrimSpace(m[2]),
				ItemQuantity: 1.0,
				ItemRate:     rate,
				ItemAmount:   amount,
			}, true
		},
	},
	// 2 Room Rent(3 ) 4,500.00 (single amount doubles as the rate)
	{
		re: regexp.MustCompile(`^\s*(\d+)\s+(.+?)\(\d+\s*\)\s+([\d,]+\.\d{2})\s*$`),
		parse: func(m []string) (extract.BillItem, bool) {
			amount, ok := parseAmount(m[3])
			if !ok {
				return extract.BillItem{}, false
			}
			return extract.BillItem{
				ItemName:     strings.TrimSpace(m[2]),
				ItemQuantity: 1.0,
				ItemRate:     amount,
				ItemAmount:   amount,
			}, true
		},
	},
	// Name 2 240.00 (rate derived as amount/quantity)
	{
		re: regexp.MustCompile(`^\s*(.+?)\s+(\d+(?:\.\d+)?)\s+([\d.,]+)\s*$`),
		parse: func(m []string) (extract.BillItem, bool) {
			qty, ok1 := parseAmount(m[2])
			amount, ok2 := parseAmount(m[3])
			if !ok1 || !ok2 {
				return extract.BillItem{}, false
			}
			rate := 0.0
			if qty > 0 {
				rate = amount / qty
			}
			return extract.BillItem{
				ItemName:     strings.TrimSpace(m[1]),
				ItemQuantity: qty,
				ItemRate:     rate,
				ItemAmount:   amount,
			}, true
		},
	},
}

// Ordered subtotal patterns over the whole page text; each captures exactly
// one numeric group. First match appends the synthetic Subtotal item.
var subtotalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)category total\s+.+?(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`),
	regexp.MustCompile(`(?i)subtotal\s*:?\s*(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`),
	regexp.MustCompile(`(?i)total amount\s*:?\s*(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`),
}

// parseLines applies the ordered line patterns to every non-trivial line.
// A line whose numbers fail coercion is skipped, never fatal.
func parseLines(text string) []extract.BillItem {
	var items []extract.BillItem
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < minLineLength {
			continue
		}
		for _, p := range linePatterns {
			m := p.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if item, ok := p.parse(m); ok {
				items = append(items, item)
			}
			break
		}
	}
	return items
}

// findSubtotal scans the full page text for a subtotal-like line and returns
// the synthetic item (quantity and rate fixed at zero).
func findSubtotal(text string) (extract.BillItem, bool) {
	for _, re := range subtotalPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		amount, ok := parseAmount(m[1])
		if !ok {
			continue
		}
		return extract.BillItem{
			ItemName:     constants.SubtotalItemName,
			ItemQuantity: 0.0,
			ItemRate:     0.0,
			ItemAmount:   amount,
		}, true
	}
	return extract.BillItem{}, false
}

func parseAmount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
