// Package vision implements the hosted-model extraction strategy: one
// multimodal chat/completions call per page image.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hackrx/bill-extractor/constants"
	"github.com/hackrx/bill-extractor/internal/common"
	"github.com/hackrx/bill-extractor/internal/extract"
)

// pageReply is the JSON object the prompt demands from the model.
type pageReply struct {
	PageType  string            `json:"page_type"`
	BillItems []json.RawMessage `json:"bill_items"`
}

// ExtractPage implements extract.PageExtractor. A request or parse failure
// degrades to an Unknown page with no items; the error is returned so the
// caller can log it, but one page's failure never aborts its siblings.
func (c *Client) ExtractPage(ctx context.Context, img image.Image, pageNo int) (extract.PageResult, error) {
	rid := uuid.New().String()
	start := time.Now()

	dataURL, err := c.encodeDataURL(img)
	if err != nil {
		return extract.DegradedPage(pageNo), fmt.Errorf("page %d: %w: %w", pageNo, common.ErrPageExtraction, err)
	}

	c.logger.Info("vision.page.start",
		"req_id", rid,
		"page_no", pageNo,
		"model", c.cfg.Model,
		"payload_bytes", len(dataURL),
	)

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"max_tokens":  c.cfg.MaxTokens,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": buildPrompt(pageNo)},
					{"type": "image_url", "image_url": map[string]any{"url": dataURL}},
				},
			},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.logger.Error("vision.page.http_error",
			"req_id", rid, "page_no", pageNo, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return extract.DegradedPage(pageNo), fmt.Errorf("page %d: %w: %w", pageNo, common.ErrPageExtraction, err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.logger.Error("vision.page.decode_error", "req_id", rid, "page_no", pageNo, "error", err, "raw_bytes", len(raw))
		return extract.DegradedPage(pageNo), fmt.Errorf("page %d: %w: decode completion: %w", pageNo, common.ErrPageExtraction, err)
	}
	if len(cc.Choices) == 0 {
		c.logger.Error("vision.page.no_choices", "req_id", rid, "page_no", pageNo)
		return extract.DegradedPage(pageNo), fmt.Errorf("page %d: %w: no choices in completion", pageNo, common.ErrPageExtraction)
	}

	result, err := c.parseContent(cc.Choices[0].Message.Content, pageNo, rid)
	if err != nil {
		return extract.DegradedPage(pageNo), fmt.Errorf("page %d: %w: %w", pageNo, common.ErrPageExtraction, err)
	}

	c.logger.Info("vision.page.ok",
		"req_id", rid,
		"page_no", pageNo,
		"page_type", string(result.PageType),
		"items", len(result.Items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// parseContent recovers the JSON object from the model reply and coerces it
// into a PageResult. Items that fail coercion are dropped one by one, not
// the whole page.
func (c *Client) parseContent(content string, pageNo int, rid string) (extract.PageResult, error) {
	jsonText, err := RecoverJSONObject(content)
	if err != nil {
		return extract.PageResult{}, err
	}

	if err := extract.ValidateJSONAgainstSchema(extract.BuildPageJSONSchema(), []byte(jsonText)); err != nil {
		// Schema rejection is logged but not fatal: per-item coercion below
		// still salvages whatever rows are well-formed.
		c.logger.Warn("vision.page.schema_mismatch", "req_id", rid, "page_no", pageNo, "error", err)
	}

	var reply pageReply
	if err := json.Unmarshal([]byte(jsonText), &reply); err != nil {
		return extract.PageResult{}, fmt.Errorf("unmarshal page object: %w", err)
	}

	items := make([]extract.BillItem, 0, len(reply.BillItems))
	for i, rawItem := range reply.BillItems {
		var item extract.BillItem
		if err := json.Unmarshal(rawItem, &item); err != nil {
			c.logger.Warn("vision.item.dropped",
				"req_id", rid, "page_no", pageNo, "index", i,
				"error", fmt.Errorf("%w: %w", common.ErrItemValidation, err),
			)
			continue
		}
		if strings.TrimSpace(item.ItemName) == "" {
			c.logger.Warn("vision.item.dropped",
				"req_id", rid, "page_no", pageNo, "index", i,
				"error", fmt.Errorf("%w: empty item_name", common.ErrItemValidation),
			)
			continue
		}
		items = append(items, item)
	}

	return extract.PageResult{
		PageNo:   pageNo,
		PageType: normalizePageType(reply.PageType),
		Items:    items,
	}, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion http error: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("vision.body_close_error", "error", cerr)
		}
	}()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("completion status %d: %s", resp.StatusCode, truncate(string(raw), 512))
	}
	return raw, nil
}

// encodeDataURL JPEG-encodes the page and wraps it as a base64 data URL.
func (c *Client) encodeDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: c.cfg.JPEGQuality}); err != nil {
		return "", fmt.Errorf("encode page jpeg: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func buildPrompt(pageNo int) string {
	return strings.Join([]string{
		fmt.Sprintf("You are an invoice/bill parser. Extract all item rows for page %d.", pageNo),
		"Return a valid JSON object of the form:",
		`{"page_type": "Bill Detail | Final Bill | Pharmacy | Unknown", "bill_items": [{"item_name": "...", "item_amount": 0.0, "item_rate": 0.0, "item_quantity": 0.0}]}`,
		"No duplicates. Default quantity = 1.0. Ignore dates/IDs.",
		"Do not include any extra text, only JSON.",
	}, "\n")
}

// normalizePageType maps free-form model output onto the known enum,
// defaulting to Unknown.
func normalizePageType(s string) constants.PageType {
	switch constants.PageType(strings.TrimSpace(s)) {
	case constants.PageTypeBillDetail:
		return constants.PageTypeBillDetail
	case constants.PageTypeFinalBill:
		return constants.PageTypeFinalBill
	case constants.PageTypePharmacy:
		return constants.PageTypePharmacy
	default:
		return constants.PageTypeUnknown
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
