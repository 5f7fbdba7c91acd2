package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hackrx/bill-extractor/internal/assemble"
	"github.com/hackrx/bill-extractor/internal/common"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeProcessor struct {
	resp   assemble.Response
	err    error
	gotURL string
}

func (p *fakeProcessor) Process(_ context.Context, url string) (assemble.Response, error) {
	p.gotURL = url
	return p.resp, p.err
}

func doExtract(t *testing.T, proc *fakeProcessor, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := New(proc, nil).Router()
	req := httptest.NewRequest(http.MethodPost, "/extract-bill-data", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleExtractSuccess(t *testing.T) {
	proc := &fakeProcessor{resp: assemble.Response{
		IsSuccess: true,
		Data: assemble.Data{
			PagewiseLineItems: []assemble.PageData{
				{PageNo: "1", PageType: "Pharmacy", BillItems: []assemble.BillItem{
					{ItemName: "Paracetamol", ItemAmount: 20, ItemRate: 10, ItemQuantity: 2},
				}},
			},
			TotalItemCount: 1,
		},
	}}

	w := doExtract(t, proc, `{"document": "https://example.com/bill.pdf"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if proc.gotURL != "https://example.com/bill.pdf" {
		t.Errorf("processor got URL %q", proc.gotURL)
	}

	var got assemble.Response
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !got.IsSuccess || got.Data.TotalItemCount != 1 {
		t.Errorf("response = %+v", got)
	}
	if got.Data.PagewiseLineItems[0].PageNo != "1" {
		t.Errorf("page_no = %q, want string \"1\"", got.Data.PagewiseLineItems[0].PageNo)
	}
}

func TestHandleExtractRejectsBadBody(t *testing.T) {
	w := doExtract(t, &fakeProcessor{}, `{"document": 42`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var got errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Error.Kind != "invalid_request" {
		t.Errorf("kind = %q, want invalid_request", got.Error.Kind)
	}
}

func TestHandleExtractErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{
			name:       "invalid url",
			err:        common.NewAppError("INVALID_URL", "bad url", common.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
			wantKind:   "invalid_request",
		},
		{
			name:       "fetch failure",
			err:        common.FetchError("download document", errors.New("timeout")),
			wantStatus: http.StatusBadRequest,
			wantKind:   "fetch_error",
		},
		{
			name:       "decode failure",
			err:        common.DecodeError("open pdf", errors.New("bad header")),
			wantStatus: http.StatusBadRequest,
			wantKind:   "decode_error",
		},
		{
			name:       "unclassified",
			err:        errors.New("something broke"),
			wantStatus: http.StatusInternalServerError,
			wantKind:   "internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doExtract(t, &fakeProcessor{err: tt.err}, `{"document": "https://example.com/bill.pdf"}`)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var got errorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if got.Error.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", got.Error.Kind, tt.wantKind)
			}
		})
	}
}

func TestHealthRoute(t *testing.T) {
	router := New(&fakeProcessor{}, nil).Router()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}
