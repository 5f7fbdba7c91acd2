package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hackrx/bill-extractor/internal/common"
)

func TestFetchDetectsPDFByExtension(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Deliberately wrong content type: the path extension must win.
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte("%PDF-1.4 stub"))
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, nil)
	body, isPDF, err := f.Fetch(context.Background(), srv.URL+"/bills/hospital.pdf?sig=abc")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !isPDF {
		t.Error("isPDF = false, want true for a .pdf path")
	}
	if len(body) == 0 {
		t.Error("body is empty")
	}
}

func TestFetchDetectsPDFByContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 stub"))
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, nil)
	_, isPDF, err := f.Fetch(context.Background(), srv.URL+"/bills/no-extension")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !isPDF {
		t.Error("isPDF = false, want true for application/pdf content type")
	}
}

func TestFetchImageIsNotPDF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte{0xFF, 0xD8, 0xFF})
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, nil)
	_, isPDF, err := f.Fetch(context.Background(), srv.URL+"/scan.jpg")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if isPDF {
		t.Error("isPDF = true for a jpeg")
	}
}

func TestFetchNon2xxStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, nil)
	_, _, err := f.Fetch(context.Background(), srv.URL+"/missing.pdf")
	if err == nil {
		t.Fatal("expected an error for 404")
	}
	if !errors.Is(err, common.ErrFetch) {
		t.Errorf("error %v should wrap ErrFetch", err)
	}
}

func TestFetchRejectsBadURLs(t *testing.T) {
	f := NewFetcher(5*time.Second, nil)

	tests := []struct {
		name string
		url  string
	}{
		{name: "relative path", url: "/bills/doc.pdf"},
		{name: "missing scheme", url: "example.com/doc.pdf"},
		{name: "wrong scheme", url: "ftp://example.com/doc.pdf"},
		{name: "empty", url: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.Fetch(context.Background(), tt.url)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.Is(err, common.ErrInvalidInput) {
				t.Errorf("error %v should wrap ErrInvalidInput", err)
			}
		})
	}
}

func TestFetchUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	f := NewFetcher(2*time.Second, nil)
	_, _, err := f.Fetch(context.Background(), url+"/doc.pdf")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, common.ErrFetch) {
		t.Errorf("error %v should wrap ErrFetch", err)
	}
}
