package tesseract

import (
	"context"
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/hackrx/bill-extractor/constants"
	"github.com/hackrx/bill-extractor/internal/common"
)

// stubRunner replaces the tesseract binary with canned output.
type stubRunner struct {
	stdout string
	err    error

	gotName string
	gotArgs []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.gotName = name
	s.gotArgs = args
	if s.err != nil {
		return nil, []byte("boom"), s.err
	}
	return []byte(s.stdout), nil, nil
}

func testImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 8, 8))
}

func TestExtractPage(t *testing.T) {
	stub := &stubRunner{stdout: strings.Join([]string{
		"PHARMACY",
		"01 Paracetamol 05/05/2024 2.00 10.00 20.00 0.00",
		"Subtotal: 1,250.00",
	}, "\n")}

	e := NewExtractor(Config{}, nil)
	e.runner = stub

	res, err := e.ExtractPage(context.Background(), testImage(), 3)
	if err != nil {
		t.Fatalf("ExtractPage: %v", err)
	}
	if res.PageNo != 3 {
		t.Errorf("PageNo = %d, want 3", res.PageNo)
	}
	if res.PageType != constants.PageTypePharmacy {
		t.Errorf("PageType = %q, want Pharmacy", res.PageType)
	}
	if len(res.Items) != 2 {
		t.Fatalf("got %d items, want 2 (row + subtotal)", len(res.Items))
	}
	if res.Items[0].ItemName != "Paracetamol" {
		t.Errorf("Items[0].ItemName = %q", res.Items[0].ItemName)
	}
	if res.Items[1].ItemName != constants.SubtotalItemName || res.Items[1].ItemAmount != 1250.0 {
		t.Errorf("Items[1] = %+v, want Subtotal 1250.00", res.Items[1])
	}
}

func TestExtractPageBuildsTesseractArgs(t *testing.T) {
	stub := &stubRunner{stdout: ""}
	e := NewExtractor(Config{Tesseract: "/usr/bin/tesseract", Lang: "eng", PSM: 6, OEM: 3}, nil)
	e.runner = stub

	if _, err := e.ExtractPage(context.Background(), testImage(), 1); err != nil {
		t.Fatalf("ExtractPage: %v", err)
	}
	if stub.gotName != "/usr/bin/tesseract" {
		t.Errorf("binary = %q", stub.gotName)
	}
	joined := strings.Join(stub.gotArgs, " ")
	for _, want := range []string{"stdout", "-l eng", "--oem 3", "--psm 6"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args %q missing %q", joined, want)
		}
	}
}

func TestExtractPageDegradesOnRunnerFailure(t *testing.T) {
	stub := &stubRunner{err: errors.New("exec: not found")}
	e := NewExtractor(Config{}, nil)
	e.runner = stub

	res, err := e.ExtractPage(context.Background(), testImage(), 2)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, common.ErrPageExtraction) {
		t.Errorf("error %v should wrap ErrPageExtraction", err)
	}
	if res.PageNo != 2 || res.PageType != constants.PageTypeUnknown || len(res.Items) != 0 {
		t.Errorf("degraded result = %+v, want page 2 Unknown with no items", res)
	}
}

func TestDeduplicateFlag(t *testing.T) {
	if !NewExtractor(Config{}, nil).Deduplicate() {
		t.Error("OCR strategy must request deduplication")
	}
}
