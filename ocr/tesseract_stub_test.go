//go:build !ocr

package ocr

import (
	"context"
	"errors"
	"testing"
)

func TestStubNew(t *testing.T) {
	client, err := New()
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("expected ErrOCRNotEnabled, got %v", err)
	}
	if client != nil {
		t.Error("expected nil client")
	}
}

func TestStubMethods(t *testing.T) {
	var client *Client

	if err := client.Close(); err != nil {
		t.Errorf("Close on nil stub returned %v", err)
	}
	if _, err := client.RecognizeImage([]byte{1}); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("RecognizeImage: %v", err)
	}
	if err := client.SetLanguage("kor"); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("SetLanguage: %v", err)
	}
	if err := client.SetPageSegMode(PSM_AUTO); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("SetPageSegMode: %v", err)
	}
	if _, err := client.Recognize(context.Background(), createTestImage(5, 5), "", nil); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("Recognize: %v", err)
	}
}
