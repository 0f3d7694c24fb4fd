//go:build ocr

package ocr

import (
	"context"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps Tesseract for OCR operations.
// A Client serializes calls; Tesseract handles are not safe for concurrent use.
type Client struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// New creates a new OCR client.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	return &Client{client: gosseract.NewClient()}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		err := c.client.Close()
		c.client = nil
		return err
	}
	return nil
}

// RecognizeImage performs OCR on image data (PNG, TIFF, JPEG, etc.).
// Returns the recognized text with leading/trailing whitespace trimmed.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recognizeLocked(imageData)
}

func (c *Client) recognizeLocked(imageData []byte) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("ocr client closed")
	}
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// SetLanguage sets the language(s) for OCR recognition.
// Multiple languages can be specified as a "+" separated string (e.g., "kor+eng").
func (c *Client) SetLanguage(lang string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return fmt.Errorf("ocr client closed")
	}
	return c.client.SetLanguage(strings.Split(lang, "+")...)
}

// SetPageSegMode sets the page segmentation mode.
// This affects how Tesseract analyzes the page layout.
func (c *Client) SetPageSegMode(mode PageSegMode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return fmt.Errorf("ocr client closed")
	}
	return c.client.SetPageSegMode(gosseract.PageSegMode(mode))
}

// Recognize implements Engine. The image is encoded as PNG and recognized
// with the given language, or DefaultLanguage if lang is empty.
func (c *Client) Recognize(ctx context.Context, img image.Image, lang string, progress ProgressFunc) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if lang == "" {
		lang = DefaultLanguage
	}

	progress.report("encoding image", 0)
	data, err := EncodePNG(img)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return "", fmt.Errorf("ocr client closed")
	}
	if err := c.client.SetLanguage(strings.Split(lang, "+")...); err != nil {
		return "", fmt.Errorf("set language %q: %w", lang, err)
	}

	progress.report("recognizing text", 0.1)
	text, err := c.recognizeLocked(data)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	progress.report("recognizing text", 1)

	return text, nil
}
