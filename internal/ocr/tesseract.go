//go:build cgo

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract recognizes text through the system Tesseract installation via
// gosseract. A fresh client is created per call; gosseract clients are not
// safe for concurrent reuse.
type Tesseract struct {
	// Language is the Tesseract language code, "eng" when empty.
	Language string

	// Whitelist restricts recognition to the given characters when set.
	// Inventory scans use letters, digits and the count punctuation.
	Whitelist string
}

// NewTesseract returns a Tesseract recognizer with inventory-scan defaults.
func NewTesseract() *Tesseract {
	return &Tesseract{
		Language:  "eng",
		Whitelist: "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789 x():",
	}
}

// Recognize runs OCR over the image and returns the raw multi-line text.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) (string, error) {
	if img == nil {
		return "", fmt.Errorf("nil image")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode frame for OCR: %w", err)
	}

	client := gosseract.NewClient()
	defer func() { _ = client.Close() }()

	lang := t.Language
	if lang == "" {
		lang = "eng"
	}
	if err := client.SetLanguage(lang); err != nil {
		return "", fmt.Errorf("failed to set OCR language %q: %w", lang, err)
	}
	if t.Whitelist != "" {
		if err := client.SetWhitelist(t.Whitelist); err != nil {
			return "", fmt.Errorf("failed to set OCR whitelist: %w", err)
		}
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to load frame into OCR engine: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("text recognition failed: %w", err)
	}
	return text, nil
}
