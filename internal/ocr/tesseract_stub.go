//go:build !cgo

package ocr

import (
	"context"
	"errors"
	"image"
)

// ErrUnavailable indicates the binary was built without the Tesseract
// bindings (CGO disabled).
var ErrUnavailable = errors.New("tesseract OCR unavailable: built without cgo")

// Tesseract is a placeholder when the gosseract bindings are compiled out.
type Tesseract struct {
	Language  string
	Whitelist string
}

// NewTesseract returns the placeholder recognizer.
func NewTesseract() *Tesseract { return &Tesseract{} }

// Recognize always fails in non-cgo builds.
func (t *Tesseract) Recognize(context.Context, image.Image) (string, error) {
	return "", ErrUnavailable
}
