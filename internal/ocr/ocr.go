// Package ocr defines the text-recognition boundary of the engine and a
// Tesseract-backed implementation of it. The engine itself treats the
// recognizer as a black box returning a raw multi-line text blob.
package ocr

import (
	"context"
	"image"
)

// Recognizer extracts raw text from a frame or a pre-cropped area of one.
// Implementations must honor context cancellation for long-running calls.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// RecognizerFunc adapts a plain function to the Recognizer interface.
type RecognizerFunc func(ctx context.Context, img image.Image) (string, error)

// Recognize calls the wrapped function.
func (f RecognizerFunc) Recognize(ctx context.Context, img image.Image) (string, error) {
	return f(ctx, img)
}

// Static returns a recognizer that always yields the given text. Used in
// tests and as a stand-in when no OCR engine is available.
func Static(text string) Recognizer {
	return RecognizerFunc(func(context.Context, image.Image) (string, error) {
		return text, nil
	})
}
