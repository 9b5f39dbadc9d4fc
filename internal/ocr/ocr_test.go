package ocr

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	r := Static("Wrench x2\nMedkit")
	got, err := r.Recognize(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Wrench x2\nMedkit", got)
}

func TestRecognizerFunc(t *testing.T) {
	boom := errors.New("engine down")
	r := RecognizerFunc(func(ctx context.Context, img image.Image) (string, error) {
		return "", boom
	})
	_, err := r.Recognize(context.Background(), image.NewNRGBA(image.Rect(0, 0, 1, 1)))
	assert.ErrorIs(t, err, boom)
}
