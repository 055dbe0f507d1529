package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"recipe-app/internal/apperr"

	"github.com/stretchr/testify/require"
)

func sampleImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	return img
}

func TestDetectImage(t *testing.T) {
	var pngBuf, jpgBuf, gifBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, sampleImage()))
	require.NoError(t, jpeg.Encode(&jpgBuf, sampleImage(), nil))
	require.NoError(t, gif.Encode(&gifBuf, sampleImage(), nil))

	for want, data := range map[string][]byte{"png": pngBuf.Bytes(), "jpg": jpgBuf.Bytes(), "gif": gifBuf.Bytes()} {
		ext, err := DetectImage(data)
		require.NoError(t, err, want)
		require.Equal(t, want, ext)
	}
}

func TestDetectImageRejects(t *testing.T) {
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, sampleImage()))
	truncated := pngBuf.Bytes()[:20]

	cases := map[string][]byte{
		"empty":     nil,
		"text":      []byte("notimage"),
		"truncated": truncated,
		"too large": make([]byte, MaxImageSize+1),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DetectImage(data)
			var ae *apperr.Error
			require.ErrorAs(t, err, &ae)
			require.Equal(t, apperr.CodeValidation, ae.Code)
			require.Equal(t, "image", ae.Field)
		})
	}
}
