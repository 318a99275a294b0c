package upload

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 32), G: uint8(y * 32), A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestValidateImageAcceptsGenuinePNG(t *testing.T) {
	data := pngBytes(t)
	r := bytes.NewReader(data)

	require.NoError(t, ValidateImage(r, "avatar.png", int64(len(data))))

	// The reader must be rewound for the next consumer.
	pos, err := r.Seek(0, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pos)
}

func TestValidateImageRejectsUnsupportedExtension(t *testing.T) {
	data := pngBytes(t)
	err := ValidateImage(bytes.NewReader(data), "avatar.gif", int64(len(data)))
	assert.ErrorIs(t, err, ErrUnsupportedExtension)
}

func TestValidateImageRejectsOversizedFile(t *testing.T) {
	data := pngBytes(t)
	err := ValidateImage(bytes.NewReader(data), "avatar.png", MaxImageSize+1)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestValidateImageRejectsNonImageContent(t *testing.T) {
	data := []byte("definitely not an image, whatever the name says")
	err := ValidateImage(bytes.NewReader(data), "avatar.jpg", int64(len(data)))
	assert.ErrorIs(t, err, ErrNotAnImage)
}
