package imaging_test

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avotrade/internal/imaging"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{G: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessDownscalesWideImage(t *testing.T) {
	res, err := imaging.Process(bytes.NewReader(pngBytes(t, 2048, 512)))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", res.MIME)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Width)
	assert.Equal(t, 256, cfg.Height)
}

func TestProcessKeepsSmallImageSize(t *testing.T) {
	res, err := imaging.Process(bytes.NewReader(pngBytes(t, 40, 30)))
	require.NoError(t, err)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 30, cfg.Height)
}

func TestProcessRejectsNonImage(t *testing.T) {
	_, err := imaging.Process(strings.NewReader("GIF89a not really"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported image format")
}

func TestNormalizeDataURI(t *testing.T) {
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, 10, 10))
	require.True(t, imaging.IsDataURI(uri))

	out, err := imaging.NormalizeDataURI(uri)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "data:image/jpeg;base64,"))

	_, err = imaging.NormalizeDataURI("https://cdn.example.com/a.png")
	assert.ErrorIs(t, err, imaging.ErrNotDataURI)
	assert.False(t, imaging.IsDataURI("/images/a.jpg"))

	_, err = imaging.NormalizeDataURI("data:image/png;base64,@@@")
	assert.Error(t, err)
}
