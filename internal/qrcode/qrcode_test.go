package qrcode

import (
	"bytes"
	"encoding/base64"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/boombuler/barcode/qr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeProducesPNGOfConfiguredSize(t *testing.T) {
	for _, size := range []int{300, 512} {
		data, err := Encode("https://kasir.example/menu", Options{Size: size})
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, size, img.Bounds().Dx())
		assert.Equal(t, size, img.Bounds().Dy())
	}
}

func TestRenderHonoursColoursAndQuietZone(t *testing.T) {
	img, err := Render("hello", Options{Size: 300, Margin: 4, Dark: "#112233", Light: "#FFEEDD"})
	require.NoError(t, err)

	light := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xee, B: 0xdd, A: 0xff}, light)

	found := false
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y && !found; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if color.RGBAModel.Convert(img.At(x, y)).(color.RGBA) == (color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xff}) {
				found = true
				break
			}
		}
	}
	assert.True(t, found, "dark modules use the configured colour")
}

func TestRenderZeroMarginHasNoQuietZone(t *testing.T) {
	code, err := qr.Encode("hello", qr.M, qr.Auto)
	require.NoError(t, err)
	modules := code.Bounds().Dx()

	img, err := Render("hello", Options{})
	require.NoError(t, err)

	scale := DefaultSize / modules
	offset := (DefaultSize - scale*modules) / 2
	corner := color.RGBAModel.Convert(img.At(offset, offset)).(color.RGBA)
	assert.Equal(t, color.RGBA{A: 0xff}, corner, "finder pattern starts at the image edge")

	img, err = Render("hello", DefaultOptions())
	require.NoError(t, err)
	corner = color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, corner)
}

func TestEncodeErrors(t *testing.T) {
	_, err := Encode("", DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyData)

	_, err = Encode("x", Options{Dark: "#12"})
	assert.ErrorIs(t, err, ErrInvalidColor)

	_, err = Encode("x", Options{Size: 10})
	assert.ErrorIs(t, err, ErrTooSmall)

	_, err = Encode("x", Options{Size: MaxSize + 1})
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = Encode(strings.Repeat("a", 5000), DefaultOptions())
	assert.Error(t, err, "data beyond QR capacity")
}

func TestDataURI(t *testing.T) {
	uri := DataURI([]byte{0x89, 'P', 'N', 'G'})
	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, raw)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#fff")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, c)

	c, err = ParseColor("00000080")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x80), c.A)

	_, err = ParseColor("#zzzzzz")
	assert.ErrorIs(t, err, ErrInvalidColor)
}
