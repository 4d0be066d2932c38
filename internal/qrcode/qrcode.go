// Package qrcode renders QR codes as PNG images with a configurable size,
// quiet zone and colours.
package qrcode

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
	"strings"

	"github.com/boombuler/barcode/qr"
)

const (
	DefaultSize   = 300
	DefaultMargin = 2
	DefaultDark   = "#000000"
	DefaultLight  = "#FFFFFF"

	// MaxSize caps the edge length; images are allocated as Size² RGBA pixels.
	MaxSize = 2048
)

var (
	ErrEmptyData    = errors.New("qrcode: data is empty")
	ErrInvalidColor = errors.New("qrcode: invalid colour")
	ErrTooSmall     = errors.New("qrcode: image size too small for data")
	ErrTooLarge     = errors.New("qrcode: image size too large")
)

// Options controls rendering. A zero Size and empty colours fall back to the
// defaults; Margin is used as given, so the zero value draws no quiet zone.
type Options struct {
	Size   int    // edge length of the square image in pixels, at most MaxSize
	Margin int    // quiet zone in modules; zero or negative means none
	Dark   string // #RGB or #RRGGBB
	Light  string
}

func DefaultOptions() Options {
	return Options{Size: DefaultSize, Margin: DefaultMargin, Dark: DefaultDark, Light: DefaultLight}
}

func (o Options) withDefaults() Options {
	if o.Size <= 0 {
		o.Size = DefaultSize
	}
	if o.Margin < 0 {
		o.Margin = 0
	}
	if o.Dark == "" {
		o.Dark = DefaultDark
	}
	if o.Light == "" {
		o.Light = DefaultLight
	}
	return o
}

// Encode renders data as a QR code (error correction level M) and returns PNG bytes.
func Encode(data string, opts Options) ([]byte, error) {
	img, err := Render(data, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("qrcode: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Render draws the QR code centred in an opts.Size square.
func Render(data string, opts Options) (image.Image, error) {
	if data == "" {
		return nil, ErrEmptyData
	}
	opts = opts.withDefaults()
	if opts.Size > MaxSize {
		return nil, fmt.Errorf("%w: %dpx exceeds %dpx", ErrTooLarge, opts.Size, MaxSize)
	}

	dark, err := ParseColor(opts.Dark)
	if err != nil {
		return nil, err
	}
	light, err := ParseColor(opts.Light)
	if err != nil {
		return nil, err
	}

	code, err := qr.Encode(data, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("qrcode: %w", err)
	}

	modules := code.Bounds().Dx()
	total := modules + 2*opts.Margin
	scale := opts.Size / total
	if scale < 1 {
		return nil, fmt.Errorf("%w: %d modules in %dpx", ErrTooSmall, total, opts.Size)
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Size, opts.Size))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: light}, image.Point{}, draw.Src)

	offset := (opts.Size-scale*total)/2 + opts.Margin*scale
	darkFill := &image.Uniform{C: dark}
	bounds := code.Bounds()
	for y := 0; y < modules; y++ {
		for x := 0; x < modules; x++ {
			if !isDark(code.At(bounds.Min.X+x, bounds.Min.Y+y)) {
				continue
			}
			cell := image.Rect(offset+x*scale, offset+y*scale, offset+(x+1)*scale, offset+(y+1)*scale)
			draw.Draw(img, cell, darkFill, image.Point{}, draw.Src)
		}
	}
	return img, nil
}

func isDark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r+g+b < 3*0x8000
}

// DataURI wraps PNG bytes for direct use in an <img src>.
func DataURI(pngBytes []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}

// ParseColor accepts #RGB, #RRGGBB and #RRGGBBAA.
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
