// Package colorutil provides the overlay palette and hex color helpers.
package colorutil

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Overlay palette.
var (
	Black     = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red       = color.RGBA{R: 0xef, G: 0x44, B: 0x44, A: 255} // in-progress shapes, default ink
	Blue      = color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 255} // committed measurements
	DarkBlue  = color.RGBA{R: 0x1e, G: 0x40, B: 0xaf, A: 255} // label outline
	Green     = color.RGBA{R: 0x22, G: 0xc5, B: 0x5e, A: 255}
	Yellow    = color.RGBA{R: 0xea, G: 0xb3, B: 0x08, A: 255}
	Purple    = color.RGBA{R: 0xa8, G: 0x55, B: 0xf7, A: 255}
)

// NoteFill is the translucent white behind sticky notes.
var NoteFill = color.NRGBA{R: 255, G: 255, B: 255, A: 204}

// Swatches lists the quick-pick ink colors offered by the annotation toolbar.
var Swatches = []color.RGBA{Red, Blue, Green, Yellow, Purple, Black, White}

// WithAlpha returns c with its alpha replaced, as a non-premultiplied color.
func WithAlpha(c color.RGBA, alpha float64) color.NRGBA {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(alpha*255 + 0.5)}
}

// ParseHex parses "#rrggbb" or "#rgb" into an opaque color.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// Hex formats c as "#rrggbb", ignoring alpha.
func Hex(c color.Color) string {
	r, g, b, a := c.RGBA()
	if a > 0 && a < 0xffff {
		r, g, b = r*0xffff/a, g*0xffff/a, b*0xffff/a
	}
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// ToRGBA converts any color to an opaque color.RGBA.
func ToRGBA(c color.Color) color.RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return color.RGBA{R: n.R, G: n.G, B: n.B, A: 255}
}
