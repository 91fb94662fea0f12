package model

import (
	"fmt"
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ColorOrder selects how a color's first three channels are laid out
// before a driver encodes them.
type ColorOrder uint8

const (
	// RGB keeps channels as they are. It is the default.
	RGB ColorOrder = iota
	// GRB swaps the first two channels.
	GRB
)

func (o ColorOrder) String() string {
	switch o {
	case RGB:
		return "RGB"
	case GRB:
		return "GRB"
	}
	return fmt.Sprintf("ColorOrder(%d)", uint8(o))
}

// ParseColorOrder accepts "RGB" or "GRB" in any case.
func ParseColorOrder(s string) (ColorOrder, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "RGB", "":
		return RGB, nil
	case "GRB":
		return GRB, nil
	}
	return RGB, fmt.Errorf("unknown color order %q", s)
}

func (o *ColorOrder) UnmarshalText(b []byte) error {
	v, err := ParseColorOrder(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

func (o ColorOrder) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o ColorOrder) permute(a, b, c byte) (byte, byte, byte) {
	if o == GRB {
		return b, a, c
	}
	return a, b, c
}

// RGB8 is a 3-channel, 8 bit per channel color.
type RGB8 struct {
	R, G, B uint8
}

// Channels returns the raw channel bytes in the given order.
func (c RGB8) Channels(o ColorOrder) [3]byte {
	a, b, d := o.permute(c.R, c.G, c.B)
	return [3]byte{a, b, d}
}

func (c RGB8) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}.RGBA()
}

// RGBW8 is an RGB8 plus a white channel. White is never reordered.
type RGBW8 struct {
	R, G, B, W uint8
}

func (c RGBW8) Channels(o ColorOrder) [4]byte {
	a, b, d := o.permute(c.R, c.G, c.B)
	return [4]byte{a, b, d, c.W}
}

// RGBA reports the chromatic channels only.
func (c RGBW8) RGBA() (r, g, b, a uint32) {
	return RGB8{R: c.R, G: c.G, B: c.B}.RGBA()
}

// RGB8FromColor takes the high byte of each non-premultiplied channel.
func RGB8FromColor(c color.Color) RGB8 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB8{R: n.R, G: n.G, B: n.B}
}

func RGBW8FromColor(c color.Color) RGBW8 {
	n := RGB8FromColor(c)
	return RGBW8{R: n.R, G: n.G, B: n.B}
}

// RGB8Model converts any color to RGB8.
var RGB8Model = color.ModelFunc(func(c color.Color) color.Color {
	return RGB8FromColor(c)
})

var RGBW8Model = color.ModelFunc(func(c color.Color) color.Color {
	if w, ok := c.(RGBW8); ok {
		return w
	}
	return RGBW8FromColor(c)
})

// Hex parses "rrggbb" or "rgb", with or without a leading '#'.
func Hex(s string) (RGB8, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 3 {
		return RGB8{}, fmt.Errorf("color %q: want 3 or 6 hex digits", s)
	}
	c, err := colorful.Hex("#" + s)
	if err != nil {
		return RGB8{}, fmt.Errorf("color %q: %w", s, err)
	}
	r, g, b := c.Clamped().RGB255()
	return RGB8{R: r, G: g, B: b}, nil
}
