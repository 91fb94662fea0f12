package encoding

import (
	"fmt"
	"strings"

	"github.com/coreman2200/ledwire/model"
)

// Protocol is the wire format of one chip family for color type C.
//
// Size reports the bytes a frame of n LEDs needs, reset region included.
// Encode fills dst, which holds exactly Size(len(colors)) bytes, and splits
// it into the part sent first and the reset region sent after it.
type Protocol[C any] interface {
	Name() string
	Size(n int) int
	Encode(dst []byte, colors []C, order model.ColorOrder) (head, tail []byte)
}

type APA102 struct{}

func (APA102) Name() string   { return "apa102" }
func (APA102) Size(n int) int { return APA102FrameSize(n) }

func (APA102) Encode(dst []byte, colors []model.RGB8, order model.ColorOrder) ([]byte, []byte) {
	return dst[:EncodeAPA102(dst, colors, order)], nil
}

type LPD8806 struct{}

func (LPD8806) Name() string   { return "lpd8806" }
func (LPD8806) Size(n int) int { return LPD8806FrameSize(n) }

func (LPD8806) Encode(dst []byte, colors []model.RGB8, order model.ColorOrder) ([]byte, []byte) {
	return dst[:EncodeLPD8806(dst, colors, order)], nil
}

// WS2812 sends 12 pulse bytes per LED followed by Reset zero bytes.
type WS2812 struct {
	Reset int
}

func (WS2812) Name() string     { return "ws2812" }
func (p WS2812) Size(n int) int { return n*RGBBytesPerLED + p.Reset }

func (p WS2812) Encode(dst []byte, colors []model.RGB8, order model.ColorOrder) ([]byte, []byte) {
	n := EncodeRGB(dst, colors, order)
	return split(dst, n, p.Reset)
}

// SK6812 sends 16 pulse bytes per RGBW LED followed by Reset zero bytes.
type SK6812 struct {
	Reset int
}

func (SK6812) Name() string     { return "sk6812" }
func (p SK6812) Size(n int) int { return n*RGBWBytesPerLED + p.Reset }

func (p SK6812) Encode(dst []byte, colors []model.RGBW8, order model.ColorOrder) ([]byte, []byte) {
	n := EncodeRGBW(dst, colors, order)
	return split(dst, n, p.Reset)
}

func split(dst []byte, n, reset int) ([]byte, []byte) {
	tail := dst[n : n+reset]
	clear(tail)
	return dst[:n], tail
}

// Chips lists the chip names SizeFor understands.
var Chips = []string{"apa102", "lpd8806", "ws2812", "sk6812"}

// SizeFor returns the buffer size a chip needs for n LEDs. reset is the
// reset region in bytes and is ignored by clocked chips.
func SizeFor(chip string, n, reset int) (int, error) {
	switch strings.ToLower(chip) {
	case "apa102":
		return APA102{}.Size(n), nil
	case "lpd8806":
		return LPD8806{}.Size(n), nil
	case "ws2812":
		return WS2812{Reset: reset}.Size(n), nil
	case "sk6812":
		return SK6812{Reset: reset}.Size(n), nil
	}
	return 0, fmt.Errorf("unknown chip %q", chip)
}

// Clockless reports whether the chip needs a reset region.
func Clockless(chip string) bool {
	switch strings.ToLower(chip) {
	case "ws2812", "sk6812":
		return true
	}
	return false
}
