package encoding

import "github.com/coreman2200/ledwire/model"

// Patterns maps a 2-bit group (MSB first) to the SPI byte whose bit pattern
// reproduces two NRZ pulses of the right width.
var Patterns = [4]byte{0b1000_1000, 0b1000_1110, 0b1110_1000, 0b1110_1110}

const (
	// BytesPerChannel is the pulse-expanded size of one color byte.
	BytesPerChannel = 4
	RGBBytesPerLED  = 3 * BytesPerChannel
	RGBWBytesPerLED = 4 * BytesPerChannel
)

// ExpandByte writes the 4 pulse bytes for b into dst[:4].
func ExpandByte(dst []byte, b byte) {
	_ = dst[3]
	for i := 0; i < BytesPerChannel; i++ {
		dst[i] = Patterns[(b&0b1100_0000)>>6]
		b <<= 2
	}
}

// EncodeRGB pulse-expands colors into dst and returns the bytes written,
// 12 per LED.
func EncodeRGB(dst []byte, colors []model.RGB8, order model.ColorOrder) int {
	off := 0
	for _, c := range colors {
		for _, v := range c.Channels(order) {
			ExpandByte(dst[off:], v)
			off += BytesPerChannel
		}
	}
	return off
}

// EncodeRGBW is EncodeRGB for 4-channel colors, 16 bytes per LED.
func EncodeRGBW(dst []byte, colors []model.RGBW8, order model.ColorOrder) int {
	off := 0
	for _, c := range colors {
		for _, v := range c.Channels(order) {
			ExpandByte(dst[off:], v)
			off += BytesPerChannel
		}
	}
	return off
}
