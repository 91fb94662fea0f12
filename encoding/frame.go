package encoding

import "github.com/coreman2200/ledwire/model"

// Clocked chips latch data half a clock late per device in the chain, so
// the end frame grows with the strip length.
const (
	StartFrameSize = 4

	apa102LEDFrameSize  = 4
	apa102Brightness    = 0b1110_0000 | 0b0001_1111
	lpd8806LEDFrameSize = 3
)

// APA102FrameSize is 4 + 4n + ceil(n/16).
func APA102FrameSize(n int) int {
	return StartFrameSize + n*apa102LEDFrameSize + (n+15)/16
}

// LPD8806FrameSize is 4 + 3n + ceil(n/32).
func LPD8806FrameSize(n int) int {
	return StartFrameSize + n*lpd8806LEDFrameSize + (n+31)/32
}

// EncodeAPA102 writes a full APA102 frame with global brightness at max.
// Each LED goes out as [0xFF, c2, c1, c0] of the ordered channels, which is
// [flag, B, G, R] for RGB order.
func EncodeAPA102(dst []byte, colors []model.RGB8, order model.ColorOrder) int {
	size := APA102FrameSize(len(colors))
	dst = dst[:size]
	clear(dst[:StartFrameSize])
	off := StartFrameSize
	for _, c := range colors {
		ch := c.Channels(order)
		dst[off] = apa102Brightness
		dst[off+1] = ch[2]
		dst[off+2] = ch[1]
		dst[off+3] = ch[0]
		off += apa102LEDFrameSize
	}
	clear(dst[off:])
	return size
}

// EncodeLPD8806 writes a full LPD8806 frame. Channels are 7 bit with the
// MSB set, sent as G, R, B where R and G are the first two ordered channels.
func EncodeLPD8806(dst []byte, colors []model.RGB8, order model.ColorOrder) int {
	size := LPD8806FrameSize(len(colors))
	dst = dst[:size]
	clear(dst[:StartFrameSize])
	off := StartFrameSize
	for _, c := range colors {
		ch := c.Channels(order)
		dst[off] = ch[1]>>1 | 0x80
		dst[off+1] = ch[0]>>1 | 0x80
		dst[off+2] = ch[2]>>1 | 0x80
		off += lpd8806LEDFrameSize
	}
	clear(dst[off:])
	return size
}
