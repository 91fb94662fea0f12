package encoding

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/ledwire/model"
)

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func rgbRamp(n int) []model.RGB8 {
	out := make([]model.RGB8, n)
	for i := range out {
		out[i] = model.RGB8{R: byte(i), G: byte(i * 3), B: byte(255 - i)}
	}
	return out
}

func TestFrameSizes(t *testing.T) {
	for n := 0; n <= 200; n++ {
		assert.Equal(t, 4+4*n+ceilDiv(n, 16), APA102FrameSize(n), "apa102 n=%d", n)
		assert.Equal(t, 4+3*n+ceilDiv(n, 32), LPD8806FrameSize(n), "lpd8806 n=%d", n)

		colors := rgbRamp(n)
		buf := make([]byte, APA102FrameSize(n))
		assert.Equal(t, len(buf), EncodeAPA102(buf, colors, model.RGB))
		buf = make([]byte, LPD8806FrameSize(n))
		assert.Equal(t, len(buf), EncodeLPD8806(buf, colors, model.GRB))
	}
}

func TestAPA102SingleLED(t *testing.T) {
	buf := bytes.Repeat([]byte{0xAA}, APA102FrameSize(1))
	EncodeAPA102(buf, []model.RGB8{{R: 0x10, G: 0x20, B: 0x30}}, model.RGB)
	assert.Equal(t, []byte{0, 0, 0, 0, 0xFF, 0x30, 0x20, 0x10, 0x00}, buf)
}

func TestAPA102ColorOrder(t *testing.T) {
	buf := make([]byte, APA102FrameSize(1))
	EncodeAPA102(buf, []model.RGB8{{R: 0x10, G: 0x20, B: 0x30}}, model.GRB)
	assert.Equal(t, []byte{0, 0, 0, 0, 0xFF, 0x30, 0x10, 0x20, 0x00}, buf)
}

func TestAPA102Empty(t *testing.T) {
	buf := make([]byte, APA102FrameSize(0))
	assert.Equal(t, 4, EncodeAPA102(buf, nil, model.RGB))
	assert.Equal(t, []byte{0, 0, 0, 0}, buf)
}

func TestLPD8806SingleLED(t *testing.T) {
	buf := bytes.Repeat([]byte{0xAA}, LPD8806FrameSize(1))
	EncodeLPD8806(buf, []model.RGB8{{R: 0xFF, G: 0x80, B: 0x01}}, model.RGB)
	assert.Equal(t, []byte{0, 0, 0, 0, 0xC0, 0xFF, 0x80, 0x00}, buf)
}

func TestLPD8806HighBitSet(t *testing.T) {
	colors := []model.RGB8{{}, {R: 0x01, G: 0x01, B: 0x01}, {R: 0x7F, G: 0xFE, B: 0x00}}
	colors = append(colors, rgbRamp(64)...)
	for _, order := range []model.ColorOrder{model.RGB, model.GRB} {
		buf := make([]byte, LPD8806FrameSize(len(colors)))
		EncodeLPD8806(buf, colors, order)
		for i, b := range buf[StartFrameSize : StartFrameSize+3*len(colors)] {
			assert.Equal(t, byte(0x80), b&0x80, "byte %d", i)
		}
		for _, b := range buf[StartFrameSize+3*len(colors):] {
			assert.Zero(t, b)
		}
	}
}

func TestExpandByte(t *testing.T) {
	tt := []struct {
		in   byte
		want []byte
	}{
		{0x00, []byte{0x88, 0x88, 0x88, 0x88}},
		{0xFF, []byte{0xEE, 0xEE, 0xEE, 0xEE}},
		{0b00_01_10_11, []byte{0x88, 0x8E, 0xE8, 0xEE}},
		{0x01, []byte{0x88, 0x88, 0x88, 0x8E}},
	}
	for _, tc := range tt {
		got := make([]byte, 4)
		ExpandByte(got, tc.in)
		assert.Equal(t, tc.want, got, "0x%02x", tc.in)
	}
}

func TestEncodeRGBLength(t *testing.T) {
	for _, n := range []int{0, 1, 2, 17, 100} {
		buf := make([]byte, 12*n)
		assert.Equal(t, 12*n, EncodeRGB(buf, rgbRamp(n), model.RGB))

		w := make([]model.RGBW8, n)
		buf = make([]byte, 16*n)
		assert.Equal(t, 16*n, EncodeRGBW(buf, w, model.GRB))
	}
}

func TestEncodeRGBSingleLED(t *testing.T) {
	buf := make([]byte, 12)
	EncodeRGB(buf, []model.RGB8{{R: 0x00, G: 0x00, B: 0xFF}}, model.RGB)
	for _, b := range buf[:8] {
		assert.Equal(t, byte(0b1000_1000), b)
	}
	for _, b := range buf[8:] {
		assert.Equal(t, byte(0b1110_1110), b)
	}
}

func TestEncodeRGBSwapsBeforeExpanding(t *testing.T) {
	buf := make([]byte, 12)
	EncodeRGB(buf, []model.RGB8{{R: 1, G: 2, B: 3}}, model.GRB)

	want := make([]byte, 4)
	ExpandByte(want, 2)
	assert.Equal(t, want, buf[0:4])
	ExpandByte(want, 1)
	assert.Equal(t, want, buf[4:8])
	ExpandByte(want, 3)
	assert.Equal(t, want, buf[8:12])
}

func TestEncodeRGBWWhiteLast(t *testing.T) {
	buf := make([]byte, 16)
	EncodeRGBW(buf, []model.RGBW8{{R: 1, G: 2, B: 3, W: 0xFF}}, model.GRB)
	assert.Equal(t, []byte{0xEE, 0xEE, 0xEE, 0xEE}, buf[12:])

	first := make([]byte, 4)
	ExpandByte(first, 2)
	assert.Equal(t, first, buf[:4])
}

func TestResetBytes(t *testing.T) {
	tt := []struct {
		name string
		freq physic.Frequency
		low  time.Duration
		want int
	}{
		{"ws2812 default", DefaultFrequency, WS2812ResetLow, 20},
		{"sk6812 default", DefaultFrequency, SK6812ResetLow, 32},
		{"1MHz 50us", physic.MegaHertz, 50 * time.Microsecond, 7},
		{"2.4MHz 300us", 2400 * physic.KiloHertz, 300 * time.Microsecond, 90},
		{"rounds up", 8 * physic.MegaHertz, 1500 * time.Nanosecond, 2},
		{"zero freq", 0, WS2812ResetLow, 0},
		{"zero low", DefaultFrequency, 0, 0},
		{"capped", DefaultFrequency, 10 * time.Second, MaxResetBytes},
		{"product overflows", physic.GigaHertz, time.Hour, MaxResetBytes},
		{"largest inputs", physic.Frequency(math.MaxInt64), time.Duration(math.MaxInt64), MaxResetBytes},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResetBytes(tc.freq, tc.low))
		})
	}
}

func TestResetBytesLastsLongEnough(t *testing.T) {
	for _, f := range []physic.Frequency{physic.MegaHertz, 2500 * physic.KiloHertz, DefaultFrequency, 6400 * physic.KiloHertz} {
		n := ResetBytes(f, WS2812ResetLow)
		hz := int64(f / physic.Hertz)
		lasted := time.Duration(int64(n*8) * int64(time.Second) / hz)
		assert.GreaterOrEqual(t, lasted, WS2812ResetLow, "%s", f)
		shorter := time.Duration(int64((n-1)*8) * int64(time.Second) / hz)
		assert.Less(t, shorter, WS2812ResetLow, "%s", f)
	}
}

func TestProtocolSplit(t *testing.T) {
	p := WS2812{Reset: 5}
	colors := rgbRamp(3)
	buf := bytes.Repeat([]byte{0xAA}, p.Size(len(colors)))
	head, tail := p.Encode(buf, colors, model.RGB)
	assert.Len(t, head, 36)
	assert.Equal(t, make([]byte, 5), tail)

	s := SK6812{Reset: 3}
	buf = bytes.Repeat([]byte{0xAA}, s.Size(2))
	head, tail = s.Encode(buf, make([]model.RGBW8, 2), model.RGB)
	assert.Len(t, head, 32)
	assert.Equal(t, make([]byte, 3), tail)

	a := APA102{}
	buf = make([]byte, a.Size(2))
	head, tail = a.Encode(buf, rgbRamp(2), model.RGB)
	assert.Len(t, head, 13)
	assert.Empty(t, tail)
}

func TestSizeFor(t *testing.T) {
	n, err := SizeFor("APA102", 16, 99)
	require.NoError(t, err)
	assert.Equal(t, 4+64+1, n)

	n, err = SizeFor("ws2812", 10, 20)
	require.NoError(t, err)
	assert.Equal(t, 140, n)

	n, err = SizeFor("sk6812", 10, 32)
	require.NoError(t, err)
	assert.Equal(t, 192, n)

	_, err = SizeFor("ws2801", 1, 0)
	assert.Error(t, err)

	assert.True(t, Clockless("SK6812"))
	assert.False(t, Clockless("lpd8806"))
}
