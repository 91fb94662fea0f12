package driver

import (
	"fmt"

	"github.com/coreman2200/ledwire/encoding"
	"github.com/coreman2200/ledwire/model"
)

// WS2812 drives one-wire WS2812/NeoPixel strips from the MOSI line of an
// SPI bus. Each data bit becomes 4 SPI bits, so the bus must run at 4x the
// strip's data rate (3.2MHz for 800kHz parts).
//
// Every Write sends the pulse data, then a run of zero bytes long enough to
// latch the frame at the configured frequency.
type WS2812 struct {
	*strip[model.RGB8]
	reset int
}

var _ LedDriver[model.RGB8] = (*WS2812)(nil)

func NewWS2812(bus Bus, opts ...Option) (*WS2812, error) {
	st := newSettings(opts)
	reset, err := st.resetBytes(encoding.WS2812ResetLow)
	if err != nil {
		return nil, fmt.Errorf("ws2812: %w", err)
	}
	s, err := newStrip[model.RGB8](bus, encoding.WS2812{Reset: reset}, st)
	if err != nil {
		return nil, err
	}
	st.log.Debug().Str("chip", "ws2812").Stringer("freq", st.freq).Int("reset", reset).Msg("driver ready")
	return &WS2812{strip: s, reset: reset}, nil
}

func MustNewWS2812(bus Bus, opts ...Option) *WS2812 {
	return must(NewWS2812(bus, opts...))
}

// ResetBytes is the length of the latch region sent after each frame.
func (d *WS2812) ResetBytes() int {
	return d.reset
}
