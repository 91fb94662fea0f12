package driver

import (
	"fmt"

	"github.com/coreman2200/ledwire/encoding"
	"github.com/coreman2200/ledwire/model"
)

// SK6812 drives one-wire RGBW strips. It works like WS2812 with a fourth,
// white, channel that always goes out last.
type SK6812 struct {
	*strip[model.RGBW8]
	reset int
}

var _ LedDriver[model.RGBW8] = (*SK6812)(nil)

// NewSK6812 takes the strip's color order up front; an order passed with
// WithColorOrder is overridden.
func NewSK6812(bus Bus, order model.ColorOrder, opts ...Option) (*SK6812, error) {
	st := newSettings(append(opts[:len(opts):len(opts)], WithColorOrder(order)))
	reset, err := st.resetBytes(encoding.SK6812ResetLow)
	if err != nil {
		return nil, fmt.Errorf("sk6812: %w", err)
	}
	s, err := newStrip[model.RGBW8](bus, encoding.SK6812{Reset: reset}, st)
	if err != nil {
		return nil, err
	}
	st.log.Debug().Str("chip", "sk6812").Stringer("freq", st.freq).Int("reset", reset).Msg("driver ready")
	return &SK6812{strip: s, reset: reset}, nil
}

func MustNewSK6812(bus Bus, order model.ColorOrder, opts ...Option) *SK6812 {
	return must(NewSK6812(bus, order, opts...))
}

func (d *SK6812) ResetBytes() int {
	return d.reset
}
