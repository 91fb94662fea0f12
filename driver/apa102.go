package driver

import (
	"github.com/coreman2200/ledwire/encoding"
	"github.com/coreman2200/ledwire/model"
)

// APA102 drives APA102/DotStar strips: clock and data lines, 32 bit LED
// frames with global brightness pinned at max.
type APA102 struct {
	*strip[model.RGB8]
}

var _ LedDriver[model.RGB8] = (*APA102)(nil)

func NewAPA102(bus Bus, opts ...Option) (*APA102, error) {
	s, err := newStrip[model.RGB8](bus, encoding.APA102{}, newSettings(opts))
	if err != nil {
		return nil, err
	}
	return &APA102{s}, nil
}

// MustNewAPA102 panics where NewAPA102 would return an error.
func MustNewAPA102(bus Bus, opts ...Option) *APA102 {
	return must(NewAPA102(bus, opts...))
}
