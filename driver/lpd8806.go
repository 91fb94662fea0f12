package driver

import (
	"github.com/coreman2200/ledwire/encoding"
	"github.com/coreman2200/ledwire/model"
)

// LPD8806 drives LPD8806 strips: 7 bit channels sent as G, R, B with the
// high bit set.
type LPD8806 struct {
	*strip[model.RGB8]
}

var _ LedDriver[model.RGB8] = (*LPD8806)(nil)

func NewLPD8806(bus Bus, opts ...Option) (*LPD8806, error) {
	s, err := newStrip[model.RGB8](bus, encoding.LPD8806{}, newSettings(opts))
	if err != nil {
		return nil, err
	}
	return &LPD8806{s}, nil
}

func MustNewLPD8806(bus Bus, opts ...Option) *LPD8806 {
	return must(NewLPD8806(bus, opts...))
}
