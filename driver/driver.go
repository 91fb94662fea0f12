// Package driver binds an LED protocol, a frame buffer and a bus together.
//
// Every chip driver follows the same cycle: reserve the frame buffer,
// encode the colors that fit, then hand the bytes to the bus in frame
// order. Colors past the buffer's capacity are dropped without an error.
// Drivers are not safe for concurrent use; a Write that overlaps another
// returns ErrBusy.
package driver

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/ledwire/buffer"
	"github.com/coreman2200/ledwire/encoding"
	"github.com/coreman2200/ledwire/model"
)

// Bus is the synchronous byte sink a driver writes frames to. Tx must send
// w in order and return once it is on the wire. r is always nil.
//
// periph.io/x/conn/v3/spi.Conn satisfies it.
type Bus interface {
	Tx(w, r []byte) error
}

// LedDriver writes frames of colors of type C to a strip.
type LedDriver[C any] interface {
	Write(colors []C) error
	// SetColorOrder takes effect on the next Write.
	SetColorOrder(o model.ColorOrder)
}

// ErrBusy is returned by a Write that overlaps another one on the same driver.
var ErrBusy = errors.New("driver: write in progress")

// ErrNoFrequency is returned when building a clockless driver without a
// positive bus frequency to size its reset region from. WithResetBytes
// lifts the requirement.
var ErrNoFrequency = errors.New("driver: clockless chip needs a bus frequency")

var errNilBus = errors.New("driver: nil bus")

type settings struct {
	region buffer.Region
	order  model.ColorOrder
	freq   physic.Frequency
	low    time.Duration
	reset  int
	log    zerolog.Logger
}

func newSettings(opts []Option) *settings {
	s := &settings{
		freq:  encoding.DefaultFrequency,
		reset: -1,
		log:   log.Logger,
	}
	for _, o := range opts {
		o(s)
	}
	if s.region == nil {
		s.region = buffer.NewBounded(buffer.DefaultLimit)
	}
	return s
}

// resetBytes picks the reset region for a clockless chip whose documented
// minimum low time is def.
func (s *settings) resetBytes(def time.Duration) (int, error) {
	if s.reset >= 0 {
		return s.reset, nil
	}
	if s.freq <= 0 {
		return 0, fmt.Errorf("%w, got %s", ErrNoFrequency, s.freq)
	}
	low := s.low
	if low <= 0 {
		low = def
	}
	return encoding.ResetBytes(s.freq, low), nil
}

// Option configures a driver at construction.
type Option func(*settings)

// WithRegion selects the buffer strategy. The region is bound to the driver
// and cannot be shared. Defaults to a Bounded region of buffer.DefaultLimit.
func WithRegion(r buffer.Region) Option {
	return func(s *settings) { s.region = r }
}

func WithColorOrder(o model.ColorOrder) Option {
	return func(s *settings) { s.order = o }
}

// WithFrequency is the clock rate the bus was configured with. Clockless
// drivers size their reset region from it.
func WithFrequency(f physic.Frequency) Option {
	return func(s *settings) { s.freq = f }
}

// WithResetLow overrides the chip's minimum reset low time.
func WithResetLow(d time.Duration) Option {
	return func(s *settings) { s.low = d }
}

// WithResetBytes pins the reset region to n zero bytes, ignoring frequency
// and low time.
func WithResetBytes(n int) Option {
	return func(s *settings) { s.reset = n }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *settings) { s.log = l }
}

// strip is the protocol independent half of every driver.
type strip[C any] struct {
	bus     Bus
	proto   encoding.Protocol[C]
	region  buffer.Region
	order   model.ColorOrder
	log     zerolog.Logger
	writing atomic.Bool
}

func newStrip[C any](bus Bus, proto encoding.Protocol[C], s *settings) (*strip[C], error) {
	if bus == nil {
		return nil, errNilBus
	}
	if err := s.region.Bind(proto.Size); err != nil {
		return nil, fmt.Errorf("%s: %w", proto.Name(), err)
	}
	return &strip[C]{
		bus:    bus,
		proto:  proto,
		region: s.region,
		order:  s.order,
		log:    s.log.With().Str("chip", proto.Name()).Logger(),
	}, nil
}

func (s *strip[C]) SetColorOrder(o model.ColorOrder) {
	s.order = o
}

func (s *strip[C]) ColorOrder() model.ColorOrder {
	return s.order
}

func (s *strip[C]) Write(colors []C) error {
	if !s.writing.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer s.writing.Store(false)

	buf, n := s.region.Reserve(len(colors))
	if n < len(colors) {
		s.log.Debug().Int("leds", len(colors)).Int("sent", n).Msg("frame truncated")
	}
	head, tail := s.proto.Encode(buf, colors[:n], s.order)

	if len(head) > 0 {
		if err := s.bus.Tx(head, nil); err != nil {
			s.log.Debug().Err(err).Int("bytes", len(head)).Msg("bus write failed")
			return err
		}
	}
	if len(tail) > 0 {
		if err := s.bus.Tx(tail, nil); err != nil {
			s.log.Debug().Err(err).Int("bytes", len(tail)).Msg("reset write failed")
			return err
		}
	}
	return nil
}

func (s *strip[C]) String() string {
	return fmt.Sprintf("%s{%s}", s.proto.Name(), s.order)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
