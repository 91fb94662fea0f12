// Package buffer holds the frame buffer ownership strategies a driver can
// encode into. Drivers do not care which one they get: each hands out a
// byte slice of exactly the frame size for the LEDs that fit.
package buffer

import (
	"errors"
	"fmt"
	"sort"
)

// DefaultLimit caps a Bounded region when the caller does not pick a size.
const DefaultLimit = 64 << 10

var (
	// ErrTooSmall means an external buffer cannot hold its declared LED count.
	ErrTooSmall = errors.New("buffer: too small")
	// ErrBound means the region already belongs to a driver.
	ErrBound = errors.New("buffer: region already bound")
)

// SizeFunc returns the bytes a frame of n LEDs needs.
type SizeFunc func(n int) int

// Region is a frame buffer owned by exactly one driver.
type Region interface {
	// Bind attaches the region to a protocol's frame size. It is called
	// once, when the driver is built.
	Bind(size SizeFunc) error
	// Reserve returns the buffer for a frame of up to n LEDs and how many
	// of them fit. len(buf) == size(fitted).
	Reserve(n int) (buf []byte, fitted int)
}

// Fixed is allocated once for a maximum LED count and reused for every
// frame. Extra LEDs are dropped.
type Fixed struct {
	max  int
	size SizeFunc
	buf  []byte
}

func NewFixed(maxLEDs int) *Fixed {
	return &Fixed{max: max(maxLEDs, 0)}
}

func (f *Fixed) Bind(size SizeFunc) error {
	if f.size != nil {
		return ErrBound
	}
	f.size = size
	f.buf = make([]byte, size(f.max))
	return nil
}

func (f *Fixed) Reserve(n int) ([]byte, int) {
	n = min(max(n, 0), f.max)
	return f.buf[:f.size(n)], n
}

// Cap is the LED count the region was sized for.
func (f *Fixed) Cap() int { return f.max }

// External wraps a caller supplied buffer declared to hold a given LED
// count. Binding fails if the buffer is smaller than that count requires.
type External struct {
	leds int
	size SizeFunc
	buf  []byte
}

func NewExternal(buf []byte, leds int) *External {
	return &External{buf: buf, leds: max(leds, 0)}
}

func (e *External) Bind(size SizeFunc) error {
	if e.size != nil {
		return ErrBound
	}
	if need := size(e.leds); len(e.buf) < need {
		return fmt.Errorf("%w: %d LEDs need %d bytes, have %d", ErrTooSmall, e.leds, need, len(e.buf))
	}
	e.size = size
	return nil
}

func (e *External) Reserve(n int) ([]byte, int) {
	n = min(max(n, 0), e.leds)
	return e.buf[:e.size(n)], n
}

func (e *External) Cap() int { return e.leds }

// Bounded is cleared and regrown to the exact frame size on every Reserve,
// never past limit bytes. A frame that does not fit is cut down to the
// LEDs that do.
type Bounded struct {
	limit int
	size  SizeFunc
	buf   []byte
}

func NewBounded(limit int) *Bounded {
	return &Bounded{limit: max(limit, 0)}
}

func (b *Bounded) Bind(size SizeFunc) error {
	if b.size != nil {
		return ErrBound
	}
	if need := size(0); need > b.limit {
		return fmt.Errorf("%w: an empty frame needs %d bytes, limit is %d", ErrTooSmall, need, b.limit)
	}
	b.size = size
	return nil
}

func (b *Bounded) Reserve(n int) ([]byte, int) {
	n = max(n, 0)
	if b.size(n) > b.limit {
		// size is monotonic, so search for the first count that overflows.
		n = sort.Search(n+1, func(i int) bool { return b.size(i) > b.limit }) - 1
	}
	need := b.size(n)
	b.buf = b.buf[:0]
	if cap(b.buf) < need {
		b.buf = make([]byte, 0, need)
	}
	b.buf = b.buf[:need]
	clear(b.buf)
	return b.buf, n
}

// Cap is the largest LED count whose frame fits in the limit.
func (b *Bounded) Cap() int {
	if b.size == nil {
		return 0
	}
	return sort.Search(b.limit+1, func(i int) bool { return b.size(i) > b.limit }) - 1
}
