package sim

import (
	"sync"

	"github.com/rs/zerolog"
)

const previewBytes = 16

// Bus stands in for an SPI port: it logs a compact summary of each write
// instead of sending it, useful for running without hardware.
type Bus struct {
	log zerolog.Logger

	mu    sync.Mutex
	count int
	total int
	last  []byte
}

func NewBus(l zerolog.Logger) *Bus {
	return &Bus{log: l}
}

func (b *Bus) Tx(w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.count++
	b.total += len(w)
	b.last = append(b.last[:0], w...)

	head := w[:min(len(w), previewBytes)]
	b.log.Info().
		Int("write", b.count).
		Int("bytes", len(w)).
		Hex("head", head).
		Msg("sim tx")
	return nil
}

// Stats reports the number of writes and bytes seen so far.
func (b *Bus) Stats() (writes, bytes int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count, b.total
}

// Last is a copy of the most recent write.
func (b *Bus) Last() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.last...)
}

func (b *Bus) String() string { return "sim" }

func (b *Bus) Close() error { return nil }
