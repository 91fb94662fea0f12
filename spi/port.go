package spi

import (
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	spiconn "periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

var (
	hostOnce sync.Once
	hostErr  error
)

// Init loads the periph host drivers. It is safe to call more than once.
func Init() error {
	hostOnce.Do(func() {
		_, hostErr = host.Init()
	})
	return hostErr
}

// Bus is an SPI connection frames are written to. It satisfies driver.Bus.
//
// Writes larger than the port's maximum transfer size are split into
// consecutive transfers. On one-wire strips the gap between transfers must
// stay well under the reset time or the strip latches early.
type Bus struct {
	conn   spiconn.Conn
	closer io.Closer
	maxTx  int
	log    zerolog.Logger
}

// Open initializes the host, opens the named port ("" for the first one)
// and connects in mode 0 with 8 bit words at freq.
func Open(name string, freq physic.Frequency) (*Bus, error) {
	if err := Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	p, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", name, err)
	}
	b, err := Connect(p, freq)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	b.closer = p
	return b, nil
}

// Connect connects an already opened port.
func Connect(p spiconn.Port, freq physic.Frequency) (*Bus, error) {
	c, err := p.Connect(freq, spiconn.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("spi connect at %s: %w", freq, err)
	}
	b := &Bus{conn: c, log: log.Logger}
	if l, ok := c.(conn.Limits); ok {
		b.maxTx = l.MaxTxSize()
	}
	b.log.Debug().Str("port", p.String()).Stringer("freq", freq).Int("max_tx", b.maxTx).Msg("spi connected")
	return b, nil
}

func (b *Bus) Tx(w, r []byte) error {
	if b.maxTx <= 0 || len(w) <= b.maxTx {
		return b.conn.Tx(w, r)
	}
	if len(r) != 0 {
		return fmt.Errorf("spi: read of %d bytes larger than max transfer %d", len(r), b.maxTx)
	}
	for off := 0; off < len(w); off += b.maxTx {
		end := min(off+b.maxTx, len(w))
		if err := b.conn.Tx(w[off:end], nil); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bus) Close() error {
	if b.closer == nil {
		return nil
	}
	err := b.closer.Close()
	b.closer = nil
	return err
}

func (b *Bus) String() string {
	return b.conn.String()
}
