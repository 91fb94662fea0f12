package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/spi/spireg"

	"github.com/coreman2200/ledwire/config"
	"github.com/coreman2200/ledwire/driver"
	"github.com/coreman2200/ledwire/internal/sim"
	"github.com/coreman2200/ledwire/spi"
)

// backend is a strip ready to draw on and whatever has to be closed after.
type backend struct {
	drawer display.Drawer
	closer io.Closer
	stats  func() (writes, bytes int)
}

func (b *backend) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

func openBackend(c *config.Config) (*backend, error) {
	switch c.Driver {
	case config.DriverReference:
		if err := spi.Init(); err != nil {
			return nil, fmt.Errorf("periph host init: %w", err)
		}
		p, err := spireg.Open(c.SPI.Port)
		if err != nil {
			return nil, fmt.Errorf("open spi port %q: %w", c.SPI.Port, err)
		}
		dev, err := spi.OpenReference(p, c.Count)
		if err != nil {
			_ = p.Close()
			return nil, err
		}
		return &backend{drawer: dev, closer: p}, nil

	case config.DriverSPI:
		bus, err := spi.Open(c.SPI.Port, c.Frequency())
		if err != nil {
			return nil, err
		}
		d, err := newDrawer(c, bus)
		if err != nil {
			_ = bus.Close()
			return nil, err
		}
		return &backend{drawer: d, closer: bus}, nil
	}

	bus := sim.NewBus(log.Logger)
	d, err := newDrawer(c, bus)
	if err != nil {
		return nil, err
	}
	return &backend{drawer: d, closer: bus, stats: bus.Stats}, nil
}

// newDrawer builds the chip driver c names on bus.
func newDrawer(c *config.Config, bus driver.Bus) (display.Drawer, error) {
	opts := c.Options(log.Logger)
	switch strings.ToLower(c.Chip) {
	case "apa102":
		d, err := driver.NewAPA102(bus, opts...)
		if err != nil {
			return nil, err
		}
		return spi.NewDrawer(c.Chip, d, c.Count), nil
	case "lpd8806":
		d, err := driver.NewLPD8806(bus, opts...)
		if err != nil {
			return nil, err
		}
		return spi.NewDrawer(c.Chip, d, c.Count), nil
	case "ws2812":
		d, err := driver.NewWS2812(bus, opts...)
		if err != nil {
			return nil, err
		}
		return spi.NewDrawer(c.Chip, d, c.Count), nil
	case "sk6812":
		d, err := driver.NewSK6812(bus, c.Order(), opts...)
		if err != nil {
			return nil, err
		}
		return spi.NewRGBWDrawer(c.Chip, d, c.Count), nil
	}
	return nil, fmt.Errorf("unknown chip %q", c.Chip)
}
