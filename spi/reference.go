package spi

import (
	"periph.io/x/conn/v3/physic"
	spiconn "periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/nrzled"
)

// ReferenceFrequency is what periph's nrzled expects: 3 SPI bits per
// 800kHz data bit plus some headroom.
const ReferenceFrequency = 2500 * physic.KiloHertz

// OpenReference drives a WS2812 strip through periph's own nrzled encoder.
// It is there to compare against driver.WS2812 on real hardware.
func OpenReference(p spiconn.Port, numPixels int) (*nrzled.Dev, error) {
	return nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: numPixels,
		Channels:  3,
		Freq:      ReferenceFrequency,
	})
}
