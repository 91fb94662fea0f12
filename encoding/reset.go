package encoding

import (
	"math"
	"time"

	"periph.io/x/conn/v3/physic"
)

const (
	// DefaultFrequency gives 4 SPI bits per 800kHz NRZ data bit.
	DefaultFrequency = 3200 * physic.KiloHertz

	WS2812ResetLow = 50 * time.Microsecond
	SK6812ResetLow = 80 * time.Microsecond

	// MaxResetBytes caps ResetBytes, about 2.6s of low line at
	// DefaultFrequency.
	MaxResetBytes = 1 << 20
)

// ResetBytes is the number of zero bytes that keep the line low for at
// least low when clocked out at freq, at most MaxResetBytes.
func ResetBytes(freq physic.Frequency, low time.Duration) int {
	if freq <= 0 || low <= 0 {
		return 0
	}
	// ceil(low[ns] * hz / 8e9)
	hz := int64(freq / physic.Hertz)
	if hz == 0 {
		hz = 1
	}
	const bitsPerByteNs = 8 * int64(time.Second)
	if int64(low) > (math.MaxInt64-bitsPerByteNs)/hz {
		return MaxResetBytes
	}
	return int(min((int64(low)*hz+bitsPerByteNs-1)/bitsPerByteNs, MaxResetBytes))
}
