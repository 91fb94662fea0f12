package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/ledwire/buffer"
	"github.com/coreman2200/ledwire/driver"
	"github.com/coreman2200/ledwire/encoding"
	"github.com/coreman2200/ledwire/model"
)

// ErrInvalid wraps every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Buffer strategies.
const (
	Fixed    = "fixed"
	External = "external"
	Bounded  = "bounded"
)

// Backends the CLI can write frames to.
const (
	DriverSPI       = "spi"
	DriverSim       = "sim"
	DriverReference = "reference"
)

type Buffer struct {
	Strategy string `yaml:"strategy"` // "fixed" | "external" | "bounded"
	// Size means LEDs for fixed and bytes for external and bounded. Zero
	// picks count, the exact frame size and buffer.DefaultLimit.
	Size int `yaml:"size"`
}

type SPI struct {
	Port    string `yaml:"port"`     // spireg name, "" for the first port
	SpeedHz int    `yaml:"speed_hz"` // e.g. 3200000
	ResetUs int    `yaml:"reset_us"` // 0 uses the chip's minimum
}

type Config struct {
	Driver     string `yaml:"driver"` // "spi" | "sim" | "reference"
	Chip       string `yaml:"chip"`
	Count      int    `yaml:"count"`
	ColorOrder string `yaml:"color_order"`
	FPS        int    `yaml:"fps"`

	Buffer Buffer `yaml:"buffer"`
	SPI    SPI    `yaml:"spi,omitempty"`
}

func Defaults() *Config {
	return &Config{
		Driver:     DriverSim,
		Chip:       "ws2812",
		Count:      30,
		ColorOrder: "GRB",
		FPS:        30,
		Buffer:     Buffer{Strategy: Bounded},
		SPI:        SPI{SpeedHz: int(encoding.DefaultFrequency / physic.Hertz)},
	}
}

// Load reads path over Defaults and validates the result.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Defaults()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

func invalid(format string, a ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, a...)...)
}

func (c *Config) Validate() error {
	if !slices.Contains(encoding.Chips, strings.ToLower(c.Chip)) {
		return invalid("unknown chip %q", c.Chip)
	}
	if c.Count < 0 {
		return invalid("count %d is negative", c.Count)
	}
	if _, err := model.ParseColorOrder(c.ColorOrder); err != nil {
		return invalid("%v", err)
	}
	switch c.Driver {
	case DriverSPI, DriverSim:
	case DriverReference:
		if strings.ToLower(c.Chip) != "ws2812" {
			return invalid("the reference driver only speaks ws2812, not %s", c.Chip)
		}
	default:
		return invalid("unknown driver %q", c.Driver)
	}
	switch c.Buffer.Strategy {
	case Fixed, External, Bounded:
	default:
		return invalid("unknown buffer strategy %q", c.Buffer.Strategy)
	}
	if c.Buffer.Size < 0 {
		return invalid("buffer size %d is negative", c.Buffer.Size)
	}
	if c.SPI.SpeedHz <= 0 {
		return invalid("spi speed %d Hz", c.SPI.SpeedHz)
	}
	if c.SPI.ResetUs < 0 {
		return invalid("reset %dus is negative", c.SPI.ResetUs)
	}
	return nil
}

// Order is the parsed color order. It assumes Validate passed.
func (c *Config) Order() model.ColorOrder {
	o, _ := model.ParseColorOrder(c.ColorOrder)
	return o
}

func (c *Config) Frequency() physic.Frequency {
	return physic.Frequency(c.SPI.SpeedHz) * physic.Hertz
}

// ResetLow is the configured reset low time, zero when the chip default
// applies.
func (c *Config) ResetLow() time.Duration {
	return time.Duration(c.SPI.ResetUs) * time.Microsecond
}

// ResetBytes is the reset region a clockless driver built from c will send.
func (c *Config) ResetBytes() int {
	switch strings.ToLower(c.Chip) {
	case "ws2812":
		return encoding.ResetBytes(c.Frequency(), orDefault(c.ResetLow(), encoding.WS2812ResetLow))
	case "sk6812":
		return encoding.ResetBytes(c.Frequency(), orDefault(c.ResetLow(), encoding.SK6812ResetLow))
	}
	return 0
}

func orDefault(d, def time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return def
}

// FrameSize is the bytes a frame of Count LEDs takes on the wire.
func (c *Config) FrameSize() int {
	n, _ := encoding.SizeFor(c.Chip, c.Count, c.ResetBytes())
	return n
}

// Region builds a fresh buffer region for one driver.
func (c *Config) Region() buffer.Region {
	switch c.Buffer.Strategy {
	case Fixed:
		if c.Buffer.Size > 0 {
			return buffer.NewFixed(c.Buffer.Size)
		}
		return buffer.NewFixed(c.Count)
	case External:
		size := c.Buffer.Size
		if size == 0 {
			size = c.FrameSize()
		}
		return buffer.NewExternal(make([]byte, size), c.Count)
	}
	if c.Buffer.Size > 0 {
		return buffer.NewBounded(c.Buffer.Size)
	}
	return buffer.NewBounded(buffer.DefaultLimit)
}

// Options are the driver options c describes, with a fresh region.
func (c *Config) Options(l zerolog.Logger) []driver.Option {
	opts := []driver.Option{
		driver.WithRegion(c.Region()),
		driver.WithColorOrder(c.Order()),
		driver.WithFrequency(c.Frequency()),
		driver.WithLogger(l),
	}
	if d := c.ResetLow(); d > 0 {
		opts = append(opts, driver.WithResetLow(d))
	}
	return opts
}
