// Package pattern has a few animations to drive a strip with from the
// command line. Every pattern is a spi.Source returning a one pixel high
// image as wide as the strip.
package pattern

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"
	"time"

	"github.com/fogleman/ease"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/coreman2200/ledwire/spi"
)

// DefaultPeriod is how long one cycle of a pattern lasts when none is given.
const DefaultPeriod = 4 * time.Second

// ErrUnknown is returned by ByName.
var ErrUnknown = errors.New("pattern: unknown pattern")

type builder func(n int, c colorful.Color, period time.Duration) spi.Source

var byName = map[string]builder{
	"solid":   func(n int, c colorful.Color, _ time.Duration) spi.Source { return Solid(n, c) },
	"rainbow": func(n int, _ colorful.Color, p time.Duration) spi.Source { return Rainbow(n, p) },
	"chase":   Chase,
	"breathe": func(n int, c colorful.Color, p time.Duration) spi.Source { return Breathe(n, c, p, ease.InOutSine) },
}

// Names lists the patterns ByName knows, sorted.
func Names() []string {
	names := make([]string, 0, len(byName))
	for k := range byName {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ByName builds the named pattern for n LEDs. Patterns that do not use a
// color or a period ignore them. A zero period means DefaultPeriod.
func ByName(name string, n int, c color.Color, period time.Duration) (spi.Source, error) {
	b, ok := byName[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknown, name)
	}
	if period <= 0 {
		period = DefaultPeriod
	}
	cc, _ := colorful.MakeColor(c)
	return b(n, cc, period), nil
}

func newFrame(n int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, n, 1))
}

func set(img *image.NRGBA, x int, c colorful.Color) {
	r, g, b := c.Clamped().RGB255()
	img.SetNRGBA(x, 0, color.NRGBA{R: r, G: g, B: b, A: 0xFF})
}

// phase is how far into the current cycle elapsed is, in [0, 1).
func phase(elapsed, period time.Duration) float64 {
	if period <= 0 {
		return 0
	}
	return float64(elapsed%period) / float64(period)
}

// Solid shows c on every LED.
func Solid(n int, c color.Color) spi.Source {
	cc, _ := colorful.MakeColor(c)
	img := newFrame(n)
	for x := 0; x < n; x++ {
		set(img, x, cc)
	}
	return func(time.Duration) image.Image { return img }
}

// Rainbow spreads the hue wheel once over the strip and rotates it a full
// turn every period.
func Rainbow(n int, period time.Duration) spi.Source {
	return func(elapsed time.Duration) image.Image {
		img := newFrame(n)
		shift := phase(elapsed, period) * 360
		for x := 0; x < n; x++ {
			h := math.Mod(float64(x)*360/float64(n)+shift, 360)
			set(img, x, colorful.Hsv(h, 1, 1))
		}
		return img
	}
}

const chaseTail = 3

// Chase runs a single lit LED down the strip once per period, trailed by a
// short fading tail.
func Chase(n int, c colorful.Color, period time.Duration) spi.Source {
	black := colorful.Color{}
	return func(elapsed time.Duration) image.Image {
		img := newFrame(n)
		if n == 0 {
			return img
		}
		for x := 0; x < n; x++ {
			set(img, x, black)
		}
		head := int(phase(elapsed, period) * float64(n))
		for i := chaseTail - 1; i >= 0; i-- {
			x := ((head-i)%n + n) % n
			set(img, x, black.BlendRgb(c, float64(chaseTail-i)/chaseTail))
		}
		return img
	}
}

// Breathe fades c in and out once per period. fn shapes both halves of the
// cycle.
func Breathe(n int, c colorful.Color, period time.Duration, fn ease.Function) spi.Source {
	black := colorful.Color{}
	return func(elapsed time.Duration) image.Image {
		p := phase(elapsed, period)
		level := fn(1 - math.Abs(2*p-1))
		cc := black.BlendRgb(c, level)
		img := newFrame(n)
		for x := 0; x < n; x++ {
			set(img, x, cc)
		}
		return img
	}
}
