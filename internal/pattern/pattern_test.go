package pattern

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/fogleman/ease"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red   = color.NRGBA{R: 0xFF, A: 0xFF}
	green = color.NRGBA{G: 0xFF, A: 0xFF}
	blue  = color.NRGBA{B: 0xFF, A: 0xFF}
	off   = color.NRGBA{A: 0xFF}
)

func row(img image.Image) []color.NRGBA {
	b := img.Bounds()
	out := make([]color.NRGBA, 0, b.Dx())
	for x := b.Min.X; x < b.Max.X; x++ {
		out = append(out, color.NRGBAModel.Convert(img.At(x, 0)).(color.NRGBA))
	}
	return out
}

func TestSolid(t *testing.T) {
	src := Solid(3, green)
	assert.Equal(t, []color.NRGBA{green, green, green}, row(src(0)))
	assert.Equal(t, image.Rect(0, 0, 3, 1), src(time.Hour).Bounds())
}

func TestRainbow(t *testing.T) {
	src := Rainbow(3, 3*time.Second)
	assert.Equal(t, []color.NRGBA{red, green, blue}, row(src(0)))
	// A third of a turn later every hue has moved one LED.
	assert.Equal(t, []color.NRGBA{green, blue, red}, row(src(time.Second)))
	assert.Equal(t, row(src(0)), row(src(3*time.Second)))
}

func TestChase(t *testing.T) {
	c, _ := colorful.MakeColor(red)
	src := Chase(5, c, 5*time.Second)

	got := row(src(2 * time.Second))
	assert.Equal(t, red, got[2])
	assert.Equal(t, uint8(170), got[1].R)
	assert.Equal(t, uint8(85), got[0].R)
	assert.Equal(t, off, got[3])
	assert.Equal(t, off, got[4])

	// The tail wraps around the end of the strip.
	got = row(src(0))
	assert.Equal(t, red, got[0])
	assert.Equal(t, uint8(170), got[4].R)
	assert.Equal(t, uint8(85), got[3].R)

	assert.Empty(t, row(Chase(0, c, time.Second)(0)))

	// Unlit LEDs are opaque black like every other pattern paints them.
	for _, px := range row(Chase(8, c, time.Second)(300 * time.Millisecond)) {
		assert.Equal(t, uint8(0xFF), px.A)
	}
}

func TestBreathe(t *testing.T) {
	c, _ := colorful.MakeColor(blue)
	src := Breathe(2, c, 2*time.Second, ease.Linear)

	assert.Equal(t, []color.NRGBA{off, off}, row(src(0)))
	assert.Equal(t, []color.NRGBA{blue, blue}, row(src(time.Second)))
	half := row(src(500 * time.Millisecond))
	assert.Equal(t, uint8(128), half[0].B)
	assert.Equal(t, row(src(500*time.Millisecond)), row(src(1500*time.Millisecond)))
}

func TestByName(t *testing.T) {
	assert.Equal(t, []string{"breathe", "chase", "rainbow", "solid"}, Names())

	for _, name := range Names() {
		src, err := ByName(name, 4, red, 0)
		require.NoError(t, err, name)
		assert.Equal(t, image.Rect(0, 0, 4, 1), src(time.Second).Bounds(), name)
	}

	_, err := ByName("strobe", 4, red, 0)
	assert.ErrorIs(t, err, ErrUnknown)
	assert.ErrorContains(t, err, `"strobe"`)
}
