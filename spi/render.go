package spi

import (
	"fmt"
	"image"
	"image/color"

	"periph.io/x/conn/v3/display"

	"github.com/coreman2200/ledwire/driver"
	"github.com/coreman2200/ledwire/model"
)

// Drawer exposes a strip as a one pixel high display.Drawer. Every Draw
// writes the whole strip.
type Drawer[C any] struct {
	drv    driver.LedDriver[C]
	conv   func(color.Color) C
	cm     color.Model
	name   string
	rect   image.Rectangle
	pixels []C
}

var (
	_ display.Drawer = (*Drawer[model.RGB8])(nil)
	_ display.Drawer = (*Drawer[model.RGBW8])(nil)
)

func NewDrawer(name string, d driver.LedDriver[model.RGB8], numPixels int) *Drawer[model.RGB8] {
	return newDrawer(name, d, numPixels, model.RGB8FromColor, model.RGB8Model)
}

// NewRGBWDrawer leaves the white channel off; images have nothing to map
// onto it.
func NewRGBWDrawer(name string, d driver.LedDriver[model.RGBW8], numPixels int) *Drawer[model.RGBW8] {
	return newDrawer(name, d, numPixels, model.RGBW8FromColor, model.RGBW8Model)
}

func newDrawer[C any](name string, d driver.LedDriver[C], n int, conv func(color.Color) C, cm color.Model) *Drawer[C] {
	return &Drawer[C]{
		drv:    d,
		conv:   conv,
		cm:     cm,
		name:   name,
		rect:   image.Rect(0, 0, n, 1),
		pixels: make([]C, n),
	}
}

func (r *Drawer[C]) String() string {
	return fmt.Sprintf("ledwire{%s, %d}", r.name, len(r.pixels))
}

// Halt turns every LED off.
func (r *Drawer[C]) Halt() error {
	clear(r.pixels)
	return r.drv.Write(r.pixels)
}

func (r *Drawer[C]) ColorModel() color.Model {
	return r.cm
}

func (r *Drawer[C]) Bounds() image.Rectangle {
	return r.rect
}

// Draw copies src, starting at sp, into the part of the strip covered by
// dstRect and writes the frame.
func (r *Drawer[C]) Draw(dstRect image.Rectangle, src image.Image, sp image.Point) error {
	dst := dstRect.Intersect(r.rect)
	sb := src.Bounds()
	for x := dst.Min.X; x < dst.Max.X; x++ {
		p := image.Pt(sp.X+x-dst.Min.X, sp.Y)
		if !p.In(sb) {
			break
		}
		r.pixels[x] = r.conv(src.At(p.X, p.Y))
	}
	return r.drv.Write(r.pixels)
}

// Pixels is the last frame written.
func (r *Drawer[C]) Pixels() []C {
	return r.pixels
}
