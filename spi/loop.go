package spi

import (
	"context"
	"image"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"k8s.io/utils/clock"
	"periph.io/x/conn/v3/display"
)

const DFLT_FPS = 30

// Source returns the image to show elapsed time after the loop started.
type Source func(elapsed time.Duration) image.Image

// Looper redraws a Source onto a Drawer at a fixed rate until its context
// ends, then halts the drawer.
type Looper struct {
	drawer display.Drawer
	src    Source
	fps    int
	clock  clock.WithTicker
	log    zerolog.Logger
}

func NewLooper(d display.Drawer, src Source, fps int) *Looper {
	if fps <= 0 {
		fps = DFLT_FPS
	}
	return &Looper{
		drawer: d,
		src:    src,
		fps:    fps,
		clock:  clock.RealClock{},
		log:    log.Logger,
	}
}

// WithClock swaps the clock ticks are taken from.
func (l *Looper) WithClock(c clock.WithTicker) *Looper {
	l.clock = c
	return l
}

func (l *Looper) Period() time.Duration {
	return time.Second / time.Duration(l.fps)
}

// Run blocks until ctx is done or a draw fails. A cancelled context is not
// an error.
func (l *Looper) Run(ctx context.Context) error {
	start := l.clock.Now()
	ticker := l.clock.NewTicker(l.Period())
	defer ticker.Stop()

	frames := 0
	l.log.Debug().Str("drawer", l.drawer.String()).Int("fps", l.fps).Msg("loop started")

	for {
		select {
		case <-ctx.Done():
			l.log.Debug().Int("frames", frames).Msg("loop stopped")
			return l.drawer.Halt()

		case <-ticker.C():
			img := l.src(l.clock.Since(start))
			if err := l.drawer.Draw(l.drawer.Bounds(), img, image.Point{}); err != nil {
				_ = l.drawer.Halt()
				return err
			}
			frames++
		}
	}
}
