package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/coreman2200/ledwire/config"
	"github.com/coreman2200/ledwire/encoding"
	"github.com/coreman2200/ledwire/internal/pattern"
	"github.com/coreman2200/ledwire/model"
	"github.com/coreman2200/ledwire/spi"
)

var (
	buildTime    = "unknown"
	buildVersion = "dev"
)

// options are the persistent flags. Flags that were set win over the
// config file.
type options struct {
	configPath string
	driver     string
	chip       string
	count      int
	order      string
	port       string
	speedHz    int
	resetUs    int

	cfg *config.Config
}

func RootCmd() *cobra.Command {
	return newRootCmd(&options{})
}

func newRootCmd(o *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "ledwire",
		Short:        "Drive APA102, LPD8806, WS2812 and SK6812 strips over SPI",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Lookup("debug").Changed {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			return o.load(cmd)
		},
	}

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSizesCmd(o))
	rootCmd.AddCommand(newFillCmd(o))
	rootCmd.AddCommand(newOffCmd(o))
	rootCmd.AddCommand(newPatternCmd(o))

	pf := rootCmd.PersistentFlags()
	pf.Bool("debug", false, "Turn on debug logging.")
	pf.StringVarP(&o.configPath, "config", "c", "", "Path to a config.yaml.")
	pf.StringVarP(&o.driver, "driver", "d", "", "Backend: spi | sim | reference.")
	pf.StringVar(&o.chip, "chip", "", "LED chip: "+strings.Join(encoding.Chips, " | ")+".")
	pf.IntVarP(&o.count, "count", "n", 0, "Number of LEDs on the strip.")
	pf.StringVar(&o.order, "order", "", "Color order: RGB | GRB.")
	pf.StringVar(&o.port, "port", "", "SPI port name, empty for the first one.")
	pf.IntVar(&o.speedHz, "speed", 0, "SPI clock in Hz.")
	pf.IntVar(&o.resetUs, "reset-us", 0, "Reset low time in microseconds, 0 for the chip minimum.")

	return rootCmd
}

func (o *options) load(cmd *cobra.Command) error {
	c := config.Defaults()
	if o.configPath != "" {
		var err error
		if c, err = config.Load(o.configPath); err != nil {
			return err
		}
	}

	f := cmd.Flags()
	if f.Changed("driver") {
		c.Driver = o.driver
	}
	if f.Changed("chip") {
		c.Chip = strings.ToLower(o.chip)
	}
	if f.Changed("count") {
		c.Count = o.count
	}
	if f.Changed("order") {
		c.ColorOrder = o.order
	}
	if f.Changed("port") {
		c.SPI.Port = o.port
	}
	if f.Changed("speed") {
		c.SPI.SpeedHz = o.speedHz
	}
	if f.Changed("reset-us") {
		c.SPI.ResetUs = o.resetUs
	}
	if err := c.Validate(); err != nil {
		return err
	}
	o.cfg = c
	log.Debug().
		Str("driver", c.Driver).
		Str("chip", c.Chip).
		Int("count", c.Count).
		Str("order", c.ColorOrder).
		Stringer("freq", c.Frequency()).
		Msg("config")
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (built: %s)\n", buildVersion, buildTime)
		},
	}
}

func newSizesCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sizes",
		Short: "Prints the frame buffer size every chip needs for the configured strip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-8s %6s %6s\n", "chip", "bytes", "reset")
			for _, chip := range encoding.Chips {
				c := *o.cfg
				c.Chip = chip
				n, err := encoding.SizeFor(chip, c.Count, c.ResetBytes())
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%-8s %6d %6d\n", chip, n, c.ResetBytes())
			}
			return nil
		},
	}
}

func newFillCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fill <rrggbb>",
		Short: "Sets every LED to one color",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := model.Hex(args[0])
			if err != nil {
				return err
			}
			b, err := openBackend(o.cfg)
			if err != nil {
				return err
			}
			defer b.Close()
			d := b.drawer
			return d.Draw(d.Bounds(), image.NewUniform(c), image.Point{})
		},
	}
}

func newOffCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "off",
		Short: "Turns every LED off",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(o.cfg)
			if err != nil {
				return err
			}
			defer b.Close()
			return b.drawer.Halt()
		},
	}
}

func newPatternCmd(o *options) *cobra.Command {
	var (
		hex      string
		period   time.Duration
		fps      int
		duration time.Duration
		every    time.Duration
	)
	cmd := &cobra.Command{
		Use:       "pattern <name>",
		Short:     "Plays a test pattern until interrupted",
		Args:      cobra.ExactArgs(1),
		ValidArgs: pattern.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := model.Hex(hex)
			if err != nil {
				return err
			}
			src, err := pattern.ByName(args[0], o.cfg.Count, c, period)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("fps") {
				fps = o.cfg.FPS
			}

			b, err := openBackend(o.cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}
			return play(ctx, b, src, fps, every)
		},
	}

	f := cmd.Flags()
	f.StringVar(&hex, "color", "ffffff", "Color for solid, chase and breathe.")
	f.DurationVar(&period, "period", pattern.DefaultPeriod, "Length of one pattern cycle.")
	f.IntVar(&fps, "fps", spi.DFLT_FPS, "Frames per second.")
	f.DurationVar(&duration, "for", 0, "Stop after this long, 0 runs until interrupted.")
	f.DurationVar(&every, "stats", 0, "Log bus statistics this often, 0 disables.")
	return cmd
}

// play runs the loop and the statistics reporter until ctx ends or the loop
// fails.
func play(ctx context.Context, b *backend, src spi.Source, fps int, every time.Duration) error {
	g, ctx := errgroup.WithContext(ctx)
	looper := spi.NewLooper(b.drawer, src, fps)
	g.Go(func() error {
		return looper.Run(ctx)
	})
	if every > 0 && b.stats != nil {
		g.Go(func() error {
			report(ctx, b.stats, every)
			return nil
		})
	}
	return g.Wait()
}

func report(ctx context.Context, stats func() (int, int), every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			writes, bytes := stats()
			log.Info().Int("writes", writes).Int("bytes", bytes).Msg("bus stats")
		}
	}
}
