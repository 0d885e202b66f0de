// Package convert moves tiles between the legacy Viking cache, the standard
// XYZ directory layout and the MBTiles store.
//
// Every conversion is a one-shot batch run. Runs are not resumable: an
// interrupted run leaves already converted tiles valid, and is recovered by
// removing the destination and running again.
package convert

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// Stats summarises a finished run.
type Stats struct {
	// Tiles is the number of tiles written, inserted or moved.
	Tiles int
	// Skipped is the number of source entries ignored as not being tiles.
	Skipped int
	// Preserved is the number of existing destination tiles left untouched.
	Preserved int
	Elapsed   time.Duration
}

// Converter performs the conversions selected by a Config.
type Converter struct {
	config    Config
	tilesetID int
	reporter  Reporter
	logger    *zap.Logger
}

type Option func(*Converter)

func WithReporter(reporter Reporter) Option {
	return func(c *Converter) { c.reporter = reporter }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Converter) { c.logger = logger }
}

// New validates config and returns a Converter for it.
func New(config Config, opts ...Option) (*Converter, error) {
	c := &Converter{
		config:   config,
		reporter: nopReporter{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	tilesetID, err := config.tilesetID()
	if err != nil {
		c.reporter.OnError(KindConfig, err.Error())
		return nil, err
	}
	c.tilesetID = tilesetID

	return c, nil
}

// Run performs the conversion selected by the configured mode.
func (c *Converter) Run(ctx context.Context, src, dst string) (Stats, error) {
	c.logger.Debug("converting",
		zap.Stringer("mode", c.config.Mode),
		zap.String("src", src),
		zap.String("dst", dst),
		zap.Int("tileset", c.tilesetID),
	)

	switch c.config.Mode {
	case LegacyToStore:
		return c.LegacyToStore(ctx, src, dst)
	case StoreToLegacy:
		return c.StoreToLegacy(ctx, src, dst)
	case LegacyToStandard:
		return c.LegacyToStandard(ctx, src, dst)
	case StandardToLegacy:
		return c.StandardToLegacy(ctx, src, dst)
	}

	err := fmt.Errorf("%w: mode not specified", ErrInvalidConfig)
	c.reporter.OnError(KindConfig, err.Error())
	return Stats{}, err
}

// Run is a shorthand for New followed by Converter.Run.
func Run(ctx context.Context, config Config, src, dst string, opts ...Option) (Stats, error) {
	c, err := New(config, opts...)
	if err != nil {
		return Stats{}, err
	}
	return c.Run(ctx, src, dst)
}

// requireDir checks that a source directory exists before anything is written.
func (c *Converter) requireDir(path string) error {
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return nil
	}
	err = fmt.Errorf("%w: source directory %q not found", ErrInvalidConfig, path)
	c.reporter.OnError(KindConfig, err.Error())
	return err
}
