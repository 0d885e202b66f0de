package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/eak1mov/go-vikcache/convert"
	"github.com/eak1mov/go-vikcache/internal/logger"
)

// exitUnknownTileset is returned when the standard layout destination
// cannot be named automatically.
const exitUnknownTileset subcommands.ExitStatus = 3

var synopses = map[convert.Mode]string{
	convert.LegacyToStore:    "export a legacy Viking cache tileset to an MBTiles file",
	convert.StoreToLegacy:    "import an MBTiles file into a legacy Viking cache",
	convert.LegacyToStandard: "move a legacy Viking cache tileset to the z/x/y.png layout",
	convert.StandardToLegacy: "move a z/x/y.png tree into a legacy Viking cache",
}

type modeCmd struct {
	mode     convert.Mode
	settings settings
	stderr   io.Writer

	tilesetID    string
	force        bool
	skipOptimize bool
	workers      int
}

func newModeCmd(mode convert.Mode, settings settings) *modeCmd {
	return &modeCmd{mode: mode, settings: settings, stderr: os.Stderr}
}

func (c *modeCmd) Name() string     { return c.mode.String() }
func (c *modeCmd) Synopsis() string { return synopses[c.mode] }
func (c *modeCmd) Usage() string {
	switch c.mode {
	case convert.LegacyToStore:
		return "vikcache vlc2mbtiles [-t <id>] [-n] <cache dir> <output.mbtiles>\n"
	case convert.StoreToLegacy:
		return "vikcache mbtiles2vlc [-t <id>] [-f] <input.mbtiles> <cache dir>\n"
	default:
		return fmt.Sprintf("vikcache %s [-t <id>] [-f] [-j <n>] <input dir> <output dir>\n", c.mode)
	}
}

func (c *modeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tilesetID, "t", c.settings.TilesetID, "Tileset id of the legacy cache")
	switch c.mode {
	case convert.LegacyToStore:
		f.BoolVar(&c.skipOptimize, "n", false, "Do not optimize the MBTiles file")
	case convert.StoreToLegacy:
		f.BoolVar(&c.force, "f", false, "Overwrite existing tiles")
	default:
		f.BoolVar(&c.force, "f", false, "Overwrite existing tiles")
		f.IntVar(&c.workers, "j", c.settings.Workers, "Number of columns moved concurrently")
	}
}

func (c *modeCmd) config() convert.Config {
	config := convert.DefaultConfig()
	config.Mode = c.mode
	config.TilesetID = c.tilesetID
	config.Force = c.force
	config.SkipOptimize = c.skipOptimize
	config.Workers = c.workers
	config.DefaultCacheDir = c.settings.CacheDir
	return config
}

func (c *modeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprint(c.stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	src, dst := f.Arg(0), f.Arg(1)

	log, err := logger.New(c.settings.LogLevel)
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		return subcommands.ExitFailure
	}
	defer log.Sync()

	reporter := newBarReporter(c.stderr, c.mode.String(), log)
	stats, err := convert.Run(ctx, c.config(), src, dst,
		convert.WithReporter(reporter),
		convert.WithLogger(log),
	)
	reporter.finish(stats)
	fmt.Fprintln(c.stderr)

	if err != nil {
		log.Error("conversion failed", zap.Error(err))
		return exitStatus(err)
	}

	log.Info("done",
		zap.Int("tiles", stats.Tiles),
		zap.Int("skipped", stats.Skipped),
		zap.Int("preserved", stats.Preserved),
		zap.Duration("elapsed", stats.Elapsed),
	)
	return subcommands.ExitSuccess
}

func exitStatus(err error) subcommands.ExitStatus {
	switch {
	case err == nil:
		return subcommands.ExitSuccess
	case errors.Is(err, convert.ErrUnknownTileset):
		return exitUnknownTileset
	default:
		return subcommands.ExitFailure
	}
}
