package convert

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/eak1mov/go-vikcache/legacy"
	"github.com/eak1mov/go-vikcache/mb"
	"github.com/eak1mov/go-vikcache/tile"
)

// LegacyToStore exports one tileset of the legacy cache rooted at src into a
// new MBTiles file dst. Rows are flipped since the store counts them from the bottom.
func (c *Converter) LegacyToStore(ctx context.Context, src, dst string) (stats Stats, err error) {
	t := newTracker(c.reporter)

	if err := c.requireDir(src); err != nil {
		return Stats{}, err
	}

	writer, err := mb.NewWriter(dst,
		mb.WithLogger(c.logger),
		mb.WithMetadata(map[string]string{
			"name":        c.tilesetName(),
			"description": fmt.Sprintf("Viking cache tileset %d", c.tilesetID),
		}),
	)
	if errors.Is(err, mb.ErrExists) {
		err = fmt.Errorf("%w: %s", ErrDestinationExists, dst)
		t.report(KindConflict, err.Error())
		return Stats{}, err
	}
	if err != nil {
		t.report(KindStore, err.Error())
		return Stats{}, fmt.Errorf("%w: %w", ErrStore, err)
	}
	defer func() {
		err = errors.Join(err, writer.Close())
	}()

	t.begin(-1)
	reader := legacy.NewReader(src, c.tilesetID, legacy.WithSkipHandler(t.skipped))
	err = reader.VisitTiles(func(tileID tile.ID, tileData []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writer.WriteTile(tileID, tileData); err != nil {
			return err
		}
		t.converted()
		return nil
	})
	if errors.Is(err, mb.ErrDuplicateTile) {
		t.report(KindDuplicate, err.Error())
	}
	if err != nil {
		return t.result(), err
	}

	stats = t.result()
	c.logger.Info("total tiles inserted", zap.Int("tiles", stats.Tiles), zap.Int("skipped", stats.Skipped))

	if stats.Tiles == 0 {
		t.report(KindNoTiles, "no tiles inserted: this method only works with the legacy Viking cache layout")
		return stats, nil
	}

	if err := writer.Finalize(); err != nil {
		return stats, err
	}
	if !c.config.SkipOptimize {
		c.logger.Info("optimizing")
		if err := writer.Optimize(); err != nil {
			return stats, err
		}
	}

	return t.result(), nil
}

// StoreToLegacy imports every tile of the MBTiles file src into the legacy
// cache rooted at dst under the configured tileset id.
func (c *Converter) StoreToLegacy(ctx context.Context, src, dst string) (Stats, error) {
	t := newTracker(c.reporter)

	if info, err := os.Stat(src); err != nil || info.IsDir() {
		err = fmt.Errorf("%w: store file %q not found", ErrInvalidConfig, src)
		t.report(KindConfig, err.Error())
		return Stats{}, err
	}

	reader, err := mb.NewReader(src)
	if err != nil {
		t.report(KindStore, err.Error())
		return Stats{}, fmt.Errorf("%w: %w", ErrStore, err)
	}
	defer reader.Close()

	total, err := reader.Count()
	if err != nil {
		t.report(KindStore, err.Error())
		return Stats{}, fmt.Errorf("%w: %w", ErrStore, err)
	}
	c.logger.Debug("importing", zap.Int("total", total))
	t.begin(total)

	if err := os.MkdirAll(dst, 0755); err != nil {
		return Stats{}, err
	}

	writer := legacy.NewWriter(dst, c.tilesetID, legacy.WithForce(c.config.Force))
	err = reader.VisitTiles(func(tileID tile.ID, tileData []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		preserved := writer.Preserved()
		if err := writer.WriteTile(tileID, tileData); err != nil {
			return err
		}
		if writer.Preserved() > preserved {
			t.preserved(1)
		} else {
			t.converted()
		}
		return nil
	})
	if err != nil {
		return t.result(), err
	}
	if err := writer.Finalize(); err != nil {
		return t.result(), err
	}

	stats := t.result()
	c.logger.Info("total tiles imported",
		zap.Int("tiles", stats.Tiles),
		zap.Int("total", total),
		zap.Int("preserved", stats.Preserved),
	)
	return stats, nil
}

func (c *Converter) tilesetName() string {
	if legacy.KnownTileset(c.tilesetID) {
		return legacy.TilesetName(c.tilesetID)
	}
	return fmt.Sprintf("tileset-%d", c.tilesetID)
}
