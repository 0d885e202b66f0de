package convert

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/eak1mov/go-vikcache/legacy"
	"github.com/eak1mov/go-vikcache/tile"
	"github.com/eak1mov/go-vikcache/xyz"
)

// LegacyToStandard moves one tileset of the legacy cache rooted at src into the
// standard "z/x/y.png" layout under dst. Only the zoom is converted: both
// layouts count rows from the top, so rows keep their numbers.
//
// When dst is the default cache root itself, the tileset name is appended to it.
func (c *Converter) LegacyToStandard(ctx context.Context, src, dst string) (Stats, error) {
	t := newTracker(c.reporter)

	destRoot, err := c.standardRoot(dst)
	if err != nil {
		t.report(KindConfig, err.Error())
		return Stats{}, err
	}
	if err := c.requireDir(src); err != nil {
		return Stats{}, err
	}

	c.logger.Debug("moving tiles", zap.String("dst", destRoot))

	t.begin(-1)
	reader := legacy.NewReader(src, c.tilesetID, legacy.WithSkipHandler(t.skipped))
	target := func(tileID tile.ID) string {
		return xyz.TilePath(destRoot, tileID)
	}
	if err := c.relocate(ctx, t, reader, target, src); err != nil {
		return t.result(), err
	}

	stats := t.result()
	c.logger.Info("total tiles moved", zap.Int("tiles", stats.Tiles), zap.Int("preserved", stats.Preserved))
	return stats, nil
}

// StandardToLegacy moves tiles from the standard layout rooted at src into the
// legacy cache rooted at dst under the configured tileset id.
func (c *Converter) StandardToLegacy(ctx context.Context, src, dst string) (Stats, error) {
	t := newTracker(c.reporter)

	if err := c.requireDir(src); err != nil {
		return Stats{}, err
	}

	reader, err := xyz.NewDirReader(src, xyz.WithSkipHandler(t.skipped))
	if err != nil {
		return Stats{}, err
	}
	t.begin(-1)
	target := func(tileID tile.ID) string {
		return legacy.TilePath(dst, c.tilesetID, tileID)
	}
	if err := c.relocate(ctx, t, reader, target, src); err != nil {
		return t.result(), err
	}

	stats := t.result()
	c.logger.Info("total tiles moved", zap.Int("tiles", stats.Tiles), zap.Int("preserved", stats.Preserved))
	return stats, nil
}

// standardRoot resolves the destination of LegacyToStandard. It never touches
// the filesystem, so a failure leaves both trees unchanged.
func (c *Converter) standardRoot(dst string) (string, error) {
	defaultDir := c.config.DefaultCacheDir
	if defaultDir == "" || filepath.Clean(dst) != filepath.Clean(defaultDir) {
		return dst, nil
	}
	if !legacy.KnownTileset(c.tilesetID) {
		return "", fmt.Errorf("%w: tileset %d", ErrUnknownTileset, c.tilesetID)
	}
	return filepath.Join(dst, legacy.TilesetName(c.tilesetID)), nil
}

