package legacy

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/eak1mov/go-vikcache/tile"
)

// Reader walks the tiles of a single tileset in a legacy cache directory.
// It implements tile.Visitor and tile.PathVisitor.
type Reader struct {
	rootDir   string
	tilesetID int
	onSkip    func(path string)
}

type ReaderOption func(*Reader)

// WithSkipHandler registers a callback for entries ignored because they do not
// look like cache tiles (temporary files, foreign directories, out of range names).
func WithSkipHandler(onSkip func(path string)) ReaderOption {
	return func(r *Reader) { r.onSkip = onSkip }
}

func NewReader(rootDir string, tilesetID int, opts ...ReaderOption) *Reader {
	r := &Reader{
		rootDir:   rootDir,
		tilesetID: tilesetID,
		onSkip:    func(string) {},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// VisitPaths calls visitor for every tile file of the tileset, in directory order.
func (r *Reader) VisitPaths(visitor func(tile.Descriptor) error) error {
	entries, err := os.ReadDir(r.rootDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		tilesetID, storedZoom, ok := ParseDirName(entry.Name())
		if !ok || tilesetID != r.tilesetID {
			continue // other tilesets and unrelated files share the cache root
		}
		dirPath := filepath.Join(r.rootDir, entry.Name())
		z := InvertZoom(storedZoom)
		if !entry.IsDir() || z < 0 || z > tile.MaxZoom {
			r.onSkip(dirPath)
			continue
		}
		if err := r.visitZoom(dirPath, uint32(z), visitor); err != nil {
			return err
		}
	}

	return nil
}

func (r *Reader) visitZoom(dirPath string, z uint32, visitor func(tile.Descriptor) error) error {
	columns, err := os.ReadDir(dirPath)
	if err != nil {
		return err
	}

	for _, column := range columns {
		columnPath := filepath.Join(dirPath, column.Name())
		x, ok := parseCoord(column.Name(), z)
		if !column.IsDir() || !ok {
			r.onSkip(columnPath)
			continue
		}

		rows, err := os.ReadDir(columnPath)
		if err != nil {
			return err
		}

		for _, row := range rows {
			rowPath := filepath.Join(columnPath, row.Name())
			if strings.HasSuffix(row.Name(), tile.EtagSuffix) {
				continue
			}
			y, ok := parseCoord(row.Name(), z)
			if !row.Type().IsRegular() || !ok {
				r.onSkip(rowPath)
				continue
			}
			descriptor := tile.Descriptor{ID: tile.ID{X: x, Y: y, Z: z}, Path: rowPath}
			if err := visitor(descriptor); err != nil {
				return err
			}
		}
	}

	return nil
}

// VisitTiles calls visitor with the contents of every tile file of the tileset.
func (r *Reader) VisitTiles(visitor func(tile.ID, []byte) error) error {
	return r.VisitPaths(func(d tile.Descriptor) error {
		tileData, err := os.ReadFile(d.Path)
		if err != nil {
			return err
		}
		return visitor(d.ID, tileData)
	})
}
