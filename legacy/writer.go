package legacy

import (
	"os"
	"path/filepath"

	"github.com/eak1mov/go-vikcache/tile"
)

// Writer implements tile.Writer interface for the legacy cache layout.
type Writer struct {
	rootDir   string
	tilesetID int
	force     bool
	preserved int
}

type WriterOption func(*Writer)

// WithForce makes the writer replace tiles that already exist.
func WithForce(force bool) WriterOption {
	return func(w *Writer) { w.force = force }
}

func NewWriter(rootDir string, tilesetID int, opts ...WriterOption) *Writer {
	w := &Writer{rootDir: rootDir, tilesetID: tilesetID}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteTile stores tileData as the tile file. An existing file is left as is
// unless the writer was created with WithForce.
func (w *Writer) WriteTile(tileID tile.ID, tileData []byte) error {
	filePath := TilePath(w.rootDir, w.tilesetID, tileID)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}

	if !w.force {
		if _, err := os.Lstat(filePath); err == nil {
			w.preserved++
			return nil
		}
	}

	return os.WriteFile(filePath, tileData, 0644)
}

// Preserved returns the number of tiles kept because they already existed.
func (w *Writer) Preserved() int {
	return w.preserved
}

func (w *Writer) Finalize() error {
	return nil
}
