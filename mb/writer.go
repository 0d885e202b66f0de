package mb

import (
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/mattn/go-sqlite3"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"go.uber.org/zap"

	"github.com/eak1mov/go-vikcache/tile"
)

var (
	// ErrExists is returned by NewWriter when the target file is already present.
	ErrExists = errors.New("vikcache: mbtiles file already exists")

	// ErrDuplicateTile is returned by WriteTile when the coordinate is already stored.
	ErrDuplicateTile = errors.New("vikcache: duplicate tile")
)

const (
	// batchSize is the number of inserts grouped in one transaction.
	batchSize = 1000

	defaultFormat = "png"
	version       = "1.1"
)

// Writer implements tile.Writer interface for MBTiles format.
// Tiles are addressed in the XYZ scheme and stored with TMS rows.
type Writer struct {
	db     *sql.DB
	tx     *sql.Tx
	stmt   *sql.Stmt
	logger *zap.Logger

	metadata map[string]string
	pending  int
	count    int
	minZoom  uint32
	maxZoom  uint32
	bound    orb.Bound
	format   string
}

type writerConfig struct {
	Metadata map[string]string
	Logger   *zap.Logger
}

type WriterOption func(*writerConfig)

// WithMetadata sets metadata rows. They take precedence over the values
// the writer derives from the written tiles.
func WithMetadata(metadata map[string]string) WriterOption {
	return func(c *writerConfig) { c.Metadata = metadata }
}

func WithLogger(logger *zap.Logger) WriterOption {
	return func(c *writerConfig) { c.Logger = logger }
}

// NewWriter creates a new MBTiles file and prepares it for a bulk load.
// It fails with ErrExists if the file is already present.
func NewWriter(filePath string, opts ...WriterOption) (*Writer, error) {
	config := writerConfig{
		Logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&config)
	}

	if _, err := os.Stat(filePath); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrExists, filePath)
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	var err error
	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	// Pragmas and the exclusive lock apply per connection.
	db.SetMaxOpenConns(1)

	if err = optimizeConnection(db); err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE tiles (
			zoom_level INTEGER,
			tile_column INTEGER,
			tile_row INTEGER,
			tile_data BLOB
		);
		CREATE TABLE metadata (name TEXT, value TEXT);
		CREATE UNIQUE INDEX name ON metadata (name);
		CREATE UNIQUE INDEX tile_index ON tiles (zoom_level, tile_column, tile_row);
	`)
	if err != nil {
		return nil, err
	}

	return &Writer{
		db:       db,
		logger:   config.Logger,
		metadata: config.Metadata,
	}, nil
}

func optimizeConnection(db *sql.DB) error {
	for _, pragma := range []string{
		"PRAGMA synchronous=0",
		"PRAGMA locking_mode=EXCLUSIVE",
		"PRAGMA journal_mode=DELETE",
	} {
		if _, err := db.Exec(pragma); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) begin() error {
	tx, err := w.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO tiles (zoom_level, tile_column, tile_row, tile_data) VALUES (?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	w.tx, w.stmt = tx, stmt
	return nil
}

func (w *Writer) commit() error {
	if w.tx == nil {
		return nil
	}
	err := errors.Join(w.stmt.Close(), w.tx.Commit())
	w.tx, w.stmt, w.pending = nil, nil, 0
	return err
}

func (w *Writer) WriteTile(tileID tile.ID, tileData []byte) error {
	if w.tx == nil {
		if err := w.begin(); err != nil {
			return err
		}
	}

	x, y, z := tileID.X, tile.FlipY(tileID.Z, tileID.Y), tileID.Z // XYZ -> TMS

	if _, err := w.stmt.Exec(z, x, y, tileData); err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%w: zoom %d column %d row %d: %w", ErrDuplicateTile, z, x, y, err)
		}
		return err
	}

	w.track(tileID, tileData)

	w.pending++
	if w.pending >= batchSize {
		return w.commit()
	}
	return nil
}

func (w *Writer) track(tileID tile.ID, tileData []byte) {
	bound := maptile.New(tileID.X, tileID.Y, maptile.Zoom(tileID.Z)).Bound()
	if w.count == 0 {
		w.minZoom, w.maxZoom, w.bound = tileID.Z, tileID.Z, bound
		w.format = strings.TrimPrefix(mimetype.Detect(tileData).Extension(), ".")
	} else {
		w.minZoom = min(w.minZoom, tileID.Z)
		w.maxZoom = max(w.maxZoom, tileID.Z)
		w.bound = w.bound.Union(bound)
	}
	w.count++
}

// Count returns the number of tiles written so far.
func (w *Writer) Count() int {
	return w.count
}

func (w *Writer) derivedMetadata() map[string]string {
	format := w.format
	if format == "" {
		format = defaultFormat
	}
	metadata := map[string]string{
		"type":    "baselayer",
		"version": version,
		"format":  format,
	}
	if w.count > 0 {
		center := w.bound.Center()
		metadata["minzoom"] = strconv.Itoa(int(w.minZoom))
		metadata["maxzoom"] = strconv.Itoa(int(w.maxZoom))
		metadata["bounds"] = fmt.Sprintf("%f,%f,%f,%f", w.bound.Left(), w.bound.Bottom(), w.bound.Right(), w.bound.Top())
		metadata["center"] = fmt.Sprintf("%f,%f,%d", center.X(), center.Y(), w.minZoom)
	}
	maps.Copy(metadata, w.metadata)
	return metadata
}

// Finalize commits pending tiles, writes metadata and refreshes the query
// planner statistics.
func (w *Writer) Finalize() error {
	if err := w.commit(); err != nil {
		return err
	}

	w.logger.Debug("writing metadata")
	metadata := w.derivedMetadata()
	for _, name := range slices.Sorted(maps.Keys(metadata)) {
		_, err := w.db.Exec("INSERT INTO metadata (name, value) VALUES (?, ?)", name, metadata[name])
		if err != nil {
			return err
		}
	}

	w.logger.Debug("analyzing db")
	_, err := w.db.Exec("ANALYZE")
	return err
}

// Optimize reclaims free pages. It is housekeeping only and may be skipped.
func (w *Writer) Optimize() error {
	if err := w.commit(); err != nil {
		return err
	}
	w.logger.Debug("cleaning db")
	_, err := w.db.Exec("VACUUM")
	return err
}

// Close commits tiles written since the last batch and closes the database.
// Tiles inserted before a failure are kept.
func (w *Writer) Close() error {
	return errors.Join(w.commit(), w.db.Close())
}
