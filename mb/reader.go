// Package mb provides API for reading and writing tiles and metadata in MBTiles format,
// the single-file indexed store used as an exchange format for the legacy cache.
//
// Files are accessed through the "sqlite3" database/sql driver registered
// by github.com/mattn/go-sqlite3.
package mb

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/eak1mov/go-vikcache/tile"
)

// Reader implements tile.Visitor interface for MBTiles format.
type Reader struct {
	db   *sql.DB
	stmt *sql.Stmt
}

// NewReader opens the given MBTiles file read-only.
// A missing or unreadable file is reported here rather than on first use.
//
// The returned Reader must be closed after use to release database resources.
func NewReader(filePath string) (*Reader, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", filePath))
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	stmt, err := db.Prepare("SELECT tile_data FROM tiles WHERE zoom_level = ? AND tile_column = ? AND tile_row = ?")
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Reader{db: db, stmt: stmt}, nil
}

func (r *Reader) Close() error {
	return errors.Join(r.stmt.Close(), r.db.Close())
}

func (r *Reader) ReadMetadata() (map[string]string, error) {
	metadata := make(map[string]string)

	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		metadata[name] = value
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return metadata, nil
}

// Count returns the number of stored tiles.
func (r *Reader) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT count(zoom_level) FROM tiles").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Reader) ReadTile(tileID tile.ID) ([]byte, error) {
	x, y, z := tileID.X, tile.FlipY(tileID.Z, tileID.Y), tileID.Z // XYZ -> TMS

	var tileData []byte
	if err := r.stmt.QueryRow(z, x, y).Scan(&tileData); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return make([]byte, 0), nil
		}
		return nil, err
	}

	return tileData, nil
}

// VisitTiles visits stored tiles with rows converted to the XYZ scheme.
// Rows with coordinates outside their zoom level are reported as errors.
func (r *Reader) VisitTiles(visitor func(tile.ID, []byte) error) error {
	rows, err := r.db.Query("SELECT zoom_level, tile_column, tile_row, tile_data FROM tiles")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var x, y, z uint32
		var tileData []byte

		if err := rows.Scan(&z, &x, &y, &tileData); err != nil {
			return err
		}

		tileID := tile.ID{X: x, Y: y, Z: z}
		if !tileID.Valid() {
			return fmt.Errorf("vikcache: invalid tile in store: %v", tileID)
		}

		if err := visitor(tileID.Flipped(), tileData); err != nil { // TMS -> XYZ
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return err
	}

	return nil
}
