// Package legacy provides API for reading and writing tiles in the legacy Viking
// cache layout, where tiles are stored as "/t<id>s<17-z>z0/x/y" files without extension.
package legacy

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/eak1mov/go-vikcache/tile"
)

// ZoomBase is the constant the legacy layout subtracts zoom levels from.
const ZoomBase = 17

// dirPattern matches tileset directories; the stored zoom may be negative.
var dirPattern = regexp.MustCompile(`^t(\d+)s(-?\d+)z\d+$`)

// InvertZoom converts between real and stored zoom levels. It is its own inverse.
func InvertZoom(z int) int {
	return ZoomBase - z
}

// ParseDirName splits a tileset directory name into its tileset id and stored zoom.
func ParseDirName(name string) (tilesetID int, storedZoom int, ok bool) {
	m := dirPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, false
	}
	tilesetID, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	storedZoom, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	return tilesetID, storedZoom, true
}

// DirName returns the tileset directory name holding tiles of the given real zoom.
func DirName(tilesetID int, z uint32) string {
	return fmt.Sprintf("t%ds%dz0", tilesetID, InvertZoom(int(z)))
}

// TilePath returns the path of the tile file under rootDir.
func TilePath(rootDir string, tilesetID int, tileID tile.ID) string {
	return filepath.Join(
		rootDir,
		DirName(tilesetID, tileID.Z),
		strconv.FormatUint(uint64(tileID.X), 10),
		strconv.FormatUint(uint64(tileID.Y), 10),
	)
}

// IsDigits reports whether name is a non-empty string of ASCII digits,
// which is how the cache names column directories and row files.
func IsDigits(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// parseCoord parses a digit-only column or row name that must fit the zoom.
func parseCoord(name string, z uint32) (uint32, bool) {
	if !IsDigits(name) {
		return 0, false
	}
	v, err := strconv.ParseUint(name, 10, 32)
	if err != nil || v >= 1<<z {
		return 0, false
	}
	return uint32(v), true
}
