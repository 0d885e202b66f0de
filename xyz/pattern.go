// Package xyz provides API for reading tiles in XYZ directory format (the OSM
// "on disk" layout), where tiles are stored as individual files with paths like "/z/x/y.png".
package xyz

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/eak1mov/go-vikcache/tile"
)

// TileExt is the file extension of tiles in the standard layout.
const TileExt = ".png"

// DefaultPattern is the layout relative to the tiles root directory.
var DefaultPattern = filepath.Join("{z}", "{x}", "{y}"+TileExt)

var ErrInvalidPattern = errors.New("vikcache: invalid file pattern")

func validatePattern(pattern string) error {
	for _, p := range []string{"{x}", "{y}", "{z}"} {
		if !strings.Contains(pattern, p) {
			return fmt.Errorf("%w: placeholder %v not found", ErrInvalidPattern, p)
		}
	}
	return nil
}

func formatPattern(pattern string, tileID tile.ID) string {
	result := pattern
	result = strings.ReplaceAll(result, "{x}", fmt.Sprintf("%d", tileID.X))
	result = strings.ReplaceAll(result, "{y}", fmt.Sprintf("%d", tileID.Y))
	result = strings.ReplaceAll(result, "{z}", fmt.Sprintf("%d", tileID.Z))
	return result
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	regexPattern := regexp.QuoteMeta(pattern)
	regexPattern = strings.ReplaceAll(regexPattern, `\{x\}`, `(?P<x>\d+)`)
	regexPattern = strings.ReplaceAll(regexPattern, `\{y\}`, `(?P<y>\d+)`)
	regexPattern = strings.ReplaceAll(regexPattern, `\{z\}`, `(?P<z>\d+)`)
	pathRegexp, err := regexp.Compile("^" + regexPattern + "$")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	return pathRegexp, nil
}

// TilePath returns the path of the tile under rootDir in the default layout.
func TilePath(rootDir string, tileID tile.ID) string {
	return formatPattern(filepath.Join(rootDir, DefaultPattern), tileID)
}
