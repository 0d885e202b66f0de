package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/eak1mov/go-vikcache/legacy"
)

// Mode selects one of the four conversions performed by a run.
type Mode int

const (
	ModeUnset Mode = iota
	LegacyToStore
	StoreToLegacy
	LegacyToStandard
	StandardToLegacy
)

var modeNames = map[Mode]string{
	LegacyToStore:    "vlc2mbtiles",
	StoreToLegacy:    "mbtiles2vlc",
	LegacyToStandard: "vlc2osm",
	StandardToLegacy: "osm2vlc",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "none"
}

// ParseMode returns the mode with the given command-line name.
func ParseMode(name string) (Mode, error) {
	for mode, modeName := range modeNames {
		if modeName == name {
			return mode, nil
		}
	}
	return ModeUnset, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, name)
}

// Config enumerates the options recognised by a conversion run.
type Config struct {
	// TilesetID is the map source id embedded in legacy directory names.
	TilesetID string
	// Force replaces existing destination tiles.
	Force bool
	// SkipOptimize disables VACUUM after exporting to the store.
	SkipOptimize bool
	Mode         Mode
	// Workers bounds the number of columns moved concurrently
	// in the standard layout conversions. Values below 1 mean 1.
	Workers int
	// DefaultCacheDir is the cache root that triggers automatic naming
	// of the standard layout destination.
	DefaultCacheDir string
}

// DefaultCacheDir returns the cache root the application uses by default.
func DefaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".viking-maps"
	}
	return filepath.Join(home, ".viking-maps")
}

func DefaultConfig() Config {
	return Config{
		TilesetID:       strconv.Itoa(legacy.DefaultTilesetID),
		Workers:         1,
		DefaultCacheDir: DefaultCacheDir(),
	}
}

func (c Config) tilesetID() (int, error) {
	id, err := strconv.Atoi(c.TilesetID)
	if err != nil || id < 0 || !legacy.IsDigits(c.TilesetID) {
		return 0, fmt.Errorf("%w: invalid tileset id %q", ErrInvalidConfig, c.TilesetID)
	}
	return id, nil
}

func (c Config) workers() int {
	return max(c.Workers, 1)
}
