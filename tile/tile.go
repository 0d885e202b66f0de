// Package tile provides common tile types and interfaces shared by the cache formats.
package tile

// MaxZoom is the highest zoom level representable by ID.
const MaxZoom = 31

// EtagSuffix marks cache-validation sidecar files stored next to tile files.
const EtagSuffix = ".etag"

// ID represents tile coordinates in the XYZ scheme (Tiled web map):
// the row is counted from the top of the map.
type ID struct {
	X uint32
	Y uint32
	Z uint32
}

func (t ID) Valid() bool {
	return t.Z <= MaxZoom && t.X < (1<<t.Z) && t.Y < (1<<t.Z)
}

// FlipY converts a row between the top-origin (XYZ) and the bottom-origin (TMS)
// conventions at the given zoom. Applying it twice returns the original row.
func FlipY(z, y uint32) uint32 {
	return (1<<z - 1) - y
}

// Flipped returns the tile with its row converted by FlipY.
func (t ID) Flipped() ID {
	return ID{X: t.X, Y: FlipY(t.Z, t.Y), Z: t.Z}
}

// Descriptor locates a single tile file found while walking a cache tree.
type Descriptor struct {
	ID   ID
	Path string
}

// Writer defines an interface for writing tiles to a tileset.
type Writer interface {
	// WriteTile writes a single tile to the tileset.
	WriteTile(tileID ID, tileData []byte) error

	// Finalize completes the writing process.
	// It must be called before closing the Writer.
	Finalize() error
}

type Visitor interface {
	// VisitTiles visits all tiles in the tileset, calling the visitor for each.
	// It returns an error if visiting fails.
	VisitTiles(visitor func(ID, []byte) error) error
}

// PathVisitor is implemented by file-based tilesets that can enumerate
// tile files without reading them.
type PathVisitor interface {
	VisitPaths(visitor func(Descriptor) error) error
}
