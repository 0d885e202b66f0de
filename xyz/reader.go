package xyz

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/eak1mov/go-vikcache/tile"
)

// Reader implements tile.PathVisitor interface for tiles in XYZ format.
type Reader struct {
	rootDir    string
	pathRegexp *regexp.Regexp
	onSkip     func(path string)
}

type ReaderOption func(*Reader)

// WithSkipHandler registers a callback for files that do not match the pattern
// or whose coordinates do not fit their zoom level. Etag sidecars are not reported.
func WithSkipHandler(onSkip func(path string)) ReaderOption {
	return func(r *Reader) { r.onSkip = onSkip }
}

// NewReader creates a new Reader for the given file pattern (e.g. "/home/user/tiles/{z}/{x}/{y}.png").
func NewReader(filePattern string, opts ...ReaderOption) (*Reader, error) {
	if err := validatePattern(filePattern); err != nil {
		return nil, err
	}

	pathRegexp, err := compilePattern(filePattern)
	if err != nil {
		return nil, err
	}

	path0 := formatPattern(filePattern, tile.ID{X: 0, Y: 0, Z: 0})
	path1 := formatPattern(filePattern, tile.ID{X: 1, Y: 1, Z: 1})
	for path0 != path1 {
		path0 = filepath.Dir(path0)
		path1 = filepath.Dir(path1)
	}

	r := &Reader{
		rootDir:    path0,
		pathRegexp: pathRegexp,
		onSkip:     func(string) {},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// NewDirReader creates a Reader for the default layout under rootDir.
func NewDirReader(rootDir string, opts ...ReaderOption) (*Reader, error) {
	return NewReader(filepath.Join(rootDir, DefaultPattern), opts...)
}

func (r *Reader) VisitPaths(visitor func(tile.Descriptor) error) error {
	return filepath.WalkDir(r.rootDir, func(filePath string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || strings.HasSuffix(filePath, tile.EtagSuffix) {
			return nil
		}

		matches := r.pathRegexp.FindStringSubmatch(filePath)
		if matches == nil {
			r.onSkip(filePath)
			return nil
		}

		x, errX := strconv.ParseUint(matches[r.pathRegexp.SubexpIndex("x")], 10, 32)
		y, errY := strconv.ParseUint(matches[r.pathRegexp.SubexpIndex("y")], 10, 32)
		z, errZ := strconv.ParseUint(matches[r.pathRegexp.SubexpIndex("z")], 10, 32)
		tileID := tile.ID{X: uint32(x), Y: uint32(y), Z: uint32(z)}
		if errX != nil || errY != nil || errZ != nil || !tileID.Valid() || !d.Type().IsRegular() {
			r.onSkip(filePath)
			return nil
		}

		return visitor(tile.Descriptor{ID: tileID, Path: filePath})
	})
}
