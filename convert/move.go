package convert

import (
	"cmp"
	"context"
	"errors"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/eak1mov/go-vikcache/tile"
)

// column is a batch of tiles sharing a source directory.
type column struct {
	dir   string
	tiles []tile.Descriptor
}

// relocate moves every tile yielded by walker to target(tileID), together with
// its etag sidecar. Columns are handed to at most Workers goroutines; within a
// column the destination directory is created before any file is placed.
// Source columns sharing a destination column are moved one at a time.
// Emptied source directories below stopDir are removed afterwards.
func (c *Converter) relocate(ctx context.Context, t *tracker, walker tile.PathVisitor, target func(tile.ID) string, stopDir string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.workers())

	var locks columnLocks
	sourceDirs := make(map[string]struct{})
	var current column
	flush := func() {
		if len(current.tiles) == 0 {
			return
		}
		batch := current
		g.Go(func() error {
			unlock := locks.lock(filepath.Dir(target(batch.tiles[0].ID)))
			defer unlock()
			return moveColumn(ctx, t, batch, target, c.config.Force)
		})
		current = column{}
	}

	var walkErr error
	for d, err := range tile.IterDescriptors(walker) {
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			walkErr = err
			break
		}
		dir := filepath.Dir(d.Path)
		if dir != current.dir {
			flush()
			current.dir = dir
			sourceDirs[dir] = struct{}{}
		}
		current.tiles = append(current.tiles, d)
	}
	flush()

	if err := errors.Join(walkErr, g.Wait()); err != nil {
		return err
	}

	removeEmptyDirs(sourceDirs, stopDir)
	return nil
}

// columnLocks serialises moves into the same destination directory. Legacy
// directories of one tileset may decode to the same zoom, so distinct source
// columns can share a destination column.
type columnLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *columnLocks) lock(dir string) (unlock func()) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[dir]
	if !ok {
		m = &sync.Mutex{}
		l.locks[dir] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func moveColumn(ctx context.Context, t *tracker, batch column, target func(tile.ID) string, force bool) error {
	if len(batch.tiles) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(target(batch.tiles[0].ID)), 0755); err != nil {
		return err
	}

	for _, d := range batch.tiles {
		if err := ctx.Err(); err != nil {
			return err
		}
		dst := target(d.ID)
		moved, err := moveFile(d.Path, dst, force)
		if err != nil {
			return err
		}
		if !moved {
			t.preserved(1)
			continue
		}
		if _, err := moveFile(d.Path+tile.EtagSuffix, dst+tile.EtagSuffix, force); err != nil && !os.IsNotExist(err) {
			return err
		}
		t.converted()
	}
	return nil
}

// moveFile renames src to dst. An existing dst is kept, and src left in
// place, unless force is set.
func moveFile(src, dst string, force bool) (bool, error) {
	if !force {
		if _, err := os.Lstat(dst); err == nil {
			return false, nil
		}
	}

	err := os.Rename(src, dst)
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		err = copyFile(src, dst)
		if err == nil {
			err = os.Remove(src)
		}
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, out.Close())
	}()

	_, err = io.Copy(out, in)
	return err
}

// removeEmptyDirs removes the given directories and their parents up to,
// but excluding, stopDir. Non-empty directories are left in place.
func removeEmptyDirs(dirs map[string]struct{}, stopDir string) {
	stopDir = filepath.Clean(stopDir)
	candidates := make(map[string]struct{})
	for dir := range dirs {
		for dir = filepath.Clean(dir); below(stopDir, dir); dir = filepath.Dir(dir) {
			candidates[dir] = struct{}{}
		}
	}

	// Deepest first so that parents are empty by the time they are visited.
	ordered := slices.SortedFunc(maps.Keys(candidates), func(a, b string) int {
		return cmp.Compare(strings.Count(b, string(filepath.Separator)), strings.Count(a, string(filepath.Separator)))
	})
	for _, dir := range ordered {
		os.Remove(dir)
	}
}

// below reports whether dir lies strictly inside root.
func below(root, dir string) bool {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
