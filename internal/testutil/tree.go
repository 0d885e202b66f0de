// Package testutil builds and inspects synthetic tile cache trees in tests.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/eak1mov/go-vikcache/tile"
)

// WriteTree creates files under rootDir. Keys are slash-separated relative paths.
func WriteTree(t testing.TB, rootDir string, files map[string][]byte) {
	t.Helper()

	for name, data := range files {
		filePath := filepath.Join(rootDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filePath, data, 0644); err != nil {
			t.Fatal(err)
		}
	}
}

// ReadTree returns every regular file under rootDir keyed by slash-separated
// relative path. A missing rootDir yields an empty map.
func ReadTree(t testing.TB, rootDir string) map[string][]byte {
	t.Helper()

	files := make(map[string][]byte)
	err := filepath.WalkDir(rootDir, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && filePath == rootDir {
				return filepath.SkipDir
			}
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(rootDir, filePath)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(filePath)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = data
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return files
}

// Dirs returns every directory under rootDir (excluding rootDir itself)
// as slash-separated relative paths.
func Dirs(t testing.TB, rootDir string) []string {
	t.Helper()

	var dirs []string
	err := filepath.WalkDir(rootDir, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && filePath != rootDir {
			rel, err := filepath.Rel(rootDir, filePath)
			if err != nil {
				return err
			}
			dirs = append(dirs, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return dirs
}

// ReadTiles returns the contents of every tile enumerated by v.
func ReadTiles(t testing.TB, v tile.PathVisitor) map[tile.ID][]byte {
	t.Helper()

	tiles := make(map[tile.ID][]byte)
	err := v.VisitPaths(func(d tile.Descriptor) error {
		data, err := os.ReadFile(d.Path)
		if err != nil {
			return err
		}
		tiles[d.ID] = data
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return tiles
}
