package legacy_test

import (
	"path/filepath"
	"testing"

	"github.com/eak1mov/go-vikcache/internal/testutil"
	"github.com/eak1mov/go-vikcache/legacy"
	"github.com/eak1mov/go-vikcache/tile"
	"github.com/google/go-cmp/cmp"
)

func TestInvertZoom(t *testing.T) {
	for _, tc := range []struct{ z, want int }{
		{17, 0},
		{0, 17},
		{13, 4},
		{19, -2},
	} {
		if got := legacy.InvertZoom(tc.z); got != tc.want {
			t.Errorf("InvertZoom(%v) = %v, want = %v", tc.z, got, tc.want)
		}
	}
	for z := -20; z <= 40; z++ {
		if got := legacy.InvertZoom(legacy.InvertZoom(z)); got != z {
			t.Errorf("InvertZoom(InvertZoom(%v)) = %v", z, got)
		}
	}
}

func TestParseDirName(t *testing.T) {
	for _, tc := range []struct {
		name       string
		tilesetID  int
		storedZoom int
		ok         bool
	}{
		{"t19s-2z0", 19, -2, true},
		{"t13s4z0", 13, 4, true},
		{"t212s17z3", 212, 17, true},
		{"t19s4", 0, 0, false},
		{"x19s4z0", 0, 0, false},
		{"t19s4z0.tmp", 0, 0, false},
		{"srtm", 0, 0, false},
	} {
		tilesetID, storedZoom, ok := legacy.ParseDirName(tc.name)
		if ok != tc.ok || tilesetID != tc.tilesetID || storedZoom != tc.storedZoom {
			t.Errorf("ParseDirName(%q) = (%v, %v, %v), want = (%v, %v, %v)",
				tc.name, tilesetID, storedZoom, ok, tc.tilesetID, tc.storedZoom, tc.ok)
		}
	}
}

func TestDirName(t *testing.T) {
	if got, want := legacy.DirName(19, 19), "t19s-2z0"; got != want {
		t.Errorf("DirName = %q, want = %q", got, want)
	}
	got := legacy.TilePath("/cache", 13, tile.ID{X: 5, Y: 7, Z: 4})
	if want := filepath.Join("/cache", "t13s13z0", "5", "7"); got != want {
		t.Errorf("TilePath = %q, want = %q", got, want)
	}
}

func TestIsDigits(t *testing.T) {
	for name, want := range map[string]bool{
		"0":        true,
		"12345":    true,
		"":         false,
		"12a":      false,
		"123.tmp":  false,
		"-1":       false,
		"tmp12345": false,
	} {
		if got := legacy.IsDigits(name); got != want {
			t.Errorf("IsDigits(%q) = %v, want = %v", name, got, want)
		}
	}
}

func TestTilesetName(t *testing.T) {
	for id, want := range map[int]string{
		13:  "OSM-Mapnik",
		17:  "OSM-Cycle",
		19:  "OSM-MapQuest",
		20:  "OSM-Transport",
		21:  "OSM-On-Disk",
		22:  "OSM-Humanitarian",
		212: "Bing-Aerial",
		600: "OpenSeaMap",
		999: legacy.UnknownTileset,
		0:   legacy.UnknownTileset,
	} {
		if got := legacy.TilesetName(id); got != want {
			t.Errorf("TilesetName(%v) = %q, want = %q", id, got, want)
		}
		if got := legacy.KnownTileset(id); got != (want != legacy.UnknownTileset) {
			t.Errorf("KnownTileset(%v) = %v", id, got)
		}
	}
}

func TestReaderSkipsNoise(t *testing.T) {
	rootDir := t.TempDir()
	testutil.WriteTree(t, rootDir, map[string][]byte{
		"t19s-2z0/5/100":          []byte("a"),
		"t19s-2z0/5/100.etag":     []byte("etag"),
		"t19s-2z0/5/101.tmp":      []byte("tmp"),
		"t19s-2z0/5/tmp123":       []byte("tmp"),
		"t19s-2z0/misc/7":         []byte("misc"),
		"t19s16z0/1/0":            []byte("b"),
		"t19s16z0/1/2":            []byte("out of range"),
		"t19s20z0/0/0":            []byte("negative zoom"),
		"t13s16z0/0/0":            []byte("other tileset"),
		"srtm/N00E000.hgt.zip":    []byte("dem"),
		"t19s-2z0/5/subdir/x/100": []byte("deep"),
	})

	var skipped []string
	reader := legacy.NewReader(rootDir, 19, legacy.WithSkipHandler(func(path string) {
		skipped = append(skipped, path)
	}))

	want := map[tile.ID][]byte{
		{X: 5, Y: 100, Z: 19}: []byte("a"),
		{X: 1, Y: 0, Z: 1}:    []byte("b"),
	}
	if got := testutil.ReadTiles(t, reader); !cmp.Equal(got, want) {
		t.Errorf("VisitPaths mismatch (-want+got):\n%v", cmp.Diff(want, got))
	}
	if got, want := len(skipped), 6; got != want {
		t.Errorf("skipped %v entries, want = %v: %v", got, want, skipped)
	}

	for d, err := range tile.IterDescriptors(reader) {
		if err != nil {
			t.Fatal(err)
		}
		if d.Path != legacy.TilePath(rootDir, 19, d.ID) {
			t.Errorf("descriptor path %q does not match %v", d.Path, d.ID)
		}
	}
}

func TestReaderMissingRoot(t *testing.T) {
	reader := legacy.NewReader(filepath.Join(t.TempDir(), "missing"), 19)
	err := reader.VisitPaths(func(tile.Descriptor) error { return nil })
	if err == nil {
		t.Errorf("VisitPaths on missing root succeeded")
	}
}

func TestWriterReader(t *testing.T) {
	rootDir := t.TempDir()

	tiles := map[tile.ID][]byte{
		{X: 0, Y: 0, Z: 0}: []byte("tile000"),
		{X: 1, Y: 1, Z: 1}: []byte("tile111"),
		{X: 6, Y: 6, Z: 6}: []byte("tile666"),
	}

	writer := legacy.NewWriter(rootDir, 17)
	for tileID, tileData := range tiles {
		if err := writer.WriteTile(tileID, tileData); err != nil {
			t.Errorf("WriteTile(%v) failed: %v", tileID, err)
		}
	}
	if err := writer.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	reader := legacy.NewReader(rootDir, 17)
	got := make(map[tile.ID][]byte)
	err := reader.VisitTiles(func(tileID tile.ID, tileData []byte) error {
		got[tileID] = tileData
		return nil
	})
	if err != nil {
		t.Fatalf("VisitTiles failed: %v", err)
	}
	if !cmp.Equal(got, tiles) {
		t.Errorf("VisitTiles mismatch (-want+got):\n%v", cmp.Diff(tiles, got))
	}
}

func TestWriterForce(t *testing.T) {
	rootDir := t.TempDir()
	tileID := tile.ID{X: 1, Y: 0, Z: 1}
	testutil.WriteTree(t, rootDir, map[string][]byte{"t19s16z0/1/0": []byte("old")})

	writer := legacy.NewWriter(rootDir, 19)
	if err := writer.WriteTile(tileID, []byte("new")); err != nil {
		t.Fatal(err)
	}
	if got := writer.Preserved(); got != 1 {
		t.Errorf("Preserved = %v, want = 1", got)
	}
	if got := testutil.ReadTree(t, rootDir)["t19s16z0/1/0"]; string(got) != "old" {
		t.Errorf("tile overwritten without force: %q", got)
	}

	writer = legacy.NewWriter(rootDir, 19, legacy.WithForce(true))
	if err := writer.WriteTile(tileID, []byte("new")); err != nil {
		t.Fatal(err)
	}
	if got := testutil.ReadTree(t, rootDir)["t19s16z0/1/0"]; string(got) != "new" {
		t.Errorf("tile not overwritten with force: %q", got)
	}
}
