package legacy

// UnknownTileset is returned by TilesetName for ids outside the built-in table.
const UnknownTileset = "unknown"

// DefaultTilesetID is the map source Viking uses when none is configured (MapQuest).
const DefaultTilesetID = 19

var tilesetNames = map[int]string{
	13:  "OSM-Mapnik",
	15:  "BlueMarble",
	17:  "OSM-Cycle",
	19:  "OSM-MapQuest",
	20:  "OSM-Transport",
	21:  "OSM-On-Disk",
	22:  "OSM-Humanitarian",
	212: "Bing-Aerial",
	// Extension maps shipped in data/maps.xml.
	29:  "CalTopo",
	101: "pnvkarte",
	600: "OpenSeaMap",
}

// TilesetName returns the canonical name of a built-in tileset, or UnknownTileset.
func TilesetName(tilesetID int) string {
	if name, ok := tilesetNames[tilesetID]; ok {
		return name
	}
	return UnknownTileset
}

func KnownTileset(tilesetID int) bool {
	_, ok := tilesetNames[tilesetID]
	return ok
}
