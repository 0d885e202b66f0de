package convert

import "errors"

var (
	// ErrInvalidConfig reports a missing mode, a malformed tileset id or an unusable source.
	ErrInvalidConfig = errors.New("vikcache: invalid configuration")

	// ErrDestinationExists is returned when the store to export to is already present.
	ErrDestinationExists = errors.New("vikcache: destination already exists")

	// ErrUnknownTileset is returned when the standard layout destination must be
	// named after the tileset but the id has no canonical name.
	ErrUnknownTileset = errors.New("vikcache: unknown tileset, specify the destination directory explicitly")

	// ErrStore wraps failures to open the indexed store.
	ErrStore = errors.New("vikcache: cannot open tile store")
)
