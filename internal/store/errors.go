package store

import "errors"

// Custom store errors
var (
	// ErrNoSelection indicates a selection-scoped lookup was made with no
	// playlist selected.
	ErrNoSelection = errors.New("no playlist selected")

	// ErrPlaylistNotFound indicates the requested playlist does not exist.
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrDuplicatePlaylist indicates a playlist with the same id is already
	// stored.
	ErrDuplicatePlaylist = errors.New("playlist id already exists")

	// ErrCategoryNotFound indicates the selected playlist has no category
	// with the requested name.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrChannelNotFound indicates no channel in the selected playlist
	// matches the requested id or URL.
	ErrChannelNotFound = errors.New("channel not found")

	// ErrFavoriteNotFound indicates the requested favorite does not exist.
	ErrFavoriteNotFound = errors.New("favorite not found")
)

// IsNoSelection checks if the error is a missing-selection error.
func IsNoSelection(err error) bool {
	return errors.Is(err, ErrNoSelection)
}

// IsPlaylistNotFound checks if the error is a playlist not found error.
func IsPlaylistNotFound(err error) bool {
	return errors.Is(err, ErrPlaylistNotFound)
}

// IsDuplicatePlaylist checks if the error is a duplicate playlist id error.
func IsDuplicatePlaylist(err error) bool {
	return errors.Is(err, ErrDuplicatePlaylist)
}

// IsNotFound checks if the error is any of the lookup-miss errors. Lookup
// misses are expected outcomes, not faults; callers surface them as
// "not available" rather than failing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPlaylistNotFound) ||
		errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrChannelNotFound) ||
		errors.Is(err, ErrFavoriteNotFound)
}
