package playlist

import "errors"

// Custom playlist service errors
var (
	// ErrRefreshInFlight indicates a refresh for the same playlist id has
	// not resolved yet.
	ErrRefreshInFlight = errors.New("refresh already in progress for playlist")

	// ErrNotRefreshable indicates the playlist's source type keeps no
	// re-fetchable reference (uploads).
	ErrNotRefreshable = errors.New("playlist source cannot be refreshed")

	// ErrAlreadyFavorite indicates the channel is already favorited for
	// this playlist.
	ErrAlreadyFavorite = errors.New("channel already favorited")
)

// IsRefreshInFlight checks if the error is an in-flight refresh error.
func IsRefreshInFlight(err error) bool {
	return errors.Is(err, ErrRefreshInFlight)
}

// IsNotRefreshable checks if the error is a non-refreshable source error.
func IsNotRefreshable(err error) bool {
	return errors.Is(err, ErrNotRefreshable)
}

// IsAlreadyFavorite checks if the error is an already-favorited error.
func IsAlreadyFavorite(err error) bool {
	return errors.Is(err, ErrAlreadyFavorite)
}
