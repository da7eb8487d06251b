package models

// Favorite is a user-marked channel linked back to its originating playlist.
// The channel is a snapshot taken at favoriting time: later refreshes of the
// source playlist do not change it. This decoupling is deliberate so a
// favorite keeps resolving even while its playlist is mid-refresh.
type Favorite struct {
	ID         string  `json:"id"`
	PlaylistID string  `json:"playlist_id"`
	Channel    Channel `json:"channel"`
}

// FavoriteID builds the composite id for a favorited channel. Plain tvg-ids
// are not unique across playlists, so the playlist id is part of the key.
// The separator keeps the id usable as a single URL path segment.
func FavoriteID(playlistID, tvgID string) string {
	return playlistID + ":" + tvgID
}
