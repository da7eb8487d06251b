// Package store implements the in-memory playlist and favorite stores. Every
// mutation re-serializes the whole store to the persistence adapter under a
// fixed key, so no partial writes are ever observable.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/marcsigha/bbtv/internal/logger"
	"github.com/marcsigha/bbtv/internal/models"
	"github.com/marcsigha/bbtv/internal/storage"
)

// PlaylistKey is the persistence namespace owned by the playlist store.
const PlaylistKey = "playlist"

// schemaVersion tags every persisted document so future shape changes have a
// migration hook.
const schemaVersion = 1

// FavoriteCleanup is the capability the playlist store needs to cascade a
// playlist deletion into the favorite store without importing it directly.
type FavoriteCleanup interface {
	RemoveByPlaylist(ctx context.Context, playlistID string) int
}

// playlistDocument is the persisted shape of the playlist store.
type playlistDocument struct {
	Version   int               `json:"version"`
	Playlists []models.Playlist `json:"playlists"`
}

// PlaylistStore owns the collection of imported playlists plus a transient
// "selected playlist" pointer used to scope category and channel lookups.
// The selection is a copy: it goes stale if the playlist is updated without
// being re-selected, matching the source behavior it replaces.
type PlaylistStore struct {
	mu        sync.RWMutex
	playlists []models.Playlist
	selected  *models.Playlist

	adapter storage.Adapter
	cleanup FavoriteCleanup
}

// NewPlaylistStore creates a playlist store backed by adapter. The cleanup
// collaborator receives cascade deletes; pass nil to disable cascading
// (tests only).
func NewPlaylistStore(adapter storage.Adapter, cleanup FavoriteCleanup) *PlaylistStore {
	return &PlaylistStore{
		adapter: adapter,
		cleanup: cleanup,
	}
}

// Load hydrates the store from the persistence adapter. An absent key means
// a fresh install and leaves the store empty.
func (s *PlaylistStore) Load(ctx context.Context) error {
	data, err := s.adapter.Load(ctx, PlaylistKey)
	if err != nil {
		if storage.IsKeyNotFound(err) {
			logger.Log.Debug().Msg("No persisted playlists, starting empty")
			return nil
		}
		return fmt.Errorf("failed to load playlist store: %w", err)
	}

	var doc playlistDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode playlist store: %w", err)
	}
	if doc.Version != schemaVersion {
		return fmt.Errorf("unsupported playlist store version %d", doc.Version)
	}

	s.mu.Lock()
	s.playlists = doc.Playlists
	s.mu.Unlock()

	logger.Log.Info().
		Int("count", len(doc.Playlists)).
		Msg("Loaded playlists from storage")

	return nil
}

// Add appends a playlist. Ids are minted by the import service; a duplicate
// id is rejected so Update's by-id semantics stay sound.
func (s *PlaylistStore) Add(ctx context.Context, playlist models.Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.playlists {
		if p.ID == playlist.ID {
			return ErrDuplicatePlaylist
		}
	}

	s.playlists = append(s.playlists, playlist)
	s.persist(ctx)

	logger.Log.Info().
		Str("playlist_id", playlist.ID).
		Str("title", playlist.Title).
		Msg("Playlist added")

	return nil
}

// Remove deletes the playlist with the given id and cascades the deletion to
// the favorite store. Removing an absent id is a no-op, not an error.
func (s *PlaylistStore) Remove(ctx context.Context, id string) {
	// Cascade first so a favorite never outlives its playlist, even if the
	// process dies between the two writes.
	if s.cleanup != nil {
		removed := s.cleanup.RemoveByPlaylist(ctx, id)
		if removed > 0 {
			logger.Log.Info().
				Str("playlist_id", id).
				Int("favorites_removed", removed).
				Msg("Cascade-deleted favorites for playlist")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.playlists[:0]
	found := false
	for _, p := range s.playlists {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	s.playlists = kept

	if !found {
		return
	}

	s.persist(ctx)

	logger.Log.Info().
		Str("playlist_id", id).
		Msg("Playlist removed")
}

// Update replaces the playlist with the given id wholesale. Updating an id
// that is not present is a silent no-op so a refresh that loses a race with
// a delete simply dissolves.
func (s *PlaylistStore) Update(ctx context.Context, id string, playlist models.Playlist) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.playlists {
		if p.ID == id {
			s.playlists[i] = playlist
			s.persist(ctx)

			logger.Log.Info().
				Str("playlist_id", id).
				Msg("Playlist updated")
			return
		}
	}

	logger.Log.Debug().
		Str("playlist_id", id).
		Msg("Update skipped: playlist not present")
}

// Select sets the transient selected-playlist pointer. No check is made that
// the playlist is still stored.
func (s *PlaylistStore) Select(playlist models.Playlist) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &playlist
}

// ClearSelection drops the selected-playlist pointer.
func (s *PlaylistStore) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

// Selected returns the currently selected playlist.
func (s *PlaylistStore) Selected() (models.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == nil {
		return models.Playlist{}, ErrNoSelection
	}
	return *s.selected, nil
}

// SelectedCategory returns the selected playlist's category entry with the
// given name. Names are matched exactly against the stored (normalized) key.
func (s *PlaylistStore) SelectedCategory(name string) (models.CategoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == nil {
		return models.CategoryEntry{}, ErrNoSelection
	}
	for _, entry := range s.selected.Categories {
		if entry.Category == name {
			return entry, nil
		}
	}
	return models.CategoryEntry{}, ErrCategoryNotFound
}

// ChannelByID returns the first channel in the selected playlist whose
// tvg-id matches id.
func (s *PlaylistStore) ChannelByID(id string) (models.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == nil {
		return models.Channel{}, ErrNoSelection
	}
	for _, ch := range s.selected.AllChannels() {
		if ch.TvgID == id {
			return ch, nil
		}
	}
	return models.Channel{}, ErrChannelNotFound
}

// ChannelByURL returns the first channel in the selected playlist whose
// stream URL matches rawURL by origin and path; query and fragment are
// ignored. Used as a fallback when a channel has no tvg-id.
func (s *PlaylistStore) ChannelByURL(rawURL string) (models.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == nil {
		return models.Channel{}, ErrNoSelection
	}

	want, err := url.Parse(rawURL)
	if err != nil {
		return models.Channel{}, ErrChannelNotFound
	}

	for _, ch := range s.selected.AllChannels() {
		got, err := url.Parse(ch.StreamURL)
		if err != nil {
			continue
		}
		if sameOriginAndPath(want, got) {
			return ch, nil
		}
	}
	return models.Channel{}, ErrChannelNotFound
}

// GetByID returns the stored playlist with the given id.
func (s *PlaylistStore) GetByID(id string) (models.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.playlists {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Playlist{}, ErrPlaylistNotFound
}

// All returns a copy of the stored playlists in insertion order.
func (s *PlaylistStore) All() []models.Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Playlist, len(s.playlists))
	copy(out, s.playlists)
	return out
}

// persist mirrors the full store state to the adapter. Write-through is
// fire-and-forget: a failed save loses at most the latest change on crash
// and is not surfaced to the mutating caller. Callers hold s.mu.
func (s *PlaylistStore) persist(ctx context.Context) {
	doc := playlistDocument{Version: schemaVersion, Playlists: s.playlists}

	data, err := json.Marshal(doc)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to encode playlist store")
		return
	}
	if err := s.adapter.Save(ctx, PlaylistKey, data); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to persist playlist store")
	}
}

// sameOriginAndPath compares two URLs on scheme, host and path only.
func sameOriginAndPath(a, b *url.URL) bool {
	return a.Scheme == b.Scheme && a.Host == b.Host && a.Path == b.Path
}
