package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/marcsigha/bbtv/internal/logger"
	"github.com/marcsigha/bbtv/internal/models"
	"github.com/marcsigha/bbtv/internal/storage"
)

// FavoriteKey is the persistence namespace owned by the favorite store.
const FavoriteKey = "favorite-store"

// favoriteDocument is the persisted shape of the favorite store.
type favoriteDocument struct {
	Version   int               `json:"version"`
	Favorites []models.Favorite `json:"favorites"`
}

// FavoriteStore owns the user's favorited channels. Entries are snapshots
// keyed per originating playlist; deleting a playlist removes its favorites
// through RemoveByPlaylist.
type FavoriteStore struct {
	mu        sync.RWMutex
	favorites []models.Favorite

	adapter storage.Adapter
}

// NewFavoriteStore creates a favorite store backed by adapter.
func NewFavoriteStore(adapter storage.Adapter) *FavoriteStore {
	return &FavoriteStore{adapter: adapter}
}

// Load hydrates the store from the persistence adapter. An absent key
// leaves the store empty.
func (s *FavoriteStore) Load(ctx context.Context) error {
	data, err := s.adapter.Load(ctx, FavoriteKey)
	if err != nil {
		if storage.IsKeyNotFound(err) {
			logger.Log.Debug().Msg("No persisted favorites, starting empty")
			return nil
		}
		return fmt.Errorf("failed to load favorite store: %w", err)
	}

	var doc favoriteDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode favorite store: %w", err)
	}
	if doc.Version != schemaVersion {
		return fmt.Errorf("unsupported favorite store version %d", doc.Version)
	}

	s.mu.Lock()
	s.favorites = doc.Favorites
	s.mu.Unlock()

	logger.Log.Info().
		Int("count", len(doc.Favorites)).
		Msg("Loaded favorites from storage")

	return nil
}

// Add appends a favorite. The embedded channel is the caller's snapshot.
func (s *FavoriteStore) Add(ctx context.Context, favorite models.Favorite) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.favorites = append(s.favorites, favorite)
	s.persist(ctx)

	logger.Log.Info().
		Str("favorite_id", favorite.ID).
		Str("playlist_id", favorite.PlaylistID).
		Msg("Favorite added")
}

// Remove deletes a favorite by its own id. Removing an absent id is a no-op.
func (s *FavoriteStore) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.favorites[:0]
	found := false
	for _, f := range s.favorites {
		if f.ID == id {
			found = true
			continue
		}
		kept = append(kept, f)
	}
	s.favorites = kept

	if !found {
		return
	}

	s.persist(ctx)

	logger.Log.Info().
		Str("favorite_id", id).
		Msg("Favorite removed")
}

// IsFavorite reports whether the channel with the given tvg-id from the
// given playlist has been favorited.
func (s *FavoriteStore) IsFavorite(tvgID, playlistID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.favorites {
		if f.PlaylistID == playlistID && f.Channel.TvgID == tvgID {
			return true
		}
	}
	return false
}

// GetByID returns a favorite by its id. Used when resuming playback from
// the favorites screen.
func (s *FavoriteStore) GetByID(id string) (models.Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.favorites {
		if f.ID == id {
			return f, nil
		}
	}
	return models.Favorite{}, ErrFavoriteNotFound
}

// All returns a copy of the stored favorites in insertion order.
func (s *FavoriteStore) All() []models.Favorite {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Favorite, len(s.favorites))
	copy(out, s.favorites)
	return out
}

// RemoveByPlaylist deletes every favorite whose playlist id matches,
// returning how many were removed. This is the cascade invoked by the
// playlist store on playlist deletion.
func (s *FavoriteStore) RemoveByPlaylist(ctx context.Context, playlistID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.favorites[:0]
	removed := 0
	for _, f := range s.favorites {
		if f.PlaylistID == playlistID {
			removed++
			continue
		}
		kept = append(kept, f)
	}
	s.favorites = kept

	if removed == 0 {
		return 0
	}

	s.persist(ctx)
	return removed
}

// persist mirrors the full store state to the adapter; same fire-and-forget
// model as the playlist store. Callers hold s.mu.
func (s *FavoriteStore) persist(ctx context.Context) {
	doc := favoriteDocument{Version: schemaVersion, Favorites: s.favorites}

	data, err := json.Marshal(doc)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to encode favorite store")
		return
	}
	if err := s.adapter.Save(ctx, FavoriteKey, data); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to persist favorite store")
	}
}
