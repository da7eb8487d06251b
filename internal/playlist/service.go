// Package playlist orchestrates playlist imports, refreshes and favorites on
// top of the stores, the fetcher and the M3U parser.
package playlist

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/marcsigha/bbtv/internal/fetcher"
	"github.com/marcsigha/bbtv/internal/grouping"
	"github.com/marcsigha/bbtv/internal/logger"
	"github.com/marcsigha/bbtv/internal/m3u"
	"github.com/marcsigha/bbtv/internal/models"
	"github.com/marcsigha/bbtv/internal/store"
)

// Service handles business logic for playlist and favorite operations.
type Service struct {
	playlists *store.PlaylistStore
	favorites *store.FavoriteStore
	fetch     fetcher.Interface
	groupOpts grouping.Options

	// refreshing tracks playlist ids with a refresh in flight so two
	// refreshes can never interleave their updates for the same id.
	mu         sync.Mutex
	refreshing map[string]struct{}
}

// NewService creates a playlist service.
func NewService(playlists *store.PlaylistStore, favorites *store.FavoriteStore, fetch fetcher.Interface, groupOpts grouping.Options) *Service {
	return &Service{
		playlists:  playlists,
		favorites:  favorites,
		fetch:      fetch,
		groupOpts:  groupOpts,
		refreshing: make(map[string]struct{}),
	}
}

// ImportFromURL fetches, parses and stores a new playlist from a URL.
func (s *Service) ImportFromURL(ctx context.Context, title, rawURL string) (models.Playlist, error) {
	raw, err := s.fetch.Fetch(ctx, rawURL)
	if err != nil {
		logger.Log.Warn().
			Err(err).
			Str("url", rawURL).
			Msg("Playlist import failed: fetch error")
		return models.Playlist{}, fmt.Errorf("failed to import playlist: %w", err)
	}

	p := models.NewPlaylist(title, models.SourceURL)
	p.SourceURL = rawURL
	return s.finishImport(ctx, p, raw)
}

// ImportFromText parses and stores a new playlist from pasted text. The raw
// text is kept as the source reference so the playlist can be re-grouped on
// refresh.
func (s *Service) ImportFromText(ctx context.Context, title, text string) (models.Playlist, error) {
	p := models.NewPlaylist(title, models.SourceText)
	p.SourceText = text
	return s.finishImport(ctx, p, text)
}

// ImportFromUpload parses and stores a new playlist from an uploaded file's
// content. Only the filename is retained, so uploads cannot be refreshed.
func (s *Service) ImportFromUpload(ctx context.Context, title, filename, content string) (models.Playlist, error) {
	p := models.NewPlaylist(title, models.SourceUpload)
	p.Filename = filename
	return s.finishImport(ctx, p, content)
}

// finishImport parses raw text into the playlist and stores it. A parse
// failure leaves the store unchanged.
func (s *Service) finishImport(ctx context.Context, p *models.Playlist, raw string) (models.Playlist, error) {
	parsed, err := m3u.Parse(raw)
	if err != nil {
		logger.Log.Warn().
			Err(err).
			Str("title", p.Title).
			Msg("Playlist import failed: parse error")
		return models.Playlist{}, fmt.Errorf("failed to import playlist: %w", err)
	}

	p.Header = parsed.Header
	p.Categories = grouping.Group(parsed.Channels, s.groupOpts)

	if err := s.playlists.Add(ctx, *p); err != nil {
		return models.Playlist{}, fmt.Errorf("failed to import playlist: %w", err)
	}

	logger.Log.Info().
		Str("playlist_id", p.ID).
		Str("source_type", string(p.SourceType)).
		Int("channels", len(parsed.Channels)).
		Int("categories", len(p.Categories)).
		Msg("Playlist imported")

	return *p, nil
}

// Refresh re-fetches and re-groups a playlist's content wholesale, keeping
// its id and metadata. At most one refresh may be in flight per playlist id;
// concurrent calls for the same id fail with ErrRefreshInFlight. A refresh
// that resolves after the playlist was deleted dissolves via the store's
// idempotent update.
func (s *Service) Refresh(ctx context.Context, id string) (models.Playlist, error) {
	current, err := s.playlists.GetByID(id)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("failed to refresh playlist: %w", err)
	}

	if !s.beginRefresh(id) {
		logger.Log.Warn().
			Str("playlist_id", id).
			Msg("Refresh rejected: already in flight")
		return models.Playlist{}, ErrRefreshInFlight
	}
	defer s.endRefresh(id)

	raw, err := s.sourceContent(ctx, current)
	if err != nil {
		// Fetch failure leaves the stored content untouched.
		logger.Log.Warn().
			Err(err).
			Str("playlist_id", id).
			Msg("Refresh failed: source unavailable")
		return models.Playlist{}, fmt.Errorf("failed to refresh playlist: %w", err)
	}

	parsed, err := m3u.Parse(raw)
	if err != nil {
		logger.Log.Warn().
			Err(err).
			Str("playlist_id", id).
			Msg("Refresh failed: parse error")
		return models.Playlist{}, fmt.Errorf("failed to refresh playlist: %w", err)
	}

	now := time.Now().UTC()
	updated := current
	updated.Header = parsed.Header
	updated.Categories = grouping.Group(parsed.Channels, s.groupOpts)
	updated.UpdatedAt = &now

	s.playlists.Update(ctx, id, updated)

	logger.Log.Info().
		Str("playlist_id", id).
		Int("channels", len(parsed.Channels)).
		Msg("Playlist refreshed")

	return updated, nil
}

// sourceContent returns the raw text to re-parse for a refresh.
func (s *Service) sourceContent(ctx context.Context, p models.Playlist) (string, error) {
	switch p.SourceType {
	case models.SourceURL:
		return s.fetch.Fetch(ctx, p.SourceURL)
	case models.SourceText:
		return p.SourceText, nil
	default:
		return "", ErrNotRefreshable
	}
}

// Rename updates a playlist's title.
func (s *Service) Rename(ctx context.Context, id, title string) (models.Playlist, error) {
	current, err := s.playlists.GetByID(id)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("failed to rename playlist: %w", err)
	}

	now := time.Now().UTC()
	current.Title = title
	current.UpdatedAt = &now
	s.playlists.Update(ctx, id, current)

	return current, nil
}

// Delete removes a playlist; the store cascades to the favorites.
func (s *Service) Delete(ctx context.Context, id string) {
	s.playlists.Remove(ctx, id)
}

// Favorite snapshots a channel from the given playlist and stores it as a
// favorite keyed by playlist id + tvg-id.
func (s *Service) Favorite(ctx context.Context, playlistID, tvgID string) (models.Favorite, error) {
	p, err := s.playlists.GetByID(playlistID)
	if err != nil {
		return models.Favorite{}, fmt.Errorf("failed to favorite channel: %w", err)
	}

	if s.favorites.IsFavorite(tvgID, playlistID) {
		return models.Favorite{}, ErrAlreadyFavorite
	}

	for _, ch := range p.AllChannels() {
		if ch.TvgID == tvgID {
			favorite := models.Favorite{
				ID:         models.FavoriteID(playlistID, tvgID),
				PlaylistID: playlistID,
				Channel:    ch,
			}
			s.favorites.Add(ctx, favorite)
			return favorite, nil
		}
	}

	return models.Favorite{}, fmt.Errorf("failed to favorite channel: %w", store.ErrChannelNotFound)
}

// Unfavorite removes a favorite by its id.
func (s *Service) Unfavorite(ctx context.Context, id string) {
	s.favorites.Remove(ctx, id)
}

// beginRefresh marks id as refreshing; false when one is already in flight.
func (s *Service) beginRefresh(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.refreshing[id]; busy {
		return false
	}
	s.refreshing[id] = struct{}{}
	return true
}

func (s *Service) endRefresh(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.refreshing, id)
}
