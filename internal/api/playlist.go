package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/marcsigha/bbtv/internal/logger"
	"github.com/marcsigha/bbtv/internal/m3u"
	"github.com/marcsigha/bbtv/internal/models"
	"github.com/marcsigha/bbtv/internal/playlist"
	"github.com/marcsigha/bbtv/internal/store"
)

// Request/Response DTOs

// ImportPlaylistRequest represents a request to import a new playlist.
// Exactly one of URL, Text or Content must be set, matching SourceType.
type ImportPlaylistRequest struct {
	Title      string `json:"title" binding:"required"`
	SourceType string `json:"source_type" binding:"required,oneof=url text upload"`
	URL        string `json:"url,omitempty"`
	Text       string `json:"text,omitempty"`
	Filename   string `json:"filename,omitempty"`
	Content    string `json:"content,omitempty"`
}

// RenamePlaylistRequest represents a request to update a playlist's title
type RenamePlaylistRequest struct {
	Title string `json:"title" binding:"required"`
}

// PlaylistSummary represents a playlist without its categories
type PlaylistSummary struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	SourceType string     `json:"source_type"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
	Categories int        `json:"category_count"`
	Channels   int        `json:"channel_count"`
}

// PlaylistListResponse represents a list of playlists
type PlaylistListResponse struct {
	Playlists []PlaylistSummary `json:"playlists"`
}

// PlaylistHandler handles playlist-related API requests
type PlaylistHandler struct {
	service   *playlist.Service
	playlists *store.PlaylistStore
}

// NewPlaylistHandler creates a new playlist handler instance
func NewPlaylistHandler(service *playlist.Service, playlists *store.PlaylistStore) *PlaylistHandler {
	return &PlaylistHandler{
		service:   service,
		playlists: playlists,
	}
}

// toPlaylistSummary converts a playlist model to its list representation
func toPlaylistSummary(p models.Playlist) PlaylistSummary {
	return PlaylistSummary{
		ID:         p.ID,
		Title:      p.Title,
		SourceType: string(p.SourceType),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
		Categories: len(p.Categories),
		Channels:   len(p.AllChannels()),
	}
}

// ImportPlaylist handles POST /api/playlists
func (h *PlaylistHandler) ImportPlaylist(c *gin.Context) {
	var req ImportPlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	var (
		imported models.Playlist
		err      error
	)
	ctx := c.Request.Context()

	switch models.SourceType(req.SourceType) {
	case models.SourceURL:
		if req.URL == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: "url is required for source_type=url",
			})
			return
		}
		imported, err = h.service.ImportFromURL(ctx, req.Title, req.URL)
	case models.SourceText:
		if req.Text == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: "text is required for source_type=text",
			})
			return
		}
		imported, err = h.service.ImportFromText(ctx, req.Title, req.Text)
	case models.SourceUpload:
		if req.Content == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: "content is required for source_type=upload",
			})
			return
		}
		imported, err = h.service.ImportFromUpload(ctx, req.Title, req.Filename, req.Content)
	}

	if err != nil {
		if m3u.IsInvalidFormat(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_format",
				Message: "The provided content is not a valid M3U playlist",
			})
			return
		}
		logger.Log.Error().
			Err(err).
			Str("title", req.Title).
			Msg("Failed to import playlist")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "import_failed",
			Message: "Failed to load playlist content",
		})
		return
	}

	c.JSON(http.StatusCreated, imported)
}

// ListPlaylists handles GET /api/playlists
func (h *PlaylistHandler) ListPlaylists(c *gin.Context) {
	stored := h.playlists.All()
	summaries := make([]PlaylistSummary, 0, len(stored))
	for _, p := range stored {
		summaries = append(summaries, toPlaylistSummary(p))
	}
	c.JSON(http.StatusOK, PlaylistListResponse{Playlists: summaries})
}

// GetPlaylist handles GET /api/playlists/:id
func (h *PlaylistHandler) GetPlaylist(c *gin.Context) {
	p, err := h.playlists.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Playlist not found",
		})
		return
	}
	c.JSON(http.StatusOK, p)
}

// RenamePlaylist handles PATCH /api/playlists/:id
func (h *PlaylistHandler) RenamePlaylist(c *gin.Context) {
	var req RenamePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	renamed, err := h.service.Rename(c.Request.Context(), c.Param("id"), req.Title)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Playlist not found",
		})
		return
	}
	c.JSON(http.StatusOK, toPlaylistSummary(renamed))
}

// DeletePlaylist handles DELETE /api/playlists/:id
func (h *PlaylistHandler) DeletePlaylist(c *gin.Context) {
	h.service.Delete(c.Request.Context(), c.Param("id"))
	c.Status(http.StatusNoContent)
}

// RefreshPlaylist handles POST /api/playlists/:id/refresh
func (h *PlaylistHandler) RefreshPlaylist(c *gin.Context) {
	refreshed, err := h.service.Refresh(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case store.IsPlaylistNotFound(err):
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Playlist not found",
			})
		case playlist.IsRefreshInFlight(err):
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "refresh_in_flight",
				Message: "A refresh for this playlist is already in progress",
			})
		case playlist.IsNotRefreshable(err):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "not_refreshable",
				Message: "Uploaded playlists keep no source to refresh from",
			})
		case m3u.IsInvalidFormat(err):
			c.JSON(http.StatusBadGateway, ErrorResponse{
				Error:   "invalid_format",
				Message: "The refreshed content is not a valid M3U playlist",
			})
		default:
			logger.Log.Error().
				Err(err).
				Str("playlist_id", c.Param("id")).
				Msg("Failed to refresh playlist")
			c.JSON(http.StatusBadGateway, ErrorResponse{
				Error:   "refresh_failed",
				Message: "Failed to load playlist content",
			})
		}
		return
	}
	c.JSON(http.StatusOK, toPlaylistSummary(refreshed))
}

// SelectPlaylist handles POST /api/playlists/:id/select
func (h *PlaylistHandler) SelectPlaylist(c *gin.Context) {
	p, err := h.playlists.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Playlist not found",
		})
		return
	}
	h.playlists.Select(p)
	c.JSON(http.StatusOK, toPlaylistSummary(p))
}

// GetSelected handles GET /api/selection
func (h *PlaylistHandler) GetSelected(c *gin.Context) {
	p, err := h.playlists.Selected()
	if err != nil {
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "no_selection",
			Message: "No playlist is selected",
		})
		return
	}
	c.JSON(http.StatusOK, p)
}

// GetCategory handles GET /api/categories/:name. The name must match the
// stored normalized key (or "All").
func (h *PlaylistHandler) GetCategory(c *gin.Context) {
	entry, err := h.playlists.SelectedCategory(c.Param("name"))
	if err != nil {
		respondSelectionError(c, err, "Category not found in selected playlist")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// GetChannel handles GET /api/channels/:id, resolving a channel by tvg-id in
// the selected playlist.
func (h *PlaylistHandler) GetChannel(c *gin.Context) {
	ch, err := h.playlists.ChannelByID(c.Param("id"))
	if err != nil {
		respondSelectionError(c, err, "Channel not available")
		return
	}
	c.JSON(http.StatusOK, ch)
}

// ResolveChannel handles GET /api/resolve?url=..., the fallback lookup for
// channels without a tvg-id. URLs match on origin and path only.
func (h *PlaylistHandler) ResolveChannel(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "url query parameter is required",
		})
		return
	}

	ch, err := h.playlists.ChannelByURL(rawURL)
	if err != nil {
		respondSelectionError(c, err, "Channel not available")
		return
	}
	c.JSON(http.StatusOK, ch)
}

// respondSelectionError maps selection-scoped lookup failures to responses.
// Lookup misses are normal outcomes and answer 404; a missing selection is a
// caller sequencing error and answers 409.
func respondSelectionError(c *gin.Context, err error, message string) {
	if store.IsNoSelection(err) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "no_selection",
			Message: "No playlist is selected",
		})
		return
	}
	c.JSON(http.StatusNotFound, ErrorResponse{
		Error:   "not_found",
		Message: message,
	})
}

// SetupPlaylistRoutes registers playlist and channel lookup routes
func SetupPlaylistRoutes(apiGroup *gin.RouterGroup, service *playlist.Service, playlists *store.PlaylistStore) {
	handler := NewPlaylistHandler(service, playlists)

	apiGroup.POST("/playlists", handler.ImportPlaylist)
	apiGroup.GET("/playlists", handler.ListPlaylists)
	apiGroup.GET("/playlists/:id", handler.GetPlaylist)
	apiGroup.PATCH("/playlists/:id", handler.RenamePlaylist)
	apiGroup.DELETE("/playlists/:id", handler.DeletePlaylist)
	apiGroup.POST("/playlists/:id/refresh", handler.RefreshPlaylist)
	apiGroup.POST("/playlists/:id/select", handler.SelectPlaylist)

	apiGroup.GET("/selection", handler.GetSelected)
	apiGroup.GET("/categories/:name", handler.GetCategory)
	apiGroup.GET("/channels/:id", handler.GetChannel)
	apiGroup.GET("/resolve", handler.ResolveChannel)
}
