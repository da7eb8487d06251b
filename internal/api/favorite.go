package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marcsigha/bbtv/internal/models"
	"github.com/marcsigha/bbtv/internal/playlist"
	"github.com/marcsigha/bbtv/internal/store"
)

// AddFavoriteRequest represents a request to favorite a channel
type AddFavoriteRequest struct {
	PlaylistID string `json:"playlist_id" binding:"required"`
	TvgID      string `json:"tvg_id" binding:"required"`
}

// FavoriteListResponse represents the stored favorites
type FavoriteListResponse struct {
	Favorites []models.Favorite `json:"favorites"`
}

// FavoriteCheckResponse answers a favorite membership query
type FavoriteCheckResponse struct {
	Favorite bool `json:"favorite"`
}

// FavoriteHandler handles favorite-related API requests
type FavoriteHandler struct {
	service   *playlist.Service
	favorites *store.FavoriteStore
}

// NewFavoriteHandler creates a new favorite handler instance
func NewFavoriteHandler(service *playlist.Service, favorites *store.FavoriteStore) *FavoriteHandler {
	return &FavoriteHandler{
		service:   service,
		favorites: favorites,
	}
}

// ListFavorites handles GET /api/favorites
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	c.JSON(http.StatusOK, FavoriteListResponse{Favorites: h.favorites.All()})
}

// GetFavorite handles GET /api/favorites/:id. Used by the playback overlay
// when resuming from a favorite; the id is the composite playlist/tvg key.
func (h *FavoriteHandler) GetFavorite(c *gin.Context) {
	favorite, err := h.favorites.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Favorite not found",
		})
		return
	}
	c.JSON(http.StatusOK, favorite)
}

// AddFavorite handles POST /api/favorites
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	var req AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	favorite, err := h.service.Favorite(c.Request.Context(), req.PlaylistID, req.TvgID)
	if err != nil {
		if playlist.IsAlreadyFavorite(err) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "already_favorite",
				Message: "This channel is already favorited",
			})
			return
		}
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Playlist or channel not found",
		})
		return
	}

	c.JSON(http.StatusCreated, favorite)
}

// RemoveFavorite handles DELETE /api/favorites/:id
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	h.service.Unfavorite(c.Request.Context(), c.Param("id"))
	c.Status(http.StatusNoContent)
}

// CheckFavorite handles GET /api/favorites/check?playlist_id=...&tvg_id=...
func (h *FavoriteHandler) CheckFavorite(c *gin.Context) {
	playlistID := c.Query("playlist_id")
	tvgID := c.Query("tvg_id")
	if playlistID == "" || tvgID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "playlist_id and tvg_id query parameters are required",
		})
		return
	}

	c.JSON(http.StatusOK, FavoriteCheckResponse{
		Favorite: h.favorites.IsFavorite(tvgID, playlistID),
	})
}

// SetupFavoriteRoutes registers favorite routes
func SetupFavoriteRoutes(apiGroup *gin.RouterGroup, service *playlist.Service, favorites *store.FavoriteStore) {
	handler := NewFavoriteHandler(service, favorites)

	apiGroup.GET("/favorites", handler.ListFavorites)
	apiGroup.POST("/favorites", handler.AddFavorite)
	apiGroup.GET("/favorites/check", handler.CheckFavorite)
	apiGroup.GET("/favorites/:id", handler.GetFavorite)
	apiGroup.DELETE("/favorites/:id", handler.RemoveFavorite)
}
