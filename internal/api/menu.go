package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cadenza-audio/cadenza/internal/auth"
	"github.com/cadenza-audio/cadenza/internal/db"
	"github.com/cadenza-audio/cadenza/internal/logger"
	"github.com/cadenza-audio/cadenza/internal/menu"
)

// SaveMenuRequest represents a create or rename request for a menu
type SaveMenuRequest struct {
	Title string `json:"title" binding:"required,min=1,max=128"`
}

// DeleteMenusRequest represents a bulk menu delete
type DeleteMenusRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

// AddMenuTrackRequest represents adding a track to a menu
type AddMenuTrackRequest struct {
	TrackID uuid.UUID `json:"track_id" binding:"required"`
}

// RemoveMenuTracksRequest represents removing entries from a menu
type RemoveMenuTracksRequest struct {
	EntryIDs []uuid.UUID `json:"entry_ids" binding:"required,min=1"`
}

// MoveMenuTrackRequest represents moving an entry between positions
type MoveMenuTrackRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}

// MenuHandler handles menu and menu entry requests
type MenuHandler struct {
	menus *menu.Service
}

// NewMenuHandler creates a new menu handler instance
func NewMenuHandler(menuService *menu.Service) *MenuHandler {
	return &MenuHandler{menus: menuService}
}

// List handles GET /api/menus
func (h *MenuHandler) List(c *gin.Context) {
	identity, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}
	page, size := pageParams(c)

	menus, total, err := h.menus.List(c.Request.Context(), identity.UserID, c.Query("title"), page, size)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list menus")
		respondError(c, http.StatusInternalServerError, "failed to list menus")
		return
	}

	respondOK(c, "ok", Page{Items: menus, Total: total, Page: page, Size: size})
}

// Create handles POST /api/menus
func (h *MenuHandler) Create(c *gin.Context) {
	identity, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req SaveMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.menus.Create(c.Request.Context(), identity.UserID, req.Title)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to create menu")
		respondError(c, http.StatusInternalServerError, "failed to create menu")
		return
	}

	respondOK(c, "created", m)
}

// Rename handles PUT /api/menus/:id
func (h *MenuHandler) Rename(c *gin.Context) {
	identity, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req SaveMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.menus.Rename(c.Request.Context(), identity.UserID, id, req.Title)
	if err != nil {
		if menu.IsMenuNotFound(err) {
			respondError(c, http.StatusNotFound, "menu not found")
			return
		}
		logger.Log.Error().Err(err).Msg("Failed to rename menu")
		respondError(c, http.StatusInternalServerError, "failed to rename menu")
		return
	}

	respondOK(c, "renamed", m)
}

// Delete handles DELETE /api/menus
func (h *MenuHandler) Delete(c *gin.Context) {
	var req DeleteMenusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.menus.Delete(c.Request.Context(), req.IDs); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to delete menus")
		respondError(c, http.StatusInternalServerError, "failed to delete menus")
		return
	}

	respondOK(c, "deleted", nil)
}

// AddTrack handles POST /api/menus/:id/tracks
func (h *MenuHandler) AddTrack(c *gin.Context) {
	identity, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req AddMenuTrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.menus.AddTrack(c.Request.Context(), identity.UserID, id, req.TrackID)
	if err != nil {
		switch {
		case menu.IsMenuNotFound(err):
			respondError(c, http.StatusNotFound, "menu not found")
		case menu.IsTrackNotFound(err):
			respondError(c, http.StatusNotFound, "track not found")
		case menu.IsDuplicateEntry(err):
			respondError(c, http.StatusConflict, "track already in menu")
		default:
			logger.Log.Error().Err(err).Msg("Failed to add track to menu")
			respondError(c, http.StatusInternalServerError, "failed to add track to menu")
		}
		return
	}

	respondOK(c, "added", entry)
}

// RemoveTracks handles DELETE /api/menus/:id/tracks
func (h *MenuHandler) RemoveTracks(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req RemoveMenuTracksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.menus.RemoveTracks(c.Request.Context(), id, req.EntryIDs); err != nil {
		switch {
		case menu.IsMenuNotFound(err):
			respondError(c, http.StatusNotFound, "menu not found")
		case menu.IsEntryNotFound(err):
			respondError(c, http.StatusNotFound, "menu entry not found")
		default:
			logger.Log.Error().Err(err).Msg("Failed to remove tracks from menu")
			respondError(c, http.StatusInternalServerError, "failed to remove tracks from menu")
		}
		return
	}

	respondOK(c, "removed", nil)
}

// MoveTrack handles PUT /api/menus/:id/tracks/move
func (h *MenuHandler) MoveTrack(c *gin.Context) {
	identity, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req MoveMenuTrackRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.From == nil || req.To == nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.menus.MoveTrack(c.Request.Context(), identity.UserID, id, *req.From, *req.To); err != nil {
		switch {
		case menu.IsEntryNotFound(err):
			respondError(c, http.StatusNotFound, "no entry at that position")
		case menu.IsInvalidPosition(err):
			respondError(c, http.StatusBadRequest, "position out of range")
		default:
			logger.Log.Error().Err(err).Msg("Failed to move menu entry")
			respondError(c, http.StatusInternalServerError, "failed to move menu entry")
		}
		return
	}

	respondOK(c, "moved", nil)
}

// ListTracks handles GET /api/menus/:id/tracks
func (h *MenuHandler) ListTracks(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	page, size := pageParams(c)
	filter := db.TrackFilter{
		Title:  c.Query("title"),
		Singer: c.Query("singer"),
	}

	entries, total, err := h.menus.ListTracks(c.Request.Context(), id, filter, page, size)
	if err != nil {
		if menu.IsMenuNotFound(err) {
			respondError(c, http.StatusNotFound, "menu not found")
			return
		}
		logger.Log.Error().Err(err).Msg("Failed to list menu tracks")
		respondError(c, http.StatusInternalServerError, "failed to list menu tracks")
		return
	}

	respondOK(c, "ok", Page{Items: entries, Total: total, Page: page, Size: size})
}

// SetupMenuRoutes registers menu routes
func SetupMenuRoutes(apiGroup *gin.RouterGroup, menuService *menu.Service) {
	handler := NewMenuHandler(menuService)

	apiGroup.GET("/menus", handler.List)
	apiGroup.POST("/menus", handler.Create)
	apiGroup.PUT("/menus/:id", handler.Rename)
	apiGroup.DELETE("/menus", handler.Delete)

	apiGroup.GET("/menus/:id/tracks", handler.ListTracks)
	apiGroup.POST("/menus/:id/tracks", handler.AddTrack)
	apiGroup.DELETE("/menus/:id/tracks", handler.RemoveTracks)
	apiGroup.PUT("/menus/:id/tracks/move", handler.MoveTrack)
}
