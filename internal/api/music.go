package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cadenza-audio/cadenza/internal/auth"
	"github.com/cadenza-audio/cadenza/internal/catalog"
	"github.com/cadenza-audio/cadenza/internal/db"
	"github.com/cadenza-audio/cadenza/internal/logger"
)

// UpdateMusicRequest represents a request to edit a track's metadata
type UpdateMusicRequest struct {
	Title  string `json:"title" binding:"required"`
	Singer string `json:"singer" binding:"required"`
	Album  string `json:"album"`
}

// DeleteMusicRequest represents a bulk track delete
type DeleteMusicRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

// MusicHandler handles track catalog and playback requests
type MusicHandler struct {
	catalog *catalog.Service
}

// NewMusicHandler creates a new music handler instance
func NewMusicHandler(catalogService *catalog.Service) *MusicHandler {
	return &MusicHandler{catalog: catalogService}
}

// Upload handles POST /api/music/upload
func (h *MusicHandler) Upload(c *gin.Context) {
	identity, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "missing file field")
		return
	}
	if fileHeader.Size > h.catalog.MaxUploadBytes() {
		respondError(c, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "unreadable upload")
		return
	}
	defer file.Close()

	track, err := h.catalog.Upload(c.Request.Context(), identity.UserID, fileHeader.Filename, file)
	if err != nil {
		switch {
		case catalog.IsEmptyFile(err):
			respondError(c, http.StatusBadRequest, "uploaded file is empty")
		case catalog.IsInvalidAudioFormat(err):
			respondError(c, http.StatusUnsupportedMediaType, "file is not a supported audio format")
		case catalog.IsDuplicateTrack(err):
			respondError(c, http.StatusConflict, "track with this title and singer already exists")
		default:
			logger.Log.Error().Err(err).Msg("Failed to upload track")
			respondError(c, http.StatusInternalServerError, "failed to upload track")
		}
		return
	}

	respondOK(c, "uploaded", track)
}

// List handles GET /api/music
func (h *MusicHandler) List(c *gin.Context) {
	page, size := pageParams(c)
	filter := db.TrackFilter{
		Title:  c.Query("title"),
		Singer: c.Query("singer"),
	}

	tracks, total, err := h.catalog.List(c.Request.Context(), filter, page, size)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list tracks")
		respondError(c, http.StatusInternalServerError, "failed to list tracks")
		return
	}

	respondOK(c, "ok", Page{Items: tracks, Total: total, Page: page, Size: size})
}

// Update handles PUT /api/music/:id
func (h *MusicHandler) Update(c *gin.Context) {
	identity, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateMusicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	track, err := h.catalog.Update(c.Request.Context(), identity.UserID, id, req.Title, req.Singer, req.Album)
	if err != nil {
		switch {
		case catalog.IsTrackNotFound(err):
			respondError(c, http.StatusNotFound, "track not found")
		case catalog.IsDuplicateTrack(err):
			respondError(c, http.StatusConflict, "track with this title and singer already exists")
		default:
			logger.Log.Error().Err(err).Msg("Failed to update track")
			respondError(c, http.StatusInternalServerError, "failed to update track")
		}
		return
	}

	respondOK(c, "updated", track)
}

// Delete handles DELETE /api/music
func (h *MusicHandler) Delete(c *gin.Context) {
	var req DeleteMusicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.catalog.Delete(c.Request.Context(), req.IDs); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to delete tracks")
		respondError(c, http.StatusInternalServerError, "failed to delete tracks")
		return
	}

	respondOK(c, "deleted", nil)
}

// Play handles GET /api/music/:id/play. The response is raw bytes, not the
// JSON envelope: 200 or 206 with audio content, 416 on an unsatisfiable
// range, 404 when the track or its file is gone.
func (h *MusicHandler) Play(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	resp, err := h.catalog.Play(c.Request.Context(), id, c.GetHeader("Range"))
	if err != nil {
		h.streamError(c, err)
		return
	}
	if err := resp.Write(c.Writer); err != nil {
		logger.Log.Debug().Err(err).Str("track_id", id.String()).Msg("Stream aborted")
	}
}

// Download handles GET /api/music/:id/download
func (h *MusicHandler) Download(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	resp, err := h.catalog.Download(c.Request.Context(), id)
	if err != nil {
		h.streamError(c, err)
		return
	}
	if err := resp.Write(c.Writer); err != nil {
		logger.Log.Debug().Err(err).Str("track_id", id.String()).Msg("Download aborted")
	}
}

// Cover handles GET /api/music/:id/cover
func (h *MusicHandler) Cover(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	path, mime, err := h.catalog.Cover(c.Request.Context(), id)
	if err != nil {
		h.streamError(c, err)
		return
	}

	c.Header("Content-Type", mime)
	c.Header("Cache-Control", "public, max-age=3600")
	c.File(path)
}

func (h *MusicHandler) streamError(c *gin.Context, err error) {
	switch {
	case catalog.IsTrackNotFound(err):
		c.Status(http.StatusNotFound)
	case catalog.IsPathTraversal(err):
		logger.Log.Error().Err(err).Msg("Stored path escapes storage root")
		c.Status(http.StatusNotFound)
	default:
		logger.Log.Error().Err(err).Msg("Failed to serve track content")
		c.Status(http.StatusInternalServerError)
	}
}

// pathID parses the :id route parameter, writing a 400 envelope on failure.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// pageParams parses 1-based page and size query parameters with defaults.
func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size < 1 || size > 100 {
		size = 10
	}
	return page, size
}

// SetupMusicRoutes registers track catalog and playback routes
func SetupMusicRoutes(apiGroup *gin.RouterGroup, catalogService *catalog.Service) {
	handler := NewMusicHandler(catalogService)

	apiGroup.POST("/music/upload", handler.Upload)
	apiGroup.GET("/music", handler.List)
	apiGroup.PUT("/music/:id", handler.Update)
	apiGroup.DELETE("/music", handler.Delete)
	apiGroup.GET("/music/:id/play", handler.Play)
	apiGroup.GET("/music/:id/download", handler.Download)
	apiGroup.GET("/music/:id/cover", handler.Cover)
}
