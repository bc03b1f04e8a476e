package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadenza-audio/cadenza/internal/auth"
	"github.com/cadenza-audio/cadenza/internal/catalog"
	"github.com/cadenza-audio/cadenza/internal/config"
	"github.com/cadenza-audio/cadenza/internal/db"
	"github.com/cadenza-audio/cadenza/internal/logger"
	"github.com/cadenza-audio/cadenza/internal/menu"
	"github.com/cadenza-audio/cadenza/internal/middleware"
)

func setupRouterTest(t *testing.T) *gin.Engine {
	t.Helper()

	logger.Init("error", false)
	gin.SetMode(gin.TestMode)

	tmpDir := t.TempDir()
	database, err := db.New(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(sqlDB, "file://../../migrations"))

	repos := db.NewRepositories(database)
	storage, err := catalog.NewStorage(config.StorageConfig{
		MusicDir: filepath.Join(tmpDir, "music"),
		CoverDir: filepath.Join(tmpDir, "covers"),
	})
	require.NoError(t, err)

	tokens := auth.NewTokenManager(config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour})

	router := gin.New()
	apiGroup := router.Group("/api")
	SetupHealthRoutes(apiGroup, database)
	SetupUserRoutes(apiGroup, auth.NewService(repos, tokens))

	authed := apiGroup.Group("")
	authed.Use(middleware.RequireAuth(tokens))
	SetupMusicRoutes(authed, catalog.NewService(database, repos, storage, 1<<20))
	SetupMenuRoutes(authed, menu.NewService(database, repos))

	return router
}

func request(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func loginToken(t *testing.T, router *gin.Engine) string {
	t.Helper()

	w := request(router, http.MethodPost, "/api/users/register", "", map[string]string{
		"username": "alice", "password": "s3cretpw",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = request(router, http.MethodPost, "/api/users/login", "", map[string]string{
		"username": "alice", "password": "s3cretpw",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.Token)
	return envelope.Data.Token
}

func TestRegister_ValidationAndConflict(t *testing.T) {
	router := setupRouterTest(t)

	w := request(router, http.MethodPost, "/api/users/register", "", map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(router, http.MethodPost, "/api/users/register", "", map[string]string{
		"username": "alice", "password": "s3cretpw",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(router, http.MethodPost, "/api/users/register", "", map[string]string{
		"username": "alice", "password": "otherpw",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	router := setupRouterTest(t)
	_ = loginToken(t, router)

	w := request(router, http.MethodPost, "/api/users/login", "", map[string]string{
		"username": "alice", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := setupRouterTest(t)

	for _, path := range []string{"/api/music", "/api/menus"} {
		w := request(router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := request(router, http.MethodGet, "/api/music", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMusicRoutes_ErrorMapping(t *testing.T) {
	router := setupRouterTest(t)
	token := loginToken(t, router)

	// Malformed id
	w := request(router, http.MethodPut, "/api/music/not-a-uuid", token, map[string]string{
		"title": "X", "singer": "Y",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown track: JSON endpoints answer with the envelope, streaming
	// endpoints with a bare status
	id := "00000000-0000-0000-0000-000000000001"
	w = request(router, http.MethodPut, "/api/music/"+id, token, map[string]string{
		"title": "X", "singer": "Y",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)

	w = request(router, http.MethodGet, "/api/music/"+id+"/play", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.String())

	// Upload without a file field
	w = request(router, http.MethodPost, "/api/music/upload", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMenuRoutes_ErrorMapping(t *testing.T) {
	router := setupRouterTest(t)
	token := loginToken(t, router)

	id := "00000000-0000-0000-0000-000000000001"

	w := request(router, http.MethodGet, "/api/menus/"+id+"/tracks", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = request(router, http.MethodPost, "/api/menus/"+id+"/tracks", token, map[string]string{
		"track_id": id,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = request(router, http.MethodPost, "/api/menus", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(router, http.MethodPost, "/api/menus", token, map[string]string{"title": "Mix"})
	assert.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))

	w = request(router, http.MethodPut, "/api/menus/"+envelope.Data.ID+"/tracks/move", token, map[string]int{
		"from": 0, "to": 0,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(router, http.MethodPut, "/api/menus/"+envelope.Data.ID+"/tracks/move", token, map[string]int{
		"from": 0, "to": 3,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
