//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/cadenza-audio/cadenza/internal/api"
	"github.com/cadenza-audio/cadenza/internal/auth"
	"github.com/cadenza-audio/cadenza/internal/catalog"
	"github.com/cadenza-audio/cadenza/internal/config"
	"github.com/cadenza-audio/cadenza/internal/db"
	"github.com/cadenza-audio/cadenza/internal/logger"
	"github.com/cadenza-audio/cadenza/internal/menu"
	"github.com/cadenza-audio/cadenza/internal/middleware"
)

// setupAPI wires a full router against a temporary database and storage
// roots, mirroring the production server setup.
func setupAPI(t *testing.T) *gin.Engine {
	t.Helper()

	logger.Init("error", false)
	gin.SetMode(gin.TestMode)

	tmpDir := t.TempDir()
	database, err := db.New(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)

	// Resolve migrations relative to this file so the working directory
	// does not matter
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok)
	migrationsDir := filepath.Join(filepath.Dir(filepath.Dir(filepath.Dir(filename))), "migrations")
	require.NoError(t, db.RunMigrations(sqlDB, "file://"+migrationsDir))

	repos := db.NewRepositories(database)
	storage, err := catalog.NewStorage(config.StorageConfig{
		MusicDir: filepath.Join(tmpDir, "music"),
		CoverDir: filepath.Join(tmpDir, "covers"),
	})
	require.NoError(t, err)

	tokens := auth.NewTokenManager(config.AuthConfig{JWTSecret: "integration-secret", TokenTTL: time.Hour})

	router := gin.New()
	apiGroup := router.Group("/api")
	api.SetupHealthRoutes(apiGroup, database)
	api.SetupUserRoutes(apiGroup, auth.NewService(repos, tokens))

	authed := apiGroup.Group("")
	authed.Use(middleware.RequireAuth(tokens))
	api.SetupMusicRoutes(authed, catalog.NewService(database, repos, storage, 10<<20))
	api.SetupMenuRoutes(authed, menu.NewService(database, repos))

	return router
}

// doJSON performs a JSON request and decodes the envelope data into out when
// out is non-nil.
func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}, out interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if out != nil && w.Code < 300 {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
	return w
}

// registerAndLogin creates an account and returns a bearer token for it.
func registerAndLogin(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/users/register", "", map[string]string{
		"username": username,
		"password": "s3cretpw",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Token string `json:"token"`
	}
	w = doJSON(t, router, http.MethodPost, "/api/users/login", "", map[string]string{
		"username": username,
		"password": "s3cretpw",
	}, &login)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, login.Token)

	return login.Token
}

// wavUploadRequest builds a multipart upload request carrying a synthetic
// WAV file.
func wavUploadRequest(t *testing.T, token, fileName string, dataLen int) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(wavBytes(dataLen))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/music/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// uploadWAV uploads a synthetic WAV file and returns the created track's ID.
func uploadWAV(t *testing.T, router *gin.Engine, token, fileName string, dataLen int) string {
	t.Helper()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, wavUploadRequest(t, token, fileName, dataLen))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var track struct {
		ID string `json:"id"`
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, &track))
	require.NotEmpty(t, track.ID)
	return track.ID
}

// wavBytes builds a minimal mono 8-bit PCM WAV file with dataLen audio bytes.
func wavBytes(dataLen int) []byte {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint32(8000))
	binary.Write(&buf, binary.LittleEndian, uint32(8000))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(8))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	buf.Write(make([]byte, dataLen))
	return buf.Bytes()
}
