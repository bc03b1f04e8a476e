//go:build integration
// +build integration

package integration

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoint(t *testing.T) {
	router := setupAPI(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestAuthRequiredOnCatalogRoutes(t *testing.T) {
	router := setupAPI(t)

	w := doJSON(t, router, http.MethodGet, "/api/music", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/music", "bogus-token", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUploadListAndStream(t *testing.T) {
	router := setupAPI(t)
	token := registerAndLogin(t, router, "alice")

	trackID := uploadWAV(t, router, token, "First Song.wav", 8000)

	var page struct {
		Items []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"items"`
		Total int64 `json:"total"`
	}
	w := doJSON(t, router, http.MethodGet, "/api/music", token, nil, &page)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, int64(1), page.Total)
	assert.Equal(t, trackID, page.Items[0].ID)
	assert.Equal(t, "First Song", page.Items[0].Title)

	// Full content
	req := httptest.NewRequest(http.MethodGet, "/api/music/"+trackID+"/play", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	require.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, "bytes", w2.Header().Get("Accept-Ranges"))
	assert.Equal(t, "audio/wav", w2.Header().Get("Content-Type"))

	// Partial content
	req = httptest.NewRequest(http.MethodGet, "/api/music/"+trackID+"/play", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Range", "bytes=0-99")
	w2 = httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	require.Equal(t, http.StatusPartialContent, w2.Code)
	assert.Len(t, w2.Body.Bytes(), 100)

	// Unsatisfiable range
	req = httptest.NewRequest(http.MethodGet, "/api/music/"+trackID+"/play", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Range", "bytes=900000-900100")
	w2 = httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	require.Equal(t, http.StatusRequestedRangeNotSatisfiable, w2.Code)
	assert.Contains(t, w2.Header().Get("Content-Range"), "bytes */")

	// Download returns byte-identical content
	req = httptest.NewRequest(http.MethodGet, "/api/music/"+trackID+"/download", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w2 = httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	require.Equal(t, http.StatusOK, w2.Code)
	assert.Contains(t, w2.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, wavBytes(8000), w2.Body.Bytes())
}

func TestDuplicateUploadRejected(t *testing.T) {
	router := setupAPI(t)
	token := registerAndLogin(t, router, "alice")

	uploadWAV(t, router, token, "Same Song.wav", 2000)

	// Second identical upload collides on title/singer
	w := httptest.NewRecorder()
	router.ServeHTTP(w, wavUploadRequest(t, token, "Same Song.wav", 2000))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestMenuLifecycle(t *testing.T) {
	router := setupAPI(t)
	token := registerAndLogin(t, router, "alice")

	trackA := uploadWAV(t, router, token, "Track A.wav", 1000)
	trackB := uploadWAV(t, router, token, "Track B.wav", 1200)
	trackC := uploadWAV(t, router, token, "Track C.wav", 1400)

	var created struct {
		ID string `json:"id"`
	}
	w := doJSON(t, router, http.MethodPost, "/api/menus", token, map[string]string{"title": "Road Trip"}, &created)
	require.Equal(t, http.StatusOK, w.Code)
	menuID := created.ID

	for _, trackID := range []string{trackA, trackB, trackC} {
		w = doJSON(t, router, http.MethodPost, "/api/menus/"+menuID+"/tracks", token,
			map[string]string{"track_id": trackID}, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	// Duplicate add is rejected
	w = doJSON(t, router, http.MethodPost, "/api/menus/"+menuID+"/tracks", token,
		map[string]string{"track_id": trackA}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Move the last entry to the front
	w = doJSON(t, router, http.MethodPut, "/api/menus/"+menuID+"/tracks/move", token,
		map[string]int{"from": 2, "to": 0}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Items []struct {
			ID       string `json:"id"`
			Position int    `json:"position"`
			Track    struct {
				Title string `json:"title"`
			} `json:"track"`
		} `json:"items"`
		Total int64 `json:"total"`
	}
	w = doJSON(t, router, http.MethodGet, "/api/menus/"+menuID+"/tracks", token, nil, &page)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, int64(3), page.Total)
	assert.Equal(t, "Track C", page.Items[0].Track.Title)
	assert.Equal(t, "Track A", page.Items[1].Track.Title)
	assert.Equal(t, "Track B", page.Items[2].Track.Title)
	assert.Equal(t, []int{0, 1, 2}, []int{page.Items[0].Position, page.Items[1].Position, page.Items[2].Position})

	// Remove the middle entry; survivors renumber
	w = doJSON(t, router, http.MethodDelete, "/api/menus/"+menuID+"/tracks", token,
		map[string][]string{"entry_ids": {page.Items[1].ID}}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/menus/"+menuID+"/tracks", token, nil, &page)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, int64(2), page.Total)
	assert.Equal(t, "Track C", page.Items[0].Track.Title)
	assert.Equal(t, "Track B", page.Items[1].Track.Title)
	assert.Equal(t, 0, page.Items[0].Position)
	assert.Equal(t, 1, page.Items[1].Position)
}

func TestMenusAreScopedToOwner(t *testing.T) {
	router := setupAPI(t)
	alice := registerAndLogin(t, router, "alice")
	bob := registerAndLogin(t, router, "bob")

	w := doJSON(t, router, http.MethodPost, "/api/menus", alice, map[string]string{"title": "Alice's"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Total int64 `json:"total"`
	}
	w = doJSON(t, router, http.MethodGet, "/api/menus", bob, nil, &page)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, page.Total)

	w = doJSON(t, router, http.MethodGet, "/api/menus", alice, nil, &page)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), page.Total)
}

func TestDeleteTrackCascadesToMenus(t *testing.T) {
	router := setupAPI(t)
	token := registerAndLogin(t, router, "alice")

	trackA := uploadWAV(t, router, token, "Keep.wav", 1000)
	trackB := uploadWAV(t, router, token, "Drop.wav", 1200)

	var created struct {
		ID string `json:"id"`
	}
	w := doJSON(t, router, http.MethodPost, "/api/menus", token, map[string]string{"title": "Mix"}, &created)
	require.Equal(t, http.StatusOK, w.Code)

	for _, trackID := range []string{trackB, trackA} {
		w = doJSON(t, router, http.MethodPost, "/api/menus/"+created.ID+"/tracks", token,
			map[string]string{"track_id": trackID}, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = doJSON(t, router, http.MethodDelete, "/api/music", token,
		map[string][]string{"ids": {trackB}}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Items []struct {
			Position int `json:"position"`
			Track    struct {
				Title string `json:"title"`
			} `json:"track"`
		} `json:"items"`
		Total int64 `json:"total"`
	}
	w = doJSON(t, router, http.MethodGet, "/api/menus/"+created.ID+"/tracks", token, nil, &page)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, int64(1), page.Total)
	assert.Equal(t, "Keep", page.Items[0].Track.Title)
	assert.Equal(t, 0, page.Items[0].Position)
}
