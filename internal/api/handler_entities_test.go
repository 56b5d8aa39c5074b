package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hostel-management-backend/config"
	"hostel-management-backend/internal/store"
)

// newTestRouter wires the real router over a per-test in-memory SQLite
// store, with response caching off and the rate limiter effectively open.
func newTestRouter(t *testing.T) (*gin.Engine, store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, store.Migrate(db))
	s := store.NewGormStore(db)

	cfg := &config.ServerConfig{
		RateLimitPerSec: 10000,
		RateLimitBurst:  10000,
		CacheTTLSeconds: -1,
	}
	return NewRouter(s, cfg, zap.NewNop()), s
}

func perform(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestCreateAndFetchBranch(t *testing.T) {
	router, _ := newTestRouter(t)

	w := perform(t, router, http.MethodPost, "/branches", map[string]any{"name": "Main", "city": "Dhaka"})
	require.Equal(t, http.StatusOK, w.Code)
	created := decodeMap(t, w)
	assert.Equal(t, true, created["acknowledged"])
	id, _ := created["insertedId"].(string)
	require.NotEmpty(t, id)

	w = perform(t, router, http.MethodGet, "/branches/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeMap(t, w)
	assert.Equal(t, "Main", got["name"])
	assert.Equal(t, id, got["_id"])

	w = perform(t, router, http.MethodGet, "/branches", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 1)
}

func TestFetchUnknownIDReturns404(t *testing.T) {
	router, _ := newTestRouter(t)

	w := perform(t, router, http.MethodGet, "/users/1b4e28ba-2fa1-11d2-883f-0016d3cca427", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decodeMap(t, w), "error")
}

func TestMalformedIDReturns400(t *testing.T) {
	router, _ := newTestRouter(t)

	w := perform(t, router, http.MethodGet, "/users/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(t, router, http.MethodDelete, "/users/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateMergesFields(t *testing.T) {
	router, _ := newTestRouter(t)

	w := perform(t, router, http.MethodPost, "/users", map[string]any{"name": "Rahim", "role": "warden"})
	id := decodeMap(t, w)["insertedId"].(string)

	w = perform(t, router, http.MethodPut, "/users/"+id, map[string]any{"role": "manager"})
	require.Equal(t, http.StatusOK, w.Code)
	res := decodeMap(t, w)
	assert.Equal(t, float64(1), res["matchedCount"])

	w = perform(t, router, http.MethodGet, "/users/"+id, nil)
	got := decodeMap(t, w)
	assert.Equal(t, "Rahim", got["name"])
	assert.Equal(t, "manager", got["role"])
}

func TestUpdateUnknownIDReturns404(t *testing.T) {
	router, _ := newTestRouter(t)

	w := perform(t, router, http.MethodPut, "/users/1b4e28ba-2fa1-11d2-883f-0016d3cca427", map[string]any{"role": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteBranch(t *testing.T) {
	router, _ := newTestRouter(t)

	w := perform(t, router, http.MethodPost, "/branches", map[string]any{"name": "gone"})
	id := decodeMap(t, w)["insertedId"].(string)

	w = perform(t, router, http.MethodDelete, "/branches/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeMap(t, w)["deletedCount"])

	w = perform(t, router, http.MethodDelete, "/branches/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBuildingsScopedByBranch(t *testing.T) {
	router, _ := newTestRouter(t)

	w := perform(t, router, http.MethodPost, "/branches", map[string]any{"name": "north"})
	north := decodeMap(t, w)["insertedId"].(string)
	w = perform(t, router, http.MethodPost, "/branches", map[string]any{"name": "south"})
	south := decodeMap(t, w)["insertedId"].(string)

	for i := 0; i < 2; i++ {
		perform(t, router, http.MethodPost, "/buildings", map[string]any{"name": fmt.Sprintf("n-%d", i), "branch_id": north})
		perform(t, router, http.MethodPost, "/buildings", map[string]any{"name": fmt.Sprintf("s-%d", i), "branch_id": south})
	}

	w = perform(t, router, http.MethodGet, "/buildings/"+north, nil)
	require.Equal(t, http.StatusOK, w.Code)
	scoped := decodeList(t, w)
	require.Len(t, scoped, 2)
	for _, b := range scoped {
		assert.Equal(t, north, b["branch_id"])
	}

	w = perform(t, router, http.MethodGet, "/buildings/all", nil)
	assert.Len(t, decodeList(t, w), 4)

	w = perform(t, router, http.MethodGet, "/buildings/single/"+scoped[0]["_id"].(string), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, scoped[0]["name"], decodeMap(t, w)["name"])
}
