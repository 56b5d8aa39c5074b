package internal

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hostel-management-backend/config"
	"hostel-management-backend/internal/api"
	"hostel-management-backend/internal/store"
)

// TestHostelLifecycle walks the whole hierarchy through the HTTP surface:
// branch, building, floor, room, bed, user, bed assignment, then a payment
// and its derived account transaction.
func TestHostelLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testDB, err := gorm.Open(sqlite.Open("file:lifecycle?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()

	require.NoError(t, store.Migrate(testDB))
	appStore := store.NewGormStore(testDB)

	cfg := &config.ServerConfig{
		RateLimitPerSec: 10000,
		RateLimitBurst:  10000,
		CacheTTLSeconds: -1,
	}
	router := api.NewRouter(appStore, cfg, zap.NewNop())

	post := func(path string, body map[string]any) map[string]any {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, "POST %s: %s", path, w.Body.String())
		var out map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		return out
	}
	get := func(path string) *httptest.ResponseRecorder {
		req, err := http.NewRequest(http.MethodGet, path, nil)
		require.NoError(t, err)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, "GET %s: %s", path, w.Body.String())
		return w
	}
	getList := func(path string) []map[string]any {
		var out []map[string]any
		require.NoError(t, json.Unmarshal(get(path).Body.Bytes(), &out))
		return out
	}
	getDoc := func(path string) map[string]any {
		var out map[string]any
		require.NoError(t, json.Unmarshal(get(path).Body.Bytes(), &out))
		return out
	}

	// Build the hierarchy top-down.
	branchID := post("/branches", map[string]any{"name": "Main Branch"})["insertedId"].(string)
	buildingID := post("/buildings", map[string]any{"name": "Block A", "branch_id": branchID})["insertedId"].(string)
	floorID := post("/floors", map[string]any{"level": 3, "building_id": buildingID})["insertedId"].(string)
	roomID := post("/rooms", map[string]any{"number": "301", "floor_id": floorID})["insertedId"].(string)
	bedID := post("/beds", map[string]any{"label": "301-A", "room_id": roomID})["insertedId"].(string)
	userID := post("/users", map[string]any{"name": "Karim", "phone": "01700000000"})["insertedId"].(string)

	// Each parent-scoped listing sees exactly its own child.
	buildings := getList("/buildings/" + branchID)
	require.Len(t, buildings, 1)
	assert.Equal(t, buildingID, buildings[0]["_id"])

	floors := getList("/floors/" + buildingID)
	require.Len(t, floors, 1)
	assert.Equal(t, floorID, floors[0]["_id"])

	rooms := getList("/rooms/floor/" + floorID)
	require.Len(t, rooms, 1)
	assert.Equal(t, roomID, rooms[0]["_id"])

	beds := getList("/beds/room/" + roomID)
	require.Len(t, beds, 1)
	assert.Equal(t, bedID, beds[0]["_id"])

	// Assign the user to the bed and confirm the occupant landed.
	raw, err := json.Marshal(map[string]any{"user_id": userID})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, "/beds/"+bedID+"/assign", bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	bed := getDoc("/beds/single/" + bedID)
	assert.Equal(t, userID, bed["occupant"])

	// Record a payment and confirm the correlated ledger entry.
	paymentID := post("/payments", map[string]any{
		"branch_id":         branchID,
		"debit_account_id":  "cash",
		"credit_account_id": "rent-income",
		"amount":            4500,
	})["insertedId"].(string)

	entries := getList("/transactions")
	require.Len(t, entries, 1)
	assert.Equal(t, paymentID, entries[0]["reference_id"])
	assert.Equal(t, "payment", entries[0]["reference_type"])
	assert.Equal(t, branchID, entries[0]["branch_id"])
	assert.Equal(t, float64(4500), entries[0]["amount"])
}
