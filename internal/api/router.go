package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"hostel-management-backend/config"
	"hostel-management-backend/internal/ledger"
	"hostel-management-backend/internal/mw"
	"hostel-management-backend/internal/occupancy"
	"hostel-management-backend/internal/store"
)

// NewRouter creates and configures a new Gin router. The route shapes are
// uneven on purpose: users and branches expose flat CRUD paths while the
// building/floor/room/bed hierarchy uses /all, /single/:id and a
// parent-scoped listing, matching the paths existing clients call.
func NewRouter(s store.Store, cfg *config.ServerConfig, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), mw.RequestLogger(log))

	handler := NewHandler(s, occupancy.NewMutator(s, log), ledger.NewWriter(s, log), log)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	// A non-positive TTL turns response caching off.
	var caching gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if cfg.CacheTTLSeconds > 0 {
		ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
		caching = mw.Cache(cache.New(ttl, 2*ttl), ttl)
	}

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hostel Management Server Running")
	})

	root := r.Group("/")
	root.Use(rateLimiter)
	{
		for _, col := range []store.Collection{store.Users, store.Branches} {
			base := "/" + col.Name()
			root.POST(base, CreateDocument(s, col))
			root.GET(base, caching, ListDocuments(s, col))
			root.GET(base+"/:id", caching, GetDocument(s, col, "id"))
			root.PUT(base+"/:id", UpdateDocument(s, col))
			root.DELETE(base+"/:id", DeleteDocument(s, col))
		}

		root.POST("/buildings", CreateDocument(s, store.Buildings))
		root.GET("/buildings/all", caching, ListDocuments(s, store.Buildings))
		root.GET("/buildings/single/:id", caching, GetDocument(s, store.Buildings, "id"))
		root.GET("/buildings/:branchId", caching, ListByParent(s, store.Buildings, "branchId"))
		root.PUT("/buildings/:id", UpdateDocument(s, store.Buildings))
		root.DELETE("/buildings/:id", DeleteDocument(s, store.Buildings))

		root.POST("/floors", CreateDocument(s, store.Floors))
		root.GET("/floors/all", caching, ListDocuments(s, store.Floors))
		root.GET("/floors/single/:id", caching, GetDocument(s, store.Floors, "id"))
		root.GET("/floors/:buildingId", caching, ListByParent(s, store.Floors, "buildingId"))
		root.PUT("/floors/:id", UpdateDocument(s, store.Floors))
		root.DELETE("/floors/:id", DeleteDocument(s, store.Floors))

		root.POST("/rooms", CreateDocument(s, store.Rooms))
		root.GET("/rooms/all", caching, ListDocuments(s, store.Rooms))
		root.GET("/rooms/floor/:floorId", caching, ListByParent(s, store.Rooms, "floorId"))
		root.GET("/rooms/single/:id", caching, GetDocument(s, store.Rooms, "id"))
		root.PUT("/rooms/:id", UpdateDocument(s, store.Rooms))
		root.DELETE("/rooms/:id", DeleteDocument(s, store.Rooms))

		root.POST("/beds", CreateDocument(s, store.Beds))
		root.GET("/beds/all", caching, ListDocuments(s, store.Beds))
		root.GET("/beds/room/:roomId", caching, ListByParent(s, store.Beds, "roomId"))
		root.GET("/beds/single/:id", caching, GetDocument(s, store.Beds, "id"))
		root.PUT("/beds/:id", UpdateDocument(s, store.Beds))
		root.DELETE("/beds/:id", DeleteDocument(s, store.Beds))
		root.POST("/beds/:bedId/assign", handler.AssignBed)
		root.PATCH("/beds/:bedId/unassign", handler.UnassignBed)

		root.POST("/payments", handler.RecordPayment)
		root.PUT("/payments/:id", handler.UpdatePayment)
		root.GET("/payments", caching, ListDocuments(s, store.Payments))
		root.GET("/transactions", caching, ListDocuments(s, store.AccountTransactions))
	}

	return r
}
