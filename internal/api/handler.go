package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hostel-management-backend/internal/ledger"
	"hostel-management-backend/internal/occupancy"
	"hostel-management-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store  store.Store
	beds   *occupancy.Mutator
	ledger *ledger.Writer
	log    *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, beds *occupancy.Mutator, lw *ledger.Writer, log *zap.Logger) *Handler {
	return &Handler{
		store:  s,
		beds:   beds,
		ledger: lw,
		log:    log,
	}
}

// writeError translates store errors into a stable response shape: 400 for a
// malformed id, 404 for a missing document, 500 for anything the driver
// failed on. Every route goes through here, so error bodies stay uniform.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidID):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// bindDocument reads the request body as a schemaless document. An empty
// body yields an empty document rather than an error; anything that is not
// a JSON object is rejected.
func bindDocument(c *gin.Context) (map[string]any, bool) {
	doc := map[string]any{}
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return doc, true
	}
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return doc, true
}
