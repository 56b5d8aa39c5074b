package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type assignBedRequest struct {
	UserID string `json:"user_id"`
}

// AssignBed handles POST /beds/:bedId/assign. The occupant is overwritten
// unconditionally; whether the bed exists is not checked.
func (h *Handler) AssignBed(c *gin.Context) {
	var req assignBedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.beds.Assign(c.Request.Context(), c.Param("bedId"), req.UserID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UnassignBed handles PATCH /beds/:bedId/unassign.
func (h *Handler) UnassignBed(c *gin.Context) {
	if err := h.beds.Unassign(c.Request.Context(), c.Param("bedId")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
