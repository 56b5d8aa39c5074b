package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hostel-management-backend/internal/store"
)

// RecordPayment handles POST /payments: the payment insert plus its derived
// account transaction, through the ledger writer.
func (h *Handler) RecordPayment(c *gin.Context) {
	payment, ok := bindDocument(c)
	if !ok {
		return
	}

	id, err := h.ledger.RecordPayment(c.Request.Context(), payment)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"acknowledged": true, "insertedId": id})
}

// UpdatePayment handles PUT /payments/:id. The merge goes through the
// ledger writer, which never recomputes the derived account transaction.
func (h *Handler) UpdatePayment(c *gin.Context) {
	fields, ok := bindDocument(c)
	if !ok {
		return
	}

	res, err := h.ledger.UpdatePayment(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		writeError(c, err)
		return
	}
	if res.Matched == 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": store.ErrNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"acknowledged":  true,
		"matchedCount":  res.Matched,
		"modifiedCount": res.Modified,
	})
}
