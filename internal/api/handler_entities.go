package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hostel-management-backend/internal/store"
)

// The entity handlers are generic over a collection descriptor; the router
// instantiates them once per entity kind. Insert, update and delete echo a
// driver-style acknowledgment so existing clients keep working.

// CreateDocument handles POST /{entity}.
func CreateDocument(s store.Store, col store.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, ok := bindDocument(c)
		if !ok {
			return
		}
		id, err := s.Insert(c.Request.Context(), col, doc)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"acknowledged": true, "insertedId": id})
	}
}

// ListDocuments handles GET /{entity} and GET /{entity}/all.
func ListDocuments(s store.Store, col store.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		docs, err := s.FetchAll(c.Request.Context(), col)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, docs)
	}
}

// GetDocument handles the single-document fetch routes.
func GetDocument(s store.Store, col store.Collection, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := s.FetchByID(c.Request.Context(), col, c.Param(param))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, doc)
	}
}

// ListByParent handles GET /{entity}/.../:parentId.
func ListByParent(s store.Store, col store.Collection, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		docs, err := s.FetchByParent(c.Request.Context(), col, c.Param(param))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, docs)
	}
}

// UpdateDocument handles PUT /{entity}/:id with a partial-field merge.
func UpdateDocument(s store.Store, col store.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		fields, ok := bindDocument(c)
		if !ok {
			return
		}
		res, err := s.UpdateByID(c.Request.Context(), col, c.Param("id"), fields)
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
}

// DeleteDocument handles DELETE /{entity}/:id.
func DeleteDocument(s store.Store, col store.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := s.DeleteByID(c.Request.Context(), col, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		if n == 0 {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": store.ErrNotFound.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"acknowledged": true, "deletedCount": n})
	}
}
