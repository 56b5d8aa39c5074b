package mw

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

type storedResponse struct {
	status      int
	contentType string
	body        []byte
}

// recordingWriter tees the response body so it can be cached after the
// handler chain finishes.
type recordingWriter struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (w recordingWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w recordingWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Cache serves successful GET responses from an in-memory cache keyed by
// request URI. Non-GET requests pass straight through.
func Cache(store *cache.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.RequestURI
		if hit, ok := store.Get(key); ok {
			resp := hit.(storedResponse)
			c.Header("Content-Type", resp.contentType)
			c.Writer.WriteHeader(resp.status)
			c.Writer.Write(resp.body)
			c.Abort()
			return
		}

		rw := recordingWriter{ResponseWriter: c.Writer, buf: bytes.NewBuffer(nil)}
		c.Writer = rw

		c.Next()

		if status := rw.Status(); status >= 200 && status < 300 {
			store.Set(key, storedResponse{
				status:      status,
				contentType: rw.Header().Get("Content-Type"),
				body:        rw.buf.Bytes(),
			}, ttl)
		}
	}
}
