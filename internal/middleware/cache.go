package middleware

import (
	"bytes"
	"fmt"
	"net/http"

	"yatube/internal/cache"

	"github.com/gin-gonic/gin"
)

type bodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CachePage serves GET responses from pc, keyed by URL and viewer. Successful
// responses are stored for the cache's TTL; nothing invalidates them early
// except pc.Invalidate.
func CachePage(pc cache.PageCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := pageKey(c)
		if page, ok := pc.Get(c.Request.Context(), key); ok {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "text/html; charset=utf-8", page)
			c.Abort()
			return
		}

		w := &bodyWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w
		c.Header("X-Cache", "MISS")
		c.Next()

		if w.Status() == http.StatusOK {
			pc.Set(c.Request.Context(), key, w.body.Bytes())
		}
	}
}

func pageKey(c *gin.Context) string {
	viewer := "anon"
	if user, ok := CurrentUser(c); ok {
		viewer = fmt.Sprintf("u%d", user.ID)
	}
	return fmt.Sprintf("%s?%s#%s", c.Request.URL.Path, c.Request.URL.RawQuery, viewer)
}
