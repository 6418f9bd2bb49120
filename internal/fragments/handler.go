package fragments

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler serves fragment HTML for injection into page containers. An
// unknown name is a 404; a known fragment that failed to fetch is served
// empty so the page degrades instead of breaking.
func Handler(f *Fetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		if !Known(name) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown fragment"})
			return
		}

		html := f.Fragment(c.Request.Context(), name)
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, html)
	}
}
