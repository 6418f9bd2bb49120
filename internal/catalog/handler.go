package catalog

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)                // GET /products
	rg.GET("/:id", h.getByID)         // GET /products/:id
	rg.GET("/:id/related", h.related) // GET /products/:id/related
}

func (h *Handler) list(c *gin.Context) {
	if !h.Store.Loaded() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": ErrUnavailable.Error()})
		return
	}

	category := strings.TrimSpace(c.Query("category"))
	if category == "" {
		category = AllCategories
	}

	items := FilterByCategory(h.Store.Products(), category)
	items = Search(items, c.Query("q"))

	c.JSON(http.StatusOK, gin.H{
		"total": len(items),
		"items": items,
	})
}

func (h *Handler) getByID(c *gin.Context) {
	if !h.Store.Loaded() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": ErrUnavailable.Error()})
		return
	}

	// absent, non-numeric or non-positive ids all present as not found
	id, err := strconv.Atoi(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrNotFound.Error()})
		return
	}

	p, err := h.Store.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) related(c *gin.Context) {
	if !h.Store.Loaded() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": ErrUnavailable.Error()})
		return
	}

	id, err := strconv.Atoi(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrNotFound.Error()})
		return
	}

	p, err := h.Store.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrNotFound.Error()})
		return
	}

	limit := parseInt(c.Query("limit"), RelatedLimit)
	items := RelatedTo(h.Store.Products(), p.Category, p.ID, limit)

	c.JSON(http.StatusOK, gin.H{
		"total": len(items),
		"items": items,
	})
}

// ListCategories serves the category selector values, "All" first.
func (h *Handler) ListCategories(c *gin.Context) {
	if !h.Store.Loaded() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": ErrUnavailable.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": Categories(h.Store.Products())})
}

// Reload re-fetches the catalog. This is the manual retry action for a
// failed page-load fetch.
func (h *Handler) Reload(c *gin.Context) {
	if err := h.Store.Load(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "reloaded",
		"products": len(h.Store.Products()),
	})
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
