package cart

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shopfront/internal/catalog"
	"shopfront/internal/sync"
)

const sessionCookie = "cart_session"

// Notifier pushes a toast-style notice to one cart session.
type Notifier interface {
	Notify(sessionID, level, message string)
}

type Handler struct {
	Repo     *Repo
	Store    *catalog.Store
	Hub      *sync.Hub
	Notifier Notifier
}

func NewHandler(repo *Repo, store *catalog.Store, hub *sync.Hub, notifier Notifier) *Handler {
	return &Handler{Repo: repo, Store: store, Hub: hub, Notifier: notifier}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.get)                        // GET /cart
	rg.GET("/totals", h.totals)              // GET /cart/totals
	rg.POST("/items", h.addItem)             // POST /cart/items
	rg.DELETE("/items/:index", h.removeItem) // DELETE /cart/items/:index
	rg.POST("/checkout", h.checkout)         // POST /cart/checkout
}

// sessionID reads the cart session cookie, minting one on first contact.
func (h *Handler) sessionID(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookie); err == nil && id != "" {
		return id
	}
	id := uuid.NewString()
	c.SetCookie(sessionCookie, id, int((365 * 24 * time.Hour).Seconds()), "/", "", false, true)
	return id
}

func (h *Handler) get(c *gin.Context) {
	items := h.Repo.Read(c.Request.Context(), h.sessionID(c))
	c.JSON(http.StatusOK, gin.H{
		"total": len(items),
		"items": items,
	})
}

func (h *Handler) totals(c *gin.Context) {
	items := h.Repo.Read(c.Request.Context(), h.sessionID(c))
	c.JSON(http.StatusOK, ComputeTotals(items))
}

type addReq struct {
	ProductID int `json:"product_id"`
}

func (h *Handler) addItem(c *gin.Context) {
	var req addReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	p, err := h.Store.GetByID(req.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": catalog.ErrNotFound.Error()})
		return
	}

	session := h.sessionID(c)
	items := h.Repo.Read(c.Request.Context(), session)

	items, outcome := Add(items, *p)
	if outcome == OutcomeAlreadyPresent {
		if h.Notifier != nil {
			h.Notifier.Notify(session, "warning", fmt.Sprintf("%s is already in your cart", p.Name))
		}
		c.JSON(http.StatusConflict, gin.H{
			"error":   ErrDuplicateItem.Error(),
			"outcome": outcome,
			"total":   len(items),
		})
		return
	}

	if err := h.Repo.Persist(c.Request.Context(), session, items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	if h.Hub != nil {
		ev := sync.CartEvent{
			Type:      sync.EventCartAdd,
			SessionID: session,
			ProductID: p.ID,
			Name:      p.Name,
			Items:     len(items),
			At:        time.Now().UTC(),
		}
		go h.Hub.Broadcast(ev)
	}

	c.JSON(http.StatusCreated, gin.H{
		"outcome": outcome,
		"item":    items[len(items)-1],
		"total":   len(items),
	})
}

func (h *Handler) removeItem(c *gin.Context) {
	index, err := strconv.Atoi(strings.TrimSpace(c.Param("index")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrIndexOutOfRange.Error()})
		return
	}

	session := h.sessionID(c)
	items := h.Repo.Read(c.Request.Context(), session)

	items, removed, err := Remove(items, index)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Repo.Persist(c.Request.Context(), session, items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	if h.Hub != nil {
		ev := sync.CartEvent{
			Type:      sync.EventCartRemove,
			SessionID: session,
			Name:      removed,
			Items:     len(items),
			At:        time.Now().UTC(),
		}
		go h.Hub.Broadcast(ev)
	}

	c.JSON(http.StatusOK, gin.H{
		"outcome": OutcomeRemoved,
		"removed": removed,
		"total":   len(items),
	})
}

// checkout only confirms the order contents and reports that real
// checkout is not implemented. Nothing external is called and the cart is
// left as is.
func (h *Handler) checkout(c *gin.Context) {
	session := h.sessionID(c)
	items := h.Repo.Read(c.Request.Context(), session)

	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		return
	}

	totals := ComputeTotals(items)

	if h.Notifier != nil {
		h.Notifier.Notify(session, "info", "checkout is not implemented in this demo")
	}
	if h.Hub != nil {
		ev := sync.CartEvent{
			Type:      sync.EventCartCheckout,
			SessionID: session,
			Items:     len(items),
			At:        time.Now().UTC(),
		}
		go h.Hub.Broadcast(ev)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "checkout is not implemented",
		"items":   len(items),
		"totals":  totals,
	})
}
