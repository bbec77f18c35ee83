package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zapcrm/internal/cache"
)

// PrefsHandler exposes the per-user interface state (dashboard period,
// search text, display toggles) the front end restores on load.
type PrefsHandler struct {
	Store *cache.PrefsStore
}

func NewPrefsHandler(store *cache.PrefsStore) *PrefsHandler {
	return &PrefsHandler{Store: store}
}

func (h *PrefsHandler) Get(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no user in context"})
		return
	}
	c.JSON(http.StatusOK, h.Store.Get(c.Request.Context(), actor.ID))
}

func (h *PrefsHandler) Patch(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no user in context"})
		return
	}
	var patch cache.UIStatePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	state, err := h.Store.Patch(c.Request.Context(), actor.ID, patch)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, state)
}
