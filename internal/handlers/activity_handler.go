package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"zapcrm/internal/models"
	"zapcrm/internal/services"
)

type ActivityHandler struct {
	Service *services.ActivityService
}

func NewActivityHandler(service *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{Service: service}
}

type createActivityRequest struct {
	Tipo      models.ActivityType `json:"tipo" binding:"required"`
	Descricao string              `json:"descricao" binding:"required"`
}

func (h *ActivityHandler) Create(c *gin.Context) {
	leadID, ok := parseUUIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	actor, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no user in context"})
		return
	}

	var req createActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	activity := &models.Activity{
		LeadID:    leadID,
		Tipo:      req.Tipo,
		Descricao: req.Descricao,
		CreatedBy: actor.ID,
	}
	if err := h.Service.Record(c.Request.Context(), activity); err != nil {
		if errors.Is(err, models.ErrLeadNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, activity)
}

func (h *ActivityHandler) ListByLead(c *gin.Context) {
	leadID, ok := parseUUIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	activities, err := h.Service.ListByLead(c.Request.Context(), leadID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list activities"})
		return
	}
	c.JSON(http.StatusOK, activities)
}
