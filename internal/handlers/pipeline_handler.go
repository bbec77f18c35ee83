package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"zapcrm/internal/models"
	"zapcrm/internal/pipeline"
)

type PipelineHandler struct {
	Manager *pipeline.Manager
}

func NewPipelineHandler(manager *pipeline.Manager) *PipelineHandler {
	return &PipelineHandler{Manager: manager}
}

// @Summary      Quadro do pipeline
// @Description  Devolve as colunas do kanban com os leads agrupados por status
// @Tags         Pipeline
// @Produce      json
// @Success      200  {array}   pipeline.Column
// @Failure      500  {object}  map[string]string
// @Router       /pipeline [get]
func (h *PipelineHandler) Board(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no user in context"})
		return
	}
	columns, err := h.Manager.Columns(c.Request.Context(), actor.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load pipeline"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": columns})
}

type selectRequest struct {
	LeadID string `json:"lead_id" binding:"required"`
}

// Select marks the lead whose detail view the user has open. Starting
// a drag clears it.
func (h *PipelineHandler) Select(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no user in context"})
		return
	}
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	leadID, err := uuid.Parse(req.LeadID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead_id"})
		return
	}
	h.Manager.Select(actor.ID, leadID)
	c.Status(http.StatusNoContent)
}

type beginDragRequest struct {
	LeadID string `json:"lead_id" binding:"required"`
}

func (h *PipelineHandler) BeginDrag(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no user in context"})
		return
	}
	var req beginDragRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	leadID, err := uuid.Parse(req.LeadID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead_id"})
		return
	}

	if err := h.Manager.BeginDrag(c.Request.Context(), actor.ID, leadID); err != nil {
		if errors.Is(err, pipeline.ErrDragActive) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

type endDragRequest struct {
	LeadID string  `json:"lead_id" binding:"required"`
	Target *string `json:"target"`
}

// EndDrag finishes the drag. A null target means the card was dropped
// outside every column.
func (h *PipelineHandler) EndDrag(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no user in context"})
		return
	}
	var req endDragRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	leadID, err := uuid.Parse(req.LeadID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead_id"})
		return
	}

	var target *models.LeadStatus
	if req.Target != nil {
		status := models.LeadStatus(*req.Target)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target status: " + *req.Target})
			return
		}
		target = &status
	}

	result := h.Manager.EndDrag(c.Request.Context(), actor, leadID, target)
	c.JSON(http.StatusOK, result)
}
