package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"zapcrm/internal/authz"
	"zapcrm/internal/models"
	"zapcrm/internal/services"
)

type LeadHandler struct {
	Service  *services.LeadService
	Importer *services.ImportService
}

func NewLeadHandler(service *services.LeadService, importer *services.ImportService) *LeadHandler {
	return &LeadHandler{Service: service, Importer: importer}
}

// @Summary      Criar lead
// @Tags         Leads
// @Accept       json
// @Produce      json
// @Param        lead  body      models.Lead  true  "Dados do lead"
// @Success      201   {object}  models.Lead
// @Failure      400   {object}  map[string]string
// @Router       /leads [post]
func (h *LeadHandler) Create(c *gin.Context) {
	var lead models.Lead
	if err := c.ShouldBindJSON(&lead); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no user in context"})
		return
	}

	// created_by always comes from the token
	lead.CreatedBy = actor.ID
	if lead.ResponsavelID == nil {
		id := actor.ID
		lead.ResponsavelID = &id
	}

	if err := h.Service.Create(c.Request.Context(), &lead); err != nil {
		if errors.Is(err, models.ErrInvalidLead) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, lead)
}

func (h *LeadHandler) List(c *gin.Context) {
	leads, err := h.Service.ListLeads(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list leads"})
		return
	}
	c.JSON(http.StatusOK, leads)
}

func (h *LeadHandler) GetByID(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	lead, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrLeadNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, lead)
}

func (h *LeadHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	actor, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no user in context"})
		return
	}

	current, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
		return
	}
	// vendedor edits only their own leads
	if !authz.CanEditLead(actor, *current) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var body models.Lead
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	body.ID = id
	body.CreatedBy = current.CreatedBy
	body.CreatedAt = current.CreatedAt
	// reassignment goes through the dedicated endpoint
	if !authz.Can(actor.Papel, authz.CapAssignLeads) {
		body.ResponsavelID = current.ResponsavelID
	}

	if err := h.Service.Update(c.Request.Context(), &body); err != nil {
		if errors.Is(err, models.ErrInvalidLead) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	updated, _ := h.Service.GetByID(c.Request.Context(), id)
	c.JSON(http.StatusOK, updated)
}

func (h *LeadHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	actor, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no user in context"})
		return
	}

	lead, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
		return
	}
	if !authz.CanEditLead(actor, *lead) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	if err := h.Service.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

type updateStatusRequest struct {
	Status models.LeadStatus `json:"status" binding:"required"`
}

// UpdateStatus is the non-drag way of changing the pipeline column,
// used by the lead detail view. The same ownership rule as the board
// applies.
func (h *LeadHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	actor, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no user in context"})
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status: " + string(req.Status)})
		return
	}

	lead, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
		return
	}
	if !authz.CanMoveLead(actor, *lead) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Você só pode mover seus próprios leads"})
		return
	}

	if err := h.Service.UpdateLeadStatus(c.Request.Context(), id, req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	updated, _ := h.Service.GetByID(c.Request.Context(), id)
	c.JSON(http.StatusOK, updated)
}

type assignRequest struct {
	ResponsavelID *string `json:"responsavel_id"`
}

func (h *LeadHandler) Assign(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var responsavel *uuid.UUID
	if req.ResponsavelID != nil && *req.ResponsavelID != "" {
		parsed, err := uuid.Parse(*req.ResponsavelID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid responsavel_id"})
			return
		}
		responsavel = &parsed
	}

	if err := h.Service.Assign(c.Request.Context(), id, responsavel); err != nil {
		if errors.Is(err, models.ErrLeadNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	updated, _ := h.Service.GetByID(c.Request.Context(), id)
	c.JSON(http.StatusOK, updated)
}

// @Summary      Importar leads via CSV
// @Description  Recebe o conteúdo CSV e importa as linhas válidas em lote
// @Tags         Leads
// @Accept       plain
// @Produce      json
// @Success      200  {object}  services.ImportResult
// @Failure      400  {object}  map[string]string
// @Router       /leads/import [post]
func (h *LeadHandler) Import(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no user in context"})
		return
	}

	text, ok := readImportBody(c)
	if !ok {
		return
	}

	result, err := h.Importer.Import(c.Request.Context(), text, actor)
	if err != nil {
		if errors.Is(err, services.ErrEmptyImport) || errors.Is(err, services.ErrInvalidHeader) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// readImportBody accepts either a multipart upload under "file" or the
// raw CSV text as the request body.
func readImportBody(c *gin.Context) (string, bool) {
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
			return "", false
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
			return "", false
		}
		return string(data), true
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return "", false
	}
	return string(data), true
}

// ImportTemplate serves the example CSV users download before filling
// in their own data.
func (h *LeadHandler) ImportTemplate(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="modelo_leads.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(services.ImportTemplate))
}
