package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"zapcrm/internal/services"
)

type WhatsappHandler struct {
	Service       *services.WhatsappService
	WebhookSecret string
}

func NewWhatsappHandler(service *services.WhatsappService, webhookSecret string) *WhatsappHandler {
	return &WhatsappHandler{Service: service, WebhookSecret: webhookSecret}
}

// @Summary      Webhook do WhatsApp
// @Description  Recebe mensagens do fluxo n8n, criando o lead quando necessário
// @Tags         WhatsApp
// @Accept       json
// @Produce      json
// @Success      200  {object}  services.IngestResult
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /webhooks/whatsapp [post]
func (h *WhatsappHandler) Webhook(c *gin.Context) {
	if !h.authorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook secret"})
		return
	}

	var in services.InboundMessage
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Service.Ingest(c.Request.Context(), in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// authorized checks the shared secret in the Authorization header with
// a constant-time comparison.
func (h *WhatsappHandler) authorized(c *gin.Context) bool {
	if h.WebhookSecret == "" {
		return false
	}
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	token := strings.TrimPrefix(header, "Bearer ")
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.WebhookSecret)) == 1
}

func (h *WhatsappHandler) Conversations(c *gin.Context) {
	conversations, err := h.Service.Conversations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list conversations"})
		return
	}
	c.JSON(http.StatusOK, conversations)
}

func (h *WhatsappHandler) Messages(c *gin.Context) {
	leadID, ok := parseUUIDParam(c, "lead_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead_id"})
		return
	}
	messages, err := h.Service.Messages(c.Request.Context(), leadID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, messages)
}

type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// Send records a message sent to the lead from inside the CRM. The
// actual delivery is done by the n8n flow that watches this endpoint.
func (h *WhatsappHandler) Send(c *gin.Context) {
	leadID, ok := parseUUIDParam(c, "lead_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead_id"})
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := h.Service.RecordOutgoing(c.Request.Context(), leadID, req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, msg)
}
