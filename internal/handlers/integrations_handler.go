package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"zapcrm/internal/services"
)

// IntegrationsHandler covers the telegram bot surface: generating link
// codes and receiving bot updates. Service may be nil when the bot is
// disabled in config.
type IntegrationsHandler struct {
	Telegram *services.TelegramService
}

func NewIntegrationsHandler(telegram *services.TelegramService) *IntegrationsHandler {
	return &IntegrationsHandler{Telegram: telegram}
}

// RequestTelegramLink mints the code the user sends to the bot as
// "/start <código>".
func (h *IntegrationsHandler) RequestTelegramLink(c *gin.Context) {
	if h.Telegram == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "telegram integration disabled"})
		return
	}
	actor, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no user in context"})
		return
	}
	code, err := h.Telegram.RequestLink(c.Request.Context(), actor.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":       code,
		"instrucoes": "Envie /start " + code + " para o bot no Telegram.",
	})
}

// TelegramWebhook receives updates pushed by the bot API.
func (h *IntegrationsHandler) TelegramWebhook(c *gin.Context) {
	if h.Telegram == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "telegram integration disabled"})
		return
	}
	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.Telegram.HandleUpdate(c.Request.Context(), update)
	c.Status(http.StatusOK)
}
