package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"zapcrm/internal/format"
	"zapcrm/internal/models"
	"zapcrm/internal/repositories"
	"zapcrm/internal/utils"
)

// TelegramService pushes new-lead alerts to linked chats and handles
// the /start linking handshake. It satisfies LeadNotifier.
type TelegramService struct {
	bot   *tgbotapi.BotAPI
	links *repositories.TelegramLinkRepository
	log   zerolog.Logger
}

func NewTelegramService(botToken string, links *repositories.TelegramLinkRepository, log zerolog.Logger) (*TelegramService, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	log.Info().Str("bot", bot.Self.UserName).Msg("telegram bot connected")
	return &TelegramService{bot: bot, links: links, log: log}, nil
}

// RequestLink mints a code the user sends to the bot as "/start <code>"
// to bind their chat.
func (s *TelegramService) RequestLink(ctx context.Context, userID uuid.UUID) (string, error) {
	code, err := utils.NewOpaqueToken(8)
	if err != nil {
		return "", err
	}
	if err := s.links.CreateCode(ctx, userID, code); err != nil {
		return "", err
	}
	return code, nil
}

// HandleUpdate processes one webhook update from the bot API. Only the
// /start linking command is understood.
func (s *TelegramService) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	text := strings.TrimSpace(update.Message.Text)
	if !strings.HasPrefix(text, "/start") {
		return
	}

	chatID := update.Message.Chat.ID
	code := strings.TrimSpace(strings.TrimPrefix(text, "/start"))
	if code == "" {
		s.reply(chatID, "Envie /start <código> com o código gerado no CRM para vincular este chat.")
		return
	}

	if err := s.links.LinkChat(ctx, code, chatID); err != nil {
		if errors.Is(err, repositories.ErrLinkCodeNotFound) {
			s.reply(chatID, "Código inválido ou já utilizado. Gere um novo código no CRM.")
			return
		}
		s.log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to link telegram chat")
		s.reply(chatID, "Não foi possível vincular o chat. Tente novamente.")
		return
	}
	s.reply(chatID, "Chat vinculado! Você receberá notificações de novos leads aqui.")
}

// NotifyNewLead broadcasts the lead to every linked chat. Failures are
// logged and skipped so ingestion is never blocked by the bot.
func (s *TelegramService) NotifyNewLead(ctx context.Context, lead models.Lead) {
	chatIDs, err := s.links.LinkedChatIDs(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load linked telegram chats")
		return
	}

	text := fmt.Sprintf(
		"📥 Novo lead via WhatsApp\n\nNome: %s\nTelefone: %s\nStatus: %s",
		lead.Nome, format.Phone(lead.Telefone), lead.Status,
	)
	for _, chatID := range chatIDs {
		if _, err := s.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			s.log.Warn().Err(err).Int64("chat_id", chatID).Msg("failed to notify telegram chat")
		}
	}
}

func (s *TelegramService) reply(chatID int64, text string) {
	if _, err := s.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		s.log.Warn().Err(err).Int64("chat_id", chatID).Msg("failed to send telegram reply")
	}
}
