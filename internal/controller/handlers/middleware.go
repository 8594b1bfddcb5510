package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/mosque_display/internal/model"
	"github.com/Freeeeeet/mosque_display/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// LogUpdates логирует каждую входящую команду
func LogUpdates(logger *zap.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if update.Message != nil {
				logger.Debug("Bot update",
					zap.Int64("chat_id", update.Message.Chat.ID),
					zap.String("text", update.Message.Text),
				)
			}
			next(ctx, b, update)
		}
	}
}

// requireAdmin проверяет что сообщение пришло из чата оператора
func (h *Handlers) requireAdmin(ctx context.Context, b *bot.Bot, update *models.Update) bool {
	if update.Message == nil {
		return false
	}

	chatID := update.Message.Chat.ID
	if h.adminID == 0 || chatID != h.adminID || h.controls == nil {
		h.logger.Warn("⚠️ Operator command refused", zap.Int64("chat_id", chatID))
		h.sendError(ctx, b, chatID, "❌ This command is for the mosque operator only.")
		return false
	}
	return true
}

// prayerArg читает намаз после команды, в том числе "/rehearse@mybot isha".
// Если аргумент не намаз, отвечает ошибкой и возвращает false.
func (h *Handlers) prayerArg(ctx context.Context, b *bot.Bot, update *models.Update, def model.PrayerKey) (model.PrayerKey, bool) {
	fields := strings.Fields(update.Message.Text)
	if len(fields) < 2 {
		return def, true
	}
	arg := strings.Join(fields[1:], " ")
	p, ok := model.ParsePrayerKey(arg)
	if !ok {
		h.sendError(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Unknown prayer %q. Use fajr, dhuhr, asr, maghrib or isha.", arg))
	}
	return p, ok
}

// errorText переводит ошибки сервиса в понятный пользователю текст
func errorText(err error) string {
	if errors.Is(err, service.ErrDayNotFound) {
		return "📭 The time table has no data for this date yet."
	}
	return "❌ Something went wrong. Please try again later."
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
