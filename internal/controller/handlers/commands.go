package handlers

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Freeeeeet/mosque_display/internal/controller/formatting"
	"github.com/Freeeeeet/mosque_display/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 Commands:\n\n" +
	"/today - Today's prayer times with iqama\n" +
	"/next - The next prayer and time left\n" +
	"/week - The coming week as an image\n" +
	"/help - Show this help\n\n" +
	"Operator:\n" +
	"/rehearse <prayer> - Run a test sequence on the screen\n" +
	"/adhkar [prayer] - Show the remembrance after a prayer\n" +
	"/dismiss - End the sequence on the screen"

// HandleStart обрабатывает /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	name := "there"
	if update.Message.From != nil && update.Message.From.FirstName != "" {
		name = update.Message.From.FirstName
	}

	welcomeText := fmt.Sprintf(
		"👋 Assalamu alaikum, %s!\n\n"+
			"This bot posts the prayer times of %s.\n\n%s",
		name, h.info.MosqueName, helpText,
	)

	h.sendMessage(ctx, b, update.Message.Chat.ID, welcomeText)
}

// HandleHelp обрабатывает /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleToday обрабатывает /today
func (h *Handlers) HandleToday(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	now := h.now()

	day, err := h.prayers.Today(now)
	if err != nil {
		h.logger.Warn("Today not available", zap.Error(err))
		h.sendError(ctx, b, chatID, errorText(err))
		return
	}
	list, err := h.prayers.Schedule(now)
	if err != nil {
		h.sendError(ctx, b, chatID, errorText(err))
		return
	}

	h.sendMessage(ctx, b, chatID, formatting.Schedule(h.info.MosqueName, day, list))
}

// HandleNext обрабатывает /next
func (h *Handlers) HandleNext(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	next, left, err := h.prayers.Next(h.now())
	if err != nil {
		h.logger.Warn("Next prayer not available", zap.Error(err))
		h.sendError(ctx, b, chatID, errorText(err))
		return
	}

	h.sendMessage(ctx, b, chatID, formatting.Next(next, left))
}

// HandleWeek обрабатывает /week: ближайшие семь дней в PNG
func (h *Handlers) HandleWeek(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	now := h.now()

	img, err := h.prayers.WeekImage(now, h.info.MosqueName)
	if err != nil {
		h.logger.Warn("Week image not available", zap.Error(err))
		h.sendError(ctx, b, chatID, errorText(err))
		return
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: chatID,
		Photo: &models.InputFileUpload{
			Filename: "week-" + model.DateKey(now) + ".png",
			Data:     bytes.NewReader(img),
		},
		Caption: "🗓 Prayer times for the coming week",
	})
	if err != nil {
		h.logger.Error("Failed to send week image", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// HandleRehearse обрабатывает /rehearse <prayer>
func (h *Handlers) HandleRehearse(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	p, ok := h.prayerArg(ctx, b, update, model.PrayerMaghrib)
	if !ok {
		return
	}

	h.controls.Rehearse(p)
	h.logger.Info("🧪 Rehearsal requested from bot", zap.String("prayer", string(p)))
	h.sendMessage(ctx, b, chatID, fmt.Sprintf("🧪 Test sequence for %s started.", p.Title()))
}

// HandleAdhkar обрабатывает /adhkar [prayer]. Без намаза открывает
// азкары последнего уже наступившего сегодня намаза.
func (h *Handlers) HandleAdhkar(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	now := h.now()
	def := model.PrayerIsha
	if day, err := h.prayers.Today(now); err == nil {
		if last, ok := day.LastPrayer(now); ok {
			def = last
		}
	}
	p, ok := h.prayerArg(ctx, b, update, def)
	if !ok {
		return
	}

	h.controls.Remembrance(p)
	h.logger.Info("📿 Remembrance requested from bot", zap.String("prayer", string(p)))
	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf("📿 Remembrance after %s is on screen.", p.Title()))
}

// HandleDismiss обрабатывает /dismiss
func (h *Handlers) HandleDismiss(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	h.controls.Dismiss()
	h.logger.Info("🛑 Dismiss requested from bot")
	h.sendMessage(ctx, b, update.Message.Chat.ID, "🛑 Sequence dismissed.")
}
