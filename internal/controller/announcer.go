package controller

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/mosque_display/internal/controller/formatting"
	"github.com/Freeeeeet/mosque_display/internal/model"
	"github.com/Freeeeeet/mosque_display/internal/sequencer"
	"github.com/Freeeeeet/mosque_display/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Sender часть *bot.Bot, которой пользуется анонсер.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Announcer презентер, который пишет в чат о начале азана, икамы и хутбы.
// Сообщения уходят в фоне, цикл опроса никогда не ждёт Telegram.
type Announcer struct {
	sender  Sender
	chatID  int64
	header  string
	prayers *service.PrayerService
	names   model.DisplayNames
	timeout time.Duration
	now     func() time.Time
	logger  *zap.Logger

	wg sync.WaitGroup
}

func NewAnnouncer(sender Sender, chatID int64, header string, prayers *service.PrayerService, names model.DisplayNames, logger *zap.Logger) *Announcer {
	if names == nil {
		names = model.DefaultDisplayNames()
	}
	return &Announcer{
		sender:  sender,
		chatID:  chatID,
		header:  header,
		prayers: prayers,
		names:   names,
		timeout: 10 * time.Second,
		now:     time.Now,
		logger:  logger,
	}
}

func (a *Announcer) ShowOverlay(o model.Overlay) {
	if o.Rehearsal {
		return
	}

	switch o.Kind {
	case model.OverlayAdhan:
		a.send(formatting.Adhan(o, a.names, a.now()))
	case model.OverlayIqamaCountdown:
		// тот же вид показывается снова при икаме, уже без цели
		if !o.Until.IsZero() {
			a.send(formatting.Iqama(o, a.names))
		}
	case model.OverlayKhutba:
		a.send(formatting.Khutba(o))
	}
}

func (a *Announcer) UpdateOverlay(model.Overlay) {}

func (a *Announcer) HideOverlay(model.Overlay) {}

// NewDay отправляет расписание нового дня.
func (a *Announcer) NewDay(day *model.DailyPrayerTimes) {
	if day == nil || a.prayers == nil {
		return
	}
	list, err := a.prayers.Schedule(day.Date)
	if err != nil {
		a.logger.Warn("⚠️ No schedule to announce", zap.String("day", day.Key()), zap.Error(err))
		return
	}
	a.send(formatting.Schedule(a.header, day, list))
}

func (a *Announcer) Refresh(sequencer.Snapshot) {}

// Wait ждёт, пока все отправляемые сообщения уйдут или упадут, но не дольше
// timeout. Возвращает, завершились ли все сообщения.
func (a *Announcer) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (a *Announcer) send(text string) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()

		_, err := a.sender.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: a.chatID,
			Text:   text,
		})
		if err != nil {
			a.logger.Error("❌ Failed to post announcement", zap.Int64("chat_id", a.chatID), zap.Error(err))
			return
		}
		a.logger.Debug("Announcement posted", zap.Int64("chat_id", a.chatID))
	}()
}
