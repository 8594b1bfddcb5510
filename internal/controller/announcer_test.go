package controller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/mosque_display/internal/model"
	"github.com/Freeeeeet/mosque_display/internal/sequencer"
	"github.com/Freeeeeet/mosque_display/internal/service"
	"github.com/Freeeeeet/mosque_display/internal/timetable"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSender struct {
	mu    sync.Mutex
	texts []string
	chats []int64
	err   error
}

func (s *fakeSender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.texts = append(s.texts, params.Text)
	s.chats = append(s.chats, params.ChatID.(int64))
	return &models.Message{}, nil
}

func testService() *service.PrayerService {
	day := model.NewDailyPrayerTimes(time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC))
	day.Times[model.PrayerDhuhr] = model.NewClockTime(13, 0)
	return service.NewPrayerService(timetable.NewTable([]*model.DailyPrayerTimes{day}),
		sequencer.DefaultTimings(), nil, zap.NewNop())
}

func TestAnnouncerPostsCues(t *testing.T) {
	sender := &fakeSender{}
	a := NewAnnouncer(sender, 99, "Mosque", testService(), nil, zap.NewNop())
	a.now = func() time.Time { return time.Date(2025, 1, 9, 13, 0, 0, 0, time.UTC) }

	a.ShowOverlay(model.Overlay{Kind: model.OverlayAdhan, Prayer: model.PrayerDhuhr})
	a.ShowOverlay(model.Overlay{Kind: model.OverlayIqamaCountdown, Prayer: model.PrayerDhuhr,
		Until: time.Date(2025, 1, 9, 13, 15, 0, 0, time.UTC)})
	a.ShowOverlay(model.Overlay{Kind: model.OverlayIqamaCountdown, Prayer: model.PrayerDhuhr})
	a.ShowOverlay(model.Overlay{Kind: model.OverlayRemembrance, Prayer: model.PrayerDhuhr})
	a.ShowOverlay(model.Overlay{Kind: model.OverlayAdhan, Prayer: model.PrayerIsha, Rehearsal: true})
	a.UpdateOverlay(model.Overlay{Kind: model.OverlayRemembrance})
	a.HideOverlay(model.Overlay{Kind: model.OverlayAdhan})
	a.Refresh(sequencer.Snapshot{})
	require.True(t, a.Wait(time.Second))

	require.Len(t, sender.texts, 2)
	assert.ElementsMatch(t, []string{
		"🕌 Adhan الظهر - 13:00",
		"⏱ Iqama for الظهر at 13:15",
	}, sender.texts)
	assert.Equal(t, []int64{99, 99}, sender.chats)
}

func TestAnnouncerNewDay(t *testing.T) {
	sender := &fakeSender{}
	a := NewAnnouncer(sender, 99, "Mosque", testService(), nil, zap.NewNop())

	a.NewDay(nil)
	a.NewDay(model.NewDailyPrayerTimes(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))

	a.NewDay(func() *model.DailyPrayerTimes {
		d := model.NewDailyPrayerTimes(time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC))
		d.Times[model.PrayerDhuhr] = model.NewClockTime(13, 0)
		return d
	}())
	require.True(t, a.Wait(time.Second))

	require.Len(t, sender.texts, 1)
	assert.Contains(t, sender.texts[0], "13:00")
}

func TestAnnouncerLogsFailures(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	sender := &fakeSender{err: errors.New("telegram down")}
	a := NewAnnouncer(sender, 99, "", nil, nil, zap.New(core))

	a.ShowOverlay(model.Overlay{Kind: model.OverlayKhutba, Prayer: model.PrayerDhuhr,
		Until: time.Date(2025, 1, 10, 13, 16, 0, 0, time.UTC)})
	require.True(t, a.Wait(time.Second))

	assert.Equal(t, 1, logs.FilterMessage("❌ Failed to post announcement").Len())
}

type blockingSender struct {
	release chan struct{}
	sent    chan string
}

func (s *blockingSender) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	select {
	case <-s.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.sent <- params.Text
	return &models.Message{}, nil
}

func TestAnnouncerWaitIsBounded(t *testing.T) {
	sender := &blockingSender{release: make(chan struct{}), sent: make(chan string, 1)}
	a := NewAnnouncer(sender, 99, "", testService(), nil, zap.NewNop())
	a.now = func() time.Time { return time.Date(2025, 1, 9, 13, 0, 0, 0, time.UTC) }

	a.ShowOverlay(model.Overlay{Kind: model.OverlayAdhan, Prayer: model.PrayerDhuhr})
	assert.False(t, a.Wait(20*time.Millisecond), "send still in flight")

	close(sender.release)
	require.True(t, a.Wait(time.Second))
	assert.Equal(t, "🕌 Adhan الظهر - 13:00", <-sender.sent)
}
