package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/mosque_display/internal/display"
	"github.com/Freeeeeet/mosque_display/internal/model"
	"github.com/Freeeeeet/mosque_display/internal/sequencer"
	"github.com/Freeeeeet/mosque_display/internal/service"
	"github.com/Freeeeeet/mosque_display/internal/timetable"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const adminChat = 42

type call struct {
	method string
	chatID string
	text   string
	hasPNG bool
}

// telegramServer записывает вызовы Bot API и отвечает пустым сообщением.
type telegramServer struct {
	mu    sync.Mutex
	calls []call
}

func (s *telegramServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c := call{method: r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]}
	if err := r.ParseMultipartForm(10 << 20); err == nil {
		c.chatID = r.FormValue("chat_id")
		c.text = r.FormValue("text")
		if c.text == "" {
			c.text = r.FormValue("caption")
		}
		if r.MultipartForm != nil {
			_, c.hasPNG = r.MultipartForm.File["photo"]
		}
	}

	s.mu.Lock()
	s.calls = append(s.calls, c)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":1,"type":"private"}}}`))
}

func (s *telegramServer) last(t *testing.T) call {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.calls)
	return s.calls[len(s.calls)-1]
}

type fakeControls struct {
	dismissed  int
	rehearsed  []model.PrayerKey
	remembered []model.PrayerKey
}

func (c *fakeControls) Dismiss()                   { c.dismissed++ }
func (c *fakeControls) Rehearse(p model.PrayerKey) { c.rehearsed = append(c.rehearsed, p) }
func (c *fakeControls) Remembrance(p model.PrayerKey) {
	c.remembered = append(c.remembered, p)
}

func setup(t *testing.T, now time.Time) (*Handlers, *bot.Bot, *telegramServer, *fakeControls) {
	t.Helper()

	srv := &telegramServer{}
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	b, err := bot.New("123456:TEST", bot.WithServerURL(ts.URL), bot.WithSkipGetMe())
	require.NoError(t, err)

	day := model.NewDailyPrayerTimes(time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC))
	for p, clock := range map[model.PrayerKey]string{
		model.PrayerFajr:    "06:00",
		model.PrayerDhuhr:   "13:00",
		model.PrayerAsr:     "16:00",
		model.PrayerMaghrib: "18:30",
		model.PrayerIsha:    "20:00",
	} {
		day.Times[p] = model.ParseClockTime(clock)
	}
	prayers := service.NewPrayerService(timetable.NewTable([]*model.DailyPrayerTimes{day}),
		sequencer.DefaultTimings(), nil, zap.NewNop())

	controls := &fakeControls{}
	h := NewHandlers(prayers, display.Info{MosqueName: "Test Mosque"}, controls, adminChat,
		func() time.Time { return now }, zap.NewNop())
	return h, b, srv, controls
}

func message(chatID int64, text string) *models.Update {
	return &models.Update{Message: &models.Message{
		Chat: models.Chat{ID: chatID},
		From: &models.User{ID: chatID, FirstName: "Yusuf"},
		Text: text,
	}}
}

func TestHandleToday(t *testing.T) {
	h, b, srv, _ := setup(t, time.Date(2025, 1, 9, 8, 0, 0, 0, time.UTC))

	h.HandleToday(context.Background(), b, message(7, "/today"))

	c := srv.last(t)
	assert.Equal(t, "sendMessage", c.method)
	assert.Equal(t, "7", c.chatID)
	assert.Contains(t, c.text, "Test Mosque")
	assert.Contains(t, c.text, "13:00")
	assert.Contains(t, c.text, "iqama 13:15")
}

func TestHandleTodayWithoutData(t *testing.T) {
	h, b, srv, _ := setup(t, time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))

	h.HandleToday(context.Background(), b, message(7, "/today"))

	assert.Contains(t, srv.last(t).text, "no data")
}

func TestHandleNext(t *testing.T) {
	h, b, srv, _ := setup(t, time.Date(2025, 1, 9, 12, 30, 0, 0, time.UTC))

	h.HandleNext(context.Background(), b, message(7, "/next"))

	c := srv.last(t)
	assert.Contains(t, c.text, "Dhuhr")
	assert.Contains(t, c.text, "30:00")
}

func TestHandleWeekSendsPhoto(t *testing.T) {
	h, b, srv, _ := setup(t, time.Date(2025, 1, 9, 8, 0, 0, 0, time.UTC))

	h.HandleWeek(context.Background(), b, message(7, "/week"))

	c := srv.last(t)
	assert.Equal(t, "sendPhoto", c.method)
	assert.True(t, c.hasPNG)
}

func TestOperatorCommands(t *testing.T) {
	h, b, srv, controls := setup(t, time.Date(2025, 1, 9, 8, 0, 0, 0, time.UTC))
	ctx := context.Background()

	h.HandleRehearse(ctx, b, message(7, "/rehearse isha"))
	assert.Empty(t, controls.rehearsed, "only the operator chat may rehearse")
	assert.Contains(t, srv.last(t).text, "operator only")

	h.HandleRehearse(ctx, b, message(adminChat, "/rehearse Isha"))
	h.HandleRehearse(ctx, b, message(adminChat, "/rehearse"))
	h.HandleRehearse(ctx, b, message(adminChat, "/rehearse@mosque_bot fajr"))
	h.HandleRehearse(ctx, b, message(adminChat, "/rehearse@mosque_bot"))
	assert.Equal(t, []model.PrayerKey{model.PrayerIsha, model.PrayerMaghrib, model.PrayerFajr, model.PrayerMaghrib}, controls.rehearsed)

	h.HandleRehearse(ctx, b, message(adminChat, "/rehearse lunch"))
	assert.Contains(t, srv.last(t).text, "Unknown prayer")
	assert.Len(t, controls.rehearsed, 4)

	h.HandleDismiss(ctx, b, message(adminChat, "/dismiss"))
	assert.Equal(t, 1, controls.dismissed)
}

func TestAdhkarCommand(t *testing.T) {
	h, b, srv, controls := setup(t, time.Date(2025, 1, 9, 16, 40, 0, 0, time.UTC))
	ctx := context.Background()

	h.HandleAdhkar(ctx, b, message(7, "/adhkar"))
	assert.Empty(t, controls.remembered)

	h.HandleAdhkar(ctx, b, message(adminChat, "/adhkar"))
	h.HandleAdhkar(ctx, b, message(adminChat, "/adhkar@mosque_bot fajr"))
	assert.Equal(t, []model.PrayerKey{model.PrayerAsr, model.PrayerFajr}, controls.remembered)
	assert.Contains(t, srv.last(t).text, "Remembrance")

	h.HandleAdhkar(ctx, b, message(adminChat, "/adhkar noon"))
	assert.Contains(t, srv.last(t).text, "Unknown prayer")
	assert.Len(t, controls.remembered, 2)
}
