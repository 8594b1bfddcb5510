package broadcast

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/mosque_display/internal/model"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type doneToken struct {
	err error
}

func (t *doneToken) Wait() bool                     { return true }
func (t *doneToken) WaitTimeout(time.Duration) bool { return true }
func (t *doneToken) Error() error                   { return t.err }

func (t *doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type published struct {
	topic    string
	retained bool
	payload  []byte
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (f *fakePublisher) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, published{topic: topic, retained: retained, payload: payload.([]byte)})
	return &doneToken{err: f.err}
}

func TestOverlayEventsArePublished(t *testing.T) {
	pub := &fakePublisher{}
	m := NewMQTTPresenter(pub, "mosque/main", zap.NewNop())
	fixed := time.Date(2025, 1, 10, 13, 1, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	m.ShowOverlay(model.Overlay{
		Kind:   model.OverlayKhutba,
		Prayer: model.PrayerDhuhr,
		Until:  fixed.Add(15 * time.Minute),
	})
	m.HideOverlay(model.Overlay{Kind: model.OverlayKhutba, Prayer: model.PrayerDhuhr})

	require.Len(t, pub.msgs, 2)
	assert.Equal(t, "mosque/main/overlay", pub.msgs[0].topic)
	assert.False(t, pub.msgs[0].retained)

	var ev OverlayEvent
	require.NoError(t, json.Unmarshal(pub.msgs[0].payload, &ev))
	assert.Equal(t, "show", ev.Event)
	assert.Equal(t, model.OverlayKhutba, ev.Kind)
	assert.Equal(t, model.PrayerDhuhr, ev.Prayer)
	assert.True(t, fixed.Add(15*time.Minute).Equal(ev.Until))
	assert.NotEmpty(t, ev.ID)

	var hide OverlayEvent
	require.NoError(t, json.Unmarshal(pub.msgs[1].payload, &hide))
	assert.Equal(t, "hide", hide.Event)
	assert.NotEqual(t, ev.ID, hide.ID)
}

func TestScheduleIsRetained(t *testing.T) {
	pub := &fakePublisher{}
	m := NewMQTTPresenter(pub, "mosque/main", zap.NewNop())

	day := model.NewDailyPrayerTimes(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	day.Times[model.PrayerFajr] = model.NewClockTime(6, 0)
	day.Hijri.Formatted = "10/رجب/1446"

	m.NewDay(nil)
	m.NewDay(day)

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, "mosque/main/schedule", pub.msgs[0].topic)
	assert.True(t, pub.msgs[0].retained)

	var msg ScheduleMessage
	require.NoError(t, json.Unmarshal(pub.msgs[0].payload, &msg))
	assert.Equal(t, "2025-01-10", msg.Date)
	assert.Equal(t, "06:00", msg.Times["fajr"])
	assert.Equal(t, model.UnsetClock, msg.Times["isha"])
	assert.Equal(t, "10/رجب/1446", msg.Hijri)
}

func TestPublishErrorsAreLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	pub := &fakePublisher{err: errors.New("not connected")}
	m := NewMQTTPresenter(pub, "mosque/main", zap.New(core))

	m.ShowOverlay(model.Overlay{Kind: model.OverlayAdhan})

	require.Eventually(t, func() bool {
		return logs.FilterMessage("❌ MQTT publish failed").Len() == 1
	}, time.Second, 5*time.Millisecond)
}
