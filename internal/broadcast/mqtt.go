// Package broadcast дублирует экран на удалённые дисплеи через MQTT.
package broadcast

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Freeeeeet/mosque_display/internal/model"
	"github.com/Freeeeeet/mosque_display/internal/sequencer"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	qos            = 1
	publishTimeout = 5 * time.Second
)

// Publisher часть mqtt.Client, которой пользуется презентер.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// OverlayEvent публикуется в <topic>/overlay.
type OverlayEvent struct {
	ID    string    `json:"id"`
	Event string    `json:"event"`
	At    time.Time `json:"at"`
	model.Overlay
}

// ScheduleMessage публикуется с retained в <topic>/schedule.
type ScheduleMessage struct {
	ID      string            `json:"id"`
	Date    string            `json:"date"`
	Hijri   string            `json:"hijri,omitempty"`
	Weekday string            `json:"weekday,omitempty"`
	Place   string            `json:"place,omitempty"`
	Times   map[string]string `json:"times"`
	Sunrise string            `json:"sunrise"`
}

// NewClient подключается к брокеру. После обрыва клиент переподключается сам.
func NewClient(broker, clientID string, logger *zap.Logger) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.OnConnect = func(mqtt.Client) {
		logger.Info("✅ Connected to MQTT broker", zap.String("broker", broker))
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		logger.Warn("⚠️ MQTT connection lost", zap.Error(err))
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(15 * time.Second) {
		return nil, fmt.Errorf("connect to MQTT broker %s: timeout", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to MQTT broker %s: %w", broker, err)
	}
	return client, nil
}

// MQTTPresenter публикует смены оверлеев и расписание дня.
type MQTTPresenter struct {
	publisher Publisher
	topic     string
	logger    *zap.Logger
	now       func() time.Time
}

func NewMQTTPresenter(publisher Publisher, topic string, logger *zap.Logger) *MQTTPresenter {
	return &MQTTPresenter{
		publisher: publisher,
		topic:     topic,
		logger:    logger,
		now:       time.Now,
	}
}

func (m *MQTTPresenter) ShowOverlay(o model.Overlay) {
	m.publishOverlay("show", o)
}

func (m *MQTTPresenter) UpdateOverlay(o model.Overlay) {
	m.publishOverlay("update", o)
}

func (m *MQTTPresenter) HideOverlay(o model.Overlay) {
	m.publishOverlay("hide", o)
}

// NewDay заменяет retained расписание, чтобы подключившиеся позже экраны получили сегодняшние времена.
func (m *MQTTPresenter) NewDay(day *model.DailyPrayerTimes) {
	if day == nil {
		return
	}
	msg := ScheduleMessage{
		ID:      uuid.NewString(),
		Date:    day.Key(),
		Hijri:   day.Hijri.Formatted,
		Weekday: day.ArabicDay,
		Place:   day.Place,
		Times:   make(map[string]string, len(model.Prayers)),
		Sunrise: day.Sunrise.String(),
	}
	for _, p := range model.Prayers {
		msg.Times[string(p)] = day.Time(p).String()
	}
	m.publish(m.topic+"/schedule", true, msg)
}

func (m *MQTTPresenter) Refresh(sequencer.Snapshot) {}

func (m *MQTTPresenter) publishOverlay(event string, o model.Overlay) {
	m.publish(m.topic+"/overlay", false, OverlayEvent{
		ID:      uuid.NewString(),
		Event:   event,
		At:      m.now(),
		Overlay: o,
	})
}

func (m *MQTTPresenter) publish(topic string, retained bool, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		m.logger.Error("❌ Failed to encode MQTT message", zap.String("topic", topic), zap.Error(err))
		return
	}

	token := m.publisher.Publish(topic, qos, retained, payload)
	go func() {
		if !token.WaitTimeout(publishTimeout) {
			m.logger.Warn("⚠️ MQTT publish timed out", zap.String("topic", topic))
			return
		}
		if err := token.Error(); err != nil {
			m.logger.Error("❌ MQTT publish failed", zap.String("topic", topic), zap.Error(err))
		}
	}()
}
