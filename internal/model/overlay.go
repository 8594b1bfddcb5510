package model

import "time"

// OverlayKind вид полноэкранного оверлея. Презентеры показывают и скрывают оверлеи по виду.
type OverlayKind string

const (
	OverlayAdhan          OverlayKind = "adhan"
	OverlayIqamaCountdown OverlayKind = "iqama-countdown"
	OverlayKhutba         OverlayKind = "khutba"
	OverlayPrayerWindow   OverlayKind = "prayer-window"
	OverlayRemembrance    OverlayKind = "remembrance"
)

// ClipKind вид звукового сигнала.
type ClipKind string

const (
	ClipAdhan ClipKind = "adhan"
	ClipIqama ClipKind = "iqama"
)

// Overlay описывает, что презентер должен вывести на экран.
type Overlay struct {
	Kind      OverlayKind `json:"overlay"`
	Prayer    PrayerKey   `json:"prayer"`
	Title     string      `json:"title,omitempty"`
	Text      string      `json:"text,omitempty"`
	Footer    string      `json:"footer,omitempty"`
	Until     time.Time   `json:"until,omitempty"`     // цель обратного отсчёта, ноль если отсчёта нет
	Pulsing   bool        `json:"pulsing,omitempty"`   // анимированная иконка во время отсчёта
	Index     int         `json:"index"`               // позиция азкара в текущем круге
	Long      bool        `json:"long,omitempty"`      // круг длинных текстов
	Repeat    int         `json:"repeat,omitempty"`    // сколько раз читается текст, 0 если не показывается
	Rehearsal bool        `json:"rehearsal,omitempty"` // тестовый запуск оператора, не настоящий намаз
}
