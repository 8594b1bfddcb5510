package model

import "strings"

type PrayerKey string

const (
	PrayerFajr    PrayerKey = "fajr"
	PrayerDhuhr   PrayerKey = "dhuhr"
	PrayerAsr     PrayerKey = "asr"
	PrayerMaghrib PrayerKey = "maghrib"
	PrayerIsha    PrayerKey = "isha"
)

// Prayers перечисляет пять ежедневных намазов в порядке их наступления. Резолвер проходит их в этом порядке.
var Prayers = []PrayerKey{PrayerFajr, PrayerDhuhr, PrayerAsr, PrayerMaghrib, PrayerIsha}

// Index возвращает позицию намаза в течение дня или -1 для неизвестного ключа.
func (p PrayerKey) Index() int {
	for i, k := range Prayers {
		if k == p {
			return i
		}
	}
	return -1
}

func (p PrayerKey) Valid() bool {
	return p.Index() >= 0
}

// Title возвращает латинское название для логов, картинок и сообщений бота.
func (p PrayerKey) Title() string {
	if p == "" {
		return ""
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}

// ParsePrayerKey принимает ключ в любом регистре ("Fajr", "FAJR", "fajr").
func ParsePrayerKey(s string) (PrayerKey, bool) {
	k := PrayerKey(strings.ToLower(strings.TrimSpace(s)))
	return k, k.Valid()
}

// DisplayNames сопоставляет намазам подписи, которые показываются на экране.
type DisplayNames map[PrayerKey]string

// DefaultDisplayNames арабские подписи экрана мечети.
func DefaultDisplayNames() DisplayNames {
	return DisplayNames{
		PrayerFajr:    "الفجر",
		PrayerDhuhr:   "الظهر",
		PrayerAsr:     "العصر",
		PrayerMaghrib: "المغرب",
		PrayerIsha:    "العشاء",
	}
}

// Name возвращает локализованную подпись, иначе латинское название.
func (n DisplayNames) Name(p PrayerKey) string {
	if name, ok := n[p]; ok && name != "" {
		return name
	}
	return p.Title()
}
