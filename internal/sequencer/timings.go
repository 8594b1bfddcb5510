package sequencer

import (
	"time"

	"github.com/Freeeeeet/mosque_display/internal/model"
)

// FridayTimings задают пятничную последовательность зухра.
type FridayTimings struct {
	KhutbaLead       time.Duration // азан -> хутба
	Khutba           time.Duration
	PrayerWindow     time.Duration
	RemembranceDelay time.Duration // конец окна намаза -> азкары
}

type Timings struct {
	AdhanCatchUp     time.Duration // насколько поздно тик может увидеть азан и всё ещё запустить его
	IqamaLead        time.Duration // азан -> отсчёт до икамы
	IqamaDelay       map[model.PrayerKey]time.Duration
	IqamaGrace       time.Duration // сколько оверлей отсчёта держится после икамы
	RemembranceDelay map[model.PrayerKey]time.Duration
	RemembranceSpan  time.Duration
	ShortDwell       time.Duration
	LongDwell        time.Duration
	Friday           FridayTimings
}

func DefaultTimings() Timings {
	return Timings{
		AdhanCatchUp: 5 * time.Second,
		IqamaLead:    60 * time.Second,
		IqamaDelay: map[model.PrayerKey]time.Duration{
			model.PrayerFajr:    19 * time.Minute,
			model.PrayerDhuhr:   14 * time.Minute,
			model.PrayerAsr:     14 * time.Minute,
			model.PrayerMaghrib: 9 * time.Minute,
			model.PrayerIsha:    14 * time.Minute,
		},
		IqamaGrace: 15 * time.Second,
		RemembranceDelay: map[model.PrayerKey]time.Duration{
			model.PrayerFajr:    25 * time.Minute,
			model.PrayerDhuhr:   22 * time.Minute,
			model.PrayerAsr:     22 * time.Minute,
			model.PrayerMaghrib: 16 * time.Minute,
			model.PrayerIsha:    22 * time.Minute,
		},
		RemembranceSpan: 30 * time.Minute,
		ShortDwell:      25 * time.Second,
		LongDwell:       30 * time.Second,
		Friday: FridayTimings{
			KhutbaLead:       time.Minute,
			Khutba:           15 * time.Minute,
			PrayerWindow:     30 * time.Second,
			RemembranceDelay: 5 * time.Minute,
		},
	}
}
