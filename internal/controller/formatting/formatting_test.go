package formatting

import (
	"testing"
	"time"

	"github.com/Freeeeeet/mosque_display/internal/model"
	"github.com/Freeeeeet/mosque_display/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestPrayerLabel(t *testing.T) {
	assert.Equal(t, "الظهر (Dhuhr)", PrayerLabel(service.PrayerTime{Prayer: model.PrayerDhuhr, Name: "الظهر"}))
	assert.Equal(t, "الظهر (Jumuah)", PrayerLabel(service.PrayerTime{Prayer: model.PrayerDhuhr, Name: "الظهر", Friday: true}))
	assert.Equal(t, "Asr", PrayerLabel(service.PrayerTime{Prayer: model.PrayerAsr}))
}

func TestSchedule(t *testing.T) {
	day := model.NewDailyPrayerTimes(time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC))
	day.Sunrise = model.NewClockTime(7, 15)
	day.Hijri.Formatted = "09-07-1446"

	list := []service.PrayerTime{{
		Prayer: model.PrayerFajr,
		Name:   "الفجر",
		At:     time.Date(2025, 1, 9, 6, 0, 0, 0, time.UTC),
		Iqama:  time.Date(2025, 1, 9, 6, 20, 0, 0, time.UTC),
	}}

	text := Schedule("Mosque", day, list)
	assert.Contains(t, text, "🕌 Mosque")
	assert.Contains(t, text, "09.01.2025 | 09-07-1446")
	assert.Contains(t, text, "Sunrise 07:15")
	assert.Contains(t, text, "الفجر (Fajr)  06:00  ⏱ iqama 06:20")

	assert.Contains(t, Schedule("", day, nil), "No prayer times")
}

func TestNextAndCues(t *testing.T) {
	p := service.PrayerTime{
		Prayer: model.PrayerMaghrib,
		At:     time.Date(2025, 1, 9, 18, 30, 0, 0, time.UTC),
		Iqama:  time.Date(2025, 1, 9, 18, 40, 0, 0, time.UTC),
	}
	text := Next(p, 90*time.Minute+5*time.Second)
	assert.Contains(t, text, "Maghrib at 18:30")
	assert.Contains(t, text, "01:30:05")
	assert.Contains(t, text, "Iqama at 18:40")

	names := model.DefaultDisplayNames()
	o := model.Overlay{Kind: model.OverlayIqamaCountdown, Prayer: model.PrayerIsha, Until: time.Date(2025, 1, 9, 20, 15, 0, 0, time.UTC)}
	assert.Equal(t, "⏱ Iqama for العشاء at 20:15", Iqama(o, names))
	assert.Equal(t, "📢 Khutba started, iqama at 20:15", Khutba(o))

	adhan := Adhan(model.Overlay{Kind: model.OverlayAdhan, Prayer: model.PrayerDhuhr, Text: "صلاة الجمعة"}, names, time.Date(2025, 1, 10, 13, 0, 0, 0, time.UTC))
	assert.Equal(t, "🕌 Adhan الظهر - 13:00\nصلاة الجمعة", adhan)
}
