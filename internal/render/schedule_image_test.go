package render

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/Freeeeeet/mosque_display/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func week(start time.Time) []*model.DailyPrayerTimes {
	days := make([]*model.DailyPrayerTimes, 0, WeekDays)
	for i := 0; i < WeekDays; i++ {
		d := model.NewDailyPrayerTimes(start.AddDate(0, 0, i))
		d.Times[model.PrayerFajr] = model.NewClockTime(6, i)
		d.Times[model.PrayerDhuhr] = model.NewClockTime(13, 0)
		d.Times[model.PrayerAsr] = model.NewClockTime(16, 0)
		d.Times[model.PrayerMaghrib] = model.NewClockTime(18, 30+i)
		d.Times[model.PrayerIsha] = model.NewClockTime(20, 0)
		d.Sunrise = model.NewClockTime(7, 15)
		d.Hijri.Formatted = "09-07-1446"
		days = append(days, d)
	}
	return days
}

func TestGenerateScheduleImage(t *testing.T) {
	start := time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 1, 10, 14, 0, 0, 0, time.UTC)

	data, err := GenerateScheduleImage("Central Mosque", week(start), now)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, imageWidth, img.Bounds().Dx())
	assert.Equal(t, headerHeight+columnsHeight+WeekDays*rowHeight+footerHeight, img.Bounds().Dy())
}

func TestGenerateScheduleImageEmpty(t *testing.T) {
	_, err := GenerateScheduleImage("", nil, time.Now())
	assert.Error(t, err)
}

func TestNextPrayerCell(t *testing.T) {
	days := week(time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC))

	next := nextPrayer(days, time.Date(2025, 1, 9, 14, 0, 0, 0, time.UTC))
	assert.True(t, next.ok)
	assert.Equal(t, model.PrayerAsr, next.prayer)

	next = nextPrayer(days, time.Date(2025, 1, 9, 21, 0, 0, 0, time.UTC))
	assert.False(t, next.ok, "nothing left today")

	next = nextPrayer(days, time.Date(2025, 2, 1, 5, 0, 0, 0, time.UTC))
	assert.False(t, next.ok, "today is not in the image")
}

func TestPassedAndTruncate(t *testing.T) {
	day := week(time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC))[0]
	now := time.Date(2025, 1, 9, 14, 0, 0, 0, time.UTC)

	assert.True(t, passed(day, model.PrayerDhuhr, now))
	assert.True(t, passed(day, "", now), "sunrise column")
	assert.False(t, passed(day, model.PrayerIsha, now))

	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
