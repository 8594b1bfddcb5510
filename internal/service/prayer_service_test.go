package service

import (
	"testing"
	"time"

	"github.com/Freeeeeet/mosque_display/internal/model"
	"github.com/Freeeeeet/mosque_display/internal/sequencer"
	"github.com/Freeeeeet/mosque_display/internal/timetable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(days ...*model.DailyPrayerTimes) *PrayerService {
	return NewPrayerService(timetable.NewTable(days), sequencer.DefaultTimings(), nil, zap.NewNop())
}

func row(y int, m time.Month, d int) *model.DailyPrayerTimes {
	r := model.NewDailyPrayerTimes(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	r.Times[model.PrayerFajr] = model.NewClockTime(6, 0)
	r.Times[model.PrayerDhuhr] = model.NewClockTime(13, 0)
	r.Times[model.PrayerAsr] = model.NewClockTime(16, 0)
	r.Times[model.PrayerMaghrib] = model.NewClockTime(18, 30)
	r.Times[model.PrayerIsha] = model.NewClockTime(20, 0)
	return r
}

func TestScheduleIqamaTimes(t *testing.T) {
	// 2025-01-09 четверг
	svc := newTestService(row(2025, 1, 9), row(2025, 1, 10))

	list, err := svc.Schedule(time.Date(2025, 1, 9, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, list, 5)

	dhuhr := list[1]
	assert.Equal(t, model.PrayerDhuhr, dhuhr.Prayer)
	assert.Equal(t, "الظهر", dhuhr.Name)
	assert.False(t, dhuhr.Friday)
	assert.Equal(t, time.Date(2025, 1, 9, 13, 15, 0, 0, time.UTC), dhuhr.Iqama)
	assert.Equal(t, time.Date(2025, 1, 9, 18, 40, 0, 0, time.UTC), list[3].Iqama)

	friday, err := svc.Schedule(time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, friday[1].Friday)
	assert.Equal(t, time.Date(2025, 1, 10, 13, 16, 0, 0, time.UTC), friday[1].Iqama)
	assert.False(t, friday[2].Friday)
}

func TestScheduleSkipsUnsetTimes(t *testing.T) {
	r := row(2025, 1, 9)
	r.Times[model.PrayerAsr] = model.ParseClockTime(model.UnsetClock)
	svc := newTestService(r)

	list, err := svc.Schedule(time.Date(2025, 1, 9, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, list, 4)
}

func TestTodayMissing(t *testing.T) {
	svc := newTestService(row(2025, 1, 9))

	_, err := svc.Today(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrDayNotFound)

	_, err = svc.Schedule(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrDayNotFound)
}

func TestNext(t *testing.T) {
	svc := newTestService(row(2025, 1, 9), row(2025, 1, 10))

	next, left, err := svc.Next(time.Date(2025, 1, 9, 12, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, model.PrayerDhuhr, next.Prayer)
	assert.Equal(t, 30*time.Minute, left)

	next, _, err = svc.Next(time.Date(2025, 1, 9, 21, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, model.PrayerFajr, next.Prayer)
	assert.Equal(t, 10, next.At.Day())

	next, _, err = svc.Next(time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, next.Friday)

	_, _, err = svc.Next(time.Date(2025, 1, 10, 21, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrDayNotFound)
}

func TestWeek(t *testing.T) {
	svc := newTestService(row(2025, 1, 9), row(2025, 1, 10), row(2025, 1, 20))

	days, err := svc.Week(time.Date(2025, 1, 9, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, days, 2)

	_, err = svc.Week(time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrDayNotFound)

	img, err := svc.WeekImage(time.Date(2025, 1, 9, 8, 0, 0, 0, time.UTC), "Test")
	require.NoError(t, err)
	assert.NotEmpty(t, img)
}
