package timetable

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Freeeeeet/mosque_display/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSQLiteStoreUpsertAndLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "times.db")

	store, err := OpenSQLite(ctx, path, false, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoData)

	row := day(2025, 1, 9, "06:00")
	row.Times[model.PrayerDhuhr] = model.NewClockTime(13, 0)
	row.Place = "Cairo"
	row.Hijri = model.HijriDate{Formatted: "09-07-1446", Day: "9", Month: "رجب", Year: "1446"}
	require.NoError(t, store.Upsert(ctx, []*model.DailyPrayerTimes{row, day(2025, 1, 10, "06:01")}))

	table, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	got, ok := table.Day(time.Date(2025, 1, 9, 12, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, "13:00", got.Time(model.PrayerDhuhr).String())
	assert.False(t, got.Time(model.PrayerIsha).IsSet())
	assert.Equal(t, "Cairo", got.Place)
	assert.Equal(t, "رجب", got.Hijri.Month)

	// тот же день заменяет сохранённую строку
	require.NoError(t, store.Upsert(ctx, []*model.DailyPrayerTimes{day(2025, 1, 9, "06:07")}))
	table, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	got, _ = table.Day(time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "06:07", got.Time(model.PrayerFajr).String())
	assert.Empty(t, got.Place)
}

func TestSQLiteStoreReadOnly(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "times.db")

	writer, err := OpenSQLite(ctx, path, false, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, writer.Upsert(ctx, []*model.DailyPrayerTimes{day(2025, 1, 9, "06:00")}))
	require.NoError(t, writer.Close())

	reader, err := OpenSQLite(ctx, path, true, zap.NewNop())
	require.NoError(t, err)
	defer reader.Close()

	table, err := reader.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}
