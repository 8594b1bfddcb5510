package display

import (
	"testing"
	"time"

	"github.com/Freeeeeet/mosque_display/internal/model"
	"github.com/Freeeeeet/mosque_display/internal/sequencer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	tea "github.com/charmbracelet/bubbletea"
)

type recorder struct {
	calls []string
}

func (r *recorder) ShowOverlay(o model.Overlay)    { r.calls = append(r.calls, "show:"+string(o.Kind)) }
func (r *recorder) UpdateOverlay(o model.Overlay)  { r.calls = append(r.calls, "update:"+string(o.Kind)) }
func (r *recorder) HideOverlay(o model.Overlay)    { r.calls = append(r.calls, "hide:"+string(o.Kind)) }
func (r *recorder) NewDay(*model.DailyPrayerTimes) { r.calls = append(r.calls, "new-day") }
func (r *recorder) Refresh(sequencer.Snapshot)     { r.calls = append(r.calls, "refresh") }

type panicky struct{ recorder }

func (p *panicky) ShowOverlay(model.Overlay) { panic("screen gone") }

type controls struct {
	dismissed    int
	rehearsals   []model.PrayerKey
	remembrances []model.PrayerKey
}

func (c *controls) Dismiss()                   { c.dismissed++ }
func (c *controls) Rehearse(p model.PrayerKey) { c.rehearsals = append(c.rehearsals, p) }
func (c *controls) Remembrance(p model.PrayerKey) {
	c.remembrances = append(c.remembrances, p)
}

func TestFanoutSurvivesPanickingPresenter(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	first, last := &recorder{}, &recorder{}
	f := NewFanout(zap.New(core), first, &panicky{}, last)

	f.ShowOverlay(model.Overlay{Kind: model.OverlayAdhan})
	f.HideOverlay(model.Overlay{Kind: model.OverlayAdhan})
	f.Refresh(sequencer.Snapshot{})

	want := []string{"show:adhan", "hide:adhan", "refresh"}
	assert.Equal(t, want, first.calls)
	assert.Equal(t, want, last.calls)
	assert.Equal(t, 1, logs.FilterMessage("❌ Presenter panicked").Len())
	assert.Equal(t, 3, f.Len())
}

func TestLogPresenterHandlesMissingDay(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := NewLogPresenter(zap.New(core))

	l.NewDay(nil)
	l.ShowOverlay(model.Overlay{Kind: model.OverlayKhutba, Prayer: model.PrayerDhuhr, Until: time.Now()})

	assert.Equal(t, 1, logs.FilterMessage("⚠️ No prayer times for today, showing placeholders").Len())
	shown := logs.FilterMessage("🖼️ Overlay shown").All()
	require.Len(t, shown, 1)
	assert.Equal(t, "khutba", shown[0].ContextMap()["overlay"])
}

func TestPulseOscillates(t *testing.T) {
	var got []int
	for f := 0; f < 8; f++ {
		got = append(got, pulse(f))
	}
	assert.Equal(t, []int{0, 1, 2, 3, 2, 1, 0, 1}, got)
}

func TestWeekdayFallback(t *testing.T) {
	friday := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "الجمعة", WeekdayName(nil, friday))

	day := model.NewDailyPrayerTimes(friday)
	day.ArabicDay = "جمعة"
	assert.Equal(t, "جمعة", WeekdayName(day, friday))

	day.Hijri.Formatted = "10/رجب/1446"
	assert.Equal(t, "جمعة 2025-01-10 | 10/رجب/1446", DateLine(day, friday))

	info := Info{PlaceName: "مكناس"}
	assert.Equal(t, "مكناس", info.Place(nil))
	day.Place = "Meknes"
	assert.Equal(t, "Meknes", info.Place(day))
}

func TestThemeFollowsDaylight(t *testing.T) {
	assert.Equal(t, "day", ThemeFor(time.Date(2025, 1, 9, 6, 0, 0, 0, time.UTC)).Name)
	assert.Equal(t, "day", ThemeFor(time.Date(2025, 1, 9, 17, 59, 0, 0, time.UTC)).Name)
	assert.Equal(t, "night", ThemeFor(time.Date(2025, 1, 9, 18, 0, 0, 0, time.UTC)).Name)
	assert.Equal(t, "night", ThemeFor(time.Date(2025, 1, 9, 2, 0, 0, 0, time.UTC)).Name)
}

func TestModelKeysReachControls(t *testing.T) {
	c := &controls{}
	m := NewModel(Info{}, &latest{}, c)

	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("d")},
		{Type: tea.KeyEsc},
		{Type: tea.KeyRunes, Runes: []rune("t")},
		{Type: tea.KeyRunes, Runes: []rune("1")},
	} {
		updated, _ := m.Update(key)
		m = updated.(Model)
	}

	assert.Equal(t, 2, c.dismissed)
	assert.Equal(t, []model.PrayerKey{model.PrayerMaghrib, model.PrayerFajr}, c.rehearsals)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModelRendersSnapshotOnFrame(t *testing.T) {
	now := time.Date(2025, 1, 9, 13, 5, 0, 0, time.UTC)
	l := &latest{}
	m := NewModel(Info{MosqueName: "مسجد", PlaceName: "مكناس"}, l, nil)
	assert.Equal(t, "Loading prayer times...", m.View())

	day := model.NewDailyPrayerTimes(now)
	day.Times[model.PrayerDhuhr] = model.NewClockTime(13, 0)
	day.Times[model.PrayerAsr] = model.NewClockTime(16, 0)

	l.store(sequencer.Snapshot{
		Now:       now,
		Today:     day,
		HasNext:   true,
		Next:      sequencer.Occurrence{Prayer: model.PrayerAsr, At: now.Add(2*time.Hour + 55*time.Minute)},
		Remaining: 2*time.Hour + 55*time.Minute,
	})
	updated, cmd := m.Update(frameMsg(now))
	require.NotNil(t, cmd)
	m = updated.(Model)

	view := m.View()
	assert.Contains(t, view, "مسجد")
	assert.Contains(t, view, "02:55:00")
	assert.Contains(t, view, "16:00")
	assert.Contains(t, view, model.UnsetClock, "unset times render as placeholders")

	l.store(sequencer.Snapshot{
		Now: now,
		Overlay: &model.Overlay{
			Kind:    model.OverlayIqamaCountdown,
			Prayer:  model.PrayerDhuhr,
			Title:   "إقامة صلاة الظهر",
			Until:   now.Add(10 * time.Minute),
			Pulsing: true,
		},
	})
	updated, _ = m.Update(frameMsg(now))
	m = updated.(Model)

	view = m.View()
	assert.Contains(t, view, "إقامة صلاة الظهر")
	assert.Contains(t, view, "10:00")
}

func TestModelWithoutDataShowsPlaceholders(t *testing.T) {
	l := &latest{}
	l.store(sequencer.Snapshot{Now: time.Date(2025, 1, 9, 13, 5, 0, 0, time.UTC)})
	m := NewModel(Info{}, l, nil)

	updated, _ := m.Update(frameMsg(time.Now()))
	view := updated.(Model).View()
	assert.Contains(t, view, "باقي : "+model.UnsetClock)
}

func TestAdhkarKeyPicksLatestPrayer(t *testing.T) {
	now := time.Date(2025, 1, 9, 19, 0, 0, 0, time.UTC)
	day := model.NewDailyPrayerTimes(now)
	day.Times[model.PrayerAsr] = model.NewClockTime(16, 0)
	day.Times[model.PrayerMaghrib] = model.NewClockTime(18, 30)
	day.Times[model.PrayerIsha] = model.NewClockTime(20, 0)

	c := &controls{}
	l := &latest{}
	m := NewModel(Info{}, l, c)
	key := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}

	l.store(sequencer.Snapshot{Now: now, Today: day})
	updated, _ := m.Update(frameMsg(now))
	updated, _ = updated.(Model).Update(key)
	m = updated.(Model)

	early := time.Date(2025, 1, 9, 3, 0, 0, 0, time.UTC)
	l.store(sequencer.Snapshot{Now: early, Today: day})
	updated, _ = m.Update(frameMsg(early))
	updated.(Model).Update(key)

	assert.Equal(t, []model.PrayerKey{model.PrayerMaghrib, model.PrayerIsha}, c.remembrances)
}
