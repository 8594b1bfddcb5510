// Package sequencer раз в тик решает, что должен делать экран намазов.
//
// У каждого намаза есть Slot, который проходит
//
//	idle -> adhan -> iqama-countdown -> prayer-window -> remembrance -> done
//
// а в пятницу слот зухра проходит
//
//	idle -> adhan -> khutba -> prayer-window -> remembrance -> done
//
// Step чистая функция от переданного времени и State, который она
// меняет; побочные эффекты она возвращает вызывающему.
package sequencer

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/mosque_display/internal/model"
	"github.com/Freeeeeet/mosque_display/internal/remembrance"
	"github.com/Freeeeeet/mosque_display/internal/timetable"
)

// maxTransitions ограничивает число переходов слота за один тик.
const maxTransitions = 8

const (
	textIqamaNow     = "إطفئ الهاتف"
	textKhutba       = "يرجى الإنصات للخطيب"
	textSilence      = "يرجى إطفاء الهواتف"
	textFollowImam   = "الرجاء متابعة الإمام في الصلاة"
	titleJumuah      = "صلاة الجمعة"
	titleJumuahIqama = "إقامة صلاة الجمعة"
	titleKhutba      = "🕌 خطبة الجمعة"
)

// Snapshot всё, что нужно презентерам для главного экрана.
type Snapshot struct {
	Now       time.Time
	Today     *model.DailyPrayerTimes
	Next      Occurrence
	HasNext   bool
	Remaining time.Duration
	Friday    bool
	Phases    map[model.PrayerKey]Phase
	Overlay   *model.Overlay
}

type Sequencer struct {
	timings Timings
	catalog *remembrance.Catalog
	names   model.DisplayNames
}

func New(timings Timings, catalog *remembrance.Catalog, names model.DisplayNames) *Sequencer {
	if catalog == nil {
		catalog = remembrance.Default()
	}
	if names == nil {
		names = model.DefaultDisplayNames()
	}
	def := DefaultTimings()
	if timings.ShortDwell <= 0 {
		timings.ShortDwell = def.ShortDwell
	}
	if timings.LongDwell <= 0 {
		timings.LongDwell = def.LongDwell
	}
	return &Sequencer{timings: timings, catalog: catalog, names: names}
}

// Step продвигает st до now и возвращает снимок экрана и эффекты всех переходов.
func (s *Sequencer) Step(now time.Time, table *timetable.Table, st *State) (Snapshot, []Effect) {
	var fx effects
	s.rollover(now, table, st, &fx)

	today, _ := table.Day(now)
	for _, p := range model.Prayers {
		slot := st.slots[p]
		for i := 0; i < maxTransitions; i++ {
			if !s.transition(now, today, st, slot, &fx) {
				break
			}
		}
	}

	return s.Snapshot(now, table, st), fx.list
}

// Snapshot описывает экран, не двигая слоты.
func (s *Sequencer) Snapshot(now time.Time, table *timetable.Table, st *State) Snapshot {
	today, _ := table.Day(now)
	snap := Snapshot{
		Now:     now,
		Today:   today,
		Friday:  st.Friday,
		Phases:  st.Phases(),
		Overlay: st.overlay(),
	}
	if next, ok := NextPrayer(table, now); ok {
		snap.Next = next
		snap.HasNext = true
		snap.Remaining = Remaining(now, next.At)
	}
	return snap
}

// Dismiss завершает все идущие последовательности и скрывает их оверлеи.
func (s *Sequencer) Dismiss(_ time.Time, st *State) []Effect {
	var fx effects
	for _, p := range model.Prayers {
		if slot := st.slots[p]; slot.Active() {
			s.finish(slot, &fx)
		}
	}
	return fx.list
}

// Rehearse запускает тестовую последовательность для p с момента now. После неё
// слот возвращается в прежнюю фазу, и настоящий азан всё равно прозвучит.
func (s *Sequencer) Rehearse(now time.Time, st *State, p model.PrayerKey) []Effect {
	slot, ok := st.slots[p]
	if !ok || slot.Active() {
		return nil
	}
	var fx effects
	s.fireAdhan(now, now, st, slot, false, true, &fx)
	return fx.list
}

// StartRemembrance открывает азкары для p прямо сейчас. Ничего не делает, пока
// идёт любой круг азкаров. Слот, который ещё ждёт своего азана, после круга
// возвращается в idle.
func (s *Sequencer) StartRemembrance(now time.Time, st *State, p model.PrayerKey) []Effect {
	slot, ok := st.slots[p]
	if !ok || st.rotating() != nil {
		return nil
	}

	var fx effects
	for _, other := range model.Prayers {
		if o := st.slots[other]; o != slot && o.Active() {
			s.finish(o, &fx)
		}
	}
	switch slot.Phase {
	case PhaseIdle:
		slot.restore = PhaseIdle
		slot.Anchor = now
	case PhaseDone:
		slot.Anchor = now
	}
	s.startRotation(now, st, slot, &fx)
	return fx.list
}

func (s *Sequencer) rollover(now time.Time, table *timetable.Table, st *State, fx *effects) {
	key := model.DateKey(now)
	if st.Day == key {
		return
	}
	for _, p := range model.Prayers {
		fx.hide(st.slots[p])
	}
	st.reset(key, now.Weekday() == time.Friday)
	row, _ := table.Day(now)
	fx.newDay(row)
}

// transition делает не больше одного шага слота и сообщает, сменилась ли фаза.
func (s *Sequencer) transition(now time.Time, today *model.DailyPrayerTimes, st *State, slot *Slot, fx *effects) bool {
	t := s.timings

	// Настоящий азан важнее запущенной оператором последовательности того же намаза.
	if slot.restore == PhaseIdle && slot.Active() {
		if at, ok := today.At(slot.Prayer, now.Location()); ok && s.adhanDue(now, at) {
			fx.hide(slot)
			slot.Phase = PhaseIdle
			slot.Rehearsal = false
			slot.deadline = time.Time{}
			slot.rot = rotation{}
			s.fireAdhan(now, at, st, slot, st.Friday && slot.Prayer == model.PrayerDhuhr, false, fx)
			return true
		}
	}

	switch slot.Phase {
	case PhaseIdle:
		at, ok := today.At(slot.Prayer, now.Location())
		if !ok {
			return false
		}
		friday := st.Friday && slot.Prayer == model.PrayerDhuhr
		if s.adhanDue(now, at) {
			s.fireAdhan(now, at, st, slot, friday, false, fx)
			return true
		}
		start := s.remembranceStart(at, slot.Prayer, friday)
		if !now.Before(start) && now.Before(start.Add(t.RemembranceSpan)) {
			slot.Anchor = at
			slot.Friday = friday
			return s.startRotation(now, st, slot, fx)
		}
		return false

	case PhaseAdhan:
		if slot.Friday {
			start := slot.Anchor.Add(t.Friday.KhutbaLead)
			if now.Before(start) {
				return false
			}
			slot.Phase = PhaseKhutba
			slot.deadline = start.Add(t.Friday.Khutba)
			fx.show(slot, model.Overlay{
				Kind:   model.OverlayKhutba,
				Prayer: slot.Prayer,
				Title:  titleKhutba,
				Text:   textKhutba,
				Until:  slot.deadline,
			})
			return true
		}
		start := slot.Anchor.Add(t.IqamaLead)
		if now.Before(start) {
			return false
		}
		slot.Phase = PhaseIqamaCountdown
		slot.deadline = start.Add(t.IqamaDelay[slot.Prayer])
		fx.show(slot, model.Overlay{
			Kind:    model.OverlayIqamaCountdown,
			Prayer:  slot.Prayer,
			Title:   s.iqamaTitle(slot.Prayer),
			Until:   slot.deadline,
			Pulsing: true,
		})
		return true

	case PhaseIqamaCountdown:
		if now.Before(slot.deadline) {
			return false
		}
		if s.fresh(now, slot.deadline) {
			fx.play(model.ClipIqama)
		}
		slot.Phase = PhasePrayerWindow
		slot.deadline = slot.deadline.Add(t.IqamaGrace)
		fx.show(slot, model.Overlay{
			Kind:   model.OverlayIqamaCountdown,
			Prayer: slot.Prayer,
			Title:  s.iqamaTitle(slot.Prayer),
			Text:   textIqamaNow,
		})
		return true

	case PhaseKhutba:
		if now.Before(slot.deadline) {
			return false
		}
		if s.fresh(now, slot.deadline) {
			fx.play(model.ClipIqama)
		}
		slot.Phase = PhasePrayerWindow
		slot.deadline = slot.deadline.Add(t.Friday.PrayerWindow)
		fx.show(slot, model.Overlay{
			Kind:   model.OverlayPrayerWindow,
			Prayer: slot.Prayer,
			Title:  titleJumuahIqama,
			Text:   textSilence,
			Footer: textFollowImam,
		})
		return true

	case PhasePrayerWindow:
		if slot.overlay != nil && !now.Before(slot.deadline) {
			fx.hide(slot)
		}
		start := s.remembranceStart(slot.Anchor, slot.Prayer, slot.Friday)
		if now.Before(start) {
			return false
		}
		if now.Before(start.Add(t.RemembranceSpan)) {
			return s.startRotation(now, st, slot, fx)
		}
		s.finish(slot, fx)
		return true

	case PhaseRemembrance:
		rot := s.catalog.For(slot.Prayer)
		elapsed := now.Sub(slot.rot.start)
		total := time.Duration(len(rot.Short))*t.ShortDwell + time.Duration(len(rot.Long))*t.LongDwell
		if elapsed >= total || elapsed >= t.RemembranceSpan {
			s.finish(slot, fx)
			return true
		}
		long, index := s.position(rot, elapsed)
		if long != slot.rot.long || index != slot.rot.index {
			slot.rot.long, slot.rot.index = long, index
			fx.show(slot, s.remembranceOverlay(slot, rot))
		}
		return false
	}

	return false
}

func (s *Sequencer) fireAdhan(now, anchor time.Time, st *State, slot *Slot, friday, rehearsal bool, fx *effects) {
	for _, p := range model.Prayers {
		if other := st.slots[p]; other != slot && other.Active() {
			s.finish(other, fx)
		}
	}

	slot.restore = ""
	if rehearsal {
		slot.restore = slot.Phase
	}
	slot.Phase = PhaseAdhan
	slot.Anchor = anchor
	slot.Friday = friday
	slot.Rehearsal = rehearsal

	fx.play(model.ClipAdhan)
	o := model.Overlay{
		Kind:   model.OverlayAdhan,
		Prayer: slot.Prayer,
		Title:  fmt.Sprintf("🕌 أذان %s", s.names.Name(slot.Prayer)),
	}
	if friday {
		o.Text = titleJumuah
	}
	fx.show(slot, o)
}

// startRotation переводит слот в азкары, если другой круг ещё не идёт.
func (s *Sequencer) startRotation(now time.Time, st *State, slot *Slot, fx *effects) bool {
	if st.rotating() != nil {
		return false
	}
	rot := s.catalog.For(slot.Prayer)
	if rot.Len() == 0 {
		s.finish(slot, fx)
		return true
	}

	slot.Phase = PhaseRemembrance
	slot.rot = rotation{start: now}
	slot.rot.long, slot.rot.index = s.position(rot, 0)
	fx.show(slot, s.remembranceOverlay(slot, rot))
	return true
}

// finish закрывает слот на сегодня. Последовательность оператора возвращает
// слот в прежнюю фазу.
func (s *Sequencer) finish(slot *Slot, fx *effects) {
	fx.hide(slot)
	slot.Phase = PhaseDone
	if slot.restore != "" {
		slot.Phase = slot.restore
	}
	slot.restore = ""
	slot.Rehearsal = false
	slot.deadline = time.Time{}
	slot.rot = rotation{}
}

func (s *Sequencer) remembranceStart(anchor time.Time, p model.PrayerKey, friday bool) time.Time {
	if friday {
		f := s.timings.Friday
		return anchor.Add(f.KhutbaLead + f.Khutba + f.PrayerWindow + f.RemembranceDelay)
	}
	return anchor.Add(s.timings.RemembranceDelay[p])
}

// position переводит прошедшее время круга в (длинный круг, индекс).
func (s *Sequencer) position(rot remembrance.Rotation, elapsed time.Duration) (bool, int) {
	shortTotal := time.Duration(len(rot.Short)) * s.timings.ShortDwell
	if elapsed < shortTotal {
		return false, int(elapsed / s.timings.ShortDwell)
	}
	return true, int((elapsed - shortTotal) / s.timings.LongDwell)
}

func (s *Sequencer) remembranceOverlay(slot *Slot, rot remembrance.Rotation) model.Overlay {
	o := model.Overlay{
		Kind:   model.OverlayRemembrance,
		Prayer: slot.Prayer,
		Footer: fmt.Sprintf("أذكار بعد صلاة %s", s.names.Name(slot.Prayer)),
		Index:  slot.rot.index,
		Long:   slot.rot.long,
	}
	texts := rot.Short
	if slot.rot.long {
		texts = rot.Long
		o.Repeat = rot.Repeat
	}
	if slot.rot.index < len(texts) {
		o.Title = texts[slot.rot.index].Title
		o.Text = texts[slot.rot.index].Body
	}
	return o
}

func (s *Sequencer) iqamaTitle(p model.PrayerKey) string {
	return fmt.Sprintf("إقامة صلاة %s", s.names.Name(p))
}

// adhanDue сообщает, попадает ли now в окно запуска азана в момент at.
func (s *Sequencer) adhanDue(now, at time.Time) bool {
	return now.After(at.Add(-time.Second)) && now.Before(at.Add(s.timings.AdhanCatchUp))
}

// fresh сообщает, стоит ли ещё в now играть сигнал, назначенный на boundary.
func (s *Sequencer) fresh(now, boundary time.Time) bool {
	return now.Sub(boundary) < s.timings.AdhanCatchUp
}
