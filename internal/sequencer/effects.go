package sequencer

import "github.com/Freeeeeet/mosque_display/internal/model"

type EffectKind string

const (
	EffectPlay   EffectKind = "play"
	EffectShow   EffectKind = "show"
	EffectUpdate EffectKind = "update"
	EffectHide   EffectKind = "hide"
	EffectNewDay EffectKind = "new-day"
)

// Effect побочный эффект перехода. Цикл опроса передаёт его звуку и презентерам.
type Effect struct {
	Kind    EffectKind
	Clip    model.ClipKind
	Overlay model.Overlay
	Day     *model.DailyPrayerTimes // только для EffectNewDay, nil если в таблице нет строки
}

type effects struct {
	list []Effect
}

func (e *effects) play(c model.ClipKind) {
	e.list = append(e.list, Effect{Kind: EffectPlay, Clip: c})
}

// show выводит o для слота. Тот же вид обновляется на месте, другой вид заменяет.
func (e *effects) show(slot *Slot, o model.Overlay) {
	o.Rehearsal = slot.Rehearsal
	kind := EffectShow
	if slot.overlay != nil {
		if slot.overlay.Kind == o.Kind {
			kind = EffectUpdate
		} else {
			e.hide(slot)
		}
	}
	slot.overlay = &o
	e.list = append(e.list, Effect{Kind: kind, Overlay: o})
}

func (e *effects) hide(slot *Slot) {
	if slot.overlay == nil {
		return
	}
	e.list = append(e.list, Effect{Kind: EffectHide, Overlay: *slot.overlay})
	slot.overlay = nil
}

func (e *effects) newDay(row *model.DailyPrayerTimes) {
	e.list = append(e.list, Effect{Kind: EffectNewDay, Day: row})
}
