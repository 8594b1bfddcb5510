package sequencer

import (
	"time"

	"github.com/Freeeeeet/mosque_display/internal/model"
)

// Phase положение слота намаза в его дневной последовательности.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseAdhan          Phase = "adhan"
	PhaseIqamaCountdown Phase = "iqama-countdown"
	PhaseKhutba         Phase = "khutba"
	PhasePrayerWindow   Phase = "prayer-window"
	PhaseRemembrance    Phase = "remembrance"
	PhaseDone           Phase = "done" // последовательность на сегодня закончена; выглядит как idle
)

type rotation struct {
	start time.Time
	long  bool
	index int
}

// Slot состояние последовательности одного намаза на текущий день.
type Slot struct {
	Prayer    model.PrayerKey
	Phase     Phase
	Anchor    time.Time // время азана, от которого отсчитываются все следующие шаги
	Friday    bool
	Rehearsal bool

	restore  Phase
	deadline time.Time
	overlay  *model.Overlay
	rot      rotation
}

// Active сообщает, идёт ли у слота последовательность.
func (s *Slot) Active() bool {
	return s.Phase != PhaseIdle && s.Phase != PhaseDone
}

// State всё, что секвенсор помнит между тиками. Им владеет один цикл опроса.
type State struct {
	Day    string
	Friday bool
	slots  map[model.PrayerKey]*Slot
}

func NewState() *State {
	st := &State{}
	st.reset("", false)
	return st
}

func (st *State) reset(day string, friday bool) {
	st.Day = day
	st.Friday = friday
	st.slots = make(map[model.PrayerKey]*Slot, len(model.Prayers))
	for _, p := range model.Prayers {
		st.slots[p] = &Slot{Prayer: p, Phase: PhaseIdle}
	}
}

// Slot возвращает копию слота для p.
func (st *State) Slot(p model.PrayerKey) Slot {
	if s, ok := st.slots[p]; ok {
		return *s
	}
	return Slot{Prayer: p, Phase: PhaseIdle}
}

func (st *State) Phases() map[model.PrayerKey]Phase {
	out := make(map[model.PrayerKey]Phase, len(st.slots))
	for p, s := range st.slots {
		out[p] = s.Phase
	}
	return out
}

func (st *State) rotating() *Slot {
	for _, p := range model.Prayers {
		if s := st.slots[p]; s.Phase == PhaseRemembrance {
			return s
		}
	}
	return nil
}

// overlay возвращает оверлей на экране, если он есть.
func (st *State) overlay() *model.Overlay {
	for _, p := range model.Prayers {
		if o := st.slots[p].overlay; o != nil {
			c := *o
			return &c
		}
	}
	return nil
}
