package app

import (
	"context"
	"time"

	"github.com/Freeeeeet/mosque_display/internal/audio"
	"github.com/Freeeeeet/mosque_display/internal/display"
	"github.com/Freeeeeet/mosque_display/internal/model"
	"github.com/Freeeeeet/mosque_display/internal/sequencer"
	"github.com/Freeeeeet/mosque_display/internal/timetable"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Clock отдаёт текущее время циклу опроса.
type Clock interface {
	Now() time.Time
}

type systemClock struct {
	loc *time.Location
}

// SystemClock читает системные часы в поясе loc.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return systemClock{loc: loc}
}

func (c systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

type requestKind int

const (
	requestDismiss requestKind = iota
	requestRehearse
	requestRemembrance
)

type request struct {
	kind   requestKind
	prayer model.PrayerKey
}

// Scheduler цикл опроса. Он единственный владелец состояния секвенсора:
// запросы оператора встают в очередь и применяются в начале следующего тика.
type Scheduler struct {
	sequencer *sequencer.Sequencer
	table     *timetable.Table
	state     *sequencer.State
	player    audio.Player
	presenter display.Presenter
	clock     Clock
	interval  time.Duration
	logger    *zap.Logger

	requests chan request
	stopChan chan struct{}
}

func NewScheduler(
	seq *sequencer.Sequencer,
	table *timetable.Table,
	player audio.Player,
	presenter display.Presenter,
	clock Clock,
	interval time.Duration,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		sequencer: seq,
		table:     table,
		state:     sequencer.NewState(),
		player:    player,
		presenter: presenter,
		clock:     clock,
		interval:  interval,
		logger:    logger.With(zap.String("run_id", uuid.NewString())),
		requests:  make(chan request, 8),
		stopChan:  make(chan struct{}),
	}
}

// Start запускает цикл опроса в фоне до Stop или отмены ctx.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting prayer scheduler",
		zap.Duration("interval", s.interval),
		zap.Int("days", s.table.Len()))

	go s.run(ctx)
}

func (s *Scheduler) Stop() {
	s.logger.Info("Stopping prayer scheduler")
	close(s.stopChan)
}

// Dismiss просит цикл завершить идущую последовательность.
func (s *Scheduler) Dismiss() {
	s.enqueue(request{kind: requestDismiss})
}

// Rehearse просит цикл запустить тестовую последовательность для p.
func (s *Scheduler) Rehearse(p model.PrayerKey) {
	s.enqueue(request{kind: requestRehearse, prayer: p})
}

// Remembrance просит цикл открыть азкары для p.
func (s *Scheduler) Remembrance(p model.PrayerKey) {
	s.enqueue(request{kind: requestRemembrance, prayer: p})
}

func (s *Scheduler) enqueue(r request) {
	select {
	case s.requests <- r:
	default:
		s.logger.Warn("⚠️ Request queue full, dropping request", zap.Int("kind", int(r.kind)))
	}
}

func (s *Scheduler) run(ctx context.Context) {
	// Первый тик сразу при старте, чтобы экран не пустовал целый интервал
	s.tick()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-s.stopChan:
			s.logger.Info("Prayer scheduler stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Prayer scheduler cancelled")
			return
		}
	}
}

// tick выполняет один шаг. Паника внутри логируется, цикл продолжает работу.
func (s *Scheduler) tick() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("❌ Tick panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()

	now := s.clock.Now()

	for drained := false; !drained; {
		select {
		case r := <-s.requests:
			s.dispatch(s.apply(now, r))
		default:
			drained = true
		}
	}

	snap, effects := s.sequencer.Step(now, s.table, s.state)
	s.dispatch(effects)
	s.presenter.Refresh(snap)
}

func (s *Scheduler) apply(now time.Time, r request) []sequencer.Effect {
	switch r.kind {
	case requestDismiss:
		s.logger.Info("🛑 Dismiss requested")
		return s.sequencer.Dismiss(now, s.state)
	case requestRehearse:
		s.logger.Info("🧪 Rehearsal requested", zap.String("prayer", string(r.prayer)))
		return s.sequencer.Rehearse(now, s.state, r.prayer)
	case requestRemembrance:
		s.logger.Info("📿 Remembrance requested", zap.String("prayer", string(r.prayer)))
		return s.sequencer.StartRemembrance(now, s.state, r.prayer)
	}
	return nil
}

func (s *Scheduler) dispatch(effects []sequencer.Effect) {
	for _, e := range effects {
		switch e.Kind {
		case sequencer.EffectPlay:
			s.logger.Info("🔊 Playing clip", zap.String("clip", string(e.Clip)))
			s.player.Play(e.Clip)
		case sequencer.EffectShow:
			s.presenter.ShowOverlay(e.Overlay)
		case sequencer.EffectUpdate:
			s.presenter.UpdateOverlay(e.Overlay)
		case sequencer.EffectHide:
			s.presenter.HideOverlay(e.Overlay)
		case sequencer.EffectNewDay:
			s.presenter.NewDay(e.Day)
		}
	}
}
