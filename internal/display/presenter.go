// Package display превращает вывод секвенсора в то, что видят люди.
package display

import (
	"github.com/Freeeeeet/mosque_display/internal/model"
	"github.com/Freeeeeet/mosque_display/internal/sequencer"
	"go.uber.org/zap"
)

// Presenter получает вызовы оверлеев и снимки экрана от цикла опроса.
// Реализации не должны блокироваться: цикл вызывает их каждый тик.
type Presenter interface {
	ShowOverlay(o model.Overlay)
	UpdateOverlay(o model.Overlay)
	HideOverlay(o model.Overlay)
	NewDay(day *model.DailyPrayerTimes)
	Refresh(snap sequencer.Snapshot)
}

// Fanout передаёт каждый вызов всем презентерам. Паника одного презентера
// логируется и не останавливает остальных.
type Fanout struct {
	presenters []Presenter
	logger     *zap.Logger
}

func NewFanout(logger *zap.Logger, presenters ...Presenter) *Fanout {
	return &Fanout{presenters: presenters, logger: logger}
}

func (f *Fanout) Add(p Presenter) {
	f.presenters = append(f.presenters, p)
}

func (f *Fanout) Len() int {
	return len(f.presenters)
}

func (f *Fanout) each(op string, call func(Presenter)) {
	for _, p := range f.presenters {
		func() {
			defer func() {
				if r := recover(); r != nil {
					f.logger.Error("❌ Presenter panicked", zap.String("op", op), zap.Any("panic", r))
				}
			}()
			call(p)
		}()
	}
}

func (f *Fanout) ShowOverlay(o model.Overlay) {
	f.each("show", func(p Presenter) { p.ShowOverlay(o) })
}

func (f *Fanout) UpdateOverlay(o model.Overlay) {
	f.each("update", func(p Presenter) { p.UpdateOverlay(o) })
}

func (f *Fanout) HideOverlay(o model.Overlay) {
	f.each("hide", func(p Presenter) { p.HideOverlay(o) })
}

func (f *Fanout) NewDay(day *model.DailyPrayerTimes) {
	f.each("new-day", func(p Presenter) { p.NewDay(day) })
}

func (f *Fanout) Refresh(snap sequencer.Snapshot) {
	f.each("refresh", func(p Presenter) { p.Refresh(snap) })
}

// LogPresenter пишет смены оверлеев в лог. В headless режиме
// это единственный презентер.
type LogPresenter struct {
	logger *zap.Logger
}

func NewLogPresenter(logger *zap.Logger) *LogPresenter {
	return &LogPresenter{logger: logger}
}

func (l *LogPresenter) ShowOverlay(o model.Overlay) {
	l.logger.Info("🖼️ Overlay shown", overlayFields(o)...)
}

func (l *LogPresenter) UpdateOverlay(o model.Overlay) {
	l.logger.Debug("Overlay updated", overlayFields(o)...)
}

func (l *LogPresenter) HideOverlay(o model.Overlay) {
	l.logger.Info("Overlay hidden", overlayFields(o)...)
}

func (l *LogPresenter) NewDay(day *model.DailyPrayerTimes) {
	if day == nil {
		l.logger.Warn("⚠️ No prayer times for today, showing placeholders")
		return
	}
	fields := []zap.Field{zap.String("date", day.Key()), zap.String("hijri", day.Hijri.Formatted)}
	for _, p := range model.Prayers {
		fields = append(fields, zap.String(string(p), day.Time(p).String()))
	}
	l.logger.Info("📅 New day", fields...)
}

func (l *LogPresenter) Refresh(sequencer.Snapshot) {}

func overlayFields(o model.Overlay) []zap.Field {
	fields := []zap.Field{
		zap.String("overlay", string(o.Kind)),
		zap.String("prayer", string(o.Prayer)),
	}
	if !o.Until.IsZero() {
		fields = append(fields, zap.Time("until", o.Until))
	}
	if o.Kind == model.OverlayRemembrance {
		fields = append(fields, zap.Int("index", o.Index), zap.Bool("long", o.Long))
	}
	if o.Rehearsal {
		fields = append(fields, zap.Bool("rehearsal", true))
	}
	return fields
}
