package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/mosque_display/internal/model"
	"github.com/Freeeeeet/mosque_display/internal/render"
	"github.com/Freeeeeet/mosque_display/internal/sequencer"
	"github.com/Freeeeeet/mosque_display/internal/timetable"
	"go.uber.org/zap"
)

// ErrDayNotFound в расписании нет строки на запрошенный день.
var ErrDayNotFound = errors.New("day not found in time table")

// PrayerTime один намаз дня с его икамой.
type PrayerTime struct {
	Prayer model.PrayerKey
	Name   string
	At     time.Time
	Iqama  time.Time
	Friday bool
}

// PrayerService отвечает на вопросы о расписании для бота и картинки.
type PrayerService struct {
	table   *timetable.Table
	timings sequencer.Timings
	names   model.DisplayNames
	logger  *zap.Logger
}

func NewPrayerService(table *timetable.Table, timings sequencer.Timings, names model.DisplayNames, logger *zap.Logger) *PrayerService {
	if names == nil {
		names = model.DefaultDisplayNames()
	}
	return &PrayerService{
		table:   table,
		timings: timings,
		names:   names,
		logger:  logger,
	}
}

// Today возвращает строку на календарный день now.
func (s *PrayerService) Today(now time.Time) (*model.DailyPrayerTimes, error) {
	day, ok := s.table.Day(now)
	if !ok {
		return nil, fmt.Errorf("%s: %w", model.DateKey(now), ErrDayNotFound)
	}
	return day, nil
}

// Schedule перечисляет заданные намазы дня с временем икамы.
func (s *PrayerService) Schedule(now time.Time) ([]PrayerTime, error) {
	day, err := s.Today(now)
	if err != nil {
		return nil, err
	}

	friday := now.Weekday() == time.Friday
	out := make([]PrayerTime, 0, len(model.Prayers))
	for _, p := range model.Prayers {
		at, ok := day.At(p, now.Location())
		if !ok {
			continue
		}
		jumuah := friday && p == model.PrayerDhuhr
		out = append(out, PrayerTime{
			Prayer: p,
			Name:   s.names.Name(p),
			At:     at,
			Iqama:  s.IqamaAt(p, at, jumuah),
			Friday: jumuah,
		})
	}
	return out, nil
}

// IqamaAt время икамы для намаза с азаном в at.
// В пятницу вместо отсчёта идёт хутба.
func (s *PrayerService) IqamaAt(p model.PrayerKey, at time.Time, friday bool) time.Time {
	if friday {
		return at.Add(s.timings.Friday.KhutbaLead + s.timings.Friday.Khutba)
	}
	return at.Add(s.timings.IqamaLead + s.timings.IqamaDelay[p])
}

// Next возвращает ближайший намаз и сколько до него осталось.
func (s *PrayerService) Next(now time.Time) (PrayerTime, time.Duration, error) {
	occ, ok := sequencer.NextPrayer(s.table, now)
	if !ok {
		return PrayerTime{}, 0, fmt.Errorf("next prayer after %s: %w", now.Format(time.DateTime), ErrDayNotFound)
	}
	friday := occ.At.Weekday() == time.Friday && occ.Prayer == model.PrayerDhuhr
	next := PrayerTime{
		Prayer: occ.Prayer,
		Name:   s.names.Name(occ.Prayer),
		At:     occ.At,
		Iqama:  s.IqamaAt(occ.Prayer, occ.At, friday),
		Friday: friday,
	}
	return next, sequencer.Remaining(now, occ.At), nil
}

// Week возвращает до семи строк начиная с сегодня.
func (s *PrayerService) Week(now time.Time) ([]*model.DailyPrayerTimes, error) {
	days := s.table.Range(now, render.WeekDays)
	if len(days) == 0 {
		return nil, fmt.Errorf("week from %s: %w", model.DateKey(now), ErrDayNotFound)
	}
	return days, nil
}

// WeekImage рисует ближайшую неделю в PNG.
func (s *PrayerService) WeekImage(now time.Time, title string) ([]byte, error) {
	days, err := s.Week(now)
	if err != nil {
		return nil, err
	}

	data, err := render.GenerateScheduleImage(title, days, now)
	if err != nil {
		return nil, fmt.Errorf("render week image: %w", err)
	}

	s.logger.Debug("Week image rendered",
		zap.String("from", days[0].Key()),
		zap.Int("days", len(days)),
		zap.Int("bytes", len(data)),
	)
	return data, nil
}
