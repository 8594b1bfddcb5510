// Package aladhan загружает месячные календари намазов с api.aladhan.com.
package aladhan

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/Freeeeeet/mosque_display/internal/model"
	"go.uber.org/zap"
)

const DefaultBaseURL = "https://api.aladhan.com/v1"

// Метод 2 это ISNA; сервис нумерует методы расчёта.
const DefaultMethod = 2

var clockPattern = regexp.MustCompile(`(\d{1,2}:\d{2})`)

// Query выбирает календарь города для загрузки.
type Query struct {
	City    string
	Country string
	Method  int
}

type calendarResponse struct {
	Code   int      `json:"code"`
	Status string   `json:"status"`
	Data   []dayDTO `json:"data"`
}

type dayDTO struct {
	Timings map[string]string `json:"timings"`
	Date    struct {
		Gregorian struct {
			Date string `json:"date"` // DD-MM-YYYY
		} `json:"gregorian"`
		Hijri struct {
			Date    string `json:"date"`
			Day     string `json:"day"`
			Year    string `json:"year"`
			Month   nameDTO `json:"month"`
			Weekday nameDTO `json:"weekday"`
		} `json:"hijri"`
	} `json:"date"`
}

type nameDTO struct {
	En string `json:"en"`
	Ar string `json:"ar"`
}

var timingKeys = map[model.PrayerKey]string{
	model.PrayerFajr:    "Fajr",
	model.PrayerDhuhr:   "Dhuhr",
	model.PrayerAsr:     "Asr",
	model.PrayerMaghrib: "Maghrib",
	model.PrayerIsha:    "Isha",
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	retryDelay time.Duration
	logger     *zap.Logger
}

func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		retryDelay: 2 * time.Second,
		logger:     logger,
	}
}

// Month загружает один месяц, при ошибке повторяет один раз после паузы.
func (c *Client) Month(ctx context.Context, q Query, year int, month time.Month) ([]*model.DailyPrayerTimes, error) {
	days, err := c.fetchMonth(ctx, q, year, month)
	if err == nil {
		return days, nil
	}

	c.logger.Warn("⚠️ Fetch failed, retrying",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Duration("after", c.retryDelay),
		zap.Error(err),
	)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(c.retryDelay):
	}

	return c.fetchMonth(ctx, q, year, month)
}

func (c *Client) fetchMonth(ctx context.Context, q Query, year int, month time.Month) ([]*model.DailyPrayerTimes, error) {
	params := url.Values{}
	params.Set("city", q.City)
	params.Set("country", q.Country)
	params.Set("method", strconv.Itoa(q.Method))
	params.Set("month", strconv.Itoa(int(month)))
	params.Set("year", strconv.Itoa(year))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/calendarByCity?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get calendar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get calendar: unexpected status %d", resp.StatusCode)
	}

	var body calendarResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode calendar: %w", err)
	}
	if body.Code != http.StatusOK || body.Data == nil {
		return nil, fmt.Errorf("unexpected api response: code %d status %q", body.Code, body.Status)
	}

	days := make([]*model.DailyPrayerTimes, 0, len(body.Data))
	for _, d := range body.Data {
		day, err := d.toModel()
		if err != nil {
			c.logger.Warn("⚠️ Skipping calendar day", zap.Error(err))
			continue
		}
		days = append(days, day)
	}

	c.logger.Info("📥 Month fetched",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Int("days", len(days)),
	)
	return days, nil
}

func (d dayDTO) toModel() (*model.DailyPrayerTimes, error) {
	date, err := time.Parse("02-01-2006", d.Date.Gregorian.Date)
	if err != nil {
		return nil, fmt.Errorf("gregorian date %q: %w", d.Date.Gregorian.Date, err)
	}

	day := model.NewDailyPrayerTimes(date)
	for p, key := range timingKeys {
		day.Times[p] = CleanTime(d.Timings[key])
	}
	day.Sunrise = CleanTime(d.Timings["Sunrise"])
	day.Imsak = CleanTime(d.Timings["Imsak"])
	day.Midnight = CleanTime(d.Timings["Midnight"])

	h := d.Date.Hijri
	month := h.Month.Ar
	if month == "" {
		month = h.Month.En
	}
	day.Hijri = model.HijriDate{
		Day:   h.Day,
		Month: month,
		Year:  h.Year,
	}
	if h.Day != "" && h.Year != "" {
		day.Hijri.Formatted = fmt.Sprintf("%s/%s/%s", h.Day, month, h.Year)
	}
	day.ArabicDay = h.Weekday.Ar
	return day, nil
}

// CleanTime достаёт HH:MM из значений вида "05:12 (+01)". Всё остальное не задано.
func CleanTime(s string) model.ClockTime {
	m := clockPattern.FindString(s)
	if m == "" {
		return model.ClockTime{}
	}
	return model.ParseClockTime(m)
}
