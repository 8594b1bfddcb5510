package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/mosque_display/internal/model"
	"github.com/Freeeeeet/mosque_display/internal/render"
	"github.com/Freeeeeet/mosque_display/internal/timetable"
	"go.uber.org/zap"
)

func main() {
	csvPath := flag.String("csv", "", "time table CSV; sample data when empty")
	out := flag.String("out", "week.png", "output file")
	title := flag.String("title", "Prayer times", "image title")
	flag.Parse()

	now := time.Now()
	days := sampleWeek(now)

	if *csvPath != "" {
		table, err := timetable.NewCSVSource(*csvPath, zap.NewNop()).Load(context.Background())
		if err != nil {
			fmt.Printf("❌ Failed to load %s: %v\n", *csvPath, err)
			os.Exit(1)
		}
		days = table.Range(now, render.WeekDays)
	}

	imageData, err := render.GenerateScheduleImage(*title, days, now)
	if err != nil {
		fmt.Printf("❌ Failed to render image: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, imageData, 0644); err != nil {
		fmt.Printf("❌ Failed to save file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Image saved to %s\n", *out)
	fmt.Printf("📅 Days: %d\n", len(days))
}

// sampleWeek делает семь дней правдоподобных времён начиная с сегодня.
func sampleWeek(now time.Time) []*model.DailyPrayerTimes {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := make([]*model.DailyPrayerTimes, 0, render.WeekDays)
	for i := 0; i < render.WeekDays; i++ {
		d := model.NewDailyPrayerTimes(start.AddDate(0, 0, i))
		d.Times[model.PrayerFajr] = model.NewClockTime(5, 40+i)
		d.Times[model.PrayerDhuhr] = model.NewClockTime(13, 20)
		d.Times[model.PrayerAsr] = model.NewClockTime(16, 45)
		d.Times[model.PrayerMaghrib] = model.NewClockTime(19, 30-i)
		d.Times[model.PrayerIsha] = model.NewClockTime(20, 55)
		d.Sunrise = model.NewClockTime(7, 5)
		days = append(days, d)
	}
	return days
}
