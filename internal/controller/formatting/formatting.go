// Package formatting собирает тексты сообщений бота.
package formatting

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/mosque_display/internal/model"
	"github.com/Freeeeeet/mosque_display/internal/sequencer"
	"github.com/Freeeeeet/mosque_display/internal/service"
)

const clockLayout = "15:04"

// PrayerLabel выводит "الظهر (Dhuhr)" или "Jumuah" для пятничного зухра.
func PrayerLabel(p service.PrayerTime) string {
	latin := p.Prayer.Title()
	if p.Friday {
		latin = "Jumuah"
	}
	if p.Name == "" || p.Name == latin {
		return latin
	}
	return fmt.Sprintf("%s (%s)", p.Name, latin)
}

// Schedule выводит намазы дня с временем икамы.
func Schedule(header string, day *model.DailyPrayerTimes, list []service.PrayerTime) string {
	var sb strings.Builder

	if header != "" {
		sb.WriteString("🕌 " + header + "\n")
	}
	if day != nil {
		sb.WriteString("📅 " + day.Date.Format("02.01.2006"))
		if day.Hijri.Formatted != "" {
			sb.WriteString(" | " + day.Hijri.Formatted)
		}
		sb.WriteString("\n")
		if day.Sunrise.IsSet() {
			sb.WriteString("🌅 Sunrise " + day.Sunrise.String() + "\n")
		}
	}
	sb.WriteString("\n")

	if len(list) == 0 {
		sb.WriteString("No prayer times for today.")
		return sb.String()
	}

	for _, p := range list {
		fmt.Fprintf(&sb, "• %s  %s  ⏱ iqama %s\n",
			PrayerLabel(p), p.At.Format(clockLayout), p.Iqama.Format(clockLayout))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Next выводит ближайший намаз с отсчётом.
func Next(p service.PrayerTime, left time.Duration) string {
	return fmt.Sprintf("⏳ Next: %s at %s\nin %s\nIqama at %s",
		PrayerLabel(p),
		p.At.Format(clockLayout),
		sequencer.FormatCountdown(left),
		p.Iqama.Format(clockLayout),
	)
}

// Adhan отправляется в начале азана.
func Adhan(o model.Overlay, names model.DisplayNames, at time.Time) string {
	text := fmt.Sprintf("🕌 Adhan %s - %s", names.Name(o.Prayer), at.Format(clockLayout))
	if o.Text != "" {
		text += "\n" + o.Text
	}
	return text
}

// Iqama отправляется в начале отсчёта до икамы.
func Iqama(o model.Overlay, names model.DisplayNames) string {
	return fmt.Sprintf("⏱ Iqama for %s at %s", names.Name(o.Prayer), o.Until.Format(clockLayout))
}

// Khutba отправляется в начале пятничной хутбы.
func Khutba(o model.Overlay) string {
	return fmt.Sprintf("📢 Khutba started, iqama at %s", o.Until.Format(clockLayout))
}
