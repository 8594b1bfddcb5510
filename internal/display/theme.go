package display

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Theme палитра терминального экрана.
type Theme struct {
	Name string

	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Time      lipgloss.Style
	Next      lipgloss.Style
	Countdown lipgloss.Style
	Dim       lipgloss.Style
	Box       lipgloss.Style
	Overlay   lipgloss.Style
	Icon      lipgloss.Style
	Accent    lipgloss.Style
}

var (
	colorGold  = lipgloss.Color("#FFD700")
	colorCyan  = lipgloss.Color("#00FFFF")
	colorWhite = lipgloss.Color("#FFFFFF")
	colorGray  = lipgloss.Color("#888888")
	colorNavy  = lipgloss.Color("#0A1F3A")
	colorNight = lipgloss.Color("#050B16")
	colorGreen = lipgloss.Color("#2ECC71")
)

func newTheme(name string, bg, accent lipgloss.Color) Theme {
	return Theme{
		Name:      name,
		Title:     lipgloss.NewStyle().Bold(true).Foreground(colorGold),
		Subtitle:  lipgloss.NewStyle().Foreground(colorWhite),
		Label:     lipgloss.NewStyle().Bold(true).Foreground(colorWhite),
		Time:      lipgloss.NewStyle().Foreground(colorCyan),
		Next:      lipgloss.NewStyle().Bold(true).Foreground(accent),
		Countdown: lipgloss.NewStyle().Bold(true).Foreground(colorCyan),
		Dim:       lipgloss.NewStyle().Foreground(colorGray),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2),
		Overlay: lipgloss.NewStyle().
			Background(bg).
			Foreground(colorWhite).
			Padding(1, 4).
			Align(lipgloss.Center),
		Icon:   lipgloss.NewStyle().Foreground(colorGold).Bold(true),
		Accent: lipgloss.NewStyle().Foreground(accent),
	}
}

var (
	DayTheme   = newTheme("day", colorNavy, colorGold)
	NightTheme = newTheme("night", colorNight, colorGreen)
)

// ThemeFor выбирает дневную палитру с 06:00 до 18:00.
func ThemeFor(now time.Time) Theme {
	if h := now.Hour(); h >= 6 && h < 18 {
		return DayTheme
	}
	return NightTheme
}
