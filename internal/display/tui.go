package display

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/mosque_display/internal/model"
	"github.com/Freeeeeet/mosque_display/internal/sequencer"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"
)

// pulseInterval время кадра экрана и анимации иконки икамы.
const pulseInterval = 200 * time.Millisecond

// Клавиши.
const (
	KeyQuit     = "q"
	KeyCtrlC    = "ctrl+c"
	KeyDismiss  = "d"
	KeyEsc      = "esc"
	KeyRehearse = "t"
	KeyF1       = "f1"
	KeyAdhkar   = "a"
)

// Controls действия оператора, которые экран может запросить у цикла опроса.
type Controls interface {
	Dismiss()
	Rehearse(p model.PrayerKey)
	Remembrance(p model.PrayerKey)
}

// latest хранит последний снимок, переданный циклом опроса.
type latest struct {
	mu   sync.RWMutex
	snap sequencer.Snapshot
}

func (l *latest) store(s sequencer.Snapshot) {
	l.mu.Lock()
	l.snap = s
	l.mu.Unlock()
}

func (l *latest) load() sequencer.Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap
}

// TUI терминальный экран. Цикл опроса сохраняет снимки, а программа bubbletea
// забирает их на своём тике кадра, поэтому цикл никогда не ждёт отрисовку.
type TUI struct {
	latest  *latest
	program *tea.Program
}

func NewTUI(info Info, controls Controls, opts ...tea.ProgramOption) *TUI {
	l := &latest{}
	return &TUI{
		latest:  l,
		program: tea.NewProgram(NewModel(info, l, controls), opts...),
	}
}

// Run блокируется, пока оператор не выйдет.
func (t *TUI) Run() error {
	_, err := t.program.Run()
	return err
}

func (t *TUI) Quit() {
	t.program.Quit()
}

// Вызовы оверлеев приходят со следующим снимком.
func (t *TUI) ShowOverlay(model.Overlay) {}

func (t *TUI) UpdateOverlay(model.Overlay) {}

func (t *TUI) HideOverlay(model.Overlay) {}

func (t *TUI) NewDay(*model.DailyPrayerTimes) {}

func (t *TUI) Refresh(snap sequencer.Snapshot) {
	t.latest.store(snap)
}

type frameMsg time.Time

func frameCmd() tea.Cmd {
	return tea.Tick(pulseInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Model модель bubbletea для экрана мечети.
type Model struct {
	info     Info
	latest   *latest
	controls Controls

	snap   sequencer.Snapshot
	frame  int
	width  int
	height int
}

func NewModel(info Info, l *latest, controls Controls) Model {
	if info.Names == nil {
		info.Names = model.DefaultDisplayNames()
	}
	return Model{info: info, latest: l, controls: controls}
}

func (m Model) Init() tea.Cmd {
	return frameCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case KeyQuit, KeyCtrlC:
			return m, tea.Quit
		case KeyDismiss, KeyEsc:
			if m.controls != nil {
				m.controls.Dismiss()
			}
		case KeyRehearse, KeyF1:
			if m.controls != nil {
				m.controls.Rehearse(model.PrayerMaghrib)
			}
		case KeyAdhkar:
			if m.controls != nil {
				m.controls.Remembrance(m.lastPrayer())
			}
		case "1", "2", "3", "4", "5":
			if m.controls != nil {
				m.controls.Rehearse(model.Prayers[msg.String()[0]-'1'])
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case frameMsg:
		if m.latest != nil {
			m.snap = m.latest.load()
		}
		m.frame++
		return m, frameCmd()
	}
	return m, nil
}

// lastPrayer намаз, чьи азкары уже наступили; до фаджра это вчерашний иша.
func (m Model) lastPrayer() model.PrayerKey {
	if p, ok := m.snap.Today.LastPrayer(m.snap.Now); ok {
		return p
	}
	return model.PrayerIsha
}

func (m Model) View() string {
	if m.snap.Now.IsZero() {
		return "Loading prayer times..."
	}

	theme := ThemeFor(m.snap.Now)
	var content string
	if m.snap.Overlay != nil {
		content = m.overlayView(theme, *m.snap.Overlay)
	} else {
		content = m.mainView(theme)
	}

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

func (m Model) mainView(theme Theme) string {
	snap := m.snap
	var b strings.Builder

	b.WriteString(theme.Title.Render(m.info.MosqueName) + "\n")
	b.WriteString(theme.Subtitle.Render(m.info.Place(snap.Today)) + "\n")
	b.WriteString(theme.Dim.Render(DateLine(snap.Today, snap.Now)) + "\n\n")

	b.WriteString(theme.Label.Render("الصلاة القادمة") + "\n")
	if snap.HasNext {
		b.WriteString(theme.Next.Render(fmt.Sprintf("%s  %s",
			m.info.Names.Name(snap.Next.Prayer), snap.Next.At.Format("15:04"))) + "\n")
		b.WriteString(theme.Countdown.Render("باقي : "+sequencer.FormatCountdown(snap.Remaining)) + "\n\n")
	} else {
		b.WriteString(theme.Dim.Render(model.UnsetClock) + "\n")
		b.WriteString(theme.Dim.Render("باقي : "+model.UnsetClock) + "\n\n")
	}

	b.WriteString(m.scheduleView(theme) + "\n")

	if snap.Friday {
		b.WriteString(theme.Accent.Render("🕌 صلاة الجمعة  "+snap.Today.Time(model.PrayerDhuhr).String()) + "\n")
	}
	sunrise := model.UnsetClock
	if snap.Today != nil {
		sunrise = snap.Today.Sunrise.String()
	}
	b.WriteString(theme.Dim.Render("🌅 وقت الشروق  "+sunrise) + "\n\n")
	b.WriteString(theme.Dim.Render("q quit · d dismiss · t test adhan"))
	return b.String()
}

func (m Model) scheduleView(theme Theme) string {
	cols := make([]string, 0, len(model.Prayers))
	for _, p := range model.Prayers {
		label := theme.Label
		if m.snap.HasNext && m.snap.Next.Prayer == p && model.DateKey(m.snap.Next.At) == model.DateKey(m.snap.Now) {
			label = theme.Next
		}
		cell := lipgloss.JoinVertical(lipgloss.Center,
			label.Render(m.info.Names.Name(p)),
			theme.Time.Render(m.snap.Today.Time(p).String()),
		)
		cols = append(cols, theme.Box.Render(cell))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m Model) overlayView(theme Theme, o model.Overlay) string {
	lines := []string{}

	icon := "🕌"
	if o.Kind == model.OverlayRemembrance {
		icon = "📖"
	}
	if o.Pulsing {
		pad := strings.Repeat(" ", pulse(m.frame))
		icon = pad + icon + pad
	}
	lines = append(lines, theme.Icon.Render(icon), "")

	if o.Title != "" {
		lines = append(lines, theme.Title.Render(o.Title))
	}
	if o.Text != "" {
		lines = append(lines, theme.Subtitle.Render(o.Text))
	}
	if !o.Until.IsZero() {
		remaining := sequencer.Remaining(m.snap.Now, o.Until)
		lines = append(lines, "", theme.Countdown.Render("⏳ "+sequencer.FormatCountdown(remaining)))
	}
	if o.Repeat > 1 {
		lines = append(lines, theme.Dim.Render(fmt.Sprintf("(%d مرات)", o.Repeat)))
	}
	if o.Footer != "" {
		lines = append(lines, "", theme.Dim.Render(o.Footer))
	}
	if o.Rehearsal {
		lines = append(lines, theme.Accent.Render("🧪 تجربة"))
	}

	return theme.Overlay.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

// pulse превращает счётчик кадров в отступ, который растёт и убывает: 0 1 2 3 2 1 0 ...
func pulse(frame int) int {
	const peak = 3
	p := frame % (2 * peak)
	if p > peak {
		return 2*peak - p
	}
	return p
}
