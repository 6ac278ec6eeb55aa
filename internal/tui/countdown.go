package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxProgressWidth = 60

// tickMsg carries the wall clock time of a timer tick.
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// CountdownModel is a focus timer counting down from a fixed length.
type CountdownModel struct {
	task      string
	total     time.Duration
	deadline  time.Time
	remaining time.Duration
	progress  progress.Model
	width     int

	finished  bool
	cancelled bool
}

// NewCountdown creates a countdown of the given minutes starting at start.
func NewCountdown(task string, minutes int, start time.Time) CountdownModel {
	total := time.Duration(minutes) * time.Minute
	bar := progress.New(progress.WithGradient(ColorAccentMain, ColorAccentBright))
	bar.Width = maxProgressWidth
	return CountdownModel{
		task:      task,
		total:     total,
		deadline:  start.Add(total),
		remaining: total,
		progress:  bar,
	}
}

// Finished reports whether the countdown ran to zero.
func (m CountdownModel) Finished() bool { return m.finished }

// Cancelled reports whether the user quit before the end.
func (m CountdownModel) Cancelled() bool { return m.cancelled }

// Remaining is the time left on the clock.
func (m CountdownModel) Remaining() time.Duration { return m.remaining }

// Init starts the ticker.
func (m CountdownModel) Init() tea.Cmd {
	return tick()
}

// Update handles messages
func (m CountdownModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.finished || m.cancelled {
			return m, nil
		}
		m.remaining = m.deadline.Sub(time.Time(msg))
		if m.remaining <= 0 {
			m.remaining = 0
			m.finished = true
			return m, tea.Quit
		}
		return m, tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(msg.Width-4, maxProgressWidth)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.cancelled = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// Elapsed is the fraction of the countdown already done.
func (m CountdownModel) Elapsed() float64 {
	if m.total <= 0 {
		return 1
	}
	return 1 - float64(m.remaining)/float64(m.total)
}

// View renders the timer
func (m CountdownModel) View() string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true).
		Render("FOCUS")
	task := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Render(m.task)
	clock := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		Render(formatClock(m.remaining))
	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Render("q/esc: give up")

	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		task,
		"",
		clock,
		m.progress.ViewAs(m.Elapsed()),
		"",
		help,
	)
	return lipgloss.NewStyle().Padding(1, 2).Render(body)
}

// formatClock renders a duration as MM:SS, rounding partial seconds up.
func formatClock(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// RunCountdown runs the timer on the given terminal streams until it
// finishes or the user quits.
func RunCountdown(task string, minutes int, in io.Reader, out io.Writer) (CountdownModel, error) {
	p := tea.NewProgram(
		NewCountdown(task, minutes, time.Now()),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	final, err := p.Run()
	if err != nil {
		return CountdownModel{}, err
	}
	return final.(CountdownModel), nil
}
