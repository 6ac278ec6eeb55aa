package commands

import (
	"fmt"
	"io"
	"strings"

	"focus-tracker/internal/tui"

	"github.com/charmbracelet/lipgloss"
)

const barWidth = 30

// printer writes styled report lines to a command's output.
type printer struct {
	w       io.Writer
	heading lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	muted   lipgloss.Style
	bar     lipgloss.Style
	good    lipgloss.Style
}

func newPrinter(w io.Writer) *printer {
	r := lipgloss.NewRenderer(w)
	return &printer{
		w:       w,
		heading: r.NewStyle().Foreground(lipgloss.Color(tui.ColorAccentBright)).Bold(true),
		label:   r.NewStyle().Foreground(lipgloss.Color(tui.ColorSecondaryText)),
		value:   r.NewStyle().Foreground(lipgloss.Color(tui.ColorPrimaryText)).Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color(tui.ColorHelpText)),
		bar:     r.NewStyle().Foreground(lipgloss.Color(tui.ColorAccentMain)),
		good:    r.NewStyle().Foreground(lipgloss.Color(tui.ColorSuccess)),
	}
}

func (p *printer) section(title string) {
	fmt.Fprintln(p.w, p.heading.Render(title))
}

func (p *printer) field(label string, value any) {
	fmt.Fprintf(p.w, "  %s %s\n", p.label.Render(fmt.Sprintf("%-20s", label)), p.value.Render(fmt.Sprint(value)))
}

func (p *printer) line(format string, args ...any) {
	fmt.Fprintf(p.w, "  "+format+"\n", args...)
}

func (p *printer) note(text string) {
	fmt.Fprintln(p.w, "  "+p.muted.Render(text))
}

func (p *printer) blank() {
	fmt.Fprintln(p.w)
}

// meter draws a horizontal bar for value scaled against top.
func (p *printer) meter(value, top int) string {
	n := 0
	if top > 0 {
		n = value * barWidth / top
	}
	if value > 0 && n == 0 {
		n = 1
	}
	return p.bar.Render(strings.Repeat("█", n)) + strings.Repeat(" ", barWidth-n)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
