// Package views renders the screens of the client as styled terminal text.
package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	ColorAccent  = lipgloss.Color("#20B9B4")
	ColorBright  = lipgloss.Color("#2CD7C7")
	ColorBorder  = lipgloss.Color("#16858E")
	ColorMuted   = lipgloss.Color("#6C8A94")
	ColorSuccess = lipgloss.Color("#2CD7C7")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
)

// Styles are the shared lipgloss styles of all screens.
var Styles = struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Badge    lipgloss.Style

	Card       lipgloss.Style
	SuccessBox lipgloss.Style
	ErrorBox   lipgloss.Style
}{
	Title:    lipgloss.NewStyle().Bold(true).Foreground(ColorBright),
	Subtitle: lipgloss.NewStyle().Foreground(ColorAccent),
	Bold:     lipgloss.NewStyle().Bold(true),
	Muted:    lipgloss.NewStyle().Foreground(ColorMuted),
	Success:  lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:  lipgloss.NewStyle().Foreground(ColorWarning),
	Error:    lipgloss.NewStyle().Foreground(ColorError),
	Badge:    lipgloss.NewStyle().Bold(true).Foreground(ColorAccent),

	Card: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1),
	SuccessBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSuccess).
		Padding(0, 1),
	ErrorBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorError).
		Padding(0, 1),
}

// Notices renders the success and error banners; empty strings are skipped.
func Notices(success, failure string) string {
	var parts []string
	if success != "" {
		parts = append(parts, Styles.SuccessBox.Render(Styles.Success.Render("✓ "+success)))
	}
	if failure != "" {
		parts = append(parts, Styles.ErrorBox.Render(Styles.Error.Render("✗ "+failure)))
	}
	return strings.Join(parts, "\n")
}

// EmptyState renders a headline with an optional hint below it.
func EmptyState(headline, hint string) string {
	s := Styles.Bold.Render(headline)
	if hint != "" {
		s += "\n" + Styles.Muted.Render(hint)
	}
	return Styles.Card.Render(s)
}

func join(blocks ...string) string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b != "" {
			out = append(out, b)
		}
	}
	return strings.Join(out, "\n\n")
}
