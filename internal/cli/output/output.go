package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Out receives everything printed by this package.
var Out io.Writer = os.Stdout

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#568203")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	primaryStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
)

func line(icon string, format string, args ...any) {
	fmt.Fprint(Out, icon)
	fmt.Fprintf(Out, format+"\n", args...)
}

func Success(format string, args ...any) { line(successStyle.Render("✓ "), format, args...) }

func Warning(format string, args ...any) { line(warningStyle.Render("⚠ "), format, args...) }

func Error(format string, args ...any) { line(errorStyle.Render("✗ "), format, args...) }

func Info(format string, args ...any) { line(infoStyle.Render("ℹ "), format, args...) }

func Muted(format string, args ...any) {
	fmt.Fprintln(Out, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

func Primary(format string, args ...any) {
	fmt.Fprintln(Out, primaryStyle.Render(fmt.Sprintf(format, args...)))
}

// Section prints a title underlined to its width.
func Section(title string) {
	fmt.Fprintln(Out)
	fmt.Fprintln(Out, primaryStyle.Render(title))
	fmt.Fprintln(Out, mutedStyle.Render(strings.Repeat("═", lipgloss.Width(title))))
	fmt.Fprintln(Out)
}

// StatusIcon maps migration and lead states to a coloured glyph.
func StatusIcon(status string) string {
	switch status {
	case "applied", "completed":
		return successStyle.Render("✓")
	case "pending":
		return warningStyle.Render("○")
	case "new":
		return infoStyle.Render("◉")
	case "failed":
		return errorStyle.Render("✗")
	default:
		return mutedStyle.Render("•")
	}
}

// Table prints rows in left-aligned columns sized to the widest cell.
func Table(header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range rows {
		for i := 0; i < len(r) && i < len(widths); i++ {
			if w := lipgloss.Width(r[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	render := func(cells []string, style lipgloss.Style) {
		parts := make([]string, len(widths))
		for i := range widths {
			var cell string
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = lipgloss.NewStyle().Width(widths[i]).Render(cell)
		}
		fmt.Fprintln(Out, style.Render(strings.TrimRight(strings.Join(parts, "  "), " ")))
	}
	render(header, primaryStyle)
	for _, r := range rows {
		render(r, lipgloss.NewStyle())
	}
}
