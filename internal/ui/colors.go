package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func style(c func(Theme) lipgloss.TerminalColor) lipgloss.Style {
	t := GetCurrentTheme()
	if t.Plain {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(c(t))
}

// ColorPrimary renders s in the theme's primary color.
func ColorPrimary(s string) string {
	return style(func(t Theme) lipgloss.TerminalColor { return t.Primary }).Render(s)
}

// ColorSecondary renders s in the theme's secondary color.
func ColorSecondary(s string) string {
	return style(func(t Theme) lipgloss.TerminalColor { return t.Secondary }).Render(s)
}

// ColorSuccess renders s in the theme's success color.
func ColorSuccess(s string) string {
	return style(func(t Theme) lipgloss.TerminalColor { return t.Success }).Render(s)
}

// ColorWarning renders s in the theme's warning color.
func ColorWarning(s string) string {
	return style(func(t Theme) lipgloss.TerminalColor { return t.Warning }).Render(s)
}

// ColorError renders s in the theme's error color.
func ColorError(s string) string {
	return style(func(t Theme) lipgloss.TerminalColor { return t.Error }).Render(s)
}

// ColorInfo renders s in the theme's info color.
func ColorInfo(s string) string {
	return style(func(t Theme) lipgloss.TerminalColor { return t.Info }).Render(s)
}

// ColorBold renders s in bold unless colors are disabled.
func ColorBold(s string) string {
	if GetCurrentTheme().Plain {
		return s
	}
	return lipgloss.NewStyle().Bold(true).Render(s)
}

// Banner renders a boxed title with optional body lines below it.
func Banner(title string, lines ...string) string {
	t := GetCurrentTheme()
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 2)
	head := lipgloss.NewStyle()
	if !t.Plain {
		box = box.BorderForeground(t.Primary)
		head = head.Bold(true).Foreground(t.Primary)
	}

	content := head.Render(title)
	if len(lines) > 0 {
		content += "\n" + strings.Join(lines, "\n")
	}
	return box.Render(content)
}
