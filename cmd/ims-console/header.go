package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Build information - these are set via ldflags during build
var (
	version   = "dev"
	gitCommit = "unknown"
)

var (
	accentColor = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	dimColor    = lipgloss.Color("#888888")
)

func RenderHeader(operator string) string {
	titleStyle := lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true).
		MarginTop(1).
		MarginBottom(0).
		MarginLeft(2)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(dimColor).
		MarginLeft(2).
		MarginBottom(1)

	versionInfo := fmt.Sprintf("v%s", version)
	if gitCommit != "unknown" && len(gitCommit) > 7 {
		versionInfo += fmt.Sprintf(" (%s)", gitCommit[:7])
	}

	subtitle := versionInfo
	if operator != "" {
		subtitle += " · " + operator
	}

	title := titleStyle.Render("IMS Warehouse Control")
	return fmt.Sprintf("%s\n%s\n", title, subtitleStyle.Render(subtitle))
}
