package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Lovable-Leapmile/ims-robot-console/models"
)

type StationsModel struct {
	app     *App
	spinner spinner.Model

	trays  []models.ReadyTray
	cursor int

	// loading is only true for the first fetch after the view opens;
	// background polls never toggle it or surface errors.
	loading bool

	// pollTag identifies the live poll loop, same discipline as the
	// dashboard status poller.
	pollTag int

	releasing bool
	notice    string
}

type readyTraysMsg struct {
	tag     int
	trays   []models.ReadyTray
	err     error
	initial bool
}

type trayTickMsg struct {
	tag int
}

type releaseDoneMsg struct {
	trayID string
	err    error
}

func NewStationsModel(app *App) StationsModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return StationsModel{
		app:     app,
		spinner: s,
	}
}

// Open starts the view: one immediate fetch with the loading indicator,
// then a fresh poll loop. Returns the updated model because the tag bump
// must survive into the next Update.
func (m StationsModel) Open() (StationsModel, tea.Cmd) {
	m.pollTag++
	m.loading = true
	m.trays = nil
	m.cursor = 0
	m.notice = ""
	return m, tea.Batch(
		m.spinner.Tick,
		fetchReadyTrays(m.app, m.pollTag, true),
	)
}

// Teardown cancels the poll loop. Called when navigating away.
func (m StationsModel) Teardown() StationsModel {
	m.pollTag++
	return m
}

func fetchReadyTrays(app *App, tag int, initial bool) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		trays, err := app.Client.Tray.Ready(ctx)
		if err == nil {
			// Hand every snapshot to the SCARA dispatcher; publish
			// failures are logged, never shown
			if derr := app.ScaraDispatcher.Observe(ctx, trays); derr != nil {
				logDebug("scara dispatch: %v", derr)
			}
		}
		return readyTraysMsg{tag: tag, trays: trays, err: err, initial: initial}
	}
}

func scheduleTrayTick(interval time.Duration, tag int) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return trayTickMsg{tag: tag}
	})
}

func releaseTray(app *App, tray models.ReadyTray) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		err := app.Client.Tray.Release(ctx, tray.TrayID, tray.Tags...)
		return releaseDoneMsg{trayID: tray.TrayID, err: err}
	}
}

func (m StationsModel) Update(msg tea.Msg) (StationsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case readyTraysMsg:
		if msg.tag != m.pollTag {
			// Stale result from before the view was torn down
			return m, nil
		}
		if msg.initial {
			m.loading = false
		}
		if msg.err != nil {
			if msg.initial {
				m.notice = fmt.Sprintf("Failed to fetch ready trays: %v", msg.err)
			} else {
				logDebug("ready tray poll: %v", msg.err)
			}
		} else {
			// Wholesale replacement with the server's snapshot
			m.trays = msg.trays
			if m.cursor >= len(m.trays) {
				m.cursor = 0
			}
		}
		return m, scheduleTrayTick(m.app.TrayPollInterval, msg.tag)

	case trayTickMsg:
		if msg.tag != m.pollTag {
			return m, nil
		}
		return m, fetchReadyTrays(m.app, msg.tag, false)

	case releaseDoneMsg:
		m.releasing = false
		if msg.err != nil {
			m.notice = fmt.Sprintf("Failed to release tray %s: %v", msg.trayID, msg.err)
			return m, nil
		}
		m.notice = fmt.Sprintf("Tray %s released", msg.trayID)
		// The server owns tray state: force a refetch instead of trusting
		// a local removal. Bumping the tag hands the poll loop to the
		// refetch, so the running loop's pending tick is dropped instead
		// of doubling the poll rate.
		m.pollTag++
		return m, fetchReadyTrays(m.app, m.pollTag, false)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return m, navigate(ViewDashboard)
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.trays)-1 {
				m.cursor++
			}
		case "enter":
			if m.releasing || m.cursor >= len(m.trays) {
				return m, nil
			}
			m.releasing = true
			m.notice = "Releasing..."
			return m, releaseTray(m.app, m.trays[m.cursor])
		}
	}

	return m, nil
}

func (m StationsModel) View() string {
	header := RenderHeader(m.app.Session.UserName())

	titleStyle := lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true).
		MarginLeft(2)

	dim := lipgloss.NewStyle().Foreground(dimColor)

	var body strings.Builder
	body.WriteString(titleStyle.Render("Robotic Stations") + "\n")
	body.WriteString(dim.MarginLeft(2).Render("Trays ready for release") + "\n\n")

	switch {
	case m.loading:
		body.WriteString(fmt.Sprintf("  %s Loading ready trays...\n", m.spinner.View()))
	case len(m.trays) == 0:
		body.WriteString(dim.MarginLeft(2).Render("No ready trays available") + "\n")
	default:
		for i, tray := range m.trays {
			cursor := "  "
			if i == m.cursor {
				cursor = "> "
			}
			line := fmt.Sprintf("%s%s · station %s · slot %s · [%s]",
				cursor, tray.TrayID, tray.StationName, tray.StationSlotID,
				strings.Join(tray.Tags, ", "))
			if i == m.cursor {
				line = lipgloss.NewStyle().Foreground(accentColor).Render(line)
			}
			body.WriteString("  " + line + "\n")
		}
	}

	if m.notice != "" {
		noticeStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#02BF87")).
			MarginLeft(2).
			MarginTop(1)
		body.WriteString("\n" + noticeStyle.Render(m.notice))
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		MarginTop(1).
		MarginLeft(2)
	footer := helpStyle.Render("enter: release tray · esc: dashboard · ctrl+c: quit")

	return header + "\n" + body.String() + "\n" + footer
}
