package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Lovable-Leapmile/ims-robot-console/session"
)

type ViewState int

const (
	ViewLogin ViewState = iota
	ViewDashboard
	ViewStations
)

type NavigateMsg struct {
	view ViewState
}

func navigate(view ViewState) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{view: view}
	}
}

type Model struct {
	currentView ViewState
	login       LoginModel
	dashboard   DashboardModel
	stations    StationsModel
	quitting    bool
}

func newModel(app *App) Model {
	start := ViewLogin
	if app.Session.IsAuthenticated() {
		// A persisted session survives restarts; skip the login screen
		start = ViewDashboard
	}

	return Model{
		currentView: start,
		login:       NewLoginModel(app),
		dashboard:   NewDashboardModel(app),
		stations:    NewStationsModel(app),
	}
}

func (m Model) Init() tea.Cmd {
	switch m.currentView {
	case ViewDashboard:
		return m.dashboard.Init()
	default:
		return m.login.Init()
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle navigation messages
	if navMsg, ok := msg.(NavigateMsg); ok {
		prev := m.currentView
		m.currentView = navMsg.view

		// Leaving a view cancels its polling timers
		if prev == ViewDashboard {
			m.dashboard = m.dashboard.Teardown()
		}
		if prev == ViewStations {
			m.stations = m.stations.Teardown()
		}

		switch navMsg.view {
		case ViewLogin:
			m.login = NewLoginModel(m.login.app)
			return m, m.login.Init()
		case ViewDashboard:
			return m, m.dashboard.Init()
		case ViewStations:
			var cmd tea.Cmd
			m.stations, cmd = m.stations.Open()
			return m, cmd
		}
		return m, nil
	}

	// Global key commands
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	// Route updates to current view
	var cmd tea.Cmd
	switch m.currentView {
	case ViewLogin:
		m.login, cmd = m.login.Update(msg)
	case ViewDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case ViewStations:
		m.stations, cmd = m.stations.Update(msg)
	}

	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return "bye!\n"
	}

	switch m.currentView {
	case ViewLogin:
		return m.login.View()
	case ViewDashboard:
		return m.dashboard.View()
	case ViewStations:
		return m.stations.View()
	default:
		return "Unknown view\n"
	}
}

func main() {
	if err := initLogger(); err != nil {
		fmt.Fprintln(os.Stderr, "warning: debug log unavailable:", err)
	}

	app, err := NewApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not start console:", err)
		os.Exit(1)
	}
	session.Provision(app.Session)

	p := tea.NewProgram(newModel(app))
	if _, err := p.Run(); err != nil {
		fmt.Println("could not run program:", err)
	}
}
