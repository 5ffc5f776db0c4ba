package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Lovable-Leapmile/ims-robot-console/models"
	"github.com/Lovable-Leapmile/ims-robot-console/services"
)

// systemItem is one controllable system on the dashboard. Systems with a
// device kind have a control panel with live status; every system can be the
// target of a tray retrieval.
type systemItem struct {
	id          string
	name        string
	description string
	device      models.DeviceKind
	hasDevice   bool
	direct      bool // SCARA demo path: retrieval bypasses the guard checks
}

func (s systemItem) Title() string       { return s.name }
func (s systemItem) Description() string { return s.description }
func (s systemItem) FilterValue() string { return s.name }

var dashboardSystems = []list.Item{
	systemItem{id: "amr", name: "AMR", description: "Autonomous Mobile Robots"},
	systemItem{id: "scara", name: "SCARA", description: "Selective Compliance Robot Arm", device: models.DeviceScara, hasDevice: true, direct: true},
	systemItem{id: "bay-door", name: "BAY DOOR", description: "Automated Bay Door Control", device: models.DeviceBayDoor, hasDevice: true},
	systemItem{id: "scissor-lift", name: "SCISSOR LIFT", description: "Vertical Material Handling", device: models.DeviceShuttle, hasDevice: true},
	systemItem{id: "locker", name: "LOCKER", description: "Smart Storage Solutions", device: models.DeviceLocker, hasDevice: true},
	systemItem{id: "conveyor", name: "CONVEYOR", description: "Belt Conveyor System", device: models.DeviceConveyor, hasDevice: true},
}

type DashboardModel struct {
	app     *App
	systems list.Model
	spinner spinner.Model

	panelOpen bool
	system    systemItem

	trays        []models.Tray
	trayCursor   int
	loadingTrays bool

	status *models.DeviceStatus

	// pollTag identifies the currently open panel's poll loop. Closing a
	// panel (or opening another) bumps the tag, so ticks and fetch results
	// from the old panel are dropped on arrival. At most one loop is live
	// at a time.
	pollTag int

	requesting bool
	notice     string
}

type panelTraysMsg struct {
	trays []models.Tray
	err   error
}

type statusTickMsg struct {
	tag int
}

type deviceStatusMsg struct {
	tag    int
	status *models.DeviceStatus
	err    error
}

type retrievalDoneMsg struct {
	outcome services.Outcome
	err     error
}

type deviceCommandMsg struct {
	action string
	err    error
}

func NewDashboardModel(app *App) DashboardModel {
	l := list.New(dashboardSystems, list.NewDefaultDelegate(), 60, 18)
	l.Title = "Select a system to control"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return DashboardModel{
		app:     app,
		systems: l,
		spinner: s,
	}
}

func (m DashboardModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Teardown cancels any running status poll. Called when navigating away.
func (m DashboardModel) Teardown() DashboardModel {
	m.pollTag++
	m.panelOpen = false
	m.status = nil
	m.notice = ""
	return m
}

func loadPanelTrays(app *App) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		trays, err := app.Client.Tray.List(ctx, models.TrayStatusActive)
		return panelTraysMsg{trays: trays, err: err}
	}
}

func fetchDeviceStatus(app *App, device models.Device, tag int) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		status, err := app.Client.PubSub.Latest(ctx, device.Topic)
		return deviceStatusMsg{tag: tag, status: status, err: err}
	}
}

func scheduleStatusTick(interval time.Duration, tag int) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return statusTickMsg{tag: tag}
	})
}

func requestTray(app *App, system systemItem, trayID string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if system.direct {
			err := app.Client.Retrieval.DirectScara(ctx)
			return retrievalDoneMsg{outcome: services.OutcomeRetrieved, err: err}
		}
		outcome, err := app.Client.Retrieval.Request(ctx, trayID, system.id)
		return retrievalDoneMsg{outcome: outcome, err: err}
	}
}

func publishDeviceCommand(app *App, device models.Device, action string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		err := app.Client.PubSub.Publish(ctx, device.Topic, models.DeviceMessage{Action: action})
		return deviceCommandMsg{action: action, err: err}
	}
}

func (m DashboardModel) openPanel(system systemItem) (DashboardModel, tea.Cmd) {
	// Opening a panel cancels the previous panel's poll before starting
	m.pollTag++
	m.panelOpen = true
	m.system = system
	m.trays = nil
	m.trayCursor = 0
	m.loadingTrays = true
	m.status = nil
	m.notice = ""

	cmds := []tea.Cmd{loadPanelTrays(m.app)}
	if system.hasDevice {
		// One immediate fetch; live devices keep refreshing from there
		cmds = append(cmds, fetchDeviceStatus(m.app, models.Devices[system.device], m.pollTag))
	}
	return m, tea.Batch(cmds...)
}

func (m DashboardModel) closePanel() DashboardModel {
	m.pollTag++
	m.panelOpen = false
	m.status = nil
	m.notice = ""
	return m
}

func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case panelTraysMsg:
		m.loadingTrays = false
		if msg.err != nil {
			m.notice = fmt.Sprintf("Failed to load trays: %v", msg.err)
			return m, nil
		}
		m.trays = msg.trays
		if m.trayCursor >= len(m.trays) {
			m.trayCursor = 0
		}
		return m, nil

	case statusTickMsg:
		if msg.tag != m.pollTag || !m.panelOpen {
			// Stale tick from a closed panel
			return m, nil
		}
		return m, fetchDeviceStatus(m.app, models.Devices[m.system.device], msg.tag)

	case deviceStatusMsg:
		if msg.tag != m.pollTag || !m.panelOpen {
			return m, nil
		}
		if msg.err != nil {
			// Swallowed: last good status stays on screen
			logDebug("status poll %s: %v", m.system.id, msg.err)
		} else if msg.status != nil {
			m.status = msg.status
		}
		device := models.Devices[m.system.device]
		if device.Live {
			return m, scheduleStatusTick(m.app.StatusPollInterval, msg.tag)
		}
		return m, nil

	case retrievalDoneMsg:
		m.requesting = false
		if msg.err != nil {
			m.notice = fmt.Sprintf("Retrieval failed: %v", msg.err)
			return m, nil
		}
		m.notice = strings.ToUpper(msg.outcome.String()[:1]) + msg.outcome.String()[1:]
		return m, nil

	case deviceCommandMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("Command %q failed: %v", msg.action, msg.err)
			return m, nil
		}
		m.notice = fmt.Sprintf("Sent %q to %s", msg.action, m.system.name)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.systems.SetSize(msg.Width, 18)
		return m, nil

	case tea.KeyMsg:
		if m.panelOpen {
			return m.updatePanelKeys(msg)
		}

		switch msg.String() {
		case "enter":
			if sel, ok := m.systems.SelectedItem().(systemItem); ok {
				return m.openPanel(sel)
			}
			return m, nil
		case "s":
			return m, navigate(ViewStations)
		case "L":
			if err := m.app.Session.Logout(); err != nil {
				m.notice = fmt.Sprintf("Logout failed: %v", err)
				return m, nil
			}
			return m, navigate(ViewLogin)
		}
	}

	if !m.panelOpen {
		var cmd tea.Cmd
		m.systems, cmd = m.systems.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m DashboardModel) updatePanelKeys(msg tea.KeyMsg) (DashboardModel, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return m.closePanel(), nil

	case "up", "k":
		if m.trayCursor > 0 {
			m.trayCursor--
		}
		return m, nil

	case "down", "j":
		if m.trayCursor < len(m.trays)-1 {
			m.trayCursor++
		}
		return m, nil

	case "enter":
		if m.requesting {
			return m, nil
		}
		if m.system.direct {
			m.requesting = true
			m.notice = "Requesting tray..."
			return m, requestTray(m.app, m.system, "")
		}
		if len(m.trays) == 0 {
			m.notice = "No tray selected"
			return m, nil
		}
		m.requesting = true
		m.notice = "Requesting tray..."
		return m, requestTray(m.app, m.system, m.trays[m.trayCursor].TrayID)
	}

	// Number keys trigger device command actions
	if m.system.hasDevice {
		device := models.Devices[m.system.device]
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(device.Actions) {
			return m, publishDeviceCommand(m.app, device, device.Actions[n-1])
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	header := RenderHeader(m.app.Session.UserName())

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		MarginTop(1).
		MarginLeft(2)

	if !m.panelOpen {
		footer := helpStyle.Render("enter: open panel · s: stations · L: logout · ctrl+c: quit")
		return header + "\n" + m.systems.View() + "\n" + footer
	}

	return header + "\n" + m.panelView() + "\n" +
		helpStyle.Render("enter: request tray · 1-9: device command · esc: back")
}

func (m DashboardModel) panelView() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true).
		MarginLeft(2)

	panelStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(0, 1).
		Margin(1, 0, 0, 2)

	dim := lipgloss.NewStyle().Foreground(dimColor)

	// Tray picker (left)
	var trayLines strings.Builder
	trayLines.WriteString("Storage Trays\n\n")
	switch {
	case m.loadingTrays:
		trayLines.WriteString(fmt.Sprintf("%s loading trays...\n", m.spinner.View()))
	case len(m.trays) == 0:
		trayLines.WriteString(dim.Render("no active trays") + "\n")
	default:
		for i, tray := range m.trays {
			cursor := "  "
			if i == m.trayCursor {
				cursor = "> "
			}
			line := fmt.Sprintf("%s%s  %.1fkg · %d dividers", cursor, tray.TrayID, tray.TrayWeight, tray.TrayDivider)
			if i == m.trayCursor {
				line = lipgloss.NewStyle().Foreground(accentColor).Render(line)
			}
			trayLines.WriteString(line + "\n")
		}
	}

	// Device panel (right)
	var deviceLines strings.Builder
	if m.system.hasDevice {
		device := models.Devices[m.system.device]
		deviceLines.WriteString(fmt.Sprintf("Device · topic %q\n\n", device.Topic))
		if m.status != nil {
			deviceLines.WriteString(fmt.Sprintf("last action: %s\n", m.status.Message.Action))
			deviceLines.WriteString(dim.Render("at "+m.status.CreatedAt) + "\n")
		} else {
			deviceLines.WriteString(dim.Render("no status yet") + "\n")
		}
		deviceLines.WriteString("\nCommands\n")
		for i, action := range device.Actions {
			deviceLines.WriteString(fmt.Sprintf("  %d: %s\n", i+1, action))
		}
		if !device.Live {
			deviceLines.WriteString("\n" + dim.Render("status fetched once on open") + "\n")
		}
	} else {
		deviceLines.WriteString(dim.Render("retrieval only, no device telemetry") + "\n")
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(trayLines.String()),
		panelStyle.Render(deviceLines.String()),
	)

	out := titleStyle.Render(m.system.name) + "\n" + body
	if m.notice != "" {
		noticeStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#02BF87")).
			MarginLeft(2).
			MarginTop(1)
		out += "\n" + noticeStyle.Render(m.notice)
	}
	return out
}
