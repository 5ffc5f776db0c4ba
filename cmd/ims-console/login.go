package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Lovable-Leapmile/ims-robot-console/models"
)

type LoginModel struct {
	app            *App
	form           *huh.Form
	lg             *lipgloss.Renderer
	spinner        spinner.Model
	authenticating bool
	started        bool
	status         string

	baseURL  string
	phone    string
	password string
}

type loginResultMsg struct {
	resp *models.ValidateResponse
	err  error
}

func NewLoginModel(app *App) LoginModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := LoginModel{
		app:      app,
		lg:       lipgloss.DefaultRenderer(),
		spinner:  s,
		baseURL:  app.Config.BaseURL,
		phone:    "1234567890",
		password: "567890",
	}

	theme := huh.ThemeCharm()
	theme.Focused.Base = theme.Focused.Base.BorderForeground(accentColor)
	theme.Focused.Title = theme.Focused.Title.Foreground(accentColor)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("base_url").
				Title("Base URL").
				Description("Robot-manager backend (blank keeps the default)").
				Value(&m.baseURL),

			huh.NewInput().
				Key("phone").
				Title("Phone Number").
				Value(&m.phone).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("phone number is required")
					}
					return nil
				}),

			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.password).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("password is required")
					}
					return nil
				}),

			huh.NewConfirm().
				Key("submit").
				Title("Sign In").
				Affirmative("Sign In").
				Negative(""),
		),
	).
		WithWidth(50).
		WithShowHelp(true).
		WithShowErrors(true).
		WithTheme(theme)

	return m
}

func (m LoginModel) Init() tea.Cmd {
	return tea.Batch(m.form.Init(), m.spinner.Tick)
}

func validateLogin(app *App, phone, password string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		resp, err := app.Client.Auth.Validate(ctx, phone, password)
		return loginResultMsg{resp: resp, err: err}
	}
}

func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.authenticating = false
		m.started = false
		if msg.err != nil {
			logDebug("login failed: %v", msg.err)
			m.status = "Invalid credentials, please check your phone number and password"
			m.form = NewLoginModel(m.app).form
			return m, m.form.Init()
		}

		if err := m.app.Session.Login(msg.resp.Token, msg.resp.UserName, msg.resp.UserID); err != nil {
			m.status = fmt.Sprintf("Could not persist session: %v", err)
			m.form = NewLoginModel(m.app).form
			return m, m.form.Init()
		}
		return m, navigate(ViewDashboard)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd

	// Process the form
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
		cmds = append(cmds, cmd)
	}

	if m.form.State == huh.StateCompleted && !m.started {
		m.started = true
		m.authenticating = true
		m.status = ""

		if url := strings.TrimSpace(m.form.GetString("base_url")); url != m.app.Config.BaseURL {
			m.app.SetBaseURL(url)
		}

		phone := m.form.GetString("phone")
		password := m.form.GetString("password")
		cmds = append(cmds, validateLogin(m.app, phone, password))
	}

	return m, tea.Batch(cmds...)
}

func (m LoginModel) View() string {
	header := RenderHeader("")

	if m.authenticating {
		busy := m.lg.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC")).
			MarginLeft(2).
			Render(fmt.Sprintf("%s Signing in...", m.spinner.View()))
		return header + "\n" + busy + "\n"
	}

	body := m.lg.NewStyle().MarginLeft(2).Render(m.form.View())

	out := header + "\n" + body
	if m.status != "" {
		errStyle := m.lg.NewStyle().
			Foreground(lipgloss.Color("#FF5F87")).
			MarginLeft(2).
			MarginTop(1)
		out += "\n" + errStyle.Render(m.status)
	}

	footer := m.lg.NewStyle().
		Foreground(lipgloss.Color("240")).
		MarginTop(1).
		MarginLeft(2).
		Render("Exhibition Demo Mode · ctrl+c: quit")

	return out + "\n" + footer
}
