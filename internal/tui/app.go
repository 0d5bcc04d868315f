// Package tui is the MealPlanner terminal UI: a single root Bubble Tea model
// that switches between the landing, signup, login, dashboard and
// preferences views.
package tui

import (
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mealplanner/mealplanner/internal/session"
	"github.com/mealplanner/mealplanner/pkg/client"
	"github.com/mealplanner/mealplanner/pkg/domain"
)

type view int

const (
	viewLanding view = iota
	viewSignup
	viewLogin
	viewDashboard
	viewPreferences
)

func (v view) String() string {
	switch v {
	case viewLanding:
		return "landing"
	case viewSignup:
		return "signup"
	case viewLogin:
		return "login"
	case viewDashboard:
		return "dashboard"
	case viewPreferences:
		return "preferences"
	}
	return "unknown"
}

// services are the collaborators every view may use.
type services struct {
	client *client.Client
	store  *session.Store
	logger *slog.Logger
}

// navigateMsg replaces the current view.
type navigateMsg struct {
	to       view
	notice   string
	username string             // prefill for the login form
	prefs    *domain.Preferences // prefill for the preferences form
}

func navigate(to view) tea.Cmd {
	return func() tea.Msg { return navigateMsg{to: to} }
}

// logoutMsg clears the session and returns to the landing page.
type logoutMsg struct {
	reason string
}

func logout(reason string) tea.Cmd {
	return func() tea.Msg { return logoutMsg{reason: reason} }
}

// App is the root Bubbletea model.
type App struct {
	svc       services
	view      view
	landing   landingModel
	signup    signupModel
	login     loginModel
	dashboard dashboardModel
	prefs     preferencesModel
	width     int
	height    int
	frame     int // logo shimmer animation frame
}

// NewApp creates the TUI. If store already holds a session the app opens on
// the dashboard, otherwise on the landing page.
func NewApp(c *client.Client, store *session.Store, logger *slog.Logger) App {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	svc := services{client: c, store: store, logger: logger}
	a := App{
		svc:     svc,
		view:    viewLanding,
		landing: newLandingModel(),
		signup:  newSignupModel(svc),
		login:   newLoginModel(svc),
		prefs:   newPreferencesModel(svc, nil),
	}
	a.dashboard = newDashboardModel(svc)
	if store.IsAuthenticated() {
		a.view = viewDashboard
	}
	return a
}

func (a App) Init() tea.Cmd {
	if a.view == viewDashboard {
		return tea.Batch(shimmerTickCmd(), a.dashboard.Init())
	}
	return shimmerTickCmd()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.dashboard.width = msg.Width
		return a, nil

	case shimmerTickMsg:
		a.frame++
		a.dashboard.frame = a.frame
		return a, shimmerTickCmd()

	case navigateMsg:
		return a.navigate(msg)

	case logoutMsg:
		return a.logout(msg.reason)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if !a.isEditing() {
				return a, tea.Quit
			}
		}
	}

	// Everything else goes to the active view only; results that arrive for
	// a view that is no longer shown are dropped.
	var cmd tea.Cmd
	switch a.view {
	case viewLanding:
		a.landing, cmd = a.landing.Update(msg)
	case viewSignup:
		a.signup, cmd = a.signup.Update(msg)
	case viewLogin:
		a.login, cmd = a.login.Update(msg)
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case viewPreferences:
		a.prefs, cmd = a.prefs.Update(msg)
	}
	return a, cmd
}

func (a App) navigate(msg navigateMsg) (tea.Model, tea.Cmd) {
	a.svc.logger.Debug("navigate", "from", a.view.String(), "to", msg.to.String())
	a.view = msg.to
	switch msg.to {
	case viewLanding:
		a.landing = newLandingModel()
		a.landing.notice = msg.notice
		return a, nil
	case viewSignup:
		a.signup = newSignupModel(a.svc)
		return a, nil
	case viewLogin:
		a.login = newLoginModel(a.svc)
		a.login.notice = msg.notice
		if msg.username != "" {
			a.login.form.setValue(loginUsername, msg.username)
			a.login.form.focus = loginPassword
		}
		return a, nil
	case viewDashboard:
		a.dashboard = a.dashboard.reset()
		a.dashboard.notice = msg.notice
		return a, a.dashboard.Init()
	case viewPreferences:
		a.prefs = newPreferencesModel(a.svc, msg.prefs)
		return a, nil
	}
	return a, nil
}

func (a App) logout(reason string) (tea.Model, tea.Cmd) {
	if err := a.svc.store.Clear(); err != nil {
		a.svc.logger.Error("clear session", "error", err)
	}
	a.svc.logger.Info("logged out", "reason", reason)
	a.dashboard = a.dashboard.reset()
	a.prefs = newPreferencesModel(a.svc, nil)
	a.view = viewLanding
	a.landing = newLandingModel()
	return a, nil
}

// isEditing reports whether the active view is capturing typed text, in
// which case global single-letter keys are passed through.
func (a App) isEditing() bool {
	switch a.view {
	case viewSignup, viewLogin, viewPreferences:
		return true
	}
	return false
}

func (a App) View() string {
	header := centerLine(renderShimmerLogo(a.frame), a.width)

	var body, help string
	switch a.view {
	case viewLanding:
		body = a.landing.View()
		help = helpBar("s", "sign up", "l", "log in", "q", "quit")
	case viewSignup:
		body = a.signup.View()
		help = helpBar("tab", "next", "enter", "submit", "esc", "back")
	case viewLogin:
		body = a.login.View()
		help = helpBar("tab", "next", "enter", "log in", "esc", "back")
	case viewDashboard:
		body = a.dashboard.View()
		help = a.dashboard.helpKeys()
	case viewPreferences:
		body = a.prefs.View()
		help = helpBar("tab", "next", "h/l", "diet", "ctrl+s", "save", "esc", "cancel")
	}

	// Chrome budget: header(1) + blank(1) + help(1)
	const chrome = 3
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return header + "\n\n" + body + "\n" + help
}
