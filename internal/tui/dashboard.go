package tui

import (
	"context"
	"net/http"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mealplanner/mealplanner/pkg/client"
	"github.com/mealplanner/mealplanner/pkg/domain"
)

// dashboardLoadedMsg carries the results of the dashboard's two fetches.
// seq ties it to the load that issued it.
type dashboardLoadedMsg struct {
	seq          int
	protected    *domain.ProtectedData
	protectedErr error
	prefs        *domain.Preferences
	prefsErr     error
}

type copyResultMsg struct {
	err error
}

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

type dashboardModel struct {
	svc       services
	seq       int
	loading   bool
	protected *domain.ProtectedData
	prefs     *domain.Preferences
	notice    string
	status    string
	frame     int
	width     int
}

func newDashboardModel(svc services) dashboardModel {
	return dashboardModel{svc: svc, loading: true, seq: 1}
}

// reset clears loaded state and invalidates in-flight loads.
func (m dashboardModel) reset() dashboardModel {
	return dashboardModel{svc: m.svc, loading: true, seq: m.seq + 1, frame: m.frame, width: m.width}
}

func (m dashboardModel) hasPreferences() bool {
	return m.prefs != nil
}

func (m dashboardModel) Init() tea.Cmd {
	return m.load()
}

// load fetches the protected resource and the preferences, one after the
// other, with the stored token.
func (m dashboardModel) load() tea.Cmd {
	token, ok := m.svc.store.Token()
	if !ok {
		return logout("no stored session")
	}
	c := m.svc.client
	seq := m.seq
	return func() tea.Msg {
		ctx := context.Background()
		msg := dashboardLoadedMsg{seq: seq}
		msg.protected, msg.protectedErr = c.GetProtectedData(ctx, token)
		msg.prefs, msg.prefsErr = c.GetPreferences(ctx, token)
		return msg
	}
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		return m.applyLoad(msg)

	case copyResultMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
		} else {
			m.status = "preferences copied to clipboard"
		}
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		m.status = ""
		switch msg.String() {
		case "p", "enter":
			prefs := m.prefs
			return m, func() tea.Msg { return navigateMsg{to: viewPreferences, prefs: prefs} }
		case "y":
			if m.prefs == nil {
				m.status = "no preferences to copy yet"
				return m, nil
			}
			text := m.prefs.Summary()
			return m, func() tea.Msg {
				return copyResultMsg{err: writeClipboard(text)}
			}
		case "r":
			m = m.reset()
			return m, m.load()
		case "o":
			return m, logout("user logout")
		}
	}
	return m, nil
}

// applyLoad decides what each fetch failure means. A rejected token (401 or
// 403) on either call ends the session; any other protected-data failure is
// ignored, and any other preferences failure means "not set up yet".
func (m dashboardModel) applyLoad(msg dashboardLoadedMsg) (dashboardModel, tea.Cmd) {
	if client.IsUnauthorized(msg.protectedErr) || client.IsUnauthorized(msg.prefsErr) {
		return m, logout("session rejected by server")
	}
	m.loading = false
	if msg.protectedErr != nil {
		m.svc.logger.Info("protected endpoint not available", "error", msg.protectedErr)
	} else {
		m.protected = msg.protected
	}
	if msg.prefsErr != nil {
		if !client.IsStatus(msg.prefsErr, http.StatusNotFound) {
			m.svc.logger.Warn("preferences unavailable", "error", msg.prefsErr)
		}
		m.prefs = nil
	} else {
		m.prefs = msg.prefs
	}
	return m, nil
}

func (m dashboardModel) username() string {
	user, _ := m.svc.store.User()
	return user
}

func (m dashboardModel) helpKeys() string {
	if m.loading {
		return helpBar("q", "quit")
	}
	return helpBar("p", "preferences", "y", "copy", "r", "reload", "o", "logout", "q", "quit")
}

type dashboardCard struct {
	kind   string
	title  string
	desc   string
	action string
}

var comingSoon = []string{
	"AI-powered menu generation",
	"Recipe video recommendations",
	"Nutritional analysis",
	"Smart grocery optimization",
}

func (m dashboardModel) cards() []dashboardCard {
	prefDesc, prefAction := "Set up your dietary preferences", "[p] Set Up"
	if m.hasPreferences() {
		prefDesc, prefAction = "Update your dietary preferences", "[p] Update"
	}
	return []dashboardCard{
		{"menu", "Generate Menu", "Create your personalized weekly meal plan", "coming soon"},
		{"preferences", "My Preferences", prefDesc, prefAction},
		{"grocery", "Grocery List", "View and download shopping list", "coming soon"},
		{"favorites", "Favorites", "Your saved recipes and meals", "coming soon"},
	}
}

func (m dashboardModel) View() string {
	if m.loading {
		dots := strings.Repeat(".", m.frame/4%4)
		return "\n " + dimStyle.Render("Loading your dashboard"+dots)
	}

	user := m.username()
	var b strings.Builder
	b.WriteString(" " + dimStyle.Render("Welcome, "+user+"!") + "\n\n")
	b.WriteString(" " + titleStyle.Render("Welcome back, "+user+"!") + "\n")
	b.WriteString(" " + normalStyle.Render("Ready to plan some delicious meals?") + "\n")
	b.WriteString(" " + successStyle.Render("✓ Successfully logged in! Your meal planning journey starts here.") + "\n\n")

	cardWidth := 28
	if m.width > 0 && m.width < 4*(cardWidth+4) {
		cardWidth = max(20, m.width/2-4)
	}
	var rendered []string
	for _, c := range m.cards() {
		action := comingSoonStyle.Render(c.action)
		if c.kind == "preferences" {
			action = accentStyle.Render(c.action)
		}
		body := titleStyle.Render(c.title) + "\n" + dimStyle.Render(c.desc) + "\n" + action
		rendered = append(rendered, CardStyle(c.kind, cardWidth).Render(body))
	}
	if m.width > 0 && m.width < 4*(cardWidth+4) {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered[0], rendered[1]) + "\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered[2], rendered[3]) + "\n")
	} else {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...) + "\n")
	}

	if m.prefs != nil {
		b.WriteString("\n " + titleStyle.Render("Your preferences") + "\n")
		for _, line := range strings.Split(strings.TrimRight(m.prefs.Summary(), "\n"), "\n") {
			b.WriteString("   " + normalStyle.Render(line) + "\n")
		}
	}

	b.WriteString("\n " + titleStyle.Render("Coming Soon Features") + "\n")
	for _, f := range comingSoon {
		b.WriteString("   " + successStyle.Render("✓") + " " + normalStyle.Render(f) + "\n")
	}

	if m.notice != "" {
		b.WriteString("\n " + successStyle.Render(m.notice))
	}
	if m.status != "" {
		b.WriteString("\n " + dimStyle.Render(m.status))
	}
	return b.String()
}
