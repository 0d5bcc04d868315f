package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mealplanner/mealplanner/pkg/domain"
)

const (
	loginUsername = iota
	loginPassword
)

type loginDoneMsg struct {
	username string
	token    *domain.Token
	err      error
}

type loginModel struct {
	svc        services
	form       form
	submitting bool
	notice     string
	err        string
}

func newLoginModel(svc services) loginModel {
	return loginModel{
		svc: svc,
		form: newForm(
			formField{label: "username"},
			formField{label: "password", secret: true},
		),
	}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = errorText(msg.err)
			return m, nil
		}
		if err := m.svc.store.SetSession(msg.token.AccessToken, msg.username); err != nil {
			m.svc.logger.Error("store session", "error", err)
			m.err = "could not save your session: " + err.Error()
			return m, nil
		}
		return m, navigate(viewDashboard)

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		if msg.String() == "esc" {
			return m, navigate(viewLanding)
		}
		m.err = ""
		var submit bool
		m.form, submit = m.form.update(msg)
		if submit {
			return m.submit()
		}
	}
	return m, nil
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	creds := domain.Credentials{
		Username: strings.TrimSpace(m.form.value(loginUsername)),
		Password: m.form.value(loginPassword),
	}
	if creds.Username == "" || creds.Password == "" {
		m.err = "username and password are required"
		return m, nil
	}

	m.submitting = true
	m.notice = ""
	c := m.svc.client
	return m, func() tea.Msg {
		tok, err := c.Login(context.Background(), creds)
		return loginDoneMsg{username: creds.Username, token: tok, err: err}
	}
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString(" " + titleStyle.Render("Welcome back") + "\n")
	b.WriteString(" " + dimStyle.Render("Log in to your MealPlanner account.") + "\n\n")
	b.WriteString(m.form.View())
	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString(" " + dimStyle.Render("logging in..."))
	case m.err != "":
		b.WriteString(" " + errorStyle.Render(m.err))
	case m.notice != "":
		b.WriteString(" " + successStyle.Render(m.notice))
	}
	return b.String()
}
