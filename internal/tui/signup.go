package tui

import (
	"context"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mealplanner/mealplanner/pkg/domain"
)

const (
	signupUsername = iota
	signupEmail
	signupPassword
)

// minPasswordLen is the shortest password the signup form accepts.
const minPasswordLen = 6

type registerDoneMsg struct {
	username string
	err      error
}

type signupModel struct {
	svc        services
	form       form
	submitting bool
	err        string
}

func newSignupModel(svc services) signupModel {
	return signupModel{
		svc: svc,
		form: newForm(
			formField{label: "username"},
			formField{label: "email", hint: "you@example.com"},
			formField{label: "password", secret: true},
		),
	}
}

func (m signupModel) Update(msg tea.Msg) (signupModel, tea.Cmd) {
	switch msg := msg.(type) {
	case registerDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = errorText(msg.err)
			return m, nil
		}
		username := msg.username
		return m, func() tea.Msg {
			return navigateMsg{to: viewLogin, username: username, notice: "Account created! Log in to continue."}
		}

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

// validateSignup returns a user-facing problem with u, or "".
func validateSignup(u domain.User) string {
	switch {
	case u.Username == "":
		return "username is required"
	case u.Email == "":
		return "email is required"
	case !strings.Contains(u.Email, "@"):
		return "email address looks invalid"
	case utf8.RuneCountInString(u.Password) < minPasswordLen:
		return "password must be at least 6 characters"
	}
	return ""
}

func (m signupModel) submit() (signupModel, tea.Cmd) {
	user := domain.User{
		Username: strings.TrimSpace(m.form.value(signupUsername)),
		Email:    strings.TrimSpace(m.form.value(signupEmail)),
		Password: m.form.value(signupPassword),
	}
	if problem := validateSignup(user); problem != "" {
		m.err = problem
		return m, nil
	}

	m.submitting = true
	c := m.svc.client
	return m, func() tea.Msg {
		_, err := c.Register(context.Background(), user)
		return registerDoneMsg{username: user.Username, err: err}
	}
}

func (m signupModel) View() string {
	var b strings.Builder
	b.WriteString(" " + titleStyle.Render("Create your account") + "\n")
	b.WriteString(" " + dimStyle.Render("Start planning meals in under a minute.") + "\n\n")
	b.WriteString(m.form.View())
	b.WriteString("\n")
	if m.submitting {
		b.WriteString(" " + dimStyle.Render("creating account..."))
	} else if m.err != "" {
		b.WriteString(" " + errorStyle.Render(m.err))
	}
	return b.String()
}
