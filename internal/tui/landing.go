package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type landingModel struct {
	notice string
}

func newLandingModel() landingModel {
	return landingModel{}
}

func (m landingModel) Update(msg tea.Msg) (landingModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "s":
			return m, navigate(viewSignup)
		case "l", "enter":
			return m, navigate(viewLogin)
		}
	}
	return m, nil
}

var landingFeatures = []string{
	"Weekly menus built around your diet",
	"Cuisines and meals you actually like",
	"Cooking times that fit your day",
	"Grocery lists from your plan",
}

func (m landingModel) View() string {
	var b strings.Builder
	b.WriteString(" " + titleStyle.Render("Plan your meals, effortlessly.") + "\n")
	b.WriteString(" " + dimStyle.Render("Personalised weekly meal plans from your dietary preferences.") + "\n\n")
	for _, f := range landingFeatures {
		b.WriteString("   " + accentStyle.Render("•") + " " + normalStyle.Render(f) + "\n")
	}
	b.WriteString("\n " + helpEntry("s", "get started") + "   " + helpEntry("l", "I already have an account") + "\n")
	if m.notice != "" {
		b.WriteString("\n " + dimStyle.Render(m.notice) + "\n")
	}
	return b.String()
}
