package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mealplanner/mealplanner/pkg/client"
	"github.com/mealplanner/mealplanner/pkg/domain"
)

const (
	prefDiet = iota
	prefCuisine
	prefMeals
	prefCookingTime
	prefHealth
)

type prefsSavedMsg struct {
	err error
}

type preferencesModel struct {
	svc      services
	form     form
	isUpdate bool
	saving   bool
	err      string
}

// newPreferencesModel builds the form, prefilled from existing when the user
// is updating rather than setting up.
func newPreferencesModel(svc services, existing *domain.Preferences) preferencesModel {
	m := preferencesModel{
		svc: svc,
		form: newForm(
			formField{label: "diet type", choices: domain.DietTypes},
			formField{label: "cuisines", hint: "indian, italian, thai"},
			formField{label: "meals", hint: "breakfast, lunch, dinner"},
			formField{label: "cooking time", hint: "30 minutes"},
			formField{label: "health", hint: "diabetes, low-sodium"},
		),
	}
	if existing != nil {
		m.isUpdate = true
		m.form.setValue(prefDiet, existing.DietType)
		m.form.setValue(prefCuisine, strings.Join(existing.Cuisine, ", "))
		m.form.setValue(prefMeals, strings.Join(existing.Meals, ", "))
		m.form.setValue(prefCookingTime, existing.CookingTime)
		m.form.setValue(prefHealth, strings.Join(existing.HealthConditions, ", "))
	}
	return m
}

func (m preferencesModel) Update(msg tea.Msg) (preferencesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case prefsSavedMsg:
		m.saving = false
		if client.IsUnauthorized(msg.err) {
			return m, logout("session rejected by server")
		}
		if msg.err != nil {
			m.err = errorText(msg.err)
			return m, nil
		}
		return m, func() tea.Msg {
			return navigateMsg{to: viewDashboard, notice: "Preferences saved."}
		}

	case tea.KeyMsg:
		if m.saving {
			return m, nil
		}
		if msg.String() == "esc" {
			return m, navigate(viewDashboard)
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

func (m preferencesModel) preferences() domain.Preferences {
	return domain.Preferences{
		DietType:         m.form.value(prefDiet),
		Cuisine:          domain.SplitList(m.form.value(prefCuisine)),
		Meals:            domain.SplitList(m.form.value(prefMeals)),
		CookingTime:      strings.TrimSpace(m.form.value(prefCookingTime)),
		HealthConditions: domain.SplitList(m.form.value(prefHealth)),
	}
}

func (m preferencesModel) submit() (preferencesModel, tea.Cmd) {
	prefs := m.preferences()
	if !domain.ValidDietType(prefs.DietType) {
		m.err = "choose a diet type (h/l)"
		return m, nil
	}
	token, ok := m.svc.store.Token()
	if !ok {
		return m, logout("no stored session")
	}

	m.saving = true
	c := m.svc.client
	return m, func() tea.Msg {
		_, err := c.SavePreferences(context.Background(), prefs, token)
		return prefsSavedMsg{err: err}
	}
}

func (m preferencesModel) View() string {
	title := "Set up your dietary preferences"
	if m.isUpdate {
		title = "Update your dietary preferences"
	}
	var b strings.Builder
	b.WriteString(" " + titleStyle.Render(title) + "\n")
	b.WriteString(" " + dimStyle.Render("Lists are comma separated.") + "\n\n")
	b.WriteString(m.form.View())
	b.WriteString("\n")
	if m.saving {
		b.WriteString(" " + dimStyle.Render("saving..."))
	} else if m.err != "" {
		b.WriteString(" " + errorStyle.Render(m.err))
	}
	return b.String()
}
