package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

func printHelp(w io.Writer) {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fb923c")).
		Bold(true).
		Render("M E A L P L A N N E R")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Personalised weekly meal plans from your dietary preferences.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"mealplanner", "Open the app (sign up, log in, dashboard)"},
		{"mealplanner whoami", "Show the logged-in user"},
		{"mealplanner logout", "Clear your session"},
		{"mealplanner docs", "Open the API docs in your browser"},
		{"mealplanner --version", "Show version"},
		{"mealplanner help", "You are here"},
	}

	fmt.Fprintf(w, "\n  %s\n\n  %s\n\n  Commands:\n", title, tagline)
	for _, c := range commands {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-22s", c.cmd)), descStyle.Render(c.desc))
	}
	env := descStyle.Render("Settings: MEALPLANNER_API_URL, MEALPLANNER_HOME, MEALPLANNER_LOG_LEVEL,\n  MEALPLANNER_LOG_FORMAT, MEALPLANNER_HTTP_TIMEOUT (or a .env file)")
	fmt.Fprintf(w, "\n  %s\n\n", env)
}
