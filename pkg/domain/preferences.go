package domain

import "strings"

// Preferences are a user's dietary preferences.
type Preferences struct {
	DietType         string   `json:"diet_type"`
	Cuisine          []string `json:"cuisine"`
	Meals            []string `json:"meals"`
	CookingTime      string   `json:"cooking_time"`
	HealthConditions []string `json:"health_conditions"`
}

// DietTypes lists the diet types offered by the preferences form.
var DietTypes = []string{"veg", "non-veg", "vegan", "eggetarian"}

// ValidDietType reports whether d is one of DietTypes.
func ValidDietType(d string) bool {
	for _, t := range DietTypes {
		if t == d {
			return true
		}
	}
	return false
}

// Summary renders the preferences as a short multi-line text block.
func (p Preferences) Summary() string {
	var b strings.Builder
	line := func(label, value string) {
		if value == "" {
			value = "-"
		}
		b.WriteString(label + ": " + value + "\n")
	}
	line("diet", p.DietType)
	line("cuisine", strings.Join(p.Cuisine, ", "))
	line("meals", strings.Join(p.Meals, ", "))
	line("cooking time", p.CookingTime)
	line("health", strings.Join(p.HealthConditions, ", "))
	return b.String()
}

// SplitList splits a comma-separated field into trimmed, non-empty items.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
