package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// formField is one labelled input of a form. Fields with choices are cycled
// with h/l instead of typed into.
type formField struct {
	label   string
	value   string
	secret  bool
	choices []string
	hint    string
}

// form is the shared keyboard-driven input list used by the signup, login
// and preferences views.
type form struct {
	fields []formField
	focus  int
}

func newForm(fields ...formField) form {
	return form{fields: fields}
}

func (f form) value(i int) string {
	return f.fields[i].value
}

func (f *form) setValue(i int, v string) {
	f.fields[i].value = v
}

func (f form) onLastField() bool {
	return f.focus == len(f.fields)-1
}

// update applies a key to the focused field. It reports submit=true when the
// user asked to submit (ctrl+s anywhere, or enter on the last field).
func (f form) update(msg tea.KeyMsg) (form, bool) {
	n := len(f.fields)
	switch key := msg.String(); key {
	case "ctrl+s":
		return f, true
	case "tab", "down":
		f.focus = (f.focus + 1) % n
	case "shift+tab", "up":
		f.focus = (f.focus - 1 + n) % n
	case "enter":
		if f.onLastField() {
			return f, true
		}
		f.focus++
	default:
		field := &f.fields[f.focus]
		if len(field.choices) > 0 {
			if key == "h" || key == "l" || key == "left" || key == "right" {
				field.value = cycleChoice(field.choices, field.value, key == "l" || key == "right")
			}
			return f, false
		}
		field.value = editRune(field.value, key)
	}
	return f, false
}

func cycleChoice(choices []string, current string, forward bool) string {
	idx := -1
	for i, c := range choices {
		if c == current {
			idx = i
			break
		}
	}
	switch {
	case idx < 0 && forward:
		return choices[0]
	case idx < 0:
		return choices[len(choices)-1]
	case forward:
		return choices[(idx+1)%len(choices)]
	default:
		return choices[(idx-1+len(choices))%len(choices)]
	}
}

func (f form) View() string {
	width := 0
	for _, field := range f.fields {
		width = max(width, len(field.label))
	}

	var b strings.Builder
	for i, field := range f.fields {
		cursor := " "
		style := metaStyle
		if i == f.focus {
			cursor = accentStyle.Render(">")
			style = selectedStyle
		}
		display := field.value
		if field.secret {
			display = strings.Repeat("•", utf8.RuneCountInString(field.value))
		}
		if len(field.choices) > 0 {
			if display == "" {
				display = inputPlaceholderStyle.Render("(none)")
			} else {
				display = accentStyle.Render(display)
			}
			display += "  " + metaStyle.Render("(h/l to cycle)")
		} else if i == f.focus {
			display += accentStyle.Render("█")
		} else if display == "" && field.hint != "" {
			display = inputPlaceholderStyle.Render(field.hint)
		}
		fmt.Fprintf(&b, " %s %s  %s\n", cursor, style.Render(fmt.Sprintf("%-*s", width, field.label)), display)
	}
	return b.String()
}
