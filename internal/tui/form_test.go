package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func testForm() form {
	return newForm(
		formField{label: "name"},
		formField{label: "kind", choices: []string{"a", "b", "c"}},
		formField{label: "secret", secret: true},
	)
}

func TestFormFocusMovement(t *testing.T) {
	f := testForm()
	f, _ = f.update(tea.KeyMsg{Type: tea.KeyTab})
	if f.focus != 1 {
		t.Fatalf("tab: focus = %d, want 1", f.focus)
	}
	f, _ = f.update(tea.KeyMsg{Type: tea.KeyShiftTab})
	f, _ = f.update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if f.focus != 2 {
		t.Fatalf("shift+tab should wrap: focus = %d, want 2", f.focus)
	}
	f, _ = f.update(tea.KeyMsg{Type: tea.KeyDown})
	if f.focus != 0 {
		t.Fatalf("down should wrap: focus = %d, want 0", f.focus)
	}
}

func TestFormSubmit(t *testing.T) {
	f := testForm()
	f, submit := f.update(tea.KeyMsg{Type: tea.KeyEnter})
	if submit || f.focus != 1 {
		t.Fatalf("enter on first field should advance, submit=%v focus=%d", submit, f.focus)
	}
	if _, submit = f.update(tea.KeyMsg{Type: tea.KeyCtrlS}); !submit {
		t.Error("ctrl+s should submit from any field")
	}
	f.focus = 2
	if _, submit = f.update(tea.KeyMsg{Type: tea.KeyEnter}); !submit {
		t.Error("enter on last field should submit")
	}
}

func TestFormChoiceCycling(t *testing.T) {
	f := testForm()
	f.focus = 1
	steps := []struct {
		key  string
		want string
	}{
		{"l", "a"},
		{"l", "b"},
		{"h", "a"},
		{"h", "c"},
		{"x", "c"}, // typing is ignored on choice fields
	}
	for _, s := range steps {
		f, _ = f.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s.key)})
		if got := f.value(1); got != s.want {
			t.Fatalf("after %q: value = %q, want %q", s.key, got, s.want)
		}
	}
}

func TestCycleChoiceBackwardFromEmpty(t *testing.T) {
	if got := cycleChoice([]string{"a", "b"}, "", false); got != "b" {
		t.Errorf("cycleChoice backward from empty = %q, want %q", got, "b")
	}
}

func TestFormViewMasksSecret(t *testing.T) {
	f := testForm()
	f.setValue(0, "alice")
	f.setValue(2, "hunter2")

	out := f.View()
	if strings.Contains(out, "hunter2") {
		t.Error("secret value should be masked")
	}
	if !strings.Contains(out, strings.Repeat("•", 7)) {
		t.Errorf("expected 7 mask runes:\n%s", out)
	}
	if !strings.Contains(out, "alice") {
		t.Errorf("expected plain value:\n%s", out)
	}
}
