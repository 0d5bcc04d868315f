package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mealplanner/mealplanner/internal/session"
	"github.com/mealplanner/mealplanner/internal/testing/fakeapi"
	"github.com/mealplanner/mealplanner/pkg/client"
)

type testEnv struct {
	api     *fakeapi.Server
	client  *client.Client
	backend *session.MemoryBackend
	store   *session.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	api := fakeapi.New()
	srv := api.Start()
	t.Cleanup(srv.Close)
	backend := &session.MemoryBackend{}
	return &testEnv{
		api:     api,
		client:  client.New(srv.URL),
		backend: backend,
		store:   session.New(backend, nil),
	}
}

func (e *testEnv) app() App {
	a := NewApp(e.client, e.store, nil)
	a.width = 140
	a.height = 60
	return a
}

// loggedIn stores a session for a user the fake API knows about.
func (e *testEnv) loggedIn(t *testing.T, username string) {
	t.Helper()
	e.api.AddUser(username, username+"@example.com", "secret123")
	if err := e.store.SetSession(e.api.IssueToken(username), username); err != nil {
		t.Fatalf("SetSession: %v", err)
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(a App, s string) App {
	for _, r := range s {
		model, _ := a.Update(keyRunes(string(r)))
		a = model.(App)
	}
	return a
}

// run executes cmd and feeds each resulting message back into the app until
// no further command is produced.
func run(t *testing.T, a App, cmd tea.Cmd) App {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		if i > 10 {
			t.Fatal("command chain did not settle")
		}
		msg := cmd()
		if msg == nil {
			return a
		}
		var model tea.Model
		model, cmd = a.Update(msg)
		a = model.(App)
	}
	return a
}

func press(t *testing.T, a App, msg tea.KeyMsg) App {
	t.Helper()
	model, cmd := a.Update(msg)
	return run(t, model.(App), cmd)
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestNewAppWithoutSessionOpensLanding(t *testing.T) {
	env := newTestEnv(t)
	a := env.app()
	if a.view != viewLanding {
		t.Fatalf("expected landing view, got %s", a.view)
	}
	if !strings.Contains(a.View(), "Plan your meals") {
		t.Errorf("landing view missing blurb:\n%s", a.View())
	}
}

func TestNewAppWithSessionOpensDashboard(t *testing.T) {
	env := newTestEnv(t)
	env.loggedIn(t, "alice")

	a := env.app()
	if a.view != viewDashboard {
		t.Fatalf("expected dashboard view, got %s", a.view)
	}
	if !strings.Contains(a.View(), "Loading your dashboard") {
		t.Errorf("expected loading text before data arrives:\n%s", a.View())
	}
}

func TestReloadRestoresSessionFromStorage(t *testing.T) {
	env := newTestEnv(t)
	env.api.AddUser("alice", "alice@example.com", "secret123")
	env.api.AddToken("tok123", "alice")
	if err := env.store.SetSession("tok123", "alice"); err != nil {
		t.Fatalf("SetSession: %v", err)
	}

	// A fresh store over the same storage stands in for a restart.
	restarted := session.New(env.backend, nil)
	a := NewApp(env.client, restarted, nil)
	a.width, a.height = 140, 60
	if a.view != viewDashboard {
		t.Fatalf("expected dashboard after restart, got %s", a.view)
	}

	a = run(t, a, a.dashboard.load())
	if a.view != viewDashboard {
		t.Fatalf("expected to stay on dashboard, got %s", a.view)
	}
	if !strings.Contains(a.View(), "Welcome back, alice!") {
		t.Errorf("expected welcome for alice:\n%s", a.View())
	}
}

func TestAppQuitKeys(t *testing.T) {
	env := newTestEnv(t)
	a := env.app()

	_, cmd := a.Update(keyRunes("q"))
	if !isQuit(cmd) {
		t.Error("expected q to quit on landing")
	}
	_, cmd = a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !isQuit(cmd) {
		t.Error("expected ctrl+c to quit on landing")
	}
}

func TestAppQIsTextWhileEditing(t *testing.T) {
	env := newTestEnv(t)
	a := press(t, env.app(), keyRunes("l"))
	if a.view != viewLogin {
		t.Fatalf("expected login view, got %s", a.view)
	}

	model, cmd := a.Update(keyRunes("q"))
	if isQuit(cmd) {
		t.Fatal("q should not quit while typing")
	}
	a = model.(App)
	if got := a.login.form.value(loginUsername); got != "q" {
		t.Errorf("expected q typed into username, got %q", got)
	}

	_, cmd = a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !isQuit(cmd) {
		t.Error("expected ctrl+c to quit while typing")
	}
}

func TestAppLandingNavigation(t *testing.T) {
	env := newTestEnv(t)

	a := press(t, env.app(), keyRunes("s"))
	if a.view != viewSignup {
		t.Fatalf("expected signup after s, got %s", a.view)
	}
	a = press(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	if a.view != viewLanding {
		t.Fatalf("expected landing after esc, got %s", a.view)
	}
	a = press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	if a.view != viewLogin {
		t.Fatalf("expected login after enter, got %s", a.view)
	}
}

func TestAppLogoutClearsSession(t *testing.T) {
	env := newTestEnv(t)
	env.loggedIn(t, "alice")
	a := env.app()
	a = run(t, a, a.dashboard.load())

	a = press(t, a, keyRunes("o"))
	if a.view != viewLanding {
		t.Fatalf("expected landing after logout, got %s", a.view)
	}
	if env.store.IsAuthenticated() {
		t.Error("expected store to be cleared")
	}
	if _, ok := env.store.Token(); ok {
		t.Error("expected no token after logout")
	}
}

func TestAppDropsResultsForInactiveView(t *testing.T) {
	env := newTestEnv(t)
	env.loggedIn(t, "alice")
	a := env.app()
	load := a.dashboard.load()

	// Leave the dashboard before the load finishes.
	model, _ := a.Update(logoutMsg{reason: "test"})
	a = model.(App)
	a = press(t, a, keyRunes("l"))

	model, cmd := a.Update(load())
	a = model.(App)
	if cmd != nil {
		t.Error("expected no follow-up command for a stale result")
	}
	if a.view != viewLogin {
		t.Errorf("expected to stay on login, got %s", a.view)
	}
	if !a.dashboard.loading {
		t.Error("stale result should not populate the dashboard")
	}
}

func TestAppViewFitsHeight(t *testing.T) {
	env := newTestEnv(t)
	env.loggedIn(t, "alice")
	a := env.app()
	a = run(t, a, a.dashboard.load())
	a.height = 12

	lines := strings.Count(a.View(), "\n") + 1
	if lines > a.height {
		t.Errorf("view has %d lines, want at most %d", lines, a.height)
	}
}

func TestViewString(t *testing.T) {
	tests := map[view]string{
		viewLanding:     "landing",
		viewSignup:      "signup",
		viewLogin:       "login",
		viewDashboard:   "dashboard",
		viewPreferences: "preferences",
		view(99):        "unknown",
	}
	for v, want := range tests {
		if got := v.String(); got != want {
			t.Errorf("view(%d).String() = %q, want %q", int(v), got, want)
		}
	}
}
