// Package fakeapi is an in-memory stand-in for the MealPlanner HTTP API,
// used by tests that exercise the client and the TUI end to end.
package fakeapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mealplanner/mealplanner/pkg/client"
	"github.com/mealplanner/mealplanner/pkg/domain"
)

type account struct {
	id    int64
	email string
	hash  []byte
}

type fault struct {
	status int
	detail string
}

// Server is a fake API. All methods are safe for concurrent use.
type Server struct {
	mu          sync.Mutex
	users       map[string]*account
	tokens      map[string]string // token -> username
	preferences map[string]domain.Preferences
	faults      map[string]fault // "METHOD /path" -> forced response
	requestIDs  []string
	nextID      int64
}

// New returns an empty fake API.
func New() *Server {
	return &Server{
		users:       make(map[string]*account),
		tokens:      make(map[string]string),
		preferences: make(map[string]domain.Preferences),
		faults:      make(map[string]fault),
	}
}

// Start serves the fake on a local listener until the returned server is closed.
func (s *Server) Start() *httptest.Server {
	return httptest.NewServer(s.Router())
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.recordRequestID)
	r.Use(s.injectFaults)

	r.Post(client.PathRegister, s.register)
	r.Post(client.PathLogin, s.login)
	r.Group(func(authed chi.Router) {
		authed.Use(s.requireToken)
		authed.Get(client.PathProtected, s.protected)
		authed.Get(client.PathPreferences, s.getPreferences)
		authed.Post(client.PathPreferences, s.savePreferences)
	})
	return r
}

// AddUser registers an account directly.
func (s *Server) AddUser(username, email, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.users[username] = &account{id: s.nextID, email: email, hash: hash}
}

// IssueToken returns a valid token for username without a login call.
func (s *Server) IssueToken(username string) string {
	tok := uuid.NewString()
	s.mu.Lock()
	s.tokens[tok] = username
	s.mu.Unlock()
	return tok
}

// AddToken registers a caller-chosen token for username.
func (s *Server) AddToken(tok, username string) {
	s.mu.Lock()
	s.tokens[tok] = username
	s.mu.Unlock()
}

// RevokeTokens invalidates every issued token.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	s.tokens = make(map[string]string)
	s.mu.Unlock()
}

// SetPreferences stores preferences for username.
func (s *Server) SetPreferences(username string, p domain.Preferences) {
	s.mu.Lock()
	s.preferences[username] = p
	s.mu.Unlock()
}

// Preferences returns the stored preferences for username.
func (s *Server) Preferences(username string) (domain.Preferences, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.preferences[username]
	return p, ok
}

// Fail forces every method+path request to answer with status. An empty
// detail produces a body without a detail field.
func (s *Server) Fail(method, path string, status int, detail string) {
	s.mu.Lock()
	s.faults[method+" "+path] = fault{status: status, detail: detail}
	s.mu.Unlock()
}

// RequestIDs returns the X-Request-ID values seen so far.
func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

func (s *Server) recordRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requestIDs = append(s.requestIDs, r.Header.Get(client.RequestIDHeader))
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFaults(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f, ok := s.faults[r.Method+" "+r.URL.Path]
		s.mu.Unlock()
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		if f.detail == "" {
			writeJSON(w, f.status, map[string]string{"error": http.StatusText(f.status)})
			return
		}
		writeDetail(w, f.status, f.detail)
	})
}

type ctxKey struct{}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		s.mu.Lock()
		username, found := s.tokens[tok]
		s.mu.Unlock()
		if !found {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), username)))
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var u domain.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil || u.Username == "" || u.Password == "" || !strings.Contains(u.Email, "@") {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{{"loc": []string{"body"}, "msg": "invalid registration payload"}},
		})
		return
	}
	s.mu.Lock()
	_, taken := s.users[u.Username]
	emailTaken := false
	for _, a := range s.users {
		if a.email == u.Email {
			emailTaken = true
		}
	}
	s.mu.Unlock()
	if taken {
		writeDetail(w, http.StatusBadRequest, "Username already registered")
		return
	}
	if emailTaken {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	s.AddUser(u.Username, u.Email, u.Password)
	writeJSON(w, http.StatusOK, domain.Message{Msg: "User registered successfully"})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid credentials")
		return
	}
	s.mu.Lock()
	acct, ok := s.users[creds.Username]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(acct.hash, []byte(creds.Password)) != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, domain.Token{AccessToken: s.IssueToken(creds.Username), TokenType: "bearer"})
}

func (s *Server) protected(w http.ResponseWriter, r *http.Request) {
	username := userFrom(r.Context())
	s.mu.Lock()
	var id int64
	if acct, ok := s.users[username]; ok {
		id = acct.id
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, domain.ProtectedData{Message: "This is protected data", User: username, UserID: id})
}

func (s *Server) getPreferences(w http.ResponseWriter, r *http.Request) {
	p, ok := s.Preferences(userFrom(r.Context()))
	if !ok {
		writeDetail(w, http.StatusNotFound, "Preferences not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) savePreferences(w http.ResponseWriter, r *http.Request) {
	var p domain.Preferences
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid preferences payload")
		return
	}
	s.SetPreferences(userFrom(r.Context()), p)
	writeJSON(w, http.StatusOK, domain.Message{Msg: "Preferences saved successfully"})
}
