package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mealplanner/mealplanner/pkg/domain"
)

// API paths.
const (
	PathRegister    = "/register"
	PathLogin       = "/login"
	PathProtected   = "/protected"
	PathPreferences = "/preferences"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 1 << 20

// Client is the MealPlanner API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets a per-request timeout on the HTTP client. Zero means none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger failures are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a new API client rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, user domain.User) (*domain.Message, error) {
	var msg domain.Message
	err := c.Request(ctx, PathRegister, RequestConfig{
		Method: http.MethodPost,
		Body:   JSONBody(user),
	}, &msg)
	if err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &msg, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.Token, error) {
	var tok domain.Token
	err := c.Request(ctx, PathLogin, RequestConfig{
		Method: http.MethodPost,
		Body:   JSONBody(creds),
	}, &tok)
	if err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &tok, nil
}

// GetProtectedData fetches the protected test resource.
func (c *Client) GetProtectedData(ctx context.Context, token string) (*domain.ProtectedData, error) {
	var data domain.ProtectedData
	if err := c.Request(ctx, PathProtected, RequestConfig{Headers: bearer(token)}, &data); err != nil {
		return nil, fmt.Errorf("client.GetProtectedData: %w", err)
	}
	return &data, nil
}

// SavePreferences creates or replaces the user's preferences.
func (c *Client) SavePreferences(ctx context.Context, prefs domain.Preferences, token string) (*domain.Message, error) {
	var msg domain.Message
	err := c.Request(ctx, PathPreferences, RequestConfig{
		Method:  http.MethodPost,
		Body:    JSONBody(prefs),
		Headers: bearer(token),
	}, &msg)
	if err != nil {
		return nil, fmt.Errorf("client.SavePreferences: %w", err)
	}
	return &msg, nil
}

// GetPreferences fetches the user's preferences. A null body yields nil
// preferences and no error; a user who never saved any gets a 404 HTTPError.
func (c *Client) GetPreferences(ctx context.Context, token string) (*domain.Preferences, error) {
	var prefs *domain.Preferences
	if err := c.Request(ctx, PathPreferences, RequestConfig{Headers: bearer(token)}, &prefs); err != nil {
		return nil, fmt.Errorf("client.GetPreferences: %w", err)
	}
	return prefs, nil
}

// Request performs a single API call and decodes a successful JSON response
// into out (when out is non-nil). Failures are logged before being returned.
func (c *Client) Request(ctx context.Context, endpoint string, rc RequestConfig, out any) error {
	reqID := uuid.NewString()
	err := c.doRequest(ctx, reqID, endpoint, rc, out)
	if err != nil {
		attrs := []any{
			"method", rc.method(),
			"endpoint", endpoint,
			"request_id", reqID,
			"error", err,
		}
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode < http.StatusInternalServerError {
			c.logger.WarnContext(ctx, "api request failed", append(attrs, "status", httpErr.StatusCode)...)
		} else {
			c.logger.ErrorContext(ctx, "api request failed", attrs...)
		}
	}
	return err
}

func (c *Client) doRequest(ctx context.Context, reqID, endpoint string, rc RequestConfig, out any) error {
	reqBody, err := rc.Body.reader()
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, rc.method(), c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, reqID)
	for key, values := range rc.Headers {
		key = http.CanonicalHeaderKey(key)
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return &TransportError{Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}

// decodeError turns a failed response into an HTTPError, preferring the
// server's string "detail" field.
func decodeError(resp *http.Response) error {
	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if readErr != nil {
		return &HTTPError{StatusCode: resp.StatusCode, Message: statusMessage(resp.StatusCode)}
	}
	var apiErr struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(respBody, &apiErr) == nil && len(apiErr.Detail) > 0 {
		var detail string
		if json.Unmarshal(apiErr.Detail, &detail) == nil && detail != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: detail}
		}
	}
	return &HTTPError{StatusCode: resp.StatusCode, Message: statusMessage(resp.StatusCode)}
}
