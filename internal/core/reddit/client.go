// Package reddit implements the Reddit provider on top of the OAuth REST
// API: password-grant login, listing reads normalized into the canonical
// post model, account lookups, and comment, submit and vote writes.
package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"Driftwood/internal/core/feed"
)

// Default endpoints. Authenticated API traffic goes through the OAuth
// gateway, not www.reddit.com.
const (
	DefaultTokenURL = "https://www.reddit.com/api/v1/access_token"
	DefaultBaseURL  = "https://oauth.reddit.com"
)

// Config carries the script-app credentials for a Reddit session.
type Config struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	// UserAgent identifies the app. Reddit throttles the default Go agent,
	// so an empty value gets a descriptive fallback.
	UserAgent string
	// Subreddit is the default submission target. Empty means the account's
	// own profile.
	Subreddit string
	// TokenURL and BaseURL override the Reddit endpoints.
	TokenURL string
	BaseURL  string
}

// Client is a Reddit API client. It starts unauthenticated; every operation
// except feed-item parsing requires a prior successful Login.
type Client struct {
	cfg    Config
	logger *slog.Logger
	debug  bool
	base   *http.Client

	http     *http.Client
	selfName string
	selfID   string
}

var _ feed.Client = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for progress traces and warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient sets the HTTP client the OAuth transport wraps.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.base = httpClient
		}
	}
}

// WithDebug toggles per-page progress traces during pagination.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// New builds an unauthenticated Client for the given account.
func New(cfg Config, opts ...Option) *Client {
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = fmt.Sprintf("driftwood/1.0 (by /u/%s)", cfg.Username)
	}
	c := &Client{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.base == nil {
		c.base = &http.Client{Timeout: 30 * time.Second}
	}
	// Every request, token exchange included, must carry the app's agent.
	c.base = &http.Client{
		Transport: &userAgentTransport{base: c.base.Transport, agent: cfg.UserAgent},
		Timeout:   c.base.Timeout,
	}
	return c
}

// Login exchanges the account credentials for a bearer token and resolves
// the account identity. Calling it again on an already-authenticated client
// is a no-op.
func (c *Client) Login(ctx context.Context) error {
	if c.http != nil {
		return nil
	}
	if c.cfg.ClientID == "" || c.cfg.ClientSecret == "" {
		return feed.NewAuthError("login", errors.New("client id and secret are required"))
	}
	if c.cfg.Username == "" || c.cfg.Password == "" {
		return feed.NewAuthError("login", errors.New("username and password are required"))
	}

	conf := &oauth2.Config{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
	authCtx := context.WithValue(ctx, oauth2.HTTPClient, c.base)
	token, err := conf.PasswordCredentialsToken(authCtx, c.cfg.Username, c.cfg.Password)
	if err != nil {
		return feed.NewAuthError("login", err)
	}

	// The token source refreshes on our base client, keeping the agent header.
	bg := context.WithValue(context.Background(), oauth2.HTTPClient, c.base)
	c.http = oauth2.NewClient(bg, conf.TokenSource(bg, token))
	c.http.Timeout = c.base.Timeout

	var me accountData
	if err := c.getJSON(ctx, "/api/v1/me", nil, &me); err != nil {
		c.http = nil
		return feed.NewAuthError("login", err)
	}
	c.selfName = me.Name
	c.selfID = me.ID
	c.logger.Debug("reddit session established", "user", me.Name)
	return nil
}

// SessionInfo describes the authenticated session.
type SessionInfo struct {
	Username string
	ID       string
}

// SessionInfo returns the current session details.
func (c *Client) SessionInfo() (*SessionInfo, error) {
	if _, err := c.requireHTTP("sessionInfo"); err != nil {
		return nil, err
	}
	return &SessionInfo{Username: c.selfName, ID: c.selfID}, nil
}

// requireHTTP returns the authorized client or an auth error naming the
// operation that needed it. No network traffic happens on the error path.
func (c *Client) requireHTTP(op string) (*http.Client, error) {
	if c.http == nil {
		return nil, feed.ErrUnauthenticated(op)
	}
	return c.http, nil
}

// tracef emits a debug log line when debug tracing is enabled.
func (c *Client) tracef(msg string, args ...any) {
	if c.debug {
		c.logger.Debug(msg, args...)
	}
}

// userAgentTransport stamps the configured agent onto every request.
type userAgentTransport struct {
	base  http.RoundTripper
	agent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.agent)
	return base.RoundTrip(clone)
}

// APIError is a non-2xx response from the Reddit API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("reddit api: status %d: %s", e.StatusCode, e.Body)
}

// isStatus reports whether err is an API error with the given status.
func isStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// wrapOpError names the operation and keeps rejected-token failures
// recognizable as auth errors.
func wrapOpError(op string, err error) error {
	if isStatus(err, http.StatusUnauthorized) || isStatus(err, http.StatusForbidden) {
		return feed.NewAuthError(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// getJSON issues an authorized GET and decodes the JSON response.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	// raw_json keeps Reddit from HTML-escaping body text.
	query.Set("raw_json", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// postForm issues an authorized form POST and decodes the JSON response.
func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
