// Package bluesky implements the Bluesky provider on top of the AT Protocol
// XRPC surface: password-session login, timeline and author-feed reads
// normalized into the canonical post model, profile and graph lookups, and
// record writes for posts, replies and likes.
package bluesky

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"Driftwood/internal/atproto/pds"
	"Driftwood/internal/core/feed"
)

// DefaultHost is the PDS entryway used when the config names none.
const DefaultHost = "https://bsky.social"

// Config carries the credentials and host for a Bluesky session.
type Config struct {
	// Host is the PDS base URL. Defaults to DefaultHost.
	Host string
	// Identifier is the account handle or DID used to log in.
	Identifier string
	// Password is the account or app password.
	Password string
}

// Client is a Bluesky API client. It starts unauthenticated; every operation
// except feed-item parsing requires a prior successful Login.
type Client struct {
	cfg     Config
	logger  *slog.Logger
	http    *http.Client
	debug   bool
	session pds.Client
}

var (
	_ feed.Client      = (*Client)(nil)
	_ feed.GraphReader = (*Client)(nil)
)

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

// WithHTTPClient sets the HTTP client used for attachment downloads.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
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
	c := &Client{
		cfg:    cfg,
		logger: slog.Default(),
		http:   &http.Client{Timeout: 30 * time.Second},
	}
	if c.cfg.Host == "" {
		c.cfg.Host = DefaultHost
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login establishes a password session with the PDS. Calling it again on an
// already-authenticated client is a no-op.
func (c *Client) Login(ctx context.Context) error {
	if c.session != nil {
		return nil
	}
	session, err := pds.LoginWithPassword(ctx, c.cfg.Host, c.cfg.Identifier, c.cfg.Password)
	if err != nil {
		return feed.NewAuthError("login", err)
	}
	c.session = session
	c.logger.Debug("bluesky session established",
		"did", session.DID(),
		"handle", session.Handle(),
		"expires", session.AccessExpiry(),
	)
	return nil
}

// SessionInfo describes the authenticated session.
type SessionInfo struct {
	DID       string
	Handle    string
	Host      string
	ExpiresAt time.Time
}

// SessionInfo returns the current session details.
func (c *Client) SessionInfo() (*SessionInfo, error) {
	session, err := c.requireSession("sessionInfo")
	if err != nil {
		return nil, err
	}
	return &SessionInfo{
		DID:       session.DID(),
		Handle:    session.Handle(),
		Host:      session.Host(),
		ExpiresAt: session.AccessExpiry(),
	}, nil
}

// requireSession returns the live session or an auth error naming the
// operation that needed it. No network traffic happens on the error path.
func (c *Client) requireSession(op string) (pds.Client, error) {
	if c.session == nil {
		return nil, feed.ErrUnauthenticated(op)
	}
	return c.session, nil
}

// tracef emits a debug log line when debug tracing is enabled.
func (c *Client) tracef(msg string, args ...any) {
	if c.debug {
		c.logger.Debug(msg, args...)
	}
}
