package bluesky

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Driftwood/internal/atproto/pds"
	"Driftwood/internal/core/feed"
)

// GetProfile fetches an actor's profile. An empty handle means the
// authenticated account.
func (c *Client) GetProfile(ctx context.Context, handle string) (*feed.ProfileSummary, error) {
	session, err := c.requireSession("getProfile")
	if err != nil {
		return nil, err
	}
	actor := handle
	if actor == "" {
		actor = session.Handle()
	}
	pv, err := c.fetchProfile(ctx, session, actor)
	if err != nil {
		if errors.Is(err, pds.ErrNotFound) {
			return nil, feed.NewNotFoundError("profile", actor)
		}
		return nil, fmt.Errorf("getProfile: %w", err)
	}
	return normalizeProfile(pv), nil
}

// fetchProfile reads a single hydrated profile view.
func (c *Client) fetchProfile(ctx context.Context, session pds.Client, actor string) (*profileView, error) {
	var pv profileView
	if err := session.Query(ctx, "app.bsky.actor.getProfile", map[string]any{"actor": actor}, &pv); err != nil {
		return nil, err
	}
	return &pv, nil
}

// SearchUsers finds actors matching the query, paging through results until
// the requested count is reached.
func (c *Client) SearchUsers(ctx context.Context, query string, limit int) ([]*feed.ProfileSummary, error) {
	session, err := c.requireSession("searchUsers")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, feed.NewValidationError("q", "search query is required")
	}
	target := limit
	if target <= 0 {
		target = feed.DefaultFeedLimit
	}
	pageLimit := clampPageLimit(target)

	fetch := func(ctx context.Context, cursor string) ([]profileView, string, error) {
		params := map[string]any{"q": query, "limit": pageLimit}
		if cursor != "" {
			params["cursor"] = cursor
		}
		var page searchActorsResponse
		if err := session.Query(ctx, "app.bsky.actor.searchActors", params, &page); err != nil {
			return nil, "", err
		}
		c.tracef("actor search page fetched", "q", query, "items", len(page.Actors))
		return page.Actors, page.Cursor, nil
	}
	normalize := func(pv profileView) (*feed.ProfileSummary, bool) {
		return normalizeProfile(&pv), true
	}

	out, err := feed.Collect(ctx, fetch, normalize, nil, target)
	if err != nil {
		return out, fmt.Errorf("searchUsers: %w", err)
	}
	return out, nil
}
