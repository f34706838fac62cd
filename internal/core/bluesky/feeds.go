package bluesky

import (
	"context"
	"fmt"

	"Driftwood/internal/core/feed"
)

// GetTimeline reads the authenticated account's home timeline, newest first,
// collecting posts until the requested count is reached or the feed runs out.
// An empty Kind keeps every post type.
func (c *Client) GetTimeline(ctx context.Context, opts feed.TimelineOptions) ([]*feed.Post, error) {
	session, err := c.requireSession("getTimeline")
	if err != nil {
		return nil, err
	}
	if opts.Kind != "" && !opts.Kind.Valid() {
		return nil, feed.NewValidationError("type", fmt.Sprintf("unknown post type %q", opts.Kind))
	}
	target := opts.Limit
	if target <= 0 {
		target = feed.DefaultFeedLimit
	}
	pageLimit := clampPageLimit(target)
	selfHandle := session.Handle()

	fetch := func(ctx context.Context, cursor string) ([]feedItem, string, error) {
		params := map[string]any{"limit": pageLimit}
		if cursor != "" {
			params["cursor"] = cursor
		}
		var page feedResponse
		if err := session.Query(ctx, "app.bsky.feed.getTimeline", params, &page); err != nil {
			return nil, "", err
		}
		c.tracef("timeline page fetched", "items", len(page.Feed), "cursor", page.Cursor)
		return page.Feed, page.Cursor, nil
	}
	accept := func(post *feed.Post) bool {
		if opts.Kind != "" && post.Kind != opts.Kind {
			return false
		}
		if opts.ExcludeSelf && post.AuthorHandle == selfHandle {
			return false
		}
		return true
	}

	posts, err := feed.Collect(ctx, fetch, normalizeOK, accept, target)
	if err != nil {
		return posts, fmt.Errorf("getTimeline: %w", err)
	}
	return posts, nil
}

// GetProfilePosts reads an author feed. The handle defaults to the
// authenticated account and the post type defaults to plain posts, so
// replies and reposts stay out unless asked for.
func (c *Client) GetProfilePosts(ctx context.Context, opts feed.ProfilePostsOptions) ([]*feed.Post, error) {
	session, err := c.requireSession("getProfilePosts")
	if err != nil {
		return nil, err
	}
	kind := opts.Kind
	if kind == "" {
		kind = feed.KindPost
	}
	if !kind.Valid() {
		return nil, feed.NewValidationError("type", fmt.Sprintf("unknown post type %q", kind))
	}
	actor := opts.Handle
	if actor == "" {
		actor = session.Handle()
	}
	target := opts.Limit
	if target <= 0 {
		target = feed.DefaultFeedLimit
	}
	pageLimit := clampPageLimit(target)

	fetch := func(ctx context.Context, cursor string) ([]feedItem, string, error) {
		params := map[string]any{"actor": actor, "limit": pageLimit}
		if cursor != "" {
			params["cursor"] = cursor
		}
		var page feedResponse
		if err := session.Query(ctx, "app.bsky.feed.getAuthorFeed", params, &page); err != nil {
			return nil, "", err
		}
		c.tracef("author feed page fetched", "actor", actor, "items", len(page.Feed), "cursor", page.Cursor)
		return page.Feed, page.Cursor, nil
	}
	accept := func(post *feed.Post) bool {
		return post.Kind == kind
	}

	posts, err := feed.Collect(ctx, fetch, normalizeOK, accept, target)
	if err != nil {
		return posts, fmt.Errorf("getProfilePosts: %w", err)
	}
	return posts, nil
}

// ParseFeedItem implements feed.Reader. It needs no session.
func (c *Client) ParseFeedItem(raw []byte) *feed.Post {
	return ParseFeedItem(raw)
}

// normalizeOK adapts the feed-item normalizer to the collector's signature.
func normalizeOK(item feedItem) (*feed.Post, bool) {
	post := normalizeFeedItem(&item)
	return post, post != nil
}

// clampPageLimit keeps per-page requests inside the range feed endpoints
// accept.
func clampPageLimit(target int) int {
	if target > 100 {
		return 100
	}
	return target
}
