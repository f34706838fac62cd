package bluesky

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"Driftwood/internal/core/feed"
)

// GetFollows lists accounts the given actor follows. An empty handle means
// the authenticated account.
func (c *Client) GetFollows(ctx context.Context, handle string, limit int) ([]feed.FollowEntry, error) {
	session, err := c.requireSession("getFollows")
	if err != nil {
		return nil, err
	}
	actor := handle
	if actor == "" {
		actor = session.Handle()
	}
	target := limit
	if target <= 0 {
		target = feed.DefaultGraphLimit
	}
	pageLimit := clampPageLimit(target)

	fetch := func(ctx context.Context, cursor string) ([]profileView, string, error) {
		params := map[string]any{"actor": actor, "limit": pageLimit}
		if cursor != "" {
			params["cursor"] = cursor
		}
		var page followsResponse
		if err := session.Query(ctx, "app.bsky.graph.getFollows", params, &page); err != nil {
			return nil, "", err
		}
		c.tracef("follows page fetched", "actor", actor, "items", len(page.Follows))
		return page.Follows, page.Cursor, nil
	}

	out, err := feed.Collect(ctx, fetch, followEntryOK, nil, target)
	if err != nil {
		return out, fmt.Errorf("getFollows: %w", err)
	}
	return out, nil
}

// GetFollowers lists accounts following the given actor. An empty handle
// means the authenticated account.
func (c *Client) GetFollowers(ctx context.Context, handle string, limit int) ([]feed.FollowEntry, error) {
	session, err := c.requireSession("getFollowers")
	if err != nil {
		return nil, err
	}
	actor := handle
	if actor == "" {
		actor = session.Handle()
	}
	target := limit
	if target <= 0 {
		target = feed.DefaultGraphLimit
	}
	pageLimit := clampPageLimit(target)

	fetch := func(ctx context.Context, cursor string) ([]profileView, string, error) {
		params := map[string]any{"actor": actor, "limit": pageLimit}
		if cursor != "" {
			params["cursor"] = cursor
		}
		var page followersResponse
		if err := session.Query(ctx, "app.bsky.graph.getFollowers", params, &page); err != nil {
			return nil, "", err
		}
		c.tracef("followers page fetched", "actor", actor, "items", len(page.Followers))
		return page.Followers, page.Cursor, nil
	}

	out, err := feed.Collect(ctx, fetch, followEntryOK, nil, target)
	if err != nil {
		return out, fmt.Errorf("getFollowers: %w", err)
	}
	return out, nil
}

// GetNonMutualFollows lists accounts the authenticated account follows that
// do not follow back. Each page of follows is checked with one concurrent
// profile lookup per entry; a failed lookup drops that entry with a warning
// instead of failing the whole listing.
func (c *Client) GetNonMutualFollows(ctx context.Context, limit int) ([]feed.FollowEntry, error) {
	session, err := c.requireSession("getNonMutualFollows")
	if err != nil {
		return nil, err
	}
	target := limit
	if target <= 0 {
		target = feed.DefaultGraphLimit
	}
	pageLimit := clampPageLimit(target)
	self := session.DID()

	var out []feed.FollowEntry
	cursor := ""
	for {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		params := map[string]any{"actor": self, "limit": pageLimit}
		if cursor != "" {
			params["cursor"] = cursor
		}
		var page followsResponse
		if err := session.Query(ctx, "app.bsky.graph.getFollows", params, &page); err != nil {
			return out, fmt.Errorf("getNonMutualFollows: %w", err)
		}
		c.tracef("follows page fetched", "actor", self, "items", len(page.Follows))

		// One profile lookup per followed account, settled before moving on.
		// The indexed slice keeps the feed order of the page.
		nonMutual := make([]*feed.FollowEntry, len(page.Follows))
		g, gctx := errgroup.WithContext(ctx)
		for i, pv := range page.Follows {
			g.Go(func() error {
				profile, err := c.fetchProfile(gctx, session, pv.DID)
				if err != nil {
					c.logger.Warn("profile check failed, skipping account",
						"handle", pv.Handle, "error", err)
					return nil
				}
				if profile.Viewer == nil || profile.Viewer.FollowedBy == "" {
					entry := normalizeFollowEntry(&pv)
					entry.FollowsBack = false
					nonMutual[i] = &entry
				}
				return nil
			})
		}
		_ = g.Wait()

		for _, entry := range nonMutual {
			if entry == nil {
				continue
			}
			out = append(out, *entry)
			if len(out) == target {
				return out, nil
			}
		}
		if len(page.Follows) == 0 || page.Cursor == "" {
			return out, nil
		}
		cursor = page.Cursor
	}
}

// followEntryOK adapts the follow-entry normalizer to the collector's
// signature.
func followEntryOK(pv profileView) (feed.FollowEntry, bool) {
	return normalizeFollowEntry(&pv), true
}
