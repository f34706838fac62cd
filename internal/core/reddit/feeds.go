package reddit

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"Driftwood/internal/core/feed"
)

// listingPage builds a collector page-fetch over one listing path.
func (c *Client) listingPage(path string, pageLimit int) feed.Page[thing] {
	return func(ctx context.Context, cursor string) ([]thing, string, error) {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(pageLimit))
		if cursor != "" {
			query.Set("after", cursor)
		}
		var page listingEnvelope
		if err := c.getJSON(ctx, path, query, &page); err != nil {
			return nil, "", err
		}
		c.tracef("listing page fetched",
			"path", path, "items", len(page.Data.Children), "after", page.Data.After)
		return page.Data.Children, page.Data.After, nil
	}
}

// GetHomeFeed reads the logged-in front page with the given sort.
func (c *Client) GetHomeFeed(ctx context.Context, limit int, sort string) ([]*feed.Post, error) {
	if _, err := c.requireHTTP("getHomeFeed"); err != nil {
		return nil, err
	}
	if sort == "" {
		sort = SortBest
	}
	if !homeSorts[sort] {
		return nil, feed.NewValidationError("sort", fmt.Sprintf("unsupported home sort %q", sort))
	}
	target := limit
	if target <= 0 {
		target = feed.DefaultFeedLimit
	}

	posts, err := feed.Collect(ctx, c.listingPage("/"+sort, clampPageLimit(target)), normalizeThingOK, nil, target)
	if err != nil {
		return posts, wrapOpError("getHomeFeed", err)
	}
	return posts, nil
}

// GetSubredditFeed reads one subreddit's listing with the given sort.
func (c *Client) GetSubredditFeed(ctx context.Context, subreddit string, limit int, sort string) ([]*feed.Post, error) {
	if _, err := c.requireHTTP("getSubredditFeed"); err != nil {
		return nil, err
	}
	subreddit = strings.TrimPrefix(strings.TrimSpace(subreddit), "r/")
	if subreddit == "" {
		return nil, feed.NewValidationError("subreddit", "subreddit name is required")
	}
	if sort == "" {
		sort = SortHot
	}
	if !subredditSorts[sort] {
		return nil, feed.NewValidationError("sort", fmt.Sprintf("unsupported subreddit sort %q", sort))
	}
	target := limit
	if target <= 0 {
		target = feed.DefaultFeedLimit
	}

	path := "/r/" + subreddit + "/" + sort
	posts, err := feed.Collect(ctx, c.listingPage(path, clampPageLimit(target)), normalizeThingOK, nil, target)
	if err != nil {
		return posts, wrapOpError("getSubredditFeed", err)
	}
	return posts, nil
}

// GetTimeline reads the front page as the provider-neutral timeline, using
// the default sort. An empty Kind keeps every post type.
func (c *Client) GetTimeline(ctx context.Context, opts feed.TimelineOptions) ([]*feed.Post, error) {
	if _, err := c.requireHTTP("getTimeline"); err != nil {
		return nil, err
	}
	if opts.Kind != "" && !opts.Kind.Valid() {
		return nil, feed.NewValidationError("type", fmt.Sprintf("unknown post type %q", opts.Kind))
	}
	target := opts.Limit
	if target <= 0 {
		target = feed.DefaultFeedLimit
	}
	self := c.selfName

	accept := func(post *feed.Post) bool {
		if opts.Kind != "" && post.Kind != opts.Kind {
			return false
		}
		if opts.ExcludeSelf && post.AuthorHandle == self {
			return false
		}
		return true
	}

	posts, err := feed.Collect(ctx, c.listingPage("/"+SortBest, clampPageLimit(target)), normalizeThingOK, accept, target)
	if err != nil {
		return posts, wrapOpError("getTimeline", err)
	}
	return posts, nil
}

// GetProfilePosts reads a user's overview listing, which mixes submissions
// and comments. The handle defaults to the authenticated account and the
// post type defaults to plain posts, so comments stay out unless asked for.
func (c *Client) GetProfilePosts(ctx context.Context, opts feed.ProfilePostsOptions) ([]*feed.Post, error) {
	if _, err := c.requireHTTP("getProfilePosts"); err != nil {
		return nil, err
	}
	kind := opts.Kind
	if kind == "" {
		kind = feed.KindPost
	}
	if !kind.Valid() {
		return nil, feed.NewValidationError("type", fmt.Sprintf("unknown post type %q", kind))
	}
	handle := strings.TrimPrefix(opts.Handle, "u/")
	if handle == "" {
		handle = c.selfName
	}
	target := opts.Limit
	if target <= 0 {
		target = feed.DefaultFeedLimit
	}

	accept := func(post *feed.Post) bool {
		return post.Kind == kind
	}

	path := "/user/" + handle + "/overview"
	posts, err := feed.Collect(ctx, c.listingPage(path, clampPageLimit(target)), normalizeThingOK, accept, target)
	if err != nil {
		return posts, wrapOpError("getProfilePosts", err)
	}
	return posts, nil
}

// ParseFeedItem implements feed.Reader. It needs no session.
func (c *Client) ParseFeedItem(raw []byte) *feed.Post {
	return ParseFeedItem(raw)
}

// clampPageLimit keeps per-page requests inside the range listing endpoints
// accept.
func clampPageLimit(target int) int {
	if target > 100 {
		return 100
	}
	return target
}
