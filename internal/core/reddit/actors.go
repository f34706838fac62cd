package reddit

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"Driftwood/internal/core/feed"
)

// GetUserProfile fetches the authenticated account's own profile.
func (c *Client) GetUserProfile(ctx context.Context) (*feed.ProfileSummary, error) {
	if _, err := c.requireHTTP("getUserProfile"); err != nil {
		return nil, err
	}
	var me accountData
	if err := c.getJSON(ctx, "/api/v1/me", nil, &me); err != nil {
		return nil, wrapOpError("getUserProfile", err)
	}
	return normalizeAccount(&me), nil
}

// GetProfile fetches a user's public profile. An empty handle means the
// authenticated account.
func (c *Client) GetProfile(ctx context.Context, handle string) (*feed.ProfileSummary, error) {
	if _, err := c.requireHTTP("getProfile"); err != nil {
		return nil, err
	}
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "u/")
	if handle == "" {
		handle = c.selfName
	}

	var envelope thing
	if err := c.getJSON(ctx, "/user/"+handle+"/about", nil, &envelope); err != nil {
		if isStatus(err, 404) {
			return nil, feed.NewNotFoundError("profile", handle)
		}
		return nil, wrapOpError("getProfile", err)
	}
	var acct accountData
	if envelope.Kind != kindAccount || json.Unmarshal(envelope.Data, &acct) != nil || acct.Name == "" {
		return nil, feed.NewNotFoundError("profile", handle)
	}
	return normalizeAccount(&acct), nil
}

// SearchUsers finds accounts matching the query, paging through results
// until the requested count is reached.
func (c *Client) SearchUsers(ctx context.Context, query string, limit int) ([]*feed.ProfileSummary, error) {
	if _, err := c.requireHTTP("searchUsers"); err != nil {
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

	fetch := func(ctx context.Context, cursor string) ([]thing, string, error) {
		params := url.Values{}
		params.Set("q", query)
		params.Set("limit", strconv.Itoa(pageLimit))
		if cursor != "" {
			params.Set("after", cursor)
		}
		var page listingEnvelope
		if err := c.getJSON(ctx, "/users/search", params, &page); err != nil {
			return nil, "", err
		}
		c.tracef("user search page fetched", "q", query, "items", len(page.Data.Children))
		return page.Data.Children, page.Data.After, nil
	}
	normalize := func(th thing) (*feed.ProfileSummary, bool) {
		if th.Kind != kindAccount {
			return nil, false
		}
		var acct accountData
		if err := json.Unmarshal(th.Data, &acct); err != nil || acct.Name == "" {
			return nil, false
		}
		return normalizeAccount(&acct), true
	}

	out, err := feed.Collect(ctx, fetch, normalize, nil, target)
	if err != nil {
		return out, wrapOpError("searchUsers", err)
	}
	return out, nil
}
