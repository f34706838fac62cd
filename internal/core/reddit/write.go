package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"Driftwood/internal/core/feed"
)

var (
	// fullnamePattern matches bare thing fullnames for posts and comments.
	fullnamePattern = regexp.MustCompile(`^t[13]_[a-z0-9]+$`)
	// commentsURLPattern matches submission permalinks, optionally pointing
	// at a single comment.
	commentsURLPattern = regexp.MustCompile(`^https?://(?:www\.|old\.|new\.)?reddit\.com/r/[^/]+/comments/([a-z0-9]+)(?:/[^/]*(?:/([a-z0-9]+))?)?/?(?:\?.*)?$`)
	// shortLinkPattern matches redd.it share links.
	shortLinkPattern = regexp.MustCompile(`^https?://redd\.it/([a-z0-9]+)/?$`)
)

// titleLimit is Reddit's submission title cap.
const titleLimit = 300

// ReplyToPost posts a comment under the referenced submission or comment.
// The reference may be a fullname, a permalink or a redd.it link.
func (c *Client) ReplyToPost(ctx context.Context, text, parentRef string) (*feed.WriteReceipt, error) {
	if _, err := c.requireHTTP("replyToPost"); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, feed.NewValidationError("text", "reply text is required")
	}
	parent, _, err := c.resolveThing(ctx, "post", parentRef)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("api_type", "json")
	form.Set("thing_id", parent)
	form.Set("text", text)

	var resp jsonResponse
	if err := c.postForm(ctx, "/api/comment", form, &resp); err != nil {
		return nil, wrapOpError("replyToPost", err)
	}
	if err := resp.submitError(); err != nil {
		return nil, fmt.Errorf("replyToPost: %w", err)
	}

	var posted commentData
	if resp.JSON.Data != nil {
		for _, th := range resp.JSON.Data.Things {
			if th.Kind == kindComment {
				_ = json.Unmarshal(th.Data, &posted)
				break
			}
		}
	}
	return &feed.WriteReceipt{ID: posted.ID, URI: redditURL(posted.Permalink)}, nil
}

// NewPost submits a post to the configured subreddit, or to the account's
// profile when none is configured. A single attachment with no body becomes
// a link post; otherwise attachments are appended to a self post's body.
func (c *Client) NewPost(ctx context.Context, text string, attachmentURLs ...string) (*feed.WriteReceipt, error) {
	if _, err := c.requireHTTP("newPost"); err != nil {
		return nil, err
	}
	title, body := splitTitle(text)
	if title == "" {
		return nil, feed.NewValidationError("text", "post text is required for the title")
	}

	target := c.cfg.Subreddit
	if target == "" {
		target = "u_" + c.selfName
	}

	form := url.Values{}
	form.Set("api_type", "json")
	form.Set("sr", target)
	form.Set("title", title)
	if len(attachmentURLs) == 1 && body == "" {
		form.Set("kind", "link")
		form.Set("url", attachmentURLs[0])
	} else {
		if len(attachmentURLs) > 0 {
			body = strings.TrimSpace(body + "\n\n" + strings.Join(attachmentURLs, "\n"))
		}
		form.Set("kind", "self")
		form.Set("text", body)
	}

	var resp jsonResponse
	if err := c.postForm(ctx, "/api/submit", form, &resp); err != nil {
		return nil, wrapOpError("newPost", err)
	}
	if err := resp.submitError(); err != nil {
		return nil, fmt.Errorf("newPost: %w", err)
	}

	receipt := &feed.WriteReceipt{}
	if resp.JSON.Data != nil {
		receipt.ID = resp.JSON.Data.ID
		receipt.URI = resp.JSON.Data.URL
	}
	return receipt, nil
}

// LikePost upvotes the referenced submission or comment.
func (c *Client) LikePost(ctx context.Context, ref string) (*feed.WriteReceipt, error) {
	if _, err := c.requireHTTP("likePost"); err != nil {
		return nil, err
	}
	fullname, webURL, err := c.resolveThing(ctx, "post", ref)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("id", fullname)
	form.Set("dir", "1")
	if err := c.postForm(ctx, "/api/vote", form, nil); err != nil {
		return nil, wrapOpError("likePost", err)
	}
	return &feed.WriteReceipt{ID: fullname, URI: webURL}, nil
}

// resolveThing turns a post reference into a verified fullname by looking
// the thing up, so writes never target something that is already gone.
func (c *Client) resolveThing(ctx context.Context, field, ref string) (fullname, webURL string, err error) {
	fullname, err = parseRef(field, ref)
	if err != nil {
		return "", "", err
	}

	query := url.Values{}
	query.Set("id", fullname)
	var listing listingEnvelope
	if err := c.getJSON(ctx, "/api/info", query, &listing); err != nil {
		return "", "", wrapOpError("resolving "+field, err)
	}
	if len(listing.Data.Children) == 0 {
		return "", "", feed.NewNotFoundError(field, ref)
	}

	if post := normalizeThing(&listing.Data.Children[0]); post != nil {
		webURL = post.WebURL
	}
	return fullname, webURL, nil
}

// parseRef maps the accepted reference forms onto a thing fullname.
func parseRef(field, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", feed.NewValidationError(field, "a fullname or reddit link is required")
	}
	if fullnamePattern.MatchString(ref) {
		return ref, nil
	}
	if m := commentsURLPattern.FindStringSubmatch(ref); m != nil {
		if m[2] != "" {
			return "t1_" + m[2], nil
		}
		return "t3_" + m[1], nil
	}
	if m := shortLinkPattern.FindStringSubmatch(ref); m != nil {
		return "t3_" + m[1], nil
	}
	return "", feed.NewValidationError(field, "must be a t1/t3 fullname or a reddit post link")
}

// splitTitle derives the submission title from the first line of the text,
// clipped to Reddit's title cap; the rest becomes the body.
func splitTitle(text string) (title, body string) {
	text = strings.TrimSpace(text)
	title = text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		title = strings.TrimSpace(text[:i])
		body = strings.TrimSpace(text[i+1:])
	}
	if runes := []rune(title); len(runes) > titleLimit {
		title = string(runes[:titleLimit])
	}
	return title, body
}
