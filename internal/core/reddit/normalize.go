package reddit

import (
	"encoding/json"
	"strings"
	"time"

	"Driftwood/internal/core/feed"
)

// ParseFeedItem converts a single raw listing child into the canonical post
// model. Malformed JSON, unknown thing kinds and payloads without a fullname
// return nil rather than an error.
func ParseFeedItem(raw []byte) *feed.Post {
	var th thing
	if err := json.Unmarshal(raw, &th); err != nil {
		return nil
	}
	return normalizeThing(&th)
}

// normalizeThing decodes the data payload picked by the kind tag.
func normalizeThing(th *thing) *feed.Post {
	switch th.Kind {
	case kindLink:
		var link linkData
		if err := json.Unmarshal(th.Data, &link); err != nil {
			return nil
		}
		return normalizeLink(&link)
	case kindComment:
		var comment commentData
		if err := json.Unmarshal(th.Data, &comment); err != nil {
			return nil
		}
		return normalizeComment(&comment)
	default:
		return nil
	}
}

// normalizeLink maps a submission onto the canonical post model. Crossposts
// count as reposts; Reddit has no quote shape.
func normalizeLink(link *linkData) *feed.Post {
	if link.Name == "" {
		return nil
	}
	kind := feed.KindPost
	if len(link.CrosspostParents) > 0 {
		kind = feed.KindRepost
	}
	text := link.Title
	if link.SelfText != "" {
		text = link.Title + "\n\n" + link.SelfText
	}
	post := &feed.Post{
		URI:          link.Name,
		AuthorHandle: link.Author,
		Text:         text,
		CreatedAt:    fromEpoch(link.CreatedUTC),
		Kind:         kind,
		WebURL:       redditURL(link.Permalink),
		Metrics: feed.Metrics{
			Likes:   link.Score,
			Replies: link.NumComments,
			Reposts: link.NumCrossposts,
		},
	}
	if !link.IsSelf && link.URL != "" {
		att := feed.Attachment{Kind: feed.AttachmentLink, URL: link.URL, Title: link.Title}
		if isImageLink(link) {
			att.Kind = feed.AttachmentImage
			att.Title = ""
		}
		if strings.HasPrefix(link.Thumbnail, "http") {
			att.Thumb = link.Thumbnail
		}
		post.Attachments = []feed.Attachment{att}
	}
	return post
}

// normalizeComment maps a comment onto the canonical post model as a reply.
func normalizeComment(comment *commentData) *feed.Post {
	if comment.Name == "" {
		return nil
	}
	return &feed.Post{
		URI:          comment.Name,
		AuthorHandle: comment.Author,
		Text:         comment.Body,
		CreatedAt:    fromEpoch(comment.CreatedUTC),
		Kind:         feed.KindReply,
		ReplyTo:      comment.ParentID,
		WebURL:       redditURL(comment.Permalink),
		Metrics:      feed.Metrics{Likes: comment.Score},
	}
}

// normalizeAccount maps an account onto the canonical profile summary.
// Reddit exposes karma rather than post counts and profile followers rather
// than a follow graph, so only the follower count carries over.
func normalizeAccount(acct *accountData) *feed.ProfileSummary {
	summary := &feed.ProfileSummary{
		ID:            acct.ID,
		Handle:        acct.Name,
		ViewerFollows: acct.IsFriend,
	}
	if acct.Subreddit != nil {
		summary.DisplayName = acct.Subreddit.Title
		summary.Description = acct.Subreddit.PublicDescription
		summary.Counts.Followers = acct.Subreddit.Subscribers
	}
	return summary
}

// normalizeThingOK adapts the thing normalizer to the collector's signature.
func normalizeThingOK(th thing) (*feed.Post, bool) {
	post := normalizeThing(&th)
	return post, post != nil
}

func fromEpoch(sec float64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(int64(sec), 0).UTC()
}

func redditURL(permalink string) string {
	if permalink == "" {
		return ""
	}
	return "https://www.reddit.com" + permalink
}

// isImageLink sniffs whether an outbound URL points at an image, preferring
// the hint the API already computed.
func isImageLink(link *linkData) bool {
	if link.PostHint == "image" {
		return true
	}
	path := link.URL
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".webp"} {
		if strings.HasSuffix(strings.ToLower(path), ext) {
			return true
		}
	}
	return false
}
