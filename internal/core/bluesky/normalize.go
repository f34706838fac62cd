package bluesky

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"Driftwood/internal/core/feed"
)

// ParseFeedItem converts a single raw feed item, as returned inside the feed
// array of getTimeline or getAuthorFeed, into the canonical post model.
// Malformed JSON and items lacking a post payload return nil rather than an
// error, so a damaged item never takes down a whole page.
func ParseFeedItem(raw []byte) *feed.Post {
	var item feedItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil
	}
	return normalizeFeedItem(&item)
}

// normalizeFeedItem maps a hydrated feed item onto the canonical post model.
// Returns nil when the item carries no usable post.
func normalizeFeedItem(item *feedItem) *feed.Post {
	if item == nil || item.Post == nil {
		return nil
	}
	pv := item.Post
	if pv.URI == "" || pv.Record == nil {
		return nil
	}

	post := &feed.Post{
		URI:               pv.URI,
		CID:               pv.CID,
		AuthorHandle:      pv.Author.Handle,
		AuthorDisplayName: pv.Author.DisplayName,
		Text:              pv.Record.Text,
		Kind:              classifyFeedItem(item),
		WebURL:            webPostURL(&pv.Author, pv.URI),
		Attachments:       collectAttachments(pv.Embed, 0),
		Metrics: feed.Metrics{
			Likes:   pv.LikeCount,
			Replies: pv.ReplyCount,
			Reposts: pv.RepostCount,
		},
	}
	if pv.Record.Reply != nil {
		post.ReplyTo = pv.Record.Reply.Parent.URI
	}
	if pv.Record.CreatedAt != "" {
		// Bad timestamps degrade to the zero time instead of dropping the post.
		if ts, err := time.Parse(time.RFC3339, pv.Record.CreatedAt); err == nil {
			post.CreatedAt = ts
		}
	}
	return post
}

// classifyFeedItem decides the post kind. Repost context wins over reply
// structure, which wins over a quote embed; everything else is a plain post.
func classifyFeedItem(item *feedItem) feed.PostKind {
	if item.Reason != nil && item.Reason.Type == reasonRepost {
		return feed.KindRepost
	}
	if item.Post.Record != nil && item.Post.Record.Reply != nil {
		return feed.KindReply
	}
	if e := item.Post.Embed; e != nil {
		if e.Type == embedRecordView || e.Type == embedRecordWithMediaView {
			return feed.KindQuote
		}
	}
	return feed.KindPost
}

// collectAttachments flattens the embed union into attachment entries. The
// record half of a quote embed is intentionally not mined for attachments;
// only media belonging to the post itself is surfaced. depth guards the
// single level of nesting a recordWithMedia embed can introduce.
func collectAttachments(embed *embedView, depth int) []feed.Attachment {
	if embed == nil || depth > 1 {
		return nil
	}
	switch embed.Type {
	case embedImagesView:
		out := make([]feed.Attachment, 0, len(embed.Images))
		for _, img := range embed.Images {
			out = append(out, feed.Attachment{
				Kind:  feed.AttachmentImage,
				URL:   img.Fullsize,
				Thumb: img.Thumb,
				Alt:   img.Alt,
			})
		}
		return out
	case embedExternalView:
		if embed.External == nil {
			return nil
		}
		return []feed.Attachment{{
			Kind:  feed.AttachmentLink,
			URL:   embed.External.URI,
			Title: embed.External.Title,
			Thumb: embed.External.Thumb,
		}}
	case embedRecordWithMediaView:
		return collectAttachments(embed.Media, depth+1)
	default:
		return nil
	}
}

// normalizeProfile maps a profile view onto the canonical profile summary.
func normalizeProfile(pv *profileView) *feed.ProfileSummary {
	summary := &feed.ProfileSummary{
		ID:          pv.DID,
		Handle:      pv.Handle,
		DisplayName: pv.DisplayName,
		Description: pv.Description,
		Counts: feed.ProfileCounts{
			Followers: pv.FollowersCount,
			Follows:   pv.FollowsCount,
			Posts:     pv.PostsCount,
		},
	}
	if pv.Viewer != nil {
		summary.ViewerFollows = pv.Viewer.Following != ""
		summary.FollowsViewer = pv.Viewer.FollowedBy != ""
	}
	return summary
}

// normalizeFollowEntry maps a graph page entry onto the canonical follow
// entry. FollowsBack reflects the viewer state carried on the page itself.
func normalizeFollowEntry(pv *profileView) feed.FollowEntry {
	entry := feed.FollowEntry{
		ID:          pv.DID,
		Handle:      pv.Handle,
		DisplayName: pv.DisplayName,
	}
	if pv.Viewer != nil {
		entry.FollowsBack = pv.Viewer.FollowedBy != ""
	}
	return entry
}

// webPostURL builds the public bsky.app permalink for a post. The record key
// is the final segment of the AT-URI; the handle is preferred over the DID
// for readability when present.
func webPostURL(author *actorBasic, uri string) string {
	idx := strings.LastIndex(uri, "/")
	if idx < 0 || idx == len(uri)-1 {
		return ""
	}
	rkey := uri[idx+1:]
	actor := author.Handle
	if actor == "" {
		actor = author.DID
	}
	if actor == "" {
		return ""
	}
	return fmt.Sprintf("https://bsky.app/profile/%s/post/%s", actor, rkey)
}
