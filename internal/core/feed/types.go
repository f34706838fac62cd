// Package feed defines the canonical post/profile model shared by the
// provider clients, the error taxonomy they surface, and the generic
// cursor-driven page collector they are built on.
package feed

import "time"

// PostKind classifies how a post appeared in a feed.
type PostKind string

const (
	KindPost   PostKind = "post"
	KindReply  PostKind = "reply"
	KindRepost PostKind = "repost"
	KindQuote  PostKind = "quote"
)

// validKinds is the fixed set of accepted post kinds.
var validKinds = map[PostKind]bool{
	KindPost:   true,
	KindReply:  true,
	KindRepost: true,
	KindQuote:  true,
}

// Valid reports whether k is one of the enumerated post kinds.
func (k PostKind) Valid() bool {
	return validKinds[k]
}

// ParseKind converts a user-supplied string into a PostKind.
// Empty input is allowed and means "no kind filter".
func ParseKind(s string) (PostKind, error) {
	if s == "" {
		return "", nil
	}
	k := PostKind(s)
	if !k.Valid() {
		return "", NewValidationError("type", "must be one of: post, reply, repost, quote")
	}
	return k, nil
}

// AttachmentKind distinguishes the flavors of post attachment.
type AttachmentKind string

const (
	AttachmentImage AttachmentKind = "image"
	AttachmentLink  AttachmentKind = "link"
)

// Attachment is one media or external-link item carried by a post.
// Thumb, Alt and Title are populated only when the provider supplies them.
type Attachment struct {
	Kind  AttachmentKind `json:"kind"`
	URL   string         `json:"url"`
	Thumb string         `json:"thumb,omitempty"`
	Alt   string         `json:"alt,omitempty"`
	Title string         `json:"title,omitempty"`
}

// Metrics carries a post's engagement counters.
type Metrics struct {
	Likes   int `json:"likes"`
	Replies int `json:"replies"`
	Reposts int `json:"reposts"`
}

// Post is the canonical feed record produced by the provider normalizers.
// URI is the provider-native identifier (AT-URI for Bluesky, thing fullname
// for Reddit); CID is set only for Bluesky. A Post is never modified after
// the normalizer returns it.
type Post struct {
	URI               string      `json:"uri"`
	CID               string      `json:"cid,omitempty"`
	AuthorHandle      string      `json:"authorHandle"`
	AuthorDisplayName string      `json:"authorDisplayName,omitempty"`
	Text              string      `json:"text"`
	CreatedAt         time.Time   `json:"createdAt"`
	Kind              PostKind    `json:"kind"`
	ReplyTo           string      `json:"replyTo,omitempty"`
	WebURL            string      `json:"webUrl,omitempty"`
	Attachments       []Attachment `json:"attachments,omitempty"`
	Metrics           Metrics     `json:"metrics"`
}

// ProfileCounts holds the follower/following/post counters of a profile.
type ProfileCounts struct {
	Followers int `json:"followers"`
	Follows   int `json:"follows"`
	Posts     int `json:"posts"`
}

// ProfileSummary is a single-fetch view of an account. The viewer flags
// describe the relationship between the authenticated account and this
// profile; both are false when the provider returns no viewer state.
type ProfileSummary struct {
	ID            string        `json:"id"`
	Handle        string        `json:"handle"`
	DisplayName   string        `json:"displayName,omitempty"`
	Description   string        `json:"description,omitempty"`
	Counts        ProfileCounts `json:"counts"`
	ViewerFollows bool          `json:"viewerFollows"`
	FollowsViewer bool          `json:"followsViewer"`
}

// FollowEntry is one edge of the authenticated account's follow graph.
// FollowsBack reports whether the listed account follows the viewer back.
type FollowEntry struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName,omitempty"`
	FollowsBack bool   `json:"followsBack"`
}

// WriteReceipt identifies a record created by a write operation.
// Bluesky fills URI and CID (ID carries the record key); Reddit fills ID
// (thing fullname) and URI (permalink).
type WriteReceipt struct {
	ID  string `json:"id,omitempty"`
	URI string `json:"uri,omitempty"`
	CID string `json:"cid,omitempty"`
}

// Default page targets applied when a caller passes a non-positive limit.
const (
	DefaultFeedLimit  = 10
	DefaultGraphLimit = 100
)

// TimelineOptions configures a home-timeline read. A zero Kind applies no
// kind filter. ExcludeSelf drops the authenticated account's own posts.
type TimelineOptions struct {
	Kind        PostKind
	Limit       int
	ExcludeSelf bool
}

// ProfilePostsOptions configures an author-feed read. An empty Handle means
// the authenticated account. A zero Kind defaults to KindPost.
type ProfilePostsOptions struct {
	Handle string
	Kind   PostKind
	Limit  int
}
