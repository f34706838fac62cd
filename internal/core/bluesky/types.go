package bluesky

import "encoding/json"

// Collections this client writes records into.
const (
	postCollection = "app.bsky.feed.post"
	likeCollection = "app.bsky.feed.like"
)

// Embed kind tags as they appear in hydrated feed views. Anything outside
// this set is treated as an unknown embed and contributes no attachments.
const (
	embedImagesView          = "app.bsky.embed.images#view"
	embedExternalView        = "app.bsky.embed.external#view"
	embedRecordView          = "app.bsky.embed.record#view"
	embedRecordWithMediaView = "app.bsky.embed.recordWithMedia#view"
)

// reasonRepost marks a feed item that appears because someone reposted it.
const reasonRepost = "app.bsky.feed.defs#reasonRepost"

// feedResponse is one page of app.bsky.feed.getTimeline or getAuthorFeed.
type feedResponse struct {
	Cursor string     `json:"cursor"`
	Feed   []feedItem `json:"feed"`
}

// feedItem is a hydrated post plus the feed context explaining why it is in
// the feed (repost annotation, reply thread).
type feedItem struct {
	Post   *postView   `json:"post"`
	Reason *feedReason `json:"reason,omitempty"`
}

// feedReason is the reason union on a feed item. Only the repost arm matters
// to classification; other reasons pass through as ordinary posts.
type feedReason struct {
	Type string      `json:"$type"`
	By   *actorBasic `json:"by,omitempty"`
}

// postView is the hydrated post as returned in feed views and by getPosts.
type postView struct {
	URI         string      `json:"uri"`
	CID         string      `json:"cid"`
	Author      actorBasic  `json:"author"`
	Record      *postRecord `json:"record,omitempty"`
	Embed       *embedView  `json:"embed,omitempty"`
	ReplyCount  int         `json:"replyCount"`
	RepostCount int         `json:"repostCount"`
	LikeCount   int         `json:"likeCount"`
}

// actorBasic is the compact author card attached to posts and graph entries.
type actorBasic struct {
	DID         string       `json:"did"`
	Handle      string       `json:"handle"`
	DisplayName string       `json:"displayName,omitempty"`
	Viewer      *viewerState `json:"viewer,omitempty"`
}

// viewerState carries the relationship between the authenticated account and
// an actor. The values are follow-record AT-URIs; presence is what matters.
type viewerState struct {
	Following  string `json:"following,omitempty"`
	FollowedBy string `json:"followedBy,omitempty"`
}

// postRecord is the original app.bsky.feed.post record inside a post view.
type postRecord struct {
	Text      string    `json:"text"`
	CreatedAt string    `json:"createdAt"`
	Reply     *replyRef `json:"reply,omitempty"`
}

// replyRef references the thread root and immediate parent of a reply.
type replyRef struct {
	Root   postRef `json:"root"`
	Parent postRef `json:"parent"`
}

// postRef is a minimal strong reference to a post (URI + CID).
type postRef struct {
	URI string `json:"uri"`
	CID string `json:"cid"`
}

// embedView is the hydrated embed union on a post view. Exactly one of the
// payload fields is meaningful, selected by Type; Media carries the nested
// media half of a recordWithMedia embed.
type embedView struct {
	Type     string          `json:"$type"`
	Images   []imageView     `json:"images,omitempty"`
	External *externalView   `json:"external,omitempty"`
	Record   json.RawMessage `json:"record,omitempty"`
	Media    *embedView      `json:"media,omitempty"`
}

// imageView is one hydrated image in an images embed.
type imageView struct {
	Thumb    string `json:"thumb"`
	Fullsize string `json:"fullsize"`
	Alt      string `json:"alt,omitempty"`
}

// externalView is the hydrated external-link card of an external embed.
type externalView struct {
	URI         string `json:"uri"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Thumb       string `json:"thumb,omitempty"`
}

// profileView is the detailed actor view from getProfile and searchActors.
type profileView struct {
	DID            string       `json:"did"`
	Handle         string       `json:"handle"`
	DisplayName    string       `json:"displayName,omitempty"`
	Description    string       `json:"description,omitempty"`
	FollowersCount int          `json:"followersCount"`
	FollowsCount   int          `json:"followsCount"`
	PostsCount     int          `json:"postsCount"`
	Viewer         *viewerState `json:"viewer,omitempty"`
}

// followsResponse is one page of app.bsky.graph.getFollows.
type followsResponse struct {
	Cursor  string        `json:"cursor"`
	Follows []profileView `json:"follows"`
}

// followersResponse is one page of app.bsky.graph.getFollowers.
type followersResponse struct {
	Cursor    string        `json:"cursor"`
	Followers []profileView `json:"followers"`
}

// searchActorsResponse is one page of app.bsky.actor.searchActors.
type searchActorsResponse struct {
	Cursor string        `json:"cursor"`
	Actors []profileView `json:"actors"`
}

// postsResponse is the result of app.bsky.feed.getPosts.
type postsResponse struct {
	Posts []postView `json:"posts"`
}
