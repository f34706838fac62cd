package feed

import "context"

// Reader is the read surface shared by the provider clients. Every method
// except ParseFeedItem requires a logged-in session.
type Reader interface {
	// GetTimeline returns the authenticated account's home feed.
	GetTimeline(ctx context.Context, opts TimelineOptions) ([]*Post, error)

	// GetProfilePosts returns posts authored by one account.
	GetProfilePosts(ctx context.Context, opts ProfilePostsOptions) ([]*Post, error)

	// GetProfile fetches a single profile. An empty handle means the
	// authenticated account.
	GetProfile(ctx context.Context, handle string) (*ProfileSummary, error)

	// SearchUsers finds profiles matching a free-text query.
	SearchUsers(ctx context.Context, query string, limit int) ([]*ProfileSummary, error)

	// ParseFeedItem normalizes one raw provider feed item. It is pure and
	// performs no I/O; items without a usable post payload yield nil.
	ParseFeedItem(raw []byte) *Post
}

// Writer is the write surface shared by the provider clients.
type Writer interface {
	// ReplyToPost publishes a reply under the referenced parent.
	ReplyToPost(ctx context.Context, text, parentRef string) (*WriteReceipt, error)

	// NewPost publishes a top-level post, uploading any attachment URLs the
	// provider supports.
	NewPost(ctx context.Context, text string, attachmentURLs ...string) (*WriteReceipt, error)

	// LikePost marks the referenced post as liked (upvoted).
	LikePost(ctx context.Context, postRef string) (*WriteReceipt, error)
}

// GraphReader exposes the follow graph. Only providers with a queryable
// follower graph implement it.
type GraphReader interface {
	// GetFollows lists accounts the given account follows.
	GetFollows(ctx context.Context, handle string, limit int) ([]FollowEntry, error)

	// GetFollowers lists accounts following the given account.
	GetFollowers(ctx context.Context, handle string, limit int) ([]FollowEntry, error)

	// GetNonMutualFollows lists accounts the authenticated account follows
	// that do not follow back.
	GetNonMutualFollows(ctx context.Context, limit int) ([]FollowEntry, error)
}

// Client is the full surface of one provider: session establishment plus
// reads and writes. A Client owns its session exclusively and moves from
// unauthenticated to authenticated exactly once; there is no logout.
type Client interface {
	// Login establishes the session. All other operations fail with an
	// AuthError until it succeeds.
	Login(ctx context.Context) error

	Reader
	Writer
}
