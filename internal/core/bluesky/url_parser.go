package bluesky

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"Driftwood/internal/core/feed"
)

// postURLPattern matches public bsky.app post permalinks. The profile segment
// is either a handle or a DID; the trailing segment is the record key.
var postURLPattern = regexp.MustCompile(`^https://bsky\.app/profile/([^/]+)/post/([^/]+)$`)

// rkeyPattern constrains record keys to the characters a PDS actually mints.
var rkeyPattern = regexp.MustCompile(`^[a-zA-Z0-9]{3,20}$`)

// HandleResolver resolves an account handle to its DID.
type HandleResolver interface {
	ResolveHandle(ctx context.Context, handle string) (string, error)
}

// IsPostURL reports whether s looks like a public bsky.app post permalink.
func IsPostURL(s string) bool {
	return postURLPattern.MatchString(s)
}

// ParsePostURL turns a bsky.app post permalink into its at:// record URI,
// resolving the handle in the profile segment to a DID when needed.
func ParsePostURL(ctx context.Context, resolver HandleResolver, rawURL string) (string, error) {
	matches := postURLPattern.FindStringSubmatch(strings.TrimSpace(rawURL))
	if matches == nil {
		return "", feed.NewValidationError("url", "not a bsky.app post URL")
	}
	identifier := matches[1]
	rkey := matches[2]
	if !rkeyPattern.MatchString(rkey) {
		return "", feed.NewValidationError("url", fmt.Sprintf("invalid record key %q", rkey))
	}

	did := identifier
	if !strings.HasPrefix(identifier, "did:") {
		resolved, err := resolver.ResolveHandle(ctx, identifier)
		if err != nil {
			return "", fmt.Errorf("resolving handle %q: %w", identifier, err)
		}
		did = resolved
	}
	return fmt.Sprintf("at://%s/app.bsky.feed.post/%s", did, rkey), nil
}
