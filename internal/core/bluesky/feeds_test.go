package bluesky

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Driftwood/internal/core/feed"
)

// serveFeed serves pre-built pages keyed by the page-N cursor scheme.
func serveFeed(pages []feedResponse) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idx := 0
		if cursor := r.URL.Query().Get("cursor"); cursor != "" {
			if n, err := strconv.Atoi(strings.TrimPrefix(cursor, "page-")); err == nil {
				idx = n
			}
		}
		if idx >= len(pages) {
			writeJSON(w, feedResponse{})
			return
		}
		writeJSON(w, pages[idx])
	}
}

func numberedItem(n int) feedItem {
	return basicItem(
		fmt.Sprintf("at://did:plc:feed/app.bsky.feed.post/p%03d", n),
		"poster.test",
		fmt.Sprintf("post %d", n),
	)
}

func asReply(item feedItem) feedItem {
	item.Post.Record.Reply = &replyRef{
		Root:   postRef{URI: "at://did:plc:feed/app.bsky.feed.post/root", CID: "bafyroot"},
		Parent: postRef{URI: "at://did:plc:feed/app.bsky.feed.post/parent", CID: "bafyparent"},
	}
	return item
}

func asRepost(item feedItem) feedItem {
	item.Reason = &feedReason{Type: reasonRepost, By: &actorBasic{Handle: "booster.test"}}
	return item
}

func TestGetTimeline_CollectsAcrossPages(t *testing.T) {
	r, log, host := newFakePDS(t)
	r.Get("/xrpc/app.bsky.feed.getTimeline", serveFeed([]feedResponse{
		{Cursor: "page-1", Feed: []feedItem{numberedItem(1), numberedItem(2), numberedItem(3)}},
		{Cursor: "page-2", Feed: []feedItem{numberedItem(4), numberedItem(5), numberedItem(6)}},
		{Feed: []feedItem{numberedItem(7)}},
	}))
	c := loginClient(t, host)

	posts, err := c.GetTimeline(context.Background(), feed.TimelineOptions{Limit: 5})

	require.NoError(t, err)
	require.Len(t, posts, 5)
	assert.Equal(t, "at://did:plc:feed/app.bsky.feed.post/p001", posts[0].URI)
	assert.Equal(t, "at://did:plc:feed/app.bsky.feed.post/p005", posts[4].URI)
	// The target was hit mid-page, so the third page is never requested.
	assert.Equal(t, 2, log.count("app.bsky.feed.getTimeline"))
}

func TestGetTimeline_TypeFilterSpansPages(t *testing.T) {
	r, log, host := newFakePDS(t)
	r.Get("/xrpc/app.bsky.feed.getTimeline", serveFeed([]feedResponse{
		{Cursor: "page-1", Feed: []feedItem{numberedItem(1), asReply(numberedItem(2)), numberedItem(3)}},
		{Cursor: "page-2", Feed: []feedItem{asReply(numberedItem(4)), numberedItem(5)}},
	}))
	c := loginClient(t, host)

	posts, err := c.GetTimeline(context.Background(), feed.TimelineOptions{Kind: feed.KindPost, Limit: 3})

	require.NoError(t, err)
	require.Len(t, posts, 3)
	for _, p := range posts {
		assert.Equal(t, feed.KindPost, p.Kind)
	}
	assert.Equal(t, "at://did:plc:feed/app.bsky.feed.post/p005", posts[2].URI)
	assert.Equal(t, 2, log.count("app.bsky.feed.getTimeline"))
}

func TestGetTimeline_ExcludeSelf(t *testing.T) {
	r, _, host := newFakePDS(t)
	own := basicItem("at://did:plc:self/app.bsky.feed.post/mine", testHandle, "my own post")
	r.Get("/xrpc/app.bsky.feed.getTimeline", serveFeed([]feedResponse{
		{Feed: []feedItem{numberedItem(1), own, numberedItem(2)}},
	}))
	c := loginClient(t, host)

	posts, err := c.GetTimeline(context.Background(), feed.TimelineOptions{Limit: 10, ExcludeSelf: true})

	require.NoError(t, err)
	require.Len(t, posts, 2)
	for _, p := range posts {
		assert.NotEqual(t, testHandle, p.AuthorHandle)
	}
}

func TestGetTimeline_InvalidTypeRejectedBeforeFetch(t *testing.T) {
	_, log, host := newFakePDS(t)
	c := loginClient(t, host)

	_, err := c.GetTimeline(context.Background(), feed.TimelineOptions{Kind: feed.PostKind("banana")})

	assert.True(t, feed.IsValidationError(err))
	assert.Equal(t, 0, log.count("app.bsky.feed.getTimeline"))
}

func TestGetTimeline_PartialResultOnPageError(t *testing.T) {
	r, log, host := newFakePDS(t)
	r.Get("/xrpc/app.bsky.feed.getTimeline", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Get("cursor") != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"InternalServerError","message":"upstream busted"}`))
			return
		}
		writeJSON(w, feedResponse{
			Cursor: "page-1",
			Feed:   []feedItem{numberedItem(1), numberedItem(2), numberedItem(3)},
		})
	})
	c := loginClient(t, host)

	posts, err := c.GetTimeline(context.Background(), feed.TimelineOptions{Limit: 10})

	require.Error(t, err)
	assert.Len(t, posts, 3, "items collected before the failure are kept")
	assert.Equal(t, 2, log.count("app.bsky.feed.getTimeline"), "no retry on a failed page")
}

func TestGetTimeline_DamagedItemsSkipped(t *testing.T) {
	r, _, host := newFakePDS(t)
	noRecord := feedItem{Post: &postView{URI: "at://did:plc:feed/app.bsky.feed.post/bare", CID: "bafybare"}}
	r.Get("/xrpc/app.bsky.feed.getTimeline", serveFeed([]feedResponse{
		{Feed: []feedItem{{Post: nil}, numberedItem(1), noRecord, numberedItem(2)}},
	}))
	c := loginClient(t, host)

	posts, err := c.GetTimeline(context.Background(), feed.TimelineOptions{Limit: 10})

	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "post 1", posts[0].Text)
	assert.Equal(t, "post 2", posts[1].Text)
}

func TestGetTimeline_PageLimitClamped(t *testing.T) {
	r, _, host := newFakePDS(t)
	var gotLimit atomic.Value
	r.Get("/xrpc/app.bsky.feed.getTimeline", func(w http.ResponseWriter, req *http.Request) {
		gotLimit.Store(req.URL.Query().Get("limit"))
		writeJSON(w, feedResponse{})
	})
	c := loginClient(t, host)

	_, err := c.GetTimeline(context.Background(), feed.TimelineOptions{Limit: 250})

	require.NoError(t, err)
	assert.Equal(t, "100", gotLimit.Load())
}

func TestGetProfilePosts_DefaultsToSelfAndPlainPosts(t *testing.T) {
	r, _, host := newFakePDS(t)
	var gotActor atomic.Value
	r.Get("/xrpc/app.bsky.feed.getAuthorFeed", func(w http.ResponseWriter, req *http.Request) {
		gotActor.Store(req.URL.Query().Get("actor"))
		writeJSON(w, feedResponse{Feed: []feedItem{
			numberedItem(1),
			asReply(numberedItem(2)),
			asRepost(numberedItem(3)),
			numberedItem(4),
		}})
	})
	c := loginClient(t, host)

	posts, err := c.GetProfilePosts(context.Background(), feed.ProfilePostsOptions{})

	require.NoError(t, err)
	assert.Equal(t, testHandle, gotActor.Load())
	require.Len(t, posts, 2)
	assert.Equal(t, "post 1", posts[0].Text)
	assert.Equal(t, "post 4", posts[1].Text)
}

func TestGetProfilePosts_FilterByRepost(t *testing.T) {
	r, _, host := newFakePDS(t)
	var gotActor atomic.Value
	r.Get("/xrpc/app.bsky.feed.getAuthorFeed", func(w http.ResponseWriter, req *http.Request) {
		gotActor.Store(req.URL.Query().Get("actor"))
		writeJSON(w, feedResponse{Feed: []feedItem{
			numberedItem(1),
			asRepost(numberedItem(2)),
			asReply(numberedItem(3)),
			asRepost(numberedItem(4)),
		}})
	})
	c := loginClient(t, host)

	posts, err := c.GetProfilePosts(context.Background(), feed.ProfilePostsOptions{
		Handle: "bob.test",
		Kind:   feed.KindRepost,
		Limit:  10,
	})

	require.NoError(t, err)
	assert.Equal(t, "bob.test", gotActor.Load())
	require.Len(t, posts, 2)
	assert.Equal(t, feed.KindRepost, posts[0].Kind)
	assert.Equal(t, feed.KindRepost, posts[1].Kind)
}

func TestGetProfilePosts_InvalidType(t *testing.T) {
	_, log, host := newFakePDS(t)
	c := loginClient(t, host)

	_, err := c.GetProfilePosts(context.Background(), feed.ProfilePostsOptions{Kind: feed.PostKind("nope")})

	assert.True(t, feed.IsValidationError(err))
	assert.Equal(t, 0, log.count("app.bsky.feed.getAuthorFeed"))
}
