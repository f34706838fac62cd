package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Driftwood/internal/core/feed"
)

func mustThing(t *testing.T, kind string, v any) thing {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return thing{Kind: kind, Data: raw}
}

func numberedLink(t *testing.T, n int) thing {
	return mustThing(t, kindLink, linkData{
		ID:     fmt.Sprintf("p%03d", n),
		Name:   fmt.Sprintf("t3_p%03d", n),
		Title:  fmt.Sprintf("post %d", n),
		Author: "poster",
		IsSelf: true,
	})
}

func numberedComment(t *testing.T, n int) thing {
	return mustThing(t, kindComment, commentData{
		ID:       fmt.Sprintf("c%03d", n),
		Name:     fmt.Sprintf("t1_c%03d", n),
		Author:   "replier",
		Body:     fmt.Sprintf("comment %d", n),
		ParentID: "t3_parent",
	})
}

// serveListing serves pre-built pages keyed by the page-N after scheme.
func serveListing(pages []listingData) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idx := 0
		switch r.URL.Query().Get("after") {
		case "page-1":
			idx = 1
		case "page-2":
			idx = 2
		}
		if idx >= len(pages) {
			writeJSON(w, listingEnvelope{Kind: "Listing"})
			return
		}
		writeJSON(w, listingEnvelope{Kind: "Listing", Data: pages[idx]})
	}
}

func TestGetHomeFeed_CollectsAcrossPages(t *testing.T) {
	r, log, c := loggedIn(t)
	r.Get("/best", serveListing([]listingData{
		{After: "page-1", Children: []thing{numberedLink(t, 1), numberedLink(t, 2), numberedLink(t, 3)}},
		{After: "page-2", Children: []thing{numberedLink(t, 4), numberedLink(t, 5)}},
		{Children: []thing{numberedLink(t, 6)}},
	}))

	posts, err := c.GetHomeFeed(context.Background(), 4, "")

	require.NoError(t, err)
	require.Len(t, posts, 4)
	assert.Equal(t, "t3_p001", posts[0].URI)
	assert.Equal(t, "t3_p004", posts[3].URI)
	assert.Equal(t, 2, log.count("/best"))
}

func TestGetHomeFeed_SortRouting(t *testing.T) {
	r, log, c := loggedIn(t)
	r.Get("/rising", serveListing([]listingData{
		{Children: []thing{numberedLink(t, 1)}},
	}))

	posts, err := c.GetHomeFeed(context.Background(), 5, SortRising)

	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, 1, log.count("/rising"))
}

func TestGetHomeFeed_BadSort(t *testing.T) {
	_, log, c := loggedIn(t)
	before := log.total()

	_, err := c.GetHomeFeed(context.Background(), 5, "spiciest")

	assert.True(t, feed.IsValidationError(err))
	assert.Equal(t, before, log.total(), "no request may be sent for a bad sort")
}

func TestGetSubredditFeed(t *testing.T) {
	r, log, c := loggedIn(t)
	var gotLimit string
	r.Get("/r/hiking/new", func(w http.ResponseWriter, req *http.Request) {
		gotLimit = req.URL.Query().Get("limit")
		serveListing([]listingData{
			{Children: []thing{numberedLink(t, 1), numberedLink(t, 2)}},
		})(w, req)
	})

	posts, err := c.GetSubredditFeed(context.Background(), "r/hiking", 2, SortNew)

	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "2", gotLimit)
	assert.Equal(t, 1, log.count("/r/hiking/new"))
}

func TestGetSubredditFeed_DefaultsToHot(t *testing.T) {
	r, log, c := loggedIn(t)
	r.Get("/r/hiking/hot", serveListing([]listingData{
		{Children: []thing{numberedLink(t, 1)}},
	}))

	_, err := c.GetSubredditFeed(context.Background(), "hiking", 5, "")

	require.NoError(t, err)
	assert.Equal(t, 1, log.count("/r/hiking/hot"))
}

func TestGetSubredditFeed_BogusSortSendsNothing(t *testing.T) {
	_, log, c := loggedIn(t)
	before := log.total()

	_, err := c.GetSubredditFeed(context.Background(), "hiking", 5, "bogus")

	assert.True(t, feed.IsValidationError(err))
	assert.Equal(t, before, log.total(), "no request may be sent for a bad sort")
}

func TestGetSubredditFeed_BestIsFrontPageOnly(t *testing.T) {
	_, log, c := loggedIn(t)
	before := log.total()

	_, err := c.GetSubredditFeed(context.Background(), "hiking", 5, SortBest)

	assert.True(t, feed.IsValidationError(err))
	assert.Equal(t, before, log.total())
}

func TestGetSubredditFeed_EmptySubreddit(t *testing.T) {
	_, _, c := loggedIn(t)

	_, err := c.GetSubredditFeed(context.Background(), "  ", 5, SortHot)

	assert.True(t, feed.IsValidationError(err))
}

func TestGetTimeline_FiltersKindAndSelf(t *testing.T) {
	r, _, c := loggedIn(t)
	own := mustThing(t, kindLink, linkData{Name: "t3_mine", Title: "my own", Author: testUser, IsSelf: true})
	crosspost := mustThing(t, kindLink, linkData{
		Name: "t3_x1", Title: "seen elsewhere", Author: "curator",
		CrosspostParents: []json.RawMessage{json.RawMessage(`{}`)},
	})
	r.Get("/best", serveListing([]listingData{
		{Children: []thing{numberedLink(t, 1), own, crosspost, numberedLink(t, 2)}},
	}))

	posts, err := c.GetTimeline(context.Background(), feed.TimelineOptions{
		Kind:        feed.KindPost,
		Limit:       10,
		ExcludeSelf: true,
	})

	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "t3_p001", posts[0].URI)
	assert.Equal(t, "t3_p002", posts[1].URI)
}

func TestGetTimeline_PartialResultOnPageError(t *testing.T) {
	r, _, c := loggedIn(t)
	r.Get("/best", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Get("after") != "" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(w, listingEnvelope{Kind: "Listing", Data: listingData{
			After:    "page-1",
			Children: []thing{numberedLink(t, 1), numberedLink(t, 2)},
		}})
	})

	posts, err := c.GetTimeline(context.Background(), feed.TimelineOptions{Limit: 10})

	require.Error(t, err)
	assert.Len(t, posts, 2, "items collected before the failure are kept")
}

func TestGetProfilePosts_OverviewMixesKinds(t *testing.T) {
	r, log, c := loggedIn(t)
	r.Get("/user/"+testUser+"/overview", serveListing([]listingData{
		{Children: []thing{
			numberedLink(t, 1),
			numberedComment(t, 2),
			numberedLink(t, 3),
			numberedComment(t, 4),
		}},
	}))

	t.Run("defaults to own plain posts", func(t *testing.T) {
		posts, err := c.GetProfilePosts(context.Background(), feed.ProfilePostsOptions{})
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, feed.KindPost, posts[0].Kind)
		assert.Equal(t, feed.KindPost, posts[1].Kind)
	})

	t.Run("comments when asked for replies", func(t *testing.T) {
		posts, err := c.GetProfilePosts(context.Background(), feed.ProfilePostsOptions{Kind: feed.KindReply})
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, "t1_c002", posts[0].URI)
		assert.Equal(t, "t1_c004", posts[1].URI)
	})

	assert.Equal(t, 2, log.count("/user/"+testUser+"/overview"))
}

func TestGetProfilePosts_ExplicitHandle(t *testing.T) {
	r, log, c := loggedIn(t)
	r.Get("/user/rambler/overview", serveListing([]listingData{
		{Children: []thing{numberedLink(t, 1)}},
	}))

	posts, err := c.GetProfilePosts(context.Background(), feed.ProfilePostsOptions{Handle: "u/rambler"})

	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, 1, log.count("/user/rambler/overview"))
}
