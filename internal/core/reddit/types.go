package reddit

import "encoding/json"

// Thing kind tags used by the listing API.
const (
	kindComment = "t1"
	kindAccount = "t2"
	kindLink    = "t3"
)

// Feed sort modes. "best" only exists on the logged-in front page, so the
// subreddit set drops it.
const (
	SortBest          = "best"
	SortHot           = "hot"
	SortNew           = "new"
	SortTop           = "top"
	SortRising        = "rising"
	SortControversial = "controversial"
)

var homeSorts = map[string]bool{
	SortBest:          true,
	SortHot:           true,
	SortNew:           true,
	SortTop:           true,
	SortRising:        true,
	SortControversial: true,
}

var subredditSorts = map[string]bool{
	SortHot:           true,
	SortNew:           true,
	SortTop:           true,
	SortRising:        true,
	SortControversial: true,
}

// listingEnvelope is the outer wrapper of every listing endpoint.
type listingEnvelope struct {
	Kind string      `json:"kind"`
	Data listingData `json:"data"`
}

type listingData struct {
	After    string  `json:"after"`
	Children []thing `json:"children"`
}

// thing is the tagged union the API wraps every object in. Data stays raw
// until the kind tag picks the shape to decode into.
type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// linkData is a t3 submission.
type linkData struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Title            string            `json:"title"`
	SelfText         string            `json:"selftext"`
	Author           string            `json:"author"`
	Subreddit        string            `json:"subreddit"`
	Permalink        string            `json:"permalink"`
	URL              string            `json:"url"`
	IsSelf           bool              `json:"is_self"`
	PostHint         string            `json:"post_hint"`
	Thumbnail        string            `json:"thumbnail"`
	CreatedUTC       float64           `json:"created_utc"`
	Score            int               `json:"score"`
	NumComments      int               `json:"num_comments"`
	NumCrossposts    int               `json:"num_crossposts"`
	CrosspostParents []json.RawMessage `json:"crosspost_parent_list"`
}

// commentData is a t1 comment.
type commentData struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Author     string  `json:"author"`
	Body       string  `json:"body"`
	ParentID   string  `json:"parent_id"`
	LinkID     string  `json:"link_id"`
	Permalink  string  `json:"permalink"`
	CreatedUTC float64 `json:"created_utc"`
	Score      int     `json:"score"`
}

// accountData is a t2 account, as returned by /api/v1/me, about pages and
// user search.
type accountData struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	IsFriend     bool              `json:"is_friend"`
	LinkKarma    int               `json:"link_karma"`
	CommentKarma int               `json:"comment_karma"`
	TotalKarma   int               `json:"total_karma"`
	CreatedUTC   float64           `json:"created_utc"`
	Subreddit    *accountSubreddit `json:"subreddit"`
}

// accountSubreddit is the profile-subreddit block carrying the public face
// of an account.
type accountSubreddit struct {
	Title             string `json:"title"`
	PublicDescription string `json:"public_description"`
	Subscribers       int    `json:"subscribers"`
}

// jsonResponse is the api_type=json envelope returned by write endpoints.
type jsonResponse struct {
	JSON struct {
		Errors [][]any           `json:"errors"`
		Data   *jsonResponseData `json:"data"`
	} `json:"json"`
}

type jsonResponseData struct {
	Things []thing `json:"things"`
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	URL    string  `json:"url"`
}

// SubmitError is one entry of the errors array a write endpoint returns.
type SubmitError struct {
	Code    string
	Message string
	Field   string
}

func (e *SubmitError) Error() string {
	if e.Field != "" {
		return "reddit api: " + e.Code + ": " + e.Message + " (" + e.Field + ")"
	}
	return "reddit api: " + e.Code + ": " + e.Message
}

// submitError converts the first errors entry into a SubmitError, or nil
// when the write succeeded.
func (r *jsonResponse) submitError() error {
	if len(r.JSON.Errors) == 0 {
		return nil
	}
	e := &SubmitError{}
	entry := r.JSON.Errors[0]
	if len(entry) > 0 {
		e.Code, _ = entry[0].(string)
	}
	if len(entry) > 1 {
		e.Message, _ = entry[1].(string)
	}
	if len(entry) > 2 {
		e.Field, _ = entry[2].(string)
	}
	return e
}
