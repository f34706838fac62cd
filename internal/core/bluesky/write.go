package bluesky

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"Driftwood/internal/atproto/pds"
	"Driftwood/internal/core/blobs"
	"Driftwood/internal/core/feed"
)

// maxImagesPerPost matches the images embed limit of the post lexicon.
const maxImagesPerPost = 4

// feedPostRecord is the app.bsky.feed.post record shape this client writes.
type feedPostRecord struct {
	Type      string       `json:"$type"`
	Text      string       `json:"text"`
	CreatedAt string       `json:"createdAt"`
	Reply     *replyRef    `json:"reply,omitempty"`
	Embed     *imagesEmbed `json:"embed,omitempty"`
}

// imagesEmbed is the app.bsky.embed.images record shape.
type imagesEmbed struct {
	Type   string       `json:"$type"`
	Images []imageEmbed `json:"images"`
}

type imageEmbed struct {
	Alt   string         `json:"alt"`
	Image *blobs.BlobRef `json:"image"`
}

// likeRecord is the app.bsky.feed.like record shape.
type likeRecord struct {
	Type      string  `json:"$type"`
	Subject   postRef `json:"subject"`
	CreatedAt string  `json:"createdAt"`
}

// ReplyToPost publishes a reply under the referenced post. The reference may
// be a bsky.app permalink or an at:// URI.
func (c *Client) ReplyToPost(ctx context.Context, text, parentRef string) (*feed.WriteReceipt, error) {
	session, err := c.requireSession("replyToPost")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, feed.NewValidationError("text", "reply text is required")
	}
	parent, err := c.resolvePostRef(ctx, session, "post", parentRef)
	if err != nil {
		return nil, err
	}

	record := feedPostRecord{
		Type:      postCollection,
		Text:      text,
		CreatedAt: nowRFC3339(),
		// The immediate parent doubles as the thread root, so a reply to a
		// mid-thread post anchors to that post rather than the original root.
		Reply: &replyRef{Root: parent, Parent: parent},
	}
	uri, cid, err := session.CreateRecord(ctx, postCollection, record)
	if err != nil {
		return nil, wrapWriteError("replyToPost", err)
	}
	return receiptFor(uri, cid), nil
}

// NewPost publishes a post, optionally embedding up to four images fetched
// from the given URLs.
func (c *Client) NewPost(ctx context.Context, text string, attachmentURLs ...string) (*feed.WriteReceipt, error) {
	session, err := c.requireSession("newPost")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" && len(attachmentURLs) == 0 {
		return nil, feed.NewValidationError("text", "post text or an attachment is required")
	}
	if len(attachmentURLs) > maxImagesPerPost {
		return nil, feed.NewValidationError("attachments",
			fmt.Sprintf("at most %d images per post", maxImagesPerPost))
	}

	record := feedPostRecord{
		Type:      postCollection,
		Text:      text,
		CreatedAt: nowRFC3339(),
	}
	if len(attachmentURLs) > 0 {
		embed, err := c.uploadImages(ctx, session, attachmentURLs)
		if err != nil {
			return nil, fmt.Errorf("newPost: %w", err)
		}
		record.Embed = embed
	}

	uri, cid, err := session.CreateRecord(ctx, postCollection, record)
	if err != nil {
		return nil, wrapWriteError("newPost", err)
	}
	return receiptFor(uri, cid), nil
}

// LikePost records a like on the referenced post.
func (c *Client) LikePost(ctx context.Context, ref string) (*feed.WriteReceipt, error) {
	session, err := c.requireSession("likePost")
	if err != nil {
		return nil, err
	}
	subject, err := c.resolvePostRef(ctx, session, "post", ref)
	if err != nil {
		return nil, err
	}

	record := likeRecord{
		Type:      likeCollection,
		Subject:   subject,
		CreatedAt: nowRFC3339(),
	}
	uri, cid, err := session.CreateRecord(ctx, likeCollection, record)
	if err != nil {
		return nil, wrapWriteError("likePost", err)
	}
	return receiptFor(uri, cid), nil
}

// uploadImages downloads every attachment URL and uploads it to the PDS, one
// goroutine per image. Individual failures drop that image with a warning;
// the call only fails when nothing survives.
func (c *Client) uploadImages(ctx context.Context, session pds.Client, urls []string) (*imagesEmbed, error) {
	uploaded := make([]*blobs.BlobRef, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	for i, rawURL := range urls {
		g.Go(func() error {
			data, _, err := blobs.FetchImage(gctx, c.http, rawURL)
			if err != nil {
				c.logger.Warn("attachment fetch failed, dropping",
					"url", rawURL, "error", err)
				return nil
			}
			ref, err := session.UploadBlob(gctx, data)
			if err != nil {
				c.logger.Warn("attachment upload failed, dropping",
					"url", rawURL, "error", err)
				return nil
			}
			c.tracef("attachment uploaded", "url", rawURL, "cid", ref.CID())
			uploaded[i] = ref
			return nil
		})
	}
	_ = g.Wait()

	images := make([]imageEmbed, 0, len(uploaded))
	for _, ref := range uploaded {
		if ref == nil {
			continue
		}
		images = append(images, imageEmbed{Image: ref})
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("none of %d attachments could be uploaded", len(urls))
	}
	return &imagesEmbed{Type: "app.bsky.embed.images", Images: images}, nil
}

// resolvePostRef turns a post reference into a strong reference by fetching
// the live record, so writes always carry the referenced post's current CID.
func (c *Client) resolvePostRef(ctx context.Context, session pds.Client, field, ref string) (postRef, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return postRef{}, feed.NewValidationError(field, "a post URL or at:// URI is required")
	}

	var atURI string
	switch {
	case IsPostURL(ref):
		parsed, err := ParsePostURL(ctx, session, ref)
		if err != nil {
			return postRef{}, err
		}
		atURI = parsed
	case strings.HasPrefix(ref, "at://"):
		atURI = ref
	default:
		return postRef{}, feed.NewValidationError(field, "must be a bsky.app post URL or an at:// URI")
	}

	var result postsResponse
	if err := session.Query(ctx, "app.bsky.feed.getPosts", map[string]any{"uris": atURI}, &result); err != nil {
		if errors.Is(err, pds.ErrNotFound) {
			return postRef{}, feed.NewNotFoundError("post", ref)
		}
		return postRef{}, fmt.Errorf("resolving post %q: %w", ref, err)
	}
	if len(result.Posts) == 0 {
		return postRef{}, feed.NewNotFoundError("post", ref)
	}
	return postRef{URI: result.Posts[0].URI, CID: result.Posts[0].CID}, nil
}

// wrapWriteError keeps expired-session failures recognizable as auth errors.
func wrapWriteError(op string, err error) error {
	if pds.IsAuthError(err) {
		return feed.NewAuthError(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// receiptFor builds the write receipt for a freshly created record.
func receiptFor(uri, cid string) *feed.WriteReceipt {
	return &feed.WriteReceipt{ID: lastURISegment(uri), URI: uri, CID: cid}
}

// lastURISegment extracts the record key from an AT-URI.
func lastURISegment(uri string) string {
	idx := strings.LastIndex(uri, "/")
	if idx < 0 || idx == len(uri)-1 {
		return uri
	}
	return uri[idx+1:]
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}
