// Package pds provides an authenticated session against an AT Protocol PDS.
// It wraps indigo's atclient.APIClient behind a small interface so the
// Bluesky client can issue XRPC queries and repo writes without knowing how
// the session was established.
package pds

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"Driftwood/internal/core/blobs"

	comatproto "github.com/bluesky-social/indigo/api/atproto"
	"github.com/bluesky-social/indigo/atproto/atclient"
	"github.com/bluesky-social/indigo/atproto/syntax"
)

// Client is an authenticated session with a PDS. One Client belongs to one
// account; it is created logged-in and never transitions back.
type Client interface {
	// Query issues an XRPC query (HTTP GET) and decodes the response into out.
	// out may be nil when the response body is irrelevant.
	Query(ctx context.Context, nsid string, params map[string]any, out any) error

	// Procedure issues an XRPC procedure (HTTP POST) with a JSON input body.
	Procedure(ctx context.Context, nsid string, input any, out any) error

	// CreateRecord creates a record in the account's repository. The record
	// key is always generated by the PDS. Returns the record URI and CID.
	CreateRecord(ctx context.Context, collection string, record any) (uri string, cid string, err error)

	// UploadBlob uploads binary data to the account's repository. The PDS
	// detects the MIME type from the content; the returned BlobRef carries
	// the detected type.
	UploadBlob(ctx context.Context, data []byte) (*blobs.BlobRef, error)

	// ResolveHandle resolves a handle to its DID via the session's PDS.
	ResolveHandle(ctx context.Context, handle string) (string, error)

	// DID returns the authenticated account's DID.
	DID() string

	// Handle returns the authenticated account's handle.
	Handle() string

	// Host returns the PDS host URL.
	Host() string

	// AccessExpiry returns the access token's expiry as read from its JWT
	// claims at login. Zero when the token could not be introspected.
	AccessExpiry() time.Time
}

// client implements Client using indigo's APIClient with Bearer auth.
type client struct {
	apiClient *atclient.APIClient
	did       string
	handle    string
	host      string
	expiresAt time.Time
}

// Ensure client implements Client interface.
var _ Client = (*client)(nil)

// wrapAPIError inspects an error from atclient and wraps it with our typed
// errors so callers can use errors.Is() for reliable error detection.
func wrapAPIError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var apiErr *atclient.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 400:
			return fmt.Errorf("%s: %w: %s", operation, ErrBadRequest, apiErr.Message)
		case 401:
			return fmt.Errorf("%s: %w: %s", operation, ErrUnauthorized, apiErr.Message)
		case 403:
			return fmt.Errorf("%s: %w: %s", operation, ErrForbidden, apiErr.Message)
		case 404:
			return fmt.Errorf("%s: %w: %s", operation, ErrNotFound, apiErr.Message)
		case 413:
			return fmt.Errorf("%s: %w: %s", operation, ErrPayloadTooLarge, apiErr.Message)
		case 429:
			return fmt.Errorf("%s: %w: %s", operation, ErrRateLimited, apiErr.Message)
		}
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}

func (c *client) DID() string {
	return c.did
}

func (c *client) Handle() string {
	return c.handle
}

func (c *client) Host() string {
	return c.host
}

func (c *client) AccessExpiry() time.Time {
	return c.expiresAt
}

// Query issues an XRPC query and decodes the JSON response into out.
func (c *client) Query(ctx context.Context, nsid string, params map[string]any, out any) error {
	err := c.apiClient.Get(ctx, syntax.NSID(nsid), params, out)
	if err != nil {
		return wrapAPIError(err, nsid)
	}
	return nil
}

// Procedure issues an XRPC procedure with a JSON body.
func (c *client) Procedure(ctx context.Context, nsid string, input any, out any) error {
	err := c.apiClient.Post(ctx, syntax.NSID(nsid), input, out)
	if err != nil {
		return wrapAPIError(err, nsid)
	}
	return nil
}

// CreateRecord creates a record in the account's repository.
func (c *client) CreateRecord(ctx context.Context, collection string, record any) (string, string, error) {
	payload := map[string]any{
		"repo":       c.did,
		"collection": collection,
		"record":     record,
	}

	var result struct {
		URI string `json:"uri"`
		CID string `json:"cid"`
	}

	err := c.apiClient.Post(ctx, syntax.NSID("com.atproto.repo.createRecord"), payload, &result)
	if err != nil {
		return "", "", wrapAPIError(err, "createRecord")
	}

	return result.URI, result.CID, nil
}

// UploadBlob uploads binary data to the account's repository.
func (c *client) UploadBlob(ctx context.Context, data []byte) (*blobs.BlobRef, error) {
	result, err := comatproto.RepoUploadBlob(ctx, c.apiClient, bytes.NewReader(data))
	if err != nil {
		return nil, wrapAPIError(err, "uploadBlob")
	}

	return &blobs.BlobRef{
		Type:     "blob",
		Ref:      map[string]string{"$link": result.Blob.Ref.String()},
		MimeType: result.Blob.MimeType,
		Size:     int(result.Blob.Size),
	}, nil
}

// ResolveHandle resolves a handle to its DID.
func (c *client) ResolveHandle(ctx context.Context, handle string) (string, error) {
	if handle == "" {
		return "", fmt.Errorf("resolveHandle: handle is required")
	}

	var result struct {
		DID string `json:"did"`
	}

	err := c.apiClient.Get(ctx, syntax.NSID("com.atproto.identity.resolveHandle"), map[string]any{"handle": handle}, &result)
	if err != nil {
		return "", wrapAPIError(err, "resolveHandle")
	}

	return result.DID, nil
}
