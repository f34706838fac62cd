package pds

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bluesky-social/indigo/atproto/atclient"
	"github.com/bluesky-social/indigo/atproto/syntax"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// LoginWithPassword establishes a session via com.atproto.server.createSession
// and returns a client authenticated with the resulting Bearer token.
// identifier may be a handle or a DID.
func LoginWithPassword(ctx context.Context, host, identifier, password string) (Client, error) {
	if host == "" {
		return nil, fmt.Errorf("host is required")
	}
	if identifier == "" {
		return nil, fmt.Errorf("identifier is required")
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}

	apiClient := atclient.NewAPIClient(host)

	var session struct {
		DID        string `json:"did"`
		Handle     string `json:"handle"`
		AccessJwt  string `json:"accessJwt"`
		RefreshJwt string `json:"refreshJwt"`
	}

	payload := map[string]any{
		"identifier": identifier,
		"password":   password,
	}

	if err := apiClient.Post(ctx, syntax.NSID("com.atproto.server.createSession"), payload, &session); err != nil {
		return nil, wrapAPIError(err, "createSession")
	}
	if session.AccessJwt == "" {
		return nil, fmt.Errorf("createSession: response carried no access token")
	}

	apiClient.Auth = &bearerAuth{token: session.AccessJwt}

	c := &client{
		apiClient: apiClient,
		did:       session.DID,
		handle:    session.Handle,
		host:      host,
	}

	// The access token is a JWT whose exp claim tells us when the session
	// lapses. Introspection only; the PDS remains the authority.
	if tok, err := jwt.ParseInsecure([]byte(session.AccessJwt)); err == nil {
		c.expiresAt = tok.Expiration()
	}

	return c, nil
}

// NewFromAccessToken creates a client from an existing Bearer token, skipping
// the createSession round trip. Useful when a valid token is already at hand.
func NewFromAccessToken(host, did, handle, accessToken string) (Client, error) {
	if host == "" {
		return nil, fmt.Errorf("host is required")
	}
	if did == "" {
		return nil, fmt.Errorf("did is required")
	}
	if accessToken == "" {
		return nil, fmt.Errorf("accessToken is required")
	}

	apiClient := atclient.NewAPIClient(host)
	apiClient.Auth = &bearerAuth{token: accessToken}

	c := &client{
		apiClient: apiClient,
		did:       did,
		handle:    handle,
		host:      host,
	}

	if tok, err := jwt.ParseInsecure([]byte(accessToken)); err == nil {
		c.expiresAt = tok.Expiration()
	}

	return c, nil
}

// bearerAuth implements atclient.AuthMethod for simple Bearer token auth.
type bearerAuth struct {
	token string
}

// Ensure bearerAuth implements atclient.AuthMethod.
var _ atclient.AuthMethod = (*bearerAuth)(nil)

// DoWithAuth adds the Bearer token to the request and executes it.
func (b *bearerAuth) DoWithAuth(c *http.Client, req *http.Request, _ syntax.NSID) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+b.token)
	return c.Do(req)
}
