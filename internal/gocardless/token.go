package gocardless

import (
	"context"
	"net/http"
	"time"
)

// tokenExpiryMargin treats the token as expired this long before its
// reported lifetime, to tolerate clock drift and in-flight requests.
const tokenExpiryMargin = time.Hour

// token returns a valid bearer token, fetching a new one if none is cached
// or the cached one is inside the expiry margin.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	secretID, secretKey := c.creds.Credentials()
	if secretID == "" || secretKey == "" {
		return "", ErrCredentialsMissing
	}

	body := map[string]string{
		"secret_id":  secretID,
		"secret_key": secretKey,
	}
	var resp tokenResponse
	if err := c.send(ctx, http.MethodPost, "/token/new/", nil, body, &resp, ""); err != nil {
		return "", err
	}

	c.accessToken = resp.Access
	c.tokenExpiry = time.Now().Add(time.Duration(resp.AccessExpires)*time.Second - tokenExpiryMargin)
	return c.accessToken, nil
}

// Invalidate drops the cached token. Called on any credential change so a
// stale session is never reused.
func (c *Client) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = ""
	c.tokenExpiry = time.Time{}
}
