// Package credentials models the token material a session authenticates
// with: a static access token, an OAuth-backed token that refreshes
// itself, and the SFDX auth-URL encoding used to move one between
// machines without exposing raw client secrets in shell history.
package credentials

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Credentials is anything that can hand a session a bearer token and an
// instance URL, and (where supported) refresh itself once the token is
// stale.
type Credentials interface {
	AccessToken() string
	InstanceURL() string
	IsExpired() bool
	// Refresh obtains a new token, replacing the one currently held.
	// Implementations that cannot refresh (e.g. a bare static token)
	// return a non-nil error.
	Refresh() (*TokenResponse, error)
}

// TokenResponse is the normalized shape of a Salesforce OAuth token
// endpoint response, mirroring the teacher's inline tokenResp struct in
// auth/authenticator.go generalized across all three grant types.
type TokenResponse struct {
	AccessToken  string
	TokenType    string
	RefreshToken string
	InstanceURL  string
	ID           string
	IssuedAt     time.Time
	ExpiresAt    time.Time
	Scope        string
}

// IsExpired reports whether the token response has passed its ExpiresAt,
// treating a zero ExpiresAt as never-expiring (Salesforce access tokens
// don't always carry an explicit lifetime in the response body).
func (t *TokenResponse) IsExpired() bool {
	if t == nil || t.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(t.ExpiresAt)
}

// StaticCredentials wraps a pre-issued access token with no refresh
// capability, matching the teacher's TokenAuthenticator.
type StaticCredentials struct {
	mu          sync.RWMutex
	accessToken string
	instanceURL string
}

// NewStaticCredentials builds credentials around an already-issued token.
func NewStaticCredentials(accessToken, instanceURL string) *StaticCredentials {
	return &StaticCredentials{accessToken: accessToken, instanceURL: instanceURL}
}

func (c *StaticCredentials) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

func (c *StaticCredentials) InstanceURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.instanceURL
}

func (c *StaticCredentials) IsExpired() bool { return false }

func (c *StaticCredentials) Refresh() (*TokenResponse, error) {
	return nil, fmt.Errorf("static credentials cannot be refreshed")
}

// OAuthConfig names the moving parts of an OAuth 2.0 client registered
// with a Salesforce connected app.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string // e.g. https://login.salesforce.com/services/oauth2/token
	RedirectURI  string // used only by the web-server flow
}

// CachedCredentials holds a TokenResponse and a refresh function, applying
// the refresh result under a mutex the way the teacher's
// BaseAuthenticator.SetToken does.
type CachedCredentials struct {
	mu      sync.RWMutex
	current *TokenResponse
	doRefresh func() (*TokenResponse, error)
}

// NewCachedCredentials wraps a refresh closure (typically an
// oauth.Client method) with a mutex-guarded cache of the last token.
func NewCachedCredentials(initial *TokenResponse, doRefresh func() (*TokenResponse, error)) *CachedCredentials {
	return &CachedCredentials{current: initial, doRefresh: doRefresh}
}

func (c *CachedCredentials) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return ""
	}
	return c.current.AccessToken
}

func (c *CachedCredentials) InstanceURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return ""
	}
	return c.current.InstanceURL
}

func (c *CachedCredentials) IsExpired() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.IsExpired()
}

func (c *CachedCredentials) Refresh() (*TokenResponse, error) {
	tok, err := c.doRefresh()
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.current = tok
	c.mu.Unlock()
	return tok, nil
}

// ParseSFDXAuthURL decodes an SFDX-style auth URL of the form
// force://<clientId>:<clientSecret>:<refreshToken>[:<username>]@<instanceHost>,
// where clientSecret may be empty (force://id::refresh@host) for connected
// apps with no secret, and the optional trailing username segment is
// accepted and discarded. It returns the OAuth config to use for the
// token exchange, the refresh token, and the raw instance host/URL found
// after the '@' so callers can record it as instance_url without waiting
// on a live token response.
func ParseSFDXAuthURL(raw string) (OAuthConfig, string, string, error) {
	const scheme = "force://"
	if !strings.HasPrefix(raw, scheme) {
		return OAuthConfig{}, "", "", fmt.Errorf("sfdx auth url must start with %q", scheme)
	}
	body := raw[len(scheme):]
	at := strings.LastIndex(body, "@")
	if at < 0 {
		return OAuthConfig{}, "", "", fmt.Errorf("sfdx auth url missing '@' host separator")
	}
	creds, host := body[:at], body[at+1:]
	if host == "" {
		return OAuthConfig{}, "", "", fmt.Errorf("sfdx auth url missing instance host")
	}
	// clientId:clientSecret:refreshToken[:username] — split with a limit of
	// 4 so a username containing ':' still lands entirely in the 4th slot
	// rather than bleeding into the refresh token.
	parts := strings.SplitN(creds, ":", 4)
	if len(parts) < 3 {
		return OAuthConfig{}, "", "", fmt.Errorf("sfdx auth url must encode clientId:clientSecret:refreshToken[:username]")
	}
	clientID, clientSecret, refreshToken := parts[0], parts[1], parts[2]
	if clientID == "" || refreshToken == "" {
		return OAuthConfig{}, "", "", fmt.Errorf("sfdx auth url missing clientId or refreshToken")
	}
	dec := func(s string) (string, error) {
		if s == "" {
			return "", nil
		}
		v, err := url.QueryUnescape(s)
		if err != nil {
			return "", fmt.Errorf("sfdx auth url decode failed: %w", err)
		}
		return v, nil
	}
	clientID, err := dec(clientID)
	if err != nil {
		return OAuthConfig{}, "", "", err
	}
	clientSecret, err = dec(clientSecret)
	if err != nil {
		return OAuthConfig{}, "", "", err
	}
	refreshToken, err = dec(refreshToken)
	if err != nil {
		return OAuthConfig{}, "", "", err
	}
	cfg := OAuthConfig{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     sfdxTokenURL(host),
	}
	instanceURL := host
	if !strings.Contains(instanceURL, "://") {
		instanceURL = "https://" + instanceURL
	}
	return cfg, refreshToken, instanceURL, nil
}

// sfdxTokenURL implements the SFDX routing rule: a localhost/127.0.0.1
// instance host talks to itself, a sandbox/scratch host routes to
// test.salesforce.com, and everything else routes to the production
// login endpoint — connected apps are registered against the login
// endpoint for their environment, not the instance host itself.
func sfdxTokenURL(host string) string {
	switch {
	case strings.Contains(host, "localhost"), strings.Contains(host, "127.0.0.1"):
		return strings.TrimSuffix(host, "/") + "/services/oauth2/token"
	case strings.Contains(host, "test.salesforce.com"), strings.Contains(host, "sandbox"), strings.Contains(host, ".scratch."):
		return "https://test.salesforce.com/services/oauth2/token"
	default:
		return "https://login.salesforce.com/services/oauth2/token"
	}
}

// SFDXAuthURL is the inverse of ParseSFDXAuthURL: it encodes a connected
// app + refresh token back into the force:// form, for tooling that needs
// to persist credentials the way `sf org display --verbose` does.
// instanceURL must be the instance host (as returned by ParseSFDXAuthURL),
// not the token endpoint: once TokenURL is routed to a shared
// login/test.salesforce.com endpoint it no longer identifies the instance.
func SFDXAuthURL(cfg OAuthConfig, refreshToken, instanceURL string) (string, error) {
	if instanceURL == "" {
		return "", fmt.Errorf("instance url is required to encode an sfdx auth url")
	}
	host := strings.TrimPrefix(strings.TrimPrefix(instanceURL, "https://"), "http://")
	enc := url.QueryEscape
	return fmt.Sprintf("force://%s:%s:%s@%s", enc(cfg.ClientID), enc(cfg.ClientSecret), enc(refreshToken), host), nil
}
