// Package oauth implements the three user-facing OAuth 2.0 flows the
// design calls for: refresh-token, authorization-code (web-server), and
// token introspection/revocation. JWT bearer lives in the sibling
// internal/auth/jwtbearer package since it needs RS256 signing rather
// than a browser redirect.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sfcore/salesforce/credentials"
	"github.com/sfcore/salesforce/sferrors"
)

// Client drives token-endpoint calls for a connected app, generalizing
// the teacher's RefreshTokenAuthenticator.doTokenRequest across every
// grant type this flow needs.
type Client struct {
	http http.Client
	cfg  credentials.OAuthConfig
}

// New builds an oauth.Client for the given connected-app configuration.
func New(cfg credentials.OAuthConfig) *Client {
	return &Client{http: http.Client{Timeout: 30 * time.Second}, cfg: cfg}
}

// RefreshToken exchanges a refresh token for a fresh access token, the
// grant the teacher's RefreshTokenAuthenticator.Refresh performs.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*credentials.TokenResponse, error) {
	data := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {c.cfg.ClientID},
		"refresh_token": {refreshToken},
	}
	c.setClientSecret(data)
	tok, err := c.doTokenRequest(ctx, data)
	if err != nil {
		return nil, err
	}
	if tok.RefreshToken == "" {
		tok.RefreshToken = refreshToken
	}
	return tok, nil
}

// PasswordLogin performs the username-password grant (grant_type=password),
// generalizing the teacher's PasswordAuthenticator to this client's shared
// doTokenRequest plumbing. Salesforce expects the security token appended
// directly to the password when the org requires one.
func (c *Client) PasswordLogin(ctx context.Context, username, password string) (*credentials.TokenResponse, error) {
	data := url.Values{
		"grant_type": {"password"},
		"client_id":  {c.cfg.ClientID},
		"username":   {username},
		"password":   {password},
	}
	c.setClientSecret(data)
	return c.doTokenRequest(ctx, data)
}

// AuthorizeURL builds the browser-redirect URL for the web-server
// (authorization-code) flow.
func (c *Client) AuthorizeURL(authorizeEndpoint, state string, scopes []string) string {
	v := url.Values{
		"response_type": {"code"},
		"client_id":     {c.cfg.ClientID},
		"redirect_uri":  {c.cfg.RedirectURI},
	}
	if state != "" {
		v.Set("state", state)
	}
	if len(scopes) > 0 {
		v.Set("scope", strings.Join(scopes, " "))
	}
	sep := "?"
	if strings.Contains(authorizeEndpoint, "?") {
		sep = "&"
	}
	return authorizeEndpoint + sep + v.Encode()
}

// ExchangeCode completes the authorization-code flow by swapping the
// code returned to RedirectURI for a token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*credentials.TokenResponse, error) {
	data := url.Values{
		"grant_type":   {"authorization_code"},
		"client_id":    {c.cfg.ClientID},
		"redirect_uri": {c.cfg.RedirectURI},
		"code":         {code},
	}
	c.setClientSecret(data)
	return c.doTokenRequest(ctx, data)
}

// ValidateToken calls the token introspection endpoint, returning true
// when Salesforce reports the token active.
func (c *Client) ValidateToken(ctx context.Context, introspectEndpoint, token string) (bool, error) {
	data := url.Values{
		"token":           {token},
		"client_id":       {c.cfg.ClientID},
		"token_type_hint": {"access_token"},
	}
	c.setClientSecret(data)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, introspectEndpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return false, sferrors.Wrap(sferrors.KindInvalidURL, "failed to build introspection request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.http.Do(req)
	if err != nil {
		return false, sferrors.Wrap(sferrors.KindConnection, "introspection request failed", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	var out struct {
		Active bool `json:"active"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return false, sferrors.Wrap(sferrors.KindJSON, "failed to parse introspection response", err)
	}
	return out.Active, nil
}

// RevokeToken calls the OAuth revocation endpoint for either an access
// or refresh token.
func (c *Client) RevokeToken(ctx context.Context, revokeEndpoint, token string) error {
	data := url.Values{"token": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, revokeEndpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return sferrors.Wrap(sferrors.KindInvalidURL, "failed to build revoke request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.http.Do(req)
	if err != nil {
		return sferrors.Wrap(sferrors.KindConnection, "revoke request failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return sferrors.HTTP(resp.StatusCode, sferrors.Sanitize(string(body)))
	}
	return nil
}

// setClientSecret adds client_secret to the form only when the connected
// app actually has one: url.Values.Encode() emits the key even for an
// empty value, which would otherwise leak an empty client_secret param
// for public/PKCE-style connected apps that never configured one.
func (c *Client) setClientSecret(data url.Values) {
	if c.cfg.ClientSecret != "" {
		data.Set("client_secret", c.cfg.ClientSecret)
	}
}

func (c *Client) doTokenRequest(ctx context.Context, data url.Values) (*credentials.TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, sferrors.Wrap(sferrors.KindInvalidURL, "failed to build token request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.KindConnection, "token request failed", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.KindConnection, "failed to read token response", err)
	}
	if resp.StatusCode != http.StatusOK {
		var authErr struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		json.Unmarshal(body, &authErr)
		return nil, &sferrors.Error{
			Kind:    sferrors.KindAuthentication,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("%s: %s", authErr.Error, authErr.Description),
		}
	}
	var raw struct {
		AccessToken  string `json:"access_token"`
		TokenType    string `json:"token_type"`
		RefreshToken string `json:"refresh_token"`
		InstanceURL  string `json:"instance_url"`
		ID           string `json:"id"`
		IssuedAt     string `json:"issued_at"`
		Scope        string `json:"scope"`
		ExpiresIn    int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, sferrors.Wrap(sferrors.KindJSON, "failed to parse token response", err)
	}
	issuedAt := time.Now()
	if raw.IssuedAt != "" {
		if ms, perr := strconv.ParseInt(raw.IssuedAt, 10, 64); perr == nil {
			issuedAt = time.UnixMilli(ms)
		}
	}
	tok := &credentials.TokenResponse{
		AccessToken:  raw.AccessToken,
		TokenType:    raw.TokenType,
		RefreshToken: raw.RefreshToken,
		InstanceURL:  raw.InstanceURL,
		ID:           raw.ID,
		IssuedAt:     issuedAt,
		Scope:        raw.Scope,
	}
	if raw.ExpiresIn > 0 {
		tok.ExpiresAt = issuedAt.Add(time.Duration(raw.ExpiresIn) * time.Second)
	}
	return tok, nil
}
