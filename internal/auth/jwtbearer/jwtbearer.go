// Package jwtbearer implements the OAuth 2.0 JWT bearer flow used for
// server-to-server authentication: a claim set is signed with the
// connected app's private key (RS256) and exchanged at the token
// endpoint for an access token, with no user interaction.
package jwtbearer

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sfcore/salesforce/credentials"
	"github.com/sfcore/salesforce/sferrors"
)

// Config names the parameters of a JWT bearer login, grounded on the
// pack's jfcote87/salesforce jwt.Config shape.
type Config struct {
	ConsumerKey string // Issuer and audience-facing client id.
	Subject     string // Salesforce username being impersonated.
	Audience    string // https://login.salesforce.com or https://test.salesforce.com
	TokenURL    string // <Audience>/services/oauth2/token
	PrivateKey  *rsa.PrivateKey
	KeyID       string // optional, set as the JWT "kid" header
	TTL         time.Duration
}

const defaultTTL = 3 * time.Minute

// Client performs JWT bearer logins against a single connected app config.
type Client struct {
	cfg  Config
	http http.Client
}

// New builds a jwtbearer.Client.
func New(cfg Config) *Client {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	return &Client{cfg: cfg, http: http.Client{Timeout: 30 * time.Second}}
}

// Login signs a fresh claim set and exchanges it for an access token.
func (c *Client) Login(ctx context.Context) (*credentials.TokenResponse, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    c.cfg.ConsumerKey,
		Subject:   c.cfg.Subject,
		Audience:  jwt.ClaimStrings{c.cfg.Audience},
		ExpiresAt: jwt.NewNumericDate(now.Add(c.cfg.TTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if c.cfg.KeyID != "" {
		token.Header["kid"] = c.cfg.KeyID
	}
	signed, err := token.SignedString(c.cfg.PrivateKey)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.KindAuthentication, "failed to sign jwt bearer assertion", err)
	}

	data := url.Values{
		"grant_type": {"urn:ietf:params:oauth:grant-type:jwt-bearer"},
		"assertion":  {signed},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, sferrors.Wrap(sferrors.KindInvalidURL, "failed to build jwt bearer token request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.KindConnection, "jwt bearer token request failed", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.KindConnection, "failed to read jwt bearer token response", err)
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
			Message: authErr.Error + ": " + authErr.Description,
		}
	}
	var raw struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		InstanceURL string `json:"instance_url"`
		ID          string `json:"id"`
		Scope       string `json:"scope"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, sferrors.Wrap(sferrors.KindJSON, "failed to parse jwt bearer token response", err)
	}
	return &credentials.TokenResponse{
		AccessToken: raw.AccessToken,
		TokenType:   raw.TokenType,
		InstanceURL: raw.InstanceURL,
		ID:          raw.ID,
		Scope:       raw.Scope,
		IssuedAt:    now,
	}, nil
}
