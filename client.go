// Package salesforce provides a comprehensive, production-grade Go SDK for
// the Salesforce REST, Tooling, Bulk 2.0, Metadata, Composite, Analytics,
// Connect and UI APIs, plus a sandboxed WASM plugin bridge for running
// untrusted guest code against an authenticated session.
package salesforce

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sfcore/salesforce/analytics"
	"github.com/sfcore/salesforce/apex"
	"github.com/sfcore/salesforce/bulk"
	"github.com/sfcore/salesforce/composite"
	"github.com/sfcore/salesforce/connect"
	"github.com/sfcore/salesforce/credentials"
	"github.com/sfcore/salesforce/internal/auth/jwtbearer"
	"github.com/sfcore/salesforce/internal/retry"
	"github.com/sfcore/salesforce/internal/session"
	"github.com/sfcore/salesforce/internal/transport"
	"github.com/sfcore/salesforce/internal/transport/ratelimit"
	"github.com/sfcore/salesforce/limits"
	"github.com/sfcore/salesforce/metadata"
	"github.com/sfcore/salesforce/oauth"
	"github.com/sfcore/salesforce/query"
	"github.com/sfcore/salesforce/search"
	"github.com/sfcore/salesforce/sobjects"
	"github.com/sfcore/salesforce/tooling"
	"github.com/sfcore/salesforce/uiapi"
)

// Client is the root handle onto one authenticated Salesforce org. It
// owns the credentials, transport and session every facade service is
// built from.
type Client struct {
	config    *Config
	creds     credentials.Credentials
	transport *transport.Client
	session   *session.Session

	sobjects  *sobjects.Service
	query     *query.Service
	bulk      *bulk.Service
	composite *composite.Service
	analytics *analytics.Service
	tooling   *tooling.Service
	connect   *connect.Service
	limits    *limits.Service
	uiapi     *uiapi.Service
	search    *search.Service
	apex      *apex.Service
	metadata  *metadata.Service
}

// NewClient builds a Client from the supplied Options but does not yet
// contact Salesforce — call Connect to authenticate and populate the
// facade services.
func NewClient(opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("salesforce: invalid option: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	creds, err := buildCredentials(cfg)
	if err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	policy := cfg.Policy
	if policy == (retry.Policy{}) {
		policy = retry.DefaultPolicy()
	}
	if cfg.MaxRetries > 0 {
		policy.MaxAttempts = cfg.MaxRetries
	}
	var limiter *ratelimit.Limiter
	if cfg.RateLimitPerSecond > 0 {
		limiter = ratelimit.New(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	}

	t := transport.New(transport.Config{
		HTTPClient:     httpClient,
		Credentials:    creds,
		APIVersion:     cfg.APIVersion,
		Logger:         cfg.Logger,
		Policy:         policy,
		UserAgent:      cfg.UserAgent,
		CorrelationIDs: cfg.CorrelationIDs,
		RateLimiter:    limiter,
	})

	c := &Client{
		config:    cfg,
		creds:     creds,
		transport: t,
		session:   session.New(t, creds.InstanceURL(), cfg.APIVersion),
	}
	return c, nil
}

// buildCredentials picks the one configured authentication strategy and
// wraps it in the credentials.Credentials shape the transport expects.
// OAuth-backed flows defer their first token fetch to Connect; the
// doRefresh closures below always use a background context because
// credentials.Credentials.Refresh (and transport's own refresh-on-401
// call to it) carries no context parameter of its own.
func buildCredentials(cfg *Config) (credentials.Credentials, error) {
	switch {
	case cfg.AccessToken != "":
		return credentials.NewStaticCredentials(cfg.AccessToken, cfg.InstanceURL), nil

	case cfg.JWTPrivateKey != nil:
		jwtClient := jwtbearer.New(jwtbearer.Config{
			ConsumerKey: cfg.ClientID,
			Subject:     cfg.JWTSubject,
			Audience:    cfg.Audience,
			TokenURL:    cfg.TokenURL,
			PrivateKey:  cfg.JWTPrivateKey,
			KeyID:       cfg.JWTKeyID,
		})
		return credentials.NewCachedCredentials(nil, func() (*credentials.TokenResponse, error) {
			return jwtClient.Login(context.Background())
		}), nil

	case cfg.RefreshToken != "":
		oauthClient := oauth.New(credentials.OAuthConfig{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		})
		refreshToken := cfg.RefreshToken
		return credentials.NewCachedCredentials(nil, func() (*credentials.TokenResponse, error) {
			tok, err := oauthClient.RefreshToken(context.Background(), refreshToken)
			if err != nil {
				return nil, err
			}
			if tok.RefreshToken != "" {
				refreshToken = tok.RefreshToken
			}
			return tok, nil
		}), nil

	case cfg.Username != "" && cfg.Password != "":
		oauthClient := oauth.New(credentials.OAuthConfig{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		})
		password := cfg.Password + cfg.SecurityToken
		return credentials.NewCachedCredentials(nil, func() (*credentials.TokenResponse, error) {
			return oauthClient.PasswordLogin(context.Background(), cfg.Username, password)
		}), nil

	case cfg.Resolver != nil:
		return credentials.NewCachedCredentials(nil, func() (*credentials.TokenResponse, error) {
			oauthCfg, refreshToken, static, _, err := cfg.Resolver.Resolve(context.Background(), cfg.ResolverKey)
			if err != nil {
				return nil, err
			}
			if static != nil {
				return static, nil
			}
			return oauth.New(oauthCfg).RefreshToken(context.Background(), refreshToken)
		}), nil
	}
	return nil, fmt.Errorf("salesforce: no authentication strategy configured")
}

// Connect authenticates (for every flow but the static access-token one,
// which already carries a usable token) and builds the facade services.
// It must be called once before any service accessor is used.
func (c *Client) Connect(ctx context.Context) error {
	if _, isStatic := c.creds.(*credentials.StaticCredentials); !isStatic {
		if _, err := c.creds.Refresh(); err != nil {
			return fmt.Errorf("salesforce: authentication failed: %w", err)
		}
	}
	if instanceURL := c.creds.InstanceURL(); instanceURL != "" {
		c.session.SetInstanceURL(instanceURL)
	}
	c.initServices()
	return nil
}

// SetAccessToken swaps in a token obtained out-of-band (e.g. from a
// parent process's SSO session), bypassing this client's own
// authentication flows entirely.
func (c *Client) SetAccessToken(token, instanceURL string) {
	c.creds = credentials.NewStaticCredentials(token, instanceURL)
	c.transport.SetCredentials(c.creds)
	c.session.SetInstanceURL(instanceURL)
	c.initServices()
}

func (c *Client) initServices() {
	c.sobjects = sobjects.NewService(c.session)
	c.query = query.NewService(c.session)
	c.bulk = bulk.NewService(c.session)
	c.composite = composite.NewService(c.session)
	c.analytics = analytics.NewService(c.session)
	c.tooling = tooling.NewService(c.session)
	c.connect = connect.NewService(c.session)
	c.limits = limits.NewService(c.session)
	c.uiapi = uiapi.NewService(c.session)
	c.search = search.NewService(c.session)
	c.apex = apex.NewService(c.session)
	c.metadata = metadata.NewService(c.session)
}

// SObjects returns the generic sObject CRUD service.
func (c *Client) SObjects() *sobjects.Service { return c.sobjects }

// Query returns the SOQL execution and query-builder service.
func (c *Client) Query() *query.Service { return c.query }

// Bulk returns the Bulk API 2.0 ingest/query job service.
func (c *Client) Bulk() *bulk.Service { return c.bulk }

// Composite returns the Composite/Batch/Graph request service.
func (c *Client) Composite() *composite.Service { return c.composite }

// Analytics returns the Reports and Dashboards service.
func (c *Client) Analytics() *analytics.Service { return c.analytics }

// Tooling returns the Tooling API service.
func (c *Client) Tooling() *tooling.Service { return c.tooling }

// Chatter returns the Connect REST (Chatter feeds/groups/mentions)
// service. Named distinctly from Connect, this client's authentication
// method.
func (c *Client) Chatter() *connect.Service { return c.connect }

// Limits returns the org limits service.
func (c *Client) Limits() *limits.Service { return c.limits }

// UIAPI returns the UI API service.
func (c *Client) UIAPI() *uiapi.Service { return c.uiapi }

// Search returns the SOSL search service.
func (c *Client) Search() *search.Service { return c.search }

// Apex returns the custom Apex REST invocation service.
func (c *Client) Apex() *apex.Service { return c.apex }

// Metadata returns the Metadata SOAP client.
func (c *Client) Metadata() *metadata.Service { return c.metadata }

// APIVersion returns the configured REST/Tooling API version.
func (c *Client) APIVersion() string { return c.session.APIVersion() }

// InstanceURL returns the bound org's base URL.
func (c *Client) InstanceURL() string { return c.session.InstanceURL() }

// GetToken returns the current bearer token.
func (c *Client) GetToken() string { return c.creds.AccessToken() }
