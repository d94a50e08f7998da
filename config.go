package salesforce

import (
	"crypto/rsa"
	"errors"
	"net/http"
	"time"

	"github.com/sfcore/salesforce/credentials"
	"github.com/sfcore/salesforce/internal/logging"
	"github.com/sfcore/salesforce/internal/resolver"
	"github.com/sfcore/salesforce/internal/retry"
	"github.com/sfcore/salesforce/internal/transport"
)

const (
	productionAudience = "https://login.salesforce.com"
	sandboxAudience    = "https://test.salesforce.com"
)

// Config holds everything needed to authenticate and build the facade
// services a Client exposes. Exactly one authentication strategy should
// be configured; Validate enforces that.
type Config struct {
	// Direct/static token, bypassing any OAuth flow entirely.
	AccessToken string
	InstanceURL string

	// OAuth 2.0 refresh-token flow.
	ClientID     string
	ClientSecret string
	RefreshToken string

	// Username-password flow. SecurityToken is appended to Password the
	// way Salesforce's password grant expects when the org enforces one.
	Username      string
	Password      string
	SecurityToken string

	// JWT bearer flow (server-to-server, no refresh token to manage).
	JWTSubject    string
	JWTPrivateKey *rsa.PrivateKey
	JWTKeyID      string

	// Credential resolver chain (explicit -> env var -> secret store),
	// used when the caller wants the Explicit/EnvPrefix/SecretStore
	// priority chain instead of wiring a flow directly.
	Resolver    *resolver.Resolver
	ResolverKey string

	TokenURL string
	Audience string // JWT bearer audience; also governs the SFDX sandbox/production routing rule.

	APIVersion     string
	Timeout        time.Duration
	MaxRetries     int
	HTTPClient     transport.Doer
	Logger         logging.Logger
	Policy         retry.Policy
	UserAgent      string
	CorrelationIDs bool

	// RateLimitPerSecond/RateLimitBurst, when RateLimitPerSecond > 0,
	// layer a client-side token-bucket shaper in front of every request
	// (see WithRateLimit).
	RateLimitPerSecond float64
	RateLimitBurst     int
}

func defaultConfig() *Config {
	return &Config{
		TokenURL:   "https://login.salesforce.com/services/oauth2/token",
		Audience:   productionAudience,
		APIVersion: "62.0",
		Timeout:    30 * time.Second,
		Logger:     logging.NewNop(),
	}
}

// Validate confirms exactly one authentication strategy is configured and
// that it carries the fields that strategy needs.
func (c *Config) Validate() error {
	hasStatic := c.AccessToken != ""
	hasRefresh := c.RefreshToken != ""
	hasPassword := c.Username != "" && c.Password != ""
	hasJWT := c.JWTPrivateKey != nil
	hasResolver := c.Resolver != nil

	count := 0
	for _, has := range []bool{hasStatic, hasRefresh, hasPassword, hasJWT, hasResolver} {
		if has {
			count++
		}
	}
	if count == 0 {
		return errors.New("authentication required: provide an access token, refresh token, username/password, JWT bearer key, or a credential resolver")
	}
	if count > 1 {
		return errors.New("only one authentication strategy may be configured at a time")
	}
	if hasStatic && c.InstanceURL == "" {
		return errors.New("instance_url required when using a direct access token")
	}
	if (hasRefresh || hasPassword) && c.ClientID == "" {
		return errors.New("client_id required for OAuth flows")
	}
	if hasJWT && (c.ClientID == "" || c.JWTSubject == "") {
		return errors.New("client_id and jwt subject required for the JWT bearer flow")
	}
	if hasResolver && c.ResolverKey == "" {
		return errors.New("resolver_key required when using a credential resolver")
	}
	return nil
}

// Option configures the Salesforce client.
type Option func(*Config) error

// WithOAuthRefresh configures OAuth 2.0 refresh token authentication.
func WithOAuthRefresh(clientID, clientSecret, refreshToken string) Option {
	return func(c *Config) error {
		c.ClientID = clientID
		c.ClientSecret = clientSecret
		c.RefreshToken = refreshToken
		return nil
	}
}

// WithPasswordAuth configures username-password authentication.
func WithPasswordAuth(username, password, securityToken string) Option {
	return func(c *Config) error {
		c.Username = username
		c.Password = password
		c.SecurityToken = securityToken
		return nil
	}
}

// WithJWTBearer configures the server-to-server JWT bearer flow.
func WithJWTBearer(clientID, subject string, privateKey *rsa.PrivateKey) Option {
	return func(c *Config) error {
		c.ClientID = clientID
		c.JWTSubject = subject
		c.JWTPrivateKey = privateKey
		return nil
	}
}

// WithJWTKeyID sets the optional "kid" header on JWT bearer assertions.
func WithJWTKeyID(keyID string) Option {
	return func(c *Config) error {
		c.JWTKeyID = keyID
		return nil
	}
}

// WithSFDXAuthURL decodes an SFDX-style force:// auth URL directly into
// the OAuth refresh-token flow, the way `sf org login` artifacts are
// normally consumed.
func WithSFDXAuthURL(raw string) Option {
	return func(c *Config) error {
		cfg, refreshToken, instanceURL, err := credentials.ParseSFDXAuthURL(raw)
		if err != nil {
			return err
		}
		c.ClientID = cfg.ClientID
		c.ClientSecret = cfg.ClientSecret
		c.TokenURL = cfg.TokenURL
		c.RefreshToken = refreshToken
		c.InstanceURL = instanceURL
		return nil
	}
}

// WithCredentialResolver configures the Explicit -> env var -> secret
// store resolution chain for a named credential key.
func WithCredentialResolver(r *resolver.Resolver, key string) Option {
	return func(c *Config) error {
		c.Resolver = r
		c.ResolverKey = key
		return nil
	}
}

// WithAccessToken sets a direct access token.
func WithAccessToken(accessToken, instanceURL string) Option {
	return func(c *Config) error {
		c.AccessToken = accessToken
		c.InstanceURL = instanceURL
		return nil
	}
}

// WithTokenURL sets the OAuth token endpoint URL.
func WithTokenURL(url string) Option {
	return func(c *Config) error {
		c.TokenURL = url
		return nil
	}
}

// WithInstanceURL sets the Salesforce instance URL.
func WithInstanceURL(url string) Option {
	return func(c *Config) error {
		c.InstanceURL = url
		return nil
	}
}

// WithAPIVersion sets the API version.
func WithAPIVersion(version string) Option {
	return func(c *Config) error {
		c.APIVersion = version
		return nil
	}
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		c.Timeout = timeout
		return nil
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(retries int) Option {
	return func(c *Config) error {
		c.MaxRetries = retries
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) error {
		c.HTTPClient = client
		return nil
	}
}

// WithLogger sets the structured logger every package call routes
// through.
func WithLogger(logger logging.Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

// WithCorrelationIDs stamps every outbound request with a fresh
// X-Correlation-Id header, useful when cross-referencing client-side
// logs against Salesforce's own event monitoring.
func WithCorrelationIDs() Option {
	return func(c *Config) error {
		c.CorrelationIDs = true
		return nil
	}
}

// WithRateLimit layers a client-side token-bucket shaper in front of
// every request, capping this client at ratePerSecond steady-state
// requests with up to burst admitted immediately. Use this to stay under
// a known org-wide ceiling proactively rather than only reacting to the
// 429s Salesforce sends once that ceiling is already exceeded.
func WithRateLimit(ratePerSecond float64, burst int) Option {
	return func(c *Config) error {
		if ratePerSecond <= 0 {
			return errors.New("rate_limit: ratePerSecond must be positive")
		}
		c.RateLimitPerSecond = ratePerSecond
		c.RateLimitBurst = burst
		return nil
	}
}

// WithSandbox configures for a sandbox environment: the login endpoint
// and, per the SFDX routing rule, the JWT bearer audience both switch to
// test.salesforce.com.
func WithSandbox() Option {
	return func(c *Config) error {
		c.TokenURL = sandboxAudience + "/services/oauth2/token"
		c.Audience = sandboxAudience
		return nil
	}
}

// WithCustomDomain configures for a custom My Domain. The JWT bearer
// audience is left at the production endpoint — My Domain hosts route
// through login.salesforce.com for token audience purposes even though
// the token/instance URLs point at the custom domain — unless combined
// with WithSandbox.
func WithCustomDomain(domain string) Option {
	return func(c *Config) error {
		c.TokenURL = "https://" + domain + ".my.salesforce.com/services/oauth2/token"
		c.InstanceURL = "https://" + domain + ".my.salesforce.com"
		return nil
	}
}
