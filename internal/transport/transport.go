// Package transport is the HTTP core every facade in this module routes
// through: request construction, credential attachment, retry/backoff,
// Salesforce response-header parsing, and error-body sanitization. It
// generalizes the teacher's http.Client into something the WASM bridge
// can also drive synchronously (Execute never spawns its own goroutines;
// callers that want concurrency use their own).
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sfcore/salesforce/credentials"
	"github.com/sfcore/salesforce/internal/logging"
	"github.com/sfcore/salesforce/internal/retry"
	"github.com/sfcore/salesforce/internal/transport/ratelimit"
	"github.com/sfcore/salesforce/sferrors"
)

// Doer is satisfied by *http.Client and any instrumented wrapper around
// it (the bridge, for instance, may swap in one that enforces an egress
// allowlist).
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client executes Salesforce REST/Tooling/Bulk requests with retry,
// backoff and credential-refresh-on-401 baked in.
type Client struct {
	http           Doer
	creds          credentials.Credentials
	apiVersion     string
	logger         logging.Logger
	policy         retry.Policy
	userAgent      string
	correlationIDs bool
	rateLimiter    *ratelimit.Limiter
}

// Config mirrors the teacher's http.Config, extended with the credential
// and retry-policy plumbing the teacher's Client constructed ad hoc.
type Config struct {
	HTTPClient  Doer
	Credentials credentials.Credentials
	APIVersion  string
	Logger      logging.Logger
	Policy      retry.Policy
	UserAgent   string
	// CorrelationIDs, when set, stamps every outbound request with a
	// fresh X-Correlation-Id header so its lifecycle can be traced
	// across Salesforce's own request logs.
	CorrelationIDs bool
	// RateLimiter, when set, is waited on before every outbound request
	// and re-tuned from each response's Sforce-Limit-Info usage header,
	// keeping this client under a self-imposed ceiling ahead of the
	// org's own 429s.
	RateLimiter *ratelimit.Limiter
}

const defaultAPIVersion = "62.0"

// New builds a transport Client, applying the teacher's zero-value
// defaulting pattern from http.NewClient.
func New(cfg Config) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = defaultAPIVersion
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	if cfg.Policy == (retry.Policy{}) {
		cfg.Policy = retry.DefaultPolicy()
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "sfcore-salesforce-go"
	}
	return &Client{
		http:           cfg.HTTPClient,
		creds:          cfg.Credentials,
		apiVersion:     cfg.APIVersion,
		logger:         cfg.Logger,
		policy:         cfg.Policy,
		userAgent:      cfg.UserAgent,
		correlationIDs: cfg.CorrelationIDs,
		rateLimiter:    cfg.RateLimiter,
	}
}

// Response is the normalized result of a Salesforce HTTP call, carrying
// the headers the design requires every caller be able to inspect.
type Response struct {
	StatusCode    int
	Body          []byte
	ETag          string
	LastModified  string
	RetryAfter    *time.Duration
	SforceLocator string
	APIUsage      string // raw Sforce-Limit-Info header, "api-usage=N/Limit"
}

// IsNotModified reports a 304 response to a conditional GET.
func (r *Response) IsNotModified() bool { return r.StatusCode == http.StatusNotModified }

// Usage is a parsed Sforce-Limit-Info api-usage entry.
type Usage struct {
	Used       int
	Limit      int
	Remaining  int
	Percentage float64
}

// Usage parses the Sforce-Limit-Info header ("api-usage=N/Limit") into a
// typed accessor, generalizing the teacher's limits.Limit.PercentUsed
// idiom to every response rather than just the /limits endpoint.
func (r *Response) Usage() (Usage, bool) {
	if r.APIUsage == "" {
		return Usage{}, false
	}
	for _, part := range strings.Split(r.APIUsage, ";") {
		part = strings.TrimSpace(part)
		name, val, ok := strings.Cut(part, "=")
		if !ok || name != "api-usage" {
			continue
		}
		used, limit, ok := strings.Cut(val, "/")
		if !ok {
			continue
		}
		u, errU := strconv.Atoi(used)
		l, errL := strconv.Atoi(limit)
		if errU != nil || errL != nil || l == 0 {
			continue
		}
		return Usage{
			Used:       u,
			Limit:      l,
			Remaining:  l - u,
			Percentage: float64(u) / float64(l) * 100,
		}, true
	}
	return Usage{}, false
}

// Request describes a single call, independent of retry/backoff state.
type Request struct {
	Method      string
	URL         string // absolute URL; callers compose via internal/session
	Body        interface{}
	ContentType string
	Headers     map[string]string
	// IfNoneMatch / IfModifiedSince enable conditional GETs (§4.2).
	IfNoneMatch     string
	IfModifiedSince string
}

// Execute runs req with retry/backoff, refreshing credentials once on a
// 401 before giving up, matching the teacher's doRequest/executeRequest
// split but folding in Retry-After and conditional-request headers.
func (c *Client) Execute(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	refreshedOnce := false
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			var retryAfter *time.Duration
			if se, ok := lastErr.(*sferrors.Error); ok && se.RetryAfter != nil {
				d := time.Duration(*se.RetryAfter) * time.Second
				retryAfter = &d
			}
			delay := c.policy.NextDelay(attempt-1, retryAfter)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
		resp, err := c.doOnce(ctx, req)
		if err == nil {
			return resp, nil
		}
		if sfe, ok := err.(*sferrors.Error); ok && sfe.Kind == sferrors.KindAuthentication && !refreshedOnce && c.creds != nil {
			refreshedOnce = true
			if _, rerr := c.creds.Refresh(); rerr == nil {
				attempt--
				lastErr = err
				continue
			}
		}
		if !sferrors.IsRetryable(err) || c.policy.Exhausted(attempt+1) {
			if sferrors.IsRetryable(err) {
				return nil, sferrors.RetriesExhausted(attempt+1, err)
			}
			return nil, err
		}
		lastErr = err
		c.logger.Warn("request failed, retrying", "attempt", attempt+1, "error", err)
	}
}

func (c *Client) doOnce(ctx context.Context, req Request) (*Response, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, sferrors.Wrap(sferrors.KindTimeout, "rate limiter wait canceled", err)
		}
	}
	var reqBody io.Reader
	if req.Body != nil {
		switch v := req.Body.(type) {
		case io.Reader:
			reqBody = v
		case []byte:
			reqBody = bytes.NewReader(v)
		case string:
			reqBody = strings.NewReader(v)
		default:
			data, err := json.Marshal(v)
			if err != nil {
				return nil, sferrors.Wrap(sferrors.KindSerialization, "failed to marshal request body", err)
			}
			reqBody = bytes.NewReader(data)
		}
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, reqBody)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.KindInvalidURL, "failed to build request", err)
	}
	if c.creds != nil {
		httpReq.Header.Set("Authorization", "Bearer "+c.creds.AccessToken())
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if c.correlationIDs {
		httpReq.Header.Set("X-Correlation-Id", uuid.NewString())
	}
	if req.IfNoneMatch != "" {
		httpReq.Header.Set("If-None-Match", req.IfNoneMatch)
	}
	if req.IfModifiedSince != "" {
		httpReq.Header.Set("If-Modified-Since", req.IfModifiedSince)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, sferrors.Wrap(sferrors.KindTimeout, "request context ended", err)
		}
		return nil, sferrors.Wrap(sferrors.KindConnection, "request failed", err)
	}
	defer httpResp.Body.Close()
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.KindConnection, "failed to read response body", err)
	}

	resp := &Response{
		StatusCode:    httpResp.StatusCode,
		Body:          body,
		ETag:          httpResp.Header.Get("ETag"),
		LastModified:  httpResp.Header.Get("Last-Modified"),
		SforceLocator: httpResp.Header.Get("Sforce-Locator"),
		APIUsage:      httpResp.Header.Get("Sforce-Limit-Info"),
	}
	if ra := httpResp.Header.Get("Retry-After"); ra != "" {
		if secs, perr := strconv.Atoi(ra); perr == nil {
			d := time.Duration(secs) * time.Second
			resp.RetryAfter = &d
		}
	}
	if c.rateLimiter != nil {
		if usage, ok := resp.Usage(); ok {
			c.rateLimiter.Adjust(usage.Used, usage.Limit)
		}
	}

	if resp.IsNotModified() {
		return resp, nil
	}
	if httpResp.StatusCode >= 400 {
		return nil, classifyError(httpResp.StatusCode, resp)
	}
	return resp, nil
}

// classifyError maps a failed response onto the sferrors taxonomy, the
// generalized form of the teacher's types.ParseAPIError. Order matters:
// the Salesforce error-envelope shapes (array, then single object) are
// tried before falling back to a bare status-code mapping, since a body
// that actually carries an errorCode is more specific than the status
// line alone.
func classifyError(status int, resp *Response) error {
	sanitizedBody := sferrors.Sanitize(string(resp.Body))
	if status == http.StatusTooManyRequests {
		var secs *int
		if resp.RetryAfter != nil {
			s := int(resp.RetryAfter.Seconds())
			secs = &s
		}
		return sferrors.RateLimited(secs)
	}

	var envelopes []struct {
		Message   string   `json:"message"`
		ErrorCode string   `json:"errorCode"`
		Fields    []string `json:"fields"`
	}
	if err := json.Unmarshal(resp.Body, &envelopes); err == nil && len(envelopes) > 0 {
		first := envelopes[0]
		return sferrors.SalesforceAPI(first.ErrorCode, sferrors.Sanitize(first.Message), first.Fields)
	}

	var single struct {
		Message   string   `json:"message"`
		ErrorCode string   `json:"errorCode"`
		Fields    []string `json:"fields"`
	}
	if err := json.Unmarshal(resp.Body, &single); err == nil && single.ErrorCode != "" {
		return sferrors.SalesforceAPI(single.ErrorCode, sferrors.Sanitize(single.Message), single.Fields)
	}

	if status == http.StatusUnauthorized {
		return &sferrors.Error{Kind: sferrors.KindAuthentication, Status: status, Message: sanitizedBody}
	}
	if status == http.StatusForbidden {
		return &sferrors.Error{Kind: sferrors.KindAuthorization, Status: status, Message: sanitizedBody}
	}
	if status == http.StatusNotFound {
		return &sferrors.Error{Kind: sferrors.KindNotFound, Status: status, Message: sanitizedBody}
	}
	if status == http.StatusPreconditionFailed {
		return &sferrors.Error{Kind: sferrors.KindPreconditionFailed, Status: status, Message: sanitizedBody}
	}
	return sferrors.HTTP(status, sanitizedBody)
}

// APIVersion returns the configured Salesforce API version.
func (c *Client) APIVersion() string { return c.apiVersion }

// SetCredentials swaps the credentials backing this client, used when a
// caller authenticates out-of-band (e.g. a fresh access token handed to
// Client.SetAccessToken) rather than through one of this client's own
// refresh flows.
func (c *Client) SetCredentials(creds credentials.Credentials) { c.creds = creds }

// AccessToken returns the current bearer token, used by the Metadata
// SOAP client to populate the envelope's SessionHeader (SOAP, unlike
// REST/Tooling/Bulk, expects the session id inside the body as well as
// the Authorization header this client already attaches).
func (c *Client) AccessToken() string {
	if c.creds == nil {
		return ""
	}
	return c.creds.AccessToken()
}

// DecodeJSON is a small helper facades use to unmarshal a Response body,
// wrapping decode failures in the taxonomy's KindJSON.
func DecodeJSON(resp *Response, target interface{}) error {
	if err := json.Unmarshal(resp.Body, target); err != nil {
		return sferrors.Wrap(sferrors.KindJSON, fmt.Sprintf("failed to decode response body (%d bytes)", len(resp.Body)), err)
	}
	return nil
}
