// Package resolver implements the priority-chain credential resolution
// described by the design's C7: an explicit in-process config,
// environment variables, and a pluggable external SecretStore (e.g.
// Redis), tried in order and cached for a bounded TTL so repeated resolution
// doesn't hammer the backing store.
package resolver

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/sfcore/salesforce/credentials"
	"github.com/sfcore/salesforce/sferrors"
)

// SecretStore is any external credential backend a Resolver can consult
// after environment variables and explicit config have been tried.
type SecretStore interface {
	// GetSFDXAuthURL returns the force:// auth URL stored under key, or
	// an error wrapping sferrors.KindNotFound if nothing is stored.
	GetSFDXAuthURL(ctx context.Context, key string) (string, error)
}

// Source names where a resolved credential came from, useful for logging
// which link in the chain satisfied a lookup without re-deriving it.
type Source int

const (
	SourceExplicit Source = iota
	SourceEnvironment
	SourceSecretStore
)

func (s Source) String() string {
	switch s {
	case SourceExplicit:
		return "explicit"
	case SourceEnvironment:
		return "environment"
	case SourceSecretStore:
		return "secret-store"
	default:
		return "unknown"
	}
}

type cacheEntry struct {
	cfg          credentials.OAuthConfig
	refreshToken string
	static       *credentials.TokenResponse
	source       Source
	expiresAt    time.Time
}

// envAny returns the first non-empty value among os.Getenv(name) for each
// name in names, the way the teacher accepts both SF_ and SALESFORCE_
// prefixed environment variables interchangeably.
func envAny(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// Resolver resolves connected-app credentials through the priority
// chain, caching the result against a caller-supplied key for a bounded
// TTL.
type Resolver struct {
	mu    sync.Mutex
	cache map[string]cacheEntry
	ttl   time.Duration
	store SecretStore

	// Explicit is consulted first when non-nil for a given key — set by
	// callers that already hold parsed credentials in memory.
	Explicit map[string]struct {
		Config       credentials.OAuthConfig
		RefreshToken string
	}

	// EnvPrefix namespaces the environment variables consulted for a
	// given key: <EnvPrefix>_<KEY>_SFDX_AUTH_URL.
	EnvPrefix string
}

// New builds a Resolver with the given TTL and optional backing store
// (nil disables the secret-store link of the chain).
func New(ttl time.Duration, store SecretStore) *Resolver {
	return &Resolver{
		cache:     make(map[string]cacheEntry),
		ttl:       ttl,
		store:     store,
		Explicit:  make(map[string]struct {
			Config       credentials.OAuthConfig
			RefreshToken string
		}),
		EnvPrefix: "SALESFORCE",
	}
}

// Resolve returns the OAuth config, refresh token, and (when the chain
// step that satisfied the lookup produced one instead) a pre-resolved
// static token, walking Explicit -> environment static access_token ->
// per-key SFDX auth URL env -> SecretStore in order and caching the
// first hit for r.ttl. Exactly one of refreshToken/static is populated
// on success.
func (r *Resolver) Resolve(ctx context.Context, key string) (credentials.OAuthConfig, string, *credentials.TokenResponse, Source, error) {
	r.mu.Lock()
	if entry, ok := r.cache[key]; ok && time.Now().Before(entry.expiresAt) {
		r.mu.Unlock()
		return entry.cfg, entry.refreshToken, entry.static, entry.source, nil
	}
	r.mu.Unlock()

	if e, ok := r.Explicit[key]; ok {
		return r.cacheAndReturn(key, e.Config, e.RefreshToken, nil, SourceExplicit), e.RefreshToken, nil, SourceExplicit, nil
	}

	// §4.5 step 2: a static access_token + instance_url pair found in the
	// environment (either SF_ or SALESFORCE_ prefixed) short-circuits the
	// chain with no OAuth config or refresh capability at all.
	accessToken := envAny("SF_ACCESS_TOKEN", "SALESFORCE_ACCESS_TOKEN")
	instanceURL := envAny("SF_INSTANCE_URL", "SALESFORCE_INSTANCE_URL")
	if accessToken != "" && instanceURL != "" {
		static := &credentials.TokenResponse{AccessToken: accessToken, InstanceURL: instanceURL}
		r.cacheAndReturn(key, credentials.OAuthConfig{}, "", static, SourceEnvironment)
		return credentials.OAuthConfig{}, "", static, SourceEnvironment, nil
	}

	if envURL := os.Getenv(r.EnvPrefix + "_" + key + "_SFDX_AUTH_URL"); envURL != "" {
		cfg, refresh, _, err := credentials.ParseSFDXAuthURL(envURL)
		if err != nil {
			return credentials.OAuthConfig{}, "", nil, 0, sferrors.Wrap(sferrors.KindConfig, "invalid sfdx auth url in environment", err)
		}
		return r.cacheAndReturn(key, cfg, refresh, nil, SourceEnvironment), refresh, nil, SourceEnvironment, nil
	}

	if r.store != nil {
		raw, err := r.store.GetSFDXAuthURL(ctx, key)
		if err == nil {
			cfg, refresh, _, perr := credentials.ParseSFDXAuthURL(raw)
			if perr != nil {
				return credentials.OAuthConfig{}, "", nil, 0, sferrors.Wrap(sferrors.KindConfig, "invalid sfdx auth url from secret store", perr)
			}
			return r.cacheAndReturn(key, cfg, refresh, nil, SourceSecretStore), refresh, nil, SourceSecretStore, nil
		}
	}

	return credentials.OAuthConfig{}, "", nil, 0, sferrors.New(sferrors.KindConfig, "no credentials found for key "+key)
}

func (r *Resolver) cacheAndReturn(key string, cfg credentials.OAuthConfig, refresh string, static *credentials.TokenResponse, src Source) credentials.OAuthConfig {
	r.mu.Lock()
	r.cache[key] = cacheEntry{cfg: cfg, refreshToken: refresh, static: static, source: src, expiresAt: time.Now().Add(r.ttl)}
	r.mu.Unlock()
	return cfg
}

// ClearCache evicts every cached entry, forcing the next Resolve to walk
// the chain again. Used after a credential rotation.
func (r *Resolver) ClearCache() {
	r.mu.Lock()
	r.cache = make(map[string]cacheEntry)
	r.mu.Unlock()
}
