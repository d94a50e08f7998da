// Package redisstore implements resolver.SecretStore on top of Redis,
// grounded on the Redis-backed caching pattern used throughout
// Mindburn-Labs/helm's core services.
package redisstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sfcore/salesforce/sferrors"
)

// Store stores SFDX auth URLs under a configurable key prefix.
type Store struct {
	client *redis.Client
	prefix string
}

// New wraps an already-configured *redis.Client. prefix namespaces keys,
// e.g. "salesforce:creds:".
func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "salesforce:creds:"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(name string) string { return s.prefix + name }

// GetSFDXAuthURL implements resolver.SecretStore.
func (s *Store) GetSFDXAuthURL(ctx context.Context, name string) (string, error) {
	val, err := s.client.Get(ctx, s.key(name)).Result()
	if err == redis.Nil {
		return "", sferrors.New(sferrors.KindNotFound, fmt.Sprintf("no credentials stored under %q", name))
	}
	if err != nil {
		return "", sferrors.Wrap(sferrors.KindConnection, "redis secret store lookup failed", err)
	}
	return val, nil
}

// PutSFDXAuthURL stores an auth URL, used by rotation tooling rather
// than the resolver's read path.
func (s *Store) PutSFDXAuthURL(ctx context.Context, name, authURL string) error {
	if err := s.client.Set(ctx, s.key(name), authURL, 0).Err(); err != nil {
		return sferrors.Wrap(sferrors.KindConnection, "redis secret store write failed", err)
	}
	return nil
}

// Delete removes the credentials stored under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := s.client.Del(ctx, s.key(name)).Err(); err != nil {
		return sferrors.Wrap(sferrors.KindConnection, "redis secret store delete failed", err)
	}
	return nil
}
