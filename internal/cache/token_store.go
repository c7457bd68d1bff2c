package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// tokenBucket is the single Redis hash holding every live token mapping.
// Fields are keyed token -> email; a row exists exactly as long as the
// token is valid. There is no TTL: revocation is an explicit Delete.
const tokenBucket = "tokens"

// TokenStore maps bearer tokens to verified user emails in a Redis hash
// shared by every process instance. Each operation is a single Redis
// command, so concurrent access needs no additional locking; a racing
// Save and Delete on the same token resolve to whichever lands last.
type TokenStore struct {
	client redis.UniversalClient
	logger *slog.Logger
}

func NewTokenStore(client redis.UniversalClient, logger *slog.Logger) *TokenStore {
	return &TokenStore{client: client, logger: logger}
}

// Save upserts the token -> email mapping. A store failure is returned to
// the caller: a login that cannot record its token must not appear to
// succeed, because the gate would never resolve it.
func (s *TokenStore) Save(ctx context.Context, token, email string) error {
	if err := s.client.HSet(ctx, tokenBucket, token, email).Err(); err != nil {
		return fmt.Errorf("failed to save token mapping: %w", err)
	}

	s.logger.Debug("token mapping saved", slog.String("email", email))
	return nil
}

// Lookup resolves a token to its email. Absence is the normal
// "unauthenticated" signal, not an error.
func (s *TokenStore) Lookup(ctx context.Context, token string) (string, bool, error) {
	email, err := s.client.HGet(ctx, tokenBucket, token).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to look up token: %w", err)
	}
	return email, true, nil
}

// Delete removes the token mapping. Deleting an absent token is a no-op.
func (s *TokenStore) Delete(ctx context.Context, token string) error {
	if err := s.client.HDel(ctx, tokenBucket, token).Err(); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// All returns every live token -> email mapping. Diagnostic use only;
// not called on any request hot path.
func (s *TokenStore) All(ctx context.Context) (map[string]string, error) {
	tokens, err := s.client.HGetAll(ctx, tokenBucket).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}
	return tokens, nil
}
