package auth

import (
	"context"
	"time"

	"github.com/frahmantamala/leave-management/internal/cache"
)

const revokedTokenKeyPrefix = "blacklist:token:"

// CacheTokenStore keeps revoked token ids in redis until they would have expired.
// With redis disabled nothing is ever revoked.
type CacheTokenStore struct {
	cache *cache.Client
}

var _ TokenStore = (*CacheTokenStore)(nil)

func NewTokenStore(c *cache.Client) *CacheTokenStore {
	return &CacheTokenStore{cache: c}
}

func (s *CacheTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revokedTokenKeyPrefix+tokenID, []byte("1"), ttl)
}

func (s *CacheTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	data, err := s.cache.Get(ctx, revokedTokenKeyPrefix+tokenID)
	if err != nil {
		return false, nil
	}
	return data != nil, nil
}
