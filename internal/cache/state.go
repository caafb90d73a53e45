package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const stateKeyPrefix = "oauth_state:"

// StateStore 保存外部登入的 CSRF state，每個 state 只能被取用一次
type StateStore struct {
	cache Cache
}

func NewStateStore(c Cache) *StateStore {
	return &StateStore{cache: c}
}

// Save 記錄已發出的 state，ttl 到期後自動失效
func (s *StateStore) Save(ctx context.Context, state string, ttl time.Duration) error {
	if err := s.cache.Set(ctx, stateKeyPrefix+state, "1", ttl).Err(); err != nil {
		return fmt.Errorf("StateStore.Save: %w", err)
	}
	return nil
}

// Consume 取出並刪除 state；不存在或已使用過時回傳 false
func (s *StateStore) Consume(ctx context.Context, state string) (bool, error) {
	err := s.cache.GetDel(ctx, stateKeyPrefix+state).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("StateStore.Consume: %w", err)
	}
	return true, nil
}
