package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps preferences in Redis so they survive a relay restart.
// Values are JSON documents under "prefs:<viewer>:<peer>".
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store backed by the given client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(viewer, peer string) string {
	return fmt.Sprintf("prefs:%s:%s", viewer, peer)
}

func (s *RedisStore) Set(ctx context.Context, viewer, peer string, autoTranslate bool, targetLang string) (Preference, error) {
	pref := normalize(autoTranslate, targetLang)

	payload, err := json.Marshal(pref)
	if err != nil {
		return Preference{}, fmt.Errorf("marshal preference: %w", err)
	}

	if err := s.client.Set(ctx, redisKey(viewer, peer), payload, 0).Err(); err != nil {
		return Preference{}, fmt.Errorf("store preference: %w", err)
	}

	return pref, nil
}

func (s *RedisStore) Get(ctx context.Context, viewer, peer string) (Preference, error) {
	payload, err := s.client.Get(ctx, redisKey(viewer, peer)).Result()
	if errors.Is(err, redis.Nil) {
		return DefaultPreference(), nil
	}
	if err != nil {
		return Preference{}, fmt.Errorf("load preference: %w", err)
	}

	var pref Preference
	if err := json.Unmarshal([]byte(payload), &pref); err != nil {
		return Preference{}, fmt.Errorf("unmarshal preference: %w", err)
	}

	return pref, nil
}
