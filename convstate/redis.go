package convstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisStore is the shared Store for multi-instance deployments. The TTL is
// enforced by the key expiry itself.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(addr, password string, db int) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).
			Str("addr", addr).
			Int("db", db).
			Msg("Redis connection failed")
	} else {
		log.Info().
			Str("addr", addr).
			Int("db", db).
			Msg("Redis connected successfully")
	}

	return &RedisStore{rdb: rdb}
}

func redisKey(tenantID, userID string) string {
	return fmt.Sprintf("conv_state:%s", stateKey(tenantID, userID))
}

func (s *RedisStore) Start(ctx context.Context, state State) error {
	body, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, redisKey(state.TenantID, state.UserID), body, TTL).Err()
}

func (s *RedisStore) Get(ctx context.Context, tenantID, userID string) (State, bool, error) {
	body, err := s.rdb.Get(ctx, redisKey(tenantID, userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, err
	}

	var state State
	if err := json.Unmarshal(body, &state); err != nil {
		return State{}, false, err
	}
	return state, true, nil
}

func (s *RedisStore) Clear(ctx context.Context, tenantID, userID string) error {
	return s.rdb.Del(ctx, redisKey(tenantID, userID)).Err()
}
