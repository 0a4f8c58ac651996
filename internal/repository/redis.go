package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ivanoskov/atm_bot/internal/model"
)

const redisKeyPrefix = "atm_bot:state:"

// RedisStore хранит состояние строкой по ключу пользователя с ограниченным сроком жизни
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(addr, password string, db int, ttl time.Duration) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	return NewRedisStoreWithClient(client, ttl)
}

func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Get(ctx context.Context, userID int64) (model.ConversationState, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+userKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return model.StateIdle, nil
	}
	if err != nil {
		return model.StateIdle, fmt.Errorf("failed to get state: %w", err)
	}
	return parseState(raw)
}

func (s *RedisStore) Set(ctx context.Context, userID int64, state model.ConversationState) error {
	if state == model.StateIdle {
		return s.Clear(ctx, userID)
	}
	if _, err := parseState(string(state)); err != nil {
		return err
	}
	if err := s.client.Set(ctx, redisKeyPrefix+userKey(userID), string(state), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set state: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, redisKeyPrefix+userKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	return nil
}
