package database

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"kanban/pkg/utils"
)

const redisTimeout = 2 * time.Second

// RedisStore keeps board state as plain string keys in Redis, each prefixed
// so several boards can share one server.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore uses client for every read and write.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		utils.WithFields(logrus.Fields{"key": key}).Warnf("redis read failed: %v", err)
		return "", false
	}
	return value, true
}

func (s *RedisStore) Set(key, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		utils.WithFields(logrus.Fields{"key": key}).Warnf("redis write failed: %v", err)
		return
	}
	utils.Log("Stored %s in redis (%d bytes)", key, len(value))
}
