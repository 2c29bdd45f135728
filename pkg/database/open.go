package database

import (
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"

	"kanban/pkg/utils"
)

// RedisPrefix namespaces the board keys in a shared Redis.
const RedisPrefix = "kanban:"

// Open returns the KV selected by configuration: Redis when redisAddr is
// set, otherwise the SQL database named by dsn.
func Open(dsn, redisAddr string) (KV, io.Closer, error) {
	if redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		utils.Log("Using redis store at %s", redisAddr)
		return NewRedisStore(client, RedisPrefix), client, nil
	}

	db, driver, err := ConnectDB(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("creating schema: %w", err)
	}
	utils.Log("Using %s store", driver)
	return NewSQLStore(db, driver), db, nil
}
