// Package session keeps authenticated-session state and signup throttling
// in Redis. The browser only ever sees an opaque session id inside a cookie;
// everything else lives server-side under keys derived from that id.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/abelyaev/accountd/internal/config"
	"github.com/abelyaev/accountd/internal/logger"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient opens and verifies a Redis connection.
func NewRedisClient(ctx context.Context, cfg config.Redis, log *logger.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Connection pool settings
	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	// Verify connection
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	log.Debug().Str("func", "NewRedisClient").Msg("redis connection established")

	return client, nil
}
