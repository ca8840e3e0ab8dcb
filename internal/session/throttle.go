package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/abelyaev/accountd/internal/config"
	"github.com/abelyaev/accountd/internal/logger"
	"github.com/redis/go-redis/v9"
)

const (
	// throttleKeyPrefix is the Redis key prefix for signup rate limits.
	throttleKeyPrefix = "throttle:signup:"
	// throttleTTL is the TTL for signup rate limit keys.
	throttleTTL = 120 * time.Second
)

// ThrottleResult contains the result of a signup rate limit check.
type ThrottleResult struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// tokenBucketScript is a Lua script implementing the token bucket algorithm.
// It's atomic and handles token refill and consumption in a single operation.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])      -- tokens per second
	local burst = tonumber(ARGV[2])     -- max tokens (bucket capacity)
	local now = tonumber(ARGV[3])       -- current time in seconds
	local ttl = tonumber(ARGV[4])       -- TTL in seconds

	-- Get current state
	local data = redis.call('HMGET', key, 'tokens', 'last_update')
	local tokens = tonumber(data[1]) or burst
	local last_update = tonumber(data[2]) or now

	-- Refill tokens based on elapsed time
	local elapsed = now - last_update
	tokens = math.min(burst, tokens + (elapsed * rate))

	-- Check if request is allowed
	local allowed = 0
	local retry_after = 0

	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		-- Calculate when 1 token will be available
		retry_after = math.ceil((1 - tokens) / rate)
	end

	-- Update state
	redis.call('HMSET', key, 'tokens', tokens, 'last_update', now)
	redis.call('EXPIRE', key, ttl)

	return {allowed, retry_after, math.floor(tokens)}
`)

// Throttle rate-limits registration attempts per client address so a single
// host cannot farm accounts or hammer the email check.
type Throttle struct {
	client        *redis.Client
	logger        *logger.Logger
	ratePerMinute int
	burst         int
}

// NewThrottle constructs a signup [Throttle] from the signup configuration.
// A zero per-minute rate disables throttling entirely.
func NewThrottle(client *redis.Client, cfg config.Signup, logger *logger.Logger) *Throttle {
	logger.Debug().Msg("creating signup throttle")

	return &Throttle{
		client:        client,
		logger:        logger,
		ratePerMinute: cfg.ThrottlePerMinute,
		burst:         cfg.ThrottleBurst,
	}
}

// Allow checks and updates the signup rate limit for a client address.
func (t *Throttle) Allow(ctx context.Context, addr string) ThrottleResult {
	// Unlimited tier
	if t.ratePerMinute == 0 {
		return ThrottleResult{Allowed: true, Remaining: int64(t.burst)}
	}

	key := throttleKeyPrefix + hashAddr(addr)
	ratePerSecond := float64(t.ratePerMinute) / 60.0
	now := time.Now().Unix()

	result, err := tokenBucketScript.Run(ctx, t.client,
		[]string{key},
		ratePerSecond, t.burst, now, int(throttleTTL.Seconds()),
	).Int64Slice()
	if err != nil {
		// Fail open on Redis errors - allow the request
		logger.FromContext(ctx).Warn().Err(err).Msg("signup throttle unavailable, allowing request")
		return ThrottleResult{Allowed: true, Remaining: int64(t.burst)}
	}

	return ThrottleResult{
		Allowed:    result[0] == 1,
		Remaining:  result[2],
		RetryAfter: time.Duration(result[1]) * time.Second,
	}
}

// hashAddr creates a truncated SHA256 hash of a client address so raw
// addresses never land in Redis keys.
func hashAddr(addr string) string {
	hash := sha256.Sum256([]byte(addr))
	return hex.EncodeToString(hash[:8]) // 16 hex chars
}
