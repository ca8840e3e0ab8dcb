package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/abelyaev/accountd/internal/config"
	"github.com/abelyaev/accountd/internal/logger"
	"github.com/abelyaev/accountd/models"
	"github.com/redis/go-redis/v9"
)

// Redis key layout:
//   - session:<id>       → JSON-encoded models.Session, expires with the TTL
//   - user_sessions:<id> → set of session ids the user holds, for bulk destroy
const (
	sessionKeyPrefix      = "session:"
	userSessionsKeyPrefix = "user_sessions:"

	// sessionIDBytes is the entropy of a session id before hex encoding.
	sessionIDBytes = 32
)

// DefaultTTL bounds session lifetime when the configuration leaves it unset.
const DefaultTTL = 24 * time.Hour

// Manager stores, loads, and destroys authenticated sessions in Redis.
type Manager struct {
	client *redis.Client
	logger *logger.Logger
	ttl    time.Duration
}

// NewManager constructs a session [Manager] on top of an established Redis
// client. A zero or negative TTL in the configuration falls back to
// [DefaultTTL].
func NewManager(client *redis.Client, cfg config.Session, logger *logger.Logger) *Manager {
	logger.Debug().Msg("creating session manager")

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Manager{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

// newSessionID returns a fresh unguessable session identifier.
func newSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func userSessionsKey(userID int64) string {
	return userSessionsKeyPrefix + strconv.FormatInt(userID, 10)
}

// Create establishes a new session for the user and returns it. The session
// is registered in the per-user index so that Rotate and DestroyAllForUser
// can find every session the user holds.
func (m *Manager) Create(ctx context.Context, user models.User) (models.Session, error) {
	log := logger.FromContext(ctx)

	id, err := newSessionID()
	if err != nil {
		return models.Session{}, err
	}

	now := time.Now()
	session := models.Session{
		ID:        id,
		UserID:    user.UserID,
		Email:     user.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to encode session: %w", err)
	}

	pipe := m.client.Pipeline()
	pipe.Set(ctx, sessionKey(id), payload, m.ttl)
	pipe.SAdd(ctx, userSessionsKey(user.UserID), id)
	pipe.Expire(ctx, userSessionsKey(user.UserID), m.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Err(err).Str("func", "*Manager.Create").Msg("failed to store session")
		return models.Session{}, fmt.Errorf("failed to store session: %w", err)
	}

	return session, nil
}

// Get loads the session for the given id. Returns [ErrNoSessionWasFound]
// when the id is unknown or the session has expired.
func (m *Manager) Get(ctx context.Context, sessionID string) (models.Session, error) {
	payload, err := m.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Session{}, ErrNoSessionWasFound
		}
		return models.Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return models.Session{}, fmt.Errorf("failed to decode session: %w", err)
	}

	// Redis TTL should have evicted it already; drop the leftover.
	if session.Expired(time.Now()) {
		_ = m.Destroy(ctx, sessionID)
		return models.Session{}, ErrNoSessionWasFound
	}

	return session, nil
}

// Destroy removes a single session. Destroying a session that no longer
// exists is not an error, so logout stays idempotent.
func (m *Manager) Destroy(ctx context.Context, sessionID string) error {
	payload, err := m.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("failed to load session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		// Undecodable entry: delete the key, index cleanup is impossible.
		return m.client.Del(ctx, sessionKey(sessionID)).Err()
	}

	pipe := m.client.Pipeline()
	pipe.Del(ctx, sessionKey(sessionID))
	pipe.SRem(ctx, userSessionsKey(session.UserID), sessionID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}

	return nil
}

// DestroyAllForUser removes every session the user holds. Account deletion
// calls this before touching the user row, so a failure here must surface
// to the caller instead of being swallowed.
func (m *Manager) DestroyAllForUser(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	ids, err := m.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		log.Err(err).Str("func", "*Manager.DestroyAllForUser").Int64("user_id", userID).Msg("failed to list user sessions")
		return fmt.Errorf("failed to list user sessions: %w", err)
	}

	pipe := m.client.Pipeline()
	for _, id := range ids {
		pipe.Del(ctx, sessionKey(id))
	}
	pipe.Del(ctx, userSessionsKey(userID))

	if _, err := pipe.Exec(ctx); err != nil {
		log.Err(err).Str("func", "*Manager.DestroyAllForUser").Int64("user_id", userID).Msg("failed to destroy sessions")
		return fmt.Errorf("failed to destroy sessions: %w", err)
	}

	return nil
}

// Rotate invalidates every session the user holds and issues a fresh one
// bound to the user's current identity. Profile updates call this so that
// previously issued cookies, including stolen ones, stop working.
func (m *Manager) Rotate(ctx context.Context, user models.User) (models.Session, error) {
	if err := m.DestroyAllForUser(ctx, user.UserID); err != nil {
		return models.Session{}, err
	}
	return m.Create(ctx, user)
}

// Close releases the underlying Redis client.
func (m *Manager) Close() error {
	return m.client.Close()
}
