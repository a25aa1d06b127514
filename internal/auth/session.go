package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/capture-moments/backend/internal/models"
	"github.com/capture-moments/backend/internal/web"
)

const (
	DefaultSessionTTL = 24 * time.Hour
	flashTTL          = 10 * time.Minute
)

// Session is the identity established at login. It is trusted for its
// lifetime and never re-checked against the identity store.
type Session struct {
	ID             string
	UserID         models.ID
	Username       string
	IsPhotographer bool
}

// Authenticated reports whether the session carries an identity.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != ""
}

// Role returns the role name derived from the role flag.
func (s *Session) Role() string {
	if s.IsPhotographer {
		return models.RolePhotographer
	}
	return models.RoleClient
}

// SessionStore keeps sessions and flash notices in Redis.
//
//	session:<sid>  hash {user_id, username, is_photographer}
//	flash:<sid>    list of JSON-encoded web.Flash
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{rdb: rdb, ttl: ttl}
}

// Create stores a new session for u and returns its id.
func (s *SessionStore) Create(ctx context.Context, u *models.User) (string, error) {
	sid := uuid.NewString()
	key := sessionKey(sid)

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"user_id":         u.ID,
		"username":        u.Username,
		"is_photographer": boolString(u.IsPhotographer),
	})
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return sid, nil
}

// Get returns the session for sid, or nil if it is unknown or expired.
func (s *SessionStore) Get(ctx context.Context, sid string) (*Session, error) {
	vals, err := s.rdb.HGetAll(ctx, sessionKey(sid)).Result()
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if len(vals) == 0 || vals["user_id"] == "" {
		return nil, nil
	}
	return &Session{
		ID:             sid,
		UserID:         vals["user_id"],
		Username:       vals["username"],
		IsPhotographer: vals["is_photographer"] == "1",
	}, nil
}

// Delete removes a session and any pending flashes.
func (s *SessionStore) Delete(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, sessionKey(sid), flashKey(sid)).Err()
}

// AddFlash appends a notice for sid.
func (s *SessionStore) AddFlash(ctx context.Context, sid string, f web.Flash) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, flashKey(sid), b)
	pipe.Expire(ctx, flashKey(sid), flashTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// PopFlashes returns and clears the pending notices for sid.
func (s *SessionStore) PopFlashes(ctx context.Context, sid string) ([]web.Flash, error) {
	pipe := s.rdb.TxPipeline()
	rng := pipe.LRange(ctx, flashKey(sid), 0, -1)
	pipe.Del(ctx, flashKey(sid))
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	raw := rng.Val()
	out := make([]web.Flash, 0, len(raw))
	for _, item := range raw {
		var f web.Flash
		if err := json.Unmarshal([]byte(item), &f); err != nil {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func sessionKey(sid string) string { return "session:" + sid }
func flashKey(sid string) string   { return "flash:" + sid }

func boolString(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
