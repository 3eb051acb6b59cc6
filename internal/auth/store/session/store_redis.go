package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"coldchain/internal/auth/models"
	id "coldchain/pkg/domain"
	"coldchain/pkg/platform/sentinel"
)

// Each session is a hash under "session:<id>". "session:token:<hash>" points
// at the session id and "session:user:<id>" is the set of a user's sessions.
const (
	keyPrefix = "session:"
	// retainAfterExpiry keeps expired sessions around so a late refresh is
	// reported as expired rather than unknown.
	retainAfterExpiry = time.Hour
)

func sessionKey(sessionID id.SessionID) string { return keyPrefix + sessionID.String() }
func tokenKey(hash string) string               { return keyPrefix + "token:" + hash }
func userKey(userID id.UserID) string           { return keyPrefix + "user:" + userID.String() }

// record is the hash layout. Timestamps are unix nanoseconds and zero stands
// for an unset optional time.
type record struct {
	ID          string `redis:"id"`
	UserID      string `redis:"user_id"`
	TokenHash   string `redis:"token_hash"`
	DeviceLabel string `redis:"device_label"`
	ClientIP    string `redis:"client_ip"`
	CreatedAt   int64  `redis:"created_at"`
	RefreshedAt int64  `redis:"refreshed_at"`
	ExpiresAt   int64  `redis:"expires_at"`
	RevokedAt   int64  `redis:"revoked_at"`
}

func nanos(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixNano()
}

func optional(ns int64) *time.Time {
	if ns == 0 {
		return nil
	}
	t := time.Unix(0, ns)
	return &t
}

func (r record) fields() []any {
	return []any{
		"id", r.ID,
		"user_id", r.UserID,
		"token_hash", r.TokenHash,
		"device_label", r.DeviceLabel,
		"client_ip", r.ClientIP,
		"created_at", r.CreatedAt,
		"refreshed_at", r.RefreshedAt,
		"expires_at", r.ExpiresAt,
		"revoked_at", r.RevokedAt,
	}
}

func toRecord(s *models.RefreshSession) record {
	return record{
		ID:          s.ID.String(),
		UserID:      s.UserID.String(),
		TokenHash:   s.TokenHash,
		DeviceLabel: s.DeviceLabel,
		ClientIP:    s.ClientIP,
		CreatedAt:   s.CreatedAt.UnixNano(),
		RefreshedAt: nanos(s.LastRefreshedAt),
		ExpiresAt:   s.ExpiresAt.UnixNano(),
		RevokedAt:   nanos(s.RevokedAt),
	}
}

func (r record) session() (*models.RefreshSession, error) {
	sid, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("session %q: %w", r.ID, err)
	}
	uid, err := uuid.Parse(r.UserID)
	if err != nil {
		return nil, fmt.Errorf("session %q user: %w", r.ID, err)
	}
	return &models.RefreshSession{
		ID:              id.SessionID(sid),
		UserID:          id.UserID(uid),
		TokenHash:       r.TokenHash,
		DeviceLabel:     r.DeviceLabel,
		ClientIP:        r.ClientIP,
		CreatedAt:       time.Unix(0, r.CreatedAt),
		LastRefreshedAt: optional(r.RefreshedAt),
		ExpiresAt:       time.Unix(0, r.ExpiresAt),
		RevokedAt:       optional(r.RevokedAt),
	}, nil
}

// RedisStore keeps refresh sessions in Redis so every API instance sees the
// same rotations and revocations. Keys expire shortly after the session.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func expiresIn(s *models.RefreshSession) time.Duration {
	return max(time.Until(s.ExpiresAt), 0) + retainAfterExpiry
}

type hashReader interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
}

func load(ctx context.Context, c hashReader, sessionID id.SessionID) (*models.RefreshSession, error) {
	cmd := c.HGetAll(ctx, sessionKey(sessionID))
	fields, err := cmd.Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("session %s: %w", sessionID, sentinel.ErrNotFound)
	}
	var r record
	if err := cmd.Scan(&r); err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	return r.session()
}

func write(ctx context.Context, p redis.Pipeliner, s *models.RefreshSession) {
	ttl := expiresIn(s)
	key := sessionKey(s.ID)
	p.HSet(ctx, key, toRecord(s).fields()...)
	p.Expire(ctx, key, ttl)
	p.Set(ctx, tokenKey(s.TokenHash), s.ID.String(), ttl)
}

func (s *RedisStore) Create(ctx context.Context, session *models.RefreshSession) error {
	if session == nil {
		return errors.New("session is required")
	}
	users := userKey(session.UserID)
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		write(ctx, p, session)
		p.SAdd(ctx, users, session.ID.String())
		p.ExpireNX(ctx, users, expiresIn(session))
		p.ExpireGT(ctx, users, expiresIn(session))
		return nil
	})
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *RedisStore) FindByID(ctx context.Context, sessionID id.SessionID) (*models.RefreshSession, error) {
	return load(ctx, s.client, sessionID)
}

func (s *RedisStore) FindByTokenHash(ctx context.Context, hash string) (*models.RefreshSession, error) {
	raw, err := s.client.Get(ctx, tokenKey(hash)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, fmt.Errorf("refresh token: %w", sentinel.ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("resolve refresh token: %w", err)
	}
	sessionID, err := id.ParseSessionID(raw)
	if err != nil {
		return nil, fmt.Errorf("token index holds %q: %w", raw, err)
	}
	return load(ctx, s.client, sessionID)
}

// Execute runs validate and mutate under WATCH. Losing a race with another
// writer of the same session yields sentinel.ErrAlreadyUsed.
func (s *RedisStore) Execute(ctx context.Context, sessionID id.SessionID, validate func(*models.RefreshSession) error, mutate func(*models.RefreshSession)) (*models.RefreshSession, error) {
	var updated *models.RefreshSession
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := load(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if err := validate(current); err != nil {
			return err
		}
		previousHash := current.TokenHash
		mutate(current)

		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			if current.TokenHash != previousHash {
				p.Del(ctx, tokenKey(previousHash))
			}
			write(ctx, p, current)
			return nil
		})
		if err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		updated = current
		return nil
	}, sessionKey(sessionID))
	if errors.Is(err, redis.TxFailedErr) {
		return nil, fmt.Errorf("session %s changed concurrently: %w", sessionID, sentinel.ErrAlreadyUsed)
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *RedisStore) RevokeAllForUser(ctx context.Context, userID id.UserID, now time.Time) (int, error) {
	members, err := s.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("list sessions of %s: %w", userID, err)
	}
	alreadyRevoked := errors.New("already revoked")

	revoked := 0
	for _, member := range members {
		sessionID, err := id.ParseSessionID(member)
		if err != nil {
			continue
		}
		_, err = s.Execute(ctx, sessionID,
			func(cur *models.RefreshSession) error {
				if cur.IsRevoked() {
					return alreadyRevoked
				}
				return nil
			},
			func(cur *models.RefreshSession) { cur.Revoke(now) },
		)
		switch {
		case err == nil:
			revoked++
		case errors.Is(err, alreadyRevoked), errors.Is(err, sentinel.ErrNotFound):
		default:
			return revoked, err
		}
	}
	return revoked, nil
}

// DeleteExpired is a no-op: Redis expires the keys itself.
func (s *RedisStore) DeleteExpired(context.Context, time.Time) (int, error) {
	return 0, nil
}
