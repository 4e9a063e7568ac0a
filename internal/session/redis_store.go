package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps one key per session plus a per-user set of live
// session ids. The set makes it possible to revoke every session of a
// user; redis TTLs expire the session keys themselves.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

type record struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + sessionID
}

func (s *RedisStore) userKey(userID string) string {
	return s.prefix + "user:" + userID
}

func (s *RedisStore) Bind(ctx context.Context, sessionID, userID, token string) error {
	data, err := json.Marshal(record{UserID: userID, Token: token})
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("bind session: %w", err)
	}
	return s.client.SAdd(ctx, s.userKey(userID), sessionID).Err()
}

func (s *RedisStore) Lookup(ctx context.Context, sessionID string) (string, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("lookup session: %w", err)
	}

	var rec record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return "", fmt.Errorf("decode session: %w", err)
	}

	// Sliding inactivity window.
	s.client.Expire(ctx, s.key(sessionID), s.ttl)

	return rec.Token, nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	data, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err == nil {
		var rec record
		if json.Unmarshal([]byte(data), &rec) == nil && rec.UserID != "" {
			s.client.SRem(ctx, s.userKey(rec.UserID), sessionID)
		}
	}
	return s.client.Del(ctx, s.key(sessionID)).Err()
}

func (s *RedisStore) ClearUser(ctx context.Context, userID string) error {
	members, err := s.client.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("list user sessions: %w", err)
	}

	for _, sessionID := range members {
		if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
			return err
		}
	}
	return s.client.Del(ctx, s.userKey(userID)).Err()
}

// Sweep prunes user index entries whose session key has already
// expired. The TTL removes the session value but not its index member.
func (s *RedisStore) Sweep(ctx context.Context) (int, error) {
	var pruned int

	iter := s.client.Scan(ctx, 0, s.prefix+"user:*", 100).Iterator()
	for iter.Next(ctx) {
		userKey := iter.Val()
		members, err := s.client.SMembers(ctx, userKey).Result()
		if err != nil {
			return pruned, err
		}

		for _, sessionID := range members {
			exists, err := s.client.Exists(ctx, s.key(sessionID)).Result()
			if err != nil {
				return pruned, err
			}
			if exists == 0 {
				if err := s.client.SRem(ctx, userKey, sessionID).Err(); err != nil {
					return pruned, err
				}
				pruned++
			}
		}
	}
	return pruned, iter.Err()
}
