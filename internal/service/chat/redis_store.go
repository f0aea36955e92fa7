package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zhouzirui/calm-corner/backend/internal/model/chat"
)

const maxTxRetries = 8

// ErrConflict is returned when a session kept changing underneath an update.
var ErrConflict = errors.New("session was modified concurrently")

// RedisStore keeps one JSON document per session under "<prefix>:session:<id>".
// Every read or write refreshes the TTL, so an idle session disappears after ttl.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a redis backed store. prefix defaults to "wellness".
func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "wellness"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(sessionID string) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, sessionID)
}

func encodeSession(session chat.Session) ([]byte, error) {
	payload, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return payload, nil
}

func decodeSession(raw []byte) (chat.Session, error) {
	var session chat.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return chat.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return session, nil
}

// Create implements Store.
func (s *RedisStore) Create(ctx context.Context, session chat.Session) error {
	payload, err := encodeSession(session)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(session.ID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (chat.Session, error) {
	var (
		raw []byte
		err error
	)
	if s.ttl > 0 {
		raw, err = s.client.GetEx(ctx, s.key(sessionID), s.ttl).Bytes()
	} else {
		raw, err = s.client.Get(ctx, s.key(sessionID)).Bytes()
	}
	if errors.Is(err, redis.Nil) {
		return chat.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return chat.Session{}, fmt.Errorf("load session: %w", err)
	}
	return decodeSession(raw)
}

// Update implements Store with an optimistic WATCH/MULTI transaction.
func (s *RedisStore) Update(ctx context.Context, sessionID string, fn func(*chat.Session) error) (chat.Session, error) {
	key := s.key(sessionID)
	var updated chat.Session

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}

		session, err := decodeSession(raw)
		if err != nil {
			return err
		}
		if err := fn(&session); err != nil {
			return err
		}

		payload, err := encodeSession(session)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = session
		return nil
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return chat.Session{}, err
		}
		return updated, nil
	}
	return chat.Session{}, ErrConflict
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	n, err := s.client.Del(ctx, s.key(sessionID)).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}
