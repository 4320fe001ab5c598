package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/bodega-bot/internal/application/conversation"
	"github.com/jhoicas/bodega-bot/pkg/config"
)

const sessionPrefix = "bodega:session:"

var _ conversation.SessionStore = (*SessionStore)(nil)

// SessionStore sesiones conversacionales en Redis, para despliegues con más de
// una instancia (las sesiones en memoria exigirían afinidad por cuenta).
// Cada sesión se serializa a JSON con TTL; el vencimiento lo aplica Redis.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// New conecta a Redis y verifica la conexión.
func New(ctx context.Context, cfg config.RedisConfig, ttl time.Duration) (*SessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &SessionStore{client: client, ttl: ttl}, nil
}

// Get devuelve la sesión de la cuenta, o nil si no existe o expiró.
func (s *SessionStore) Get(ctx context.Context, accountID int64) (*conversation.Session, error) {
	raw, err := s.client.Get(ctx, key(accountID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	var session conversation.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

// Put guarda la sesión renovando su TTL.
func (s *SessionStore) Put(ctx context.Context, session *conversation.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, key(session.AccountID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

// Delete elimina la sesión de la cuenta.
func (s *SessionStore) Delete(ctx context.Context, accountID int64) error {
	if err := s.client.Del(ctx, key(accountID)).Err(); err != nil {
		return fmt.Errorf("del session: %w", err)
	}
	return nil
}

// Close cierra la conexión.
func (s *SessionStore) Close() error {
	return s.client.Close()
}

func key(accountID int64) string {
	return sessionPrefix + strconv.FormatInt(accountID, 10)
}
