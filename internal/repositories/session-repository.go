package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tersys/internal/console"
	apperrors "tersys/pkg/errors"
)

const sessionKeyPrefix = "session:"

type SessionRepositoryInterface interface {
	Save(ctx context.Context, session console.Session, ttl time.Duration) error
	Find(ctx context.Context, id string) (console.Session, error)
	Delete(ctx context.Context, id string) error
}

// SessionRepository хранит сессии в кеше как JSON с TTL.
type SessionRepository struct {
	cache CacheRepositoryInterface
}

func NewSessionRepository(cache CacheRepositoryInterface) SessionRepositoryInterface {
	return &SessionRepository{cache: cache}
}

func (r *SessionRepository) Save(ctx context.Context, session console.Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("ошибка сериализации сессии: %w", err)
	}
	return r.cache.Set(ctx, sessionKeyPrefix+session.ID, payload, ttl)
}

func (r *SessionRepository) Find(ctx context.Context, id string) (console.Session, error) {
	raw, err := r.cache.Get(ctx, sessionKeyPrefix+id)
	if errors.Is(err, ErrCacheMiss) {
		return console.Session{}, apperrors.ErrSessionNotFound
	}
	if err != nil {
		return console.Session{}, err
	}

	var session console.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return console.Session{}, fmt.Errorf("повреждённая запись сессии: %w", err)
	}
	if !session.Valid() || session.ID != id {
		return console.Session{}, apperrors.ErrSessionNotFound
	}
	return session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.cache.Del(ctx, sessionKeyPrefix+id)
}
