package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/model"
	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/utils/cache"
)

// ErrSessionNotFound is returned for operations on a session id that was
// never started (or that a TTL-bounded backend has already evicted).
var ErrSessionNotFound = errors.New("exam session not found")

// SessionStore keeps exam sessions keyed by their opaque id.
//
// Ensure is the create-if-absent path used by every endpoint, so a student
// can hit fetch-papers or ask-question first without an explicit start.
// Put writes a session back; the in-memory store hands out shared pointers
// so Put is mostly a formality there, but the Redis store round-trips JSON
// and will lose mutations that are never Put. Concurrent writers to the
// same session are last-writer-wins in both backends.
type SessionStore interface {
	Ensure(ctx context.Context, id string, seed model.SessionSeed) (*model.ExamSession, error)
	Get(ctx context.Context, id string) (*model.ExamSession, error)
	Put(ctx context.Context, session *model.ExamSession) error
}

// MemorySessionStore is the default backend: a process-local concurrent map
// with no expiry. Sessions vanish on restart, which the ask-question flow
// tolerates by re-ensuring sessions on every call.
type MemorySessionStore struct {
	sessions *gocache.Cache
}

// NewMemorySessionStore creates an in-memory store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: gocache.New(gocache.NoExpiration, 0),
	}
}

// Ensure returns the existing session or atomically creates one from the
// seed. Add loses the race to a concurrent creator, in which case the
// winner's session is returned.
func (m *MemorySessionStore) Ensure(_ context.Context, id string, seed model.SessionSeed) (*model.ExamSession, error) {
	if v, ok := m.sessions.Get(id); ok {
		return v.(*model.ExamSession), nil
	}
	session := model.NewExamSession(id, seed)
	if err := m.sessions.Add(id, session, gocache.NoExpiration); err != nil {
		if v, ok := m.sessions.Get(id); ok {
			return v.(*model.ExamSession), nil
		}
		return nil, err
	}
	return session, nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (*model.ExamSession, error) {
	v, ok := m.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return v.(*model.ExamSession), nil
}

func (m *MemorySessionStore) Put(_ context.Context, session *model.ExamSession) error {
	m.sessions.Set(session.ID, session, gocache.NoExpiration)
	return nil
}

// RedisSessionStore persists sessions as JSON blobs with a TTL, so practice
// runs survive restarts and can be shared across instances.
type RedisSessionStore struct {
	cache *cache.RedisCache
	ttl   time.Duration
}

// NewRedisSessionStore creates a Redis-backed store. ttl <= 0 disables
// expiry.
func NewRedisSessionStore(c *cache.RedisCache, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{cache: c, ttl: ttl}
}

func sessionKey(id string) string {
	return fmt.Sprintf("exam:session:%s", id)
}

func (r *RedisSessionStore) Ensure(ctx context.Context, id string, seed model.SessionSeed) (*model.ExamSession, error) {
	var existing model.ExamSession
	err := r.cache.GetJSON(ctx, sessionKey(id), &existing)
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, cache.ErrNotFound) {
		return nil, err
	}

	session := model.NewExamSession(id, seed)
	won, err := r.cache.SetJSONNX(ctx, sessionKey(id), session, r.ttl)
	if err != nil {
		return nil, err
	}
	if !won {
		// A concurrent creator got there first; serve its session.
		var winner model.ExamSession
		if err := r.cache.GetJSON(ctx, sessionKey(id), &winner); err == nil {
			return &winner, nil
		}
	}
	return session, nil
}

func (r *RedisSessionStore) Get(ctx context.Context, id string) (*model.ExamSession, error) {
	var session model.ExamSession
	err := r.cache.GetJSON(ctx, sessionKey(id), &session)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *RedisSessionStore) Put(ctx context.Context, session *model.ExamSession) error {
	return r.cache.SetJSON(ctx, sessionKey(session.ID), session, r.ttl)
}
