package session

import (
	"context"
	"sync"
	"time"

	"github.com/dentaline/clinicbot/core/logger"
	"log/slog"
)

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore constructs an in-memory Store. Sessions idle longer
// than ttl are removed by the janitor started via StartJanitor.
func NewMemoryStore(ttl time.Duration) Store {
	return &memoryStore{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *memoryStore) get(userID int64) *Session {
	sess, ok := m.sessions[userID]
	if !ok {
		sess = &Session{State: StateIdle, Fields: make(map[string]string)}
		m.sessions[userID] = sess
	}
	sess.Touched = m.now()
	return sess
}

func (m *memoryStore) Snapshot(userID int64) Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[userID]
	if !ok {
		return Session{State: StateIdle, Fields: make(map[string]string)}
	}
	copied := *sess
	copied.Fields = make(map[string]string, len(sess.Fields))
	for k, v := range sess.Fields {
		copied.Fields[k] = v
	}
	return copied
}

func (m *memoryStore) StartDialog(userID int64, dialog string, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := m.get(userID)
	sess.Dialog = dialog
	sess.State = st
	sess.Fields = make(map[string]string)
}

func (m *memoryStore) SetState(userID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.get(userID).State = st
}

func (m *memoryStore) State(userID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sess, ok := m.sessions[userID]; ok {
		return sess.State
	}
	return StateIdle
}

func (m *memoryStore) SetField(userID int64, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.get(userID).Fields[key] = value
}

func (m *memoryStore) Field(userID int64, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[userID]
	if !ok {
		return "", false
	}
	v, ok := sess.Fields[key]
	return v, ok
}

func (m *memoryStore) ClearDialog(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[userID]
	if !ok {
		return
	}
	sess.Dialog = ""
	sess.State = StateIdle
	sess.Fields = make(map[string]string)
	sess.Touched = m.now()
}

func (m *memoryStore) InProgress(userID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[userID]
	return ok && sess.Dialog != "" && sess.State != StateIdle
}

func (m *memoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// evictIdle removes sessions untouched for longer than the TTL and
// returns how many were removed.
func (m *memoryStore) evictIdle() int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, sess := range m.sessions {
		if sess.Touched.Before(cutoff) {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}

// StartJanitor runs periodic eviction of idle sessions until ctx is done.
func StartJanitor(ctx context.Context, store Store, interval time.Duration) {
	m, ok := store.(*memoryStore)
	if !ok || m.ttl <= 0 {
		return
	}
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := m.evictIdle(); n > 0 {
					logger.Info(ctx, "session", "janitor.evicted",
						slog.Int("sessions", n),
						slog.Int("remaining", m.Len()),
					)
				}
			}
		}
	}()
}
