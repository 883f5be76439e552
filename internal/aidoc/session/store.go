package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/apierrors"
	"github.com/gofrs/uuid"
)

const cleanupPeriod = time.Minute

// Store хранит активные редакторские сессии. Неактивные сессии закрываются
// фоновой горутиной по истечении TTL.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

func NewStore(ttl time.Duration) *Store {
	st := &Store{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	go st.cleanupLoop()
	return st
}

func (st *Store) Add(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
}

func (st *Store) Get(id uuid.UUID) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, apierrors.ErrSessionNotFound
	}
	s.Touch()
	return s, nil
}

// Delete закрывает сессию и удаляет её из хранилища. Отсутствующая сессия
// не считается ошибкой.
func (st *Store) Delete(id uuid.UUID) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	if ok {
		delete(st.sessions, id)
	}
	st.mu.Unlock()

	if ok {
		s.Close()
	}
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Close останавливает фоновую очистку и закрывает все сессии.
func (st *Store) Close() {
	st.stopOnce.Do(func() { close(st.done) })

	st.mu.Lock()
	sessions := make([]*Session, 0, len(st.sessions))
	for id, s := range st.sessions {
		sessions = append(sessions, s)
		delete(st.sessions, id)
	}
	st.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

func (st *Store) cleanupLoop() {
	ticker := time.NewTicker(cleanupPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			st.cleanup()
		case <-st.done:
			return
		}
	}
}

func (st *Store) cleanup() {
	deadline := time.Now().Add(-st.ttl)

	st.mu.Lock()
	var expired []*Session
	for id, s := range st.sessions {
		if s.LastActivity().Before(deadline) {
			expired = append(expired, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range expired {
		// Несохранённые изменения уходят в хранилище перед закрытием
		if err := s.Flush(); err != nil {
			slog.Error("Flush expired session", "sessionId", s.ID, "err", err)
		}
		s.Close()
		slog.Info("Session expired", "sessionId", s.ID)
	}
}
