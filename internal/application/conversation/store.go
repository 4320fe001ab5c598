package conversation

import (
	"context"
	"sync"
	"time"
)

// SessionStore puerto del almacén de sesiones, inyectado al controlador.
// Cada implementación es dueña del TTL: una sesión expirada equivale a inexistente.
type SessionStore interface {
	Get(ctx context.Context, accountID int64) (*Session, error)
	Put(ctx context.Context, session *Session) error
	Delete(ctx context.Context, accountID int64) error
}

// MemoryStore sesiones en memoria para despliegues de proceso único.
// Para escalar horizontalmente usar el store de Redis (infrastructure/redisstore).
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[int64]memoryEntry
	done    chan struct{}
}

type memoryEntry struct {
	session   *Session
	expiresAt time.Time
}

// NewMemoryStore construye el store y arranca la limpieza periódica de sesiones
// abandonadas para acotar el crecimiento de memoria.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		ttl:     ttl,
		entries: make(map[int64]memoryEntry),
		done:    make(chan struct{}),
	}
	go s.janitor()
	return s
}

// Get devuelve la sesión de la cuenta, o nil si no existe o expiró.
func (s *MemoryStore) Get(_ context.Context, accountID int64) (*Session, error) {
	s.mu.RLock()
	entry, ok := s.entries[accountID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, accountID)
		s.mu.Unlock()
		return nil, nil
	}
	return entry.session, nil
}

// Put guarda la sesión renovando su expiración.
func (s *MemoryStore) Put(_ context.Context, session *Session) error {
	s.mu.Lock()
	s.entries[session.AccountID] = memoryEntry{
		session:   session,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()
	return nil
}

// Delete elimina la sesión de la cuenta.
func (s *MemoryStore) Delete(_ context.Context, accountID int64) error {
	s.mu.Lock()
	delete(s.entries, accountID)
	s.mu.Unlock()
	return nil
}

// Close detiene la limpieza periódica.
func (s *MemoryStore) Close() {
	close(s.done)
}

func (s *MemoryStore) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for id, entry := range s.entries {
				if now.After(entry.expiresAt) {
					delete(s.entries, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
