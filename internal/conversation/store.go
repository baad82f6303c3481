package conversation

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"restocall/internal/models"
)

// Store is the session-table collaborator. The engine takes it as a
// dependency rather than closing over global state, so tests can inject an
// in-memory fake with controlled contents.
type Store interface {
	Create(demo bool) *models.Session
	Get(id string) (*models.Session, bool)
	Put(s *models.Session)
	Delete(id string)
}

const defaultSessionTTL = 30 * time.Minute

type sessionEntry struct {
	session  *models.Session
	lastSeen time.Time
}

// MemoryStore keeps sessions in one process-wide map. Sessions are evicted
// after sitting idle for the TTL; a call that ends cleanly is deleted
// explicitly.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	ttl      time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	s := &MemoryStore{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	go s.sweepLoop()
	return s
}

// Close stops the background sweeper. Safe to call more than once. The store
// stays usable afterwards; expired sessions are still evicted lazily on Get.
func (s *MemoryStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *MemoryStore) Create(demo bool) *models.Session {
	sess := &models.Session{
		ID:       "sess-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16],
		Demo:     demo,
		State:    models.StateStart,
		Language: "fr",
	}

	s.mu.Lock()
	s.sessions[sess.ID] = &sessionEntry{session: sess, lastSeen: time.Now()}
	s.mu.Unlock()

	return sess
}

func (s *MemoryStore) Get(id string) (*models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if time.Since(entry.lastSeen) > s.ttl {
		delete(s.sessions, id)
		return nil, false
	}
	entry.lastSeen = time.Now()
	return entry.session, true
}

func (s *MemoryStore) Put(sess *models.Session) {
	if sess == nil || sess.ID == "" {
		return
	}
	s.mu.Lock()
	s.sessions[sess.ID] = &sessionEntry{session: sess, lastSeen: time.Now()}
	s.mu.Unlock()
}

func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *MemoryStore) sweepLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-s.ttl)
			s.mu.Lock()
			for id, entry := range s.sessions {
				if entry.lastSeen.Before(cutoff) {
					delete(s.sessions, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
