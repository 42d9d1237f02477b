package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/tblock/pkg/errors"
	"github.com/matzehuels/tblock/pkg/game"
)

// entry is a session plus the lock that serialises access to it.
type entry struct {
	mu        sync.Mutex
	id        string
	session   *game.Session
	seed      uint64
	submitted bool
	created   time.Time
	seq       uint64
}

// sessions is the in-memory registry. When full, creating a session evicts
// the oldest one.
type sessions struct {
	mu      sync.RWMutex
	byID    map[string]*entry
	next    uint64
	max     int
	cfg     game.Config
	options []game.Option
}

func newSessions(cfg game.Config, max int, opts ...game.Option) *sessions {
	return &sessions{
		byID:    make(map[string]*entry),
		max:     max,
		cfg:     cfg,
		options: opts,
	}
}

func (m *sessions) create(seed uint64) (*entry, error) {
	cfg := m.cfg
	if seed != 0 {
		cfg.Seed = seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	s, err := game.New(cfg, m.options...)
	if err != nil {
		return nil, err
	}
	e := &entry{id: uuid.NewString(), session: s, seed: cfg.Seed, created: time.Now()}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.byID) >= m.max {
		m.evictOldestLocked()
	}
	m.next++
	e.seq = m.next
	m.byID[e.id] = e
	return e, nil
}

func (m *sessions) get(id string) (*entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.byID[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	return e, nil
}

func (m *sessions) remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byID[id]
	delete(m.byID, id)
	return ok
}

func (m *sessions) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}

func (m *sessions) evictOldestLocked() {
	var oldest *entry
	for _, e := range m.byID {
		if oldest == nil || e.seq < oldest.seq {
			oldest = e
		}
	}
	if oldest != nil {
		delete(m.byID, oldest.id)
	}
}
