package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is a thread-safe, bounded map of session id to State. The least
// recently used session is dropped when the store is full, and sessions idle
// longer than the TTL expire. Dropping a session ends it.
type Store struct {
	mutex    sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[string]*entry
	head     *entry // most recently used
	tail     *entry // least recently used
	hits     int64
	misses   int64
	expired  int64
	evicted  int64
	now      func() time.Time
}

type entry struct {
	id       string
	state    State
	lastSeen time.Time
	prev     *entry
	next     *entry
}

// NewStore creates a store holding at most capacity sessions. A ttl of zero
// disables expiry.
func NewStore(capacity int, ttl time.Duration) *Store {
	if capacity <= 0 {
		capacity = 100
	}

	s := &Store{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*entry),
		now:      time.Now,
	}

	s.head = &entry{}
	s.tail = &entry{}
	s.head.next = s.tail
	s.tail.prev = s.head

	return s
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an id produced by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Get returns a copy of the state of session id and refreshes its idle timer.
// Unknown or expired sessions report false.
func (s *Store) Get(id string) (State, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	e, ok := s.items[id]
	if !ok {
		s.misses++
		return State{}, false
	}
	if s.isExpired(e) {
		s.remove(e)
		s.expired++
		s.misses++
		return State{}, false
	}

	e.lastSeen = s.now()
	s.moveToFront(e)
	s.hits++
	return e.state.clone(), true
}

// Put stores a copy of state for session id.
func (s *Store) Put(id string, state State) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if e, ok := s.items[id]; ok {
		e.state = state.clone()
		e.lastSeen = s.now()
		s.moveToFront(e)
		return
	}

	e := &entry{id: id, state: state.clone(), lastSeen: s.now()}
	s.addToFront(e)
	s.items[id] = e

	if len(s.items) > s.capacity {
		s.evictOldest()
	}
}

// Remove ends session id.
func (s *Store) Remove(id string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	e, ok := s.items[id]
	if !ok {
		return false
	}
	s.remove(e)
	return true
}

// Sweep drops every expired session and returns how many were dropped.
func (s *Store) Sweep() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.ttl <= 0 {
		return 0
	}

	n := 0
	// Oldest entries sit at the tail; stop at the first live one.
	for e := s.tail.prev; e != s.head; {
		prev := e.prev
		if !s.isExpired(e) {
			break
		}
		s.remove(e)
		n++
		e = prev
	}
	s.expired += int64(n)
	return n
}

// Len returns the number of live and not yet swept sessions.
func (s *Store) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.items)
}

// Stats returns store statistics.
func (s *Store) Stats() Stats {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return Stats{
		Hits:     s.hits,
		Misses:   s.misses,
		Expired:  s.expired,
		Evicted:  s.evicted,
		Size:     len(s.items),
		Capacity: s.capacity,
	}
}

func (s *Store) isExpired(e *entry) bool {
	return s.ttl > 0 && s.now().Sub(e.lastSeen) > s.ttl
}

func (s *Store) moveToFront(e *entry) {
	s.unlink(e)
	s.addToFront(e)
}

func (s *Store) addToFront(e *entry) {
	e.prev = s.head
	e.next = s.head.next
	s.head.next.prev = e
	s.head.next = e
}

func (s *Store) unlink(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
}

func (s *Store) remove(e *entry) {
	s.unlink(e)
	delete(s.items, e.id)
}

func (s *Store) evictOldest() {
	oldest := s.tail.prev
	if oldest != s.head {
		s.remove(oldest)
		s.evicted++
	}
}

// Stats describes store usage.
type Stats struct {
	Hits     int64 `json:"hits"`
	Misses   int64 `json:"misses"`
	Expired  int64 `json:"expired"`
	Evicted  int64 `json:"evicted"`
	Size     int   `json:"current_size"`
	Capacity int   `json:"max_capacity"`
}
