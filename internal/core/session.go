package core

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the application state of one browser: the current batch, its
// summary, the upload's file name and the active filter mode.
//
// Every change replaces whole values under the lock; a batch is never
// edited in place, so snapshots can share the slice safely.
type Session struct {
	ID string

	mu         sync.RWMutex
	records    []ClassifiedRecord
	summary    Summary
	fileName   string
	mode       FilterMode
	uploadedAt time.Time
	uploading  bool
	lastSeen   time.Time
}

// Snapshot is a consistent read of a session.
type Snapshot struct {
	Records    []ClassifiedRecord
	Summary    Summary
	FileName   string
	Mode       FilterMode
	UploadedAt time.Time
}

// HasResults reports whether a batch is loaded.
func (s Snapshot) HasResults() bool {
	return len(s.Records) > 0
}

func newSession(id string, now time.Time) *Session {
	return &Session{ID: id, mode: ModeAll, lastSeen: now}
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Records:    s.records,
		Summary:    s.summary,
		FileName:   s.fileName,
		Mode:       s.mode,
		UploadedAt: s.uploadedAt,
	}
}

// Replace swaps in a new batch and returns its summary. The filter mode is kept.
func (s *Session) Replace(records []ClassifiedRecord, fileName string) Summary {
	summary := Summarize(records)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.summary = summary
	s.fileName = fileName
	s.uploadedAt = time.Now()
	return summary
}

// Clear discards the batch and resets the filter mode.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.summary = Summary{}
	s.fileName = ""
	s.mode = ModeAll
	s.uploadedAt = time.Time{}
}

// SetMode selects the filter mode, replacing the previous one.
func (s *Session) SetMode(mode FilterMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
}

// beginUpload marks the session busy. Only one upload per session runs at a time.
func (s *Session) beginUpload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploading {
		return ErrUploadInProgress
	}
	s.uploading = true
	return nil
}

func (s *Session) endUpload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploading = false
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.uploading {
		return 0
	}
	return now.Sub(s.lastSeen)
}

// SessionStore maps session IDs to sessions and evicts idle ones.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store whose sessions expire after ttl of inactivity.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the session for id and marks it used.
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.Lock()
	sess, ok := st.sessions[id]
	st.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.touch(st.now())
	return sess, nil
}

// Create starts a new empty session with a random ID.
func (st *SessionStore) Create() *Session {
	now := st.now()
	sess := newSession(uuid.NewString(), now)

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()
	return sess
}

// GetOrCreate returns the session for id, or a new one when id is malformed,
// unknown or expired. created reports which.
func (st *SessionStore) GetOrCreate(id string) (sess *Session, created bool) {
	if _, err := uuid.Parse(id); err == nil {
		if sess, err := st.Get(id); err == nil {
			return sess, false
		}
	}
	return st.Create(), true
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed. Sessions with an upload in flight are kept.
func (st *SessionStore) Sweep() int {
	now := st.now()

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, sess := range st.sessions {
		if sess.idleSince(now) > st.ttl {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is cancelled.
func (st *SessionStore) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				slog.Debug("expired result sessions removed", "count", n, "remaining", st.Len())
			}
		}
	}
}
