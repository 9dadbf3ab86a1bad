package sessions

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jrycodes/typotrace/internal/analysis"
)

// Response is the JSON shape returned for a session.
type Response struct {
	ID   uuid.UUID     `json:"id"`
	View analysis.View `json:"view"`
}

type session struct {
	id         uuid.UUID
	controller *analysis.Controller

	mu       sync.Mutex
	lastSeen time.Time
	archived string
}

func (s *session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

func (s *session) archiveKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.archived
}

func (s *session) setArchiveKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.archived = key
}

func (s *session) response() Response {
	return Response{ID: s.id, View: s.controller.View()}
}
