package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/openconf/cfp-admin/internal/importer"
)

// Memory is an in-memory store used by tests and local development.
// Sessions buffer their writes and publish them on Commit, mirroring the
// transactional semantics of the pgx store; identity lookups within a
// session see the session's own uncommitted writes first.
//
// The store never rejects a repeated identity. Duplicate suppression is
// the orchestrator's call, driven by HasIdentity and the skipDuplicates
// option.
type Memory struct {
	mu        sync.Mutex
	proposals []importer.NewProposal
	log       []ImportLogEntry
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Begin(context.Context) (Session, error) {
	return &memSession{store: m}, nil
}

func (m *Memory) ListImports(_ context.Context, limit int) ([]ImportLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]ImportLogEntry, len(m.log))
	copy(entries, m.log)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Proposals returns all committed proposals, for test assertions.
func (m *Memory) Proposals() []importer.NewProposal {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]importer.NewProposal, len(m.proposals))
	copy(out, m.proposals)
	return out
}

type memSession struct {
	store   *Memory
	pending []importer.NewProposal
	pendLog []ImportLogEntry
	done    bool
}

func sameIdentity(p importer.NewProposal, conferenceID uuid.UUID, key string) bool {
	return p.ConferenceID == conferenceID && p.IdentityKey == key
}

func (s *memSession) HasIdentity(_ context.Context, conferenceID uuid.UUID, key string) (bool, error) {
	for _, p := range s.pending {
		if sameIdentity(p, conferenceID, key) {
			return true, nil
		}
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for _, p := range s.store.proposals {
		if sameIdentity(p, conferenceID, key) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memSession) CreateProposal(_ context.Context, p importer.NewProposal) error {
	s.pending = append(s.pending, p)
	return nil
}

func (s *memSession) RecordImport(_ context.Context, e ImportLogEntry) error {
	s.pendLog = append(s.pendLog, e)
	return nil
}

func (s *memSession) Commit(context.Context) error {
	if s.done {
		return nil
	}
	s.done = true

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.proposals = append(s.store.proposals, s.pending...)
	s.store.log = append(s.store.log, s.pendLog...)
	return nil
}

func (s *memSession) Rollback(context.Context) error {
	s.done = true
	s.pending = nil
	s.pendLog = nil
	return nil
}
