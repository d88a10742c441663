// Package store holds the appeal registry backends.
package store

import (
	"context"
	"sync"

	"concord/internal/arbitration"
	id "concord/pkg/domain"
	"concord/pkg/platform/sentinel"
)

// Error Contract:
// - FindByID and Update return sentinel.ErrNotFound when no appeal exists
// - Insert returns sentinel.ErrConflict when the appeal id is already taken
// - Methods return nil on success

// InMemoryStore keeps appeals keyed by appeal id and hands out deep copies.
type InMemoryStore struct {
	mu      sync.RWMutex
	appeals map[id.AppealID]*arbitration.Appeal
}

// New constructs an empty in-memory appeal store.
func New() *InMemoryStore {
	return &InMemoryStore{appeals: make(map[id.AppealID]*arbitration.Appeal)}
}

func (s *InMemoryStore) Insert(_ context.Context, appeal *arbitration.Appeal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.appeals[appeal.ID]; ok {
		return sentinel.ErrConflict
	}
	s.appeals[appeal.ID] = copyAppeal(appeal)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, appealID id.AppealID) (*arbitration.Appeal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	appeal, ok := s.appeals[appealID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyAppeal(appeal), nil
}

func (s *InMemoryStore) Update(_ context.Context, appeal *arbitration.Appeal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.appeals[appeal.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.appeals[appeal.ID] = copyAppeal(appeal)
	return nil
}

// ListBySession returns every appeal raised against the session's verdicts.
func (s *InMemoryStore) ListBySession(_ context.Context, sessionID id.SessionID) ([]*arbitration.Appeal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var appeals []*arbitration.Appeal
	for _, appeal := range s.appeals {
		if appeal.SessionID == sessionID {
			appeals = append(appeals, copyAppeal(appeal))
		}
	}
	return appeals, nil
}

func copyAppeal(a *arbitration.Appeal) *arbitration.Appeal {
	copied := *a
	copied.NewEvidence = append([]string(nil), a.NewEvidence...)
	copied.Reviewers = append([]string(nil), a.Reviewers...)
	if a.ReviewedAt != nil {
		reviewedAt := *a.ReviewedAt
		copied.ReviewedAt = &reviewedAt
	}
	if a.Metadata != nil {
		copied.Metadata = make(arbitration.Metadata, len(a.Metadata))
		for k, v := range a.Metadata {
			copied.Metadata[k] = v
		}
	}
	return &copied
}
