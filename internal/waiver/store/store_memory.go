// Package store holds the active-waiver registry backends.
package store

import (
	"context"
	"sync"

	"concord/internal/arbitration"
	id "concord/pkg/domain"
	"concord/pkg/platform/sentinel"
)

// Error Contract:
// - FindByRule and Remove return sentinel.ErrNotFound when no entry exists
// - Insert returns sentinel.ErrConflict when the rule already has an entry
// - Methods return nil on success

// InMemoryRegistry keeps at most one waiver decision per rule id. It hands
// out copies so callers can never mutate registry state in place. The store
// itself is oblivious to expiry; the service interprets lifecycle.
type InMemoryRegistry struct {
	mu      sync.RWMutex
	waivers map[id.RuleID]*arbitration.WaiverDecision
}

// New constructs an empty in-memory registry.
func New() *InMemoryRegistry {
	return &InMemoryRegistry{waivers: make(map[id.RuleID]*arbitration.WaiverDecision)}
}

func (s *InMemoryRegistry) FindByRule(_ context.Context, ruleID id.RuleID) (*arbitration.WaiverDecision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	decision, ok := s.waivers[ruleID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copyDecision := *decision
	return &copyDecision, nil
}

func (s *InMemoryRegistry) Insert(_ context.Context, decision *arbitration.WaiverDecision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.waivers[decision.RuleID]; ok {
		return sentinel.ErrConflict
	}
	copyDecision := *decision
	s.waivers[decision.RuleID] = &copyDecision
	return nil
}

func (s *InMemoryRegistry) Update(_ context.Context, decision *arbitration.WaiverDecision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.waivers[decision.RuleID]; !ok {
		return sentinel.ErrNotFound
	}
	copyDecision := *decision
	s.waivers[decision.RuleID] = &copyDecision
	return nil
}

func (s *InMemoryRegistry) Remove(_ context.Context, ruleID id.RuleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.waivers[ruleID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.waivers, ruleID)
	return nil
}

// All returns a copy of every registry entry, expired ones included.
func (s *InMemoryRegistry) All(_ context.Context) ([]*arbitration.WaiverDecision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	decisions := make([]*arbitration.WaiverDecision, 0, len(s.waivers))
	for _, decision := range s.waivers {
		copyDecision := *decision
		decisions = append(decisions, &copyDecision)
	}
	return decisions, nil
}
