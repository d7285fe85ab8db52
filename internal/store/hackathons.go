package store

import (
	"fmt"
	"sort"

	"squadnet/internal/models"
)

func (s *Store) ListHackathons() []*models.Hackathon {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Hackathon, 0, len(s.hackathons))
	for _, h := range s.hackathons {
		c := *h
		c.Categories = cloneStrings(h.Categories)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate < out[j].StartDate })
	return out
}

// RegisterForHackathon counts a user into a hackathon. Double
// registration is a conflict.
func (s *Store) RegisterForHackathon(hackathonID, userID string) (*models.Hackathon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.hackathons[hackathonID]
	if !ok {
		return nil, fmt.Errorf("hackathon %s: %w", hackathonID, ErrNotFound)
	}
	if s.hackathonRegs == nil {
		s.hackathonRegs = make(map[string]map[string]bool)
	}
	regs, ok := s.hackathonRegs[hackathonID]
	if !ok {
		regs = make(map[string]bool)
		s.hackathonRegs[hackathonID] = regs
	}
	if regs[userID] {
		return nil, fmt.Errorf("user %s already registered: %w", userID, ErrDuplicate)
	}
	regs[userID] = true
	h.Participants++

	c := *h
	c.Categories = cloneStrings(h.Categories)
	return &c, nil
}
