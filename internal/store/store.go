// Package store holds the application state: users, projects,
// applications, notifications and the derived per-user project index.
// Everything lives in process memory and resets on restart; the
// collaboration workspace keeps its own durable storage elsewhere.
package store

import (
	"errors"
	"sync"
	"time"

	"squadnet/internal/events"
	"squadnet/internal/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("invalid input")
	ErrDuplicate     = errors.New("already exists")
	ErrForbidden     = errors.New("not allowed")
	ErrAlreadyMember = errors.New("already a team member")
	ErrConflict      = errors.New("conflicting state")
)

type userIndex struct {
	owned         map[string]bool
	participating map[string]bool
}

type session struct {
	userID    string
	expiresAt time.Time
}

type Store struct {
	mu sync.RWMutex

	users         map[string]*models.User
	projects      map[string]*models.Project
	applications  map[string]*models.Application
	notifications map[string][]*models.Notification
	hackathons    map[string]*models.Hackathon
	hackathonRegs map[string]map[string]bool
	contacts      []*models.ContactMessage

	// Derived per-user view of project membership, mutated in the same
	// critical section as the team member lists it mirrors.
	index map[string]*userIndex

	// Per-session interest markers, keyed by user id. Independent of
	// membership and never validated against it.
	bookmarks map[string]map[string]bool

	sessions map[string]session

	bus *events.Bus
}

func New(bus *events.Bus) *Store {
	return &Store{
		users:         make(map[string]*models.User),
		projects:      make(map[string]*models.Project),
		applications:  make(map[string]*models.Application),
		notifications: make(map[string][]*models.Notification),
		hackathons:    make(map[string]*models.Hackathon),
		index:         make(map[string]*userIndex),
		bookmarks:     make(map[string]map[string]bool),
		sessions:      make(map[string]session),
		bus:           bus,
	}
}

func (s *Store) userIndexLocked(userID string) *userIndex {
	idx, ok := s.index[userID]
	if !ok {
		idx = &userIndex{
			owned:         make(map[string]bool),
			participating: make(map[string]bool),
		}
		s.index[userID] = idx
	}
	return idx
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Skills = cloneStrings(u.Skills)
	if u.Experiences != nil {
		c.Experiences = make([]models.Experience, len(u.Experiences))
		copy(c.Experiences, u.Experiences)
	}
	return &c
}

func cloneProject(p *models.Project) *models.Project {
	c := *p
	c.TeamMembers = make([]models.TeamMember, len(p.TeamMembers))
	copy(c.TeamMembers, p.TeamMembers)
	c.OpenPositions = make([]models.OpenPosition, len(p.OpenPositions))
	for i, pos := range p.OpenPositions {
		c.OpenPositions[i] = pos
		c.OpenPositions[i].Skills = cloneStrings(pos.Skills)
	}
	return &c
}

func cloneApplication(a *models.Application) *models.Application {
	c := *a
	c.Skills = cloneStrings(a.Skills)
	if a.Applicant != nil {
		c.Applicant = cloneUser(a.Applicant)
	}
	return &c
}

func cloneNotification(n *models.Notification) *models.Notification {
	c := *n
	return &c
}
