package store

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"squadnet/internal/models"
)

type ProjectInput struct {
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Industry      string                `json:"industry"`
	Stage         string                `json:"stage"`
	Funding       string                `json:"funding"`
	Timeline      string                `json:"timeline"`
	OpenPositions []models.OpenPosition `json:"openPositions"`
	TeamMembers   []models.TeamMember   `json:"teamMembers"`
}

// ProjectPatch carries a partial update; nil fields are left untouched.
type ProjectPatch struct {
	Title         *string                `json:"title"`
	Description   *string                `json:"description"`
	Industry      *string                `json:"industry"`
	Stage         *string                `json:"stage"`
	Funding       *string                `json:"funding"`
	Timeline      *string                `json:"timeline"`
	OpenPositions *[]models.OpenPosition `json:"openPositions"`
	TeamMembers   *[]models.TeamMember   `json:"teamMembers"`
}

type ProjectFilter struct {
	Industry string
	Stage    string
	Skill    string
	Limit    int
	Offset   int
}

// CreateProject registers a new project with the given user as founder.
// The founder is always teamMembers[0] with the founder role; any
// pre-specified members follow. Duplicate titles are permitted.
func (s *Store) CreateProject(in ProjectInput, founder models.TeamMember) (*models.Project, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" ||
		strings.TrimSpace(in.Industry) == "" || strings.TrimSpace(in.Stage) == "" {
		return nil, fmt.Errorf("%w: title, description, industry and stage are required", ErrValidation)
	}
	if len(in.OpenPositions) == 0 {
		return nil, fmt.Errorf("%w: at least one open position is required", ErrValidation)
	}
	for _, pos := range in.OpenPositions {
		if strings.TrimSpace(pos.Role) == "" {
			return nil, fmt.Errorf("%w: open position role is required", ErrValidation)
		}
	}
	if founder.ID == "" {
		return nil, fmt.Errorf("%w: founder id is required", ErrValidation)
	}
	founder.Role = models.RoleFounder

	s.mu.Lock()
	defer s.mu.Unlock()

	p := &models.Project{
		ID:            uuid.NewString(),
		Title:         strings.TrimSpace(in.Title),
		Description:   strings.TrimSpace(in.Description),
		Industry:      in.Industry,
		Stage:         in.Stage,
		Funding:       in.Funding,
		Timeline:      in.Timeline,
		OpenPositions: in.OpenPositions,
		TeamMembers:   []models.TeamMember{founder},
		OwnerID:       founder.ID,
		CreatedAt:     time.Now().UTC(),
	}
	for _, m := range in.TeamMembers {
		if m.ID == founder.ID {
			continue
		}
		p.TeamMembers = append(p.TeamMembers, m)
	}

	s.projects[p.ID] = p
	s.reindexProjectLocked(nil, p)
	return cloneProject(p), nil
}

// EditProject merges the patch into an existing project. Identity,
// creation date, application count and owner never change. A patched
// team member list that omits the founder gets the founder re-inserted
// first; the invariant is repaired, not reported.
func (s *Store) EditProject(id string, patch ProjectPatch) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	before := cloneProject(p)

	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Industry != nil {
		p.Industry = *patch.Industry
	}
	if patch.Stage != nil {
		p.Stage = *patch.Stage
	}
	if patch.Funding != nil {
		p.Funding = *patch.Funding
	}
	if patch.Timeline != nil {
		p.Timeline = *patch.Timeline
	}
	if patch.OpenPositions != nil {
		p.OpenPositions = *patch.OpenPositions
	}
	if patch.TeamMembers != nil {
		founder := before.Founder()
		members := *patch.TeamMembers
		if founder != nil {
			present := false
			for _, m := range members {
				if m.ID == founder.ID {
					present = true
					break
				}
			}
			if !present {
				members = append([]models.TeamMember{*founder}, members...)
			}
		}
		p.TeamMembers = members
	}

	s.reindexProjectLocked(before, p)
	return cloneProject(p), nil
}

// DeleteProject removes the project and scrubs it from every affected
// user's index and from all bookmark sets.
func (s *Store) DeleteProject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	delete(s.projects, id)
	s.reindexProjectLocked(p, nil)
	if idx, ok := s.index[p.OwnerID]; ok {
		delete(idx.owned, id)
		delete(idx.participating, id)
	}
	for _, marks := range s.bookmarks {
		delete(marks, id)
	}
	return nil
}

// AddMember appends a team member. Adding an existing member is an
// idempotent failure.
func (s *Store) AddMember(projectID string, m models.TeamMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addMemberLocked(projectID, m)
}

func (s *Store) addMemberLocked(projectID string, m models.TeamMember) error {
	p, ok := s.projects[projectID]
	if !ok {
		return fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	for _, existing := range p.TeamMembers {
		if existing.ID == m.ID {
			return ErrAlreadyMember
		}
	}
	p.TeamMembers = append(p.TeamMembers, m)
	s.userIndexLocked(m.ID).participating[projectID] = true
	return nil
}

// LeaveProject removes a non-founder member from the team. The founder
// can never leave; a user who is not on the team cannot leave either.
func (s *Store) LeaveProject(projectID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		return fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	if founder := p.Founder(); founder != nil && founder.ID == userID {
		return fmt.Errorf("founder cannot leave: %w", ErrForbidden)
	}
	if p.OwnerID == userID {
		return fmt.Errorf("owner cannot leave: %w", ErrForbidden)
	}
	for i, m := range p.TeamMembers {
		if m.ID == userID {
			p.TeamMembers = append(p.TeamMembers[:i], p.TeamMembers[i+1:]...)
			if idx, ok := s.index[userID]; ok {
				delete(idx.participating, projectID)
			}
			return nil
		}
	}
	return fmt.Errorf("user %s is not a member: %w", userID, ErrNotFound)
}

// UpdateStage overwrites the stage unconditionally. The value is not
// checked against the known stage set; callers own that discipline.
func (s *Store) UpdateStage(projectID, stage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		return fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	p.Stage = stage
	return nil
}

func (s *Store) GetProject(id string) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return cloneProject(p), nil
}

func (s *Store) ListProjects(f ProjectFilter) []*models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Project
	for _, p := range s.projects {
		if f.Industry != "" && p.Industry != f.Industry {
			continue
		}
		if f.Stage != "" && p.Stage != f.Stage {
			continue
		}
		if f.Skill != "" && !projectNeedsSkill(p, f.Skill) {
			continue
		}
		out = append(out, cloneProject(p))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	if f.Offset >= len(out) {
		return nil
	}
	out = out[f.Offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func projectNeedsSkill(p *models.Project, skill string) bool {
	for _, pos := range p.OpenPositions {
		for _, sk := range pos.Skills {
			if strings.EqualFold(sk, skill) {
				return true
			}
		}
	}
	return false
}

// UserProjects returns the projects a user founded and the ones they
// joined, resolved through the per-user index.
func (s *Store) UserProjects(userID string) (owned, participating []*models.Project) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.index[userID]
	if !ok {
		return nil, nil
	}
	for id := range idx.owned {
		if p, ok := s.projects[id]; ok {
			owned = append(owned, cloneProject(p))
		}
	}
	for id := range idx.participating {
		if p, ok := s.projects[id]; ok {
			participating = append(participating, cloneProject(p))
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })
	sort.Slice(participating, func(i, j int) bool { return participating[i].CreatedAt.After(participating[j].CreatedAt) })
	return owned, participating
}

// UserProjectIDs returns the raw index entry for a user.
func (s *Store) UserProjectIDs(userID string) models.UserProjects {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view := models.UserProjects{Owned: []string{}, Participating: []string{}}
	idx, ok := s.index[userID]
	if !ok {
		return view
	}
	for id := range idx.owned {
		view.Owned = append(view.Owned, id)
	}
	for id := range idx.participating {
		view.Participating = append(view.Participating, id)
	}
	sort.Strings(view.Owned)
	sort.Strings(view.Participating)
	return view
}

// ToggleBookmark flips the per-session marker for a project and reports
// the new state. No validation: bookmarking an unknown id is allowed.
func (s *Store) ToggleBookmark(userID, projectID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	marks, ok := s.bookmarks[userID]
	if !ok {
		marks = make(map[string]bool)
		s.bookmarks[userID] = marks
	}
	if marks[projectID] {
		delete(marks, projectID)
		return false
	}
	marks[projectID] = true
	return true
}

func (s *Store) IsBookmarked(userID, projectID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bookmarks[userID][projectID]
}

// reindexProjectLocked reconciles the per-user index with a project's
// team member list after a membership change. Either side may be nil
// (creation or deletion).
func (s *Store) reindexProjectLocked(before, after *models.Project) {
	if before != nil {
		for _, m := range before.TeamMembers {
			if idx, ok := s.index[m.ID]; ok {
				delete(idx.owned, before.ID)
				delete(idx.participating, before.ID)
			}
		}
	}
	if after != nil {
		for _, m := range after.TeamMembers {
			idx := s.userIndexLocked(m.ID)
			if m.Role == models.RoleFounder {
				idx.owned[after.ID] = true
			} else {
				idx.participating[after.ID] = true
			}
		}
	}
}
