package store

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"squadnet/internal/events"
	"squadnet/internal/models"
)

type ApplicationInput struct {
	ApplicantID   string   `json:"userId"`
	ApplicantName string   `json:"applicantName"`
	Position      string   `json:"position"`
	Skills        []string `json:"skills"`
	Message       string   `json:"message"`
	ResumeURL     string   `json:"resumeUrl"`
}

// Apply files a PENDING application against a project position and
// bumps the project's application counter. Nothing stops a user from
// applying twice for the same position, or from applying to a team
// they already belong to; acceptance deals with the latter.
func (s *Store) Apply(projectID string, in ApplicationInput) (*models.Application, error) {
	if strings.TrimSpace(in.ApplicantID) == "" || strings.TrimSpace(in.Position) == "" {
		return nil, fmt.Errorf("%w: applicant id and position are required", ErrValidation)
	}

	s.mu.Lock()

	app := &models.Application{
		ID:            uuid.NewString(),
		ApplicantID:   in.ApplicantID,
		ApplicantName: in.ApplicantName,
		ProjectID:     projectID,
		Position:      in.Position,
		Skills:        cloneStrings(in.Skills),
		Status:        models.StatusPending,
		Message:       in.Message,
		ResumeURL:     in.ResumeURL,
		SubmittedAt:   time.Now().UTC(),
	}
	if u, ok := s.users[in.ApplicantID]; ok {
		app.Applicant = cloneUser(u)
		if app.ApplicantName == "" {
			app.ApplicantName = u.Name
		}
	}

	received := events.ApplicationReceived{
		ProjectID:     projectID,
		ApplicantName: app.ApplicantName,
	}
	if p, ok := s.projects[projectID]; ok {
		p.Applications++
		app.ProjectName = p.Title
		received.OwnerID = p.OwnerID
		received.ProjectName = p.Title
	}

	s.applications[app.ID] = app
	out := cloneApplication(app)
	s.mu.Unlock()

	s.bus.Publish(received)
	return out, nil
}

// Accept transitions a PENDING application to ACCEPTED and seats the
// applicant on the team under the applied-for position name. When the
// applicant already sits on the team the membership add is a no-op but
// the acceptance stands; the mismatch is only logged.
func (s *Store) Accept(id string) (*models.Application, error) {
	s.mu.Lock()

	app, ok := s.applications[id]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("application %s: %w", id, ErrNotFound)
	}
	if app.Status != models.StatusPending {
		s.mu.Unlock()
		return nil, fmt.Errorf("application %s is %s: %w", id, app.Status, ErrConflict)
	}
	app.Status = models.StatusAccepted

	err := s.addMemberLocked(app.ProjectID, models.TeamMember{
		ID:   app.ApplicantID,
		Name: app.ApplicantName,
		Role: app.Position,
	})
	if err != nil {
		log.Printf("store: accept %s: member not added: %v", id, err)
	}

	out := cloneApplication(app)
	accepted := events.ApplicationAccepted{
		ApplicantID: app.ApplicantID,
		ProjectID:   app.ProjectID,
		ProjectName: app.ProjectName,
		Position:    app.Position,
	}
	s.mu.Unlock()

	s.bus.Publish(accepted)
	return out, nil
}

// Reject transitions a PENDING application to REJECTED. Team membership
// is untouched.
func (s *Store) Reject(id string) (*models.Application, error) {
	s.mu.Lock()

	app, ok := s.applications[id]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("application %s: %w", id, ErrNotFound)
	}
	if app.Status != models.StatusPending {
		s.mu.Unlock()
		return nil, fmt.Errorf("application %s is %s: %w", id, app.Status, ErrConflict)
	}
	app.Status = models.StatusRejected

	out := cloneApplication(app)
	rejected := events.ApplicationRejected{
		ApplicantID: app.ApplicantID,
		ProjectID:   app.ProjectID,
		ProjectName: app.ProjectName,
		Position:    app.Position,
	}
	s.mu.Unlock()

	s.bus.Publish(rejected)
	return out, nil
}

func (s *Store) GetApplication(id string) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	app, ok := s.applications[id]
	if !ok {
		return nil, fmt.Errorf("application %s: %w", id, ErrNotFound)
	}
	return cloneApplication(app), nil
}

// ListForProject returns the applications filed against one project.
func (s *Store) ListForProject(projectID string) []*models.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Application
	for _, app := range s.applications {
		if app.ProjectID == projectID {
			out = append(out, cloneApplication(app))
		}
	}
	sortApplications(out)
	return out
}

// ListReceivedBy returns applications against projects the user owns.
func (s *Store) ListReceivedBy(userID string) []*models.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.index[userID]
	if !ok {
		return nil
	}
	var out []*models.Application
	for _, app := range s.applications {
		if idx.owned[app.ProjectID] {
			out = append(out, cloneApplication(app))
		}
	}
	sortApplications(out)
	return out
}

// ListSentBy returns the applications a user has authored.
func (s *Store) ListSentBy(userID string) []*models.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Application
	for _, app := range s.applications {
		if app.ApplicantID == userID {
			out = append(out, cloneApplication(app))
		}
	}
	sortApplications(out)
	return out
}

func sortApplications(apps []*models.Application) {
	sort.Slice(apps, func(i, j int) bool {
		return apps[i].SubmittedAt.After(apps[j].SubmittedAt)
	})
}
