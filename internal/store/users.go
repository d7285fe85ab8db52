package store

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"squadnet/internal/models"
)

const sessionTTL = 30 * 24 * time.Hour

// ProfilePatch carries a partial profile update; nil fields are left
// untouched.
type ProfilePatch struct {
	Name         *string              `json:"name"`
	Title        *string              `json:"title"`
	Bio          *string              `json:"bio"`
	Location     *string              `json:"location"`
	Skills       *[]string            `json:"skills"`
	Experiences  *[]models.Experience `json:"experiences"`
	GithubURL    *string              `json:"githubUrl"`
	LinkedinURL  *string              `json:"linkedinUrl"`
	PortfolioURL *string              `json:"portfolioUrl"`
}

// CreateUser registers a user. Email addresses are unique; a second
// signup with the same address is a conflict.
func (s *Store) CreateUser(name, email string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return nil, fmt.Errorf("email %s: %w", email, ErrDuplicate)
		}
	}

	now := time.Now().UTC()
	u := &models.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users[u.ID] = u
	s.userIndexLocked(u.ID)
	return cloneUser(u), nil
}

func (s *Store) GetUser(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return cloneUser(u), nil
}

func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
}

func (s *Store) ListUsers() []*models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// UpdateProfile merges the patch into the user record.
func (s *Store) UpdateProfile(id string, patch ProfilePatch) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" {
		u.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Title != nil {
		u.Title = *patch.Title
	}
	if patch.Bio != nil {
		u.Bio = *patch.Bio
	}
	if patch.Location != nil {
		u.Location = *patch.Location
	}
	if patch.Skills != nil {
		u.Skills = cloneStrings(*patch.Skills)
	}
	if patch.Experiences != nil {
		u.Experiences = append([]models.Experience(nil), (*patch.Experiences)...)
	}
	if patch.GithubURL != nil {
		u.GithubURL = *patch.GithubURL
	}
	if patch.LinkedinURL != nil {
		u.LinkedinURL = *patch.LinkedinURL
	}
	if patch.PortfolioURL != nil {
		u.PortfolioURL = *patch.PortfolioURL
	}
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

// DeleteUser removes a user record and their index entry. Projects and
// applications referencing the user are left alone; this is the admin
// cleanup path, not a cascade.
func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	delete(s.users, id)
	delete(s.index, id)
	delete(s.bookmarks, id)
	return nil
}

func generateToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// CreateSession issues a session token for a user.
func (s *Store) CreateSession(userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return "", fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	token := generateToken()
	s.sessions[token] = session{userID: userID, expiresAt: time.Now().Add(sessionTTL)}
	return token, nil
}

// SessionUser resolves a session token to its user, or nil when the
// token is unknown or expired.
func (s *Store) SessionUser(token string) *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[token]
	if !ok || time.Now().After(sess.expiresAt) {
		return nil
	}
	u, ok := s.users[sess.userID]
	if !ok {
		return nil
	}
	return cloneUser(u)
}

func (s *Store) DeleteSession(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// SubmitContact files a contact-form message.
func (s *Store) SubmitContact(name, email, message string) (*models.ContactMessage, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	message = strings.TrimSpace(message)
	if name == "" || email == "" || message == "" {
		return nil, fmt.Errorf("%w: name, email and message are required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	msg := &models.ContactMessage{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	s.contacts = append(s.contacts, msg)
	return msg, nil
}

type Stats struct {
	Users         int `json:"users"`
	Projects      int `json:"projects"`
	Applications  int `json:"applications"`
	Pending       int `json:"pending"`
	Accepted      int `json:"accepted"`
	Rejected      int `json:"rejected"`
	Contacts      int `json:"contacts"`
	Notifications int `json:"notifications"`
}

func (s *Store) AdminStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Users:        len(s.users),
		Projects:     len(s.projects),
		Applications: len(s.applications),
		Contacts:     len(s.contacts),
	}
	for _, app := range s.applications {
		switch app.Status {
		case models.StatusPending:
			st.Pending++
		case models.StatusAccepted:
			st.Accepted++
		case models.StatusRejected:
			st.Rejected++
		}
	}
	for _, list := range s.notifications {
		st.Notifications += len(list)
	}
	return st
}
