package store

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"squadnet/internal/events"
	"squadnet/internal/models"
)

// HandleEvent turns domain events into notifications. Subscribe it to
// the bus the ledger publishes on.
func (s *Store) HandleEvent(event any) {
	switch e := event.(type) {
	case events.ApplicationReceived:
		if e.OwnerID == "" {
			log.Printf("notifications: dropping application-received for project %s: no owner", e.ProjectID)
			return
		}
		s.addNotification(&models.Notification{
			UserID:        e.OwnerID,
			Kind:          models.NotifApplicationReceived,
			Title:         fmt.Sprintf("New application received for '%s'", e.ProjectName),
			ProjectName:   e.ProjectName,
			ApplicantName: e.ApplicantName,
			Link:          "/dashboard",
		})
	case events.ApplicationAccepted:
		s.addNotification(&models.Notification{
			UserID:      e.ApplicantID,
			Kind:        models.NotifApplicationAccepted,
			Title:       fmt.Sprintf("Your application for %s at '%s' was accepted", e.Position, e.ProjectName),
			ProjectName: e.ProjectName,
			Position:    e.Position,
			Link:        "/dashboard",
		})
	case events.ApplicationRejected:
		s.addNotification(&models.Notification{
			UserID:      e.ApplicantID,
			Kind:        models.NotifApplicationRejected,
			Title:       fmt.Sprintf("Your application for %s at '%s' was not accepted", e.Position, e.ProjectName),
			ProjectName: e.ProjectName,
			Position:    e.Position,
			Link:        "/dashboard",
		})
	}
}

// addNotification prepends an unread notification to the recipient's
// feed, newest first.
func (s *Store) addNotification(n *models.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n.ID = uuid.NewString()
	n.Read = false
	n.CreatedAt = time.Now().UTC()
	s.notifications[n.UserID] = append([]*models.Notification{n}, s.notifications[n.UserID]...)
}

func (s *Store) Notifications(userID string) []*models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.notifications[userID]
	out := make([]*models.Notification, len(list))
	for i, n := range list {
		out[i] = cloneNotification(n)
	}
	return out
}

// MarkRead flags one of the user's notifications as read. Unknown ids
// and other users' notification ids are ignored.
func (s *Store) MarkRead(userID, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications[userID] {
		if n.ID == id {
			n.Read = true
			return
		}
	}
}

// MarkAllRead flags every notification of the user as read. Calling it
// again is a no-op.
func (s *Store) MarkAllRead(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications[userID] {
		n.Read = true
	}
}

// RemoveNotification deletes one notification from the user's feed.
func (s *Store) RemoveNotification(userID, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.notifications[userID]
	for i, n := range list {
		if n.ID == id {
			s.notifications[userID] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

func (s *Store) UnreadCount(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.notifications[userID] {
		if !n.Read {
			count++
		}
	}
	return count
}
