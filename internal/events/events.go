// Package events carries domain events from business operations to
// side-effect subscribers, so the application ledger never formats
// notifications itself.
package events

import "sync"

// ApplicationReceived is published when a user applies to an open
// position. OwnerID may be empty when the project has no resolvable
// owner; subscribers decide how to handle that.
type ApplicationReceived struct {
	OwnerID       string
	ProjectID     string
	ProjectName   string
	ApplicantName string
}

// ApplicationAccepted is published after an application transitions to
// ACCEPTED.
type ApplicationAccepted struct {
	ApplicantID string
	ProjectID   string
	ProjectName string
	Position    string
}

// ApplicationRejected is published after an application transitions to
// REJECTED.
type ApplicationRejected struct {
	ApplicantID string
	ProjectID   string
	ProjectName string
	Position    string
}

// Bus dispatches events synchronously, in subscription order. Publish
// must not be called while holding a lock a subscriber may take.
type Bus struct {
	mu   sync.RWMutex
	subs []func(event any)
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(fn func(event any)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

func (b *Bus) Publish(event any) {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()
	for _, fn := range subs {
		fn(event)
	}
}
