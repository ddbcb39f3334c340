package model

import "time"

// Contact message handling states.
const (
	ContactStatusPending = "PENDING"
	ContactStatusRead    = "READ"
	ContactStatusReplied = "REPLIED"
)

// contactTransitions is the allowed-transition table for contact message
// statuses. Same-status writes are treated as no-ops by the service and do
// not consult this table.
var contactTransitions = map[string][]string{
	ContactStatusPending: {ContactStatusRead, ContactStatusReplied},
	ContactStatusRead:    {ContactStatusReplied},
	ContactStatusReplied: {},
}

// ValidContactStatus reports whether s is one of the enumerated contact
// message statuses.
func ValidContactStatus(s string) bool {
	_, ok := contactTransitions[s]
	return ok
}

// CanTransitionContact reports whether a contact message may move from one
// status to another. Statuses only move forward: PENDING → READ → REPLIED,
// with PENDING → REPLIED allowed directly.
func CanTransitionContact(from, to string) bool {
	for _, next := range contactTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ContactMessage represents a message submitted via the contact form.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	UserID    string    `json:"user_id,omitempty"`
	Status    string    `json:"status"` // PENDING | READ | REPLIED
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactListOptions carries filter and pagination parameters for the admin
// contact message listing.
type ContactListOptions struct {
	// Status filters by message status: "", "all", or one of the status
	// constants. Empty string and "all" return all messages.
	Status string
	Limit  int
	Offset int
}
