package service

import (
	"context"

	"github.com/folio/backend/internal/model"
)

// ContactService defines the business logic for contact form submissions and
// their admin handling workflow.
type ContactService interface {
	// Submit stores a new contact message. The status is always forced to
	// PENDING; msg.ID and timestamps are populated by the implementation.
	Submit(ctx context.Context, msg *model.ContactMessage) error

	// List returns contact messages according to the given options.
	List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error)

	// UpdateStatus moves the message with the given id to the target
	// status and returns the updated record. Returns ErrInvalidStatus for
	// unknown statuses, ErrInvalidTransition when the move is not allowed
	// from the current status, and repository.ErrNotFound when the id does
	// not exist. Setting the current status again is a no-op that returns
	// the unchanged record.
	UpdateStatus(ctx context.Context, id, status string) (*model.ContactMessage, error)
}
