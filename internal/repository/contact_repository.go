package repository

import (
	"context"

	"github.com/folio/backend/internal/model"
)

// ContactRepository defines the persistence interface for contact messages.
type ContactRepository interface {
	// Save inserts a new contact message and populates ID and timestamps.
	Save(ctx context.Context, msg *model.ContactMessage) error

	// FindByID returns the message with the given id, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.ContactMessage, error)

	// List returns contact messages for the admin view according to opts.
	List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error)

	// UpdateStatusFrom moves the message with the given id from status
	// `from` to status `to` in a single guarded update and returns the
	// updated record. ErrNotFound means either the id does not exist or the
	// row was no longer in `from` (a concurrent transition won).
	UpdateStatusFrom(ctx context.Context, id, from, to string) (*model.ContactMessage, error)
}
