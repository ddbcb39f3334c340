package service

import (
	"context"
	"errors"

	"github.com/folio/backend/internal/model"
	"github.com/folio/backend/internal/repository"
)

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo repository.ContactRepository
}

// NewContactService creates a ContactService backed by the given repository.
func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactServiceImpl{repo: repo}
}

// Submit stores a new contact message. The initial status is never
// caller-controlled: it is overwritten with PENDING before persisting.
func (s *contactServiceImpl) Submit(ctx context.Context, msg *model.ContactMessage) error {
	msg.Status = model.ContactStatusPending
	return s.repo.Save(ctx, msg)
}

// List returns contact messages according to the given filter/pagination options.
func (s *contactServiceImpl) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
	return s.repo.List(ctx, opts)
}

// UpdateStatus applies an admin status change, enforcing the forward-only
// transition table (PENDING → READ → REPLIED).
func (s *contactServiceImpl) UpdateStatus(ctx context.Context, id, status string) (*model.ContactMessage, error) {
	if !model.ValidContactStatus(status) {
		return nil, ErrInvalidStatus
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == status {
		return current, nil
	}
	if !model.CanTransitionContact(current.Status, status) {
		return nil, ErrInvalidTransition
	}

	updated, err := s.repo.UpdateStatusFrom(ctx, id, current.Status, status)
	if err != nil {
		// The guarded update matched no row: a concurrent moderation
		// moved the message first. Report it as a transition conflict,
		// not a missing record.
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}
	return updated, nil
}
