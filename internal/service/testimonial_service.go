package service

import (
	"context"

	"github.com/folio/backend/internal/model"
)

// Moderation actions accepted by TestimonialService.Moderate.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// TestimonialService defines the business logic for testimonial submission
// and moderation.
type TestimonialService interface {
	// Submit stores a new testimonial. The status is always forced to
	// PENDING regardless of what the caller set; msg.ID and timestamps are
	// populated by the implementation.
	Submit(ctx context.Context, t *model.Testimonial) error

	// ListApproved returns testimonials fit for public display, most
	// recent first.
	ListApproved(ctx context.Context, limit, offset int) ([]*model.Testimonial, error)

	// ListAll returns testimonials of every status for the admin view.
	ListAll(ctx context.Context, opts model.TestimonialListOptions) ([]*model.Testimonial, error)

	// Moderate applies an admin action ("approve" or "reject") to the
	// testimonial with the given id and returns the updated record.
	// Returns ErrInvalidAction for unknown actions and
	// repository.ErrNotFound when the id does not exist. Re-moderation is
	// allowed from any current status; the latest action wins.
	Moderate(ctx context.Context, id, action string) (*model.Testimonial, error)

	// Get returns the testimonial with the given id.
	Get(ctx context.Context, id string) (*model.Testimonial, error)

	// SetImage stores the portrait URL on the testimonial with the given id.
	SetImage(ctx context.Context, id, imageSrc string) error
}
