package repository

import (
	"context"

	"github.com/folio/backend/internal/model"
)

// TestimonialRepository defines the persistence interface for testimonials.
type TestimonialRepository interface {
	// Save inserts a new testimonial and populates ID and timestamps.
	Save(ctx context.Context, t *model.Testimonial) error

	// FindByID returns the testimonial with the given id, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Testimonial, error)

	// ListApproved returns approved testimonials, most recent first.
	ListApproved(ctx context.Context, limit, offset int) ([]*model.Testimonial, error)

	// List returns testimonials for the admin view according to opts.
	List(ctx context.Context, opts model.TestimonialListOptions) ([]*model.Testimonial, error)

	// UpdateStatus sets the status of the testimonial with the given id and
	// returns the updated record, or ErrNotFound.
	UpdateStatus(ctx context.Context, id, status string) (*model.Testimonial, error)

	// UpdateImageSrc sets the portrait URL of the testimonial with the given id.
	UpdateImageSrc(ctx context.Context, id, imageSrc string) error
}
