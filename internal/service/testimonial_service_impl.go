package service

import (
	"context"

	"github.com/folio/backend/internal/model"
	"github.com/folio/backend/internal/repository"
)

// testimonialServiceImpl is the production implementation of TestimonialService.
type testimonialServiceImpl struct {
	repo repository.TestimonialRepository
}

// NewTestimonialService creates a TestimonialService backed by the given repository.
func NewTestimonialService(repo repository.TestimonialRepository) TestimonialService {
	return &testimonialServiceImpl{repo: repo}
}

// Submit stores a new testimonial. The initial status is never
// caller-controlled: it is overwritten with PENDING before persisting.
func (s *testimonialServiceImpl) Submit(ctx context.Context, t *model.Testimonial) error {
	t.Status = model.TestimonialStatusPending
	return s.repo.Save(ctx, t)
}

// ListApproved returns approved testimonials, most recent first.
func (s *testimonialServiceImpl) ListApproved(ctx context.Context, limit, offset int) ([]*model.Testimonial, error) {
	return s.repo.ListApproved(ctx, limit, offset)
}

// ListAll returns testimonials of every status for the admin view.
func (s *testimonialServiceImpl) ListAll(ctx context.Context, opts model.TestimonialListOptions) ([]*model.Testimonial, error) {
	return s.repo.List(ctx, opts)
}

// Moderate maps an admin action onto a target status and applies it.
func (s *testimonialServiceImpl) Moderate(ctx context.Context, id, action string) (*model.Testimonial, error) {
	var status string
	switch action {
	case ActionApprove:
		status = model.TestimonialStatusApproved
	case ActionReject:
		status = model.TestimonialStatusRejected
	default:
		return nil, ErrInvalidAction
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// Get returns the testimonial with the given id.
func (s *testimonialServiceImpl) Get(ctx context.Context, id string) (*model.Testimonial, error) {
	return s.repo.FindByID(ctx, id)
}

// SetImage stores the portrait URL on the testimonial with the given id.
func (s *testimonialServiceImpl) SetImage(ctx context.Context, id, imageSrc string) error {
	return s.repo.UpdateImageSrc(ctx, id, imageSrc)
}
