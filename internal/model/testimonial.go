package model

import "time"

// Testimonial moderation states. Status is the single source of truth;
// the "approved" boolean exposed in API responses is derived from it.
const (
	TestimonialStatusPending  = "PENDING"
	TestimonialStatusApproved = "APPROVED"
	TestimonialStatusRejected = "REJECTED"
)

// Testimonial represents a testimonial submitted by a visitor, shown on the
// public site only after an admin approves it.
type Testimonial struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	ImageSrc  string    `json:"image_src,omitempty"`
	Email     string    `json:"email,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	Status    string    `json:"status"` // PENDING | APPROVED | REJECTED
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsApproved reports whether the testimonial is fit for public display.
func (t *Testimonial) IsApproved() bool {
	return t.Status == TestimonialStatusApproved
}

// TestimonialListOptions carries filter and pagination parameters for the
// admin testimonial listing.
type TestimonialListOptions struct {
	// Status filters by moderation status: "", "all", or one of the
	// status constants. Empty string and "all" return every record.
	Status string
	Limit  int
	Offset int
}
