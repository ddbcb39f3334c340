package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/folio/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgTestimonialRepository is the PostgreSQL implementation of TestimonialRepository.
type PgTestimonialRepository struct {
	pool *pgxpool.Pool
}

// NewPgTestimonialRepository creates a PgTestimonialRepository backed by the given pool.
func NewPgTestimonialRepository(pool *pgxpool.Pool) *PgTestimonialRepository {
	return &PgTestimonialRepository{pool: pool}
}

var _ TestimonialRepository = (*PgTestimonialRepository)(nil)

const testimonialSelectCols = `id, author, role, content, COALESCE(image_src, ''), COALESCE(email, ''), COALESCE(user_id::text, ''), status, created_at, updated_at`

func scanTestimonial(scan func(...any) error) (*model.Testimonial, error) {
	var t model.Testimonial
	if err := scan(&t.ID, &t.Author, &t.Role, &t.Content, &t.ImageSrc, &t.Email, &t.UserID, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Save inserts a new testimonials row and populates t.ID and timestamps from
// the database RETURNING clause.
func (r *PgTestimonialRepository) Save(ctx context.Context, t *model.Testimonial) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO testimonials (author, role, content, image_src, email, user_id, status)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, '')::uuid, $7)
		 RETURNING id, created_at, updated_at`,
		t.Author, t.Role, t.Content, t.ImageSrc, t.Email, t.UserID, t.Status,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// FindByID returns the testimonial with the given id.
func (r *PgTestimonialRepository) FindByID(ctx context.Context, id string) (*model.Testimonial, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+testimonialSelectCols+` FROM testimonials WHERE id = $1`, id)
	return scanTestimonial(row.Scan)
}

// ListApproved returns approved testimonials ordered by creation time descending.
func (r *PgTestimonialRepository) ListApproved(ctx context.Context, limit, offset int) ([]*model.Testimonial, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+testimonialSelectCols+` FROM testimonials
		 WHERE status = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		model.TestimonialStatusApproved, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTestimonials(rows)
}

// List returns testimonials filtered by status and paginated by limit/offset.
// Status "" or "all" returns every record.
func (r *PgTestimonialRepository) List(ctx context.Context, opts model.TestimonialListOptions) ([]*model.Testimonial, error) {
	var conditions []string
	var args []any

	status := strings.TrimSpace(opts.Status)
	if status != "" && status != "all" {
		args = append(args, status)
		conditions = append(conditions, "status = $1")
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	limitArg := len(args) + 1
	offsetArg := len(args) + 2
	args = append(args, opts.Limit, opts.Offset)

	query := `SELECT ` + testimonialSelectCols + ` FROM testimonials ` + where +
		` ORDER BY created_at DESC
		  LIMIT $` + strconv.Itoa(limitArg) + ` OFFSET $` + strconv.Itoa(offsetArg)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTestimonials(rows)
}

func collectTestimonials(rows pgx.Rows) ([]*model.Testimonial, error) {
	var list []*model.Testimonial
	for rows.Next() {
		var t model.Testimonial
		if err := rows.Scan(&t.ID, &t.Author, &t.Role, &t.Content, &t.ImageSrc, &t.Email, &t.UserID, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// UpdateStatus sets the moderation status of a testimonial and returns the
// updated record.
func (r *PgTestimonialRepository) UpdateStatus(ctx context.Context, id, status string) (*model.Testimonial, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE testimonials SET status = $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+testimonialSelectCols,
		id, status)
	return scanTestimonial(row.Scan)
}

// UpdateImageSrc sets the portrait URL of a testimonial.
func (r *PgTestimonialRepository) UpdateImageSrc(ctx context.Context, id, imageSrc string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE testimonials SET image_src = $2, updated_at = NOW() WHERE id = $1`,
		id, imageSrc)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
