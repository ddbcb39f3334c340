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

// PgContactRepository is the PostgreSQL implementation of ContactRepository.
type PgContactRepository struct {
	pool *pgxpool.Pool
}

// NewPgContactRepository creates a PgContactRepository backed by the given pool.
func NewPgContactRepository(pool *pgxpool.Pool) *PgContactRepository {
	return &PgContactRepository{pool: pool}
}

var _ ContactRepository = (*PgContactRepository)(nil)

const contactSelectCols = `id, name, email, message, COALESCE(user_id::text, ''), status, created_at, updated_at`

func scanContact(scan func(...any) error) (*model.ContactMessage, error) {
	var m model.ContactMessage
	if err := scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.UserID, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Save inserts a new contact_messages row and populates msg.ID and timestamps
// from the database RETURNING clause.
func (r *PgContactRepository) Save(ctx context.Context, msg *model.ContactMessage) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO contact_messages (name, email, message, user_id, status)
		 VALUES ($1, $2, $3, NULLIF($4, '')::uuid, $5)
		 RETURNING id, created_at, updated_at`,
		msg.Name, msg.Email, msg.Message, msg.UserID, msg.Status,
	).Scan(&msg.ID, &msg.CreatedAt, &msg.UpdatedAt)
}

// FindByID returns the contact message with the given id.
func (r *PgContactRepository) FindByID(ctx context.Context, id string) (*model.ContactMessage, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+contactSelectCols+` FROM contact_messages WHERE id = $1`, id)
	return scanContact(row.Scan)
}

// List returns contact messages filtered by status and paginated by limit/offset.
// Status "" or "all" returns all messages.
func (r *PgContactRepository) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
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

	query := `SELECT ` + contactSelectCols + ` FROM contact_messages ` + where +
		` ORDER BY created_at DESC
		  LIMIT $` + strconv.Itoa(limitArg) + ` OFFSET $` + strconv.Itoa(offsetArg)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*model.ContactMessage
	for rows.Next() {
		var m model.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.UserID, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

// UpdateStatusFrom applies a guarded status transition. The status predicate
// in the WHERE clause means a concurrent transition makes this a no-op rather
// than a silent overwrite.
func (r *PgContactRepository) UpdateStatusFrom(ctx context.Context, id, from, to string) (*model.ContactMessage, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE contact_messages SET status = $3, updated_at = NOW()
		 WHERE id = $1 AND status = $2
		 RETURNING `+contactSelectCols,
		id, from, to)
	return scanContact(row.Scan)
}
