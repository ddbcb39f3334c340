package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/folio/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgUserRepository は UserRepository の PostgreSQL 実装
type PgUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgUserRepository は PgUserRepository を生成する
func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

var _ UserRepository = (*PgUserRepository)(nil)

// Ping は DB 接続を確認する（DB インターフェース実装）
func (r *PgUserRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

const userSelectCols = `id, email, COALESCE(google_id, ''), COALESCE(github_id, ''), name, created_at, updated_at`

func scanUser(scan func(...any) error) (*model.User, error) {
	var u model.User
	if err := scan(&u.ID, &u.Email, &u.GoogleID, &u.GitHubID, &u.Name, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByID は ID でユーザーを取得する
func (r *PgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userSelectCols+` FROM users WHERE id = $1`, id)
	return scanUser(row.Scan)
}

// FindByGoogleID は Google ID でユーザーを取得する
func (r *PgUserRepository) FindByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userSelectCols+` FROM users WHERE google_id = $1`, googleID)
	return scanUser(row.Scan)
}

// FindByGitHubID は GitHub ID でユーザーを取得する
func (r *PgUserRepository) FindByGitHubID(ctx context.Context, githubID string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userSelectCols+` FROM users WHERE github_id = $1`, githubID)
	return scanUser(row.Scan)
}

// FindByEmail はメールアドレスでユーザーを取得する
func (r *PgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userSelectCols+` FROM users WHERE email = $1`, email)
	return scanUser(row.Scan)
}

// Create は新規ユーザーを作成し、ID とタイムスタンプを設定する
func (r *PgUserRepository) Create(ctx context.Context, user *model.User) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO users (email, google_id, github_id, name)
		 VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4)
		 RETURNING id, created_at, updated_at`,
		user.Email, user.GoogleID, user.GitHubID, user.Name,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

// UpdateProviderID は既存ユーザーに OAuth プロバイダ ID を紐付ける。
// column はコード内定数のみを渡すこと（ユーザー入力を渡してはならない）
func (r *PgUserRepository) UpdateProviderID(ctx context.Context, userID, column, value string) error {
	if column != "google_id" && column != "github_id" {
		return fmt.Errorf("invalid provider column: %s", column)
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET `+column+` = $2, updated_at = NOW() WHERE id = $1`,
		userID, value)
	return err
}
