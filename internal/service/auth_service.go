package service

import (
	"context"

	"github.com/folio/backend/internal/model"
)

// GoogleUserInfo は Google OAuth から取得するユーザー情報
type GoogleUserInfo struct {
	Sub   string
	Email string
	Name  string
}

// GitHubUserInfo は GitHub OAuth から取得するユーザー情報
type GitHubUserInfo struct {
	ID    int64
	Login string
	Email string
	Name  string
}

// AuthService は認証に関するビジネスロジックのインターフェース
type AuthService interface {
	GetOrCreateUserFromGoogle(ctx context.Context, info *GoogleUserInfo) (*model.User, error)
	GetOrCreateUserFromGitHub(ctx context.Context, info *GitHubUserInfo) (*model.User, error)
}
