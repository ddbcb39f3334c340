package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/folio/backend/internal/model"
	"github.com/folio/backend/internal/repository"
)

// AuthServiceImpl は AuthService の実装
type AuthServiceImpl struct {
	userRepo repository.UserRepository
}

// NewAuthService は AuthServiceImpl を生成する（DI: UserRepository を注入）
func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &AuthServiceImpl{userRepo: userRepo}
}

// GetOrCreateUserFromGoogle は Google ユーザー情報からユーザーを取得または作成する。
// 同じメールアドレスの既存ユーザーがいれば Google ID を紐付ける
func (s *AuthServiceImpl) GetOrCreateUserFromGoogle(ctx context.Context, info *GoogleUserInfo) (*model.User, error) {
	u, err := s.userRepo.FindByGoogleID(ctx, info.Sub)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find by google id: %w", err)
	}

	// メールアドレスで既存アカウントに紐付け
	if existing, err := s.userRepo.FindByEmail(ctx, info.Email); err == nil {
		if err := s.userRepo.UpdateProviderID(ctx, existing.ID, "google_id", info.Sub); err != nil {
			return nil, fmt.Errorf("link google id: %w", err)
		}
		existing.GoogleID = info.Sub
		return existing, nil
	}

	newUser := &model.User{
		Email:    info.Email,
		GoogleID: info.Sub,
		Name:     info.Name,
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		slog.Error("create google user failed", "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}
	slog.Info("new user created", "user_id", newUser.ID, "provider", "google")
	return newUser, nil
}

// GetOrCreateUserFromGitHub は GitHub ユーザー情報からユーザーを取得または作成する
func (s *AuthServiceImpl) GetOrCreateUserFromGitHub(ctx context.Context, info *GitHubUserInfo) (*model.User, error) {
	githubID := fmt.Sprintf("%d", info.ID)
	u, err := s.userRepo.FindByGitHubID(ctx, githubID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find by github id: %w", err)
	}

	name := info.Name
	if name == "" {
		name = info.Login
	}
	email := info.Email
	if email == "" {
		email = info.Login + "@users.noreply.github.com"
	}

	if existing, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		if err := s.userRepo.UpdateProviderID(ctx, existing.ID, "github_id", githubID); err != nil {
			return nil, fmt.Errorf("link github id: %w", err)
		}
		existing.GitHubID = githubID
		return existing, nil
	}

	newUser := &model.User{
		Email:    email,
		GitHubID: githubID,
		Name:     name,
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		slog.Error("create github user failed", "error", err)
		return nil, err
	}
	slog.Info("new user created", "user_id", newUser.ID, "provider", "github")
	return newUser, nil
}
