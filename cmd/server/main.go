package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/folio/backend/internal/config"
	"github.com/folio/backend/internal/handler"
	"github.com/folio/backend/internal/logging"
	"github.com/folio/backend/internal/repository"
	"github.com/folio/backend/internal/service"
	"github.com/folio/backend/internal/storage"
	"github.com/folio/backend/pkg/auth"
	"github.com/joho/godotenv"
	"log/slog"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("load config failed", "error", err)
	}
	if err := cfg.Validate(); err != nil {
		logging.Fatal("invalid config", "error", err)
	}

	pool, err := repository.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	testimonialRepo := repository.NewPgTestimonialRepository(pool)
	contactRepo := repository.NewPgContactRepository(pool)

	authService := service.NewAuthService(userRepo)
	testimonialService := service.NewTestimonialService(testimonialRepo)
	contactService := service.NewContactService(contactRepo)

	// 管理者許可リストは起動時に一度だけパース・検証される
	gate := auth.NewAdminGate(cfg.AdminSubjects())

	var store storage.Storage
	switch cfg.Storage {
	case "s3":
		store, err = storage.NewS3Storage(context.Background(), cfg.S3Bucket, cfg.S3PublicURL)
		if err != nil {
			logging.Fatal("failed to init s3 storage", "error", err)
		}
	default:
		store = storage.NewLocalStorage(cfg.UploadDir, cfg.UploadBaseURL)
	}

	sessionSecretBytes := auth.SessionSecretBytes(cfg.SessionSecret)

	h := handler.New(userRepo, cfg.FrontendURL)
	authHandler := handler.NewAuthHandler(authService, handler.AuthConfig{
		GoogleClientID:     cfg.GoogleClientID,
		GoogleClientSecret: cfg.GoogleClientSecret,
		GitHubClientID:     cfg.GitHubClientID,
		GitHubClientSecret: cfg.GitHubClientSecret,
		GoogleRedirectPath: "/api/auth/google/callback",
		GitHubRedirectPath: "/api/auth/github/callback",
		BackendURL:         cfg.BackendURL,
		SessionSecret:      cfg.SessionSecret,
		FrontendURL:        cfg.FrontendURL,
		SecureCookies:      cfg.Env == "production",
	})
	meHandler := handler.NewMeHandler(userRepo, gate)
	testimonialHandler := handler.NewTestimonialHandler(testimonialService)
	contactHandler := handler.NewContactHandler(contactService)
	adminHandler := handler.NewAdminHandler(gate)
	imageHandler := handler.NewImageHandler(store, testimonialService)

	// 認証必要エンドポイント
	wrapAuth := func(next http.Handler) http.Handler {
		if cfg.AuthRequired {
			return auth.RequireAuth(sessionSecretBytes)(next)
		}
		return auth.DevAuth(next)
	}
	// 公開投稿エンドポイントのレートリミット
	limiter := handler.NewRateLimiter(cfg.RateLimitPerMinute)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("GET /api/auth/google/login", authHandler.GoogleLoginURL)
	mux.HandleFunc("GET /api/auth/google/callback", authHandler.GoogleCallback)
	mux.HandleFunc("GET /api/auth/github/login", authHandler.GitHubLoginURL)
	mux.HandleFunc("GET /api/auth/github/callback", authHandler.GitHubCallback)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.Handle("GET /api/me", wrapAuth(http.HandlerFunc(meHandler.Me)))

	// 推薦文 API（公開一覧は承認済みのみ）
	mux.Handle("GET /api/testimonials", http.HandlerFunc(testimonialHandler.List))
	mux.Handle("POST /api/testimonials", limiter.Middleware(wrapAuth(http.HandlerFunc(testimonialHandler.Submit))))
	mux.Handle("POST /api/testimonials/{id}/image", wrapAuth(http.HandlerFunc(imageHandler.Upload)))

	// コンタクトフォーム（匿名可・セッションがあれば紐付け）
	mux.Handle("POST /api/contact", limiter.Middleware(auth.OptionalAuth(sessionSecretBytes)(http.HandlerFunc(contactHandler.Submit))))

	// Admin routes — すべて単一の AdminGate で保護する
	wrapAdmin := func(next http.Handler) http.Handler {
		return wrapAuth(gate.RequireAdmin(next))
	}
	mux.Handle("GET /api/admin/check-access", wrapAuth(http.HandlerFunc(adminHandler.CheckAccess)))
	mux.Handle("GET /api/admin/testimonials", wrapAdmin(http.HandlerFunc(testimonialHandler.AdminList)))
	mux.Handle("PATCH /api/admin/testimonials/{id}", wrapAdmin(http.HandlerFunc(testimonialHandler.Moderate)))
	mux.Handle("GET /api/admin/contacts", wrapAdmin(http.HandlerFunc(contactHandler.AdminList)))
	mux.Handle("PATCH /api/admin/contacts/{id}/status", wrapAdmin(http.HandlerFunc(contactHandler.UpdateStatus)))

	// ローカルストレージ利用時はアップロード画像を直接配信する
	if cfg.Storage == "local" {
		mux.Handle("GET "+cfg.UploadBaseURL+"/", http.StripPrefix(cfg.UploadBaseURL+"/", http.FileServer(http.Dir(cfg.UploadDir))))
	}

	root := handler.RequestLogger(handler.SecurityHeaders(h.CORS(mux)))

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      root,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
