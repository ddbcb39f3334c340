package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/folio/backend/internal/service"
	"github.com/folio/backend/internal/storage"
	"github.com/folio/backend/pkg/auth"
	"github.com/google/uuid"
)

const maxImageSize = 2 << 20 // 2 MB

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageHandler は投稿者による推薦文ポートレート画像のアップロードを処理する
type ImageHandler struct {
	storage            storage.Storage
	testimonialService service.TestimonialService
}

// NewImageHandler は ImageHandler を生成する
func NewImageHandler(store storage.Storage, ts service.TestimonialService) *ImageHandler {
	return &ImageHandler{storage: store, testimonialService: ts}
}

// Upload は POST /api/testimonials/{id}/image を処理する。
// 対象の推薦文を投稿した本人のみアップロードできる
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	id := r.PathValue("id")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "id_required"})
		return
	}

	t, err := h.testimonialService.Get(r.Context(), id)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
		return
	}
	if t.UserID == "" || t.UserID != userID {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "forbidden"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "file_too_large"})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "image_required"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedContentTypes[contentType]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unsupported_type"})
		return
	}

	key := "testimonials/" + t.ID + "/" + uuid.NewString() + ext
	url, err := h.storage.Save(r.Context(), key, file, contentType)
	if err != nil {
		slog.Error("image upload failed", "testimonial_id", t.ID, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "upload_failed"})
		return
	}

	if err := h.testimonialService.SetImage(r.Context(), t.ID, url); err != nil {
		slog.Error("image url update failed", "testimonial_id", t.ID, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "update_failed"})
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"image_src": url})
}
