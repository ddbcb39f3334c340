package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/folio/backend/internal/model"
	"github.com/folio/backend/internal/repository"
	"github.com/folio/backend/internal/service"
	"github.com/folio/backend/pkg/auth"
)

const maxContentLength = 2000

// TestimonialHandler handles testimonial submission, the public listing and
// admin moderation.
type TestimonialHandler struct {
	testimonialService service.TestimonialService
}

// NewTestimonialHandler creates a TestimonialHandler with the given service.
func NewTestimonialHandler(ts service.TestimonialService) *TestimonialHandler {
	return &TestimonialHandler{testimonialService: ts}
}

// testimonialResponse is the JSON shape for a single testimonial. The
// approved flag is derived from status at this boundary; status itself is the
// single source of truth.
type testimonialResponse struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	ImageSrc  string `json:"image_src,omitempty"`
	Status    string `json:"status"`
	Approved  bool   `json:"approved"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toTestimonialResponse(t *model.Testimonial) testimonialResponse {
	return testimonialResponse{
		ID:        t.ID,
		Author:    t.Author,
		Role:      t.Role,
		Content:   t.Content,
		ImageSrc:  t.ImageSrc,
		Status:    t.Status,
		Approved:  t.IsApproved(),
		CreatedAt: t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: t.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toTestimonialResponses(list []*model.Testimonial) []testimonialResponse {
	out := make([]testimonialResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTestimonialResponse(t))
	}
	return out
}

// parseListParams reads limit/offset query params with the given default limit.
func parseListParams(r *http.Request, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

// List handles GET /api/testimonials. Only APPROVED testimonials are ever
// returned, most recent first.
func (h *TestimonialHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseListParams(r, 50)

	list, err := h.testimonialService.ListApproved(r.Context(), limit, offset)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "list_failed"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"testimonials": toTestimonialResponses(list)})
}

// submitTestimonialRequest is the expected JSON body for POST /api/testimonials.
// There is deliberately no status field: the initial state is never
// caller-controlled.
type submitTestimonialRequest struct {
	Author   string `json:"author"`
	Role     string `json:"role"`
	Content  string `json:"content"`
	ImageSrc string `json:"image_src"`
	Email    string `json:"email"`
}

// Submit handles POST /api/testimonials (auth required).
// author, role and content are required; image_src and email are optional;
// content max 2000 chars.
func (h *TestimonialHandler) Submit(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	var req submitTestimonialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	if req.Author == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "author_required"})
		return
	}
	if req.Role == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "role_required"})
		return
	}
	if req.Content == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "content_required"})
		return
	}
	if len([]rune(req.Content)) > maxContentLength {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "content_too_long"})
		return
	}

	t := &model.Testimonial{
		Author:   req.Author,
		Role:     req.Role,
		Content:  req.Content,
		ImageSrc: req.ImageSrc,
		Email:    req.Email,
		UserID:   userID,
	}

	if err := h.testimonialService.Submit(r.Context(), t); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "submit_failed"})
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toTestimonialResponse(t))
}

// adminTestimonialListResponse is the JSON response for GET /api/admin/testimonials.
type adminTestimonialListResponse struct {
	Testimonials []testimonialResponse `json:"testimonials"`
}

// AdminList handles GET /api/admin/testimonials (admin-gated by middleware).
// Supports query params: status (all/PENDING/APPROVED/REJECTED), limit, offset.
func (h *TestimonialHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseListParams(r, 20)
	opts := model.TestimonialListOptions{
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
		Offset: offset,
	}

	list, err := h.testimonialService.ListAll(r.Context(), opts)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "list_failed"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(adminTestimonialListResponse{Testimonials: toTestimonialResponses(list)})
}

// moderateRequest is the expected JSON body for PATCH /api/admin/testimonials/{id}.
type moderateRequest struct {
	Action string `json:"action"` // "approve" | "reject"
}

// Moderate handles PATCH /api/admin/testimonials/{id} (admin-gated by middleware).
func (h *TestimonialHandler) Moderate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "id_required"})
		return
	}

	var req moderateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	updated, err := h.testimonialService.Moderate(r.Context(), id, req.Action)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAction):
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_action"})
		case errors.Is(err, repository.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "update_failed"})
		}
		return
	}

	_ = json.NewEncoder(w).Encode(toTestimonialResponse(updated))
}
