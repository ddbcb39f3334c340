package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/folio/backend/internal/model"
	"github.com/folio/backend/internal/repository"
	"github.com/folio/backend/internal/service"
	"github.com/folio/backend/pkg/auth"
)

const maxMessageLength = 5000

// ContactHandler handles contact form submission and the admin workflow.
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// submitContactRequest is the expected JSON body for POST /api/contact.
// There is deliberately no status field: the initial state is never
// caller-controlled.
type submitContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Submit handles POST /api/contact (auth optional).
// name, email and message are required; message max 5000 chars. When the
// caller is authenticated the message is attributed to their user id.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req submitContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	if req.Name == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "name_required"})
		return
	}
	if req.Email == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "email_required"})
		return
	}
	if req.Message == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "message_required"})
		return
	}
	if len([]rune(req.Message)) > maxMessageLength {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "message_too_long"})
		return
	}

	msg := &model.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	}
	// Anonymous submissions are fine; attribute the message when a session exists.
	if userID, ok := auth.UserIDFromContext(r.Context()); ok {
		msg.UserID = userID
	}

	if err := h.contactService.Submit(r.Context(), msg); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "submit_failed"})
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(msg)
}

// adminContactListResponse is the JSON response for GET /api/admin/contacts.
type adminContactListResponse struct {
	Messages []*model.ContactMessage `json:"messages"`
}

// AdminList handles GET /api/admin/contacts (admin-gated by middleware).
// Supports query params: status (all/PENDING/READ/REPLIED), limit, offset.
func (h *ContactHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseListParams(r, 20)
	opts := model.ContactListOptions{
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
		Offset: offset,
	}

	messages, err := h.contactService.List(r.Context(), opts)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "list_failed"})
		return
	}

	// Return [] not null for empty lists
	if messages == nil {
		messages = []*model.ContactMessage{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(adminContactListResponse{Messages: messages})
}

// updateContactStatusRequest is the expected JSON body for
// PATCH /api/admin/contacts/{id}/status.
type updateContactStatusRequest struct {
	Status string `json:"status"` // PENDING | READ | REPLIED
}

// UpdateStatus handles PATCH /api/admin/contacts/{id}/status (admin-gated by
// middleware). Transitions only move forward; a disallowed move returns 409.
func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "id_required"})
		return
	}

	var req updateContactStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	updated, err := h.contactService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_status"})
		case errors.Is(err, service.ErrInvalidTransition):
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_transition"})
		case errors.Is(err, repository.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "update_failed"})
		}
		return
	}

	_ = json.NewEncoder(w).Encode(updated)
}
