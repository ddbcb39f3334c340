package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/folio/backend/internal/model"
	"github.com/folio/backend/internal/repository"
)

// fakeContactRepo is an in-memory ContactRepository for service tests.
type fakeContactRepo struct {
	items map[string]*model.ContactMessage
	seq   int
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{items: map[string]*model.ContactMessage{}}
}

func (r *fakeContactRepo) Save(ctx context.Context, msg *model.ContactMessage) error {
	r.seq++
	msg.ID = fmt.Sprintf("c-%d", r.seq)
	msg.CreatedAt = time.Now()
	msg.UpdatedAt = msg.CreatedAt
	cp := *msg
	r.items[msg.ID] = &cp
	return nil
}

func (r *fakeContactRepo) FindByID(ctx context.Context, id string) (*model.ContactMessage, error) {
	m, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeContactRepo) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
	out := []*model.ContactMessage{}
	for _, m := range r.items {
		if opts.Status != "" && opts.Status != "all" && m.Status != opts.Status {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeContactRepo) UpdateStatusFrom(ctx context.Context, id, from, to string) (*model.ContactMessage, error) {
	m, ok := r.items[id]
	if !ok || m.Status != from {
		return nil, repository.ErrNotFound
	}
	m.Status = to
	m.UpdatedAt = time.Now().Add(time.Millisecond)
	cp := *m
	return &cp, nil
}

func submitContact(t *testing.T, svc ContactService) *model.ContactMessage {
	t.Helper()
	msg := &model.ContactMessage{Name: "Alice", Email: "alice@example.com", Message: "Hello"}
	if err := svc.Submit(context.Background(), msg); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	return msg
}

func TestContactService_Submit_ForcesPending(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo)

	msg := &model.ContactMessage{
		Name:    "Mallory",
		Email:   "m@example.com",
		Message: "Hi",
		Status:  model.ContactStatusReplied,
	}
	if err := svc.Submit(context.Background(), msg); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	stored, err := repo.FindByID(context.Background(), msg.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if stored.Status != model.ContactStatusPending {
		t.Errorf("expected stored status PENDING, got %q", stored.Status)
	}
}

func TestContactService_UpdateStatus_ForwardTransitions(t *testing.T) {
	tests := []struct {
		name string
		path []string
	}{
		{"pending to read", []string{model.ContactStatusRead}},
		{"pending to replied", []string{model.ContactStatusReplied}},
		{"pending to read to replied", []string{model.ContactStatusRead, model.ContactStatusReplied}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewContactService(newFakeContactRepo())
			msg := submitContact(t, svc)

			var got *model.ContactMessage
			var err error
			for _, status := range tt.path {
				got, err = svc.UpdateStatus(context.Background(), msg.ID, status)
				if err != nil {
					t.Fatalf("transition to %s failed: %v", status, err)
				}
			}
			if got.Status != tt.path[len(tt.path)-1] {
				t.Errorf("expected final status %q, got %q", tt.path[len(tt.path)-1], got.Status)
			}
		})
	}
}

func TestContactService_UpdateStatus_BackwardRejected(t *testing.T) {
	svc := NewContactService(newFakeContactRepo())
	msg := submitContact(t, svc)

	if _, err := svc.UpdateStatus(context.Background(), msg.ID, model.ContactStatusReplied); err != nil {
		t.Fatalf("transition to REPLIED failed: %v", err)
	}

	for _, status := range []string{model.ContactStatusRead, model.ContactStatusPending} {
		if _, err := svc.UpdateStatus(context.Background(), msg.ID, status); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("REPLIED → %s: expected ErrInvalidTransition, got %v", status, err)
		}
	}
}

// Writing the current status back is a no-op, not a conflict.
func TestContactService_UpdateStatus_SameStatusNoOp(t *testing.T) {
	svc := NewContactService(newFakeContactRepo())
	msg := submitContact(t, svc)

	got, err := svc.UpdateStatus(context.Background(), msg.ID, model.ContactStatusPending)
	if err != nil {
		t.Fatalf("same-status update failed: %v", err)
	}
	if got.Status != model.ContactStatusPending {
		t.Errorf("expected PENDING, got %q", got.Status)
	}
	if !got.UpdatedAt.Equal(msg.UpdatedAt) {
		t.Error("no-op update should not touch updated_at")
	}
}

func TestContactService_UpdateStatus_UnknownStatus(t *testing.T) {
	svc := NewContactService(newFakeContactRepo())

	for _, status := range []string{"ARCHIVED", "read", ""} {
		if _, err := svc.UpdateStatus(context.Background(), "c-1", status); !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("status %q: expected ErrInvalidStatus, got %v", status, err)
		}
	}
}

func TestContactService_UpdateStatus_NotFound(t *testing.T) {
	svc := NewContactService(newFakeContactRepo())

	if _, err := svc.UpdateStatus(context.Background(), "missing", model.ContactStatusRead); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// racingContactRepo serves a stale read and then lets a concurrent
// moderation win the guarded update.
type racingContactRepo struct {
	*fakeContactRepo
	raceOnce bool
}

func (r *racingContactRepo) FindByID(ctx context.Context, id string) (*model.ContactMessage, error) {
	m, err := r.fakeContactRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.raceOnce {
		// Another admin replies right after our read.
		r.raceOnce = true
		r.items[id].Status = model.ContactStatusReplied
	}
	return m, nil
}

// A concurrent moderation that wins the guarded update surfaces as a
// transition conflict, not a missing record.
func TestContactService_UpdateStatus_LostRace(t *testing.T) {
	repo := &racingContactRepo{fakeContactRepo: newFakeContactRepo()}
	svc := NewContactService(repo)
	msg := submitContact(t, svc)

	if _, err := svc.UpdateStatus(context.Background(), msg.ID, model.ContactStatusRead); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition after losing the race, got %v", err)
	}
}

func TestContactService_Lifecycle(t *testing.T) {
	svc := NewContactService(newFakeContactRepo())
	msg := submitContact(t, svc)

	afterRead, err := svc.UpdateStatus(context.Background(), msg.ID, model.ContactStatusRead)
	if err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	afterReply, err := svc.UpdateStatus(context.Background(), msg.ID, model.ContactStatusReplied)
	if err != nil {
		t.Fatalf("mark replied failed: %v", err)
	}

	if !afterRead.UpdatedAt.After(msg.CreatedAt) {
		t.Error("expected updated_at to advance past created_at after marking read")
	}
	if afterReply.UpdatedAt.Before(afterRead.UpdatedAt) {
		t.Error("expected updated_at to keep advancing")
	}
}
