package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/repositories"
)

func registerUser(t *testing.T, store *repositories.MemoryStore, name, email string) uuid.UUID {
	t.Helper()
	auth := NewAuthService(store, NewTokenManager("secret", time.Hour))
	token, err := auth.Register(context.Background(), name, email, "secret1")
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	id, err := auth.Tokens.Verify(token)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func strPtr(s string) *string { return &s }

func TestUserProfile(t *testing.T) {
	store := repositories.NewMemoryStore()
	svc := NewUserService(store)
	ctx := context.Background()
	ada := registerUser(t, store, "Ada", "ada@example.com")
	grace := registerUser(t, store, "Grace", "grace@example.com")

	me, err := svc.GetSelf(ctx, ada)
	if err != nil || me.Email != "ada@example.com" {
		t.Fatalf("unexpected self %+v, %v", me, err)
	}

	list, err := svc.List(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("expected 2 users, got %d, %v", len(list), err)
	}

	if _, err := svc.GetByID(ctx, "bogus"); KindOf(err) != KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	updated, err := svc.Update(ctx, ada, ada.String(), UserUpdate{Name: strPtr("Ada L.")})
	if err != nil || updated.Name != "Ada L." || updated.Email != "ada@example.com" {
		t.Fatalf("unexpected update %+v, %v", updated, err)
	}

	tests := []struct {
		name   string
		caller uuid.UUID
		target string
		in     UserUpdate
		kind   Kind
	}{
		{"someone else's profile", grace, ada.String(), UserUpdate{Name: strPtr("x")}, KindForbidden},
		{"empty name", ada, ada.String(), UserUpdate{Name: strPtr(" ")}, KindValidation},
		{"taken email", ada, ada.String(), UserUpdate{Email: strPtr("grace@example.com")}, KindConflict},
		{"malformed id", ada, "nope", UserUpdate{}, KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Update(ctx, tt.caller, tt.target, tt.in); KindOf(err) != tt.kind {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
		})
	}
}

func TestDeleteUser(t *testing.T) {
	store := repositories.NewMemoryStore()
	svc := NewUserService(store)
	ctx := context.Background()
	ada := registerUser(t, store, "Ada", "ada@example.com")
	grace := registerUser(t, store, "Grace", "grace@example.com")

	if err := svc.Delete(ctx, grace, ada.String()); KindOf(err) != KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := svc.Delete(ctx, ada, ada.String()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, ada, ada.String()); KindOf(err) != KindNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
