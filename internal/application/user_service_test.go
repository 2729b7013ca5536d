package application

import (
	"context"
	"errors"
	"testing"
)

func plainHasher(password string) (string, error) {
	return "hashed:" + password, nil
}

func newUserFixture() (*memoryStore, *UserService) {
	store := newMemoryStore()
	svc := NewUserService(store, plainHasher, "letmein", sequentialIDs("user"), fixedNow)
	return store, svc
}

func TestUserService_Register(t *testing.T) {
	t.Parallel()

	t.Run("creates a regular account", func(t *testing.T) {
		t.Parallel()
		store, svc := newUserFixture()

		user, err := svc.Register(context.Background(), RegisterInput{Username: " alice ", DisplayName: "Alice", Password: "pw"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.ID != "user-1" || user.Username != "alice" || user.IsAdmin {
			t.Fatalf("unexpected user: %+v", user)
		}
		if store.users["user-1"].PasswordHash != "hashed:pw" {
			t.Fatalf("expected password to be hashed before storage")
		}
	})

	t.Run("matching admin code grants administrator", func(t *testing.T) {
		t.Parallel()
		_, svc := newUserFixture()

		user, err := svc.Register(context.Background(), RegisterInput{Username: "root", DisplayName: "Root", Password: "pw", AdminCode: "letmein"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !user.IsAdmin {
			t.Fatalf("expected administrator account")
		}
	})

	t.Run("wrong admin code is rejected", func(t *testing.T) {
		t.Parallel()
		store, svc := newUserFixture()

		_, err := svc.Register(context.Background(), RegisterInput{Username: "root", DisplayName: "Root", Password: "pw", AdminCode: "guess"})
		var vErr *ValidationError
		if !errors.As(err, &vErr) || vErr.FieldErrors["admin_code"] == "" {
			t.Fatalf("expected admin_code validation error, got %v", err)
		}
		if len(store.users) != 0 {
			t.Fatalf("expected no account to be created")
		}
	})

	t.Run("validates field lengths", func(t *testing.T) {
		t.Parallel()
		_, svc := newUserFixture()

		_, err := svc.Register(context.Background(), RegisterInput{Username: "a", DisplayName: "", Password: ""})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"username", "DisplayName", "password"} {
			if vErr.FieldErrors[field] == "" {
				t.Fatalf("expected %s field error, got %+v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		t.Parallel()
		_, svc := newUserFixture()
		ctx := context.Background()

		if _, err := svc.Register(ctx, RegisterInput{Username: "alice", DisplayName: "Alice", Password: "pw"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := svc.Register(ctx, RegisterInput{Username: "alice", DisplayName: "Other", Password: "pw"}); !errors.Is(err, ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})
}

func TestUserService_BootstrapAdmin(t *testing.T) {
	t.Parallel()

	store, svc := newUserFixture()
	ctx := context.Background()
	input := BootstrapAdminInput{Username: "admin", DisplayName: "Admin", Password: "pw"}

	user, err := svc.BootstrapAdmin(ctx, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !user.IsAdmin {
		t.Fatalf("expected administrator account")
	}

	input.Username = "admin2"
	if _, err := svc.BootstrapAdmin(ctx, input); !errors.Is(err, ErrAdminExists) {
		t.Fatalf("expected ErrAdminExists, got %v", err)
	}
	if len(store.users) != 1 {
		t.Fatalf("expected a single account, got %d", len(store.users))
	}
}

func TestUserService_ListUsers(t *testing.T) {
	t.Parallel()

	store, svc := newUserFixture()
	store.addUser("u3", "carol", "Carol", false)
	store.addUser("u1", "alice", "Alice", false)
	store.addUser("u2", "bob", "Bob", true)

	if _, err := svc.ListUsers(context.Background(), Principal{UserID: "u1"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	users, err := svc.ListUsers(context.Background(), Principal{UserID: "u2", IsAdmin: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 3 || users[0].Username != "alice" || users[1].Username != "bob" || users[2].Username != "carol" {
		t.Fatalf("expected users sorted by username, got %+v", users)
	}
}

func TestUserService_Me(t *testing.T) {
	t.Parallel()

	store, svc := newUserFixture()
	store.addUser("u1", "alice", "Alice", false)

	user, err := svc.Me(context.Background(), Principal{UserID: "u1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.DisplayName != "Alice" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := svc.Me(context.Background(), Principal{}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestUserService_DeleteUser(t *testing.T) {
	t.Parallel()

	store, svc := newUserFixture()
	store.addUser("admin", "root", "Root", true)
	store.addUser("u1", "alice", "Alice", false)
	store.requests["r1"] = ShiftRequest{ID: "r1", UserID: "u1", Date: mustDate("2025-07-09")}
	store.shifts["s1"] = ConfirmedShift{ID: "s1", UserID: "u1", Date: mustDate("2025-07-09")}
	store.requests["r2"] = ShiftRequest{ID: "r2", UserID: "admin", Date: mustDate("2025-07-09")}
	ctx := context.Background()
	admin := Principal{UserID: "admin", IsAdmin: true}

	if _, err := svc.DeleteUser(ctx, Principal{UserID: "u1"}, "u1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}
	if _, err := svc.DeleteUser(ctx, admin, "admin"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden when deleting an administrator, got %v", err)
	}
	if _, err := svc.DeleteUser(ctx, admin, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	result, err := svc.DeleteUser(ctx, admin, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DisplayName != "Alice" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if _, ok := store.requests["r1"]; ok {
		t.Fatalf("expected shift requests to be removed with the user")
	}
	if _, ok := store.shifts["s1"]; ok {
		t.Fatalf("expected confirmed shifts to be removed with the user")
	}
	if _, ok := store.requests["r2"]; !ok {
		t.Fatalf("expected other users' requests to remain")
	}
}
