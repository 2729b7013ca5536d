package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newConfirmedShiftFixture() (*memoryStore, *ConfirmedShiftService) {
	store := newMemoryStore()
	store.addUser("admin-1", "root", "Admin", true)
	store.addUser("user-1", "alice", "Alice", false)
	store.addUser("user-2", "bob", "Bob", false)
	svc := NewConfirmedShiftService(store, store, sequentialIDs("shift"), fixedNow)
	return store, svc
}

var adminPrincipal = Principal{UserID: "admin-1", Username: "root", IsAdmin: true}

func TestConfirmedShiftService_CreateAndListRoundTripsLocalTimes(t *testing.T) {
	t.Parallel()

	_, svc := newConfirmedShiftFixture()
	ctx := context.Background()

	created, err := svc.CreateConfirmedShift(ctx, CreateConfirmedShiftParams{
		Principal: adminPrincipal,
		Input: ConfirmedShiftInput{
			UserID:    "user-1",
			Date:      mustDate("2025-07-09"),
			StartTime: "09:00",
			EndTime:   "17:30",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.StartLocal != "09:00" || created.EndLocal != "17:30" {
		t.Fatalf("unexpected local times: %s - %s", created.StartLocal, created.EndLocal)
	}
	if created.User.DisplayName != "Alice" {
		t.Fatalf("expected owner profile, got %+v", created.User)
	}

	listed, err := svc.ListConfirmedShifts(ctx, ListConfirmedShiftsParams{
		Principal: Principal{UserID: "user-1"},
		Scope:     ScopeSelf,
		Period:    MonthFilter{Year: intPtr(2025), Month: intPtr(7)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected one shift, got %d", len(listed))
	}
	if listed[0].StartLocal != "09:00" || listed[0].EndLocal != "17:30" {
		t.Fatalf("unexpected listed times: %s - %s", listed[0].StartLocal, listed[0].EndLocal)
	}
}

func TestConfirmedShiftService_EarlyMorningStaysOnItsDate(t *testing.T) {
	t.Parallel()

	store, svc := newConfirmedShiftFixture()

	created, err := svc.CreateConfirmedShift(context.Background(), CreateConfirmedShiftParams{
		Principal: adminPrincipal,
		Input: ConfirmedShiftInput{
			UserID:    "user-1",
			Date:      mustDate("2025-07-09"),
			StartTime: "06:00",
			EndTime:   "08:00",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := store.shifts[created.ID]
	if got := stored.StartTime.UTC().Day(); got != 8 {
		t.Fatalf("expected stored UTC instant on the previous day, got day %d", got)
	}
	if !stored.Date.Equal(mustDate("2025-07-09")) {
		t.Fatalf("expected stored date to stay 2025-07-09, got %v", stored.Date)
	}
	if created.StartLocal != "06:00" {
		t.Fatalf("expected 06:00, got %s", created.StartLocal)
	}
}

func TestConfirmedShiftService_CreateConfirmedShift_Errors(t *testing.T) {
	t.Parallel()

	store, svc := newConfirmedShiftFixture()
	ctx := context.Background()
	valid := ConfirmedShiftInput{UserID: "user-1", Date: mustDate("2025-07-09"), StartTime: "09:00", EndTime: "17:00"}

	if _, err := svc.CreateConfirmedShift(ctx, CreateConfirmedShiftParams{Principal: Principal{UserID: "user-1"}, Input: valid}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}

	missingUser := valid
	missingUser.UserID = "ghost"
	if _, err := svc.CreateConfirmedShift(ctx, CreateConfirmedShiftParams{Principal: adminPrincipal, Input: missingUser}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}

	if _, err := svc.CreateConfirmedShift(ctx, CreateConfirmedShiftParams{Principal: adminPrincipal, Input: valid}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.CreateConfirmedShift(ctx, CreateConfirmedShiftParams{Principal: adminPrincipal, Input: valid}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate date, got %v", err)
	}

	missingFields := ConfirmedShiftInput{UserID: "user-2"}
	_, err := svc.CreateConfirmedShift(ctx, CreateConfirmedShiftParams{Principal: adminPrincipal, Input: missingFields})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"date", "start_time", "end_time"} {
		if vErr.FieldErrors[field] == "" {
			t.Fatalf("expected %s field error, got %+v", field, vErr.FieldErrors)
		}
	}

	if len(store.shifts) != 1 {
		t.Fatalf("expected one stored shift, got %d", len(store.shifts))
	}
}

func TestConfirmedShiftService_ListConfirmedShifts_Scopes(t *testing.T) {
	t.Parallel()

	store, svc := newConfirmedShiftFixture()
	jst := time.FixedZone("JST", 9*60*60)
	store.shifts["s1"] = ConfirmedShift{ID: "s1", UserID: "user-1", Date: mustDate("2025-07-09"),
		StartTime: time.Date(2025, 7, 9, 9, 0, 0, 0, jst), EndTime: time.Date(2025, 7, 9, 12, 0, 0, 0, jst)}
	store.shifts["s2"] = ConfirmedShift{ID: "s2", UserID: "user-2", Date: mustDate("2025-07-02"),
		StartTime: time.Date(2025, 7, 2, 13, 0, 0, 0, jst), EndTime: time.Date(2025, 7, 2, 18, 0, 0, 0, jst)}
	ctx := context.Background()

	own, err := svc.ListConfirmedShifts(ctx, ListConfirmedShiftsParams{Principal: Principal{UserID: "user-1"}, Scope: ScopeSelf})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(own) != 1 || own[0].ID != "s1" {
		t.Fatalf("unexpected own shifts: %+v", own)
	}

	all, err := svc.ListConfirmedShifts(ctx, ListConfirmedShiftsParams{Principal: Principal{UserID: "user-1"}, Scope: ScopeAll})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 || all[0].ID != "s2" || all[1].ID != "s1" {
		t.Fatalf("expected shifts ordered by date, got %+v", all)
	}

	_, err = svc.ListConfirmedShifts(ctx, ListConfirmedShiftsParams{Principal: Principal{UserID: "user-1"}, Scope: "others"})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for unknown scope, got %v", err)
	}
}

func TestConfirmedShiftService_UpdateConfirmedShift(t *testing.T) {
	t.Parallel()

	store, svc := newConfirmedShiftFixture()
	ctx := context.Background()
	created, err := svc.CreateConfirmedShift(ctx, CreateConfirmedShiftParams{
		Principal: adminPrincipal,
		Input:     ConfirmedShiftInput{UserID: "user-1", Date: mustDate("2025-07-09"), StartTime: "09:00", EndTime: "12:00"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.UpdateConfirmedShift(ctx, UpdateConfirmedShiftParams{
		Principal:        adminPrincipal,
		ConfirmedShiftID: created.ID,
		Input:            ConfirmedShiftInput{UserID: "user-2", Date: mustDate("2025-07-16"), StartTime: "13:00", EndTime: "2025-07-16T18:45:00+09:00"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.UserID != "user-2" || updated.User.DisplayName != "Bob" {
		t.Fatalf("expected reassignment to Bob, got %+v", updated)
	}
	if updated.StartLocal != "13:00" || updated.EndLocal != "18:45" {
		t.Fatalf("unexpected local times: %s - %s", updated.StartLocal, updated.EndLocal)
	}
	if !store.shifts[created.ID].Date.Equal(mustDate("2025-07-16")) {
		t.Fatalf("expected stored date to change")
	}

	if _, err := svc.UpdateConfirmedShift(ctx, UpdateConfirmedShiftParams{Principal: adminPrincipal, ConfirmedShiftID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.UpdateConfirmedShift(ctx, UpdateConfirmedShiftParams{Principal: Principal{UserID: "user-2"}, ConfirmedShiftID: created.ID}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestConfirmedShiftService_DeleteConfirmedShift(t *testing.T) {
	t.Parallel()

	store, svc := newConfirmedShiftFixture()
	store.shifts["s1"] = ConfirmedShift{ID: "s1", UserID: "user-1", Date: mustDate("2025-07-09")}
	ctx := context.Background()

	if err := svc.DeleteConfirmedShift(ctx, Principal{UserID: "user-1"}, "s1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.DeleteConfirmedShift(ctx, adminPrincipal, "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.DeleteConfirmedShift(ctx, adminPrincipal, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
