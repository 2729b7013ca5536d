package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Taka-cst/ShiftManager/internal/persistence"
)

func TestConfirmedShiftRepository_CRUD(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	createTestUser(t, storage, "u1", "alice", false)
	createTestUser(t, storage, "u2", "bob", false)

	jst := time.FixedZone("JST", 9*60*60)
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	shift := persistence.ConfirmedShift{
		ID:        "shift-1",
		UserID:    "u1",
		Date:      mustDate(t, "2025-07-09"),
		StartTime: time.Date(2025, 7, 9, 9, 0, 0, 0, jst),
		EndTime:   time.Date(2025, 7, 9, 17, 30, 0, 0, jst),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := storage.CreateConfirmedShift(ctx, shift); err != nil {
		t.Fatalf("CreateConfirmedShift failed: %v", err)
	}

	duplicate := shift
	duplicate.ID = "shift-2"
	if err := storage.CreateConfirmedShift(ctx, duplicate); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	got, err := storage.GetConfirmedShift(ctx, "shift-1")
	if err != nil {
		t.Fatalf("GetConfirmedShift failed: %v", err)
	}
	if !got.StartTime.Equal(shift.StartTime) || !got.EndTime.Equal(shift.EndTime) || got.Owner.Username != "alice" {
		t.Fatalf("unexpected shift: %#v", got)
	}

	got.UserID = "u2"
	got.Date = mustDate(t, "2025-07-16")
	got.UpdatedAt = now.Add(time.Hour)
	if err := storage.UpdateConfirmedShift(ctx, got); err != nil {
		t.Fatalf("UpdateConfirmedShift failed: %v", err)
	}

	from := mustDate(t, "2025-07-01")
	to := mustDate(t, "2025-08-01")
	listed, err := storage.ListConfirmedShifts(ctx, persistence.LedgerFilter{UserID: "u2", DateFrom: &from, DateTo: &to})
	if err != nil {
		t.Fatalf("ListConfirmedShifts failed: %v", err)
	}
	if len(listed) != 1 || listed[0].Owner.Username != "bob" {
		t.Fatalf("expected reassigned shift for bob, got %#v", listed)
	}

	missing := got
	missing.ID = "nope"
	if err := storage.UpdateConfirmedShift(ctx, missing); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := storage.DeleteConfirmedShift(ctx, "shift-1"); err != nil {
		t.Fatalf("DeleteConfirmedShift failed: %v", err)
	}
	if _, err := storage.GetConfirmedShift(ctx, "shift-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
