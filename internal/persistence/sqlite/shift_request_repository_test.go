package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Taka-cst/ShiftManager/internal/persistence"
)

func TestShiftRequestRepository_RoundTrip(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	createTestUser(t, storage, "u1", "alice", false)

	jst := time.FixedZone("JST", 9*60*60)
	start := time.Date(2025, 7, 9, 6, 0, 0, 0, jst)
	end := time.Date(2025, 7, 9, 12, 0, 0, 0, jst)
	note := "morning only"
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	request := persistence.ShiftRequest{
		ID:          "req-1",
		UserID:      "u1",
		Date:        mustDate(t, "2025-07-09"),
		CanWork:     true,
		Description: &note,
		StartTime:   &start,
		EndTime:     &end,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := storage.CreateShiftRequest(ctx, request); err != nil {
		t.Fatalf("CreateShiftRequest failed: %v", err)
	}

	got, err := storage.GetShiftRequest(ctx, "req-1")
	if err != nil {
		t.Fatalf("GetShiftRequest failed: %v", err)
	}
	if !got.Date.Equal(request.Date) || !got.CanWork || *got.Description != note {
		t.Fatalf("unexpected request: %#v", got)
	}
	if !got.StartTime.Equal(start) || !got.EndTime.Equal(end) {
		t.Fatalf("expected instants to round trip, got %v - %v", got.StartTime, got.EndTime)
	}
	if got.Owner.Username != "alice" || got.Owner.ID != "u1" {
		t.Fatalf("expected owner to be joined, got %#v", got.Owner)
	}

	got.CanWork = false
	got.Description = nil
	got.StartTime = nil
	got.EndTime = nil
	got.UpdatedAt = now.Add(time.Hour)
	if err := storage.UpdateShiftRequest(ctx, got); err != nil {
		t.Fatalf("UpdateShiftRequest failed: %v", err)
	}

	updated, err := storage.GetShiftRequest(ctx, "req-1")
	if err != nil {
		t.Fatalf("GetShiftRequest failed: %v", err)
	}
	if updated.CanWork || updated.Description != nil || updated.StartTime != nil {
		t.Fatalf("expected cleared fields, got %#v", updated)
	}

	if err := storage.DeleteShiftRequest(ctx, "req-1"); err != nil {
		t.Fatalf("DeleteShiftRequest failed: %v", err)
	}
	if err := storage.DeleteShiftRequest(ctx, "req-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestShiftRequestRepository_UniquePerUserAndDate(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	createTestUser(t, storage, "u1", "alice", false)
	createTestUser(t, storage, "u2", "bob", false)
	now := time.Now().UTC()
	date := mustDate(t, "2025-07-09")

	if err := storage.CreateShiftRequest(ctx, persistence.ShiftRequest{ID: "a", UserID: "u1", Date: date, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("CreateShiftRequest failed: %v", err)
	}
	err := storage.CreateShiftRequest(ctx, persistence.ShiftRequest{ID: "b", UserID: "u1", Date: date, CreatedAt: now, UpdatedAt: now})
	if !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := storage.CreateShiftRequest(ctx, persistence.ShiftRequest{ID: "c", UserID: "u2", Date: date, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("expected another user to use the same date, got %v", err)
	}

	err = storage.CreateShiftRequest(ctx, persistence.ShiftRequest{ID: "d", UserID: "ghost", Date: date, CreatedAt: now, UpdatedAt: now})
	if !errors.Is(err, persistence.ErrForeignKeyViolation) {
		t.Fatalf("expected ErrForeignKeyViolation for unknown user, got %v", err)
	}
}

func TestShiftRequestRepository_ListFilters(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	createTestUser(t, storage, "u1", "alice", false)
	createTestUser(t, storage, "u2", "bob", false)
	now := time.Now().UTC()

	seed := []struct{ id, user, date string }{
		{"r1", "u1", "2025-06-30"},
		{"r2", "u1", "2025-07-01"},
		{"r3", "u1", "2025-07-31"},
		{"r4", "u1", "2025-08-01"},
		{"r5", "u2", "2025-07-15"},
	}
	for _, s := range seed {
		if err := storage.CreateShiftRequest(ctx, persistence.ShiftRequest{
			ID: s.id, UserID: s.user, Date: mustDate(t, s.date), CreatedAt: now, UpdatedAt: now,
		}); err != nil {
			t.Fatalf("CreateShiftRequest(%s) failed: %v", s.id, err)
		}
	}

	from := mustDate(t, "2025-07-01")
	to := mustDate(t, "2025-08-01")

	july, err := storage.ListShiftRequests(ctx, persistence.LedgerFilter{UserID: "u1", DateFrom: &from, DateTo: &to})
	if err != nil {
		t.Fatalf("ListShiftRequests failed: %v", err)
	}
	if len(july) != 2 || july[0].ID != "r2" || july[1].ID != "r3" {
		t.Fatalf("expected r2 and r3, got %#v", july)
	}

	everyone, err := storage.ListShiftRequests(ctx, persistence.LedgerFilter{DateFrom: &from, DateTo: &to})
	if err != nil {
		t.Fatalf("ListShiftRequests failed: %v", err)
	}
	if len(everyone) != 3 {
		t.Fatalf("expected 3 July requests across users, got %d", len(everyone))
	}

	all, err := storage.ListShiftRequests(ctx, persistence.LedgerFilter{})
	if err != nil {
		t.Fatalf("ListShiftRequests failed: %v", err)
	}
	if len(all) != len(seed) {
		t.Fatalf("expected %d requests, got %d", len(seed), len(all))
	}
}
