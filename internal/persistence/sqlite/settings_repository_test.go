package sqlite

import (
	"context"
	"testing"

	"github.com/Taka-cst/ShiftManager/internal/persistence"
)

func TestSettingsRepository_PutAndList(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	empty, err := storage.ListSettings(ctx, "dow_")
	if err != nil {
		t.Fatalf("ListSettings failed: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no settings, got %#v", empty)
	}

	if err := storage.PutSettings(ctx, []persistence.Setting{
		{Key: "dow_monday", Value: "true"},
		{Key: "dow_tuesday", Value: "false"},
		{Key: "site_name", Value: "campus"},
	}); err != nil {
		t.Fatalf("PutSettings failed: %v", err)
	}
	if err := storage.PutSettings(ctx, []persistence.Setting{{Key: "dow_monday", Value: "false"}}); err != nil {
		t.Fatalf("PutSettings upsert failed: %v", err)
	}

	got, err := storage.ListSettings(ctx, "dow_")
	if err != nil {
		t.Fatalf("ListSettings failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 weekday settings, got %#v", got)
	}
	if got[0].Key != "dow_monday" || got[0].Value != "false" {
		t.Fatalf("expected upserted monday=false, got %#v", got[0])
	}
}

func TestSettingsRepository_PutSettingsIsAtomic(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	err := storage.PutSettings(ctx, []persistence.Setting{
		{Key: "dow_friday", Value: "true"},
		{Key: "  ", Value: "broken"},
	})
	if err == nil {
		t.Fatal("expected an error for a blank key")
	}

	got, err := storage.ListSettings(ctx, "dow_")
	if err != nil {
		t.Fatalf("ListSettings failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected rollback to discard partial writes, got %#v", got)
	}
}
