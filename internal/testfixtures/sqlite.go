package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Taka-cst/ShiftManager/internal/eligibility"
	"github.com/Taka-cst/ShiftManager/internal/persistence"
	"github.com/Taka-cst/ShiftManager/internal/persistence/sqlite"
)

// SQLiteHarness is a migrated SQLite store in a temporary directory.
type SQLiteHarness struct {
	Storage *sqlite.Storage
	Store   persistence.Store

	tb testing.TB
}

// NewSQLiteHarness opens and migrates a fresh database. It is closed when the
// test finishes.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "shiftmanager.db")
	storage, err := sqlite.Open("file:" + path)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}
	tb.Cleanup(func() {
		_ = storage.Close()
	})

	if err := storage.Migrate(context.Background()); err != nil {
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	return &SQLiteHarness{Storage: storage, Store: storage, tb: tb}
}

// SeedUser inserts the fixture and returns the stored row.
func (h *SQLiteHarness) SeedUser(fixture UserFixture) persistence.User {
	h.tb.Helper()

	user, err := fixture.Persistence()
	if err != nil {
		h.tb.Fatalf("failed to build user %s: %v", fixture.ID, err)
	}
	if err := h.Store.CreateUser(context.Background(), user); err != nil {
		h.tb.Fatalf("failed to seed user %s: %v", fixture.ID, err)
	}
	return user
}

// SeedShiftRequest inserts the fixture and returns the stored row.
func (h *SQLiteHarness) SeedShiftRequest(fixture ShiftRequestFixture) persistence.ShiftRequest {
	h.tb.Helper()

	request, err := fixture.Persistence()
	if err != nil {
		h.tb.Fatalf("failed to build shift request %s: %v", fixture.ID, err)
	}
	if err := h.Store.CreateShiftRequest(context.Background(), request); err != nil {
		h.tb.Fatalf("failed to seed shift request %s: %v", fixture.ID, err)
	}
	return request
}

// SeedConfirmedShift inserts the fixture and returns the stored row.
func (h *SQLiteHarness) SeedConfirmedShift(fixture ConfirmedShiftFixture) persistence.ConfirmedShift {
	h.tb.Helper()

	shift, err := fixture.Persistence()
	if err != nil {
		h.tb.Fatalf("failed to build confirmed shift %s: %v", fixture.ID, err)
	}
	if err := h.Store.CreateConfirmedShift(context.Background(), shift); err != nil {
		h.tb.Fatalf("failed to seed confirmed shift %s: %v", fixture.ID, err)
	}
	return shift
}

// SetClassDays stores the weekday eligibility flags.
func (h *SQLiteHarness) SetClassDays(days eligibility.Settings) {
	h.tb.Helper()

	values := days.KeyValues()
	settings := make([]persistence.Setting, 0, len(values))
	for key, value := range values {
		settings = append(settings, persistence.Setting{Key: key, Value: value})
	}
	if err := h.Store.PutSettings(context.Background(), settings); err != nil {
		h.tb.Fatalf("failed to store class days: %v", err)
	}
}
