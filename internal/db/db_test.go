package db

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setupTestDB(t *testing.T) (*DB, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "budget-db-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	tmpFile.Close()

	db, err := Open(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("opening database: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.Remove(tmpFile.Name())
	}

	return db, cleanup
}

func TestGetMissingKey(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	value, found, err := db.Get("incomeData")
	if err != nil {
		t.Fatalf("getting key: %v", err)
	}
	if found {
		t.Errorf("expected key to be missing, got %q", value)
	}
}

func TestSetAndGet(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if err := db.Set("budgetCurrency", "USD"); err != nil {
		t.Fatalf("setting key: %v", err)
	}
	if err := db.Set("budgetCurrency", "EUR"); err != nil {
		t.Fatalf("overwriting key: %v", err)
	}

	value, found, err := db.Get("budgetCurrency")
	if err != nil {
		t.Fatalf("getting key: %v", err)
	}
	if !found || value != "EUR" {
		t.Errorf("expected EUR, got %q (found=%v)", value, found)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "budget.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	if err := db.Set("expenseData", `[{"desc":"Rent"}]`); err != nil {
		t.Fatalf("setting key: %v", err)
	}
	db.Close()

	// Migrations must be a no-op the second time.
	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopening database: %v", err)
	}
	defer db.Close()

	value, found, err := db.Get("expenseData")
	if err != nil || !found {
		t.Fatalf("getting key after reopen: found=%v err=%v", found, err)
	}
	if value != `[{"desc":"Rent"}]` {
		t.Errorf("unexpected value %q", value)
	}
}

func TestRecentAnalyses(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	for i, text := range []string{"first", "second", "third"} {
		at := base.Add(time.Duration(i) * time.Minute)
		db.now = func() time.Time { return at }
		if err := db.SaveAnalysis("en", "USD", text); err != nil {
			t.Fatalf("saving analysis: %v", err)
		}
	}

	got, err := db.RecentAnalyses(2)
	if err != nil {
		t.Fatalf("listing analyses: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 analyses, got %d", len(got))
	}
	if got[0].Text != "third" || got[1].Text != "second" {
		t.Errorf("expected newest first, got %q, %q", got[0].Text, got[1].Text)
	}
	if !got[0].CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("unexpected created_at %v", got[0].CreatedAt)
	}
}

func TestRecentAnalysesSubsecondOrder(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	base := time.Date(2025, 3, 14, 9, 0, 5, 0, time.UTC)
	saves := []struct {
		text string
		at   time.Time
	}{
		{"a", base.Add(100 * time.Millisecond)},
		{"b", base.Add(120 * time.Millisecond)},
		{"c", base.Add(time.Second)},
	}
	for _, s := range saves {
		at := s.at
		db.now = func() time.Time { return at }
		if err := db.SaveAnalysis("en", "USD", s.text); err != nil {
			t.Fatalf("saving analysis: %v", err)
		}
	}

	got, err := db.RecentAnalyses(10)
	if err != nil {
		t.Fatalf("listing analyses: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 analyses, got %d", len(got))
	}
	for i, want := range []string{"c", "b", "a"} {
		if got[i].Text != want {
			t.Errorf("position %d: expected %q, got %q", i, want, got[i].Text)
		}
	}
	if !got[1].CreatedAt.Equal(saves[1].at) {
		t.Errorf("unexpected created_at %v", got[1].CreatedAt)
	}
}
