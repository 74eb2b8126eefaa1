package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/brewcode/internal/model"
)

// createTestStore creates a file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createSeededStore creates a store with the reference catalog loaded.
func createSeededStore(t *testing.T) *Store {
	t.Helper()
	s := createTestStore(t)
	if err := s.Seed(context.Background()); err != nil {
		t.Fatalf("Seed() failed: %v", err)
	}
	return s
}

// createTestItem inserts a minimal item and returns its ID.
func createTestItem(t *testing.T, s *Store, categoryID int64, name, unit string) int64 {
	t.Helper()
	id, err := s.CreateItem(context.Background(), model.Item{
		CategoryID: categoryID,
		Name:       name,
		Unit:       unit,
	})
	if err != nil {
		t.Fatalf("CreateItem(%q) failed: %v", name, err)
	}
	return id
}

// createTestCategory inserts a category and returns its ID.
func createTestCategory(t *testing.T, s *Store, name string) int64 {
	t.Helper()
	id, err := s.CreateCategory(context.Background(), name, "")
	if err != nil {
		t.Fatalf("CreateCategory(%q) failed: %v", name, err)
	}
	return id
}

// seedItemID looks up a seeded item by name.
func seedItemID(t *testing.T, s *Store, name string) int64 {
	t.Helper()
	var id int64
	if err := s.db.QueryRow(`SELECT itemID FROM items WHERE name = ?`, name).Scan(&id); err != nil {
		t.Fatalf("seed item %q not found: %v", name, err)
	}
	return id
}

// seedStageTypeID looks up a seeded stage type by name.
func seedStageTypeID(t *testing.T, s *Store, name string) int64 {
	t.Helper()
	var id int64
	if err := s.db.QueryRow(`SELECT stageTypeID FROM stageTypes WHERE name = ?`, name).Scan(&id); err != nil {
		t.Fatalf("seed stage type %q not found: %v", name, err)
	}
	return id
}

// seedGroupID looks up a seeded substitute group by name.
func seedGroupID(t *testing.T, s *Store, name string) int64 {
	t.Helper()
	var id int64
	if err := s.db.QueryRow(`SELECT groupID FROM substituteGroups WHERE name = ?`, name).Scan(&id); err != nil {
		t.Fatalf("seed group %q not found: %v", name, err)
	}
	return id
}
