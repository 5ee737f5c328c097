package app

import (
	"testing"

	objectmemory "github.com/openfield/gleaner/internal/objectstore/memory"
	repomemory "github.com/openfield/gleaner/internal/repository/memory"
)

// TestNew verifies app construction and version accessors.
func TestNew(t *testing.T) {
	a, err := New("1.2.3", "abc123", "2025-08-01", "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if a.Version() != "1.2.3" {
		t.Errorf("Version() = %s, want 1.2.3", a.Version())
	}
	if a.Commit() != "abc123" {
		t.Errorf("Commit() = %s, want abc123", a.Commit())
	}
	if a.Date() != "2025-08-01" {
		t.Errorf("Date() = %s, want 2025-08-01", a.Date())
	}
	if a.BuiltBy() != "test" {
		t.Errorf("BuiltBy() = %s, want test", a.BuiltBy())
	}
	if a.Config() == nil {
		t.Error("Config() returned nil")
	}
	if a.Logger() == nil {
		t.Error("Logger() returned nil")
	}
}

// TestStoreSelection verifies the store falls back to memory without a
// database host.
func TestStoreSelection(t *testing.T) {
	a, err := New("dev", "", "", "")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	a.config.DatabaseHost = ""

	store, err := a.Store()
	if err != nil {
		t.Fatalf("Store() failed: %v", err)
	}
	if _, ok := store.(*objectmemory.Store); !ok {
		t.Errorf("Store() = %T, want *memory.Store", store)
	}
}

// TestRepositorySelection verifies dry-run and missing portal fall back
// to the in-memory repository.
func TestRepositorySelection(t *testing.T) {
	a, err := New("dev", "", "", "")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	// No portal configured
	a.config.PortalURL = ""
	repo, err := a.Repository(false)
	if err != nil {
		t.Fatalf("Repository(false) failed: %v", err)
	}
	if _, ok := repo.(*repomemory.Repository); !ok {
		t.Errorf("Repository(false) = %T, want *memory.Repository", repo)
	}

	// Portal configured but dry-run requested
	a.config.PortalURL = "https://catalog.example.org"
	repo, err = a.Repository(true)
	if err != nil {
		t.Fatalf("Repository(true) failed: %v", err)
	}
	if _, ok := repo.(*repomemory.Repository); !ok {
		t.Errorf("Repository(true) = %T, want *memory.Repository", repo)
	}

	// Portal configured and live
	repo, err = a.Repository(false)
	if err != nil {
		t.Fatalf("Repository(false) with portal failed: %v", err)
	}
	if _, ok := repo.(*repomemory.Repository); ok {
		t.Error("Repository(false) with portal should not be the in-memory repository")
	}
}

// TestGleanerConstruction verifies the facade builds from app wiring.
func TestGleanerConstruction(t *testing.T) {
	a, err := New("dev", "", "", "")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	a.config.PageSize = 25
	a.config.CatalogBase = "https://api.example.org"

	g, err := a.Gleaner(objectmemory.New(), repomemory.New())
	if err != nil {
		t.Fatalf("Gleaner() failed: %v", err)
	}
	if g == nil {
		t.Fatal("Gleaner() returned nil")
	}

	infos := g.Harvesters()
	if len(infos) != 1 || infos[0].Name != "socrata" {
		t.Errorf("Harvesters() = %v, want socrata", infos)
	}
}
