package memory_test

import (
	"errors"
	"testing"

	"github.com/aviral1303/vectordb/models"
	"github.com/aviral1303/vectordb/storage/memory"
)

func TestLibraryRepositoryCreateDuplicate(t *testing.T) {
	r := memory.NewLibraryRepository()
	lib := &models.Library{ID: "lib1", Name: "docs", EmbeddingDimension: 3}
	if err := r.Create(lib); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := r.Create(lib); !errors.Is(err, models.ErrConflict) {
		t.Fatalf("want ErrConflict on duplicate id, got %v", err)
	}
}

func TestLibraryRepositoryGetNotFound(t *testing.T) {
	r := memory.NewLibraryRepository()
	if _, err := r.Get("missing"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestLibraryRepositoryGetReturnsIndependentCopy(t *testing.T) {
	r := memory.NewLibraryRepository()
	r.Create(&models.Library{ID: "lib1", Name: "docs"})

	got, _ := r.Get("lib1")
	got.Name = "mutated"

	again, _ := r.Get("lib1")
	if again.Name != "docs" {
		t.Fatalf("want stored library unaffected by caller mutation, got %q", again.Name)
	}
}

func TestLibraryRepositoryUpdateAppliesOnlyNonNilFields(t *testing.T) {
	r := memory.NewLibraryRepository()
	r.Create(&models.Library{ID: "lib1", Name: "docs", Description: "original"})

	name := "renamed"
	updated, err := r.Update("lib1", models.LibraryUpdate{Name: &name})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "renamed" || updated.Description != "original" {
		t.Fatalf("want only name changed, got %+v", updated)
	}
}

func TestLibraryRepositoryUpdateNotFound(t *testing.T) {
	r := memory.NewLibraryRepository()
	name := "x"
	if _, err := r.Update("missing", models.LibraryUpdate{Name: &name}); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestLibraryRepositoryDeleteThenGetNotFound(t *testing.T) {
	r := memory.NewLibraryRepository()
	r.Create(&models.Library{ID: "lib1", Name: "docs"})
	if err := r.Delete("lib1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := r.Get("lib1"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
}

func TestLibraryRepositoryReplaceAllSwapsContents(t *testing.T) {
	r := memory.NewLibraryRepository()
	r.Create(&models.Library{ID: "old", Name: "old"})

	r.ReplaceAll([]*models.Library{{ID: "new", Name: "new"}})

	if _, err := r.Get("old"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("want old library gone after ReplaceAll")
	}
	if got, err := r.Get("new"); err != nil || got.Name != "new" {
		t.Fatalf("want new library present after ReplaceAll, got %+v, err %v", got, err)
	}
}
