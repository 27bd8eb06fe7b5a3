package memory_test

import (
	"errors"
	"testing"

	"github.com/aviral1303/vectordb/models"
	"github.com/aviral1303/vectordb/storage/memory"
)

func TestDocumentRepositoryCreateDuplicate(t *testing.T) {
	r := memory.NewDocumentRepository()
	doc := &models.Document{ID: "doc1", LibraryID: "lib1", Title: "t"}
	if err := r.Create(doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := r.Create(doc); !errors.Is(err, models.ErrConflict) {
		t.Fatalf("want ErrConflict on duplicate id, got %v", err)
	}
}

func TestDocumentRepositoryListByLibraryOnlyReturnsOwnDocuments(t *testing.T) {
	r := memory.NewDocumentRepository()
	r.Create(&models.Document{ID: "doc1", LibraryID: "lib1", Title: "a"})
	r.Create(&models.Document{ID: "doc2", LibraryID: "lib1", Title: "b"})
	r.Create(&models.Document{ID: "doc3", LibraryID: "lib2", Title: "c"})

	got := r.ListByLibrary("lib1")
	if len(got) != 2 {
		t.Fatalf("want 2 documents in lib1, got %d", len(got))
	}
}

func TestDocumentRepositoryDeleteRemovesFromSecondaryIndex(t *testing.T) {
	r := memory.NewDocumentRepository()
	r.Create(&models.Document{ID: "doc1", LibraryID: "lib1", Title: "a"})
	if err := r.Delete("doc1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := r.ListByLibrary("lib1"); len(got) != 0 {
		t.Fatalf("want document removed from library index, got %v", got)
	}
}

func TestDocumentRepositoryUpdateAppliesOnlyNonNilFields(t *testing.T) {
	r := memory.NewDocumentRepository()
	r.Create(&models.Document{ID: "doc1", LibraryID: "lib1", Title: "original", Description: "desc"})

	title := "renamed"
	updated, err := r.Update("doc1", models.DocumentUpdate{Title: &title})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "renamed" || updated.Description != "desc" {
		t.Fatalf("want only title changed, got %+v", updated)
	}
}

func TestDocumentRepositoryUpdateNotFound(t *testing.T) {
	r := memory.NewDocumentRepository()
	title := "x"
	if _, err := r.Update("missing", models.DocumentUpdate{Title: &title}); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDocumentRepositoryReplaceAllRebuildsSecondaryIndex(t *testing.T) {
	r := memory.NewDocumentRepository()
	r.Create(&models.Document{ID: "old", LibraryID: "lib1", Title: "old"})

	r.ReplaceAll([]*models.Document{{ID: "new", LibraryID: "lib2", Title: "new"}})

	if got := r.ListByLibrary("lib1"); len(got) != 0 {
		t.Fatalf("want lib1 empty after ReplaceAll, got %v", got)
	}
	if got := r.ListByLibrary("lib2"); len(got) != 1 || got[0].ID != "new" {
		t.Fatalf("want lib2 to contain the new document, got %v", got)
	}
}
