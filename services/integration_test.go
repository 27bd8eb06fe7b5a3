package services_test

import (
	"testing"

	"github.com/aviral1303/vectordb/models"
	"github.com/aviral1303/vectordb/services"
	"github.com/aviral1303/vectordb/storage/memory"
)

// harness wires the full service stack the way main.go does, minus the
// embedding/HTTP/persistence collaborators, for exercising the core
// create/query/delete flows end to end.
type harness struct {
	libraries *services.LibraryService
	documents *services.DocumentService
	chunks    *services.ChunkService
	query     *services.QueryService
	index     *services.IndexService
	pool      *services.BuildWorkerPool
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	libRepo := memory.NewLibraryRepository()
	docRepo := memory.NewDocumentRepository()
	chunkRepo := memory.NewChunkRepository()
	locks := memory.NewLockRegistry()
	versions := memory.NewVersionManager()
	pool := services.NewBuildWorkerPool(2)
	t.Cleanup(pool.Stop)

	indexSvc := services.NewIndexService(locks, versions, pool)
	h := &harness{
		libraries: services.NewLibraryService(libRepo, docRepo, chunkRepo, locks, versions, models.MaxEmbeddingDimensionCeiling),
		documents: services.NewDocumentService(libRepo, docRepo, chunkRepo, locks),
		chunks:    services.NewChunkService(libRepo, docRepo, chunkRepo, locks, versions, indexSvc),
		query:     services.NewQueryService(libRepo, chunkRepo, locks, versions, indexSvc, true),
		index:     indexSvc,
		pool:      pool,
	}
	return h
}

func (h *harness) mustCreateLibrary(t *testing.T, dim int) *models.Library {
	t.Helper()
	lib, err := h.libraries.Create("lib", "", dim, models.IndexBruteForce, nil)
	if err != nil {
		t.Fatalf("create library: %v", err)
	}
	return lib
}

func (h *harness) mustCreateDocument(t *testing.T, libraryID string) *models.Document {
	t.Helper()
	doc, err := h.documents.Create(libraryID, "doc", "", nil)
	if err != nil {
		t.Fatalf("create document: %v", err)
	}
	return doc
}

func TestChunkCreateIsImmediatelySearchableAfterBuild(t *testing.T) {
	h := newHarness(t)
	lib := h.mustCreateLibrary(t, 2)
	doc := h.mustCreateDocument(t, lib.ID)

	if _, err := h.chunks.Create(lib.ID, doc.ID, "east", []float64{1, 0}, models.ChunkMetadata{}); err != nil {
		t.Fatalf("create chunk: %v", err)
	}
	if _, err := h.chunks.Create(lib.ID, doc.ID, "north", []float64{0, 1}, models.ChunkMetadata{}); err != nil {
		t.Fatalf("create chunk: %v", err)
	}

	if err := h.index.BuildIndex(lib.ID, models.IndexBruteForce, h.chunks); err != nil {
		t.Fatalf("build index: %v", err)
	}

	results, err := h.query.KNN(lib.ID, []float64{0.9, 0.1}, 1, nil)
	if err != nil {
		t.Fatalf("knn: %v", err)
	}
	if len(results) != 1 || results[0].Chunk.Text != "east" {
		t.Fatalf("want east as nearest, got %v", results)
	}
}

func TestChunkCreateRejectsDimensionMismatch(t *testing.T) {
	h := newHarness(t)
	lib := h.mustCreateLibrary(t, 3)
	doc := h.mustCreateDocument(t, lib.ID)

	_, err := h.chunks.Create(lib.ID, doc.ID, "bad", []float64{1, 0}, models.ChunkMetadata{})
	if err == nil {
		t.Fatalf("want error for embedding/library dimension mismatch")
	}
}

func TestChunkCreateRejectsDocumentFromOtherLibrary(t *testing.T) {
	h := newHarness(t)
	libA := h.mustCreateLibrary(t, 2)
	libB := h.mustCreateLibrary(t, 2)
	docInB := h.mustCreateDocument(t, libB.ID)

	_, err := h.chunks.Create(libA.ID, docInB.ID, "x", []float64{1, 0}, models.ChunkMetadata{})
	if err == nil {
		t.Fatalf("want error when document does not belong to library")
	}
}

func TestQueryKNNWithoutIndexReturnsEmpty(t *testing.T) {
	h := newHarness(t)
	lib := h.mustCreateLibrary(t, 2)
	results, err := h.query.KNN(lib.ID, []float64{1, 0}, 3, nil)
	if err != nil {
		t.Fatalf("knn: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("want empty results with no index built, got %v", results)
	}
}

func TestQueryKNNFilteredPathAppliesTagFilter(t *testing.T) {
	h := newHarness(t)
	lib := h.mustCreateLibrary(t, 2)
	doc := h.mustCreateDocument(t, lib.ID)
	h.chunks.Create(lib.ID, doc.ID, "tagged", []float64{1, 0}, models.ChunkMetadata{Tags: []string{"keep"}})
	h.chunks.Create(lib.ID, doc.ID, "untagged", []float64{0, 1}, models.ChunkMetadata{})

	results, err := h.query.KNN(lib.ID, []float64{1, 0}, 5, &models.ChunkFilter{TagsAny: []string{"keep"}})
	if err != nil {
		t.Fatalf("knn: %v", err)
	}
	if len(results) != 1 || results[0].Chunk.Text != "tagged" {
		t.Fatalf("want only the tagged chunk, got %v", results)
	}
}

func TestLibraryDeleteCascadesDocumentsAndChunks(t *testing.T) {
	h := newHarness(t)
	lib := h.mustCreateLibrary(t, 2)
	doc := h.mustCreateDocument(t, lib.ID)
	chunk, err := h.chunks.Create(lib.ID, doc.ID, "x", []float64{1, 0}, models.ChunkMetadata{})
	if err != nil {
		t.Fatalf("create chunk: %v", err)
	}

	if err := h.libraries.Delete(lib.ID); err != nil {
		t.Fatalf("delete library: %v", err)
	}
	if _, err := h.documents.Get(doc.ID); err == nil {
		t.Fatalf("want document gone after library cascade delete")
	}
	if _, err := h.chunks.Get(chunk.ID); err == nil {
		t.Fatalf("want chunk gone after library cascade delete")
	}
}

func TestDocumentDeleteCascadesChunksOnly(t *testing.T) {
	h := newHarness(t)
	lib := h.mustCreateLibrary(t, 2)
	doc := h.mustCreateDocument(t, lib.ID)
	chunk, _ := h.chunks.Create(lib.ID, doc.ID, "x", []float64{1, 0}, models.ChunkMetadata{})

	if err := h.documents.Delete(doc.ID); err != nil {
		t.Fatalf("delete document: %v", err)
	}
	if _, err := h.chunks.Get(chunk.ID); err == nil {
		t.Fatalf("want chunk gone after document delete")
	}
	if _, err := h.libraries.Get(lib.ID); err != nil {
		t.Fatalf("want library to survive document delete: %v", err)
	}
}

func TestChunkUpdateEmbeddingPatchesLiveIndex(t *testing.T) {
	h := newHarness(t)
	lib := h.mustCreateLibrary(t, 2)
	doc := h.mustCreateDocument(t, lib.ID)
	chunk, _ := h.chunks.Create(lib.ID, doc.ID, "x", []float64{1, 0}, models.ChunkMetadata{})
	if err := h.index.BuildIndex(lib.ID, models.IndexBruteForce, h.chunks); err != nil {
		t.Fatalf("build index: %v", err)
	}

	newEmbedding := []float64{0, 1}
	if _, err := h.chunks.Update(chunk.ID, models.ChunkUpdate{Embedding: newEmbedding}); err != nil {
		t.Fatalf("update chunk: %v", err)
	}

	results, err := h.query.KNN(lib.ID, []float64{0, 1}, 1, nil)
	if err != nil {
		t.Fatalf("knn: %v", err)
	}
	if len(results) != 1 || results[0].Score < 0.99 {
		t.Fatalf("want the live index reflect the embedding update, got %v", results)
	}
}

func TestIndexServiceBuildIndexAsyncIsSingleFlightPerLibrary(t *testing.T) {
	h := newHarness(t)
	lib := h.mustCreateLibrary(t, 2)
	doc := h.mustCreateDocument(t, lib.ID)
	h.chunks.Create(lib.ID, doc.ID, "x", []float64{1, 0}, models.ChunkMetadata{})

	h.index.BuildIndexAsync(lib.ID, models.IndexBruteForce, h.chunks)
	// A second call while the first may still be in flight must not panic
	// or deadlock; it is a no-op per spec.md §4.6.
	h.index.BuildIndexAsync(lib.ID, models.IndexBruteForce, h.chunks)
}
