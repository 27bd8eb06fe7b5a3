package api_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/aviral1303/vectordb/api"
	"github.com/aviral1303/vectordb/embedding"
	"github.com/aviral1303/vectordb/models"
	"github.com/aviral1303/vectordb/services"
	"github.com/aviral1303/vectordb/storage/memory"
)

func TestHealthEndpoint(t *testing.T) {
	store := memory.NewStore()
	_ = store
	locks := memory.NewLockRegistry()
	versions := memory.NewVersionManager()
	pool := services.NewBuildWorkerPool(1)
	t.Cleanup(pool.Stop)
	indexSvc := services.NewIndexService(locks, versions, pool)
	libSvc := services.NewLibraryService(store.Libraries, store.Documents, store.Chunks, locks, versions, models.MaxEmbeddingDimensionCeiling)
	docSvc := services.NewDocumentService(store.Libraries, store.Documents, store.Chunks, locks)
	chunkSvc := services.NewChunkService(store.Libraries, store.Documents, store.Chunks, locks, versions, indexSvc)
	querySvc := services.NewQueryService(store.Libraries, store.Chunks, locks, versions, indexSvc, true)

	router := api.NewRouter(api.RouterConfig{
		Libraries:   api.NewLibraryHandler(libSvc),
		Documents:   api.NewDocumentHandler(docSvc),
		Chunks:      api.NewChunkHandler(chunkSvc),
		Query:       api.NewQueryHandler(libSvc, querySvc, embedding.NewFallbackProvider(nil)),
		Index:       api.NewIndexHandler(libSvc, indexSvc, versions, store.Chunks),
		Replication: api.NewReplicationHandler(store),
		Health:      api.NewHealthHandler("leader"),
		IsFollower:  func() bool { return false },
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != 200 {
		t.Fatalf("want 200 from /health, got %d", rec.Code)
	}
}

func TestCreateThenDeleteLibraryEndToEnd(t *testing.T) {
	store := memory.NewStore()
	locks := memory.NewLockRegistry()
	versions := memory.NewVersionManager()
	pool := services.NewBuildWorkerPool(1)
	t.Cleanup(pool.Stop)
	indexSvc := services.NewIndexService(locks, versions, pool)
	libSvc := services.NewLibraryService(store.Libraries, store.Documents, store.Chunks, locks, versions, models.MaxEmbeddingDimensionCeiling)
	docSvc := services.NewDocumentService(store.Libraries, store.Documents, store.Chunks, locks)
	chunkSvc := services.NewChunkService(store.Libraries, store.Documents, store.Chunks, locks, versions, indexSvc)
	querySvc := services.NewQueryService(store.Libraries, store.Chunks, locks, versions, indexSvc, true)

	router := api.NewRouter(api.RouterConfig{
		Libraries:   api.NewLibraryHandler(libSvc),
		Documents:   api.NewDocumentHandler(docSvc),
		Chunks:      api.NewChunkHandler(chunkSvc),
		Query:       api.NewQueryHandler(libSvc, querySvc, embedding.NewFallbackProvider(nil)),
		Index:       api.NewIndexHandler(libSvc, indexSvc, versions, store.Chunks),
		Replication: api.NewReplicationHandler(store),
		Health:      api.NewHealthHandler("leader"),
		IsFollower:  func() bool { return false },
	})

	body, _ := json.Marshal(api.LibraryRequest{Name: "docs", EmbeddingDimension: 2, DefaultIndexType: models.IndexBruteForce})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/libraries", bytes.NewReader(body)))
	if rec.Code != 201 {
		t.Fatalf("want 201 creating a library, got %d: %s", rec.Code, rec.Body.String())
	}
	var lib api.LibraryResponse
	if err := json.NewDecoder(rec.Body).Decode(&lib); err != nil {
		t.Fatalf("decode library response: %v", err)
	}

	deleteRec := httptest.NewRecorder()
	router.ServeHTTP(deleteRec, httptest.NewRequest("DELETE", "/api/v1/libraries/"+lib.ID, nil))
	if deleteRec.Code != 204 {
		t.Fatalf("want 204 deleting a library as leader, got %d", deleteRec.Code)
	}
}

func TestFollowerRejectsWriteThroughRouter(t *testing.T) {
	store := memory.NewStore()
	locks := memory.NewLockRegistry()
	versions := memory.NewVersionManager()
	pool := services.NewBuildWorkerPool(1)
	t.Cleanup(pool.Stop)
	indexSvc := services.NewIndexService(locks, versions, pool)
	libSvc := services.NewLibraryService(store.Libraries, store.Documents, store.Chunks, locks, versions, models.MaxEmbeddingDimensionCeiling)
	docSvc := services.NewDocumentService(store.Libraries, store.Documents, store.Chunks, locks)
	chunkSvc := services.NewChunkService(store.Libraries, store.Documents, store.Chunks, locks, versions, indexSvc)
	querySvc := services.NewQueryService(store.Libraries, store.Chunks, locks, versions, indexSvc, true)

	router := api.NewRouter(api.RouterConfig{
		Libraries:   api.NewLibraryHandler(libSvc),
		Documents:   api.NewDocumentHandler(docSvc),
		Chunks:      api.NewChunkHandler(chunkSvc),
		Query:       api.NewQueryHandler(libSvc, querySvc, embedding.NewFallbackProvider(nil)),
		Index:       api.NewIndexHandler(libSvc, indexSvc, versions, store.Chunks),
		Replication: api.NewReplicationHandler(store),
		Health:      api.NewHealthHandler("follower"),
		IsFollower:  func() bool { return true },
	})

	body, _ := json.Marshal(api.LibraryRequest{Name: "docs", EmbeddingDimension: 2, DefaultIndexType: models.IndexBruteForce})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/libraries", bytes.NewReader(body)))
	if rec.Code != 403 {
		t.Fatalf("want 403 creating a library on a follower, got %d", rec.Code)
	}
}
