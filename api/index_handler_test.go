package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/aviral1303/vectordb/api"
	"github.com/aviral1303/vectordb/models"
	"github.com/aviral1303/vectordb/services"
	"github.com/aviral1303/vectordb/storage/memory"
)

func newIndexTestHandler(t *testing.T) (*api.IndexHandler, *api.LibraryHandler) {
	t.Helper()
	store := memory.NewStore()
	locks := memory.NewLockRegistry()
	versions := memory.NewVersionManager()
	pool := services.NewBuildWorkerPool(1)
	t.Cleanup(pool.Stop)
	indexSvc := services.NewIndexService(locks, versions, pool)
	libSvc := services.NewLibraryService(store.Libraries, store.Documents, store.Chunks, locks, versions, models.MaxEmbeddingDimensionCeiling)
	return api.NewIndexHandler(libSvc, indexSvc, versions, store.Chunks), api.NewLibraryHandler(libSvc)
}

func createTestLibrary(t *testing.T, libHandler *api.LibraryHandler, defaultType models.IndexType) string {
	t.Helper()
	body, _ := json.Marshal(api.LibraryRequest{Name: "docs", EmbeddingDimension: 2, DefaultIndexType: defaultType})
	req := httptest.NewRequest("POST", "/api/v1/libraries", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	libHandler.Create(rec, req)
	if rec.Code != 201 {
		t.Fatalf("want 201 creating library, got %d: %s", rec.Code, rec.Body.String())
	}
	var lib api.LibraryResponse
	if err := json.NewDecoder(rec.Body).Decode(&lib); err != nil {
		t.Fatalf("decode library: %v", err)
	}
	return lib.ID
}

func TestIndexBuildWithNoBodyUsesLibraryDefault(t *testing.T) {
	indexHandler, libHandler := newIndexTestHandler(t)
	libID := createTestLibrary(t, libHandler, models.IndexKDTree)

	req := httptest.NewRequest("POST", "/api/v1/libraries/"+libID+"/index:build", http.NoBody)
	req = mux.SetURLVars(req, map[string]string{"id": libID})
	rec := httptest.NewRecorder()
	indexHandler.Build(rec, req)

	if rec.Code != 202 {
		t.Fatalf("want 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp api.IndexBuildResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "building" || resp.IndexType != models.IndexKDTree {
		t.Fatalf("want {building, kd_tree} falling back to library default, got %+v", resp)
	}
}

func TestIndexBuildWithExplicitTypeOverridesDefault(t *testing.T) {
	indexHandler, libHandler := newIndexTestHandler(t)
	libID := createTestLibrary(t, libHandler, models.IndexBruteForce)

	body, _ := json.Marshal(api.IndexBuildRequest{IndexType: models.IndexLSH})
	req := httptest.NewRequest("POST", "/api/v1/libraries/"+libID+"/index:build", bytes.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"id": libID})
	rec := httptest.NewRecorder()
	indexHandler.Build(rec, req)

	if rec.Code != 202 {
		t.Fatalf("want 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp api.IndexBuildResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.IndexType != models.IndexLSH {
		t.Fatalf("want explicit index_type lsh to override the library default, got %+v", resp)
	}
}

func TestIndexBuildRejectsUnknownType(t *testing.T) {
	indexHandler, libHandler := newIndexTestHandler(t)
	libID := createTestLibrary(t, libHandler, models.IndexBruteForce)

	body, _ := json.Marshal(api.IndexBuildRequest{IndexType: "not_a_real_index"})
	req := httptest.NewRequest("POST", "/api/v1/libraries/"+libID+"/index:build", bytes.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"id": libID})
	rec := httptest.NewRecorder()
	indexHandler.Build(rec, req)

	if rec.Code != 400 {
		t.Fatalf("want 400 for an unknown index_type, got %d", rec.Code)
	}
}
