package api

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/aviral1303/vectordb/docs" // required for swagger
)

// RouterConfig bundles the handlers and policy NewRouter needs to wire the
// full HTTP surface of spec.md §6.1.
type RouterConfig struct {
	Libraries    *LibraryHandler
	Documents    *DocumentHandler
	Chunks       *ChunkHandler
	Query        *QueryHandler
	Index        *IndexHandler
	Replication  *ReplicationHandler
	Health       *HealthHandler
	IsFollower   func() bool
}

// NewRouter builds the gorilla/mux router for the server, mirroring the
// teacher's apiRouter-on-subrouter layout with a top-level swagger mount.
func NewRouter(cfg RouterConfig) *mux.Router {
	router := mux.NewRouter()
	apiRouter := router.PathPrefix("/api/v1").Subrouter()

	write := func(h http.HandlerFunc) http.HandlerFunc {
		return RequireLeader(cfg.IsFollower, h)
	}

	// Libraries
	apiRouter.HandleFunc("/libraries", write(cfg.Libraries.Create)).Methods("POST")
	apiRouter.HandleFunc("/libraries", cfg.Libraries.List).Methods("GET")
	apiRouter.HandleFunc("/libraries/{id}", cfg.Libraries.Get).Methods("GET")
	apiRouter.HandleFunc("/libraries/{id}", write(cfg.Libraries.Update)).Methods("PATCH")
	apiRouter.HandleFunc("/libraries/{id}", write(cfg.Libraries.Delete)).Methods("DELETE")

	// Documents
	apiRouter.HandleFunc("/libraries/{library_id}/documents", write(cfg.Documents.Create)).Methods("POST")
	apiRouter.HandleFunc("/libraries/{library_id}/documents", cfg.Documents.List).Methods("GET")
	apiRouter.HandleFunc("/libraries/{library_id}/documents/{id}", cfg.Documents.Get).Methods("GET")
	apiRouter.HandleFunc("/libraries/{library_id}/documents/{id}", write(cfg.Documents.Update)).Methods("PATCH")
	apiRouter.HandleFunc("/libraries/{library_id}/documents/{id}", write(cfg.Documents.Delete)).Methods("DELETE")

	// Chunks
	apiRouter.HandleFunc("/libraries/{library_id}/chunks", write(cfg.Chunks.Create)).Methods("POST")
	apiRouter.HandleFunc("/libraries/{library_id}/chunks", cfg.Chunks.List).Methods("GET")
	apiRouter.HandleFunc("/libraries/{library_id}/chunks/{id}", cfg.Chunks.Get).Methods("GET")
	apiRouter.HandleFunc("/libraries/{library_id}/chunks/{id}", write(cfg.Chunks.Update)).Methods("PATCH")
	apiRouter.HandleFunc("/libraries/{library_id}/chunks/{id}", write(cfg.Chunks.Delete)).Methods("DELETE")

	// Query
	apiRouter.HandleFunc("/libraries/{id}/query", cfg.Query.Query).Methods("POST")

	// Index
	apiRouter.HandleFunc("/libraries/{id}/index:build", write(cfg.Index.Build)).Methods("POST")
	apiRouter.HandleFunc("/libraries/{id}/index:status", cfg.Index.Status).Methods("GET")

	// Replication (leader-only; a follower also rejects this as a write per
	// spec.md §6.4 so a misconfigured follower cannot be polled as a leader)
	apiRouter.HandleFunc("/replication/snapshot", write(cfg.Replication.Snapshot)).Methods("GET")

	router.HandleFunc("/health", cfg.Health.Health).Methods("GET")
	router.HandleFunc("/", cfg.Health.Root).Methods("GET")

	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
	))

	return router
}
