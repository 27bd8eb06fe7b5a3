// Package main provides the vectordb server implementation.
//
// vectordb is a multi-tenant in-memory vector database. Each library owns
// its documents and chunks and its own reader-writer lock, kNN index
// (brute-force, KD-tree, or random-hyperplane LSH), and data/index version
// pair. Queries fall back to a transient brute-force scan whenever a
// filter is present, or when the resident index has fallen behind the data
// and allow_stale_index is off.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/aviral1303/vectordb/api"
	"github.com/aviral1303/vectordb/config"
	"github.com/aviral1303/vectordb/embedding"
	"github.com/aviral1303/vectordb/logger"
	"github.com/aviral1303/vectordb/persistence"
	"github.com/aviral1303/vectordb/replication"
	"github.com/aviral1303/vectordb/services"
	"github.com/aviral1303/vectordb/storage/memory"
)

// @title vectordb API
// @version 1.0
// @description A multi-tenant in-memory vector database with kNN search over libraries of document chunks.

// @license.name MIT

// @host localhost:8080
// @BasePath /api/v1

var (
	// Version is set at build time via -ldflags "-X main.Version=...".
	Version = "dev"
)

func main() {
	configPath := flag.String("config", "", "path to an optional YAML config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("vectordb " + Version)
		return
	}

	cfg := config.Load(*configPath)
	if err := logger.SetLogLevel(cfg.LogLevel); err != nil {
		logger.Warn("invalid log level %q, keeping default: %v", cfg.LogLevel, err)
	}

	logger.Info("starting vectordb %s (role=%s)", Version, cfg.NodeRole)

	store := memory.NewStore()
	locks := memory.NewLockRegistry()
	versions := memory.NewVersionManager()
	pool := services.NewBuildWorkerPool(cfg.MaxConcurrentIndexBuilds)
	defer pool.Stop()

	indexSvc := services.NewIndexService(locks, versions, pool)
	libSvc := services.NewLibraryService(store.Libraries, store.Documents, store.Chunks, locks, versions, cfg.MaxEmbeddingDimension)
	docSvc := services.NewDocumentService(store.Libraries, store.Documents, store.Chunks, locks)
	chunkSvc := services.NewChunkService(store.Libraries, store.Documents, store.Chunks, locks, versions, indexSvc)
	querySvc := services.NewQueryService(store.Libraries, store.Chunks, locks, versions, indexSvc, cfg.AllowStaleIndex)

	var remote embedding.Provider
	if cfg.EmbeddingProviderURL != "" {
		remote = embedding.NewHTTPProvider(cfg.EmbeddingProviderURL, cfg.EmbeddingProviderAPIKey, cfg.EmbeddingModel)
	}
	embedder := embedding.NewFallbackProvider(remote)

	if cfg.PersistenceEnabled {
		loadSnapshotAndIndexes(cfg, store, indexSvc)
	}

	shutdownCtx, cancelShutdown := context.WithCancel(context.Background())
	defer cancelShutdown()

	if cfg.PersistenceEnabled {
		snapshotter := persistence.NewSnapshotter(cfg.PersistenceDir)
		autosaver := persistence.NewAutosaver(snapshotter, store, time.Duration(cfg.PersistenceIntervalSeconds)*time.Second)
		go autosaver.Run(shutdownCtx)
	}

	if cfg.IsFollower() {
		if cfg.LeaderURL == "" {
			logger.Fatal("node_role is follower but leader_url is not set")
		}
		follower := replication.NewFollower(cfg.LeaderURL, time.Duration(cfg.ReplicationIntervalSeconds)*time.Second, store, indexSvc)
		go follower.Run(shutdownCtx)
	}

	router := newRouter(cfg, libSvc, docSvc, chunkSvc, querySvc, indexSvc, versions, store, embedder)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		ErrorLog:     logger.SetHTTPServerErrorLog(),
	}

	go func() {
		logger.Info("listening on http://localhost:%d", cfg.Port)
		logger.Info("API documentation: http://localhost:%d/swagger/", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("received signal %v, shutting down", sig)
	cancelShutdown()

	if cfg.PersistenceEnabled {
		snapshotter := persistence.NewSnapshotter(cfg.PersistenceDir)
		if err := snapshotter.Save(store.Snapshot()); err != nil {
			logger.Error("final snapshot save failed: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("http server shutdown error: %v", err)
	}
	logger.Info("vectordb shutdown complete")
}

// loadSnapshotAndIndexes loads the on-disk snapshot into store and rebuilds
// each library's index synchronously so the server never serves queries
// against an empty resident index after a restart (spec.md §6.3).
func loadSnapshotAndIndexes(cfg *config.Config, store *memory.Store, indexSvc *services.IndexService) {
	snapshotter := persistence.NewSnapshotter(cfg.PersistenceDir)
	snap, err := snapshotter.Load()
	if err != nil {
		logger.Error("snapshot load failed, starting empty: %v", err)
		return
	}
	store.ReplaceAll(snap)
	for _, lib := range store.Libraries.List() {
		if err := indexSvc.BuildIndex(lib.ID, lib.DefaultIndexType, store.Chunks); err != nil {
			logger.Error("rebuilding index for library %s after load: %v", lib.ID, err)
		}
	}
	logger.Info("loaded snapshot: %d libraries, %d documents, %d chunks", len(snap.Libraries), len(snap.Documents), len(snap.Chunks))
}

func newRouter(
	cfg *config.Config,
	libSvc *services.LibraryService,
	docSvc *services.DocumentService,
	chunkSvc *services.ChunkService,
	querySvc *services.QueryService,
	indexSvc *services.IndexService,
	versions *memory.VersionManager,
	store *memory.Store,
	embedder embedding.Provider,
) *mux.Router {
	return api.NewRouter(api.RouterConfig{
		Libraries:   api.NewLibraryHandler(libSvc),
		Documents:   api.NewDocumentHandler(docSvc),
		Chunks:      api.NewChunkHandler(chunkSvc),
		Query:       api.NewQueryHandler(libSvc, querySvc, embedder),
		Index:       api.NewIndexHandler(libSvc, indexSvc, versions, store.Chunks),
		Replication: api.NewReplicationHandler(store),
		Health:      api.NewHealthHandler(cfg.NodeRole),
		IsFollower:  cfg.IsFollower,
	})
}
