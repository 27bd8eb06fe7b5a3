// Package config provides centralized configuration management for vectordb.
//
// This package implements a two-tier configuration hierarchy:
//  1. An optional YAML config file (lowest priority, applied first)
//  2. Environment variables (highest priority, override the file)
//
// All configuration values have sensible defaults and can be overridden
// through the config file or environment variables.
package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/aviral1303/vectordb/models"
)

// Config holds all configuration values for vectordb (spec.md §6.2).
type Config struct {
	// HTTP Server Configuration
	// =========================

	// Port is the HTTP server listening port.
	// Environment: VECTORDB_PORT
	// Default: 8080
	Port int `yaml:"port"`

	// HTTPReadTimeout is the maximum duration for reading the entire request.
	// Environment: VECTORDB_HTTP_READ_TIMEOUT (seconds)
	HTTPReadTimeout time.Duration `yaml:"-"`

	// HTTPWriteTimeout is the maximum duration before timing out writes.
	// Environment: VECTORDB_HTTP_WRITE_TIMEOUT (seconds)
	HTTPWriteTimeout time.Duration `yaml:"-"`

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Environment: VECTORDB_SHUTDOWN_TIMEOUT (seconds)
	ShutdownTimeout time.Duration `yaml:"-"`

	// Index Configuration
	// ====================

	// DefaultIndexType is loaded from file and environment (spec.md §6.2).
	// Library creation does not consult it: a create request must name its
	// own default_index_type, and one without it fails validation.
	// Environment: VECTORDB_DEFAULT_INDEX_TYPE
	// Default: brute_force
	DefaultIndexType models.IndexType `yaml:"default_index_type"`

	// AllowStaleIndex controls whether the query service serves from a
	// stale resident index while a rebuild runs in the background, or
	// falls back to a transient brute-force index over current data
	// (spec.md §4.8).
	// Environment: VECTORDB_ALLOW_STALE_INDEX
	// Default: true
	AllowStaleIndex bool `yaml:"allow_stale_index"`

	// MaxEmbeddingDimension is the upper bound on a library's
	// embedding_dimension, validated at library creation (spec.md §6.2).
	// Environment: VECTORDB_MAX_EMBEDDING_DIMENSION
	// Default: 4096
	MaxEmbeddingDimension int `yaml:"max_embedding_dimension"`

	// MaxConcurrentIndexBuilds caps the global background build worker
	// pool (spec.md §6.2); the per-library cap of 1 concurrent build is
	// enforced separately by the index service's building flag.
	// Environment: VECTORDB_MAX_CONCURRENT_INDEX_BUILDS
	// Default: 2
	MaxConcurrentIndexBuilds int `yaml:"max_concurrent_index_builds"`

	// Embedding Provider Configuration
	// =================================

	// EmbeddingProviderURL is the base URL of the remote embedding
	// service. Empty disables the remote provider, serving every request
	// from the deterministic local hash fallback.
	// Environment: VECTORDB_EMBEDDING_PROVIDER_URL
	EmbeddingProviderURL string `yaml:"embedding_provider_url"`

	// EmbeddingProviderAPIKey authenticates requests to the remote
	// embedding service.
	// Environment: VECTORDB_EMBEDDING_PROVIDER_API_KEY
	EmbeddingProviderAPIKey string `yaml:"-"`

	// EmbeddingModel names the model passed to the remote embedding
	// service.
	// Environment: VECTORDB_EMBEDDING_MODEL
	EmbeddingModel string `yaml:"embedding_model"`

	// Persistence Configuration
	// ==========================

	// PersistenceEnabled controls whether a JSON snapshot is loaded at
	// startup and saved on shutdown/interval (spec.md §6.3).
	// Environment: VECTORDB_PERSISTENCE_ENABLED
	PersistenceEnabled bool `yaml:"persistence_enabled"`

	// PersistenceDir is the directory holding libraries.json,
	// documents.json, and chunks.json.
	// Environment: VECTORDB_PERSISTENCE_DIR
	// Default: "./var"
	PersistenceDir string `yaml:"persistence_dir"`

	// PersistenceIntervalSeconds is the period between autosaves while
	// the server is running. 0 disables periodic autosave (shutdown save
	// still runs).
	// Environment: VECTORDB_PERSISTENCE_INTERVAL_SECONDS
	PersistenceIntervalSeconds int `yaml:"persistence_interval_seconds"`

	// Replication Configuration
	// ==========================

	// NodeRole is either "leader" or "follower" (spec.md §6.4).
	// Environment: VECTORDB_NODE_ROLE
	// Default: leader
	NodeRole string `yaml:"node_role"`

	// LeaderURL is the base URL a follower polls for snapshots. Required
	// when NodeRole is "follower".
	// Environment: VECTORDB_LEADER_URL
	LeaderURL string `yaml:"leader_url"`

	// ReplicationIntervalSeconds is the follower's poll period.
	// Environment: VECTORDB_REPLICATION_INTERVAL_SECONDS
	// Default: 10
	ReplicationIntervalSeconds int `yaml:"replication_interval_seconds"`

	// Logging Configuration
	// =====================

	// LogLevel sets the minimum log level for message output.
	// Environment: VECTORDB_LOG_LEVEL
	// Default: "info"
	LogLevel string `yaml:"log_level"`
}

// fileOverlay mirrors the subset of Config fields that accept plain
// integer-seconds durations in the YAML file; it is decoded separately and
// merged into Config so Config itself can keep its natural time.Duration
// fields.
type fileOverlay struct {
	Config               `yaml:",inline"`
	HTTPReadTimeoutSecs  int `yaml:"http_read_timeout_seconds"`
	HTTPWriteTimeoutSecs int `yaml:"http_write_timeout_seconds"`
	ShutdownTimeoutSecs  int `yaml:"shutdown_timeout_seconds"`
}

// Load builds a Config starting from defaults, applying an optional YAML
// file overlay at configPath (ignored if empty or unreadable), and finally
// applying environment variable overrides. Environment variables use the
// VECTORDB_ prefix.
func Load(configPath string) *Config {
	cfg := defaults()

	if configPath != "" {
		applyFile(cfg, configPath)
	}

	cfg.Port = getEnvInt("VECTORDB_PORT", cfg.Port)
	cfg.HTTPReadTimeout = getEnvDuration("VECTORDB_HTTP_READ_TIMEOUT", cfg.HTTPReadTimeout)
	cfg.HTTPWriteTimeout = getEnvDuration("VECTORDB_HTTP_WRITE_TIMEOUT", cfg.HTTPWriteTimeout)
	cfg.ShutdownTimeout = getEnvDuration("VECTORDB_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)

	cfg.DefaultIndexType = models.IndexType(getEnv("VECTORDB_DEFAULT_INDEX_TYPE", string(cfg.DefaultIndexType)))
	cfg.AllowStaleIndex = getEnvBool("VECTORDB_ALLOW_STALE_INDEX", cfg.AllowStaleIndex)
	cfg.MaxEmbeddingDimension = getEnvInt("VECTORDB_MAX_EMBEDDING_DIMENSION", cfg.MaxEmbeddingDimension)
	cfg.MaxConcurrentIndexBuilds = getEnvInt("VECTORDB_MAX_CONCURRENT_INDEX_BUILDS", cfg.MaxConcurrentIndexBuilds)

	cfg.EmbeddingProviderURL = getEnv("VECTORDB_EMBEDDING_PROVIDER_URL", cfg.EmbeddingProviderURL)
	cfg.EmbeddingProviderAPIKey = getEnv("VECTORDB_EMBEDDING_PROVIDER_API_KEY", cfg.EmbeddingProviderAPIKey)
	cfg.EmbeddingModel = getEnv("VECTORDB_EMBEDDING_MODEL", cfg.EmbeddingModel)

	cfg.PersistenceEnabled = getEnvBool("VECTORDB_PERSISTENCE_ENABLED", cfg.PersistenceEnabled)
	cfg.PersistenceDir = getEnv("VECTORDB_PERSISTENCE_DIR", cfg.PersistenceDir)
	cfg.PersistenceIntervalSeconds = getEnvInt("VECTORDB_PERSISTENCE_INTERVAL_SECONDS", cfg.PersistenceIntervalSeconds)

	cfg.NodeRole = getEnv("VECTORDB_NODE_ROLE", cfg.NodeRole)
	cfg.LeaderURL = getEnv("VECTORDB_LEADER_URL", cfg.LeaderURL)
	cfg.ReplicationIntervalSeconds = getEnvInt("VECTORDB_REPLICATION_INTERVAL_SECONDS", cfg.ReplicationIntervalSeconds)

	cfg.LogLevel = getEnv("VECTORDB_LOG_LEVEL", cfg.LogLevel)

	return cfg
}

func defaults() *Config {
	return &Config{
		Port:                       8080,
		HTTPReadTimeout:            15 * time.Second,
		HTTPWriteTimeout:           15 * time.Second,
		ShutdownTimeout:            30 * time.Second,
		DefaultIndexType:           models.IndexBruteForce,
		AllowStaleIndex:            true,
		MaxEmbeddingDimension:      models.MaxEmbeddingDimensionCeiling,
		MaxConcurrentIndexBuilds:   2,
		PersistenceDir:             "./var",
		PersistenceIntervalSeconds: 0,
		NodeRole:                   "leader",
		ReplicationIntervalSeconds: 10,
		LogLevel:                   "info",
	}
}

// applyFile overlays YAML file values onto cfg in place. A missing or
// unreadable file is not an error: the config file tier is optional.
func applyFile(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	overlay := fileOverlay{
		Config:               *cfg,
		HTTPReadTimeoutSecs:  int(cfg.HTTPReadTimeout / time.Second),
		HTTPWriteTimeoutSecs: int(cfg.HTTPWriteTimeout / time.Second),
		ShutdownTimeoutSecs:  int(cfg.ShutdownTimeout / time.Second),
	}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return
	}
	*cfg = overlay.Config
	if overlay.HTTPReadTimeoutSecs > 0 {
		cfg.HTTPReadTimeout = time.Duration(overlay.HTTPReadTimeoutSecs) * time.Second
	}
	if overlay.HTTPWriteTimeoutSecs > 0 {
		cfg.HTTPWriteTimeout = time.Duration(overlay.HTTPWriteTimeoutSecs) * time.Second
	}
	if overlay.ShutdownTimeoutSecs > 0 {
		cfg.ShutdownTimeout = time.Duration(overlay.ShutdownTimeoutSecs) * time.Second
	}
}

// IsFollower reports whether this node is configured as a replication
// follower (spec.md §6.4).
func (c *Config) IsFollower() bool {
	return c.NodeRole == "follower"
}

// getEnv retrieves a string environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable with a default fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable with a default fallback.
// Accepts "true"/"1" for true; any other non-empty value is false, and an
// unset or empty variable yields the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable, expressed in
// seconds, with a default fallback.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return time.Duration(intValue) * time.Second
		}
	}
	return defaultValue
}
