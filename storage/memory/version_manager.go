package memory

import (
	"sync"

	"github.com/aviral1303/vectordb/models"
)

// VersionManager tracks the (data_version, index_version) pair for every
// library under one internal mutex (spec.md §4.3). First access for an
// unknown library initializes it to models.NewVersionInfo().
type VersionManager struct {
	mu       sync.Mutex
	versions map[string]models.VersionInfo
}

// NewVersionManager creates an empty version manager.
func NewVersionManager() *VersionManager {
	return &VersionManager{versions: make(map[string]models.VersionInfo)}
}

// Get returns the current version pair for libraryID, initializing it if
// this is the first access.
func (m *VersionManager) Get(libraryID string) models.VersionInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getLocked(libraryID)
}

func (m *VersionManager) getLocked(libraryID string) models.VersionInfo {
	v, ok := m.versions[libraryID]
	if !ok {
		v = models.NewVersionInfo()
		m.versions[libraryID] = v
	}
	return v
}

// BumpData increments data_version and returns the new version pair.
func (m *VersionManager) BumpData(libraryID string) models.VersionInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.getLocked(libraryID)
	v.DataVersion++
	m.versions[libraryID] = v
	return v
}

// SetIndexVersion sets index_version explicitly, typically to the
// data_version observed at the moment an index build or incremental patch
// completed.
func (m *VersionManager) SetIndexVersion(libraryID string, version int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.getLocked(libraryID)
	v.IndexVersion = version
	m.versions[libraryID] = v
}

// IsStale reports whether index_version != data_version for libraryID.
func (m *VersionManager) IsStale(libraryID string) bool {
	return m.Get(libraryID).Stale()
}
