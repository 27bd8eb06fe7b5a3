package models

// VersionInfo tracks the data/index version pair for one library. An index
// is fresh iff IndexVersion == DataVersion (spec.md §3 VersionInfo).
type VersionInfo struct {
	DataVersion  int64
	IndexVersion int64
}

// NewVersionInfo returns the initial version pair for a library that has
// never been mutated or indexed: data_version=0, index_version=-1 ("no
// index built").
func NewVersionInfo() VersionInfo {
	return VersionInfo{DataVersion: 0, IndexVersion: -1}
}

// Stale reports whether the index lags the data.
func (v VersionInfo) Stale() bool {
	return v.IndexVersion != v.DataVersion
}
