// Package replication implements the follower side of spec.md §6.4's
// leader/follower protocol: whole-snapshot polling, no delta protocol.
package replication

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aviral1303/vectordb/logger"
	"github.com/aviral1303/vectordb/models"
	"github.com/aviral1303/vectordb/storage/memory"
)

// IndexRebuilder is the subset of the index service the follower needs:
// a synchronous rebuild per library after every snapshot swap.
type IndexRebuilder interface {
	BuildIndex(libraryID string, t models.IndexType, chunks interface {
		ListByLibrary(libraryID string) []*models.Chunk
	}) error
}

// Follower periodically polls a leader's snapshot endpoint, replaces this
// node's repositories wholesale, then rebuilds every library's index
// synchronously using its default_index_type (spec.md §6.4).
type Follower struct {
	LeaderURL string
	Interval  time.Duration
	Store     *memory.Store
	Index     IndexRebuilder
	Client    *http.Client
}

// NewFollower creates a Follower polling leaderURL every interval.
func NewFollower(leaderURL string, interval time.Duration, store *memory.Store, index IndexRebuilder) *Follower {
	return &Follower{
		LeaderURL: leaderURL,
		Interval:  interval,
		Store:     store,
		Index:     index,
		Client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Run polls on a ticker until ctx is canceled. Poll errors are logged and
// retried next tick; they are never fatal (spec.md §7 "Transient
// external").
func (f *Follower) Run(ctx context.Context) {
	ticker := time.NewTicker(f.Interval)
	defer ticker.Stop()
	f.pollOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.pollOnce(ctx)
		}
	}
}

func (f *Follower) pollOnce(ctx context.Context) {
	snap, err := f.fetchSnapshot(ctx)
	if err != nil {
		logger.Warn("replication poll failed: %v", err)
		return
	}
	f.Store.ReplaceAll(snap)
	logger.TraceIf("replication", "snapshot applied: %d libraries, %d documents, %d chunks",
		len(snap.Libraries), len(snap.Documents), len(snap.Chunks))

	for _, lib := range snap.Libraries {
		if err := f.Index.BuildIndex(lib.ID, lib.DefaultIndexType, f.Store.Chunks); err != nil {
			logger.Error("replication index rebuild failed for library %s: %v", lib.ID, err)
		}
	}
}

func (f *Follower) fetchSnapshot(ctx context.Context) (*models.Snapshot, error) {
	url := f.LeaderURL + "/api/v1/replication/snapshot"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building snapshot request: %w", err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching leader snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("leader returned status %d", resp.StatusCode)
	}
	var snap models.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding leader snapshot: %w", err)
	}
	return &snap, nil
}
