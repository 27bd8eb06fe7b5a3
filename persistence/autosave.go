package persistence

import (
	"context"
	"time"

	"github.com/aviral1303/vectordb/logger"
	"github.com/aviral1303/vectordb/models"
)

// SnapshotSource produces the current state to persist. main wires this to
// memory.Store, whose Snapshot lists the three repositories.
type SnapshotSource interface {
	Snapshot() *models.Snapshot
}

// Autosaver periodically saves a snapshot on a ticker until its context is
// canceled, at which point it saves once more before returning (spec.md
// §4.10: "saves one on graceful shutdown and on a periodic ticker").
type Autosaver struct {
	snapshotter *Snapshotter
	source      SnapshotSource
	interval    time.Duration
}

// NewAutosaver creates an Autosaver. A non-positive interval disables
// periodic saves; Run still performs the final shutdown save.
func NewAutosaver(snapshotter *Snapshotter, source SnapshotSource, interval time.Duration) *Autosaver {
	return &Autosaver{snapshotter: snapshotter, source: source, interval: interval}
}

// Run blocks until ctx is canceled, saving periodically and once more on
// exit.
func (a *Autosaver) Run(ctx context.Context) {
	defer a.saveOnce("shutdown")

	if a.interval <= 0 {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.saveOnce("periodic")
		}
	}
}

func (a *Autosaver) saveOnce(reason string) {
	if err := a.snapshotter.Save(a.source.Snapshot()); err != nil {
		logger.Error("%s snapshot save failed: %v", reason, err)
		return
	}
	logger.Info("%s snapshot save complete", reason)
}
