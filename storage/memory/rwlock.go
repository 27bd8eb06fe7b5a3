// Package memory provides the in-memory concurrency and storage primitives
// of the vector database core: the per-library reader/writer lock, the
// lock registry, the version manager, and the library/document/chunk
// repositories. It is modeled on the teacher's storage/binary package
// (entity-level sync.RWMutex locking, a short-lived mutex guarding lazy
// lock allocation) generalized from per-entity locks to per-library locks.
package memory

import (
	"sync"

	"github.com/aviral1303/vectordb/logger"
)

// RWLock is a writer-preferring reader/writer lock for a single library.
// Go's sync.RWMutex already gives writer preference: once a Lock() call is
// blocked waiting for readers to drain, subsequent RLock() calls block
// behind it, so new readers cannot starve a waiting writer (see the
// sync.RWMutex doc comment). RWLock exists as a thin, named wrapper so
// call sites read in terms of the domain ("library write lock") rather
// than a bare mutex, and so scoped helpers guarantee release on every
// exit path.
//
// No reentrancy is supported: acquiring the write side while already
// holding the read or write side on the same goroutine blocks forever
// rather than returning an error, since sync.RWMutex has no owner
// tracking to detect that case.
type RWLock struct {
	mu   sync.RWMutex
	name string
}

// RLock acquires the read side.
func (l *RWLock) RLock() {
	l.mu.RLock()
	logger.LogLockOperation("read", l.name, "acquire")
}

// RUnlock releases the read side.
func (l *RWLock) RUnlock() {
	logger.LogLockOperation("read", l.name, "release")
	l.mu.RUnlock()
}

// Lock acquires the write side, exclusive of all readers and writers.
func (l *RWLock) Lock() {
	l.mu.Lock()
	logger.LogLockOperation("write", l.name, "acquire")
}

// Unlock releases the write side.
func (l *RWLock) Unlock() {
	logger.LogLockOperation("write", l.name, "release")
	l.mu.Unlock()
}

// WithRLock runs fn while holding the read side, releasing it on every
// exit path including a panic inside fn.
func (l *RWLock) WithRLock(fn func()) {
	l.RLock()
	defer l.RUnlock()
	fn()
}

// WithLock runs fn while holding the write side, releasing it on every
// exit path including a panic inside fn.
func (l *RWLock) WithLock(fn func()) {
	l.Lock()
	defer l.Unlock()
	fn()
}
