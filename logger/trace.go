package logger

import (
	"runtime"
	"strings"
	"sync/atomic"
)

// tracingEnabled gates LogLockOperation so the stack-walk it does on every
// call costs nothing unless an operator has explicitly turned it on, the
// same gate the teacher used for its HTTP/goroutine tracing.
var tracingEnabled atomic.Bool

// EnableTracing turns per-library lock acquisition/release logging on or
// off at runtime.
func EnableTracing(enabled bool) {
	tracingEnabled.Store(enabled)
	if enabled {
		Info("lock operation tracing enabled")
	} else {
		Info("lock operation tracing disabled")
	}
}

// IsTracingEnabled reports whether lock operation tracing is on.
func IsTracingEnabled() bool {
	return tracingEnabled.Load()
}

// LogLockOperation logs a single acquire/release against one of this
// repo's per-library RWLocks, for diagnosing lock contention or deadlocks
// across the storage/memory.LockRegistry. Called from RWLock itself; see
// storage/memory/rwlock.go.
func LogLockOperation(lockType, lockName, operation string) {
	if !IsTracingEnabled() {
		return
	}

	goroutineID := getGoroutineID()

	buf := make([]byte, 1024)
	n := runtime.Stack(buf, false)
	stack := string(buf[:n])

	frames := strings.Split(stack, "\n")
	caller := "unknown"
	if len(frames) > 5 {
		for i := 4; i < len(frames); i += 2 {
			if !strings.Contains(frames[i], "logger.LogLockOperation") &&
				!strings.Contains(frames[i], "runtime.") {
				caller = strings.TrimSpace(frames[i])
				break
			}
		}
	}

	Trace("[LOCK_%s] Type=%s Name=%s Goroutine=%d Caller=%s",
		strings.ToUpper(operation), lockType, lockName, goroutineID, caller)
}
