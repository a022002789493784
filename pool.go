package findpeaks

import (
	"sync"
	"sync/atomic"
)

// Optional free list for result entries. Query-heavy callers that build and
// tear down many result sets can enable it to recycle entries instead of
// allocating each one; correctness never depends on it. The list is guarded
// by a mutex so separate trees may be queried from separate goroutines.
var (
	poolEnabled atomic.Bool
	poolMu      sync.Mutex
	poolFree    *resultEntry
)

// UsePool enables or disables result-entry pooling. Disabling drops the
// free list. Pooling is off by default.
func UsePool(enable bool) {
	poolMu.Lock()
	defer poolMu.Unlock()
	poolEnabled.Store(enable)
	if !enable {
		poolFree = nil
	}
}

func allocEntry() *resultEntry {
	if !poolEnabled.Load() {
		return &resultEntry{}
	}
	poolMu.Lock()
	defer poolMu.Unlock()
	if poolFree == nil {
		return &resultEntry{}
	}
	e := poolFree
	poolFree = e.next
	e.next = nil
	return e
}

func freeEntry(e *resultEntry) {
	if !poolEnabled.Load() {
		return
	}
	e.node = nil
	e.distSq = 0
	poolMu.Lock()
	defer poolMu.Unlock()
	e.next = poolFree
	poolFree = e
}
