package autograd

import "sync"

// registry is the ownership anchor for custom-node callback bundles. The
// engine only holds the callbacks it was handed; the entry here is what keeps
// the node's captured state (the Function, its saved tensors, everything the
// closures reach) alive until the engine signals deletion.
//
// Keys are never reused for the lifetime of the process. The mutex guards
// against deletion callbacks arriving from a different engine thread than the
// one that registered the node.
type registry struct {
	mu      sync.Mutex
	nextKey uint64
	entries map[uint64]any
}

func newRegistry() *registry {
	return &registry{entries: make(map[uint64]any)}
}

// inc allocates the key for a new entry.
func (r *registry) inc() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := r.nextKey
	r.nextKey++
	return key
}

// insert anchors ctx under key.
func (r *registry) insert(key uint64, ctx any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = ctx
}

// remove drops the entry for key. It reports whether the entry existed, so a
// racing double-delete surfaces as a failed removal rather than a fault.
func (r *registry) remove(key uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[key]; !ok {
		return false
	}
	delete(r.entries, key)
	return true
}

// contains reports whether key is anchored.
func (r *registry) contains(key uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[key]
	return ok
}

// size returns the number of anchored entries.
func (r *registry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// funcRegistry anchors every live custom node in the process.
var funcRegistry = newRegistry()
