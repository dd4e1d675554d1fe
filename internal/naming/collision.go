package naming

import (
	"fmt"
	"path/filepath"
	"sync"
)

// CollisionResolver tracks destination paths claimed by source files and
// resolves clashes by appending "_N" before the extension. All methods are
// goroutine-safe.
type CollisionResolver struct {
	mu       sync.Mutex
	owners   map[string]string // destination path → source path that owns it
	counters map[string]int    // requested destination → next suffix
}

// NewCollisionResolver creates a ready-to-use resolver.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{
		owners:   make(map[string]string),
		counters: make(map[string]int),
	}
}

// Resolve returns the final destination for source. If requested is unclaimed
// (or already owned by source) it is returned unchanged and collided is false.
func (cr *CollisionResolver) Resolve(source, requested string) (resolved string, collided bool) {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	owner, exists := cr.owners[requested]
	if !exists || owner == source {
		cr.owners[requested] = source
		return requested, false
	}

	dir := filepath.Dir(requested)
	stem, ext := SplitName(filepath.Base(requested))

	counter := cr.counters[requested]
	if counter == 0 {
		counter = 1
	}

	for {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
		cOwner, cExists := cr.owners[candidate]
		if !cExists || cOwner == source {
			cr.counters[requested] = counter + 1
			cr.owners[candidate] = source
			return candidate, true
		}
		counter++
	}
}

// Claimed reports how many destination paths have been handed out.
func (cr *CollisionResolver) Claimed() int {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return len(cr.owners)
}
