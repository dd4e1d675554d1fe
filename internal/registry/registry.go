package registry

import (
	"sync"

	"yee/internal/fingerprint"
)

// Kind distinguishes first sightings from repeats.
type Kind int

const (
	Original Kind = iota
	Duplicate
)

func (k Kind) String() string {
	switch k {
	case Original:
		return "original"
	case Duplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// Classification is the outcome of Classify.
type Classification struct {
	Kind Kind
	// OriginalPath is the first-seen path for the fingerprint. For an
	// Original it equals the classified path.
	OriginalPath string
}

// Registry maps fingerprints to the first path observed with them.
type Registry struct {
	mu    sync.Mutex
	first map[fingerprint.Fingerprint]string
}

// New returns an empty run-scoped registry.
func New() *Registry {
	return &Registry{first: make(map[fingerprint.Fingerprint]string)}
}

// Classify records path as the owner of fp on first sight and reports
// Duplicate for every later path with the same fingerprint.
func (r *Registry) Classify(fp fingerprint.Fingerprint, path string) Classification {
	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, ok := r.first[fp]; ok {
		return Classification{Kind: Duplicate, OriginalPath: owner}
	}
	r.first[fp] = path
	return Classification{Kind: Original, OriginalPath: path}
}

// Len returns the number of distinct fingerprints seen.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.first)
}
