package naming

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

const (
	defaultHashLength   = 8
	defaultCounterWidth = 4
)

// Options tunes the rendered width of hash and counter based names.
type Options struct {
	HashLength   int
	CounterWidth int
}

func (o Options) hashLength() int {
	if o.HashLength <= 0 {
		return defaultHashLength
	}
	return o.HashLength
}

func (o Options) counterWidth() int {
	if o.CounterWidth <= 0 {
		return defaultCounterWidth
	}
	return o.CounterWidth
}

// GroupKey identifies a destination sub-folder.
type GroupKey string

func (k GroupKey) String() string { return string(k) }

// CanonicalSubdir returns the slash-separated, cleaned form of a path relative
// to the source root. The root itself is ".".
func CanonicalSubdir(rel string) string {
	rel = strings.TrimSpace(rel)
	if rel == "" {
		return "."
	}
	return filepath.ToSlash(filepath.Clean(rel))
}

// Grouper hands out one GroupKey per source sub-directory for the lifetime of
// a run. It is safe for concurrent use.
type Grouper struct {
	mu    sync.Mutex
	style GroupStyle
	opts  Options
	keys  map[string]GroupKey
	order []string
	next  int
}

// NewGrouper constructs a run-scoped grouper.
func NewGrouper(style GroupStyle, opts Options) *Grouper {
	return &Grouper{
		style: style,
		opts:  opts,
		keys:  make(map[string]GroupKey),
		next:  1,
	}
}

// GroupFor returns the key for subdir, assigning one on first sight.
func (g *Grouper) GroupFor(subdir string) GroupKey {
	canonical := CanonicalSubdir(subdir)

	g.mu.Lock()
	defer g.mu.Unlock()

	if key, ok := g.keys[canonical]; ok {
		return key
	}
	var key GroupKey
	switch g.style {
	case GroupIncremental:
		key = GroupKey(fmt.Sprintf("%0*d", g.opts.counterWidth(), g.next))
		g.next++
	default:
		key = GroupKey(shortPathHash(canonical, g.opts.hashLength()))
	}
	g.keys[canonical] = key
	g.order = append(g.order, canonical)
	return key
}

// Assigned returns the sub-directories seen so far in order of first sight.
func (g *Grouper) Assigned() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

func shortPathHash(canonical string, n int) string {
	sum := sha256.Sum256([]byte(canonical))
	full := hex.EncodeToString(sum[:])
	if n >= len(full) {
		return full
	}
	return full[:n]
}
