package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs generates predictable identifiers for tests: prefix-0001,
// prefix-0002, ...
//
// Used in place of random UUIDs so journal entries and request ids can be
// compared against fixed expectations.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	seq    int64
}

// NewSequentialIDs creates a generator. If prefix is empty, "test" is used.
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "test"
	}
	return &SequentialIDs{prefix: prefix}
}

// New returns the next identifier.
func (g *SequentialIDs) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%04d", g.prefix, g.seq)
}

// Reset restarts the sequence. The next call to New returns prefix-0001.
func (g *SequentialIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
