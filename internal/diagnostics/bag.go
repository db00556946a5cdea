package diagnostics

import (
	"sort"
	"sync"
)

// Bag collects diagnostics from checks that may run concurrently.
type Bag struct {
	mu          sync.Mutex
	diagnostics []*Diagnostic
}

func NewBag() *Bag {
	return &Bag{}
}

// Add adds diagnostics to the bag
func (b *Bag) Add(ds ...*Diagnostic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.diagnostics = append(b.diagnostics, ds...)
}

// HasErrors returns true if there are any diagnostics
func (b *Bag) HasErrors() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.diagnostics) > 0
}

// Len returns the number of diagnostics
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.diagnostics)
}

// CountByKind tallies the collected diagnostics per kind.
func (b *Bag) CountByKind() map[Kind]int {
	b.mu.Lock()
	defer b.mu.Unlock()
	counts := make(map[Kind]int)
	for _, d := range b.diagnostics {
		counts[d.Kind]++
	}
	return counts
}

// SortedKinds returns the kinds present in counts, in declaration order.
func SortedKinds(counts map[Kind]int) []Kind {
	var kinds []Kind
	for k := range counts {
		kinds = append(kinds, k)
	}
	order := make(map[Kind]int, len(Kinds))
	for i, k := range Kinds {
		order[k] = i
	}
	sort.Slice(kinds, func(i, j int) bool { return order[kinds[i]] < order[kinds[j]] })
	return kinds
}
