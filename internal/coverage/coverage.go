// Package coverage recommends champion pools by counter coverage: a pool is
// complete when, between them, its champions counter every champion of the
// role. Recommendations are the smallest sets of additions that complete the
// user's current pool.
package coverage

import (
	"strings"

	"github.com/kingrea/league-pool/internal/champion"
	"github.com/kingrea/league-pool/internal/dataset"
)

const (
	// PoolSeparator joins the champions of one suggested pool.
	PoolSeparator = " + "

	defaultMaxPoolSize    = 4
	defaultMaxSuggestions = 10
)

// Options bounds the search.
type Options struct {
	// MaxPoolSize is the largest number of additions considered.
	MaxPoolSize int
	// MaxSuggestions caps how many pools are returned.
	MaxSuggestions int
}

func (o Options) normalized() Options {
	if o.MaxPoolSize <= 0 {
		o.MaxPoolSize = defaultMaxPoolSize
	}
	if o.MaxSuggestions <= 0 {
		o.MaxSuggestions = defaultMaxSuggestions
	}
	return o
}

// Recommend returns the minimal sets of champions that, added to current,
// counter every champion of the role. Excluded champions are never
// suggested. When current already covers the role the single suggestion is
// current itself. No cover within MaxPoolSize yields an empty list.
func Recommend(rd dataset.RoleData, current, excluded []string, opts Options) []string {
	opts = opts.normalized()
	idx := newIndex(rd)
	if idx.size == 0 {
		return []string{}
	}

	inPool := map[string]struct{}{}
	covered := idx.empty()
	for _, name := range current {
		if pos, ok := idx.pos[name]; ok {
			inPool[name] = struct{}{}
			covered.or(idx.beats[pos])
		}
	}
	full := idx.full()
	if covered.equal(full) {
		return []string{joinPool(keys(inPool))}
	}

	skip := map[string]struct{}{}
	for _, name := range excluded {
		skip[name] = struct{}{}
	}
	var candidates []int
	for _, name := range idx.sortedNames() {
		if _, ok := inPool[name]; ok {
			continue
		}
		if _, ok := skip[name]; ok {
			continue
		}
		candidates = append(candidates, idx.pos[name])
	}

	maxSize := opts.MaxPoolSize
	if maxSize > len(candidates) {
		maxSize = len(candidates)
	}
	for n := 1; n <= maxSize; n++ {
		var found []string
		combo := make([]int, n)
		forEachCombination(len(candidates), n, combo, func(choice []int) bool {
			acc := covered.clone()
			for _, ci := range choice {
				acc.or(idx.beats[candidates[ci]])
			}
			if !acc.equal(full) {
				return true
			}
			names := make([]string, n)
			for i, ci := range choice {
				names[i] = idx.names[candidates[ci]]
			}
			found = append(found, joinPool(names))
			return len(found) < opts.MaxSuggestions
		})
		if len(found) > 0 {
			return found
		}
	}
	return []string{}
}

// forEachCombination visits the k-combinations of 0..n-1 in lexicographic
// order until visit returns false.
func forEachCombination(n, k int, combo []int, visit func([]int) bool) {
	for i := range combo {
		combo[i] = i
	}
	for {
		if !visit(combo) {
			return
		}
		i := k - 1
		for i >= 0 && combo[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		combo[i]++
		for j := i + 1; j < k; j++ {
			combo[j] = combo[j-1] + 1
		}
	}
}

func joinPool(names []string) string {
	sorted := champion.Sorted(champion.FromStrings(names))
	return strings.Join(champion.Strings(sorted), PoolSeparator)
}

func keys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

type index struct {
	size  int
	names []string
	pos   map[string]int
	beats []bitset
}

func newIndex(rd dataset.RoleData) *index {
	idx := &index{pos: map[string]int{}}
	for _, name := range rd.Champions {
		if _, ok := idx.pos[name]; ok {
			continue
		}
		idx.pos[name] = len(idx.names)
		idx.names = append(idx.names, name)
	}
	idx.size = len(idx.names)
	idx.beats = make([]bitset, idx.size)
	for i, name := range idx.names {
		set := idx.empty()
		for _, victim := range rd.Counters[name] {
			if p, ok := idx.pos[victim]; ok {
				set.set(p)
			}
		}
		idx.beats[i] = set
	}
	return idx
}

func (idx *index) empty() bitset {
	return make(bitset, (idx.size+63)/64)
}

func (idx *index) full() bitset {
	b := idx.empty()
	for i := 0; i < idx.size; i++ {
		b.set(i)
	}
	return b
}

func (idx *index) sortedNames() []string {
	return champion.Strings(champion.Sorted(champion.FromStrings(idx.names)))
}

type bitset []uint64

func (b bitset) set(i int) { b[i/64] |= 1 << (uint(i) % 64) }

func (b bitset) or(other bitset) {
	for i := range b {
		b[i] |= other[i]
	}
}

func (b bitset) equal(other bitset) bool {
	for i := range b {
		if b[i] != other[i] {
			return false
		}
	}
	return true
}

func (b bitset) clone() bitset {
	out := make(bitset, len(b))
	copy(out, b)
	return out
}
