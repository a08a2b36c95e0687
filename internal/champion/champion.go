// Package champion defines the identifiers the picker works with and the
// ordering every displayed list follows.
package champion

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Role selects which candidate set is relevant. NoRole disables everything
// downstream of the role picker.
type Role string

// Candidate is one selectable champion within a role's candidate set.
type Candidate string

const (
	// NoRole is the "Select a Role" placeholder.
	NoRole Role = ""
	// NoSelection is the "Select a Champion" placeholder shown first in each picker.
	NoSelection Candidate = ""
)

// IsSentinel reports whether c is the picker placeholder.
func (c Candidate) IsSentinel() bool { return c == NoSelection }

// IsSentinel reports whether r is the role placeholder.
func (r Role) IsSentinel() bool { return strings.TrimSpace(string(r)) == "" }

func (c Candidate) String() string { return string(c) }

func (r Role) String() string { return string(r) }

// Policy orders candidate labels: the placeholder first, then by
// locale-sensitive collation of the display text. Collators keep internal
// buffers, so comparisons are serialized.
type Policy struct {
	mu       sync.Mutex
	collator *collate.Collator
}

// NewPolicy returns a policy collating with the given locale.
func NewPolicy(tag language.Tag) *Policy {
	return &Policy{collator: collate.New(tag)}
}

// DefaultPolicy collates in English, which matches a browser's default localeCompare.
var DefaultPolicy = NewPolicy(language.English)

// Compare returns -1, 0 or +1. Labels that collate equal fall back to byte
// order so the ordering stays total.
func (p *Policy) Compare(a, b Candidate) int {
	if a == b {
		return 0
	}
	if a.IsSentinel() {
		return -1
	}
	if b.IsSentinel() {
		return 1
	}
	p.mu.Lock()
	res := p.collator.CompareString(string(a), string(b))
	p.mu.Unlock()
	if res != 0 {
		return res
	}
	return strings.Compare(string(a), string(b))
}

// Less reports whether a sorts before b.
func (p *Policy) Less(a, b Candidate) bool {
	return p.Compare(a, b) < 0
}

// Sort orders values in place.
func (p *Policy) Sort(values []Candidate) {
	sort.SliceStable(values, func(i, j int) bool {
		return p.Less(values[i], values[j])
	})
}

// Sorted returns an ordered copy of values.
func (p *Policy) Sorted(values []Candidate) []Candidate {
	out := make([]Candidate, len(values))
	copy(out, values)
	p.Sort(out)
	return out
}

// Sort orders values with DefaultPolicy.
func Sort(values []Candidate) { DefaultPolicy.Sort(values) }

// Sorted returns a copy of values ordered by DefaultPolicy.
func Sorted(values []Candidate) []Candidate { return DefaultPolicy.Sorted(values) }

// Less compares with DefaultPolicy.
func Less(a, b Candidate) bool { return DefaultPolicy.Less(a, b) }

// Set is an immutable, ordered, duplicate-free candidate set.
type Set struct {
	members []Candidate
	index   map[Candidate]struct{}
}

// NewSet builds a Set from raw labels. Blank labels and duplicates are dropped.
func NewSet(labels []string) Set {
	members := make([]Candidate, 0, len(labels))
	index := make(map[Candidate]struct{}, len(labels))
	for _, label := range labels {
		c := Candidate(strings.TrimSpace(label))
		if c.IsSentinel() {
			continue
		}
		if _, ok := index[c]; ok {
			continue
		}
		index[c] = struct{}{}
		members = append(members, c)
	}
	Sort(members)
	return Set{members: members, index: index}
}

// Members returns the set in sorted order. The slice is a copy.
func (s Set) Members() []Candidate {
	out := make([]Candidate, len(s.members))
	copy(out, s.members)
	return out
}

// Contains reports membership.
func (s Set) Contains(c Candidate) bool {
	_, ok := s.index[c]
	return ok
}

// Len returns the number of members.
func (s Set) Len() int { return len(s.members) }

// Strings returns the members as plain strings in sorted order.
func (s Set) Strings() []string {
	out := make([]string, len(s.members))
	for i, c := range s.members {
		out[i] = string(c)
	}
	return out
}

// Equal reports whether both sets hold the same members.
func (s Set) Equal(other Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, c := range s.members {
		if !other.Contains(c) {
			return false
		}
	}
	return true
}

// FromStrings converts labels into candidates without sorting.
func FromStrings(labels []string) []Candidate {
	out := make([]Candidate, 0, len(labels))
	for _, label := range labels {
		out = append(out, Candidate(label))
	}
	return out
}

// Strings converts candidates into plain labels.
func Strings(values []Candidate) []string {
	out := make([]string, len(values))
	for i, c := range values {
		out[i] = string(c)
	}
	return out
}
