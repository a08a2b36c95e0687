// Package partition keeps a role's candidate set split into three disjoint
// groups: Available, Included and Excluded. Every candidate of the set is in
// exactly one group at all times.
package partition

import (
	"errors"
	"fmt"

	"github.com/kingrea/league-pool/internal/champion"
)

// Group names one of the three partitions.
type Group int

const (
	GroupNone Group = iota
	GroupAvailable
	GroupIncluded
	GroupExcluded
)

func (g Group) String() string {
	switch g {
	case GroupAvailable:
		return "available"
	case GroupIncluded:
		return "included"
	case GroupExcluded:
		return "excluded"
	default:
		return "none"
	}
}

// ErrInvalidTransition is matched by every rejected move.
var ErrInvalidTransition = errors.New("partition: invalid transition")

// TransitionError describes a move whose precondition did not hold.
type TransitionError struct {
	Candidate champion.Candidate
	Op        string
	Found     Group
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("partition: cannot %s %q: candidate is %s", e.Op, e.Candidate, e.Found)
}

// Is lets errors.Is(err, ErrInvalidTransition) succeed.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// Store owns the partition state for the active role. It is not safe for
// concurrent use; the session drives it from a single goroutine.
type Store struct {
	universe champion.Set
	groups   map[champion.Candidate]Group
	policy   *champion.Policy
}

// New returns an empty store ordered by the default policy.
func New() *Store {
	return &Store{groups: map[champion.Candidate]Group{}, policy: champion.DefaultPolicy}
}

// Reset makes every candidate of set available and empties the other groups.
func (s *Store) Reset(set champion.Set) {
	s.universe = set
	s.groups = make(map[champion.Candidate]Group, set.Len())
	for _, c := range set.Members() {
		s.groups[c] = GroupAvailable
	}
}

// MoveToIncluded moves c from Available to Included.
func (s *Store) MoveToIncluded(c champion.Candidate) error {
	return s.move(c, "include", GroupAvailable, GroupIncluded)
}

// MoveToExcluded moves c from Available to Excluded.
func (s *Store) MoveToExcluded(c champion.Candidate) error {
	return s.move(c, "exclude", GroupAvailable, GroupExcluded)
}

// Release returns c from Included or Excluded to Available. It is the only
// way out of either group.
func (s *Store) Release(c champion.Candidate) error {
	found := s.Where(c)
	if found != GroupIncluded && found != GroupExcluded {
		return &TransitionError{Candidate: c, Op: "release", Found: found}
	}
	s.groups[c] = GroupAvailable
	return nil
}

func (s *Store) move(c champion.Candidate, op string, from, to Group) error {
	found := s.Where(c)
	if found != from {
		return &TransitionError{Candidate: c, Op: op, Found: found}
	}
	s.groups[c] = to
	return nil
}

// Where reports which group holds c, or GroupNone.
func (s *Store) Where(c champion.Candidate) Group {
	if s == nil {
		return GroupNone
	}
	g, ok := s.groups[c]
	if !ok {
		return GroupNone
	}
	return g
}

// Has reports whether c is in group g.
func (s *Store) Has(g Group, c champion.Candidate) bool {
	return s.Where(c) == g
}

// Available returns the available candidates in sort order.
func (s *Store) Available() []champion.Candidate { return s.members(GroupAvailable) }

// Included returns the pool in sort order.
func (s *Store) Included() []champion.Candidate { return s.members(GroupIncluded) }

// Excluded returns the excluded candidates in sort order.
func (s *Store) Excluded() []champion.Candidate { return s.members(GroupExcluded) }

// Universe returns the candidate set the store was last reset with.
func (s *Store) Universe() champion.Set { return s.universe }

func (s *Store) members(g Group) []champion.Candidate {
	out := []champion.Candidate{}
	for c, group := range s.groups {
		if group == g {
			out = append(out, c)
		}
	}
	s.policy.Sort(out)
	return out
}
