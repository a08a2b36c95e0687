package partition

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/league-pool/internal/champion"
)

func topSet() champion.Set {
	return champion.NewSet([]string{"Garen", "Darius", "Illaoi", "Kayle", "Nasus"})
}

func assertPartitioned(t *testing.T, s *Store) {
	t.Helper()
	seen := map[champion.Candidate]int{}
	for _, group := range [][]champion.Candidate{s.Available(), s.Included(), s.Excluded()} {
		for _, c := range group {
			seen[c]++
		}
	}
	universe := s.Universe()
	require.Len(t, seen, universe.Len(), "union must equal the candidate set")
	for c, n := range seen {
		require.Equal(t, 1, n, "%s appears in %d groups", c, n)
		require.True(t, universe.Contains(c), "%s is not in the candidate set", c)
	}
}

func TestResetMakesEverythingAvailable(t *testing.T) {
	s := New()
	s.Reset(topSet())
	assert.Equal(t, []champion.Candidate{"Darius", "Garen", "Illaoi", "Kayle", "Nasus"}, s.Available())
	assert.Empty(t, s.Included())
	assert.Empty(t, s.Excluded())
	assertPartitioned(t, s)
}

func TestResetDiscardsPriorPartitioning(t *testing.T) {
	s := New()
	s.Reset(topSet())
	require.NoError(t, s.MoveToIncluded("Garen"))
	require.NoError(t, s.MoveToExcluded("Kayle"))
	s.Reset(topSet())
	assert.Empty(t, s.Included())
	assert.Empty(t, s.Excluded())
	assert.Len(t, s.Available(), 5)
}

func TestMovesAndRelease(t *testing.T) {
	s := New()
	s.Reset(topSet())
	require.NoError(t, s.MoveToIncluded("Illaoi"))
	require.NoError(t, s.MoveToIncluded("Garen"))
	require.NoError(t, s.MoveToExcluded("Kayle"))
	assert.Equal(t, []champion.Candidate{"Garen", "Illaoi"}, s.Included())
	assert.Equal(t, []champion.Candidate{"Kayle"}, s.Excluded())
	assert.Equal(t, []champion.Candidate{"Darius", "Nasus"}, s.Available())
	assertPartitioned(t, s)

	require.NoError(t, s.Release("Kayle"))
	assert.Equal(t, []champion.Candidate{"Darius", "Kayle", "Nasus"}, s.Available())
	assertPartitioned(t, s)
}

func TestIncludeReleaseRoundTrip(t *testing.T) {
	s := New()
	s.Reset(topSet())
	before := s.Available()
	require.NoError(t, s.MoveToIncluded("Darius"))
	require.NoError(t, s.Release("Darius"))
	assert.Equal(t, before, s.Available())
}

func TestRejectedTransitions(t *testing.T) {
	s := New()
	s.Reset(topSet())
	require.NoError(t, s.MoveToIncluded("Garen"))

	cases := []struct {
		name  string
		op    func() error
		found Group
	}{
		{"include unknown", func() error { return s.MoveToIncluded("Teemo") }, GroupNone},
		{"exclude included", func() error { return s.MoveToExcluded("Garen") }, GroupIncluded},
		{"include twice", func() error { return s.MoveToIncluded("Garen") }, GroupIncluded},
		{"release available", func() error { return s.Release("Darius") }, GroupAvailable},
		{"release unknown", func() error { return s.Release("Teemo") }, GroupNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.op()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTransition))
			var terr *TransitionError
			require.True(t, errors.As(err, &terr))
			assert.Equal(t, tc.found, terr.Found)
		})
	}
	assert.Equal(t, []champion.Candidate{"Garen"}, s.Included())
	assertPartitioned(t, s)
}

func TestRandomWalkKeepsInvariant(t *testing.T) {
	s := New()
	s.Reset(topSet())
	members := topSet().Members()
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		c := members[rng.Intn(len(members))]
		switch rng.Intn(3) {
		case 0:
			_ = s.MoveToIncluded(c)
		case 1:
			_ = s.MoveToExcluded(c)
		default:
			_ = s.Release(c)
		}
		assertPartitioned(t, s)
	}
}
