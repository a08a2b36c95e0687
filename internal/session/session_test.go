package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/league-pool/internal/champion"
	"github.com/kingrea/league-pool/internal/partition"
	"github.com/kingrea/league-pool/internal/poolclient"
	"github.com/kingrea/league-pool/internal/poolquery"
	"github.com/kingrea/league-pool/internal/rolecache"
)

type fakeService struct {
	roles     map[champion.Role][]string
	fetches   atomic.Int32
	fetchErr  error
	pools     [][]string
	queries   []poolquery.Params
	recommend error
}

func (f *fakeService) Candidates(_ context.Context, role champion.Role) ([]string, error) {
	f.fetches.Add(1)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	list, ok := f.roles[role]
	if !ok {
		return nil, &poolclient.FetchError{Service: poolclient.ServiceCandidates, URL: "fake", Status: 404, Err: errors.New("unknown role")}
	}
	return list, nil
}

func (f *fakeService) Recommend(_ context.Context, params poolquery.Params) ([]string, error) {
	f.queries = append(f.queries, params)
	if f.recommend != nil {
		return nil, f.recommend
	}
	idx := len(f.queries) - 1
	if idx < len(f.pools) {
		return f.pools[idx], nil
	}
	return []string{}, nil
}

func newFake() *fakeService {
	return &fakeService{roles: map[champion.Role][]string{
		"top":    {"Garen", "Darius", "Illaoi", "Kayle"},
		"jungle": {"Vi", "Amumu", "Kayn"},
	}}
}

func newTestSession(f *fakeService) *Session {
	var n atomic.Int32
	return New(rolecache.New(f), f, WithIDGenerator(func() string {
		return fmt.Sprintf("req-%d", n.Add(1))
	}))
}

func requireInvariant(t *testing.T, s *Session) {
	t.Helper()
	v := s.View()
	if v.State != StateReady {
		return
	}
	universe := s.store.Universe()
	seen := map[champion.Candidate]bool{}
	for _, group := range [][]champion.Candidate{v.Available, v.Included, v.Excluded} {
		for _, c := range group {
			require.False(t, seen[c], "%s in two groups", c)
			seen[c] = true
		}
	}
	require.Len(t, seen, universe.Len())
}

func TestIdleUntilRoleChosen(t *testing.T) {
	s := newTestSession(newFake())
	assert.Equal(t, StateIdle, s.State())
	assert.False(t, s.View().SectionsVisible())
	assert.ErrorIs(t, s.Include("Garen"), ErrNotReady)
	_, err := s.BeginQuery()
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestLoadRoleReachesReady(t *testing.T) {
	s := newTestSession(newFake())
	require.NoError(t, s.LoadRole(context.Background(), "top"))
	v := s.View()
	assert.Equal(t, StateReady, v.State)
	assert.Equal(t, champion.Role("top"), v.Role)
	assert.Equal(t, []champion.Candidate{"Darius", "Garen", "Illaoi", "Kayle"}, v.Available)
	assert.Equal(t, []champion.Candidate{champion.NoSelection, "Darius", "Garen", "Illaoi", "Kayle"}, v.PickerOptions())
	assert.True(t, v.CanQuery)
	assert.False(t, v.CanInclude)
}

func TestSentinelRoleReturnsToIdle(t *testing.T) {
	s := newTestSession(newFake())
	require.NoError(t, s.LoadRole(context.Background(), "top"))
	_, ok := s.SelectRole(champion.NoRole)
	assert.False(t, ok)
	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.View().Available)
}

func TestScenarioA(t *testing.T) {
	f := newFake()
	f.roles["top"] = []string{"Garen", "Darius", "Illaoi"}
	s := newTestSession(f)
	require.NoError(t, s.LoadRole(context.Background(), "top"))
	require.NoError(t, s.Include("Garen"))
	err := s.Exclude("Kayle")
	require.Error(t, err)
	assert.ErrorIs(t, err, partition.ErrInvalidTransition)
	requireInvariant(t, s)
}

func TestResetLawOnReselect(t *testing.T) {
	f := newFake()
	s := newTestSession(f)
	ctx := context.Background()
	require.NoError(t, s.LoadRole(ctx, "top"))
	require.NoError(t, s.Include("Garen"))
	require.NoError(t, s.Exclude("Kayle"))

	require.NoError(t, s.LoadRole(ctx, "top"))
	v := s.View()
	assert.Empty(t, v.Included)
	assert.Empty(t, v.Excluded)
	assert.Len(t, v.Available, 4)
	assert.Equal(t, int32(1), f.fetches.Load(), "second selection must hit the cache")

	require.NoError(t, s.LoadRole(ctx, "jungle"))
	require.NoError(t, s.Include("Vi"))
	require.NoError(t, s.LoadRole(ctx, "top"))
	assert.Empty(t, s.View().Included)
	assert.Equal(t, int32(2), f.fetches.Load())
}

func TestRoundTripRestoresAvailable(t *testing.T) {
	s := newTestSession(newFake())
	require.NoError(t, s.LoadRole(context.Background(), "top"))
	before := s.View().Available
	require.NoError(t, s.Include("Illaoi"))
	require.NoError(t, s.Release("Illaoi"))
	assert.Equal(t, before, s.View().Available)
}

func TestPickerAffordances(t *testing.T) {
	s := newTestSession(newFake())
	require.NoError(t, s.LoadRole(context.Background(), "top"))

	require.NoError(t, s.Choose(PickerInclude, "Garen"))
	require.NoError(t, s.Choose(PickerExclude, "Garen"))
	assert.True(t, s.CanCommit(PickerInclude))
	assert.True(t, s.CanCommit(PickerExclude))

	require.NoError(t, s.Commit(PickerInclude))
	v := s.View()
	assert.Equal(t, []champion.Candidate{"Garen"}, v.Included)
	assert.False(t, v.CanInclude, "action is disabled once its choice is consumed")
	assert.False(t, v.CanExclude, "the other picker loses a choice that left Available")

	assert.ErrorIs(t, s.Commit(PickerExclude), ErrNothingChosen)
	assert.ErrorIs(t, s.Choose(PickerExclude, "Garen"), partition.ErrInvalidTransition)
	require.NoError(t, s.Choose(PickerExclude, champion.NoSelection))
	assert.False(t, s.CanCommit(PickerExclude))
	requireInvariant(t, s)
}

func TestFetchFailureStaysOutsideReady(t *testing.T) {
	f := newFake()
	f.fetchErr = &poolclient.FetchError{Service: poolclient.ServiceCandidates, URL: "fake", Err: errors.New("unreachable")}
	s := newTestSession(f)

	err := s.LoadRole(context.Background(), "top")
	require.Error(t, err)
	assert.ErrorIs(t, err, poolclient.ErrFetch)
	assert.Equal(t, StateFailed, s.State())
	assert.False(t, s.View().SectionsVisible())
	assert.Error(t, s.View().Err)

	f.fetchErr = nil
	require.NoError(t, s.LoadRole(context.Background(), "top"))
	assert.Equal(t, StateReady, s.State())
	assert.NoError(t, s.Err())
}

func TestStaleRoleCompletionIsDiscarded(t *testing.T) {
	s := newTestSession(newFake())
	ctx := context.Background()

	topReq, ok := s.SelectRole("top")
	require.True(t, ok)
	jungleReq, ok := s.SelectRole("jungle")
	require.True(t, ok)

	jungle := s.FetchRole(ctx, jungleReq)
	top := s.FetchRole(ctx, topReq)

	require.NoError(t, s.ApplyRole(jungle))
	err := s.ApplyRole(top)
	assert.ErrorIs(t, err, ErrStaleCompletion)

	v := s.View()
	assert.Equal(t, champion.Role("jungle"), v.Role)
	assert.Equal(t, []champion.Candidate{"Amumu", "Kayn", "Vi"}, v.Available)
	requireInvariant(t, s)
}

func TestStaleCompletionForSameRoleIsDiscarded(t *testing.T) {
	s := newTestSession(newFake())
	ctx := context.Background()
	first, _ := s.SelectRole("top")
	second, _ := s.SelectRole("top")

	require.NoError(t, s.ApplyRole(s.FetchRole(ctx, second)))
	require.NoError(t, s.Include("Garen"))
	assert.ErrorIs(t, s.ApplyRole(s.FetchRole(ctx, first)), ErrStaleCompletion)
	assert.Equal(t, []champion.Candidate{"Garen"}, s.View().Included)
}

func TestScenarioDQueriesAccumulate(t *testing.T) {
	f := newFake()
	f.pools = [][]string{{"Darius + Illaoi"}, {"Kayle"}}
	s := newTestSession(f)
	ctx := context.Background()
	require.NoError(t, s.LoadRole(ctx, "top"))
	require.NoError(t, s.Include("Illaoi"))
	require.NoError(t, s.Include("Garen"))
	require.NoError(t, s.Exclude("Kayle"))

	require.NoError(t, s.Query(ctx))
	require.NoError(t, s.Query(ctx))

	suggestions := s.Suggestions()
	require.Len(t, suggestions, 2)
	assert.Equal(t, "Darius + Illaoi", suggestions[0].String())
	assert.Equal(t, "Kayle", suggestions[1].String())
	require.Len(t, f.queries, 2)
	assert.Equal(t, "current_champions=Garen,Illaoi&exclude_champions=Kayle", f.queries[0].Encode())
	assert.Equal(t, f.queries[0], f.queries[1])
}

func TestQueryCompletionsApplyInSettleOrder(t *testing.T) {
	f := newFake()
	f.pools = [][]string{{"first"}, {"second"}}
	s := newTestSession(f)
	ctx := context.Background()
	require.NoError(t, s.LoadRole(ctx, "top"))

	a, err := s.BeginQuery()
	require.NoError(t, err)
	b, err := s.BeginQuery()
	require.NoError(t, err)
	resA := s.RunQuery(ctx, a)
	resB := s.RunQuery(ctx, b)

	require.NoError(t, s.ApplyQuery(resB))
	require.NoError(t, s.ApplyQuery(resA))
	got := s.Suggestions()
	require.Len(t, got, 2)
	assert.Equal(t, b.ID, got[0].ID)
	assert.Equal(t, a.ID, got[1].ID)
}

func TestQueryFailureKeepsSuggestionsAndReady(t *testing.T) {
	f := newFake()
	f.pools = [][]string{{"Garen"}}
	s := newTestSession(f)
	ctx := context.Background()
	require.NoError(t, s.LoadRole(ctx, "top"))
	require.NoError(t, s.Query(ctx))

	f.recommend = &poolclient.FetchError{Service: poolclient.ServiceRecommendation, URL: "fake", Err: errors.New("down")}
	err := s.Query(ctx)
	require.Error(t, err)
	assert.Equal(t, StateReady, s.State())
	assert.Len(t, s.Suggestions(), 1)
	assert.Error(t, s.View().Err)
}

func TestEmptyQueryParams(t *testing.T) {
	f := newFake()
	s := newTestSession(f)
	require.NoError(t, s.LoadRole(context.Background(), "top"))
	req, err := s.BeginQuery()
	require.NoError(t, err)
	assert.Equal(t, "current_champions=&exclude_champions=", req.Params.Encode())
}
