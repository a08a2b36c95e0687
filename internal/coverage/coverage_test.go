package coverage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/league-pool/internal/dataset"
)

func topRole(t *testing.T) dataset.RoleData {
	t.Helper()
	ds, err := dataset.LoadFile(filepath.Join("..", "dataset", "testdata", "champions.yaml"))
	require.NoError(t, err)
	return ds.Roles["top"]
}

func TestRecommendFindsMinimalCover(t *testing.T) {
	got := Recommend(topRole(t), nil, nil, Options{})
	assert.Equal(t, []string{"Darius + Garen + Teemo"}, got)
}

func TestRecommendHonorsCurrentAndExcluded(t *testing.T) {
	got := Recommend(topRole(t), []string{"Garen"}, []string{"Teemo"}, Options{})
	assert.Equal(t, []string{"Darius + Illaoi + Nasus"}, got)
}

func TestRecommendReturnsCurrentWhenAlreadyCovered(t *testing.T) {
	got := Recommend(topRole(t), []string{"Teemo", "Garen", "Darius"}, nil, Options{})
	assert.Equal(t, []string{"Darius + Garen + Teemo"}, got)
}

func TestRecommendEmptyWhenBoundTooSmall(t *testing.T) {
	got := Recommend(topRole(t), nil, nil, Options{MaxPoolSize: 2})
	assert.Equal(t, []string{}, got)
}

func TestRecommendIgnoresUnknownCurrent(t *testing.T) {
	got := Recommend(topRole(t), []string{"Zed"}, []string{"Ahri"}, Options{})
	assert.Equal(t, []string{"Darius + Garen + Teemo"}, got)
}

func TestRecommendCapsSuggestions(t *testing.T) {
	rd := dataset.RoleData{
		Champions: []string{"C", "A", "B"},
		Counters: map[string][]string{
			"A": {"A", "B", "C"},
			"B": {"A", "B", "C"},
			"C": {"A", "B", "C"},
		},
	}
	assert.Equal(t, []string{"A", "B", "C"}, Recommend(rd, nil, nil, Options{}))
	assert.Equal(t, []string{"A", "B"}, Recommend(rd, nil, nil, Options{MaxSuggestions: 2}))
}

func TestRecommendManyChampionsSpansWords(t *testing.T) {
	rd := dataset.RoleData{Counters: map[string][]string{}}
	for i := 0; i < 70; i++ {
		rd.Champions = append(rd.Champions, string(rune('A'+i%26))+string(rune('a'+i/26)))
	}
	last := rd.Champions[len(rd.Champions)-1]
	rd.Counters[last] = append([]string(nil), rd.Champions...)
	assert.Equal(t, []string{last}, Recommend(rd, nil, nil, Options{}))
}

func TestForEachCombination(t *testing.T) {
	var seen [][]int
	combo := make([]int, 2)
	forEachCombination(4, 2, combo, func(c []int) bool {
		seen = append(seen, append([]int(nil), c...))
		return true
	})
	assert.Equal(t, [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}, seen)
}
