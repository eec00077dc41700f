package results

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sampleResults() []Result {
	now := time.Now()
	return Normalize([]Record{
		{ID: "1", StudentName: "Ana", TestName: "T2"},
		{ID: "2", StudentName: "Ben", TestName: "T1"},
		{ID: "3", StudentName: "Cai", TestName: "T2"},
	}, now)
}

func TestGroupByTestKeepsFirstOccurrenceOrder(t *testing.T) {
	groups := GroupByTest(sampleResults())
	require.Len(t, groups, 2)
	require.Equal(t, "T2", groups[0].TestName)
	require.Equal(t, "T1", groups[1].TestName)
	require.Equal(t, 2, groups[0].Count)
	require.Equal(t, "1", groups[0].Results[0].ID)
	require.Equal(t, "3", groups[0].Results[1].ID)
}

func TestFilterMatchesTestNameForWholeGroup(t *testing.T) {
	all := sampleResults()

	filtered := Filter(all, "t2")
	require.Len(t, filtered, 2)
	for _, result := range filtered {
		require.Equal(t, "T2", result.TestName)
	}
}

func TestFilterIsNonDestructiveAndIdempotent(t *testing.T) {
	all := sampleResults()
	snapshot := append([]Result(nil), all...)

	first := Filter(all, "BEN")
	second := Filter(all, "BEN")
	require.Equal(t, first, second)
	require.Len(t, first, 1)
	require.Equal(t, snapshot, all)

	require.Equal(t, all, Filter(all, ""))
	require.Empty(t, Filter(all, "nobody"))
}

func TestFind(t *testing.T) {
	found, ok := Find(sampleResults(), "2")
	require.True(t, ok)
	require.Equal(t, "Ben", found.StudentName)

	_, ok = Find(sampleResults(), "9")
	require.False(t, ok)
}

func TestFilterMatchesTermAsGiven(t *testing.T) {
	all := sampleResults()

	require.Empty(t, Filter(all, " ben "))
	require.Len(t, Filter(all, "ben"), 1)
	require.Len(t, Filter(all, " "), 0)
}
