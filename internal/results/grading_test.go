package results

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGradeForBoundaries(t *testing.T) {
	cases := []struct {
		percent float64
		grade   string
	}{
		{100, "A+"},
		{90, "A+"},
		{89.9, "A"},
		{80, "A"},
		{79.99, "B+"},
		{70, "B+"},
		{60, "B"},
		{50, "C"},
		{35, "D"},
		{34.9, "F"},
		{0, "F"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.grade, GradeFor(tc.percent), "percent %v", tc.percent)
	}
}

func TestGradeForIsMonotonic(t *testing.T) {
	rank := map[string]int{"F": 0, "D": 1, "C": 2, "B": 3, "B+": 4, "A": 5, "A+": 6}
	previous := rank[GradeFor(0)]
	for p := 0.0; p <= 100; p += 0.5 {
		current := rank[GradeFor(p)]
		require.GreaterOrEqual(t, current, previous, "grade dropped at %v", p)
		previous = current
	}
}

func TestPercentIsZeroForNonPositiveTotal(t *testing.T) {
	require.Equal(t, 0.0, Percent(40, 0))
	require.Equal(t, 0.0, Percent(40, -10))
	require.InDelta(t, 80.0, Percent(40, 50), 1e-9)
}

func TestColorFor(t *testing.T) {
	require.Equal(t, ColorRed, ColorFor(34.99))
	require.Equal(t, ColorAmber, ColorFor(35))
	require.Equal(t, ColorAmber, ColorFor(80))
	require.Equal(t, ColorGreen, ColorFor(80.01))
}

func TestAnalysisForBands(t *testing.T) {
	cases := []struct {
		percent  float64
		analysis string
	}{
		{0, AnalysisStruggling},
		{34.9, AnalysisStruggling},
		{35, AnalysisSteady},
		{60, AnalysisSteady},
		{60.1, AnalysisStrong},
		{80, AnalysisStrong},
		{80.1, AnalysisExcellent},
		{100, AnalysisExcellent},
	}

	for _, tc := range cases {
		require.Equal(t, tc.analysis, AnalysisFor(tc.percent), "percent %v", tc.percent)
	}
}
