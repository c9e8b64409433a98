package rfm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreQuintiles_EvenSpread(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	scores, method := scoreQuintiles(values, false)
	assert.Equal(t, BinQuantile, method)
	assert.Equal(t, []int{1, 1, 2, 2, 3, 3, 4, 4, 5, 5}, scores)
}

func TestScoreQuintiles_InvertedOrientation(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	scores, method := scoreQuintiles(values, true)
	assert.Equal(t, BinQuantile, method)
	// Lowest raw values get the highest scores (recency semantics)
	assert.Equal(t, []int{5, 5, 4, 4, 3, 3, 2, 2, 1, 1}, scores)
}

func TestScoreQuintiles_TwoValues(t *testing.T) {
	scores, method := scoreQuintiles([]float64{10, 20}, false)
	assert.Equal(t, BinQuantile, method)
	assert.Equal(t, []int{1, 5}, scores)
}

func TestScoreQuintiles_DuplicateHeavyFallsBack(t *testing.T) {
	// Four of five values identical: quantile edges collapse, so the
	// scorer must switch to equal-width bins over [1,2]
	values := []float64{1, 1, 1, 1, 2}

	scores, method := scoreQuintiles(values, false)
	assert.Equal(t, BinEqualWidth, method)
	assert.Equal(t, []int{1, 1, 1, 1, 5}, scores)
}

func TestScoreQuintiles_AllIdentical(t *testing.T) {
	values := []float64{7, 7, 7, 7, 7, 7}

	t.Run("normal orientation collapses to middle score", func(t *testing.T) {
		scores, method := scoreQuintiles(values, false)
		assert.Equal(t, BinEqualWidth, method)
		for _, s := range scores {
			assert.Equal(t, 3, s)
		}
	})

	t.Run("inverted orientation collapses to the same middle score", func(t *testing.T) {
		scores, method := scoreQuintiles(values, true)
		assert.Equal(t, BinEqualWidth, method)
		for _, s := range scores {
			assert.Equal(t, 3, s)
		}
	})
}

func TestScoreQuintiles_ScoresAlwaysInRange(t *testing.T) {
	cases := [][]float64{
		{1},
		{1, 1},
		{5, 3, 9},
		{0, 0, 0, 100},
		{1, 2, 2, 2, 3, 3, 50, 51, 52, 53},
	}

	for _, values := range cases {
		for _, inverted := range []bool{false, true} {
			scores, _ := scoreQuintiles(values, inverted)
			require.Len(t, scores, len(values))
			for _, s := range scores {
				assert.GreaterOrEqual(t, s, 1)
				assert.LessOrEqual(t, s, 5)
			}
		}
	}
}

func TestScoreEqualWidth_BinBoundaries(t *testing.T) {
	// Spans of width 20 over [0,100]; the max value closes the last bin
	values := []float64{0, 25, 50, 75, 100}

	scores := scoreEqualWidth(values, false)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, scores)

	inverted := scoreEqualWidth(values, true)
	assert.Equal(t, []int{5, 4, 3, 2, 1}, inverted)
}

func TestQuantile_LinearInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	tests := []struct {
		q    float64
		want float64
	}{
		{0, 1},
		{0.5, 2.5},
		{1, 4},
		{0.25, 1.75},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, quantile(sorted, tt.q), 1e-9, "quantile(%v)", tt.q)
	}
}

func TestQuantileEdges_DetectsDuplicates(t *testing.T) {
	t.Run("distinct distribution keeps quantile bins", func(t *testing.T) {
		_, ok := quantileEdges([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
		assert.True(t, ok)
	})

	t.Run("single-value distribution cannot form bins", func(t *testing.T) {
		_, ok := quantileEdges([]float64{1, 1, 1})
		assert.False(t, ok)
	})

	t.Run("mostly-ones distribution cannot form bins", func(t *testing.T) {
		_, ok := quantileEdges([]float64{1, 1, 1, 1, 1, 1, 1, 1, 2, 3})
		assert.False(t, ok)
	})
}
