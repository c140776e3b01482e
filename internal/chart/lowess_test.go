package chart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLowess_StraightLine(t *testing.T) {
	for _, n := range []int{2, 3, 5, 12, 25} {
		xs := make([]float64, n)
		ys := make([]float64, n)
		for i := range xs {
			xs[i] = float64(1990 + i)
			ys[i] = 2.5*xs[i] - 4000
		}

		got := Lowess(xs, ys, TrendFraction, TrendIterations)
		require.Len(t, got, n)
		for i := range got {
			assert.InDelta(t, ys[i], got[i], 1e-6, "n=%d i=%d", n, i)
		}
	}
}

func TestLowess_TooFewPoints(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		ys   []float64
	}{
		{"empty", nil, nil},
		{"single", []float64{2000}, []float64{42}},
		{"single distinct x", []float64{2000, 2000, 2000}, []float64{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lowess(tt.xs, tt.ys, TrendFraction, TrendIterations)
			assert.Equal(t, len(tt.ys), len(got))
			for i := range tt.ys {
				assert.Equal(t, tt.ys[i], got[i])
			}
		})
	}
}

func TestLowess_DoesNotMutateInput(t *testing.T) {
	xs := []float64{2003, 2001, 2002, 2000}
	ys := []float64{9, 1, 7, 3}
	xsCopy := append([]float64(nil), xs...)
	ysCopy := append([]float64(nil), ys...)

	Lowess(xs, ys, TrendFraction, TrendIterations)

	assert.Equal(t, xsCopy, xs)
	assert.Equal(t, ysCopy, ys)
}

func TestLowess_UnsortedInputKeepsAlignment(t *testing.T) {
	xs := []float64{2004, 2000, 2002, 2001, 2003}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = 3*x + 1
	}

	got := Lowess(xs, ys, TrendFraction, TrendIterations)
	for i := range xs {
		assert.InDelta(t, ys[i], got[i], 1e-6)
	}
}

func TestLowess_DampensOutlier(t *testing.T) {
	xs := make([]float64, 15)
	ys := make([]float64, 15)
	for i := range xs {
		xs[i] = float64(i)
		ys[i] = 10
	}
	ys[7] = 100

	got := Lowess(xs, ys, TrendFraction, TrendIterations)
	assert.Less(t, math.Abs(got[7]-10), 5.0, "robust passes should discount the outlier")
	for i := range got {
		assert.False(t, math.IsNaN(got[i]))
	}
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 2.0, median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, median([]float64{4, 1, 3, 2}))
}

func TestTricube(t *testing.T) {
	assert.Equal(t, 1.0, tricube(0, 10))
	assert.Equal(t, 0.0, tricube(10, 10))
	assert.InDelta(t, math.Pow(1-0.125, 3), tricube(5, 10), 1e-12)
	assert.Equal(t, 1.0, tricube(3, 0))
}
