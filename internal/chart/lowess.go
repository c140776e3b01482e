package chart

import (
	"math"
	"sort"
)

// Lowess smooths ys against xs with locally weighted linear regression.
// Each fit uses the int(frac*n) nearest points with tricube weights, and
// iters robustifying passes reweight by bisquare of the residuals. The
// result is aligned with the input order. Fewer than two points, or fewer
// than two distinct x values, return a copy of ys.
func Lowess(xs, ys []float64, frac float64, iters int) []float64 {
	n := len(xs)
	out := make([]float64, n)
	copy(out, ys)
	if n < 2 || len(ys) != n || distinct(xs) < 2 {
		return out
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return xs[order[a]] < xs[order[b]] })

	x := make([]float64, n)
	y := make([]float64, n)
	for i, idx := range order {
		x[i], y[i] = xs[idx], ys[idx]
	}

	k := int(frac*float64(n) + 1e-10)
	k = max(2, min(k, n))

	robust := make([]float64, n)
	for i := range robust {
		robust[i] = 1
	}
	fitted := make([]float64, n)
	residuals := make([]float64, n)

	for pass := 0; pass <= iters; pass++ {
		left, right := 0, k-1
		for i := 0; i < n; i++ {
			for right < n-1 && x[i]-x[left] > x[right+1]-x[i] {
				left++
				right++
			}
			fitted[i] = localFit(x, y, robust, i, left, right)
		}

		if pass == iters {
			break
		}
		for i := range residuals {
			residuals[i] = math.Abs(y[i] - fitted[i])
		}
		s := median(residuals)
		if s == 0 {
			break
		}
		for i := range robust {
			robust[i] = bisquare(residuals[i] / (6 * s))
		}
	}

	for i, idx := range order {
		out[idx] = fitted[i]
	}
	return out
}

// localFit is the weighted linear fit at x[i] over the window [left, right].
// It degrades to the weighted mean when the window has no x spread, and to
// y[i] when every weight is zero.
func localFit(x, y, robust []float64, i, left, right int) float64 {
	xi := x[i]
	h := math.Max(xi-x[left], x[right]-xi)

	var sw, swx, swy float64
	w := make([]float64, right-left+1)
	for j := left; j <= right; j++ {
		wj := tricube(math.Abs(x[j]-xi), h) * robust[j]
		w[j-left] = wj
		sw += wj
		swx += wj * x[j]
		swy += wj * y[j]
	}
	if sw <= 0 {
		return y[i]
	}
	mx, my := swx/sw, swy/sw

	var sxx, sxy float64
	for j := left; j <= right; j++ {
		dx := x[j] - mx
		sxx += w[j-left] * dx * dx
		sxy += w[j-left] * dx * (y[j] - my)
	}
	if sxx <= 1e-12*sw {
		return my
	}
	return my + sxy/sxx*(xi-mx)
}

func tricube(d, h float64) float64 {
	if h <= 0 {
		return 1
	}
	switch {
	case d <= 0.001*h:
		return 1
	case d >= 0.999*h:
		return 0
	}
	u := d / h
	t := 1 - u*u*u
	return t * t * t
}

func bisquare(u float64) float64 {
	if math.Abs(u) >= 1 {
		return 0
	}
	t := 1 - u*u
	return t * t
}

func median(v []float64) float64 {
	s := make([]float64, len(v))
	copy(s, v)
	sort.Float64s(s)
	m := len(s) / 2
	if len(s)%2 == 1 {
		return s[m]
	}
	return (s[m-1] + s[m]) / 2
}

func distinct(v []float64) int {
	seen := make(map[float64]struct{}, len(v))
	for _, x := range v {
		seen[x] = struct{}{}
	}
	return len(seen)
}
