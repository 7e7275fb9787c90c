package variability

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/soltixdb/varindex/internal/analytics"
)

func init() {
	registerCalculator(FamilyEta, computeEta)
	registerCalculator(FamilyExcessAbbe, computeExcessAbbe)
	registerCalculator(FamilySB, computeSB)
	registerCalculator(FamilyNXS, computeNXS)
	registerCalculator(FamilyChi2, computeChi2)
	registerCalculator(FamilyPeakToPeak, computePeakToPeak)
	registerCalculator(FamilyRoMS, computeRoMS)
	registerCalculator(FamilyLag1, computeLag1)
}

// vonNeumann returns η = [Σ(m_{i+1}−m_i)²/(n−1)] / Var(m) over the
// time-ordered points [from, to), with the sample variance (n−1).
func vonNeumann(v analytics.SortedView, from, to int) (float64, Status) {
	n := to - from
	if n < 2 {
		return 0, StatusInsufficientData
	}
	mags := make([]float64, n)
	for i := range mags {
		mags[i] = v.Mag(from + i)
	}
	variance := stat.Variance(mags, nil)
	if variance == 0 {
		return 0, StatusDegenerate
	}
	var sumSq float64
	for i := 1; i < n; i++ {
		d := mags[i] - mags[i-1]
		sumSq += d * d
	}
	return sumSq / float64(n-1) / variance, StatusOK
}

// computeEta stores 1/η
func computeEta(c *computeContext, out *IndexSet) {
	eta, st := vonNeumann(c.view, 0, c.n())
	if st == StatusOK && eta == 0 {
		st = StatusDegenerate
	}
	if st != StatusOK {
		out.fail(IndexEta, st)
		return
	}
	out.set(IndexEta, 1/eta)
}

// computeExcessAbbe compares the mean Abbe value (η/2) of short
// non-overlapping windows of length min(10·DT/N, DT/3) with the global one.
func computeExcessAbbe(c *computeContext, out *IndexSet) {
	v := c.view
	n := c.n()

	globalEta, st := vonNeumann(v, 0, n)
	if st != StatusOK {
		out.fail(IndexExcessAbbe, st)
		return
	}
	dt := v.Span()
	if dt <= 0 {
		out.fail(IndexExcessAbbe, StatusDegenerate)
		return
	}
	window := math.Min(10*dt/float64(n), dt/3)

	var sum float64
	var count int
	for i := 0; i < n; {
		end := v.JD(i) + window
		j := i + 1
		for j < n && v.JD(j) < end {
			j++
		}
		if j-i >= c.opts.SubWindowMinPoints {
			if eta, wst := vonNeumann(v, i, j); wst == StatusOK {
				sum += eta / 2
				count++
			}
		}
		i = j
	}
	if count == 0 {
		out.fail(IndexExcessAbbe, StatusInsufficientData)
		return
	}
	out.set(IndexExcessAbbe, sum/float64(count)-globalEta/2)
}

// computeSB groups consecutive points on the same side of the mean into runs
// and returns Σ(Σ_run |m−mean|/err)² / (N·M) for M runs.
func computeSB(c *computeContext, out *IndexSet) {
	v := c.view
	n := c.n()
	mean := v.Mean()

	var total, run float64
	runs := 0
	prev := math.NaN()
	for i := 0; i < n; i++ {
		d := v.Mag(i) - mean
		s := sign(d)
		if i > 0 && s != prev {
			total += run * run
			run = 0
		}
		if i == 0 || s != prev {
			runs++
		}
		run += math.Abs(d) / v.Err(i)
		prev = s
	}
	total += run * run

	out.set(IndexSB, total/(float64(n)*float64(runs)))
}

// computeNXS stores the normalized excess variance, clamped at zero
func computeNXS(c *computeContext, out *IndexSet) {
	v := c.view
	n := c.n()
	mean := v.Mean()
	if mean == 0 {
		out.fail(IndexNXS, StatusDegenerate)
		return
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := v.Mag(i) - mean
		e := v.Err(i)
		sum += d*d - e*e
	}
	nxs := sum / (float64(n) * mean * mean)
	if !isFinite(nxs) {
		out.fail(IndexNXS, StatusNonFinite)
		return
	}
	out.set(IndexNXS, math.Max(nxs, 0))
}

// computeChi2 stores χ² about the weighted mean and χ²/(N−1). Compute
// guarantees N ≥ 2.
func computeChi2(c *computeContext, out *IndexSet) {
	v := c.view
	n := c.n()
	mean := c.weightedMean()
	var chi2 float64
	for i := 0; i < n; i++ {
		r := (v.Mag(i) - mean) / v.Err(i)
		chi2 += r * r
	}
	out.set(IndexChi2, chi2)
	out.set(IndexReducedChi2, chi2/float64(n-1))
}

// computePeakToPeak stores (max(m−err) − min(m+err)) / |max(m−err) + min(m+err)|.
// The absolute value keeps the sign meaningful for negative instrumental magnitudes.
func computePeakToPeak(c *computeContext, out *IndexSet) {
	v := c.view
	maxLow := math.Inf(-1)
	minHigh := math.Inf(1)
	for i := 0; i < c.n(); i++ {
		maxLow = math.Max(maxLow, v.Mag(i)-v.Err(i))
		minHigh = math.Min(minHigh, v.Mag(i)+v.Err(i))
	}
	den := maxLow + minHigh
	if den == 0 {
		out.fail(IndexPeakToPeak, StatusDegenerate)
		return
	}
	out.set(IndexPeakToPeak, (maxLow-minHigh)/math.Abs(den))
}

// computeRoMS stores Σ|m − median|/err / (N−1). The N−1 normalization is the
// published definition and differs from the other per-point averages.
func computeRoMS(c *computeContext, out *IndexSet) {
	v := c.view
	n := c.n()
	med := c.median()
	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(v.Mag(i)-med) / v.Err(i)
	}
	out.set(IndexRoMS, sum/float64(n-1))
}

// computeLag1 stores the lag-1 autocorrelation of the time-ordered magnitudes
func computeLag1(c *computeContext, out *IndexSet) {
	v := c.view
	n := c.n()
	mean := v.Mean()
	var num, den float64
	for i := 0; i < n; i++ {
		d := v.Mag(i) - mean
		den += d * d
		if i+1 < n {
			num += d * (v.Mag(i+1) - mean)
		}
	}
	if den == 0 {
		out.fail(IndexLag1, StatusDegenerate)
		return
	}
	out.set(IndexLag1, num/den)
}
