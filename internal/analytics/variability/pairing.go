package variability

import (
	"math"

	"github.com/soltixdb/varindex/internal/analytics"
)

const (
	// Re-weighting constants of the robust mean (Stetson 1996)
	robustMeanA = 2.0
	robustMeanB = 2.0
)

// robustWeightedMean starts from the 1/err^2 weighted mean and iteratively
// down-weights points by 1/(1 + (|residual/err|/a)^b). The factors compound:
// each iteration divides the weights left by the previous one.
func robustWeightedMean(v analytics.SortedView, maxIter int, tol float64) float64 {
	n := v.Len()
	w := make([]float64, n)
	for i := 0; i < n; i++ {
		e := v.Err(i)
		w[i] = 1.0 / (e * e)
	}

	mean := v.WeightedMean()
	for iter := 0; iter < maxIter; iter++ {
		var sumW, sumWM float64
		for i := 0; i < n; i++ {
			r := math.Abs((v.Mag(i)-mean)/v.Err(i)) / robustMeanA
			w[i] /= 1 + math.Pow(r, robustMeanB)
			sumW += w[i]
			sumWM += w[i] * v.Mag(i)
		}
		if sumW == 0 {
			break
		}
		next := sumWM / sumW
		converged := math.Abs(next-mean) < tol
		mean = next
		if converged {
			break
		}
	}
	return mean
}

// pairRule decides whether two time-adjacent points form a pair.
type pairRule struct {
	maxGap  float64 // |ΔJD| must be strictly below
	magClip float64 // |Δm| < magClip*sqrt(err_i^2+err_j^2); +Inf disables
}

func (r pairRule) pairs(v analytics.SortedView, i, j int) bool {
	if math.Abs(v.JD(j)-v.JD(i)) >= r.maxGap {
		return false
	}
	if math.IsInf(r.magClip, 1) {
		return true
	}
	ei, ej := v.Err(i), v.Err(j)
	return math.Abs(v.Mag(j)-v.Mag(i)) < r.magClip*math.Sqrt(ei*ei+ej*ej)
}

type sweepDirection int

const (
	forward sweepDirection = iota
	backward
)

// sweep walks the time-ordered points greedily in the given direction and
// calls visit for every pair (i < j, paired=true) and every point left
// unpaired (i == j, paired=false).
func sweep(v analytics.SortedView, r pairRule, dir sweepDirection, visit func(i, j int, paired bool)) {
	n := v.Len()
	if dir == forward {
		for i := 0; i < n; {
			if i+1 < n && r.pairs(v, i, i+1) {
				visit(i, i+1, true)
				i += 2
				continue
			}
			visit(i, i, false)
			i++
		}
		return
	}
	for i := n - 1; i >= 0; {
		if i-1 >= 0 && r.pairs(v, i-1, i) {
			visit(i-1, i, true)
			i -= 2
			continue
		}
		visit(i, i, false)
		i--
	}
}

// normalizedResiduals returns δ_i = sqrt(N/(N-1))·(m_i − mean)/err_i in time order
func normalizedResiduals(v analytics.SortedView, mean float64) []float64 {
	n := v.Len()
	scale := math.Sqrt(float64(n) / float64(n-1))
	delta := make([]float64, n)
	for i := 0; i < n; i++ {
		delta[i] = scale * (v.Mag(i) - mean) / v.Err(i)
	}
	return delta
}
