package variability

import (
	"math"

	"github.com/soltixdb/varindex/internal/analytics"
	"github.com/soltixdb/varindex/internal/analytics/robust"
)

// gaussianK is the expectation of Stetson K for pure Gaussian noise (≈ sqrt(2/π))
const gaussianK = 0.798

func init() {
	registerCalculator(FamilyStetsonI, computeStetsonI)
	registerCalculator(FamilyStetsonJKL, computeStetsonJKL)
	registerCalculator(FamilyStetsonJKLClip, computeStetsonJKLClip)
	registerCalculator(FamilyStetsonJKLTime, computeStetsonJKLTime)
}

// computeStetsonI computes the Welch–Stetson I index about the ordinary
// weighted mean, averaging a forward and a backward pairing sweep, and the
// sign-only variant from the forward sweep alone.
func computeStetsonI(c *computeContext, out *IndexSet) {
	v := c.view
	n := c.n()
	delta := normalizedResiduals(v, c.weightedMean())
	rule := pairRule{maxGap: c.opts.PairMaxTimeGap, magClip: math.Inf(1)}
	norm := math.Sqrt(1.0 / float64(n*(n-1)))

	pass := func(dir sweepDirection) float64 {
		var sum float64
		sweep(v, rule, dir, func(i, j int, paired bool) {
			if paired {
				sum += delta[i] * delta[j]
			}
		})
		return norm * sum
	}

	fwd, bwd := pass(forward), pass(backward)
	if math.IsNaN(fwd) || math.IsNaN(bwd) {
		out.fail(IndexI, StatusDegenerate)
	} else {
		out.set(IndexI, 0.5*(fwd+bwd))
	}

	var signSum float64
	sweep(v, rule, forward, func(i, j int, paired bool) {
		if paired {
			signSum += sign(delta[i] * delta[j])
		}
	})
	out.set(IndexISignOnly, norm*signSum)
}

func computeStetsonJKL(c *computeContext, out *IndexSet) {
	rule := pairRule{maxGap: c.opts.PairMaxTimeGap, magClip: math.Inf(1)}
	j := stetsonJ(c, rule, false)
	out.set(IndexJ, j)

	k, kst := c.stetsonK()
	out.store(IndexK, k, kst)
	storeStetsonL(c, out, IndexL, j, k, kst)
}

func computeStetsonJKLClip(c *computeContext, out *IndexSet) {
	rule := pairRule{maxGap: c.opts.PairMaxTimeGap, magClip: c.opts.PairMagClip}
	j := stetsonJ(c, rule, false)
	out.set(IndexJClip, j)

	k, kst := c.stetsonK()
	storeStetsonL(c, out, IndexLClip, j, k, kst)
}

func computeStetsonJKLTime(c *computeContext, out *IndexSet) {
	// Every time-adjacent pair qualifies; long gaps are handled by the weights.
	rule := pairRule{maxGap: math.Nextafter(c.view.Span(), math.Inf(1)), magClip: math.Inf(1)}
	j := stetsonJ(c, rule, true)
	out.set(IndexJTime, j)

	k, kst := c.stetsonK()
	storeStetsonL(c, out, IndexLTime, j, k, kst)
}

// storeStetsonL stores L = (J·K/0.798)·(N/Nmax)
func storeStetsonL(c *computeContext, out *IndexSet, ix Index, j, k float64, kst Status) {
	if kst != StatusOK {
		out.fail(ix, kst)
		return
	}
	completeness := float64(c.n()) / float64(c.nmax)
	out.set(ix, j*k/gaussianK*completeness)
}

// stetsonJ averages the forward and backward sweep values of
// Σ w·sign(P)·sqrt|P| / Σ w, where P = δ_i·δ_j for a pair and δ_i²−1 for an
// unpaired point. With timeWeighted, a pair's weight is exp(−Δt/median Δt).
func stetsonJ(c *computeContext, rule pairRule, timeWeighted bool) float64 {
	v := c.view
	delta := c.robustResiduals()

	var tau float64
	if timeWeighted {
		tau = medianTimeStep(v)
	}

	pass := func(dir sweepDirection) float64 {
		var sumW, sumT float64
		sweep(v, rule, dir, func(i, j int, paired bool) {
			w := 1.0
			var p float64
			if paired {
				p = delta[i] * delta[j]
				if timeWeighted && tau > 0 {
					w = math.Exp(-(v.JD(j) - v.JD(i)) / tau)
				}
			} else {
				p = delta[i]*delta[i] - 1
			}
			sumT += w * sign(p) * math.Sqrt(math.Abs(p))
			sumW += w
		})
		return sumT / sumW
	}

	return 0.5 * (pass(forward) + pass(backward))
}

// robustResiduals returns δ about the robust mean, shared by J, K and L
func (c *computeContext) robustResiduals() []float64 {
	if c.rdelta == nil {
		c.rdelta = normalizedResiduals(c.view, c.robustMean())
	}
	return c.rdelta
}

// stetsonK returns (1/N)Σ|δ| / sqrt((1/N)Σδ²)
func (c *computeContext) stetsonK() (float64, Status) {
	if c.kValue != nil {
		return *c.kValue, c.kStatus
	}

	delta := c.robustResiduals()
	var sumAbs, sumSq float64
	for _, d := range delta {
		sumAbs += math.Abs(d)
		sumSq += d * d
	}

	k, st := 0.0, StatusOK
	if sumSq == 0 {
		st = StatusDegenerate
	} else {
		n := float64(len(delta))
		k = (sumAbs / n) / math.Sqrt(sumSq/n)
		if !isFinite(k) {
			k, st = 0, StatusNonFinite
		}
	}
	c.kValue, c.kStatus = &k, st
	return k, st
}

// medianTimeStep is the median JD difference between consecutive points
func medianTimeStep(v analytics.SortedView) float64 {
	n := v.Len()
	if n < 2 {
		return 0
	}
	steps := make([]float64, n-1)
	for i := 1; i < n; i++ {
		steps[i-1] = v.JD(i) - v.JD(i-1)
	}
	if len(steps) == 1 {
		return steps[0]
	}
	m, _ := robust.MedianOwned(steps)
	return m
}
