package variability

import "math"

func init() {
	registerCalculator(FamilyN3, computeN3)
}

// computeN3 counts groups of three consecutive points deviating from the
// median by more than N3Sigma·sqrt(err² + σ_MAD²) in the same direction.
// Groups do not overlap: after a triplet is counted the search resumes
// behind it.
func computeN3(c *computeContext, out *IndexSet) {
	n := c.n()
	if n < 3 {
		out.fail(IndexN3, StatusInsufficientData)
		return
	}
	v := c.view
	med := c.median()
	sigma := c.sigmaFromMAD()

	dev := make([]float64, n)
	for i := 0; i < n; i++ {
		e := v.Err(i)
		d := v.Mag(i) - med
		if math.Abs(d) > c.opts.N3Sigma*math.Sqrt(e*e+sigma*sigma) {
			dev[i] = sign(d)
		}
	}

	groups := 0
	for i := 0; i+2 < n; {
		if dev[i] != 0 && dev[i] == dev[i+1] && dev[i] == dev[i+2] {
			groups++
			i += 3
			continue
		}
		i++
	}
	out.set(IndexN3, float64(groups))
}
