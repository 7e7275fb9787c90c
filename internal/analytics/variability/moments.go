package variability

import (
	"gonum.org/v1/gonum/stat"

	"github.com/soltixdb/varindex/internal/analytics/robust"
)

func init() {
	registerCalculator(FamilyMAD, computeMADSigma)
	registerCalculator(FamilyIQR, computeIQRSigma)
	registerCalculator(FamilySkewness, computeSkewness)
	registerCalculator(FamilyKurtosis, computeKurtosis)
}

func computeMADSigma(c *computeContext, out *IndexSet) {
	out.set(IndexMADSigma, c.sigmaFromMAD())
}

func computeIQRSigma(c *computeContext, out *IndexSet) {
	iqr, err := robust.IQROwned(append([]float64(nil), c.sortedMags()...))
	if err != nil {
		out.fail(IndexIQRSigma, StatusInsufficientData)
		return
	}
	out.set(IndexIQRSigma, iqr/robust.IQRToSigma)
}

// computeSkewness stores the sample skewness of the magnitudes
func computeSkewness(c *computeContext, out *IndexSet) {
	if c.n() < 3 {
		out.fail(IndexSkewness, StatusInsufficientData)
		return
	}
	mags := c.view.Mags()
	if stat.Variance(mags, nil) == 0 {
		out.fail(IndexSkewness, StatusDegenerate)
		return
	}
	out.set(IndexSkewness, stat.Skew(mags, nil))
}

// computeKurtosis stores the sample excess kurtosis of the magnitudes
func computeKurtosis(c *computeContext, out *IndexSet) {
	if c.n() < 4 {
		out.fail(IndexKurtosis, StatusInsufficientData)
		return
	}
	mags := c.view.Mags()
	if stat.Variance(mags, nil) == 0 {
		out.fail(IndexKurtosis, StatusDegenerate)
		return
	}
	out.set(IndexKurtosis, stat.ExKurtosis(mags, nil))
}
