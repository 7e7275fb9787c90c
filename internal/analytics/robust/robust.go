// Package robust implements order-statistic estimators of location and scale:
// median, median absolute deviation (MAD) and interquartile range (IQR), with
// their Gaussian-sigma equivalents.
//
// Functions without a suffix copy their input. Functions with the Owned
// suffix take ownership of the buffer and reorder it in place; the caller must
// not use the buffer afterwards.
package robust

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

const (
	// MADToSigma converts a MAD into a Gaussian sigma (1/Φ⁻¹(3/4)).
	MADToSigma = 1.48260221850560

	// IQRToSigma divides an IQR into a Gaussian sigma (2·Φ⁻¹(3/4)).
	IQRToSigma = 1.34897950039216

	// MinPoints is the smallest sample any estimator here accepts
	MinPoints = 2
)

// ErrInsufficientData is returned for samples smaller than MinPoints.
var ErrInsufficientData = errors.New("insufficient data")

func checkLen(n int) error {
	if n < MinPoints {
		return fmt.Errorf("%w: need at least %d points, got %d", ErrInsufficientData, MinPoints, n)
	}
	return nil
}

// medianOfSorted returns the median of an ascending, non-empty slice
func medianOfSorted(sorted []float64) float64 {
	n := len(sorted)
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return 0.5 * (sorted[mid-1] + sorted[mid])
}

// MedianSorted returns the median of data that is already sorted ascending.
func MedianSorted(sorted []float64) (float64, error) {
	if err := checkLen(len(sorted)); err != nil {
		return 0, err
	}
	return medianOfSorted(sorted), nil
}

// Median returns the median of data. The input is not modified.
func Median(data []float64) (float64, error) {
	if err := checkLen(len(data)); err != nil {
		return 0, err
	}
	return MedianOwned(append([]float64(nil), data...))
}

// MedianOwned returns the median of buf, sorting buf in place.
func MedianOwned(buf []float64) (float64, error) {
	if err := checkLen(len(buf)); err != nil {
		return 0, err
	}
	sort.Float64s(buf)
	return medianOfSorted(buf), nil
}

// MAD returns the median absolute deviation from the median.
// The input is not modified.
func MAD(data []float64) (float64, error) {
	if err := checkLen(len(data)); err != nil {
		return 0, err
	}
	return MADOwned(append([]float64(nil), data...))
}

// MADOwned returns the median absolute deviation of buf, overwriting buf
// with the absolute deviations.
func MADOwned(buf []float64) (float64, error) {
	med, err := MedianOwned(buf)
	if err != nil {
		return 0, err
	}
	for i, v := range buf {
		buf[i] = math.Abs(v - med)
	}
	sort.Float64s(buf)
	return medianOfSorted(buf), nil
}

// SigmaFromMAD returns MADToSigma * MAD(data).
func SigmaFromMAD(data []float64) (float64, error) {
	mad, err := MAD(data)
	if err != nil {
		return 0, err
	}
	return MADToSigma * mad, nil
}

// SigmaFromMADOwned is SigmaFromMAD on a disposable buffer.
func SigmaFromMADOwned(buf []float64) (float64, error) {
	mad, err := MADOwned(buf)
	if err != nil {
		return 0, err
	}
	return MADToSigma * mad, nil
}

// IQR returns median(upper half) - median(lower half). The sample is split
// at its median; for an odd count the middle element belongs to the lower half.
// The input is not modified.
func IQR(data []float64) (float64, error) {
	if err := checkLen(len(data)); err != nil {
		return 0, err
	}
	return IQROwned(append([]float64(nil), data...))
}

// IQROwned is IQR on a disposable buffer, which ends up sorted.
func IQROwned(buf []float64) (float64, error) {
	if err := checkLen(len(buf)); err != nil {
		return 0, err
	}
	sort.Float64s(buf)
	split := (len(buf) + 1) / 2
	lower := medianOfSorted(buf[:split])
	upper := medianOfSorted(buf[split:])
	return upper - lower, nil
}

// SigmaFromIQR returns IQR(data) / IQRToSigma.
func SigmaFromIQR(data []float64) (float64, error) {
	iqr, err := IQR(data)
	if err != nil {
		return 0, err
	}
	return iqr / IQRToSigma, nil
}
