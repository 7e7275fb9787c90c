// Package analytics provides the common lightcurve types shared by the
// variability-index packages (robust statistics, variability indices).
package analytics

import (
	"errors"
	"fmt"
	"sort"
)

// ErrLengthMismatch is returned when the parallel lightcurve slices differ in length.
var ErrLengthMismatch = errors.New("lightcurve slices differ in length")

// Observation is a single lightcurve point.
type Observation struct {
	JD     float64 `json:"jd"`
	Mag    float64 `json:"mag"`
	MagErr float64 `json:"mag_err"`
}

// LightCurve holds one star's observations as three parallel slices in
// insertion order. Index computations never reorder these slices; they work
// through a SortedView instead.
type LightCurve struct {
	Name   string
	JD     []float64
	Mag    []float64
	MagErr []float64
}

// NewLightCurve builds a LightCurve from parallel slices.
// The slices are referenced, not copied.
func NewLightCurve(jd, mag, magErr []float64) (LightCurve, error) {
	if len(jd) != len(mag) || len(jd) != len(magErr) {
		return LightCurve{}, fmt.Errorf("%w: jd=%d mag=%d err=%d",
			ErrLengthMismatch, len(jd), len(mag), len(magErr))
	}
	return LightCurve{JD: jd, Mag: mag, MagErr: magErr}, nil
}

// FromObservations builds a LightCurve from a slice of observations.
func FromObservations(name string, obs []Observation) LightCurve {
	lc := LightCurve{
		Name:   name,
		JD:     make([]float64, len(obs)),
		Mag:    make([]float64, len(obs)),
		MagErr: make([]float64, len(obs)),
	}
	for i, o := range obs {
		lc.JD[i] = o.JD
		lc.Mag[i] = o.Mag
		lc.MagErr[i] = o.MagErr
	}
	return lc
}

// Len returns the number of observations
func (lc LightCurve) Len() int {
	return len(lc.JD)
}

// Validate checks that the parallel slices have equal length
func (lc LightCurve) Validate() error {
	if len(lc.JD) != len(lc.Mag) || len(lc.JD) != len(lc.MagErr) {
		return fmt.Errorf("%w: jd=%d mag=%d err=%d",
			ErrLengthMismatch, len(lc.JD), len(lc.Mag), len(lc.MagErr))
	}
	return nil
}

// Observation returns the i-th observation in insertion order
func (lc LightCurve) Observation(i int) Observation {
	return Observation{JD: lc.JD[i], Mag: lc.Mag[i], MagErr: lc.MagErr[i]}
}

// TimeOrder returns the permutation that sorts the observations of lc by
// JD ascending. Equal timestamps are ordered by magnitude, then by error, so
// the result depends only on the data and not on the order it arrived in.
func TimeOrder(lc LightCurve) []int {
	perm := make([]int, lc.Len())
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		pa, pb := perm[a], perm[b]
		if lc.JD[pa] != lc.JD[pb] {
			return lc.JD[pa] < lc.JD[pb]
		}
		if lc.Mag[pa] != lc.Mag[pb] {
			return lc.Mag[pa] < lc.Mag[pb]
		}
		return lc.MagErr[pa] < lc.MagErr[pb]
	})
	return perm
}

// SortedView is a read-only, time-ordered view over a LightCurve.
// The underlying slices are never copied or modified.
type SortedView struct {
	lc   LightCurve
	perm []int
}

// NewSortedView computes the time-order permutation once and wraps lc with it.
func NewSortedView(lc LightCurve) SortedView {
	return SortedView{lc: lc, perm: TimeOrder(lc)}
}

// Len returns the number of observations
func (v SortedView) Len() int {
	return len(v.perm)
}

// JD returns the i-th Julian Date in time order
func (v SortedView) JD(i int) float64 {
	return v.lc.JD[v.perm[i]]
}

// Mag returns the i-th magnitude in time order
func (v SortedView) Mag(i int) float64 {
	return v.lc.Mag[v.perm[i]]
}

// Err returns the i-th magnitude error in time order
func (v SortedView) Err(i int) float64 {
	return v.lc.MagErr[v.perm[i]]
}

// Index returns the insertion-order index of the i-th point in time order
func (v SortedView) Index(i int) int {
	return v.perm[i]
}

// Span returns the time span JD(last) - JD(first)
func (v SortedView) Span() float64 {
	if len(v.perm) == 0 {
		return 0
	}
	return v.JD(len(v.perm)-1) - v.JD(0)
}

// Mags returns a new slice holding the magnitudes in time order.
// Order-insensitive statistics use it as scratch space.
func (v SortedView) Mags() []float64 {
	out := make([]float64, len(v.perm))
	for i, p := range v.perm {
		out[i] = v.lc.Mag[p]
	}
	return out
}

// Mean calculates the unweighted mean magnitude
func (v SortedView) Mean() float64 {
	if len(v.perm) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range v.perm {
		sum += v.lc.Mag[p]
	}
	return sum / float64(len(v.perm))
}

// WeightedMean calculates the 1/err^2 weighted mean magnitude
func (v SortedView) WeightedMean() float64 {
	var sumW, sumWM float64
	for _, p := range v.perm {
		e := v.lc.MagErr[p]
		w := 1.0 / (e * e)
		sumW += w
		sumWM += w * v.lc.Mag[p]
	}
	if sumW == 0 {
		return 0
	}
	return sumWM / sumW
}
