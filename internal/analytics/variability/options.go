package variability

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Family is a group of indices computed together and switched on or off as a unit.
type Family uint8

const (
	FamilyStetsonI Family = iota
	FamilyStetsonJKL
	FamilyStetsonJKLClip
	FamilyStetsonJKLTime
	FamilyMAD
	FamilyIQR
	FamilyN3
	FamilyExcursions
	FamilyEta
	FamilyExcessAbbe
	FamilySB
	FamilyNXS
	FamilyChi2
	FamilyPeakToPeak
	FamilyRoMS
	FamilySkewness
	FamilyKurtosis
	FamilyLag1

	numFamilies int = iota
)

type familyInfo struct {
	name    string
	indices []Index
}

var families = [numFamilies]familyInfo{
	FamilyStetsonI:       {"stetson_i", []Index{IndexI, IndexISignOnly}},
	FamilyStetsonJKL:     {"stetson_jkl", []Index{IndexJ, IndexK, IndexL}},
	FamilyStetsonJKLClip: {"stetson_jkl_clip", []Index{IndexJClip, IndexLClip}},
	FamilyStetsonJKLTime: {"stetson_jkl_time", []Index{IndexJTime, IndexLTime}},
	FamilyMAD:            {"mad", []Index{IndexMADSigma}},
	FamilyIQR:            {"iqr", []Index{IndexIQRSigma}},
	FamilyN3:             {"n3", []Index{IndexN3}},
	FamilyExcursions:     {"excursions", []Index{IndexExcursions}},
	FamilyEta:            {"eta", []Index{IndexEta}},
	FamilyExcessAbbe:     {"excess_abbe", []Index{IndexExcessAbbe}},
	FamilySB:             {"sb", []Index{IndexSB}},
	FamilyNXS:            {"nxs", []Index{IndexNXS}},
	FamilyChi2:           {"chi2", []Index{IndexChi2, IndexReducedChi2}},
	FamilyPeakToPeak:     {"peak_to_peak", []Index{IndexPeakToPeak}},
	FamilyRoMS:           {"roms", []Index{IndexRoMS}},
	FamilySkewness:       {"skewness", []Index{IndexSkewness}},
	FamilyKurtosis:       {"kurtosis", []Index{IndexKurtosis}},
	FamilyLag1:           {"lag1", []Index{IndexLag1}},
}

// String returns the configuration name of the family
func (f Family) String() string {
	if int(f) >= numFamilies {
		return fmt.Sprintf("Family(%d)", int(f))
	}
	return families[f].name
}

// Indices returns the indices owned by the family
func (f Family) Indices() []Index {
	if int(f) >= numFamilies {
		return nil
	}
	return families[f].indices
}

// AllFamilies returns every family in evaluation order
func AllFamilies() []Family {
	out := make([]Family, numFamilies)
	for i := range out {
		out[i] = Family(i)
	}
	return out
}

// ParseFamily maps a configuration name to its Family
func ParseFamily(name string) (Family, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, info := range families {
		if info.name == key {
			return Family(i), nil
		}
	}
	return 0, fmt.Errorf("unknown index family: %s", name)
}

// FamilySet is a set of families
type FamilySet uint32

// NewFamilySet builds a set from the given families
func NewFamilySet(fs ...Family) FamilySet {
	var s FamilySet
	for _, f := range fs {
		s = s.With(f)
	}
	return s
}

// ParseFamilySet builds a set from configuration names
func ParseFamilySet(names []string) (FamilySet, error) {
	var s FamilySet
	for _, name := range names {
		f, err := ParseFamily(name)
		if err != nil {
			return 0, err
		}
		s = s.With(f)
	}
	return s, nil
}

// Has reports whether f is in the set
func (s FamilySet) Has(f Family) bool {
	return s&(1<<f) != 0
}

// With returns the set with f added
func (s FamilySet) With(f Family) FamilySet {
	return s | 1<<f
}

// Names returns the sorted configuration names of the set members
func (s FamilySet) Names() []string {
	var out []string
	for _, f := range AllFamilies() {
		if s.Has(f) {
			out = append(out, f.String())
		}
	}
	sort.Strings(out)
	return out
}

// Options configures an Engine. Time quantities are in days.
type Options struct {
	// Disabled families are never computed; their indices report StatusDisabled.
	Disabled FamilySet

	// PairMaxTimeGap bounds the JD difference of a Stetson pair from above
	// (strictly), so nightly cadence at exactly one day still pairs.
	PairMaxTimeGap float64

	// PairMagClip is the magnitude-difference limit, in units of the combined
	// error, used by the clipped J/L variant.
	PairMagClip float64

	// ScanGap separates observing scans for the excursions index.
	ScanGap float64

	RobustMeanMaxIter int
	RobustMeanTol     float64

	// N3Sigma is the deviation significance for the N3 index.
	N3Sigma float64

	// SubWindowMinPoints is the minimum window size contributing to E_A.
	SubWindowMinPoints int

	// MaxObservations caps N to bound per-call allocation.
	MaxObservations int
}

// DefaultOptions returns the standard thresholds with every family enabled.
func DefaultOptions() Options {
	return Options{
		PairMaxTimeGap:     1.5,
		PairMagClip:        5.0,
		ScanGap:            5.0,
		RobustMeanMaxIter:  1000,
		RobustMeanTol:      1e-5,
		N3Sigma:            3.0,
		SubWindowMinPoints: 5,
		MaxObservations:    1000000,
	}
}

// Validate checks the numeric thresholds
func (o Options) Validate() error {
	if !(o.PairMaxTimeGap > 0) || math.IsInf(o.PairMaxTimeGap, 0) {
		return fmt.Errorf("pair_max_time_gap must be positive and finite, got %v", o.PairMaxTimeGap)
	}
	if !(o.PairMagClip > 0) {
		return fmt.Errorf("pair_mag_clip must be positive, got %v", o.PairMagClip)
	}
	if !(o.ScanGap > 0) || math.IsInf(o.ScanGap, 0) {
		return fmt.Errorf("scan_gap must be positive and finite, got %v", o.ScanGap)
	}
	if o.RobustMeanMaxIter < 1 {
		return fmt.Errorf("robust_mean_max_iter must be at least 1, got %d", o.RobustMeanMaxIter)
	}
	if !(o.RobustMeanTol > 0) {
		return fmt.Errorf("robust_mean_tol must be positive, got %v", o.RobustMeanTol)
	}
	if !(o.N3Sigma > 0) {
		return fmt.Errorf("n3_sigma must be positive, got %v", o.N3Sigma)
	}
	if o.SubWindowMinPoints < 2 {
		return fmt.Errorf("sub_window_min_points must be at least 2, got %d", o.SubWindowMinPoints)
	}
	if o.MaxObservations < 2 {
		return fmt.Errorf("max_observations must be at least 2, got %d", o.MaxObservations)
	}
	return nil
}
