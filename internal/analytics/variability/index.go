package variability

import "fmt"

// Index identifies one named variability index. The numeric order is the
// column order of the index log.
type Index int

const (
	IndexI Index = iota
	IndexJ
	IndexK
	IndexL
	IndexJClip
	IndexLClip
	IndexJTime
	IndexLTime
	IndexISignOnly
	IndexN3
	IndexExcursions
	IndexEta // stored as 1/η
	IndexExcessAbbe
	IndexSB
	IndexNXS
	IndexRoMS
	IndexChi2
	IndexReducedChi2
	IndexPeakToPeak
	IndexMADSigma
	IndexIQRSigma
	IndexSkewness
	IndexKurtosis
	IndexLag1

	NumIndices int = iota
)

var indexNames = [NumIndices]string{
	IndexI:           "I",
	IndexJ:           "J",
	IndexK:           "K",
	IndexL:           "L",
	IndexJClip:       "J_clip",
	IndexLClip:       "L_clip",
	IndexJTime:       "J_time",
	IndexLTime:       "L_time",
	IndexISignOnly:   "I_sign_only",
	IndexN3:          "N3",
	IndexExcursions:  "excursions",
	IndexEta:         "eta",
	IndexExcessAbbe:  "E_A",
	IndexSB:          "S_B",
	IndexNXS:         "NXS",
	IndexRoMS:        "RoMS",
	IndexChi2:        "chi2",
	IndexReducedChi2: "reduced_chi2",
	IndexPeakToPeak:  "peak_to_peak_v",
	IndexMADSigma:    "MAD_sigma",
	IndexIQRSigma:    "IQR_sigma",
	IndexSkewness:    "skewness",
	IndexKurtosis:    "kurtosis",
	IndexLag1:        "lag1_autocorrelation",
}

// String returns the column name of the index
func (ix Index) String() string {
	if ix < 0 || int(ix) >= NumIndices {
		return fmt.Sprintf("Index(%d)", int(ix))
	}
	return indexNames[ix]
}

// AllIndices returns every index in column order
func AllIndices() []Index {
	out := make([]Index, NumIndices)
	for i := range out {
		out[i] = Index(i)
	}
	return out
}

// Columns returns the index names in column order
func Columns() []string {
	out := make([]string, NumIndices)
	copy(out, indexNames[:])
	return out
}

// ParseIndex maps a column name back to its Index
func ParseIndex(name string) (Index, error) {
	for i, n := range indexNames {
		if n == name {
			return Index(i), nil
		}
	}
	return 0, fmt.Errorf("unknown index: %s", name)
}
