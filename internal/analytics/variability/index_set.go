package variability

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidInput marks lightcurves the engine refuses to process
	ErrInvalidInput = errors.New("invalid lightcurve")
	// ErrInsufficientData marks too few points (overall or for one index)
	ErrInsufficientData = errors.New("insufficient data")
	// ErrDegenerate marks a zero denominator (zero variance, zero spread)
	ErrDegenerate = errors.New("degenerate statistics")
	// ErrNonFinite marks a NaN or Inf result that was suppressed
	ErrNonFinite = errors.New("non-finite result")
	// ErrDisabled marks an index switched off by configuration
	ErrDisabled = errors.New("index disabled")
	// ErrAllocation marks a scratch slice the runtime refused to allocate.
	// It does not cover out-of-memory, which terminates the process.
	ErrAllocation = errors.New("allocation failed")
)

// Status tells whether an index value is meaningful.
// Any status other than StatusOK comes with the sentinel value 0.
type Status uint8

const (
	StatusOK Status = iota
	StatusDisabled
	StatusInsufficientData
	StatusDegenerate
	StatusNonFinite
)

var statusNames = [...]string{
	StatusOK:               "ok",
	StatusDisabled:         "disabled",
	StatusInsufficientData: "insufficient_data",
	StatusDegenerate:       "degenerate",
	StatusNonFinite:        "non_finite",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Err returns the sentinel error for the status, nil for StatusOK
func (s Status) Err() error {
	switch s {
	case StatusOK:
		return nil
	case StatusDisabled:
		return ErrDisabled
	case StatusInsufficientData:
		return ErrInsufficientData
	case StatusDegenerate:
		return ErrDegenerate
	default:
		return ErrNonFinite
	}
}

// IndexSet is the immutable result of one Engine.Compute call.
type IndexSet struct {
	n      int
	values [NumIndices]float64
	status [NumIndices]Status
}

// EmptyIndexSet returns a set in which every index is StatusInsufficientData.
// Batch callers use it as the row for a star that could not be processed.
func EmptyIndexSet(n int) IndexSet {
	s := IndexSet{n: n}
	for i := range s.status {
		s.status[i] = StatusInsufficientData
	}
	return s
}

// N returns the number of observations the set was computed from
func (s IndexSet) N() int {
	return s.n
}

// Value returns the index value, 0 when the index is not StatusOK
func (s IndexSet) Value(ix Index) float64 {
	return s.values[ix]
}

// Status returns the status of an index
func (s IndexSet) Status(ix Index) Status {
	return s.status[ix]
}

// Lookup returns the value of an index, or an error wrapping the sentinel
// that explains why it is undefined.
func (s IndexSet) Lookup(ix Index) (float64, error) {
	if err := s.status[ix].Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", ix, err)
	}
	return s.values[ix], nil
}

// Values returns all values in column order
func (s IndexSet) Values() []float64 {
	out := make([]float64, NumIndices)
	copy(out, s.values[:])
	return out
}

// set stores v, downgrading non-finite values to the sentinel
func (s *IndexSet) set(ix Index, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		s.fail(ix, StatusNonFinite)
		return
	}
	s.values[ix] = v
	s.status[ix] = StatusOK
}

// fail stores the sentinel with a non-OK status
func (s *IndexSet) fail(ix Index, st Status) {
	s.values[ix] = 0
	s.status[ix] = st
}

// store is set or fail depending on st
func (s *IndexSet) store(ix Index, v float64, st Status) {
	if st != StatusOK {
		s.fail(ix, st)
		return
	}
	s.set(ix, v)
}

// Record is the serialized form of an IndexSet.
type Record struct {
	Star    string             `json:"star,omitempty"`
	N       int                `json:"n"`
	Indices map[string]float64 `json:"indices"`
	Status  map[string]string  `json:"status,omitempty"`
}

// Record converts the set into its serialized form. Only non-OK statuses
// are listed.
func (s IndexSet) Record(star string) Record {
	r := Record{
		Star:    star,
		N:       s.n,
		Indices: make(map[string]float64, NumIndices),
	}
	for i := 0; i < NumIndices; i++ {
		ix := Index(i)
		r.Indices[ix.String()] = s.values[i]
		if s.status[i] != StatusOK {
			if r.Status == nil {
				r.Status = make(map[string]string)
			}
			r.Status[ix.String()] = s.status[i].String()
		}
	}
	return r
}

// MarshalJSON encodes the set as a Record without a star name
func (s IndexSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Record(""))
}
