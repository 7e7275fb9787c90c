// Package variability computes variability indices of a single star's
// lightcurve: the Stetson I/J/K/L family and its pairing variants, scan
// excursions, ratio and variance statistics, and robust scatter measures.
//
// An Engine is built once from Options; each disabled index family is
// resolved to a no-op at that point. Engine.Compute is a pure function of its
// arguments and may be called from many goroutines at once.
package variability

import (
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"

	"github.com/soltixdb/varindex/internal/analytics"
	"github.com/soltixdb/varindex/internal/analytics/robust"
)

// computeFunc fills the indices of one family
type computeFunc func(c *computeContext, out *IndexSet)

// Registry of family implementations, filled by init() in each file
var calculatorRegistry = make(map[Family]computeFunc)

func registerCalculator(f Family, fn computeFunc) {
	if _, exists := calculatorRegistry[f]; exists {
		panic(fmt.Sprintf("variability: family %s registered twice", f))
	}
	calculatorRegistry[f] = fn
}

type familyCalculator struct {
	family  Family
	compute computeFunc
}

// Engine computes IndexSets
type Engine struct {
	opts   Options
	active []familyCalculator
}

// NewEngine validates opts and resolves the enabled families.
func NewEngine(opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine options: %w", err)
	}

	e := &Engine{opts: opts}
	for _, f := range AllFamilies() {
		if opts.Disabled.Has(f) {
			continue
		}
		fn, ok := calculatorRegistry[f]
		if !ok {
			return nil, fmt.Errorf("no calculator registered for family %s", f)
		}
		e.active = append(e.active, familyCalculator{family: f, compute: fn})
	}
	return e, nil
}

// Options returns the options the engine was built with
func (e *Engine) Options() Options {
	return e.opts
}

// Compute calculates every enabled index for lc. nmax is the number of
// images in the survey; 0 means unknown and is treated as lc.Len().
//
// The returned error is reserved for lightcurves that cannot be processed at
// all. Indices that are undefined for this particular lightcurve are reported
// through IndexSet.Status.
//
// Options.MaxObservations is the memory guard: every scratch slice is sized
// by N, so rejecting oversized input up front bounds the allocation. Running
// out of memory is fatal to a Go process and cannot be recovered; ErrAllocation
// only reports a scratch slice whose size the runtime rejects outright.
func (e *Engine) Compute(lc analytics.LightCurve, nmax int) (set IndexSet, err error) {
	if err := e.validate(lc, nmax); err != nil {
		return EmptyIndexSet(lc.Len()), err
	}
	if nmax == 0 {
		nmax = lc.Len()
	}

	defer func() {
		if r := recover(); r != nil {
			if re, ok := r.(runtime.Error); ok && strings.Contains(re.Error(), "makeslice") {
				set = EmptyIndexSet(lc.Len())
				err = fmt.Errorf("%w: %v", ErrAllocation, re)
				return
			}
			panic(r)
		}
	}()

	c := &computeContext{
		view: analytics.NewSortedView(lc),
		opts: e.opts,
		nmax: nmax,
	}

	set = IndexSet{n: lc.Len()}
	for _, f := range AllFamilies() {
		if e.opts.Disabled.Has(f) {
			for _, ix := range f.Indices() {
				set.fail(ix, StatusDisabled)
			}
		}
	}
	for _, fc := range e.active {
		fc.compute(c, &set)
	}
	return set, nil
}

func (e *Engine) validate(lc analytics.LightCurve, nmax int) error {
	if err := lc.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	n := lc.Len()
	if n < 2 {
		return fmt.Errorf("%w: need at least 2 observations, got %d", ErrInsufficientData, n)
	}
	if n > e.opts.MaxObservations {
		return fmt.Errorf("%w: %d observations exceed the limit of %d", ErrInvalidInput, n, e.opts.MaxObservations)
	}
	if nmax != 0 && nmax < n {
		return fmt.Errorf("%w: nmax %d is smaller than the number of observations %d", ErrInvalidInput, nmax, n)
	}
	for i := 0; i < n; i++ {
		if !isFinite(lc.JD[i]) || !isFinite(lc.Mag[i]) || !isFinite(lc.MagErr[i]) {
			return fmt.Errorf("%w: non-finite value at point %d", ErrInvalidInput, i)
		}
		if lc.MagErr[i] <= 0 {
			return fmt.Errorf("%w: non-positive magnitude error at point %d", ErrInvalidInput, i)
		}
	}
	return nil
}

// computeContext carries the time-sorted view and the quantities shared by
// several families of one Compute call. It is never shared between calls.
type computeContext struct {
	view analytics.SortedView
	opts Options
	nmax int

	wmean    *float64
	rmean    *float64
	sorted   []float64
	sigmaMAD *float64
	rdelta   []float64
	kValue   *float64
	kStatus  Status
}

func (c *computeContext) n() int {
	return c.view.Len()
}

// weightedMean is the ordinary 1/err^2 weighted mean magnitude
func (c *computeContext) weightedMean() float64 {
	if c.wmean == nil {
		m := c.view.WeightedMean()
		c.wmean = &m
	}
	return *c.wmean
}

// robustMean is the iteratively re-weighted mean used by J/K/L
func (c *computeContext) robustMean() float64 {
	if c.rmean == nil {
		m := robustWeightedMean(c.view, c.opts.RobustMeanMaxIter, c.opts.RobustMeanTol)
		c.rmean = &m
	}
	return *c.rmean
}

// sortedMags returns the magnitudes sorted ascending. Callers must not modify it.
func (c *computeContext) sortedMags() []float64 {
	if c.sorted == nil {
		c.sorted = c.view.Mags()
		sort.Float64s(c.sorted)
	}
	return c.sorted
}

// median of the magnitudes; N >= 2 is guaranteed by Compute
func (c *computeContext) median() float64 {
	m, _ := robust.MedianSorted(c.sortedMags())
	return m
}

// sigmaFromMAD is the MAD-based sigma of the magnitudes
func (c *computeContext) sigmaFromMAD() float64 {
	if c.sigmaMAD == nil {
		s, _ := robust.SigmaFromMADOwned(append([]float64(nil), c.sortedMags()...))
		c.sigmaMAD = &s
	}
	return *c.sigmaMAD
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
