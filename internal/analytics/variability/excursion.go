package variability

import (
	"math"

	"github.com/soltixdb/varindex/internal/analytics"
	"github.com/soltixdb/varindex/internal/analytics/robust"
)

func init() {
	registerCalculator(FamilyExcursions, computeExcursions)
}

// scan is a half-open range [start, end) of time-ordered points
type scan struct {
	start, end int
}

func (s scan) len() int {
	return s.end - s.start
}

// scanSummary is the robust level and spread of one scan
type scanSummary struct {
	level  float64
	spread float64
}

// partitionScans splits the time-ordered points wherever the gap to the next
// point exceeds maxGap.
func partitionScans(v analytics.SortedView, maxGap float64) []scan {
	n := v.Len()
	if n == 0 {
		return nil
	}
	var scans []scan
	start := 0
	for i := 0; i < n-1; i++ {
		if v.JD(i+1)-v.JD(i) > maxGap {
			scans = append(scans, scan{start: start, end: i + 1})
			start = i + 1
		}
	}
	return append(scans, scan{start: start, end: n})
}

// summarizeScans is the first pass: the median level of each scan and a
// spread of max(sigma_MAD, largest reported error). A single-point scan uses
// its own magnitude and error.
func summarizeScans(v analytics.SortedView, scans []scan) []scanSummary {
	out := make([]scanSummary, len(scans))
	for k, s := range scans {
		if s.len() == 1 {
			out[k] = scanSummary{level: v.Mag(s.start), spread: v.Err(s.start)}
			continue
		}

		mags := make([]float64, 0, s.len())
		maxErr := 0.0
		for i := s.start; i < s.end; i++ {
			mags = append(mags, v.Mag(i))
			maxErr = math.Max(maxErr, v.Err(i))
		}
		level, _ := robust.Median(mags)
		sigma, _ := robust.SigmaFromMADOwned(mags)
		out[k] = scanSummary{level: level, spread: math.Max(sigma, maxErr)}
	}
	return out
}

// compareScans is the second pass: the mean over all scan pairs of
// |level_i − level_j| / sqrt(spread_i² + spread_j²).
func compareScans(summaries []scanSummary) (float64, Status) {
	if len(summaries) < 2 {
		return 0, StatusInsufficientData
	}
	var sum float64
	var count int
	for i := 0; i < len(summaries); i++ {
		for j := i + 1; j < len(summaries); j++ {
			a, b := summaries[i], summaries[j]
			den := math.Sqrt(a.spread*a.spread + b.spread*b.spread)
			if den == 0 {
				continue
			}
			sum += math.Abs(a.level-b.level) / den
			count++
		}
	}
	if count == 0 {
		return 0, StatusDegenerate
	}
	return sum / float64(count), StatusOK
}

// ScanCount returns the number of observing scans in lc for the given gap
func ScanCount(lc analytics.LightCurve, maxGap float64) int {
	return len(partitionScans(analytics.NewSortedView(lc), maxGap))
}

func computeExcursions(c *computeContext, out *IndexSet) {
	scans := partitionScans(c.view, c.opts.ScanGap)
	value, st := compareScans(summarizeScans(c.view, scans))
	out.store(IndexExcursions, value, st)
}
