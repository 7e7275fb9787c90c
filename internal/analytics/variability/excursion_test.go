package variability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/varindex/internal/analytics"
)

func TestPartitionScans(t *testing.T) {
	tests := []struct {
		name string
		jd   []float64
		want []scan
	}{
		{"single point", []float64{3}, []scan{{0, 1}}},
		{"one scan", []float64{0, 1, 2, 6}, []scan{{0, 4}}},
		{"gap equal to threshold stays", []float64{0, 5}, []scan{{0, 2}}},
		{"two scans", []float64{0, 1, 2, 100, 101, 102}, []scan{{0, 3}, {3, 6}}},
		{"isolated point", []float64{0, 10, 20.5, 21}, []scan{{0, 1}, {1, 2}, {2, 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mag := make([]float64, len(tt.jd))
			magErr := make([]float64, len(tt.jd))
			for i := range magErr {
				magErr[i] = 0.1
			}
			v := viewOf(tt.jd, mag, magErr)
			assert.Equal(t, tt.want, partitionScans(v, 5))
		})
	}
}

func TestExcursions_EqualScans(t *testing.T) {
	lc, err := analytics.NewLightCurve(
		[]float64{0, 1, 2, 100, 101, 102},
		[]float64{14, 14, 14, 14, 14, 14},
		[]float64{0.03, 0.03, 0.03, 0.03, 0.03, 0.03},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, ScanCount(lc, 5))

	e, err := NewEngine(DefaultOptions())
	require.NoError(t, err)
	set, err := e.Compute(lc, 0)
	require.NoError(t, err)

	v, err := set.Lookup(IndexExcursions)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestExcursions_ShiftedScan(t *testing.T) {
	lc, err := analytics.NewLightCurve(
		[]float64{0, 1, 2, 100, 101, 102},
		[]float64{14, 14, 14, 14.5, 14.5, 14.5},
		[]float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.1},
	)
	require.NoError(t, err)

	e, err := NewEngine(DefaultOptions())
	require.NoError(t, err)
	set, err := e.Compute(lc, 0)
	require.NoError(t, err)

	// Spread falls back to the reported error since sigma_MAD is zero.
	assert.InDelta(t, 0.5/(0.1*1.4142135623730951), set.Value(IndexExcursions), 1e-9)
}

func TestCompareScans(t *testing.T) {
	_, st := compareScans([]scanSummary{{level: 1, spread: 1}})
	assert.Equal(t, StatusInsufficientData, st)

	_, st = compareScans([]scanSummary{{level: 1}, {level: 2}})
	assert.Equal(t, StatusDegenerate, st)

	v, st := compareScans([]scanSummary{{level: 0, spread: 3}, {level: 5, spread: 4}, {level: 0, spread: 0}})
	assert.Equal(t, StatusOK, st)
	// pairs: 5/5, 0/3, 5/4
	assert.InDelta(t, (1.0+0.0+1.25)/3, v, 1e-12)
}
