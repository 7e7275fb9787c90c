package variability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/varindex/internal/analytics"
)

func n3For(t *testing.T, mag []float64) (float64, Status) {
	t.Helper()
	jd := make([]float64, len(mag))
	magErr := make([]float64, len(mag))
	for i := range mag {
		jd[i] = float64(i)
		magErr[i] = 0.01
	}
	lc, err := analytics.NewLightCurve(jd, mag, magErr)
	require.NoError(t, err)

	e, err := NewEngine(DefaultOptions())
	require.NoError(t, err)
	set, err := e.Compute(lc, 0)
	require.NoError(t, err)
	return set.Value(IndexN3), set.Status(IndexN3)
}

func TestN3(t *testing.T) {
	tests := []struct {
		name string
		mag  []float64
		want float64
	}{
		{"quiet", []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10}, 0},
		{"three deviant", []float64{10, 10, 10, 10, 10, 11, 11, 11, 10, 10, 10, 10}, 1},
		{"two deviant", []float64{10, 10, 10, 10, 10, 11, 11, 10, 10, 10, 10, 10}, 0},
		{"six deviant", []float64{10, 10, 10, 11, 11, 11, 11, 11, 11, 10, 10, 10, 10, 10, 10}, 2},
		{"mixed signs", []float64{10, 10, 10, 10, 11, 9, 11, 10, 10, 10, 10, 10}, 0},
		{"brightening", []float64{10, 10, 10, 10, 9, 9, 9, 10, 10, 10, 10, 10}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, st := n3For(t, tt.mag)
			assert.Equal(t, StatusOK, st)
			assert.Equal(t, tt.want, got)
		})
	}
}
