package analytics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLightCurve_LengthMismatch(t *testing.T) {
	_, err := NewLightCurve([]float64{1, 2}, []float64{10}, []float64{0.1, 0.1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLengthMismatch))
}

func TestTimeOrder(t *testing.T) {
	lc := LightCurve{
		JD:     []float64{5, 1, 3, 1, 2},
		Mag:    []float64{10, 12, 10, 11, 10},
		MagErr: []float64{0.1, 0.1, 0.1, 0.1, 0.1},
	}
	perm := TimeOrder(lc)

	assert.Equal(t, []int{3, 1, 4, 2, 0}, perm)
	// Input untouched
	assert.Equal(t, []float64{5, 1, 3, 1, 2}, lc.JD)
}

func TestTimeOrder_DuplicateTimestampsIgnoreInputOrder(t *testing.T) {
	a := LightCurve{
		JD:     []float64{0, 0, 1, 1, 1},
		Mag:    []float64{10.2, 10.1, 9.9, 9.9, 10.4},
		MagErr: []float64{0.1, 0.1, 0.3, 0.2, 0.1},
	}
	b := LightCurve{
		JD:     []float64{1, 1, 0, 1, 0},
		Mag:    []float64{10.4, 9.9, 10.1, 9.9, 10.2},
		MagErr: []float64{0.1, 0.3, 0.1, 0.2, 0.1},
	}

	va, vb := NewSortedView(a), NewSortedView(b)
	for i := 0; i < va.Len(); i++ {
		assert.Equal(t, va.JD(i), vb.JD(i), "point %d", i)
		assert.Equal(t, va.Mag(i), vb.Mag(i), "point %d", i)
		assert.Equal(t, va.Err(i), vb.Err(i), "point %d", i)
	}
	assert.Equal(t, []float64{10.1, 10.2, 9.9, 9.9, 10.4}, va.Mags())
	assert.Equal(t, 0.2, va.Err(2))
}

func TestSortedView_DoesNotReorderCaller(t *testing.T) {
	lc, err := NewLightCurve(
		[]float64{3, 1, 2},
		[]float64{13, 11, 12},
		[]float64{0.3, 0.1, 0.2},
	)
	require.NoError(t, err)

	v := NewSortedView(lc)
	require.Equal(t, 3, v.Len())

	for i := 0; i < v.Len(); i++ {
		assert.Equal(t, float64(i+1), v.JD(i))
		assert.Equal(t, float64(i+11), v.Mag(i))
		assert.InDelta(t, 0.1*float64(i+1), v.Err(i), 1e-12)
	}
	assert.Equal(t, []float64{3, 1, 2}, lc.JD)
	assert.Equal(t, 2.0, v.Span())
	assert.Equal(t, []float64{11, 12, 13}, v.Mags())
}

func TestSortedView_Means(t *testing.T) {
	lc := FromObservations("star", []Observation{
		{JD: 0, Mag: 10, MagErr: 0.1},
		{JD: 1, Mag: 12, MagErr: 0.1},
	})
	v := NewSortedView(lc)

	assert.InDelta(t, 11.0, v.Mean(), 1e-12)
	assert.InDelta(t, 11.0, v.WeightedMean(), 1e-12)

	lc.MagErr[1] = 0.2
	v = NewSortedView(lc)
	// weights 100 and 25
	assert.InDelta(t, (100*10.0+25*12.0)/125.0, v.WeightedMean(), 1e-12)
}
