package variability

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFamily(t *testing.T) {
	f, err := ParseFamily("stetson_jkl_clip")
	require.NoError(t, err)
	assert.Equal(t, FamilyStetsonJKLClip, f)

	f, err = ParseFamily("  ETA ")
	require.NoError(t, err)
	assert.Equal(t, FamilyEta, f)

	_, err = ParseFamily("periodogram")
	assert.Error(t, err)
}

func TestFamiliesCoverEveryIndexOnce(t *testing.T) {
	owner := make(map[Index]Family)
	for _, f := range AllFamilies() {
		for _, ix := range f.Indices() {
			prev, dup := owner[ix]
			assert.False(t, dup, "%s owned by %s and %s", ix, prev, f)
			owner[ix] = f
		}
		_, registered := calculatorRegistry[f]
		assert.True(t, registered, "family %s has no calculator", f)
	}
	assert.Len(t, owner, NumIndices)
}

func TestFamilySet(t *testing.T) {
	s, err := ParseFamilySet([]string{"kurtosis", "mad", "mad"})
	require.NoError(t, err)
	assert.True(t, s.Has(FamilyMAD))
	assert.True(t, s.Has(FamilyKurtosis))
	assert.False(t, s.Has(FamilyIQR))
	assert.Equal(t, []string{"kurtosis", "mad"}, s.Names())

	_, err = ParseFamilySet([]string{"mad", "bogus"})
	assert.Error(t, err)

	assert.Empty(t, FamilySet(0).Names())
}

func TestOptionsValidate(t *testing.T) {
	require.NoError(t, DefaultOptions().Validate())

	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"zero pair gap", func(o *Options) { o.PairMaxTimeGap = 0 }},
		{"infinite pair gap", func(o *Options) { o.PairMaxTimeGap = math.Inf(1) }},
		{"NaN clip", func(o *Options) { o.PairMagClip = math.NaN() }},
		{"negative scan gap", func(o *Options) { o.ScanGap = -1 }},
		{"no iterations", func(o *Options) { o.RobustMeanMaxIter = 0 }},
		{"zero tolerance", func(o *Options) { o.RobustMeanTol = 0 }},
		{"zero n3 sigma", func(o *Options) { o.N3Sigma = 0 }},
		{"tiny sub-window", func(o *Options) { o.SubWindowMinPoints = 1 }},
		{"tiny observation cap", func(o *Options) { o.MaxObservations = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			tt.mutate(&o)
			assert.Error(t, o.Validate())
		})
	}
}

func TestColumns(t *testing.T) {
	cols := Columns()
	require.Len(t, cols, NumIndices)
	assert.Equal(t, "I", cols[0])
	assert.Equal(t, "lag1_autocorrelation", cols[NumIndices-1])

	for _, name := range cols {
		ix, err := ParseIndex(name)
		require.NoError(t, err)
		assert.Equal(t, name, ix.String())
	}
	_, err := ParseIndex("Q")
	assert.Error(t, err)
}

func TestStatus(t *testing.T) {
	assert.NoError(t, StatusOK.Err())
	assert.ErrorIs(t, StatusDisabled.Err(), ErrDisabled)
	assert.ErrorIs(t, StatusInsufficientData.Err(), ErrInsufficientData)
	assert.ErrorIs(t, StatusDegenerate.Err(), ErrDegenerate)
	assert.ErrorIs(t, StatusNonFinite.Err(), ErrNonFinite)
	assert.Equal(t, "non_finite", StatusNonFinite.String())
}

func TestIndexSet_NonFiniteStoredAsZero(t *testing.T) {
	s := EmptyIndexSet(3)
	s.set(IndexChi2, math.Inf(1))
	s.set(IndexNXS, math.NaN())
	s.set(IndexK, 0.8)

	assert.Equal(t, 0.0, s.Value(IndexChi2))
	assert.Equal(t, StatusNonFinite, s.Status(IndexChi2))
	assert.Equal(t, StatusNonFinite, s.Status(IndexNXS))
	assert.Equal(t, 0.8, s.Value(IndexK))
	assert.Equal(t, StatusInsufficientData, s.Status(IndexJ))
}

func TestIndexSet_MarshalJSON(t *testing.T) {
	s := EmptyIndexSet(5)
	s.set(IndexJ, 1.25)

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	indices, ok := decoded["indices"].(map[string]interface{})
	require.True(t, ok, string(raw))
	assert.Equal(t, 1.25, indices["J"])
}
