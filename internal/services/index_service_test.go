package services

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/varindex/internal/analytics/variability"
	"github.com/soltixdb/varindex/internal/logging"
	"github.com/soltixdb/varindex/internal/models"
	"github.com/soltixdb/varindex/internal/output"
)

type memorySink struct {
	rows map[string]variability.IndexSet
	err  error
}

func (m *memorySink) Write(_ context.Context, star string, set variability.IndexSet) error {
	if m.err != nil {
		return m.err
	}
	if m.rows == nil {
		m.rows = make(map[string]variability.IndexSet)
	}
	m.rows[star] = set
	return nil
}

func (m *memorySink) Close() error { return nil }

func newTestService(t *testing.T, sink output.Sink, store *output.SQLiteStore) *IndexService {
	t.Helper()
	opts := variability.DefaultOptions()
	opts.Disabled = variability.NewFamilySet(variability.FamilyKurtosis)
	e, err := variability.NewEngine(opts)
	require.NoError(t, err)
	return NewIndexService(logging.NewNop(), e, 2, sink, store)
}

func sampleRequest(name string) *models.LightCurveRequest {
	return &models.LightCurveRequest{
		Name: name,
		JD:   []float64{0, 1, 2, 3, 4, 5, 6, 7},
		Mag:  []float64{10, 10.4, 10.1, 10.5, 10, 10.3, 10.2, 10.6},
		Err:  []float64{0.05, 0.05, 0.05, 0.05, 0.05, 0.05, 0.05, 0.05},
	}
}

func serviceCode(t *testing.T, err error) string {
	t.Helper()
	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr), "expected ServiceError, got %v", err)
	return svcErr.Code
}

func TestIndexService_Columns(t *testing.T) {
	s := newTestService(t, nil, nil)
	cols := s.Columns()
	assert.Equal(t, variability.Columns(), cols.Columns)
	assert.Len(t, cols.Families, len(variability.AllFamilies()))
	assert.Equal(t, []string{"kurtosis"}, cols.Disabled)
}

func TestIndexService_Compute(t *testing.T) {
	sink := &memorySink{}
	s := newTestService(t, sink, nil)

	rec, err := s.Compute(context.Background(), sampleRequest("V0042"))
	require.NoError(t, err)
	assert.Equal(t, "V0042", rec.Star)
	assert.Equal(t, 8, rec.N)
	assert.Equal(t, "disabled", rec.Status["kurtosis"])
	assert.Contains(t, sink.rows, "V0042")

	// anonymous lightcurves are not persisted
	_, err = s.Compute(context.Background(), sampleRequest(""))
	require.NoError(t, err)
	assert.Len(t, sink.rows, 1)
}

func TestIndexService_ComputeSinkFailureIsNotFatal(t *testing.T) {
	s := newTestService(t, &memorySink{err: errors.New("unavailable")}, nil)
	rec, err := s.Compute(context.Background(), sampleRequest("V1"))
	require.NoError(t, err)
	assert.Equal(t, "V1", rec.Star)
}

func TestIndexService_ComputeInvalid(t *testing.T) {
	s := newTestService(t, nil, nil)

	req := sampleRequest("bad")
	req.Err = req.Err[:3]
	_, err := s.Compute(context.Background(), req)
	assert.Equal(t, CodeInvalidLightCurve, serviceCode(t, err))

	req = sampleRequest("bad")
	req.Err[2] = 0
	_, err = s.Compute(context.Background(), req)
	assert.Equal(t, CodeInvalidLightCurve, serviceCode(t, err))

	req = sampleRequest("bad")
	req.Nmax = 3
	_, err = s.Compute(context.Background(), req)
	assert.Equal(t, CodeInvalidLightCurve, serviceCode(t, err))
}

func TestIndexService_ComputeBatch(t *testing.T) {
	sink := &memorySink{}
	s := newTestService(t, sink, nil)

	short := sampleRequest("short")
	short.JD, short.Mag, short.Err = short.JD[:1], short.Mag[:1], short.Err[:1]

	resp, err := s.ComputeBatch(context.Background(), &models.BatchRequest{
		LightCurves: []models.LightCurveRequest{*sampleRequest("a"), *short, *sampleRequest("")},
	})
	require.NoError(t, err)

	require.Len(t, resp.Results, 3)
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, 8, resp.Nmax)
	assert.Equal(t, 1, resp.Failed)
	assert.Equal(t, "a", resp.Results[0].Star)
	assert.Empty(t, resp.Results[0].Error)
	assert.NotEmpty(t, resp.Results[1].Error)
	assert.Equal(t, "lightcurve_2", resp.Results[2].Star)
	assert.Len(t, sink.rows, 3)

	_, err = s.ComputeBatch(context.Background(), &models.BatchRequest{})
	assert.Equal(t, CodeInvalidRequest, serviceCode(t, err))
}

func TestIndexService_Lookup(t *testing.T) {
	_, err := newTestService(t, nil, nil).Lookup(context.Background(), "x")
	assert.Equal(t, CodeStoreDisabled, serviceCode(t, err))

	store, err := output.OpenSQLite(filepath.Join(t.TempDir(), "indices.db"))
	require.NoError(t, err)
	defer store.Close()

	s := newTestService(t, store, store)
	_, err = s.Compute(context.Background(), sampleRequest("V7"))
	require.NoError(t, err)

	rec, err := s.Lookup(context.Background(), "V7")
	require.NoError(t, err)
	assert.Equal(t, 8, rec.N)

	_, err = s.Lookup(context.Background(), "V8")
	assert.Equal(t, CodeStarNotFound, serviceCode(t, err))
}

func TestIndexService_HandleJob(t *testing.T) {
	sink := &memorySink{}
	s := newTestService(t, sink, nil)

	data, err := json.Marshal(sampleRequest("J1"))
	require.NoError(t, err)
	require.NoError(t, s.HandleJob(data))
	assert.Contains(t, sink.rows, "J1")

	// malformed, anonymous and invalid jobs are acknowledged
	assert.NoError(t, s.HandleJob([]byte("{")))
	anon, _ := json.Marshal(sampleRequest(""))
	assert.NoError(t, s.HandleJob(anon))
	assert.NoError(t, s.HandleJob([]byte(`{"name":"x","jd":[1],"mag":[1],"err":[1]}`)))
	assert.Len(t, sink.rows, 1)

	sink.err = errors.New("broker down")
	assert.Error(t, s.HandleJob(data))
}
