package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/varindex/internal/analytics/variability"
)

func TestObserveStar(t *testing.T) {
	okBefore := testutil.ToFloat64(starsProcessed.WithLabelValues(OutcomeOK))
	failedBefore := testutil.ToFloat64(starsProcessed.WithLabelValues(OutcomeFailed))
	skewBefore := testutil.ToFloat64(indexStatus.WithLabelValues("skewness", "insufficient_data"))

	set := variability.EmptyIndexSet(2)
	ObserveStar(2, &set, time.Millisecond)
	ObserveStar(1, nil, time.Millisecond)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(starsProcessed.WithLabelValues(OutcomeOK)))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(starsProcessed.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, skewBefore+1, testutil.ToFloat64(indexStatus.WithLabelValues("skewness", "insufficient_data")))
}

func TestObserveBatchAndInFlight(t *testing.T) {
	failedBefore := testutil.ToFloat64(batchRuns.WithLabelValues(OutcomeFailed))
	ObserveBatch(errors.New("cancelled"))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(batchRuns.WithLabelValues(OutcomeFailed)))

	before := testutil.ToFloat64(inFlight)
	done := TrackInFlight()
	assert.Equal(t, before+1, testutil.ToFloat64(inFlight))
	done()
	assert.Equal(t, before, testutil.ToFloat64(inFlight))
}

func TestHandler(t *testing.T) {
	ObserveBatch(nil)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "varindex_batch_runs_total"))
}
