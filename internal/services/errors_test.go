package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/varindex/internal/analytics"
	"github.com/soltixdb/varindex/internal/analytics/variability"
	"github.com/soltixdb/varindex/internal/output"
)

func TestServiceError_HTTPStatus(t *testing.T) {
	tests := []struct {
		code        string
		status      int
		clientFault bool
	}{
		{CodeInvalidJSON, http.StatusBadRequest, true},
		{CodeInvalidRequest, http.StatusBadRequest, true},
		{CodeInvalidLightCurve, http.StatusBadRequest, true},
		{CodeStarNotFound, http.StatusNotFound, true},
		{CodeStoreDisabled, http.StatusNotImplemented, false},
		{CodeInternal, http.StatusInternalServerError, false},
		{"SOMETHING_NEW", http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := NewServiceError(tt.code, "msg")
			assert.Equal(t, tt.status, err.HTTPStatus())
			assert.Equal(t, tt.clientFault, err.ClientFault())
		})
	}
}

func TestWrapError_KeepsCause(t *testing.T) {
	cause := fmt.Errorf("lookup M31-V1: %w", output.ErrStarNotFound)
	err := wrapError(CodeStarNotFound, cause)

	assert.Equal(t, cause.Error(), err.Error())
	assert.ErrorIs(t, err, output.ErrStarNotFound)

	var svcErr *ServiceError
	require.True(t, errors.As(error(err), &svcErr))
	assert.Equal(t, CodeStarNotFound, svcErr.Code)
}

func TestEngineError(t *testing.T) {
	e, err := variability.NewEngine(variability.DefaultOptions())
	require.NoError(t, err)

	single := analytics.LightCurve{JD: []float64{1}, Mag: []float64{12}, MagErr: []float64{0.1}}
	_, computeErr := e.Compute(single, 0)
	require.Error(t, computeErr)

	svcErr := engineError(computeErr, single.Len())
	assert.Equal(t, CodeInvalidLightCurve, svcErr.Code)
	assert.True(t, svcErr.ClientFault())
	assert.ErrorIs(t, svcErr, variability.ErrInsufficientData)
	assert.Equal(t, 1, svcErr.Details["n"])
	assert.Equal(t, "insufficient_data", svcErr.Details["reason"])

	badErr := analytics.LightCurve{JD: []float64{1, 2}, Mag: []float64{12, 12}, MagErr: []float64{0.1, -0.1}}
	_, computeErr = e.Compute(badErr, 0)
	svcErr = engineError(computeErr, badErr.Len())
	assert.Equal(t, CodeInvalidLightCurve, svcErr.Code)
	assert.ErrorIs(t, svcErr, variability.ErrInvalidInput)
	assert.NotContains(t, svcErr.Details, "reason")

	svcErr = engineError(fmt.Errorf("%w: makeslice: len out of range", variability.ErrAllocation), 10)
	assert.Equal(t, CodeInternal, svcErr.Code)
	assert.False(t, svcErr.ClientFault())
	assert.Nil(t, svcErr.Details)
}

func TestServiceError_JSONOmitsCause(t *testing.T) {
	err := wrapError(CodeInvalidRequest, errors.New("lightcurves: at least one is required"))

	raw, mErr := json.Marshal(err)
	require.NoError(t, mErr)
	assert.JSONEq(t, `{"code":"INVALID_REQUEST","message":"lightcurves: at least one is required"}`, string(raw))
}
