package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/varindex/internal/utils"
)

func TestLightCurveRequest_LightCurve(t *testing.T) {
	var req LightCurveRequest
	body := `{"name":"V0001","jd":[1,2,3],"mag":[10,10.1,10.2],"err":[0.01,0.01,0.02],"nmax":5}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	lc, err := req.LightCurve()
	require.NoError(t, err)
	assert.Equal(t, "V0001", lc.Name)
	assert.Equal(t, 3, lc.Len())
	assert.Equal(t, 5, req.Nmax)

	req.Err = req.Err[:2]
	_, err = req.LightCurve()
	assert.Error(t, err)
}

func TestBatchRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     BatchRequest
		wantErr bool
	}{
		{"empty", BatchRequest{}, true},
		{"negative nmax", BatchRequest{Nmax: -1, LightCurves: make([]LightCurveRequest, 1)}, true},
		{"too many", BatchRequest{LightCurves: make([]LightCurveRequest, utils.MaxBatchLightCurves+1)}, true},
		{"ok", BatchRequest{Nmax: 10, LightCurves: make([]LightCurveRequest, 2)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
