package models

import (
	"fmt"

	"github.com/soltixdb/varindex/internal/analytics"
	"github.com/soltixdb/varindex/internal/utils"
)

// LightCurveRequest is one star's lightcurve. It is the body of
// POST /v1/indices and the payload of a queue job.
type LightCurveRequest struct {
	Name string    `json:"name"`
	JD   []float64 `json:"jd"`
	Mag  []float64 `json:"mag"`
	Err  []float64 `json:"err"`
	Nmax int       `json:"nmax,omitempty"` // 0 = number of points
}

// LightCurve converts the request into the engine input
func (r *LightCurveRequest) LightCurve() (analytics.LightCurve, error) {
	lc, err := analytics.NewLightCurve(r.JD, r.Mag, r.Err)
	if err != nil {
		return analytics.LightCurve{}, err
	}
	lc.Name = r.Name
	return lc, nil
}

// BatchRequest is the body of POST /v1/indices/batch
type BatchRequest struct {
	Nmax        int                 `json:"nmax,omitempty"` // 0 = longest lightcurve of the batch
	LightCurves []LightCurveRequest `json:"lightcurves"`
}

// Validate checks the batch size
func (r *BatchRequest) Validate() error {
	if len(r.LightCurves) == 0 {
		return fmt.Errorf("lightcurves cannot be empty")
	}
	if len(r.LightCurves) > utils.MaxBatchLightCurves {
		return fmt.Errorf("too many lightcurves: %d (max %d)", len(r.LightCurves), utils.MaxBatchLightCurves)
	}
	if r.Nmax < 0 {
		return fmt.Errorf("nmax cannot be negative")
	}
	return nil
}
