package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/soltixdb/varindex/internal/analytics"
	"github.com/soltixdb/varindex/internal/analytics/variability"
	"github.com/soltixdb/varindex/internal/batch"
	"github.com/soltixdb/varindex/internal/logging"
	"github.com/soltixdb/varindex/internal/metrics"
	"github.com/soltixdb/varindex/internal/models"
	"github.com/soltixdb/varindex/internal/output"
)

// IndexService computes variability indices for the HTTP handlers and the
// queue consumer, and persists named results to the configured sinks.
type IndexService struct {
	logger  *logging.Logger
	engine  *variability.Engine
	workers int
	sink    output.Sink         // nil when nothing is persisted
	store   *output.SQLiteStore // nil when lookups are disabled
}

// NewIndexService creates a new IndexService
func NewIndexService(
	logger *logging.Logger,
	engine *variability.Engine,
	workers int,
	sink output.Sink,
	store *output.SQLiteStore,
) *IndexService {
	return &IndexService{
		logger:  logger,
		engine:  engine,
		workers: workers,
		sink:    sink,
		store:   store,
	}
}

// EngineStatus reports the engine configuration for health checks
func (s *IndexService) EngineStatus() models.EngineStatus {
	opts := s.engine.Options()
	disabled := opts.Disabled.Names()
	if disabled == nil {
		disabled = []string{}
	}

	enabled := 0
	for _, f := range variability.AllFamilies() {
		if !opts.Disabled.Has(f) {
			enabled += len(f.Indices())
		}
	}

	return models.EngineStatus{
		Indices:         enabled,
		Disabled:        disabled,
		MaxObservations: opts.MaxObservations,
		Store:           s.store != nil,
	}
}

// Columns describes the index columns and the family selection
func (s *IndexService) Columns() models.ColumnsResponse {
	families := variability.AllFamilies()
	names := make([]string, len(families))
	for i, f := range families {
		names[i] = f.String()
	}
	return models.ColumnsResponse{
		Columns:  variability.Columns(),
		Families: names,
		Disabled: s.engine.Options().Disabled.Names(),
	}
}

// Compute calculates the indices of one lightcurve. A failure to persist
// the result is logged and does not fail the request.
func (s *IndexService) Compute(ctx context.Context, req *models.LightCurveRequest) (*variability.Record, error) {
	set, err := s.compute(req)
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, req.Name, set); err != nil {
		kErr, vErr := logging.Err(err)
		logging.FromContext(ctx).WithContext(ctx).Warn("Failed to persist indices", "star", req.Name, kErr, vErr)
	}

	rec := set.Record(req.Name)
	return &rec, nil
}

func (s *IndexService) compute(req *models.LightCurveRequest) (variability.IndexSet, error) {
	lc, err := req.LightCurve()
	if err != nil {
		return variability.IndexSet{}, wrapError(CodeInvalidLightCurve, err)
	}

	start := time.Now()
	set, err := s.engine.Compute(lc, req.Nmax)
	if err != nil {
		metrics.ObserveStar(lc.Len(), nil, time.Since(start))
		return variability.IndexSet{}, engineError(err, lc.Len())
	}
	metrics.ObserveStar(lc.Len(), &set, time.Since(start))
	return set, nil
}

// persist writes named results to the sink. Anonymous lightcurves are
// returned to the caller only.
func (s *IndexService) persist(ctx context.Context, star string, set variability.IndexSet) error {
	if s.sink == nil || star == "" {
		return nil
	}
	return s.sink.Write(ctx, star, set)
}

// ComputeBatch calculates the indices of many lightcurves. Lightcurves
// that cannot be processed are reported per item.
func (s *IndexService) ComputeBatch(ctx context.Context, req *models.BatchRequest) (*models.BatchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, wrapError(CodeInvalidRequest, err)
	}

	jobs := make([]batch.Job, len(req.LightCurves))
	for i, lcReq := range req.LightCurves {
		star := lcReq.Name
		if star == "" {
			star = fmt.Sprintf("lightcurve_%d", i)
		}
		jobs[i] = batch.Job{
			Star:       star,
			LightCurve: analytics.LightCurve{Name: star, JD: lcReq.JD, Mag: lcReq.Mag, MagErr: lcReq.Err},
		}
	}

	opts := []batch.Option{
		batch.WithWorkers(s.workers),
		batch.WithNmax(req.Nmax),
		batch.WithLogger(logging.FromContext(ctx)),
	}
	if s.sink != nil {
		opts = append(opts, batch.WithSink(s.sink))
	}

	results, summary, err := batch.NewRunner(s.engine, opts...).Run(ctx, jobs)
	if err != nil {
		return nil, wrapError(CodeInternal, err)
	}

	resp := &models.BatchResponse{
		RunID:     summary.RunID,
		Nmax:      summary.Nmax,
		Failed:    summary.Failed,
		ElapsedMs: summary.Elapsed.Milliseconds(),
		Results:   make([]models.IndexResult, len(results)),
	}
	for i, res := range results {
		rec := res.Set.Record(res.Star)
		item := models.IndexResult{Star: rec.Star, N: rec.N, Indices: rec.Indices, Status: rec.Status}
		if res.Err != nil {
			item.Error = res.Err.Error()
		}
		resp.Results[i] = item
	}
	return resp, nil
}

// Lookup returns the stored indices of a star
func (s *IndexService) Lookup(ctx context.Context, star string) (*variability.Record, error) {
	if s.store == nil {
		return nil, NewServiceError(CodeStoreDisabled, "result store is not configured")
	}

	rec, err := s.store.Get(ctx, star)
	if errors.Is(err, output.ErrStarNotFound) {
		return nil, wrapError(CodeStarNotFound, err)
	}
	if err != nil {
		return nil, wrapError(CodeInternal, err)
	}
	return &rec, nil
}

// HandleJob processes one queue job. Malformed jobs are logged and
// acknowledged; service-side failures are returned so the backend redelivers.
func (s *IndexService) HandleJob(data []byte) error {
	var req models.LightCurveRequest
	if err := json.Unmarshal(data, &req); err != nil {
		kErr, vErr := logging.Err(err)
		s.logger.Warn("Dropping malformed job", kErr, vErr)
		return nil
	}
	if req.Name == "" {
		s.logger.Warn("Dropping job without a star name", "n", len(req.JD))
		return nil
	}

	set, err := s.compute(&req)
	if err != nil {
		var svcErr *ServiceError
		if errors.As(err, &svcErr) && !svcErr.ClientFault() {
			return fmt.Errorf("failed to compute %s: %w", req.Name, err)
		}
		kErr, vErr := logging.Err(err)
		s.logger.Warn("Dropping job", "star", req.Name, kErr, vErr)
		return nil
	}

	if err := s.persist(context.Background(), req.Name, set); err != nil {
		return fmt.Errorf("failed to persist %s: %w", req.Name, err)
	}
	s.logger.Debug("Job processed", "star", req.Name, "n", set.N())
	return nil
}
