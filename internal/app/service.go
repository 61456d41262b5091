// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/sensei/internal/adapters/artifact"
	repository "github.com/okian/sensei/internal/adapters/repository"
	"github.com/okian/sensei/internal/domain/cluster"
	"github.com/okian/sensei/internal/domain/feature"
	"github.com/okian/sensei/internal/domain/insight"
	"github.com/okian/sensei/internal/domain/profile"
	"github.com/okian/sensei/internal/domain/types"
	"github.com/okian/sensei/pkg/logger"
	"github.com/okian/sensei/pkg/metrics"
)

// Service owns the immutable snapshot (raw tables, model, scaler) and runs
// the prediction pipeline against it. After Start returns, every method is
// safe for unsynchronized concurrent use: no request mutates the snapshot.
type Service struct {
	mu sync.RWMutex

	// Snapshot, loaded once at Start.
	store  repository.Store
	model  cluster.Model
	scaler cluster.Scaler
	counts repository.TableCounts

	// Pipeline components.
	schema     feature.Schema
	aggregator *feature.Aggregator
	generator  *insight.Generator
	profiles   profile.Catalog

	// Configuration
	dataDir     string
	modelPath   string
	scalerPath  string
	minDuration float64
	maxDuration float64
	thresholds  insight.Thresholds
	tiers       insight.Tiers

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDataDir sets the directory holding the raw CSV tables.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithModelPath sets the model artifact path.
func WithModelPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.modelPath = path
		}
	}
}

// WithScalerPath sets the scaler artifact path.
func WithScalerPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.scalerPath = path
		}
	}
}

// WithDurationBounds sets the exclusive plausibility bounds for module
// durations, in seconds.
func WithDurationBounds(minSeconds, maxSeconds float64) Option {
	return func(s *Service) {
		if minSeconds >= 0 && maxSeconds > minSeconds {
			s.minDuration = minSeconds
			s.maxDuration = maxSeconds
		}
	}
}

// WithThresholds sets the reason-rule thresholds.
func WithThresholds(t insight.Thresholds) Option {
	return func(s *Service) {
		s.thresholds = t
	}
}

// WithTiers sets the confidence-tier cut points.
func WithTiers(t insight.Tiers) Option {
	return func(s *Service) {
		s.tiers = t
	}
}

// WithProfiles sets the cluster profile catalog.
func WithProfiles(catalog profile.Catalog) Option {
	return func(s *Service) {
		if catalog != nil {
			s.profiles = catalog
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		schema:      feature.DefaultSchema(),
		profiles:    profile.Default(),
		dataDir:     "data",
		modelPath:   "artifacts/model.json",
		scalerPath:  "artifacts/scaler.json",
		minDuration: 5,
		maxDuration: 259_200,
		thresholds:  insight.DefaultThresholds(),
		tiers:       insight.DefaultTiers(),
		logger:      nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the raw tables and the trained artifacts. Any failure is
// returned to the caller and the service must not serve requests; there is
// no partial snapshot.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting insight service...")

	loadStart := time.Now()
	tables, err := repository.LoadTables(s.dataDir)
	if err != nil {
		return fmt.Errorf("load tables from %s: %w", s.dataDir, err)
	}
	s.store = repository.NewMemStore(ctx, tables)
	s.counts = s.store.Counts(ctx)

	s.model, err = artifact.LoadModel(s.modelPath, s.schema)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	s.scaler, err = artifact.LoadScaler(s.scalerPath, s.schema)
	if err != nil {
		return fmt.Errorf("load scaler: %w", err)
	}

	s.aggregator = feature.NewAggregator(
		feature.WithSchema(s.schema),
		feature.WithDurationBounds(s.minDuration, s.maxDuration),
	)
	s.generator = insight.NewGenerator(
		insight.WithThresholds(s.thresholds),
		insight.WithTiers(s.tiers),
	)

	loadMs := float64(time.Since(loadStart).Milliseconds())
	metrics.RecordSnapshotLoad(loadMs)
	metrics.UpdateSnapshotUsers(s.counts.Users)
	metrics.UpdateSnapshotTrackingRows(s.counts.TrackingRows)

	s.started = true
	s.logger.Info(ctx, "insight service started",
		logger.Int("users", s.counts.Users),
		logger.Int("trackingRows", s.counts.TrackingRows),
		logger.Int("tutorialTypes", s.counts.TutorialTypes),
		logger.Int("examRegistrations", s.counts.ExamRegistrations),
		logger.Int("examResults", s.counts.ExamResults),
		logger.Int("submissions", s.counts.Submissions),
		logger.Int("clusters", s.model.Clusters()),
		logger.Float64("loadMs", loadMs),
	)

	return nil
}

// Stop marks the service as stopped. The snapshot holds no external
// resources, so there is nothing to release.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.started = false
	s.logger.Info(context.Background(), "insight service stopped")
}

// Predict runs the full pipeline for one user. An optional override maps
// feature names to values and bypasses aggregation entirely. Not-found and
// no-completed-work users yield a sentinel result, not an error; an error
// means the snapshot and the artifacts disagree.
func (s *Service) Predict(ctx context.Context, userID int64, override map[string]any) (types.Prediction, error) {
	start := time.Now()

	user, found := s.store.User(ctx, userID)
	displayName := "Unknown User"
	switch {
	case found && user.Name != "":
		displayName = user.Name
	case found:
		displayName = "(no name on file)"
	}

	var vec feature.Vector
	if override != nil {
		var failed int
		vec, failed = feature.FromOverride(s.schema, override)
		if failed > 0 {
			for i := 0; i < failed; i++ {
				metrics.RecordOverrideCoercionFailure()
			}
			s.logger.Warn(ctx, "override fields could not be coerced, defaulted to 0",
				logger.Int64("userID", userID),
				logger.Int("failedFields", failed),
			)
		}
	} else {
		vec = s.aggregator.Aggregate(ctx, userID, s.store)
	}

	// A user with nothing completed never reaches the model.
	if vec.Get(feature.FieldModulesCompleted) == 0 {
		status := types.StatusInactive
		outcome := metrics.OutcomeInactive
		if !found {
			status = types.StatusNotFound
			outcome = metrics.OutcomeNotFound
		}
		metrics.RecordPrediction(outcome)
		metrics.RecordPipelineLatency(float64(time.Since(start).Milliseconds()))
		return types.Prediction{
			Label:       types.NotActiveLabel,
			ClusterID:   types.InactiveClusterID,
			Confidence:  0,
			Reasons:     []types.Reason{},
			Narrative:   "",
			Features:    vec,
			UserID:      userID,
			DisplayName: displayName,
			Status:      status,
		}, nil
	}

	scaled, err := s.scaler.Transform(vec.Values())
	if err != nil {
		metrics.RecordPrediction(metrics.OutcomeError)
		metrics.RecordErrorByComponent("pipeline", "scale")
		return types.Prediction{}, fmt.Errorf("scale features for user %d: %w", userID, err)
	}

	asg, err := cluster.Assign(scaled, s.model)
	if err != nil {
		metrics.RecordPrediction(metrics.OutcomeError)
		metrics.RecordErrorByComponent("pipeline", "assign")
		return types.Prediction{}, fmt.Errorf("assign cluster for user %d: %w", userID, err)
	}

	prof := s.profiles.Resolve(asg.ClusterID)
	narrative, reasons := s.generator.Explain(asg.ClusterID, vec, asg.Confidence)

	metrics.RecordPrediction(metrics.OutcomeOK)
	metrics.RecordPipelineLatency(float64(time.Since(start).Milliseconds()))

	return types.Prediction{
		Label:       prof.Label,
		ClusterID:   asg.ClusterID,
		Confidence:  asg.Confidence,
		Reasons:     reasons,
		Narrative:   narrative,
		Features:    vec,
		UserID:      userID,
		DisplayName: displayName,
		Status:      types.StatusOK,
	}, nil
}

// Profiles returns the cluster profile catalog.
func (s *Service) Profiles(_ context.Context) profile.Catalog {
	return s.profiles
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":  s.started,
		"features": len(s.schema),
	}

	if s.started {
		stats["users"] = s.counts.Users
		stats["trackingRows"] = s.counts.TrackingRows
		stats["tutorialTypes"] = s.counts.TutorialTypes
		stats["examRegistrations"] = s.counts.ExamRegistrations
		stats["examResults"] = s.counts.ExamResults
		stats["submissions"] = s.counts.Submissions
		stats["clusters"] = s.model.Clusters()

		// Update metrics
		metrics.UpdateSnapshotUsers(s.counts.Users)
		metrics.UpdateSnapshotTrackingRows(s.counts.TrackingRows)
	}

	return stats
}
