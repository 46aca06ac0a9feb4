// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/ember/internal/adapters/mq/dispatch"
	alertqueue "github.com/okian/ember/internal/adapters/mq/queue"
	"github.com/okian/ember/internal/adapters/repository"
	"github.com/okian/ember/internal/domain/dedupe"
	"github.com/okian/ember/internal/domain/history"
	"github.com/okian/ember/internal/domain/model"
	"github.com/okian/ember/internal/domain/scoring"
	"github.com/okian/ember/pkg/logger"
	"github.com/okian/ember/pkg/metrics"
)

// Service implements the API dependencies for the wildfire risk system.
// The core scoring path stays pure; the service owns the collaborators
// around it: the store, the alert queue and the dispatcher pool.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	scorer     *scoring.Scorer
	deduper    dedupe.Deduper
	alertQueue alertqueue.Queue
	publisher  dispatch.Publisher
	pool       *dispatch.Pool

	// Configuration
	queueSize       int
	dispatcherCount int
	dedupeSize      int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the persistence backend.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithScorer sets a custom risk scorer.
func WithScorer(scorer *scoring.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// WithAlertPublisher sets the destination for high-risk alerts.
func WithAlertPublisher(pub dispatch.Publisher) Option {
	return func(s *Service) {
		if pub != nil {
			s.publisher = pub
		}
	}
}

// WithAlertQueueSize sets the maximum size of the alert queue.
func WithAlertQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDispatcherCount sets the number of alert dispatcher goroutines.
func WithDispatcherCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.dispatcherCount = count
		}
	}
}

// WithAlertDedupeSize sets the size of the alert suppression cache.
func WithAlertDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:       1024,
		dispatcherCount: 2,
		dedupeSize:      10000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
		s.logger.Info(ctx, "no database configured; using in-memory store")
	}
	if s.scorer == nil {
		s.scorer = scoring.New()
	}
	if s.publisher == nil {
		s.publisher = dispatch.NewLogPublisher(s.logger.Named("alerts"))
	}

	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.alertQueue = alertqueue.NewInMemoryQueue(
		alertqueue.WithCapacity(s.queueSize),
	)
	s.pool = dispatch.NewPool(s.dispatcherCount, s.alertQueue, s.publisher, s.deduper)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "wildfire risk service started",
		logger.Int("dispatchers", s.dispatcherCount),
		logger.Int("alertQueueSize", s.queueSize),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping wildfire risk service...")

	if s.alertQueue != nil {
		if q, ok := s.alertQueue.(*alertqueue.InMemoryQueue); ok {
			_ = q.Close()
		}
	}
	if s.pool != nil {
		s.pool.Stop()
	}
	if closer, ok := s.publisher.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(ctx, "wildfire risk service stopped")
}

// CreateLocation registers a new region.
func (s *Service) CreateLocation(ctx context.Context, regionName, coordinates string) (model.Location, error) {
	loc := model.Location{
		ID:          uuid.New(),
		RegionName:  strings.TrimSpace(regionName),
		Coordinates: strings.TrimSpace(coordinates),
	}
	created, err := s.store.CreateLocation(ctx, loc)
	if err != nil {
		return model.Location{}, err
	}
	s.logger.Info(ctx, "location created",
		logger.String("locationID", created.ID.String()),
		logger.String("region", created.RegionName),
	)
	return created, nil
}

// GetLocation fetches one location by id.
func (s *Service) GetLocation(ctx context.Context, id uuid.UUID) (model.Location, error) {
	return s.store.GetLocation(ctx, id)
}

// ListLocations returns registered locations ordered by region name.
func (s *Service) ListLocations(ctx context.Context, limit, offset int) ([]model.Location, error) {
	return s.store.ListLocations(ctx, limit, offset)
}

// AddHistory appends a past-event record to a location.
func (s *Service) AddHistory(ctx context.Context, locationID uuid.UUID, occurredAt time.Time, description string) (model.HistoricalRecord, error) {
	rec := model.HistoricalRecord{
		ID:          uuid.New(),
		LocationID:  locationID,
		OccurredAt:  occurredAt,
		Description: description,
	}
	return s.store.AddHistoricalRecord(ctx, rec)
}

// ListHistory returns a location's historical records.
func (s *Service) ListHistory(ctx context.Context, locationID uuid.UUID) ([]model.HistoricalRecord, error) {
	return s.store.ListHistory(ctx, locationID)
}

// Predict is the composition root for the scoring core: it resolves the
// location, classifies its historical records, scores the environmental
// input, persists the assessment, and enqueues an alert when the final
// level is High. Input ranges are validated by the HTTP boundary before
// this method runs.
func (s *Service) Predict(ctx context.Context, locationID uuid.UUID, input model.EnvironmentalInput) (model.Prediction, error) {
	start := time.Now()

	loc, err := s.store.GetLocation(ctx, locationID)
	if err != nil {
		return model.Prediction{}, err
	}

	records, err := s.store.ListHistory(ctx, locationID)
	if err != nil {
		return model.Prediction{}, err
	}

	historical := history.Classify(records)
	assessment := s.scorer.Score(input, historical)

	pred := model.Prediction{
		ID:          uuid.New(),
		LocationID:  loc.ID,
		Level:       assessment.Level,
		Score:       assessment.Score,
		GeneratedAt: assessment.GeneratedAt,
	}
	stored, err := s.store.CreatePrediction(ctx, pred)
	if err != nil {
		return model.Prediction{}, err
	}

	metrics.RecordPrediction(string(stored.Level))
	metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))

	s.logger.Info(ctx, "prediction stored",
		logger.String("predictionID", stored.ID.String()),
		logger.String("region", loc.RegionName),
		logger.String("historicalRisk", string(historical)),
		logger.Int("score", stored.Score),
		logger.String("level", string(stored.Level)),
	)

	if stored.Level == model.RiskHigh {
		s.enqueueAlert(ctx, loc, stored)
	}

	return stored, nil
}

// enqueueAlert pushes a high-risk alert for async publishing. Queue
// backpressure drops the alert; the prediction itself is already stored.
func (s *Service) enqueueAlert(ctx context.Context, loc model.Location, pred model.Prediction) {
	alert := model.Alert{
		ID:          uuid.New(),
		LocationID:  loc.ID,
		RegionName:  loc.RegionName,
		Level:       pred.Level,
		Score:       pred.Score,
		GeneratedAt: pred.GeneratedAt,
	}
	if ok := s.alertQueue.Enqueue(ctx, alert); !ok {
		s.logger.Warn(ctx, "alert queue full; alert dropped",
			logger.String("locationID", loc.ID.String()),
			logger.String("region", loc.RegionName),
		)
	}
}

// ListPredictions returns a location's stored predictions, newest first.
func (s *Service) ListPredictions(ctx context.Context, locationID uuid.UUID, limit, offset int) ([]model.Prediction, error) {
	return s.store.ListPredictions(ctx, locationID, limit, offset)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"dispatcherCount": s.dispatcherCount,
		"alertQueueSize":  s.queueSize,
	}

	if s.started {
		queueLen := s.alertQueue.Len(ctx)
		stats["alertQueueLength"] = queueLen
		stats["suppressedKeys"] = s.deduper.Size()

		if n, err := s.store.CountLocations(ctx); err == nil {
			stats["totalLocations"] = n
			metrics.UpdateLocationsTotal(n)
		}
	}

	return stats
}
