package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/ember/internal/domain/model"
	"github.com/okian/ember/pkg/metrics"
)

// MemoryStore implements Store with mutex-guarded maps. It backs tests and
// runs the service without a database.
type MemoryStore struct {
	mu          sync.RWMutex
	locations   map[uuid.UUID]model.Location
	regions     map[string]uuid.UUID // lowercased region name -> location id
	history     map[uuid.UUID][]model.HistoricalRecord
	predictions map[uuid.UUID][]model.Prediction
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		locations:   make(map[uuid.UUID]model.Location),
		regions:     make(map[string]uuid.UUID),
		history:     make(map[uuid.UUID][]model.HistoricalRecord),
		predictions: make(map[uuid.UUID][]model.Prediction),
	}
}

// CreateLocation persists a new location, rejecting duplicate region names.
func (s *MemoryStore) CreateLocation(_ context.Context, loc model.Location) (model.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(strings.TrimSpace(loc.RegionName))
	if _, exists := s.regions[key]; exists {
		return model.Location{}, ErrDuplicateRegion
	}
	if loc.ID == uuid.Nil {
		loc.ID = uuid.New()
	}
	s.locations[loc.ID] = loc
	s.regions[key] = loc.ID
	metrics.UpdateLocationsTotal(len(s.locations))
	return loc, nil
}

// GetLocation fetches a location by id.
func (s *MemoryStore) GetLocation(_ context.Context, id uuid.UUID) (model.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loc, ok := s.locations[id]
	if !ok {
		return model.Location{}, ErrNotFound
	}
	return loc, nil
}

// ListLocations returns locations ordered by region name.
func (s *MemoryStore) ListLocations(_ context.Context, limit, offset int) ([]model.Location, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	all := make([]model.Location, 0, len(s.locations))
	for _, loc := range s.locations {
		all = append(all, loc)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].RegionName < all[j].RegionName })
	return page(all, limit, offset), nil
}

// CountLocations returns the number of registered locations.
func (s *MemoryStore) CountLocations(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.locations), nil
}

// AddHistoricalRecord appends a past-event record to a location.
func (s *MemoryStore) AddHistoricalRecord(_ context.Context, rec model.HistoricalRecord) (model.HistoricalRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.locations[rec.LocationID]; !ok {
		return model.HistoricalRecord{}, ErrNotFound
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = time.Now().UTC()
	}
	s.history[rec.LocationID] = append(s.history[rec.LocationID], rec)
	return rec, nil
}

// ListHistory returns a location's historical records ordered by occurrence date.
func (s *MemoryStore) ListHistory(_ context.Context, locationID uuid.UUID) ([]model.HistoricalRecord, error) {
	s.mu.RLock()
	if _, ok := s.locations[locationID]; !ok {
		s.mu.RUnlock()
		return nil, ErrNotFound
	}
	records := make([]model.HistoricalRecord, len(s.history[locationID]))
	copy(records, s.history[locationID])
	s.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool { return records[i].OccurredAt.Before(records[j].OccurredAt) })
	return records, nil
}

// CreatePrediction persists an assessment for a location.
func (s *MemoryStore) CreatePrediction(_ context.Context, p model.Prediction) (model.Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.locations[p.LocationID]; !ok {
		return model.Prediction{}, ErrNotFound
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.predictions[p.LocationID] = append(s.predictions[p.LocationID], p)
	return p, nil
}

// ListPredictions returns a location's predictions, newest first.
func (s *MemoryStore) ListPredictions(_ context.Context, locationID uuid.UUID, limit, offset int) ([]model.Prediction, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	if _, ok := s.locations[locationID]; !ok {
		s.mu.RUnlock()
		return nil, ErrNotFound
	}
	preds := make([]model.Prediction, len(s.predictions[locationID]))
	copy(preds, s.predictions[locationID])
	s.mu.RUnlock()

	sort.Slice(preds, func(i, j int) bool { return preds[i].GeneratedAt.After(preds[j].GeneratedAt) })
	return page(preds, limit, offset), nil
}

// page applies limit/offset to a sorted slice.
func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
