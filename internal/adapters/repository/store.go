// Package repository defines the persistence interface and its
// in-memory and Postgres implementations.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/okian/ember/internal/domain/model"
)

// Store provides read/write access to locations, historical records and
// stored predictions. Implementations must be safe for concurrent use.
type Store interface {
	// CreateLocation persists a new location.
	// Returns ErrDuplicateRegion when the region name is already taken.
	CreateLocation(ctx context.Context, loc model.Location) (model.Location, error)

	// GetLocation fetches a location by id. Returns ErrNotFound if unknown.
	GetLocation(ctx context.Context, id uuid.UUID) (model.Location, error)

	// ListLocations returns locations ordered by region name.
	ListLocations(ctx context.Context, limit, offset int) ([]model.Location, error)

	// CountLocations returns the number of registered locations.
	CountLocations(ctx context.Context) (int, error)

	// AddHistoricalRecord appends a past-event record to a location.
	// Returns ErrNotFound when the owning location is unknown.
	AddHistoricalRecord(ctx context.Context, rec model.HistoricalRecord) (model.HistoricalRecord, error)

	// ListHistory returns a location's historical records ordered by
	// occurrence date.
	ListHistory(ctx context.Context, locationID uuid.UUID) ([]model.HistoricalRecord, error)

	// CreatePrediction persists an assessment for a location.
	// Returns ErrNotFound when the owning location is unknown.
	CreatePrediction(ctx context.Context, p model.Prediction) (model.Prediction, error)

	// ListPredictions returns a location's predictions, newest first.
	ListPredictions(ctx context.Context, locationID uuid.UUID, limit, offset int) ([]model.Prediction, error)
}
