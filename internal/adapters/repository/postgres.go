package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/ember/internal/domain/model"
	"github.com/okian/ember/pkg/metrics"
)

//go:embed sql/*.sql
var migrationFS embed.FS

// Postgres error codes mapped to store sentinels.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Compile-time interface check.
var _ Store = (*PostgresStore)(nil)

// OpenPostgres connects to the database, runs migrations, and returns a
// ready store. The pool is an explicitly passed handle; there is no global
// engine state.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// migrate applies the embedded SQL files in lexical order.
func (s *PostgresStore) migrate(ctx context.Context) error {
	entries, err := migrationFS.ReadDir("sql")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		body, err := migrationFS.ReadFile("sql/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := s.pool.Exec(ctx, string(body)); err != nil {
			return fmt.Errorf("exec migration %s: %w", name, err)
		}
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// CreateLocation persists a new location, rejecting duplicate region names.
func (s *PostgresStore) CreateLocation(ctx context.Context, loc model.Location) (model.Location, error) {
	defer observe("create_location", time.Now())

	if loc.ID == uuid.Nil {
		loc.ID = uuid.New()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO locations (location_id, region_name, fake_coordinates)
		VALUES ($1, $2, $3)
	`, loc.ID, loc.RegionName, loc.Coordinates)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return model.Location{}, ErrDuplicateRegion
		}
		metrics.RecordStoreError()
		return model.Location{}, fmt.Errorf("insert location: %w", err)
	}
	return loc, nil
}

// GetLocation fetches a location by id.
func (s *PostgresStore) GetLocation(ctx context.Context, id uuid.UUID) (model.Location, error) {
	defer observe("get_location", time.Now())

	var loc model.Location
	err := s.pool.QueryRow(ctx, `
		SELECT location_id, region_name, COALESCE(fake_coordinates, '')
		FROM locations
		WHERE location_id = $1
	`, id).Scan(&loc.ID, &loc.RegionName, &loc.Coordinates)
	if err != nil {
		if isNoRows(err) {
			return model.Location{}, ErrNotFound
		}
		metrics.RecordStoreError()
		return model.Location{}, fmt.Errorf("query location: %w", err)
	}
	return loc, nil
}

// ListLocations returns locations ordered by region name.
func (s *PostgresStore) ListLocations(ctx context.Context, limit, offset int) ([]model.Location, error) {
	defer observe("list_locations", time.Now())

	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	rows, err := s.pool.Query(ctx, `
		SELECT location_id, region_name, COALESCE(fake_coordinates, '')
		FROM locations
		ORDER BY region_name
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()

	locations := []model.Location{}
	for rows.Next() {
		var loc model.Location
		if err := rows.Scan(&loc.ID, &loc.RegionName, &loc.Coordinates); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

// CountLocations returns the number of registered locations.
func (s *PostgresStore) CountLocations(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM locations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count locations: %w", err)
	}
	return n, nil
}

// AddHistoricalRecord appends a past-event record to a location.
func (s *PostgresStore) AddHistoricalRecord(ctx context.Context, rec model.HistoricalRecord) (model.HistoricalRecord, error) {
	defer observe("add_historical_record", time.Now())

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO historical_records (historical_id, location_id, date_occurred, historical_data)
		VALUES ($1, $2, $3, $4)
	`, rec.ID, rec.LocationID, rec.OccurredAt, rec.Description)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return model.HistoricalRecord{}, ErrNotFound
		}
		metrics.RecordStoreError()
		return model.HistoricalRecord{}, fmt.Errorf("insert historical record: %w", err)
	}
	return rec, nil
}

// ListHistory returns a location's historical records ordered by occurrence date.
func (s *PostgresStore) ListHistory(ctx context.Context, locationID uuid.UUID) ([]model.HistoricalRecord, error) {
	defer observe("list_history", time.Now())

	if _, err := s.GetLocation(ctx, locationID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT historical_id, location_id, date_occurred, COALESCE(historical_data, '')
		FROM historical_records
		WHERE location_id = $1
		ORDER BY date_occurred
	`, locationID)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("query historical records: %w", err)
	}
	defer rows.Close()

	records := []model.HistoricalRecord{}
	for rows.Next() {
		var rec model.HistoricalRecord
		if err := rows.Scan(&rec.ID, &rec.LocationID, &rec.OccurredAt, &rec.Description); err != nil {
			return nil, fmt.Errorf("scan historical record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CreatePrediction persists an assessment for a location.
func (s *PostgresStore) CreatePrediction(ctx context.Context, p model.Prediction) (model.Prediction, error) {
	defer observe("create_prediction", time.Now())

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO predictions (prediction_id, location_id, risk_level, risk_score, date_generated)
		VALUES ($1, $2, $3, $4, $5)
	`, p.ID, p.LocationID, string(p.Level), p.Score, p.GeneratedAt)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return model.Prediction{}, ErrNotFound
		}
		metrics.RecordStoreError()
		return model.Prediction{}, fmt.Errorf("insert prediction: %w", err)
	}
	return p, nil
}

// ListPredictions returns a location's predictions, newest first.
func (s *PostgresStore) ListPredictions(ctx context.Context, locationID uuid.UUID, limit, offset int) ([]model.Prediction, error) {
	defer observe("list_predictions", time.Now())

	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	if _, err := s.GetLocation(ctx, locationID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT prediction_id, location_id, risk_level, risk_score, date_generated
		FROM predictions
		WHERE location_id = $1
		ORDER BY date_generated DESC
		OFFSET $2 LIMIT $3
	`, locationID, offset, limit)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	defer rows.Close()

	preds := []model.Prediction{}
	for rows.Next() {
		var (
			p     model.Prediction
			level string
		)
		if err := rows.Scan(&p.ID, &p.LocationID, &level, &p.Score, &p.GeneratedAt); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		p.Level = model.RiskLevel(level)
		preds = append(preds, p)
	}
	return preds, rows.Err()
}

// observe records store operation latency.
func observe(operation string, start time.Time) {
	metrics.RecordStoreLatency(operation, float64(time.Since(start).Milliseconds()))
}

// isPgError reports whether err is a Postgres error with the given code.
func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// isNoRows reports whether err is the pgx no-rows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
