// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/okian/ember/internal/adapters/repository"
	"github.com/okian/ember/internal/domain/model"
)

// Pagination defaults enforced at the HTTP boundary.
const (
	defaultPageLimit = 100
	defaultMaxLimit  = 1000
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CreateLocation(ctx context.Context, regionName, coordinates string) (model.Location, error)
	GetLocation(ctx context.Context, id uuid.UUID) (model.Location, error)
	ListLocations(ctx context.Context, limit, offset int) ([]model.Location, error)

	AddHistory(ctx context.Context, locationID uuid.UUID, occurredAt time.Time, description string) (model.HistoricalRecord, error)
	ListHistory(ctx context.Context, locationID uuid.UUID) ([]model.HistoricalRecord, error)

	Predict(ctx context.Context, locationID uuid.UUID, input model.EnvironmentalInput) (model.Prediction, error)
	ListPredictions(ctx context.Context, locationID uuid.UUID, limit, offset int) ([]model.Prediction, error)
}

// Server wires HTTP routes for the wildfire risk API.
type Server struct {
	rootHandler        *RootHandler
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	locationsHandler   *LocationsHandler
	historyHandler     *HistoryHandler
	predictHandler     *PredictHandler
	predictionsHandler *PredictionsHandler
}

// NewServer creates a new API server with all handlers. maxPageLimit caps
// the limit query parameter on list endpoints.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxPageLimit int) *Server {
	if maxPageLimit < 1 {
		maxPageLimit = defaultMaxLimit
	}
	return &Server{
		rootHandler:        NewRootHandler(),
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		locationsHandler:   NewLocationsHandler(deps, maxPageLimit),
		historyHandler:     NewHistoryHandler(deps),
		predictHandler:     NewPredictHandler(deps),
		predictionsHandler: NewPredictionsHandler(deps, maxPageLimit),
	}
}

// Register attaches all HTTP routes to the router.
func (s *Server) Register(ctx context.Context, r *mux.Router) {
	r.HandleFunc("/", MetricsMiddleware(s.rootHandler.HandleRoot, "root")).Methods(http.MethodGet)
	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet)
	r.HandleFunc("/metrics", s.healthHandler.HandleMetrics).Methods(http.MethodGet)
	r.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)

	r.HandleFunc("/locations", MetricsMiddleware(s.locationsHandler.HandleCreateLocation, "locations")).Methods(http.MethodPost)
	r.HandleFunc("/locations", MetricsMiddleware(s.locationsHandler.HandleListLocations, "locations")).Methods(http.MethodGet)
	r.HandleFunc("/locations/{id}", MetricsMiddleware(s.locationsHandler.HandleGetLocation, "location")).Methods(http.MethodGet)

	r.HandleFunc("/locations/{id}/history", MetricsMiddleware(s.historyHandler.HandleAddHistory, "history")).Methods(http.MethodPost)
	r.HandleFunc("/locations/{id}/history", MetricsMiddleware(s.historyHandler.HandleListHistory, "history")).Methods(http.MethodGet)

	r.HandleFunc("/predict", MetricsMiddleware(s.predictHandler.HandlePredict, "predict")).Methods(http.MethodPost)
	r.HandleFunc("/predictions/{location_id}", MetricsMiddleware(s.predictionsHandler.HandleListPredictions, "predictions")).Methods(http.MethodGet)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeStoreError translates repository sentinels to HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrDuplicateRegion):
		writeError(w, http.StatusConflict, "conflict", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// pathUUID extracts and parses a UUID path variable.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}

// parsePage reads limit/offset query parameters. The limit defaults to
// defaultPageLimit and must not exceed maxLimit.
func parsePage(r *http.Request, maxLimit int) (limit, offset int, err error) {
	limit = defaultPageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, ErrInvalidLimit
		}
	}
	if limit > maxLimit {
		return 0, 0, ErrInvalidLimit
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, ErrInvalidOffset
		}
	}
	return limit, offset, nil
}
