package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/ember/internal/domain/model"
)

// dateOnly is accepted as a fallback for date_occurred.
const dateOnly = "2006-01-02"

// HistoryDependencies defines the interface for historical record operations.
type HistoryDependencies interface {
	AddHistory(ctx context.Context, locationID uuid.UUID, occurredAt time.Time, description string) (model.HistoricalRecord, error)
	ListHistory(ctx context.Context, locationID uuid.UUID) ([]model.HistoricalRecord, error)
	GetLocation(ctx context.Context, id uuid.UUID) (model.Location, error)
}

// HistoryHandler handles historical record requests.
type HistoryHandler struct {
	deps HistoryDependencies
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps HistoryDependencies) *HistoryHandler {
	return &HistoryHandler{deps: deps}
}

// historyRequest mirrors the OpenAPI schema for POST /locations/{id}/history.
type historyRequest struct {
	DateOccurred   string `json:"date_occurred"`
	HistoricalData string `json:"historical_data"`
}

func (h historyRequest) validate() (time.Time, error) {
	raw := strings.TrimSpace(h.DateOccurred)
	if raw == "" {
		return time.Time{}, errors.New("missing date_occurred")
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UTC(), nil
	}
	if ts, err := time.Parse(dateOnly, raw); err == nil {
		return ts.UTC(), nil
	}
	return time.Time{}, errors.New("invalid date_occurred; must be RFC3339 or YYYY-MM-DD")
}

// HandleAddHistory handles POST /locations/{id}/history requests.
func (h *HistoryHandler) HandleAddHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req historyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	occurredAt, err := req.validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	rec, err := h.deps.AddHistory(r.Context(), id, occurredAt, req.HistoricalData)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// HandleListHistory handles GET /locations/{id}/history requests.
func (h *HistoryHandler) HandleListHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	// Verify the location exists so an unknown id reads as 404, not an
	// empty list.
	if _, err := h.deps.GetLocation(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	records, err := h.deps.ListHistory(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if records == nil {
		records = []model.HistoricalRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}
