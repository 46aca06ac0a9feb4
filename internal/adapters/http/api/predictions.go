package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/okian/ember/internal/domain/model"
)

// PredictionsDependencies defines the interface for prediction queries.
type PredictionsDependencies interface {
	GetLocation(ctx context.Context, id uuid.UUID) (model.Location, error)
	ListPredictions(ctx context.Context, locationID uuid.UUID, limit, offset int) ([]model.Prediction, error)
}

// PredictionsHandler handles stored prediction queries.
type PredictionsHandler struct {
	deps     PredictionsDependencies
	maxLimit int
}

// NewPredictionsHandler creates a new predictions handler.
func NewPredictionsHandler(deps PredictionsDependencies, maxLimit int) *PredictionsHandler {
	return &PredictionsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleListPredictions handles GET /predictions/{location_id} requests.
// Results are ordered newest first.
func (h *PredictionsHandler) HandleListPredictions(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "location_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	limit, offset, err := parsePage(r, h.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if _, err := h.deps.GetLocation(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	preds, err := h.deps.ListPredictions(r.Context(), id, limit, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if preds == nil {
		preds = []model.Prediction{}
	}
	writeJSON(w, http.StatusOK, preds)
}
