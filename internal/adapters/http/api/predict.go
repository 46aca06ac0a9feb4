package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/ember/internal/domain/model"
)

// PredictDependencies defines the interface for prediction operations.
type PredictDependencies interface {
	Predict(ctx context.Context, locationID uuid.UUID, input model.EnvironmentalInput) (model.Prediction, error)
}

// PredictHandler handles prediction requests.
type PredictHandler struct {
	deps PredictDependencies
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps PredictDependencies) *PredictHandler {
	return &PredictHandler{deps: deps}
}

// predictRequest mirrors the OpenAPI schema for POST /predict. Pointer
// fields distinguish a missing reading from a zero value.
type predictRequest struct {
	LocationID      string   `json:"location_id"`
	Temperature     *float64 `json:"temperature"`
	Humidity        *float64 `json:"humidity"`
	WindSpeed       *float64 `json:"wind_speed"`
	VegetationIndex *float64 `json:"vegetation_index"`
}

func (p predictRequest) validate() (uuid.UUID, model.EnvironmentalInput, error) {
	switch {
	case strings.TrimSpace(p.LocationID) == "":
		return uuid.Nil, model.EnvironmentalInput{}, errors.New("missing location_id")
	case p.Temperature == nil:
		return uuid.Nil, model.EnvironmentalInput{}, errors.New("missing temperature")
	case p.Humidity == nil:
		return uuid.Nil, model.EnvironmentalInput{}, errors.New("missing humidity")
	case p.WindSpeed == nil:
		return uuid.Nil, model.EnvironmentalInput{}, errors.New("missing wind_speed")
	case p.VegetationIndex == nil:
		return uuid.Nil, model.EnvironmentalInput{}, errors.New("missing vegetation_index")
	}
	id, err := uuid.Parse(p.LocationID)
	if err != nil {
		return uuid.Nil, model.EnvironmentalInput{}, ErrInvalidID
	}
	input := model.EnvironmentalInput{
		Temperature:     *p.Temperature,
		Humidity:        *p.Humidity,
		WindSpeed:       *p.WindSpeed,
		VegetationIndex: *p.VegetationIndex,
	}
	if err := input.Validate(); err != nil {
		return uuid.Nil, model.EnvironmentalInput{}, err
	}
	return id, input, nil
}

// HandlePredict handles POST /predict requests.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	id, input, err := req.validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	pred, err := h.deps.Predict(r.Context(), id, input)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pred)
}
