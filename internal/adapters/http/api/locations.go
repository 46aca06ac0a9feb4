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

// LocationDependencies defines the interface for location operations.
type LocationDependencies interface {
	CreateLocation(ctx context.Context, regionName, coordinates string) (model.Location, error)
	GetLocation(ctx context.Context, id uuid.UUID) (model.Location, error)
	ListLocations(ctx context.Context, limit, offset int) ([]model.Location, error)
}

// LocationsHandler handles location requests.
type LocationsHandler struct {
	deps     LocationDependencies
	maxLimit int
}

// NewLocationsHandler creates a new locations handler.
func NewLocationsHandler(deps LocationDependencies, maxLimit int) *LocationsHandler {
	return &LocationsHandler{deps: deps, maxLimit: maxLimit}
}

// locationRequest mirrors the OpenAPI schema for POST /locations.
type locationRequest struct {
	RegionName  string `json:"region_name"`
	Coordinates string `json:"fake_coordinates"`
}

func (l locationRequest) validate() error {
	if strings.TrimSpace(l.RegionName) == "" {
		return errors.New("missing region_name")
	}
	return nil
}

// HandleCreateLocation handles POST /locations requests.
func (h *LocationsHandler) HandleCreateLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	loc, err := h.deps.CreateLocation(r.Context(), req.RegionName, req.Coordinates)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, loc)
}

// HandleListLocations handles GET /locations requests.
func (h *LocationsHandler) HandleListLocations(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := parsePage(r, h.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	locs, err := h.deps.ListLocations(r.Context(), limit, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if locs == nil {
		locs = []model.Location{}
	}
	writeJSON(w, http.StatusOK, locs)
}

// HandleGetLocation handles GET /locations/{id} requests.
func (h *LocationsHandler) HandleGetLocation(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	loc, err := h.deps.GetLocation(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loc)
}
