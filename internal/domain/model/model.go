// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Location is a named geographic region that predictions are made for.
// Coordinates are a placeholder string until a real coordinate system lands.
type Location struct {
	ID          uuid.UUID `json:"location_id"`
	RegionName  string    `json:"region_name"`
	Coordinates string    `json:"fake_coordinates,omitempty"`
}

// HistoricalRecord is a free-text description of a past fire event at a
// location. The description is semantically unstructured; a case-insensitive
// "HIGH" substring marks a historically severe event.
type HistoricalRecord struct {
	ID          uuid.UUID `json:"historical_id"`
	LocationID  uuid.UUID `json:"location_id"`
	OccurredAt  time.Time `json:"date_occurred"`
	Description string    `json:"historical_data"`
}

// HistoricalRisk classifies a location's background wildfire tendency
// derived from its historical records.
type HistoricalRisk string

// Historical risk classifications.
const (
	HistoricalUnknown HistoricalRisk = "Unknown"
	HistoricalLow     HistoricalRisk = "Low"
	HistoricalHigh    HistoricalRisk = "High"
)

// RiskLevel is the ordinal classification assigned to a prediction.
type RiskLevel string

// Risk levels, ordered Low < Moderate < High.
const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
)

// Assessment is the immutable output of a single scoring call.
type Assessment struct {
	Score       int       `json:"risk_score"`
	Level       RiskLevel `json:"risk_level"`
	GeneratedAt time.Time `json:"date_generated"`
}

// Prediction is a persisted assessment owned by a location.
type Prediction struct {
	ID          uuid.UUID `json:"prediction_id"`
	LocationID  uuid.UUID `json:"location_id"`
	Level       RiskLevel `json:"risk_level"`
	Score       int       `json:"risk_score"`
	GeneratedAt time.Time `json:"date_generated"`
}

// Alert is the payload published for high-risk predictions.
type Alert struct {
	ID          uuid.UUID `json:"alert_id"`
	LocationID  uuid.UUID `json:"location_id"`
	RegionName  string    `json:"region_name"`
	Level       RiskLevel `json:"risk_level"`
	Score       int       `json:"risk_score"`
	GeneratedAt time.Time `json:"date_generated"`
}
