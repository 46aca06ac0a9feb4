package model

import "fmt"

// Declared ranges for environmental readings. Values outside these bounds
// are a validation failure at the boundary, never a scoring input.
const (
	MinTemperature = -50.0 // degrees Celsius
	MaxTemperature = 60.0
	MinHumidity    = 0.0 // percent
	MaxHumidity    = 100.0
	MinWindSpeed   = 0.0 // km/h
	MinVegetation  = 0.0 // unitless index
	MaxVegetation  = 1.0
)

// EnvironmentalInput holds the four current-moment readings used for scoring.
type EnvironmentalInput struct {
	Temperature     float64 `json:"temperature"`
	Humidity        float64 `json:"humidity"`
	WindSpeed       float64 `json:"wind_speed"`
	VegetationIndex float64 `json:"vegetation_index"`
}

// Validate checks every field against its declared range. It is called by
// the HTTP boundary before the scorer runs; the scorer itself never
// re-validates.
func (e EnvironmentalInput) Validate() error {
	if e.Temperature < MinTemperature || e.Temperature > MaxTemperature {
		return fmt.Errorf("temperature %.2f out of range [%.0f, %.0f]", e.Temperature, MinTemperature, MaxTemperature)
	}
	if e.Humidity < MinHumidity || e.Humidity > MaxHumidity {
		return fmt.Errorf("humidity %.2f out of range [%.0f, %.0f]", e.Humidity, MinHumidity, MaxHumidity)
	}
	if e.WindSpeed < MinWindSpeed {
		return fmt.Errorf("wind_speed %.2f must not be negative", e.WindSpeed)
	}
	if e.VegetationIndex < MinVegetation || e.VegetationIndex > MaxVegetation {
		return fmt.Errorf("vegetation_index %.2f out of range [%.0f, %.0f]", e.VegetationIndex, MinVegetation, MaxVegetation)
	}
	return nil
}
