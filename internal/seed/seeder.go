// Package seed populates a running wildfire risk service with demo data
// over its HTTP API.
package seed

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/ember/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	severeEventOdds    = 3 // roughly one in three historical events is severe
)

// Region names used for generated locations.
var regionNames = []string{
	"Pine Ridge", "Cedar Valley", "Oak Flats", "Juniper Basin",
	"Manzanita Canyon", "Chaparral Hills", "Redwood Bench", "Sage Mesa",
	"Eucalyptus Grove", "Tumbleweed Plain",
}

// Historical event descriptions; the severe ones carry the HIGH marker.
var (
	severeDescriptions = []string{
		"HIGH severity crown fire, 12000 acres burned",
		"Wind-driven fire with high intensity spread",
		"Extreme fire behavior observed, HIGH risk season",
	}
	mildDescriptions = []string{
		"Small brush fire contained within hours",
		"Low intensity ground fire, minimal damage",
		"Controlled burn completed without incident",
	}
)

// Stats tracks seeding progress.
type Stats struct {
	LocationsCreated   int
	HistoryCreated     int
	PredictionsCreated int
	Failures           int
}

// Seeder drives demo data into the service.
type Seeder struct {
	config *Config
	client *http.Client
	logger logger.Logger
}

// NewSeeder creates a seeder for the given configuration.
func NewSeeder(config *Config) *Seeder {
	return &Seeder{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger.Get().Named("seed"),
	}
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// getRandomInt returns a random int in [0, max).
func getRandomInt(max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}

// Run seeds locations, history and predictions, then logs a summary.
func (s *Seeder) Run(ctx context.Context) error {
	stats := &Stats{}
	start := time.Now()

	s.logger.Info(ctx, "seeding started",
		logger.String("baseURL", s.config.BaseURL),
		logger.Int("locations", s.config.NumLocations),
	)

	for i := 0; i < s.config.NumLocations; i++ {
		locationID, err := s.createLocation(ctx, i)
		if err != nil {
			stats.Failures++
			s.logger.Error(ctx, "create location failed", logger.Error(err))
			continue
		}
		stats.LocationsCreated++

		for j := 0; j < s.config.HistoryPerLocation; j++ {
			if err := s.addHistory(ctx, locationID, j); err != nil {
				stats.Failures++
				s.logger.Error(ctx, "add history failed", logger.Error(err))
				continue
			}
			stats.HistoryCreated++
		}

		for j := 0; j < s.config.PredictionsPerLocation; j++ {
			if err := s.predict(ctx, locationID); err != nil {
				stats.Failures++
				s.logger.Error(ctx, "predict failed", logger.Error(err))
				continue
			}
			stats.PredictionsCreated++
		}
	}

	s.logger.Info(ctx, "seeding finished",
		logger.Int("locationsCreated", stats.LocationsCreated),
		logger.Int("historyCreated", stats.HistoryCreated),
		logger.Int("predictionsCreated", stats.PredictionsCreated),
		logger.Int("failures", stats.Failures),
		logger.String("elapsed", time.Since(start).String()),
	)

	if stats.Failures > 0 {
		return fmt.Errorf("seeding completed with %d failures", stats.Failures)
	}
	return nil
}

// createLocation posts one location and returns its id.
func (s *Seeder) createLocation(ctx context.Context, index int) (string, error) {
	name := regionNames[index%len(regionNames)]
	if index >= len(regionNames) {
		name = name + " " + strconv.Itoa(index/len(regionNames)+1)
	}
	body := map[string]string{
		"region_name":      name,
		"fake_coordinates": fmt.Sprintf("%.4f,%.4f", getRandomFloat()*180-90, getRandomFloat()*360-180),
	}

	var resp struct {
		LocationID string `json:"location_id"`
	}
	if err := s.post(ctx, "/locations", body, &resp); err != nil {
		return "", err
	}
	return resp.LocationID, nil
}

// addHistory posts one historical record, occasionally a severe one.
func (s *Seeder) addHistory(ctx context.Context, locationID string, index int) error {
	desc := mildDescriptions[getRandomInt(len(mildDescriptions))]
	if getRandomInt(severeEventOdds) == 0 {
		desc = severeDescriptions[getRandomInt(len(severeDescriptions))]
	}
	occurred := time.Now().AddDate(0, -(index + 1), 0).UTC()

	body := map[string]string{
		"date_occurred":   occurred.Format(time.RFC3339),
		"historical_data": desc,
	}
	return s.post(ctx, "/locations/"+locationID+"/history", body, nil)
}

// predict posts one environmental reading within the valid ranges.
func (s *Seeder) predict(ctx context.Context, locationID string) error {
	body := map[string]any{
		"location_id":      locationID,
		"temperature":      getRandomFloat()*50 - 5, // -5..45 C
		"humidity":         getRandomFloat() * 100,
		"wind_speed":       getRandomFloat() * 40,
		"vegetation_index": getRandomFloat(),
	}
	return s.post(ctx, "/predict", body, nil)
}

// post sends a JSON request and optionally decodes the response body.
func (s *Seeder) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("post %s: unexpected status %d", path, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
