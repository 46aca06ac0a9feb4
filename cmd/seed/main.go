package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/ember/internal/seed"
	"github.com/okian/ember/pkg/logger"
)

// Default configuration constants.
const (
	defaultLocations   = 10
	defaultHistory     = 3
	defaultPredictions = 2
	defaultTimeout     = 30 * time.Second
	defaultRunTimeout  = 5 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:8080", "Base URL of the service")
		locations   = flag.Int("locations", defaultLocations, "Number of locations to create")
		history     = flag.Int("history", defaultHistory, "Historical records per location")
		predictions = flag.Int("predictions", defaultPredictions, "Predict calls per location")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init("text"); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	seeder := seed.NewSeeder(&seed.Config{
		BaseURL:                *baseURL,
		NumLocations:           *locations,
		HistoryPerLocation:     *history,
		PredictionsPerLocation: *predictions,
		Timeout:                *timeout,
		Verbose:                *verbose,
	})

	if err := seeder.Run(ctx); err != nil {
		os.Stderr.WriteString("Seeding failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
