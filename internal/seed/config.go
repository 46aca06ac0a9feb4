package seed

import "time"

// Config controls a seeding run.
type Config struct {
	// BaseURL is the root of the running wildfire risk service.
	BaseURL string

	// NumLocations is how many locations to create.
	NumLocations int

	// HistoryPerLocation is how many historical records each location gets.
	HistoryPerLocation int

	// PredictionsPerLocation is how many predict calls to issue per location.
	PredictionsPerLocation int

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// Verbose enables debug logging.
	Verbose bool
}
