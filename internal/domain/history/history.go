// Package history classifies a location's background wildfire tendency
// from its past-event records.
package history

import (
	"strings"

	"github.com/okian/ember/internal/domain/model"
)

// severityMarker flags a historically severe event inside a record's
// free-text description. Matched case-insensitively as a substring, not
// by equality, for compatibility with existing record data.
const severityMarker = "HIGH"

// Classify scans a location's historical records and returns the
// background risk classification.
//
// Records without descriptive text are silently excluded; that is not an
// error. Among the remaining records, a strict majority carrying the
// severity marker yields HistoricalHigh; any qualifying records without a
// majority yield HistoricalLow; no qualifying records yield
// HistoricalUnknown. Absence of data is a valid outcome, not a failure.
func Classify(records []model.HistoricalRecord) model.HistoricalRisk {
	var total, high int
	for _, r := range records {
		if strings.TrimSpace(r.Description) == "" {
			continue
		}
		total++
		if strings.Contains(strings.ToUpper(r.Description), severityMarker) {
			high++
		}
	}

	switch {
	case total == 0:
		return model.HistoricalUnknown
	// Strict majority: 1 of 2 does not qualify, 2 of 3 does.
	case 2*high > total:
		return model.HistoricalHigh
	default:
		return model.HistoricalLow
	}
}
