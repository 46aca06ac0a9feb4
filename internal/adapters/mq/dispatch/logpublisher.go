package dispatch

import (
	"context"

	"github.com/okian/ember/internal/domain/model"
	"github.com/okian/ember/pkg/logger"
)

// LogPublisher writes alerts to the service log. It is the fallback when
// no Kafka brokers are configured.
type LogPublisher struct {
	logger logger.Logger
}

// NewLogPublisher creates a log-only alert publisher.
func NewLogPublisher(log logger.Logger) *LogPublisher {
	if log == nil {
		log = logger.Get().Named("alerts")
	}
	return &LogPublisher{logger: log}
}

// Publish logs the alert and always succeeds.
func (p *LogPublisher) Publish(ctx context.Context, a model.Alert) error {
	p.logger.Warn(ctx, "high wildfire risk detected",
		logger.String("alertID", a.ID.String()),
		logger.String("locationID", a.LocationID.String()),
		logger.String("region", a.RegionName),
		logger.String("level", string(a.Level)),
		logger.Int("score", a.Score),
	)
	return nil
}
