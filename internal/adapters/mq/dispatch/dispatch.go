// Package dispatch drains the alert queue and publishes high-risk alerts
// through a Publisher.
package dispatch

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/okian/ember/internal/adapters/mq/queue"
	"github.com/okian/ember/internal/domain/dedupe"
	"github.com/okian/ember/internal/domain/model"
	"github.com/okian/ember/pkg/logger"
	"github.com/okian/ember/pkg/metrics"
)

// Default dispatcher configuration constants.
const (
	defaultDispatcherCount = 2
	dispatcherStopTimeout  = 5 * time.Second
)

// Publisher delivers an alert to its destination.
type Publisher interface {
	Publish(ctx context.Context, a model.Alert) error
}

// Queue defines how dispatchers receive alerts.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Alert
}

// Dispatcher consumes alerts and publishes them, suppressing repeats for
// the same location and level via the deduper.
type Dispatcher struct {
	queue     Queue
	publisher Publisher
	deduper   dedupe.Deduper
	name      string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewDispatcher creates a dispatcher with configuration options.
func NewDispatcher(q Queue, pub Publisher, dd dedupe.Deduper, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		queue:     q,
		publisher: pub,
		deduper:   dd,
		name:      "dispatcher",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("dispatcher"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run starts the dispatcher loop until ctx is canceled or the queue closes.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)

	alerts := d.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.shutdown:
			return
		case alert, ok := <-alerts:
			if !ok {
				return
			}
			if err := d.dispatch(ctx, alert); err != nil {
				d.logger.Error(ctx, "alert dispatch failed",
					logger.String("alertID", alert.ID.String()),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown gracefully stops the dispatcher.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	close(d.shutdown)
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		d.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// dispatch publishes one alert, honoring the suppression cache.
// A failed publish unrecords the key so the next alert for the same
// location and level goes out again.
func (d *Dispatcher) dispatch(ctx context.Context, alert model.Alert) error {
	key := suppressionKey(alert)
	if d.deduper.SeenAndRecord(ctx, key) {
		metrics.RecordAlertSuppressed()
		d.logger.Debug(ctx, "duplicate alert suppressed",
			logger.String("key", key),
		)
		return nil
	}

	if err := d.publisher.Publish(ctx, alert); err != nil {
		d.deduper.Unrecord(ctx, key)
		metrics.RecordAlertPublishError()
		return fmt.Errorf("publish alert %s: %w", alert.ID, err)
	}

	metrics.RecordAlertPublished()
	return nil
}

// suppressionKey identifies an alert for dedupe purposes. Location plus
// level, so a region flapping at High does not flood the alert topic.
func suppressionKey(a model.Alert) string {
	return a.LocationID.String() + "|" + string(a.Level)
}

// Pool manages multiple dispatchers draining the same queue.
type Pool struct {
	dispatchers []*Dispatcher
	logger      logger.Logger
}

// NewPool creates a dispatcher pool.
func NewPool(count int, q Queue, pub Publisher, dd dedupe.Deduper) *Pool {
	if count < 1 {
		count = defaultDispatcherCount
	}

	pool := &Pool{
		dispatchers: make([]*Dispatcher, count),
		logger:      logger.Get().Named("dispatch-pool"),
	}
	for i := 0; i < count; i++ {
		pool.dispatchers[i] = NewDispatcher(q, pub, dd, WithName("dispatcher-"+strconv.Itoa(i)))
	}

	metrics.UpdateDispatcherCount(count)
	return pool
}

// Start starts all dispatchers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, d := range p.dispatchers {
		go d.Run(ctx)
	}
}

// Stop gracefully stops all dispatchers.
func (p *Pool) Stop() {
	for _, d := range p.dispatchers {
		select {
		case <-d.done:
			// Dispatcher already finished
		default:
			close(d.shutdown)
		}
	}
	for _, d := range p.dispatchers {
		select {
		case <-d.done:
		case <-time.After(dispatcherStopTimeout):
		}
	}
	metrics.UpdateDispatcherCount(0)
}
