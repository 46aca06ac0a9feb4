// Package queue defines the contract for buffering high-risk alerts
// between the prediction path and the alert dispatchers.
package queue

import (
	"context"
	"sync"

	"github.com/okian/ember/internal/domain/model"
	"github.com/okian/ember/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 1024
)

// Alert is the payload type flowing through the queue.
type Alert = model.Alert

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds an alert to the queue.
	// Returns false if the queue is full or closed and the alert was dropped.
	Enqueue(ctx context.Context, a Alert) bool

	// Dequeue returns a channel that receives alerts as they become
	// available. The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Alert

	// Len returns the current number of queued alerts.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue. After closing, no new alerts
	// can be enqueued and the dequeue channel will be closed.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	alerts   chan Alert
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.alerts = make(chan Alert, q.capacity)

	metrics.UpdateAlertQueueCapacity(q.capacity)
	metrics.UpdateAlertQueueSize(0)
	return q
}

// Enqueue adds an alert to the queue without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, a Alert) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordAlertDropped()
		return false
	}

	select {
	case q.alerts <- a:
		metrics.RecordAlertEnqueued()
		metrics.UpdateAlertQueueSize(len(q.alerts))
		return true
	case <-ctx.Done():
		metrics.RecordAlertDropped()
		return false
	default:
		metrics.RecordAlertDropped()
		return false // queue is full
	}
}

// Dequeue returns a channel that receives alerts as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Alert {
	out := make(chan Alert)
	go func() {
		defer close(out)
		for a := range q.alerts {
			select {
			case out <- a:
				metrics.UpdateAlertQueueSize(len(q.alerts))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued alerts.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.alerts)
	metrics.UpdateAlertQueueSize(size)
	return size
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil // already closed
	}
	close(q.alerts)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
