package dispatch_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/ember/internal/adapters/mq/dispatch"
	"github.com/okian/ember/internal/adapters/mq/queue"
	"github.com/okian/ember/internal/domain/dedupe"
	"github.com/okian/ember/internal/domain/model"
	"github.com/okian/ember/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init("text"); err != nil {
		panic(err)
	}
}

// capturingPublisher records published alerts and can be made to fail.
type capturingPublisher struct {
	mu        sync.Mutex
	published []model.Alert
	failNext  bool
}

func (p *capturingPublisher) Publish(_ context.Context, a model.Alert) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failNext {
		p.failNext = false
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, a)
	return nil
}

func (p *capturingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

func highAlert(locationID uuid.UUID) model.Alert {
	return model.Alert{
		ID:          uuid.New(),
		LocationID:  locationID,
		RegionName:  "Cedar Valley",
		Level:       model.RiskHigh,
		Score:       9,
		GeneratedAt: time.Now().UTC(),
	}
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestDispatcher(t *testing.T) {
	Convey("Given a running dispatcher", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		pub := &capturingPublisher{}
		dd := dedupe.NewInMemoryDeduper()
		d := dispatch.NewDispatcher(q, pub, dd)
		go d.Run(ctx)

		Reset(func() {
			cancel()
			_ = q.Close()
		})

		Convey("When an alert is enqueued", func() {
			locID := uuid.New()
			So(q.Enqueue(ctx, highAlert(locID)), ShouldBeTrue)

			Convey("Then it is published", func() {
				So(waitFor(func() bool { return pub.count() == 1 }), ShouldBeTrue)
			})
		})

		Convey("When the same location alerts at the same level twice", func() {
			locID := uuid.New()
			So(q.Enqueue(ctx, highAlert(locID)), ShouldBeTrue)
			So(q.Enqueue(ctx, highAlert(locID)), ShouldBeTrue)

			Convey("Then the repeat is suppressed", func() {
				So(waitFor(func() bool { return pub.count() == 1 }), ShouldBeTrue)
				So(waitFor(func() bool { return q.Len(ctx) == 0 }), ShouldBeTrue)
				time.Sleep(50 * time.Millisecond)
				So(pub.count(), ShouldEqual, 1)
				So(dd.Size(), ShouldEqual, 1)
			})
		})

		Convey("When publishing fails", func() {
			locID := uuid.New()
			pub.failNext = true
			So(q.Enqueue(ctx, highAlert(locID)), ShouldBeTrue)

			Convey("Then the suppression key is released for a retry", func() {
				So(waitFor(func() bool { return q.Len(ctx) == 0 && dd.Size() == 0 }), ShouldBeTrue)

				So(q.Enqueue(ctx, highAlert(locID)), ShouldBeTrue)
				So(waitFor(func() bool { return pub.count() == 1 }), ShouldBeTrue)
			})
		})
	})
}

func TestPool(t *testing.T) {
	Convey("Given a dispatcher pool", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		pub := &capturingPublisher{}
		dd := dedupe.NewInMemoryDeduper()
		pool := dispatch.NewPool(3, q, pub, dd)

		Convey("When started and fed distinct alerts", func() {
			pool.Start(ctx)
			for i := 0; i < 10; i++ {
				So(q.Enqueue(ctx, highAlert(uuid.New())), ShouldBeTrue)
			}

			Convey("Then every alert is published exactly once", func() {
				So(waitFor(func() bool { return pub.count() == 10 }), ShouldBeTrue)
				pool.Stop()
			})
		})

		Convey("When stopped without work", func() {
			pool.Start(ctx)

			Convey("Then Stop returns promptly", func() {
				done := make(chan struct{})
				go func() {
					pool.Stop()
					close(done)
				}()
				select {
				case <-done:
					So(true, ShouldBeTrue)
				case <-time.After(6 * time.Second):
					So("pool stop timed out", ShouldBeEmpty)
				}
			})
		})
	})
}
