package audit

import (
	"context"
	"sync"
	"time"

	"github.com/savionray/content-lab/pkg/observability"
)

const defaultQueueSize = 1024

// QueuedLogger decouples audit writes from the request path with a bounded
// queue and a dedicated drain goroutine. Enqueueing never blocks: when the
// queue is full the event is written synchronously through the wrapped
// logger instead of being dropped silently, and the overflow is counted.
type QueuedLogger struct {
	inner   Logger
	queue   chan *Event
	metrics *observability.Metrics
	log     *observability.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewQueuedLogger wraps a logger with an asynchronous bounded queue.
// size <= 0 uses a default of 1024.
func NewQueuedLogger(inner Logger, size int, log *observability.Logger, metrics *observability.Metrics) *QueuedLogger {
	if size <= 0 {
		size = defaultQueueSize
	}

	l := &QueuedLogger{
		inner:   inner,
		queue:   make(chan *Event, size),
		metrics: metrics,
		log:     log,
	}

	l.wg.Add(1)
	go l.drain()

	return l
}

func (l *QueuedLogger) drain() {
	defer l.wg.Done()
	for event := range l.queue {
		// The drain context is independent of any request: a disconnected
		// caller must not abort the audit write.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := l.inner.Log(ctx, event); err != nil {
			l.log.WithError(err).Error("queued audit write failed")
		}
		cancel()
	}
}

// Log enqueues the event for the drain goroutine
func (l *QueuedLogger) Log(ctx context.Context, event *Event) error {
	select {
	case l.queue <- event:
		return nil
	default:
		if l.metrics != nil {
			l.metrics.AuditDroppedTotal.Inc()
		}
		// Queue full: degrade to a synchronous write rather than lose the event
		return l.inner.Log(ctx, event)
	}
}

// Close stops accepting events, drains the queue and closes the inner logger
func (l *QueuedLogger) Close() error {
	l.closeOnce.Do(func() {
		close(l.queue)
	})
	l.wg.Wait()
	return l.inner.Close()
}
