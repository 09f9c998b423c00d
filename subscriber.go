package boidgrid

import "sync"

// reportSubscriber is a helper for managing tick report subscriptions.
type reportSubscriber struct {
	ch     chan TickReport
	mu     sync.Mutex
	closed bool
}

// trySend sends a report to the subscriber's channel without blocking.
// It returns false when the report was dropped.
func (s *reportSubscriber) trySend(report TickReport) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}

	select {
	case s.ch <- report:
		return true
	default:
		// Subscriber is slow or not ready; they will get the next report.
		return false
	}
}

// close safely closes the subscriber's channel.
func (s *reportSubscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}

// Subscribe returns a channel that receives a report after every completed tick.
//
// Reports are delivered without blocking Tick: a subscriber that falls more than
// four reports behind misses reports until it catches up.
//
// Returns:
//   - <-chan TickReport: Channel receiving tick reports
//   - func(): Unsubscribe function that closes the channel
//
// Example:
//
//	ch, unsubscribe := c.Subscribe()
//	defer unsubscribe()
//	for report := range ch {
//	    fmt.Println(report.Tick, report.Counts)
//	}
func (c *Coordinator[T]) Subscribe() (<-chan TickReport, func()) {
	id := c.nextSubscriberID.Add(1)

	sub := &reportSubscriber{ch: make(chan TickReport, 4)}
	c.subscribers.Store(id, sub)

	unsubscribe := func() {
		if s, ok := c.subscribers.LoadAndDelete(id); ok {
			s.close()
		}
	}

	return sub.ch, unsubscribe
}

// publish fans a report out to every subscriber.
func (c *Coordinator[T]) publish(report TickReport) {
	c.subscribers.Range(func(_ uint64, sub *reportSubscriber) bool {
		if !sub.trySend(report) {
			c.metrics.RecordDroppedReport()
		}

		return true
	})
}
