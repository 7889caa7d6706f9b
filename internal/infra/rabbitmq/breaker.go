package rabbitmq

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerPublisher stops hammering the broker after repeated failures and
// fails fast with gobreaker.ErrOpenState until the breaker half-opens.
type BreakerPublisher struct {
	next PublisherInterface
	cb   *gobreaker.CircuitBreaker[struct{}]
}

type BreakerSettings struct {
	Name             string
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

func NewBreakerPublisher(next PublisherInterface, s BreakerSettings) *BreakerPublisher {
	if s.FailureThreshold == 0 {
		s.FailureThreshold = 5
	}
	if s.OpenTimeout == 0 {
		s.OpenTimeout = 30 * time.Second
	}
	threshold := s.FailureThreshold
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= threshold
		},
	})
	return &BreakerPublisher{next: next, cb: cb}
}

func (b *BreakerPublisher) Publish(ctx context.Context, routingKey string, data any) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, b.next.Publish(ctx, routingKey, data)
	})
	return err
}

func (b *BreakerPublisher) State() gobreaker.State {
	return b.cb.State()
}
