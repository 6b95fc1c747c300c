package nats

import (
	"context"

	"github.com/invisiedge/Atreo-sub001/internal/platform/metrics"
)

// EventPublisher is the publishing side shared by Publisher and NoopPublisher.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close()
}

// CountingPublisher counts failed publishes on the event error counter.
type CountingPublisher struct {
	next    EventPublisher
	metrics *metrics.MetricsManager
}

func NewCountingPublisher(next EventPublisher, m *metrics.MetricsManager) *CountingPublisher {
	return &CountingPublisher{next: next, metrics: m}
}

func (p *CountingPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	err := p.next.Publish(ctx, subject, data)
	if err != nil && p.metrics != nil {
		p.metrics.EventPublishErrors.Inc()
	}
	return err
}

func (p *CountingPublisher) Close() {
	p.next.Close()
}
