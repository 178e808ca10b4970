package events

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Publisher delivers envelopes to the event bus. Publish must return nil only
// once the broker has accepted the message.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
	Close() error
}

// LogPublisher writes events to a logger. Used when no brokers are configured.
type LogPublisher struct {
	Logger *logrus.Logger
}

func NewLogPublisher(logger *logrus.Logger) *LogPublisher {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogPublisher{Logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, env Envelope) error {
	p.Logger.WithFields(logrus.Fields{
		"event_id":   env.EventID,
		"event_type": env.EventType,
		"restaurant": env.RestaurantID,
		"aggregate":  env.AggregateID,
	}).Info("event published")
	return nil
}

func (p *LogPublisher) Close() error { return nil }
