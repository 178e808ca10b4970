package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/table-ordering/events"
	"github.com/yeremiapane/table-ordering/models"
	"github.com/yeremiapane/table-ordering/utils"
	"gorm.io/gorm"
)

const producerName = "table-ordering"

// EventRelay polls the outbox and hands unprocessed rows to the publisher.
// A row is marked processed only after Publish returns nil, so delivery is
// at-least-once.
type EventRelay struct {
	DB        *gorm.DB
	Publisher events.Publisher
	Interval  time.Duration
	BatchSize int

	StopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewEventRelay(db *gorm.DB, pub events.Publisher) *EventRelay {
	return &EventRelay{
		DB:        db,
		Publisher: pub,
		Interval:  2 * time.Second,
		BatchSize: 100,
		StopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (r *EventRelay) Start(ctx context.Context) {
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := r.RelayOnce(ctx); err != nil {
					utils.Error().WithError(err).Error("outbox relay failed")
				}
			case <-r.StopChan:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the polling loop and waits for an in-flight batch to finish.
func (r *EventRelay) Stop() {
	r.stopOnce.Do(func() { close(r.StopChan) })
	<-r.done
}

func toEnvelope(row models.OutboxEvent) events.Envelope {
	return events.Envelope{
		EventID:      row.EventID,
		EventType:    row.Type,
		EventVersion: 1,
		OccurredAt:   row.CreatedAt.UTC(),
		Producer:     producerName,
		RestaurantID: row.RestaurantID,
		AggregateID:  row.AggregateID,
		Payload:      json.RawMessage(row.Payload),
	}
}

// RelayOnce publishes one batch, oldest first, and returns how many rows were
// marked processed. A failed publish stops the batch so per-tenant order holds.
func (r *EventRelay) RelayOnce(ctx context.Context) (int, error) {
	var rows []models.OutboxEvent
	if err := r.DB.WithContext(ctx).
		Where("processed = ?", false).
		Order("id ASC").
		Limit(r.BatchSize).
		Find(&rows).Error; err != nil {
		return 0, err
	}

	published := 0
	for _, row := range rows {
		if err := r.Publisher.Publish(ctx, toEnvelope(row)); err != nil {
			utils.Error().WithFields(logrus.Fields{
				"event":    row.EventID,
				"type":     row.Type,
				"attempts": row.Attempts + 1,
			}).WithError(err).Error("publish failed")

			if uerr := r.DB.WithContext(ctx).Model(&models.OutboxEvent{}).
				Where("id = ?", row.ID).
				Updates(map[string]interface{}{
					"attempts":   gorm.Expr("attempts + 1"),
					"last_error": err.Error(),
				}).Error; uerr != nil {
				return published, uerr
			}
			return published, nil
		}

		now := time.Now()
		if err := r.DB.WithContext(ctx).Model(&models.OutboxEvent{}).
			Where("id = ?", row.ID).
			Updates(map[string]interface{}{
				"processed":    true,
				"processed_at": &now,
			}).Error; err != nil {
			return published, err
		}
		published++
	}

	if published > 0 {
		utils.Info().WithField("count", published).Debug("outbox relayed")
	}
	return published, nil
}
