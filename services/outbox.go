package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yeremiapane/table-ordering/models"
	"gorm.io/gorm"
)

// enqueueEvent records a domain event inside tx so it commits or rolls back
// together with the state change.
func enqueueEvent(tx *gorm.DB, eventType, restaurant, aggregate string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	row := models.OutboxEvent{
		EventID:      uuid.NewString(),
		Type:         eventType,
		RestaurantID: restaurant,
		AggregateID:  aggregate,
		Payload:      string(body),
		CreatedAt:    time.Now(),
	}
	if err := tx.Create(&row).Error; err != nil {
		return fmt.Errorf("enqueue %s: %w", eventType, err)
	}
	return nil
}
