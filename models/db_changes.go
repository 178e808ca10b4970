package models

import (
	"time"
)

// OutboxEvent is written in the same transaction as the state change it
// describes and relayed to the event bus later.
type OutboxEvent struct {
	ID           uint       `gorm:"primaryKey"`
	EventID      string     `gorm:"type:varchar(36);uniqueIndex;not null"`
	Type         string     `gorm:"type:varchar(50);not null;index:idx_outbox_type"`
	RestaurantID string     `gorm:"type:varchar(100);not null"`
	AggregateID  string     `gorm:"type:varchar(255);not null"`
	Payload      string     `gorm:"type:text;not null"`
	Processed    bool       `gorm:"not null;index:idx_outbox_processed"`
	Attempts     int        `gorm:"not null"`
	LastError    string     `gorm:"type:text"`
	CreatedAt    time.Time  `gorm:"not null"`
	ProcessedAt  *time.Time
}
