package models

import (
	"math"
	"time"
)

// TableSession is one customer occupancy window at a table. EndTime is nil while open.
type TableSession struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	RestaurantID    string     `gorm:"type:varchar(100);not null;index" json:"restaurantID"`
	Table           string     `gorm:"column:table_username;type:varchar(100);not null;index" json:"table"`
	TableName       string     `gorm:"type:varchar(100);not null" json:"tableName"`
	SessionID       string     `gorm:"type:varchar(255);not null;index" json:"sessionId"`
	StartTime       time.Time  `gorm:"not null" json:"startTime"`
	EndTime         *time.Time `json:"endTime"`
	DurationMinutes *int       `json:"durationMinutes"`
	CreatedAt       time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt       time.Time  `gorm:"not null" json:"updatedAt"`
}

func (s *TableSession) IsOpen() bool {
	return s.EndTime == nil
}

// SessionDuration returns the elapsed whole minutes between start and end,
// rounded to the nearest minute.
func SessionDuration(start, end time.Time) int {
	ms := end.Sub(start).Milliseconds()
	return int(math.Round(float64(ms) / 60000))
}
