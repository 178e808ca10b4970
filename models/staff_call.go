package models

import "time"

const (
	StaffCallActive   = "active"
	StaffCallResolved = "resolved"

	DefaultStaffCallReason = "General assistance"
)

type StaffCall struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RestaurantID string     `gorm:"type:varchar(100);not null;index" json:"restaurantID"`
	Table        string     `gorm:"column:table_username;type:varchar(100);not null" json:"table"`
	TableName    string     `gorm:"type:varchar(100);not null" json:"tableName"`
	CustomerID   *uint      `json:"customer,omitempty"`
	Reason       string     `gorm:"type:varchar(255);not null" json:"reason"`
	SessionID    *string    `gorm:"type:varchar(255);index" json:"sessionId,omitempty"`
	Status       string     `gorm:"type:varchar(15);not null;index" json:"status"`
	ResolvedAt   *time.Time `json:"resolvedAt,omitempty"`
	CreatedAt    time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updatedAt"`
}
