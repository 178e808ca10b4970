package models

import "time"

// Table is a physical seating unit. Username is the short id printed in the QR url.
type Table struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	RestaurantID    string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_tables_restaurant_username" json:"restaurantID"`
	Name            string    `gorm:"type:varchar(100);not null" json:"name"`
	Username        string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_tables_restaurant_username" json:"username"`
	IsActive        bool      `gorm:"not null" json:"isActive"`
	ActiveSessionID *string   `gorm:"type:varchar(255);index" json:"activeSessionId"`
	CreatedAt       time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"not null" json:"updatedAt"`
}

// Occupied reports whether a customer session currently holds the table.
func (t *Table) Occupied() bool {
	return t.ActiveSessionID != nil && *t.ActiveSessionID != ""
}

// HeldBy reports whether sessionID is the current occupant.
func (t *Table) HeldBy(sessionID string) bool {
	return t.Occupied() && *t.ActiveSessionID == sessionID
}
