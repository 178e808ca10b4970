package models

import (
	"time"
)

// Customer is a diner identity issued by the guest sign-in.
type Customer struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID string    `gorm:"type:varchar(100);not null;index" json:"restaurantID"`
	Table        string    `gorm:"column:table_username;type:varchar(100)" json:"table"`
	Name         string    `gorm:"type:varchar(255)" json:"name"`
	IsGuest      bool      `gorm:"not null" json:"isGuest"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" json:"updatedAt"`
}
