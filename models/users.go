package models

import "time"

const (
	RoleCustomer   = "customer"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// Account is a tenant login. Username doubles as the restaurant id.
type Account struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Username           string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email              string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password           string    `gorm:"type:varchar(255);not null" json:"-"`
	Role               string    `gorm:"type:varchar(20);not null" json:"role"`
	AccountActive      bool      `gorm:"not null" json:"accountActive"`
	SubscriptionActive bool      `gorm:"not null" json:"subscriptionActive"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func (a *Account) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}

type Profile struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	RestaurantID         string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"restaurantID"`
	Name                 string    `gorm:"type:varchar(255);not null" json:"name"`
	Description          string    `gorm:"type:text" json:"description"`
	Address              string    `gorm:"type:varchar(255)" json:"address"`
	RequireCustomerLogin bool      `gorm:"not null" json:"requireCustomerLogin"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}
