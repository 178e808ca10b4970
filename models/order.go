package models

import (
	"time"
)

type OrderState string

const (
	OrderStateActive   OrderState = "active"
	OrderStateComplete OrderState = "complete"
	OrderStateReject   OrderState = "reject"
	OrderStateCancel   OrderState = "cancel"
)

func (s OrderState) IsTerminal() bool {
	return s == OrderStateComplete || s == OrderStateReject || s == OrderStateCancel
}

// OrderPhase is derived from the per-line approval flags; it is never stored.
type OrderPhase string

const (
	PhaseRequest OrderPhase = "request"
	PhaseKitchen OrderPhase = "kitchen"
	PhaseClosed  OrderPhase = "closed"
)

type Order struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	RestaurantID string         `gorm:"type:varchar(100);not null;index" json:"restaurantID"`
	Table        string         `gorm:"column:table_username;type:varchar(100);not null" json:"table"`
	TableName    string         `gorm:"type:varchar(100)" json:"tableName"`
	SessionID    string         `gorm:"type:varchar(255);not null;index" json:"sessionId"`
	CustomerID   *uint          `gorm:"index" json:"customer,omitempty"`
	State        OrderState     `gorm:"type:varchar(20);not null;index" json:"state"`
	OrderTotal   float64        `gorm:"type:decimal(10,2);not null" json:"orderTotal"`
	Products     []OrderProduct `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"products"`
	CreatedAt    time.Time      `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updatedAt"`
}

// OrderProduct is one line of an order. Name and Price are captured when the
// order is placed and never follow later menu edits.
type OrderProduct struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	OrderID       uint      `gorm:"not null;index" json:"-"`
	MenuID        uint      `gorm:"not null" json:"product"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Price         float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity      int       `gorm:"not null" json:"quantity"`
	AdminApproved bool      `gorm:"not null" json:"adminApproved"`
	CreatedAt     time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null" json:"updatedAt"`
}

// Phase reports which admin bucket an order belongs to. An active order with
// any unapproved line is still a request.
func (o *Order) Phase() OrderPhase {
	if o.State != OrderStateActive {
		return PhaseClosed
	}
	for _, p := range o.Products {
		if !p.AdminApproved {
			return PhaseRequest
		}
	}
	return PhaseKitchen
}

func (o *Order) HasApprovedLine() bool {
	for _, p := range o.Products {
		if p.AdminApproved {
			return true
		}
	}
	return false
}

// LinesTotal sums captured price times quantity over every line.
func LinesTotal(lines []OrderProduct) float64 {
	var total float64
	for _, l := range lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}
