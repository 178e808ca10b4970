package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/table-ordering/events"
	"github.com/yeremiapane/table-ordering/models"
	"github.com/yeremiapane/table-ordering/utils"
	"gorm.io/gorm"
)

const (
	ActionAccept         = "accept"
	ActionComplete       = "complete"
	ActionReject         = "reject"
	ActionRejectOnActive = "rejectOnActive"
)

type OrderLine struct {
	MenuID   uint `json:"menuId"`
	Quantity int  `json:"quantity"`
}

type PlaceOrderInput struct {
	RestaurantID string      `json:"restaurantID"`
	Table        string      `json:"table"`
	SessionID    string      `json:"sessionId"`
	Products     []OrderLine `json:"products"`
}

type OrderService struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db, now: time.Now}
}

func (in PlaceOrderInput) validate() error {
	if in.RestaurantID == "" || in.Table == "" || in.SessionID == "" {
		return utils.ValidationError("Missing table or session information")
	}
	if len(in.Products) == 0 {
		return utils.ValidationError("Order must contain at least one product")
	}
	for _, line := range in.Products {
		if line.MenuID == 0 {
			return utils.ValidationError("Product id is required")
		}
		if line.Quantity < 1 {
			return utils.ValidationError("Quantity must be at least 1")
		}
	}
	return nil
}

// Place creates an active order for the session currently holding the table.
// Names and prices are copied from the menu so later edits do not touch it.
func (s *OrderService) Place(ctx context.Context, in PlaceOrderInput, principal *utils.Principal) (*models.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var profile models.Profile
	err := s.DB.WithContext(ctx).Where("restaurant_id = ?", in.RestaurantID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	var customerID *uint
	if principal.HasRole(models.RoleCustomer) && principal.RestaurantUsername == in.RestaurantID {
		id := principal.ID
		customerID = &id
	}
	if profile.RequireCustomerLogin && customerID == nil {
		return nil, ErrLoginRequired
	}

	var table models.Table
	err = s.DB.WithContext(ctx).
		Where("restaurant_id = ? AND username = ?", in.RestaurantID, in.Table).
		First(&table).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTableNotOrderable
	}
	if err != nil {
		return nil, fmt.Errorf("load table: %w", err)
	}
	if !table.IsActive || !table.HeldBy(in.SessionID) {
		return nil, ErrTableNotOrderable
	}

	ids := make([]uint, 0, len(in.Products))
	for _, line := range in.Products {
		ids = append(ids, line.MenuID)
	}
	var menus []models.Menu
	if err := s.DB.WithContext(ctx).
		Where("restaurant_id = ? AND id IN ? AND hidden = ?", in.RestaurantID, ids, false).
		Find(&menus).Error; err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}
	byID := make(map[uint]models.Menu, len(menus))
	for _, m := range menus {
		byID[m.ID] = m
	}

	lines := make([]models.OrderProduct, 0, len(in.Products))
	for _, line := range in.Products {
		menu, ok := byID[line.MenuID]
		if !ok {
			return nil, utils.ValidationError(fmt.Sprintf("Menu item %d is not available", line.MenuID))
		}
		lines = append(lines, models.OrderProduct{
			MenuID:   menu.ID,
			Name:     menu.Name,
			Price:    menu.Price,
			Quantity: line.Quantity,
		})
	}

	order := models.Order{
		RestaurantID: in.RestaurantID,
		Table:        table.Username,
		TableName:    table.Name,
		SessionID:    in.SessionID,
		CustomerID:   customerID,
		State:        models.OrderStateActive,
		OrderTotal:   models.LinesTotal(lines),
		Products:     lines,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		return enqueueEvent(tx, events.OrderCreated, order.RestaurantID, strconv.Itoa(int(order.ID)), orderPayload(&order, ""))
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	utils.Info().WithFields(logrus.Fields{
		"restaurant": order.RestaurantID,
		"table":      order.Table,
		"session":    order.SessionID,
		"order":      order.ID,
		"total":      order.OrderTotal,
	}).Info("order placed")
	return &order, nil
}

func orderPayload(o *models.Order, action string) events.OrderPayload {
	return events.OrderPayload{
		OrderID:   o.ID,
		Table:     o.Table,
		SessionID: o.SessionID,
		Action:    action,
		State:     string(o.State),
		Total:     o.OrderTotal,
	}
}

func (s *OrderService) load(ctx context.Context, db *gorm.DB, restaurant string, id uint) (*models.Order, error) {
	q := db.WithContext(ctx).Preload("Products")
	if restaurant != "" {
		q = q.Where("restaurant_id = ?", restaurant)
	}
	var order models.Order
	err := q.First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	return &order, nil
}

// checkAction reports whether action is allowed from the order's current phase.
func checkAction(order *models.Order, action string) error {
	switch action {
	case ActionAccept, ActionComplete, ActionReject, ActionRejectOnActive:
	default:
		return ErrInvalidOrderAction
	}
	if order.State.IsTerminal() {
		return ErrOrderTerminal
	}

	phase := order.Phase()
	switch action {
	case ActionAccept, ActionReject:
		if phase != models.PhaseRequest {
			return ErrOrderNotRequest
		}
	case ActionComplete, ActionRejectOnActive:
		if phase != models.PhaseKitchen {
			return ErrOrderNotAccepted
		}
	}
	return nil
}

// Action applies an admin transition. Every write is guarded on state=active
// so a concurrent transition cannot be overwritten.
func (s *OrderService) Action(ctx context.Context, restaurant string, orderID uint, action string) (*models.Order, error) {
	order, err := s.load(ctx, s.DB, restaurant, orderID)
	if err != nil {
		return nil, err
	}
	if err := checkAction(order, action); err != nil {
		return nil, err
	}

	now := s.now()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"updated_at": now}
		switch action {
		case ActionComplete:
			updates["state"] = models.OrderStateComplete
		case ActionReject, ActionRejectOnActive:
			updates["state"] = models.OrderStateReject
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND state = ?", order.ID, models.OrderStateActive).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOrderTerminal
		}

		if action == ActionAccept {
			if err := tx.Model(&models.OrderProduct{}).
				Where("order_id = ? AND admin_approved = ?", order.ID, false).
				Updates(map[string]interface{}{"admin_approved": true, "updated_at": now}).Error; err != nil {
				return err
			}
		}

		fresh, err := s.load(ctx, tx, "", order.ID)
		if err != nil {
			return err
		}
		order = fresh
		return enqueueEvent(tx, events.OrderTransitioned, order.RestaurantID, strconv.Itoa(int(order.ID)), orderPayload(order, action))
	})
	if err != nil {
		var appErr *utils.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, fmt.Errorf("order %s: %w", action, err)
	}

	utils.Info().WithFields(logrus.Fields{
		"restaurant": order.RestaurantID,
		"table":      order.Table,
		"session":    order.SessionID,
		"order":      order.ID,
		"action":     action,
		"state":      order.State,
	}).Info("order transitioned")
	return order, nil
}

// Cancel lets the ordering session withdraw an order before any line is accepted.
func (s *OrderService) Cancel(ctx context.Context, orderID uint, sessionID string) (*models.Order, error) {
	if orderID == 0 || sessionID == "" {
		return nil, utils.ValidationError("Order id and session are required")
	}
	order, err := s.load(ctx, s.DB, "", orderID)
	if err != nil {
		return nil, err
	}
	if order.SessionID != sessionID {
		return nil, ErrOrderForeignSession
	}
	if order.State.IsTerminal() {
		return nil, ErrOrderTerminal
	}
	if order.HasApprovedLine() {
		return nil, ErrOrderInKitchen
	}

	now := s.now()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND state = ?", order.ID, models.OrderStateActive).
			Where("NOT EXISTS (SELECT 1 FROM order_products WHERE order_products.order_id = orders.id AND order_products.admin_approved = ?)", true).
			Updates(map[string]interface{}{"state": models.OrderStateCancel, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOrderInKitchen
		}
		order.State = models.OrderStateCancel
		order.UpdatedAt = now
		return enqueueEvent(tx, events.OrderTransitioned, order.RestaurantID, strconv.Itoa(int(order.ID)), orderPayload(order, "cancel"))
	})
	if err != nil {
		var appErr *utils.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, fmt.Errorf("cancel order: %w", err)
	}

	utils.Info().WithFields(logrus.Fields{
		"restaurant": order.RestaurantID,
		"session":    order.SessionID,
		"order":      order.ID,
	}).Info("order cancelled")
	return order, nil
}

// ListForSession returns the session's orders, oldest first.
func (s *OrderService) ListForSession(ctx context.Context, restaurant, sessionID string) ([]models.Order, error) {
	if sessionID == "" {
		return nil, utils.ValidationError("Session is required")
	}
	q := s.DB.WithContext(ctx).Preload("Products").Where("session_id = ?", sessionID)
	if restaurant != "" {
		q = q.Where("restaurant_id = ?", restaurant)
	}
	var orders []models.Order
	err := q.Order("created_at ASC").Find(&orders).Error
	return orders, err
}

// PartitionActive splits active orders into requests awaiting triage and
// accepted orders in the kitchen.
func PartitionActive(orders []models.Order) (requests, kitchen []models.Order) {
	requests = []models.Order{}
	kitchen = []models.Order{}
	for _, o := range orders {
		switch o.Phase() {
		case models.PhaseRequest:
			requests = append(requests, o)
		case models.PhaseKitchen:
			kitchen = append(kitchen, o)
		}
	}
	return requests, kitchen
}
