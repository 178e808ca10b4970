package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/table-ordering/events"
	"github.com/yeremiapane/table-ordering/models"
	"github.com/yeremiapane/table-ordering/utils"
	"gorm.io/gorm"
)

type StaffCallService struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewStaffCallService(db *gorm.DB) *StaffCallService {
	return &StaffCallService{DB: db, now: time.Now}
}

func callPayload(c *models.StaffCall) events.StaffCallPayload {
	p := events.StaffCallPayload{
		CallID: c.ID,
		Table:  c.Table,
		Reason: c.Reason,
		Status: c.Status,
	}
	if c.SessionID != nil {
		p.SessionID = *c.SessionID
	}
	return p
}

// Create records a staff call against the table's current session. The table
// must be active.
func (s *StaffCallService) Create(ctx context.Context, restaurant, username, reason string, principal *utils.Principal) (*models.StaffCall, error) {
	if restaurant == "" || username == "" {
		return nil, ErrMissingTableInfo
	}

	var table models.Table
	err := s.DB.WithContext(ctx).
		Where("restaurant_id = ? AND username = ?", restaurant, username).
		First(&table).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load table: %w", err)
	}
	if !table.IsActive {
		return nil, ErrTableNotActive
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = models.DefaultStaffCallReason
	}

	call := models.StaffCall{
		RestaurantID: restaurant,
		Table:        table.Username,
		TableName:    table.Name,
		Reason:       reason,
		SessionID:    table.ActiveSessionID,
		Status:       models.StaffCallActive,
	}
	if principal.HasRole(models.RoleCustomer) && principal.RestaurantUsername == restaurant {
		id := principal.ID
		call.CustomerID = &id
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&call).Error; err != nil {
			return err
		}
		return enqueueEvent(tx, events.StaffCallCreated, restaurant, strconv.Itoa(int(call.ID)), callPayload(&call))
	})
	if err != nil {
		return nil, fmt.Errorf("create staff call: %w", err)
	}

	fields := logrus.Fields{"restaurant": restaurant, "table": call.Table, "call": call.ID}
	if call.SessionID != nil {
		fields["session"] = *call.SessionID
	}
	utils.Info().WithFields(fields).Info("staff called")
	return &call, nil
}

func (s *StaffCallService) find(ctx context.Context, restaurant string, id uint) (*models.StaffCall, error) {
	var call models.StaffCall
	err := s.DB.WithContext(ctx).
		Where("restaurant_id = ?", restaurant).
		First(&call, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStaffCallNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load staff call: %w", err)
	}
	return &call, nil
}

// Resolve moves an active call to resolved. Resolving a resolved call returns
// it unchanged.
func (s *StaffCallService) Resolve(ctx context.Context, restaurant string, id uint) (*models.StaffCall, error) {
	call, err := s.find(ctx, restaurant, id)
	if err != nil {
		return nil, err
	}
	if call.Status == models.StaffCallResolved {
		return call, nil
	}

	now := s.now()
	resolved := false
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.StaffCall{}).
			Where("id = ? AND status = ?", call.ID, models.StaffCallActive).
			Updates(map[string]interface{}{
				"status":      models.StaffCallResolved,
				"resolved_at": now,
				"updated_at":  now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		resolved = true
		call.Status = models.StaffCallResolved
		call.ResolvedAt = &now
		call.UpdatedAt = now
		return enqueueEvent(tx, events.StaffCallResolved, restaurant, strconv.Itoa(int(call.ID)), callPayload(call))
	})
	if err != nil {
		return nil, fmt.Errorf("resolve staff call: %w", err)
	}
	if !resolved {
		return s.find(ctx, restaurant, id)
	}

	utils.Info().WithFields(logrus.Fields{"restaurant": restaurant, "table": call.Table, "call": call.ID}).Info("staff call resolved")
	return call, nil
}

func (s *StaffCallService) ListActive(ctx context.Context, restaurant string) ([]models.StaffCall, error) {
	var calls []models.StaffCall
	err := s.DB.WithContext(ctx).
		Where("restaurant_id = ? AND status = ?", restaurant, models.StaffCallActive).
		Order("created_at ASC").
		Find(&calls).Error
	return calls, err
}
