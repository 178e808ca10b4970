package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/table-ordering/cache"
	"github.com/yeremiapane/table-ordering/events"
	"github.com/yeremiapane/table-ordering/models"
	"github.com/yeremiapane/table-ordering/utils"
	"gorm.io/gorm"
)

var errClaimLost = errors.New("claim lost")

type TableService struct {
	DB    *gorm.DB
	Cache cache.PageCache
	now   func() time.Time
}

func NewTableService(db *gorm.DB, pc cache.PageCache) *TableService {
	if pc == nil {
		pc = cache.NopCache{}
	}
	return &TableService{DB: db, Cache: pc, now: time.Now}
}

func (s *TableService) findByUsername(ctx context.Context, restaurant, username string) (*models.Table, error) {
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
	return &table, nil
}

func (s *TableService) findByID(ctx context.Context, restaurant string, id uint) (*models.Table, error) {
	var table models.Table
	err := s.DB.WithContext(ctx).
		Where("restaurant_id = ? AND id = ?", restaurant, id).
		First(&table).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load table: %w", err)
	}
	return &table, nil
}

func (s *TableService) invalidate(ctx context.Context, restaurant string) {
	if err := s.Cache.Invalidate(ctx, restaurant); err != nil {
		utils.Error().WithError(err).WithField("restaurant", restaurant).Warn("page cache invalidate failed")
	}
}

// Claim binds sessionID to the table. Re-claiming with the current occupant's
// token succeeds without opening a second session.
func (s *TableService) Claim(ctx context.Context, restaurant, username, sessionID string) (*models.Table, error) {
	if restaurant == "" || username == "" || sessionID == "" {
		return nil, ErrMissingTableInfo
	}

	table, err := s.findByUsername(ctx, restaurant, username)
	if err != nil {
		return nil, err
	}
	if !table.IsActive {
		return nil, ErrTableLocked
	}
	if table.HeldBy(sessionID) {
		return table, nil
	}
	if table.Occupied() {
		return nil, ErrTableInUse
	}

	now := s.now()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Table{}).
			Where("id = ? AND is_active = ? AND active_session_id IS NULL", table.ID, true).
			Updates(map[string]interface{}{
				"active_session_id": sessionID,
				"updated_at":        now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errClaimLost
		}

		session := models.TableSession{
			RestaurantID: restaurant,
			Table:        table.Username,
			TableName:    table.Name,
			SessionID:    sessionID,
			StartTime:    now,
		}
		if err := tx.Create(&session).Error; err != nil {
			return err
		}
		return enqueueEvent(tx, events.TableClaimed, restaurant, table.Username, events.TablePayload{
			Table:     table.Username,
			TableName: table.Name,
			SessionID: sessionID,
		})
	})

	if errors.Is(err, errClaimLost) {
		// Someone else won the swap; report against what is stored now.
		current, ferr := s.findByUsername(ctx, restaurant, username)
		if ferr != nil {
			return nil, ferr
		}
		switch {
		case current.HeldBy(sessionID):
			return current, nil
		case !current.IsActive:
			return nil, ErrTableLocked
		default:
			return nil, ErrTableInUse
		}
	}
	if err != nil {
		return nil, fmt.Errorf("claim table: %w", err)
	}

	table.ActiveSessionID = &sessionID
	table.UpdatedAt = now
	utils.Info().WithFields(logrus.Fields{
		"restaurant": restaurant,
		"table":      table.Username,
		"session":    sessionID,
	}).Info("table claimed")
	return table, nil
}

// closeOpenSessions ends every open session of the table and returns the
// duration of the last one closed.
func closeOpenSessions(tx *gorm.DB, restaurant, table string, end time.Time) (*int, error) {
	var open []models.TableSession
	if err := tx.Where("restaurant_id = ? AND table_username = ? AND end_time IS NULL", restaurant, table).
		Find(&open).Error; err != nil {
		return nil, err
	}

	var last *int
	for _, session := range open {
		duration := models.SessionDuration(session.StartTime, end)
		if err := tx.Model(&models.TableSession{}).
			Where("id = ? AND end_time IS NULL", session.ID).
			Updates(map[string]interface{}{
				"end_time":         end,
				"duration_minutes": duration,
				"updated_at":       end,
			}).Error; err != nil {
			return nil, err
		}
		last = &duration
	}
	return last, nil
}

// SetActive is the admin lock/unlock. Locking is refused while the current
// session still has active orders or staff calls.
func (s *TableService) SetActive(ctx context.Context, restaurant string, tableID uint, active bool) (*models.Table, error) {
	table, err := s.findByID(ctx, restaurant, tableID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if active {
		if !table.IsActive {
			err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				if err := tx.Model(&models.Table{}).Where("id = ?", table.ID).
					Updates(map[string]interface{}{"is_active": true, "updated_at": now}).Error; err != nil {
					return err
				}
				return enqueueEvent(tx, events.TableActivated, restaurant, table.Username, events.TablePayload{
					Table:     table.Username,
					TableName: table.Name,
				})
			})
			if err != nil {
				return nil, fmt.Errorf("activate table: %w", err)
			}
			table.IsActive = true
			table.UpdatedAt = now
			utils.Info().WithFields(logrus.Fields{"restaurant": restaurant, "table": table.Username}).Info("table activated")
		}
		s.invalidate(ctx, restaurant)
		return table, nil
	}

	previous := table.ActiveSessionID
	var duration *int
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if previous != nil {
			var pending int64
			if err := tx.Model(&models.Order{}).
				Where("restaurant_id = ? AND session_id = ? AND state = ?", restaurant, *previous, models.OrderStateActive).
				Count(&pending).Error; err != nil {
				return err
			}
			var calls int64
			if err := tx.Model(&models.StaffCall{}).
				Where("restaurant_id = ? AND session_id = ? AND status = ?", restaurant, *previous, models.StaffCallActive).
				Count(&calls).Error; err != nil {
				return err
			}
			if pending+calls > 0 {
				return ErrTableBusy
			}
		}

		q := tx.Model(&models.Table{}).Where("id = ?", table.ID)
		if previous == nil {
			q = q.Where("active_session_id IS NULL")
		} else {
			q = q.Where("active_session_id = ?", *previous)
		}
		res := q.Updates(map[string]interface{}{
			"is_active":         false,
			"active_session_id": nil,
			"updated_at":        now,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTableChanged
		}

		var err error
		duration, err = closeOpenSessions(tx, restaurant, table.Username, now)
		if err != nil {
			return err
		}

		payload := events.TablePayload{Table: table.Username, TableName: table.Name, Duration: duration}
		if previous != nil {
			payload.SessionID = *previous
		}
		return enqueueEvent(tx, events.TableLocked, restaurant, table.Username, payload)
	})
	if err != nil {
		var appErr *utils.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, fmt.Errorf("lock table: %w", err)
	}

	table.IsActive = false
	table.ActiveSessionID = nil
	table.UpdatedAt = now
	fields := logrus.Fields{"restaurant": restaurant, "table": table.Username}
	if previous != nil {
		fields["session"] = *previous
	}
	utils.Info().WithFields(fields).Info("table locked")
	s.invalidate(ctx, restaurant)
	return table, nil
}

// ReleaseOnLogout closes the open session and forces the table locked. Unlike
// SetActive it ignores pending orders and staff calls.
func (s *TableService) ReleaseOnLogout(ctx context.Context, restaurant, username string) (*models.Table, error) {
	if restaurant == "" || username == "" {
		return nil, ErrMissingTableInfo
	}
	table, err := s.findByUsername(ctx, restaurant, username)
	if err != nil {
		return nil, err
	}

	previous := table.ActiveSessionID
	now := s.now()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		duration, err := closeOpenSessions(tx, restaurant, table.Username, now)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Table{}).Where("id = ?", table.ID).
			Updates(map[string]interface{}{
				"is_active":         false,
				"active_session_id": nil,
				"updated_at":        now,
			}).Error; err != nil {
			return err
		}
		payload := events.TablePayload{Table: table.Username, TableName: table.Name, Duration: duration}
		if previous != nil {
			payload.SessionID = *previous
		}
		return enqueueEvent(tx, events.TableReleased, restaurant, table.Username, payload)
	})
	if err != nil {
		return nil, fmt.Errorf("release table: %w", err)
	}

	table.IsActive = false
	table.ActiveSessionID = nil
	table.UpdatedAt = now
	utils.Info().WithFields(logrus.Fields{"restaurant": restaurant, "table": table.Username}).Info("table released on logout")
	s.invalidate(ctx, restaurant)
	return table, nil
}

func (s *TableService) Create(ctx context.Context, restaurant, name, username string) (*models.Table, error) {
	name = strings.TrimSpace(name)
	username = strings.TrimSpace(username)
	if name == "" || username == "" {
		return nil, utils.ValidationError("Table name and username are required")
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Table{}).
		Where("restaurant_id = ? AND username = ?", restaurant, username).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrTableExists
	}

	table := models.Table{RestaurantID: restaurant, Name: name, Username: username}
	if err := s.DB.WithContext(ctx).Create(&table).Error; err != nil {
		return nil, fmt.Errorf("create table: %w", err)
	}
	s.invalidate(ctx, restaurant)
	return &table, nil
}

func (s *TableService) List(ctx context.Context, restaurant string) ([]models.Table, error) {
	var tables []models.Table
	err := s.DB.WithContext(ctx).
		Where("restaurant_id = ?", restaurant).
		Order("name ASC").
		Find(&tables).Error
	return tables, err
}

func (s *TableService) Get(ctx context.Context, restaurant string, id uint) (*models.Table, error) {
	return s.findByID(ctx, restaurant, id)
}

// Delete removes a table that nobody is sitting at.
func (s *TableService) Delete(ctx context.Context, restaurant string, id uint) error {
	table, err := s.findByID(ctx, restaurant, id)
	if err != nil {
		return err
	}
	if table.Occupied() {
		return ErrTableHasGuests
	}

	res := s.DB.WithContext(ctx).
		Where("id = ? AND active_session_id IS NULL", table.ID).
		Delete(&models.Table{})
	if res.Error != nil {
		return fmt.Errorf("delete table: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTableHasGuests
	}
	utils.Info().WithFields(logrus.Fields{"restaurant": restaurant, "table": table.Username, "id": id}).Info("table deleted")
	s.invalidate(ctx, restaurant)
	return nil
}
