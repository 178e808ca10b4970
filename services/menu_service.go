package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yeremiapane/table-ordering/cache"
	"github.com/yeremiapane/table-ordering/models"
	"github.com/yeremiapane/table-ordering/utils"
	"gorm.io/gorm"
)

type MenuInput struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Hidden      bool    `json:"hidden"`
}

func (in MenuInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return utils.ValidationError("Menu name is required")
	}
	if in.Price < 0 {
		return utils.ValidationError("Price cannot be negative")
	}
	return nil
}

type MenuService struct {
	DB    *gorm.DB
	Cache cache.PageCache
}

func NewMenuService(db *gorm.DB, pc cache.PageCache) *MenuService {
	if pc == nil {
		pc = cache.NopCache{}
	}
	return &MenuService{DB: db, Cache: pc}
}

func (s *MenuService) invalidate(ctx context.Context, restaurant string) {
	if err := s.Cache.Invalidate(ctx, restaurant); err != nil {
		utils.Error().WithError(err).WithField("restaurant", restaurant).Warn("page cache invalidate failed")
	}
}

func (s *MenuService) Create(ctx context.Context, restaurant string, in MenuInput) (*models.Menu, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	menu := models.Menu{
		RestaurantID: restaurant,
		Name:         strings.TrimSpace(in.Name),
		Category:     in.Category,
		Description:  in.Description,
		Price:        in.Price,
		Hidden:       in.Hidden,
	}
	if err := s.DB.WithContext(ctx).Create(&menu).Error; err != nil {
		return nil, fmt.Errorf("create menu: %w", err)
	}
	s.invalidate(ctx, restaurant)
	return &menu, nil
}

func (s *MenuService) Update(ctx context.Context, restaurant string, id uint, in MenuInput) (*models.Menu, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var menu models.Menu
	err := s.DB.WithContext(ctx).Where("restaurant_id = ?", restaurant).First(&menu, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMenuNotFound
	}
	if err != nil {
		return nil, err
	}

	menu.Name = strings.TrimSpace(in.Name)
	menu.Category = in.Category
	menu.Description = in.Description
	menu.Price = in.Price
	menu.Hidden = in.Hidden
	if err := s.DB.WithContext(ctx).Save(&menu).Error; err != nil {
		return nil, fmt.Errorf("update menu: %w", err)
	}
	s.invalidate(ctx, restaurant)
	return &menu, nil
}

func (s *MenuService) Delete(ctx context.Context, restaurant string, id uint) error {
	res := s.DB.WithContext(ctx).Where("restaurant_id = ? AND id = ?", restaurant, id).Delete(&models.Menu{})
	if res.Error != nil {
		return fmt.Errorf("delete menu: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrMenuNotFound
	}
	s.invalidate(ctx, restaurant)
	return nil
}
