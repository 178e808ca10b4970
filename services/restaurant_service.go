package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/table-ordering/cache"
	"github.com/yeremiapane/table-ordering/models"
	"github.com/yeremiapane/table-ordering/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type PublicTable struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	IsActive bool   `json:"isActive"`
}

// PublicPage is what a customer sees after scanning a table QR code.
type PublicPage struct {
	Profile models.Profile `json:"profile"`
	Menus   []models.Menu  `json:"menus"`
	Tables  []PublicTable  `json:"tables"`
}

type Dashboard struct {
	Profile models.Profile `json:"profile"`
	Menus   []models.Menu  `json:"menus"`
	Tables  []models.Table `json:"tables"`
}

type ProfileUpdate struct {
	Name                 *string `json:"name"`
	Description          *string `json:"description"`
	Address              *string `json:"address"`
	RequireCustomerLogin *bool   `json:"requireCustomerLogin"`
}

type NewRestaurant struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Address     string `json:"address"`
}

type RestaurantSummary struct {
	Account models.Account  `json:"account"`
	Profile *models.Profile `json:"profile"`
}

type RestaurantService struct {
	DB    *gorm.DB
	Cache cache.PageCache
}

func NewRestaurantService(db *gorm.DB, pc cache.PageCache) *RestaurantService {
	if pc == nil {
		pc = cache.NopCache{}
	}
	return &RestaurantService{DB: db, Cache: pc}
}

func (s *RestaurantService) profile(ctx context.Context, restaurant string) (*models.Profile, error) {
	var profile models.Profile
	err := s.DB.WithContext(ctx).Where("restaurant_id = ?", restaurant).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return &profile, nil
}

// PublicPage serves from the page cache and fills it on a miss. Deactivated
// tenants are reported as not found.
func (s *RestaurantService) PublicPage(ctx context.Context, restaurant string) (*PublicPage, error) {
	if raw, err := s.Cache.Get(ctx, restaurant); err == nil {
		var page PublicPage
		if jerr := json.Unmarshal(raw, &page); jerr == nil {
			return &page, nil
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		utils.Error().WithError(err).WithField("restaurant", restaurant).Warn("page cache read failed")
	}

	var account models.Account
	err := s.DB.WithContext(ctx).Where("username = ?", restaurant).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !account.AccountActive) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}

	profile, err := s.profile(ctx, restaurant)
	if err != nil {
		return nil, err
	}
	page := PublicPage{Profile: *profile, Menus: []models.Menu{}, Tables: []PublicTable{}}
	if err := s.DB.WithContext(ctx).
		Where("restaurant_id = ? AND hidden = ?", restaurant, false).
		Order("category ASC, name ASC").
		Find(&page.Menus).Error; err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}
	var tables []models.Table
	if err := s.DB.WithContext(ctx).
		Where("restaurant_id = ?", restaurant).
		Order("name ASC").
		Find(&tables).Error; err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	for _, t := range tables {
		page.Tables = append(page.Tables, PublicTable{Name: t.Name, Username: t.Username, IsActive: t.IsActive})
	}

	if raw, err := json.Marshal(page); err == nil {
		if err := s.Cache.Set(ctx, restaurant, raw); err != nil {
			utils.Error().WithError(err).WithField("restaurant", restaurant).Warn("page cache write failed")
		}
	}
	return &page, nil
}

func (s *RestaurantService) Dashboard(ctx context.Context, restaurant string) (*Dashboard, error) {
	profile, err := s.profile(ctx, restaurant)
	if err != nil {
		return nil, err
	}
	d := Dashboard{Profile: *profile, Menus: []models.Menu{}, Tables: []models.Table{}}
	if err := s.DB.WithContext(ctx).Where("restaurant_id = ?", restaurant).Order("name ASC").Find(&d.Menus).Error; err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Where("restaurant_id = ?", restaurant).Order("name ASC").Find(&d.Tables).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *RestaurantService) UpdateProfile(ctx context.Context, restaurant string, in ProfileUpdate) (*models.Profile, error) {
	profile, err := s.profile(ctx, restaurant)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, utils.ValidationError("Name cannot be empty")
		}
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Address != nil {
		updates["address"] = *in.Address
	}
	if in.RequireCustomerLogin != nil {
		updates["require_customer_login"] = *in.RequireCustomerLogin
	}
	if len(updates) == 0 {
		return profile, nil
	}
	if err := s.DB.WithContext(ctx).Model(profile).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.invalidate(ctx, restaurant)
	return s.profile(ctx, restaurant)
}

func (s *RestaurantService) invalidate(ctx context.Context, restaurant string) {
	if err := s.Cache.Invalidate(ctx, restaurant); err != nil {
		utils.Error().WithError(err).WithField("restaurant", restaurant).Warn("page cache invalidate failed")
	}
}

func (s *RestaurantService) ListRestaurants(ctx context.Context) ([]RestaurantSummary, error) {
	var accounts []models.Account
	if err := s.DB.WithContext(ctx).
		Where("role = ?", models.RoleAdmin).
		Order("created_at DESC").
		Find(&accounts).Error; err != nil {
		return nil, err
	}
	var profiles []models.Profile
	if err := s.DB.WithContext(ctx).Find(&profiles).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]models.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.RestaurantID] = p
	}

	out := make([]RestaurantSummary, 0, len(accounts))
	for _, a := range accounts {
		sum := RestaurantSummary{Account: a}
		if p, ok := byID[a.Username]; ok {
			p := p
			sum.Profile = &p
		}
		out = append(out, sum)
	}
	return out, nil
}

// CreateRestaurant registers a tenant admin account and its profile.
func (s *RestaurantService) CreateRestaurant(ctx context.Context, in NewRestaurant) (*RestaurantSummary, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" || in.Password == "" || strings.TrimSpace(in.Name) == "" {
		return nil, utils.ValidationError("Username, email, password and name are required")
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Account{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrRestaurantExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := models.Account{
		Username:           username,
		Email:              email,
		Password:           string(hash),
		Role:               models.RoleAdmin,
		AccountActive:      true,
		SubscriptionActive: true,
	}
	profile := models.Profile{
		RestaurantID: username,
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Address:      in.Address,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&account).Error; err != nil {
			return err
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create restaurant: %w", err)
	}

	utils.Info().WithField("restaurant", username).Info("restaurant created")
	return &RestaurantSummary{Account: account, Profile: &profile}, nil
}

func (s *RestaurantService) account(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	err := s.DB.WithContext(ctx).First(&account, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, err
	}
	if account.IsSuperAdmin() {
		return nil, ErrSuperAdminProtected
	}
	return &account, nil
}

func (s *RestaurantService) SetAccountActive(ctx context.Context, id uint, active bool) (*models.Account, error) {
	account, err := s.account(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(account).Update("account_active", active).Error; err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	account.AccountActive = active
	s.invalidate(ctx, account.Username)
	utils.Info().WithFields(logrus.Fields{"restaurant": account.Username, "active": active}).Info("restaurant account updated")
	return account, nil
}

// DeleteRestaurant removes the tenant account together with its profile,
// menu and tables. Orders, sessions and reviews stay as history.
func (s *RestaurantService) DeleteRestaurant(ctx context.Context, id uint) error {
	account, err := s.account(ctx, id)
	if err != nil {
		return err
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.Profile{}, &models.Menu{}, &models.Table{}} {
			if err := tx.Where("restaurant_id = ?", account.Username).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(account).Error
	})
	if err != nil {
		return fmt.Errorf("delete restaurant: %w", err)
	}
	s.invalidate(ctx, account.Username)
	utils.Info().WithField("restaurant", account.Username).Info("restaurant deleted")
	return nil
}
