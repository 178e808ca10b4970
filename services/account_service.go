package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/table-ordering/models"
	"github.com/yeremiapane/table-ordering/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AccountService struct {
	DB     *gorm.DB
	Tokens *utils.TokenManager
}

func NewAccountService(db *gorm.DB, tokens *utils.TokenManager) *AccountService {
	return &AccountService{DB: db, Tokens: tokens}
}

// Login accepts either the username or the email as identifier.
func (s *AccountService) Login(ctx context.Context, identifier, password string) (string, *models.Account, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" || password == "" {
		return "", nil, utils.ValidationError("Username and password are required")
	}

	var account models.Account
	err := s.DB.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, identifier).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("load account: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !account.AccountActive {
		return "", nil, ErrAccountInactive
	}

	token, err := s.Tokens.GenerateToken(account.ID, account.Role, account.Username)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	utils.Info().WithFields(logrus.Fields{"account": account.Username, "role": account.Role}).Info("login")
	return token, &account, nil
}

// GuestSignIn issues a customer token scoped to one restaurant.
func (s *AccountService) GuestSignIn(ctx context.Context, restaurant, table, name string) (string, *models.Customer, error) {
	if restaurant == "" || table == "" {
		return "", nil, ErrMissingTableInfo
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Table{}).
		Where("restaurant_id = ? AND username = ?", restaurant, table).
		Count(&count).Error; err != nil {
		return "", nil, err
	}
	if count == 0 {
		return "", nil, ErrTableNotFound
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = "Guest"
	}
	customer := models.Customer{RestaurantID: restaurant, Table: table, Name: name, IsGuest: true}
	if err := s.DB.WithContext(ctx).Create(&customer).Error; err != nil {
		return "", nil, fmt.Errorf("create customer: %w", err)
	}

	token, err := s.Tokens.GenerateToken(customer.ID, models.RoleCustomer, restaurant)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, &customer, nil
}

func (s *AccountService) Logout(token string) {
	s.Tokens.Revoke(token)
}

// EnsureSuperAdmin creates the superadmin account on first start. It is a
// no-op when one already exists or no credentials are configured.
func (s *AccountService) EnsureSuperAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Account{}).
		Where("role = ?", models.RoleSuperAdmin).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	account := models.Account{
		Username:           "superadmin",
		Email:              strings.ToLower(email),
		Password:           string(hash),
		Role:               models.RoleSuperAdmin,
		AccountActive:      true,
		SubscriptionActive: true,
	}
	if err := s.DB.WithContext(ctx).Create(&account).Error; err != nil {
		return fmt.Errorf("create superadmin: %w", err)
	}
	utils.Info().WithField("email", account.Email).Info("superadmin account created")
	return nil
}
