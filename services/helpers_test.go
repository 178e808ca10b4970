package services

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/table-ordering/database"
	"github.com/yeremiapane/table-ordering/models"
	"github.com/yeremiapane/table-ordering/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// setupTestDB opens a private in-memory database. One connection keeps every
// query on the same in-memory instance.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func seedRestaurant(t *testing.T, db *gorm.DB, username string, requireLogin bool) {
	t.Helper()
	require.NoError(t, db.Create(&models.Account{
		Username:      username,
		Email:         username + "@example.com",
		Password:      "x",
		Role:          models.RoleAdmin,
		AccountActive: true,
	}).Error)
	require.NoError(t, db.Create(&models.Profile{
		RestaurantID:         username,
		Name:                 username,
		RequireCustomerLogin: requireLogin,
	}).Error)
}

func seedTable(t *testing.T, db *gorm.DB, restaurant, username string, active bool) *models.Table {
	t.Helper()
	table := models.Table{RestaurantID: restaurant, Name: "Table " + username, Username: username, IsActive: active}
	require.NoError(t, db.Create(&table).Error)
	return &table
}

func seedMenu(t *testing.T, db *gorm.DB, restaurant, name string, price float64) *models.Menu {
	t.Helper()
	menu := models.Menu{RestaurantID: restaurant, Name: name, Price: price}
	require.NoError(t, db.Create(&menu).Error)
	return &menu
}

func openSessions(t *testing.T, db *gorm.DB, restaurant, table string) []models.TableSession {
	t.Helper()
	var sessions []models.TableSession
	require.NoError(t, db.Where("restaurant_id = ? AND table_username = ? AND end_time IS NULL", restaurant, table).Find(&sessions).Error)
	return sessions
}

func outboxTypes(t *testing.T, db *gorm.DB) []string {
	t.Helper()
	var rows []models.OutboxEvent
	require.NoError(t, db.Order("id ASC").Find(&rows).Error)
	types := make([]string, 0, len(rows))
	for _, r := range rows {
		types = append(types, r.Type)
	}
	return types
}

// claimedOrder claims table T1 for session S1 and places one order on it.
func claimedOrder(t *testing.T, db *gorm.DB) *models.Order {
	t.Helper()
	ctx := context.Background()
	seedRestaurant(t, db, "bistro", false)
	seedTable(t, db, "bistro", "T1", true)
	soup := seedMenu(t, db, "bistro", "Soup", 10)

	_, err := NewTableService(db, nil).Claim(ctx, "bistro", "T1", "S1")
	require.NoError(t, err)

	order, err := NewOrderService(db).Place(ctx, PlaceOrderInput{
		RestaurantID: "bistro",
		Table:        "T1",
		SessionID:    "S1",
		Products:     []OrderLine{{MenuID: soup.ID, Quantity: 1}},
	}, nil)
	require.NoError(t, err)
	return order
}
