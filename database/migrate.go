package database

import (
	"fmt"

	"github.com/yeremiapane/table-ordering/models"
	"github.com/yeremiapane/table-ordering/utils"
	"gorm.io/gorm"
)

// Models is every table owned by the service, in creation order.
func Models() []interface{} {
	return []interface{}{
		&models.Account{},
		&models.Profile{},
		&models.Customer{},
		&models.Table{},
		&models.TableSession{},
		&models.Menu{},
		&models.Order{},
		&models.OrderProduct{},
		&models.StaffCall{},
		&models.Review{},
		&models.OutboxEvent{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	utils.Info().Info("AutoMigrate completed.")
	return nil
}
