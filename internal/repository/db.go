package repository

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kanenguyen264-cyber/do-an/internal/config"
	"github.com/kanenguyen264-cyber/do-an/internal/models"
)

func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	case "mysql", "":
		dialector = mysql.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return db, nil
}

// Migrate creates the schema and seeds the single policy row when absent.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Category{},
		&models.Publisher{},
		&models.Author{},
		&models.Book{},
		&models.User{},
		&models.Borrowing{},
		&models.Fine{},
		&models.Reservation{},
		&models.Notification{},
		&models.SystemConfig{},
		&models.ActivityLog{},
	)
	if err != nil {
		return err
	}
	var count int64
	if err := db.Model(&models.SystemConfig{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		seed := models.SystemConfig{
			MaxBooksPerUser:   5,
			DefaultBorrowDays: 14,
			MaxRenewalCount:   1,
			LateFeePerDay:     5000,
			ReservationDays:   7,
		}
		if err := db.Create(&seed).Error; err != nil {
			return err
		}
	}
	return nil
}

// lockForUpdate takes a row lock on dialects that support it. SQLite
// serializes writers on its own and rejects the FOR UPDATE syntax.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
