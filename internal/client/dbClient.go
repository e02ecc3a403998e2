package client

import (
	"fmt"
	"strings"
	"time"

	"flowcart/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDBClient opens the database selected by the DATABASE_URL scheme:
// "sqlite://file.db" for local development and tests, anything else is
// treated as a MySQL DSN.
func InitDBClient(databaseURL string) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	// TranslateError maps driver duplicate-key errors to gorm.ErrDuplicatedKey
	cfg := &gorm.Config{TranslateError: true}
	if path, ok := strings.CutPrefix(databaseURL, "sqlite://"); ok {
		db, err = gorm.Open(sqlite.Open(path), cfg)
	} else {
		db, err = gorm.Open(mysql.Open(databaseURL), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool (important for webhooks)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Address{},
		&model.Category{},
		&model.Product{},
		&model.Variant{},
		&model.Cart{},
		&model.CartItem{},
		&model.PromoCode{},
		&model.Order{},
		&model.OrderItem{},
		&model.Payment{},
		&model.WebhookEvent{},
	)
}
