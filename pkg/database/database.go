package database

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"libmanager/pkg/models"
)

// Init connects to Postgres with retries and migrates the schema.
func Init(dsn string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	maxRetries := 10
	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			break
		}
		log.Printf("Database connection attempt %d/%d failed: %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(5 * time.Second)
		}
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database connection established successfully")
	return db, nil
}

// Migrate creates or updates the tables for all domain models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Item{}, &models.Reservation{})
}

// Advisory lock keys. Each key serializes the transactions that validate
// one aggregate limit.
const (
	LockCatalog int64 = iota + 1
	LockRoster
)

// AcquireLock takes a transaction-scoped advisory lock on Postgres. Other
// dialects get no lock; sqlite's single writer already serializes the
// transactions these keys guard.
func AcquireLock(tx *gorm.DB, key int64) error {
	if tx.Dialector.Name() == "postgres" {
		return tx.Exec("SELECT pg_advisory_xact_lock(?)", key).Error
	}
	return nil
}
