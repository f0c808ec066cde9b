package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&User{}, &Item{}, &Reservation{}))
	return db
}

// The User/Reservation associations join on the username string, not on a
// surrogate key; a migration that types users.username as anything but text
// breaks every user insert.
func TestMigrateAndInsertUser(t *testing.T) {
	db := setupTestDB(t)

	user := User{
		Username:         "alice",
		FirstName:        "Alice",
		LastName:         "Liddell",
		Address:          "1 Rabbit Hole",
		Email:            "alice@example.org",
		Birthday:         time.Date(1990, 3, 14, 0, 0, 0, 0, time.UTC),
		RegistrationDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PasswordHash:     "hash",
	}
	require.NoError(t, db.Create(&user).Error)

	var stored User
	require.NoError(t, db.First(&stored, "username = ?", "alice").Error)
	assert.Equal(t, "alice", stored.Username)
	assert.Equal(t, "Alice", stored.FirstName)
}

func TestReservationAssociations(t *testing.T) {
	db := setupTestDB(t)

	user := User{Username: "alice", FirstName: "A", LastName: "L", Address: "x", Email: "a@x", PasswordHash: "h"}
	require.NoError(t, db.Create(&user).Error)
	item := Item{Category: CategoryBook, Title: "Dune", Creator: "Frank Herbert", Genre: "FICTION", TotalCopies: 2, AvailableCopies: 2}
	require.NoError(t, db.Create(&item).Error)
	reservation := Reservation{
		Uid:             uuid.New().String(),
		Username:        "alice",
		ItemID:          item.ID,
		ReservationDate: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&reservation).Error)

	var loaded Reservation
	require.NoError(t, db.Preload("User").Preload("Item").First(&loaded, reservation.ID).Error)
	assert.Equal(t, "alice", loaded.User.Username)
	assert.Equal(t, "Dune", loaded.Item.Title)
	assert.Equal(t, CategoryBook, loaded.Kind())

	var withReservations User
	require.NoError(t, db.Preload("Reservations").First(&withReservations, "username = ?", "alice").Error)
	require.Len(t, withReservations.Reservations, 1)
	assert.Equal(t, item.ID, withReservations.Reservations[0].ItemID)
}
