// Package reservation orchestrates borrowing and returning of catalog
// items. Every mutating operation runs in a single transaction so a
// failed write never leaves the copy counts out of step with the
// reservation rows.
package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"libmanager/pkg/apperr"
	"libmanager/pkg/eligibility"
	"libmanager/pkg/models"
)

type Manager struct {
	db   *gorm.DB
	eval *eligibility.Evaluator
}

func NewManager(db *gorm.DB, eval *eligibility.Evaluator) *Manager {
	return &Manager{db: db, eval: eval}
}

// Filter holds the optional reservation search criteria. Nil fields
// impose no constraint; all supplied fields are ANDed.
type Filter struct {
	ID       *uint
	Username *string
	Title    *string
	Category *models.Category
	Date     *time.Time
}

// Borrow creates a reservation for the user on the item, decrementing the
// item's available copies. Eligibility and availability are both checked
// before any mutation; the decrement and the reservation insert commit or
// roll back together.
func (m *Manager) Borrow(ctx context.Context, username string, itemID uint) (*models.Reservation, error) {
	var created models.Reservation

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Preload("Reservations.Item").First(&user, "username = ?", username).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}

		var item models.Item
		if err := tx.First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}

		if !m.eval.CanBorrow(&user, item.Category, time.Now()) {
			return apperr.ErrLimitReached
		}

		// The guarded decrement is what makes two concurrent borrows of
		// the last copy impossible: only one UPDATE matches the row.
		res := tx.Model(&models.Item{}).
			Where("id = ? AND available_copies > 0", item.ID).
			UpdateColumn("available_copies", gorm.Expr("available_copies - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.ErrNotAvailable
		}

		created = models.Reservation{
			Uid:             uuid.New().String(),
			Username:        user.Username,
			ItemID:          item.ID,
			ReservationDate: today(),
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}
		return tx.Preload("Item").First(&created, created.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Cancel removes a reservation and returns its copy to the item. An
// increment that would push available copies past the total indicates a
// pre-existing inconsistency and fails the whole transaction.
func (m *Manager) Cancel(ctx context.Context, id uint) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reservation models.Reservation
		if err := tx.First(&reservation, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}

		res := tx.Model(&models.Item{}).
			Where("id = ? AND available_copies < total_copies", reservation.ItemID).
			UpdateColumn("available_copies", gorm.Expr("available_copies + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("item %d copy counts are inconsistent", reservation.ItemID)
		}

		return tx.Delete(&reservation).Error
	})
}

// Get returns a single reservation with its user and item loaded.
func (m *Manager) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	err := m.db.WithContext(ctx).Preload("User").Preload("Item").First(&reservation, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

// ByUser returns all reservations held by the user.
func (m *Manager) ByUser(ctx context.Context, username string) ([]models.Reservation, error) {
	var user models.User
	if err := m.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	var reservations []models.Reservation
	err := m.db.WithContext(ctx).Preload("Item").
		Where("username = ?", username).
		Find(&reservations).Error
	return reservations, err
}

// Search returns the reservations matching the filter.
func (m *Manager) Search(ctx context.Context, filter Filter) ([]models.Reservation, error) {
	query := m.db.WithContext(ctx).Model(&models.Reservation{}).
		Joins("JOIN items ON items.id = reservations.item_id").
		Preload("User").Preload("Item")

	if filter.ID != nil {
		query = query.Where("reservations.id = ?", *filter.ID)
	}
	if filter.Username != nil {
		query = query.Where("reservations.username LIKE ?", "%"+*filter.Username+"%")
	}
	if filter.Title != nil {
		query = query.Where("items.title LIKE ?", "%"+*filter.Title+"%")
	}
	if filter.Category != nil {
		query = query.Where("items.category = ?", *filter.Category)
	}
	if filter.Date != nil {
		query = query.Where("reservations.reservation_date = ?", filter.Date.Truncate(24*time.Hour))
	}

	var reservations []models.Reservation
	err := query.Find(&reservations).Error
	return reservations, err
}

// today is the reservation date: a calendar day, not an instant.
func today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
