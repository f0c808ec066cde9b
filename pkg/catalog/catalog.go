// Package catalog manages the item inventory and enforces the
// system-wide ceiling on total copies.
package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"libmanager/pkg/apperr"
	"libmanager/pkg/database"
	"libmanager/pkg/models"
)

type Service struct {
	db             *gorm.DB
	maxTotalCopies int64
}

func NewService(db *gorm.DB, maxTotalCopies int64) *Service {
	return &Service{db: db, maxTotalCopies: maxTotalCopies}
}

type BookInput struct {
	Title       string
	Author      string
	Publisher   string
	Genre       string
	ISBN        string
	ReleaseDate time.Time
	TotalCopies int
}

type DVDInput struct {
	Title       string
	Director    string
	Genre       string
	Duration    string
	ReleaseDate time.Time
	TotalCopies int
}

// EditInput carries the new state of an item. Category-specific fields
// not applicable to the item's category are ignored.
type EditInput struct {
	Title       string
	Creator     string
	Publisher   string
	Genre       string
	ISBN        string
	Duration    string
	ReleaseDate time.Time
	TotalCopies int
}

// ItemFilter holds the optional search criteria; nil fields impose no
// constraint, the rest are ANDed.
type ItemFilter struct {
	Title       *string
	Creator     *string
	Publisher   *string
	Genre       *string
	ISBN        *string
	Category    *models.Category
	ReleaseDate *time.Time
	Available   *bool
}

func (s *Service) AddBook(ctx context.Context, input BookInput) (*models.Item, error) {
	return s.add(ctx, &models.Item{
		Category:    models.CategoryBook,
		Title:       input.Title,
		Creator:     input.Author,
		Publisher:   input.Publisher,
		Genre:       strings.ToUpper(input.Genre),
		ISBN:        input.ISBN,
		ReleaseDate: input.ReleaseDate,
		TotalCopies: input.TotalCopies,
	})
}

func (s *Service) AddDVD(ctx context.Context, input DVDInput) (*models.Item, error) {
	return s.add(ctx, &models.Item{
		Category:    models.CategoryDVD,
		Title:       input.Title,
		Creator:     input.Director,
		Genre:       strings.ToUpper(input.Genre),
		Duration:    input.Duration,
		ReleaseDate: input.ReleaseDate,
		TotalCopies: input.TotalCopies,
	})
}

// add creates the item with every copy available, unless the summed
// ceiling would be exceeded.
func (s *Service) add(ctx context.Context, item *models.Item) (*models.Item, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := database.AcquireLock(tx, database.LockCatalog); err != nil {
			return err
		}
		sum, err := sumTotalCopies(tx, 0)
		if err != nil {
			return err
		}
		if sum+int64(item.TotalCopies) > s.maxTotalCopies {
			return apperr.ErrCatalogFull
		}
		item.AvailableCopies = item.TotalCopies
		return tx.Create(item).Error
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Edit updates an item's metadata and copy count. The new total may not
// exceed the catalog ceiling together with all other items, nor fall
// below the number of copies currently on loan; available copies move by
// the same delta as the total so loans stay out.
func (s *Service) Edit(ctx context.Context, id uint, input EditInput) (*models.Item, error) {
	var edited models.Item

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := database.AcquireLock(tx, database.LockCatalog); err != nil {
			return err
		}

		var item models.Item
		if err := tx.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}

		sumOthers, err := sumTotalCopies(tx, item.ID)
		if err != nil {
			return err
		}
		if sumOthers+int64(input.TotalCopies) > s.maxTotalCopies {
			return apperr.ErrCatalogFull
		}

		updates := map[string]interface{}{
			"title":            input.Title,
			"creator":          input.Creator,
			"genre":            strings.ToUpper(input.Genre),
			"release_date":     input.ReleaseDate,
			"total_copies":     input.TotalCopies,
			"available_copies": gorm.Expr("available_copies + ? - total_copies", input.TotalCopies),
		}
		switch item.Category {
		case models.CategoryBook:
			updates["publisher"] = input.Publisher
			updates["isbn"] = input.ISBN
		case models.CategoryDVD:
			updates["duration"] = input.Duration
		}

		// The on-loan floor and the available-copies shift are computed
		// from the current row, not the earlier read; a borrow committed
		// in between stays counted.
		result := tx.Model(&models.Item{}).
			Where("id = ? AND total_copies - available_copies <= ?", id, input.TotalCopies).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.ErrInvalidCopyCount
		}

		return tx.First(&edited, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &edited, nil
}

// Delete removes an item. Items still referenced by reservations are
// kept and the call fails.
func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}

		var active int64
		if err := tx.Model(&models.Reservation{}).Where("item_id = ?", id).Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return apperr.ErrForbidden
		}

		return tx.Delete(&item).Error
	})
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	if err := s.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *Service) List(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := s.db.WithContext(ctx).Find(&items).Error
	return items, err
}

func (s *Service) Search(ctx context.Context, filter ItemFilter) ([]models.Item, error) {
	query := s.db.WithContext(ctx).Model(&models.Item{})

	if filter.Title != nil {
		query = query.Where("title LIKE ?", "%"+*filter.Title+"%")
	}
	if filter.Creator != nil {
		query = query.Where("creator LIKE ?", "%"+*filter.Creator+"%")
	}
	if filter.Publisher != nil {
		query = query.Where("publisher LIKE ?", "%"+*filter.Publisher+"%")
	}
	if filter.ISBN != nil {
		query = query.Where("isbn LIKE ?", "%"+*filter.ISBN+"%")
	}
	if filter.Genre != nil {
		query = query.Where("genre = ?", strings.ToUpper(*filter.Genre))
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.ReleaseDate != nil {
		query = query.Where("release_date = ?", *filter.ReleaseDate)
	}
	if filter.Available != nil {
		if *filter.Available {
			query = query.Where("available_copies > 0")
		} else {
			query = query.Where("available_copies = 0")
		}
	}

	var items []models.Item
	err := query.Find(&items).Error
	return items, err
}

// sumTotalCopies sums total_copies over all items except the given id
// (zero means no exclusion). An empty table sums to zero.
func sumTotalCopies(tx *gorm.DB, excludeID uint) (int64, error) {
	var sum int64
	query := tx.Model(&models.Item{}).Select("COALESCE(SUM(total_copies), 0)")
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Scan(&sum).Error
	return sum, err
}
