package models

import (
	"time"
)

type Category string

const (
	CategoryBook Category = "BOOK"
	CategoryDVD  Category = "DVD"
)

// Item is a circulating catalog entry. Books and DVDs share one table,
// discriminated by Category; Publisher/ISBN are only set for books,
// Duration only for DVDs.
type Item struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Category        Category  `gorm:"size:8;not null;index" json:"category"`
	Title           string    `gorm:"size:128;not null" json:"title"`
	Creator         string    `gorm:"size:64;not null" json:"creator"`
	Genre           string    `gorm:"size:64;not null" json:"genre"`
	ReleaseDate     time.Time `json:"releaseDate"`
	TotalCopies     int       `gorm:"not null" json:"totalCopies"`
	AvailableCopies int       `gorm:"not null" json:"availableCopies"`
	Publisher       string    `gorm:"size:64" json:"publisher,omitempty"`
	ISBN            string    `gorm:"size:13" json:"isbn,omitempty"`
	Duration        string    `gorm:"size:16" json:"duration,omitempty"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}

// Available reports whether at least one copy is free.
func (i *Item) Available() bool {
	return i.AvailableCopies > 0
}

type User struct {
	Username         string    `gorm:"primaryKey;size:16" json:"username"`
	FirstName        string    `gorm:"size:64;not null" json:"firstName"`
	LastName         string    `gorm:"size:64;not null" json:"lastName"`
	Address          string    `gorm:"size:128;not null" json:"address"`
	Email            string    `gorm:"size:64;not null" json:"email"`
	Birthday         time.Time `json:"birthday"`
	RegistrationDate time.Time `json:"registrationDate"`
	Admin            bool      `gorm:"not null;default:false" json:"admin"`
	PasswordHash     string    `gorm:"size:64;not null" json:"-"`

	Reservations []Reservation `gorm:"foreignKey:Username;references:Username" json:"-"`
}

// Reservation is an active loan linking one user to one item. The item
// category is always derived from the referenced item, never stored.
type Reservation struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Uid             string    `gorm:"type:uuid;uniqueIndex;not null" json:"reservationUid"`
	Username        string    `gorm:"size:16;not null;index" json:"username"`
	ItemID          uint      `gorm:"not null;index" json:"itemId"`
	ReservationDate time.Time `json:"reservationDate"`

	User User `gorm:"foreignKey:Username;references:Username" json:"-"`
	Item Item `gorm:"foreignKey:ItemID" json:"item"`
}

// Kind returns the category of the reserved item. The Item association
// must be loaded.
func (r *Reservation) Kind() Category {
	return r.Item.Category
}
