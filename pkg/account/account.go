// Package account manages user records and authentication: the roster
// ceiling, admin-deletion protection, login and the password-reset flow.
package account

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"libmanager/pkg/apperr"
	"libmanager/pkg/database"
	"libmanager/pkg/mail"
	"libmanager/pkg/models"
	"libmanager/pkg/token"
)

// Dates shown to clients are day-first.
const dateFormat = "02/01/2006"

type Service struct {
	db       *gorm.DB
	maxUsers int64
	tokens   *token.Service
	mail     mail.Sender
}

func NewService(db *gorm.DB, maxUsers int64, tokens *token.Service, sender mail.Sender) *Service {
	return &Service{db: db, maxUsers: maxUsers, tokens: tokens, mail: sender}
}

type AddInput struct {
	Username  string
	FirstName string
	LastName  string
	Address   string
	Email     string
	Birthday  time.Time
	Password  string
	Admin     bool
}

type EditInput struct {
	FirstName string
	LastName  string
	Address   string
	Email     string
	Birthday  time.Time
}

// UserFilter holds the optional user search criteria; nil fields impose
// no constraint, the rest are ANDed.
type UserFilter struct {
	Username         *string
	FirstName        *string
	LastName         *string
	Address          *string
	Email            *string
	Birthday         *time.Time
	RegistrationDate *time.Time
}

// AuthenticatedUser is the login payload.
type AuthenticatedUser struct {
	Username         string `json:"username"`
	Token            string `json:"token"`
	Admin            bool   `json:"admin"`
	Birthday         string `json:"birthday"`
	RegistrationDate string `json:"registrationDate"`
}

// Add registers a user unless the username is taken or the roster
// ceiling would be exceeded. The registration date is set here and never
// changes afterwards.
func (s *Service) Add(ctx context.Context, input AddInput) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:         input.Username,
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		Address:          input.Address,
		Email:            input.Email,
		Birthday:         input.Birthday,
		RegistrationDate: today(),
		Admin:            input.Admin,
		PasswordHash:     string(hash),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := database.AcquireLock(tx, database.LockRoster); err != nil {
			return err
		}

		var taken int64
		if err := tx.Model(&models.User{}).Where("username = ?", input.Username).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return apperr.ErrUsernameTaken
		}

		var count int64
		if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
			return err
		}
		if count+1 > s.maxUsers {
			return apperr.ErrRosterFull
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Edit updates a user's contact details. Username, registration date,
// admin flag and password are not editable through this path.
func (s *Service) Edit(ctx context.Context, username string, input EditInput) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.Address = input.Address
	user.Email = input.Email
	user.Birthday = input.Birthday

	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes a user. Administrators cannot be deleted through this
// path.
func (s *Service) Delete(ctx context.Context, username string) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrNotFound
		}
		return err
	}
	if user.Admin {
		return apperr.ErrForbidden
	}
	return s.db.WithContext(ctx).Delete(&user).Error
}

func (s *Service) Get(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Service) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Find(&users).Error
	return users, err
}

func (s *Service) Search(ctx context.Context, filter UserFilter) ([]models.User, error) {
	query := s.db.WithContext(ctx).Model(&models.User{})

	if filter.Username != nil {
		query = query.Where("username LIKE ?", "%"+*filter.Username+"%")
	}
	if filter.FirstName != nil {
		query = query.Where("first_name LIKE ?", "%"+*filter.FirstName+"%")
	}
	if filter.LastName != nil {
		query = query.Where("last_name LIKE ?", "%"+*filter.LastName+"%")
	}
	if filter.Address != nil {
		query = query.Where("address LIKE ?", "%"+*filter.Address+"%")
	}
	if filter.Email != nil {
		query = query.Where("email LIKE ?", "%"+*filter.Email+"%")
	}
	if filter.Birthday != nil {
		query = query.Where("birthday = ?", *filter.Birthday)
	}
	if filter.RegistrationDate != nil {
		query = query.Where("registration_date = ?", *filter.RegistrationDate)
	}

	var users []models.User
	err := query.Find(&users).Error
	return users, err
}

// Login checks the credentials and returns a session token.
func (s *Service) Login(ctx context.Context, username, password string) (*AuthenticatedUser, error) {
	user, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperr.ErrInvalidPassword
	}

	tok, err := s.tokens.Generate(user.Username, user.Admin)
	if err != nil {
		return nil, err
	}
	return &AuthenticatedUser{
		Username:         user.Username,
		Token:            tok,
		Admin:            user.Admin,
		Birthday:         user.Birthday.Format(dateFormat),
		RegistrationDate: user.RegistrationDate.Format(dateFormat),
	}, nil
}

// RequestPasswordReset mails the user a short-lived reset token. The
// send happens outside any store transaction.
func (s *Service) RequestPasswordReset(ctx context.Context, username string) error {
	user, err := s.Get(ctx, username)
	if err != nil {
		return err
	}

	tok, err := s.tokens.GenerateMailToken(user.Username)
	if err != nil {
		return err
	}
	return s.mail.Send(
		user.Email,
		"Password reset",
		"Please enter the following token in the token field: "+tok,
	)
}

// ResetPassword sets a new password for the user a valid mail token
// belongs to.
func (s *Service) ResetPassword(ctx context.Context, tok, newPassword string) error {
	if !s.tokens.IsMailToken(tok) || !s.tokens.IsValid(tok) {
		return apperr.ErrUnauthorized
	}
	username := s.tokens.ExtractUsername(tok)
	if username == "" {
		return apperr.ErrUnauthorized
	}

	user, err := s.Get(ctx, username)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return s.db.WithContext(ctx).Save(user).Error
}

func today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
