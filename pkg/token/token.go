// Package token issues and checks the JWTs used for sessions and for
// password-reset mails. Mail tokens carry an extra email claim so a
// session token can never be replayed into the reset endpoint.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	sessionTTL = time.Hour
	mailTTL    = 15 * time.Minute
)

type Service struct {
	secret []byte
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

type claims struct {
	Username string `json:"username"`
	Admin    bool   `json:"admin,omitempty"`
	Email    bool   `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Generate returns a session token for the user.
func (s *Service) Generate(username string, admin bool) (string, error) {
	c := claims{
		Username: username,
		Admin:    admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// GenerateMailToken returns a short-lived token for a password reset
// mail.
func (s *Service) GenerateMailToken(username string) (string, error) {
	c := claims{
		Username: username,
		Email:    true,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(mailTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// IsValid reports whether the token is well-formed, signed by us and not
// expired.
func (s *Service) IsValid(tokenString string) bool {
	_, err := s.parse(tokenString)
	return err == nil
}

// IsAdmin reports whether the token is valid and belongs to an admin.
func (s *Service) IsAdmin(tokenString string) bool {
	c, err := s.parse(tokenString)
	return err == nil && c.Admin
}

// IsMailToken reports whether the token is valid and was issued for a
// password-reset mail.
func (s *Service) IsMailToken(tokenString string) bool {
	c, err := s.parse(tokenString)
	return err == nil && c.Email
}

// ExtractUsername returns the username stored in the token, or empty.
func (s *Service) ExtractUsername(tokenString string) string {
	c, err := s.parse(tokenString)
	if err != nil {
		return ""
	}
	return c.Username
}

func (s *Service) parse(tokenString string) (*claims, error) {
	var c claims
	_, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}
