// Package apperr defines the business error taxonomy shared by all
// services. Handlers match these with errors.Is and translate them to
// HTTP statuses and response codes; anything else is treated as an
// infrastructure failure.
package apperr

import "errors"

var (
	ErrNotFound                = errors.New("not found")
	ErrLimitReached            = errors.New("reservation limit reached")
	ErrNotAvailable            = errors.New("no available copies")
	ErrCatalogFull             = errors.New("catalog copy ceiling reached")
	ErrRosterFull              = errors.New("user ceiling reached")
	ErrUsernameTaken           = errors.New("username already registered")
	ErrInvalidCopyCount        = errors.New("total copies below copies on loan")
	ErrForbidden               = errors.New("operation forbidden for this target")
	ErrUnauthorized            = errors.New("invalid token")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrInvalidPassword         = errors.New("invalid password")
)

// Code returns the API code string for a business error, or empty if the
// error is not part of the taxonomy.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrLimitReached):
		return "MAX_RESERVATIONS_REACHED"
	case errors.Is(err, ErrNotAvailable):
		return "NOT_AVAILABLE"
	case errors.Is(err, ErrCatalogFull):
		return "MAX_ITEMS_REACHED"
	case errors.Is(err, ErrRosterFull):
		return "MAX_USERS_REACHED"
	case errors.Is(err, ErrUsernameTaken):
		return "USERNAME_TAKEN"
	case errors.Is(err, ErrInvalidCopyCount):
		return "INVALID_TOTAL_COPIES"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrUnauthorized):
		return "INVALID_TOKEN"
	case errors.Is(err, ErrInsufficientPermissions):
		return "INSUFFICIENT_PERMISSIONS"
	case errors.Is(err, ErrInvalidPassword):
		return "INVALID_PASSWORD"
	}
	return ""
}
