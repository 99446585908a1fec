package user

import (
	"github.com/gearshare/gearshare-backend/internal/pkg/apperror"
)

var (
	ErrNotFound   = apperror.NotFound("user not found")
	ErrEmailInUse = apperror.Conflict("email already exists")
	ErrEmailEmpty = apperror.Validation("email cannot be blank")
	ErrNameEmpty  = apperror.Validation("name cannot be blank")
)

// User represents a registered user. Users both list items and book items
// listed by others.
type User struct {
	ID    int64
	Name  string
	Email string
}

// Update carries the partial-update fields for a user. Nil means "leave unchanged".
type Update struct {
	Name  *string
	Email *string
}
