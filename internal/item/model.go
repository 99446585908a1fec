package item

import (
	"context"
	"time"

	"github.com/gearshare/gearshare-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.NotFound("item not found")
	ErrNotOwner         = apperror.NotFound("only the owner can update an item")
	ErrNameEmpty        = apperror.Validation("name cannot be blank")
	ErrDescriptionEmpty = apperror.Validation("description cannot be blank")
)

// Item represents a thing listed for sharing. Available controls whether it
// can currently be booked.
type Item struct {
	ID          int64
	Name        string
	Description string
	Available   bool
	OwnerID     int64

	// Populated only for the owner's view.
	LastBooking *BookingRef
	NextBooking *BookingRef
}

// Update carries the partial-update fields for an item. Nil means "leave unchanged".
type Update struct {
	Name        *string
	Description *string
	Available   *bool
}

// BookingRef is the slice of a booking the catalog exposes when annotating
// an item with its most recent and next approved reservations.
type BookingRef struct {
	ID       int64
	BookerID int64
	Start    time.Time
	End      time.Time
}

// BookingLookup resolves an item's surrounding approved bookings. Implemented
// by the booking store; declared here so the catalog does not depend on it.
type BookingLookup interface {
	LastForItem(ctx context.Context, itemID int64, now time.Time) (*BookingRef, error)
	NextForItem(ctx context.Context, itemID int64, now time.Time) (*BookingRef, error)
}
