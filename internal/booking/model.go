package booking

import (
	"time"

	"github.com/gearshare/gearshare-backend/internal/pkg/apperror"
)

var (
	ErrNotFound       = apperror.NotFound("booking not found")
	ErrOwnBooking     = apperror.NotFound("owner cannot book own item")
	ErrNotViewable    = apperror.NotFound("only the booker or the owner can view a booking")
	ErrNotOwner       = apperror.Forbidden("only the owner can approve a booking")
	ErrNotAvailable   = apperror.Validation("item is not available for booking")
	ErrAlreadyBooked  = apperror.Validation("item is already booked for this time period")
	ErrAlreadyDecided = apperror.Validation("booking is already approved or rejected")

	ErrDatesMissing  = apperror.Validation("start and end dates must be specified")
	ErrStartAfterEnd = apperror.Validation("start date must be before end date")
	ErrDatesEqual    = apperror.Validation("start and end dates cannot be equal")
	ErrStartInPast   = apperror.Validation("start date must not be in the past")
	ErrEndInPast     = apperror.Validation("end date must not be in the past")
)

// Status is the persisted lifecycle state of a booking.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	// StatusCancelled is declared for wire compatibility but no operation
	// produces it. See DESIGN.md.
	StatusCancelled Status = "CANCELLED"
)

// Booking represents one reservation request for an item over a time window.
// Booker and item display data is denormalized in so handlers don't need
// extra lookups.
type Booking struct {
	ID int64

	ItemID   int64
	ItemName string
	OwnerID  int64

	BookerID   int64
	BookerName string

	Start  time.Time
	End    time.Time
	Status Status

	CreatedAt time.Time
}

// CreateRequest holds the data needed to request a new booking.
type CreateRequest struct {
	ItemID int64
	Start  time.Time
	End    time.Time
}
