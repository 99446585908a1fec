package booking

import (
	"context"
	"time"

	"github.com/gearshare/gearshare-backend/internal/item"
)

// ItemAnnotator adapts the booking store to the catalog's BookingLookup
// contract so items can carry their surrounding approved bookings.
type ItemAnnotator struct {
	repo Repository
}

func NewItemAnnotator(repo Repository) *ItemAnnotator {
	return &ItemAnnotator{repo: repo}
}

func (a *ItemAnnotator) LastForItem(ctx context.Context, itemID int64, now time.Time) (*item.BookingRef, error) {
	b, err := a.repo.LastForItem(ctx, itemID, now)
	if err != nil {
		return nil, err
	}
	return toRef(b), nil
}

func (a *ItemAnnotator) NextForItem(ctx context.Context, itemID int64, now time.Time) (*item.BookingRef, error) {
	b, err := a.repo.NextForItem(ctx, itemID, now)
	if err != nil {
		return nil, err
	}
	return toRef(b), nil
}

func toRef(b *Booking) *item.BookingRef {
	if b == nil {
		return nil
	}
	return &item.BookingRef{
		ID:       b.ID,
		BookerID: b.BookerID,
		Start:    b.Start,
		End:      b.End,
	}
}
