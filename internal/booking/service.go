package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/gearshare/gearshare-backend/internal/item"
	"github.com/gearshare/gearshare-backend/internal/pkg/request"
	"github.com/gearshare/gearshare-backend/internal/user"
)

// Service drives the booking lifecycle: creation, the owner's decision, and
// state-filtered listing. All booking business rules live here.
type Service interface {
	Create(ctx context.Context, req CreateRequest, actingUserID int64) (*Booking, error)
	Approve(ctx context.Context, bookingID, actingUserID int64, approved bool) (*Booking, error)
	GetByID(ctx context.Context, bookingID, actingUserID int64) (*Booking, error)
	ListForBooker(ctx context.Context, actingUserID int64, state State, page request.PageParams) ([]*Booking, error)
	ListForOwner(ctx context.Context, actingUserID int64, state State, page request.PageParams) ([]*Booking, error)
}

type service struct {
	repo  Repository
	users user.Service
	items item.Service
	log   *zap.Logger

	now func() time.Time
}

// NewService creates a new booking Service.
func NewService(repo Repository, users user.Service, items item.Service, log *zap.Logger) Service {
	return &service{
		repo:  repo,
		users: users,
		items: items,
		log:   log,
		now:   time.Now,
	}
}

// Create validates and persists a new booking request in WAITING status.
// The check order is part of the contract: availability is rejected before
// ownership, ownership before overlap, overlap before date validity.
func (s *service) Create(ctx context.Context, req CreateRequest, actingUserID int64) (*Booking, error) {
	booker, err := s.users.GetByID(ctx, actingUserID)
	if err != nil {
		return nil, err
	}

	it, err := s.items.GetByID(ctx, req.ItemID, actingUserID)
	if err != nil {
		return nil, err
	}

	if !it.Available {
		return nil, ErrNotAvailable
	}

	// Masked as not-found: the item's bookability is hidden from its owner
	// rather than explained.
	if it.OwnerID == actingUserID {
		return nil, ErrOwnBooking
	}

	overlaps, err := s.repo.ExistsOverlapping(ctx, req.ItemID, req.Start, req.End)
	if err != nil {
		return nil, err
	}
	if overlaps {
		return nil, ErrAlreadyBooked
	}

	if err := validateDates(req.Start, req.End, s.now()); err != nil {
		return nil, err
	}

	b := &Booking{
		ItemID:     it.ID,
		ItemName:   it.Name,
		OwnerID:    it.OwnerID,
		BookerID:   booker.ID,
		BookerName: booker.Name,
		Start:      req.Start,
		End:        req.End,
		Status:     StatusWaiting,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.log.Info("booking created",
		zap.Int64("booking_id", b.ID),
		zap.Int64("item_id", b.ItemID),
		zap.Int64("booker_id", b.BookerID),
	)

	return b, nil
}

// Approve lets the item's owner decide a waiting booking. The decision is
// final; a second attempt fails no matter which way the first one went.
func (s *service) Approve(ctx context.Context, bookingID, actingUserID int64, approved bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.OwnerID != actingUserID {
		return nil, ErrNotOwner
	}

	if b.Status != StatusWaiting {
		return nil, ErrAlreadyDecided
	}

	if approved {
		b.Status = StatusApproved
	} else {
		b.Status = StatusRejected
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	s.log.Info("booking decided",
		zap.Int64("booking_id", b.ID),
		zap.String("status", string(b.Status)),
	)

	return b, nil
}

// GetByID returns a booking to its booker or the item's owner. Anyone else
// gets not-found so the booking's existence stays hidden.
func (s *service) GetByID(ctx context.Context, bookingID, actingUserID int64) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.BookerID != actingUserID && b.OwnerID != actingUserID {
		return nil, ErrNotViewable
	}

	return b, nil
}

func (s *service) ListForBooker(ctx context.Context, actingUserID int64, state State, page request.PageParams) ([]*Booking, error) {
	if _, err := s.users.GetByID(ctx, actingUserID); err != nil {
		return nil, err
	}
	return s.repo.ListByBooker(ctx, actingUserID, s.query(state, page))
}

func (s *service) ListForOwner(ctx context.Context, actingUserID int64, state State, page request.PageParams) ([]*Booking, error) {
	if _, err := s.users.GetByID(ctx, actingUserID); err != nil {
		return nil, err
	}
	return s.repo.ListByOwner(ctx, actingUserID, s.query(state, page))
}

func (s *service) query(state State, page request.PageParams) Query {
	return Query{
		State:  state,
		Now:    s.now(),
		Offset: page.From,
		Limit:  page.Size,
	}
}

// validateDates checks the requested window against a single now snapshot so
// boundary checks cannot race each other. A start exactly at now is allowed;
// anything earlier is not.
func validateDates(start, end, now time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ErrDatesMissing
	}
	if start.After(end) {
		return ErrStartAfterEnd
	}
	if start.Equal(end) {
		return ErrDatesEqual
	}
	if start.Before(now) {
		return ErrStartInPast
	}
	if end.Before(now) {
		return ErrEndInPast
	}
	return nil
}
