package item

import (
	"context"
	"strings"
	"time"

	"github.com/gearshare/gearshare-backend/internal/pkg/request"
	"github.com/gearshare/gearshare-backend/internal/user"
)

// Service defines the catalog's business logic. GetByID doubles as the
// lookup the booking engine uses to resolve an item before booking it.
type Service interface {
	Create(ctx context.Context, i *Item, ownerID int64) (*Item, error)
	Update(ctx context.Context, itemID int64, upd Update, actingUserID int64) (*Item, error)
	GetByID(ctx context.Context, itemID, actingUserID int64) (*Item, error)
	ListByOwner(ctx context.Context, ownerID int64, page request.PageParams) ([]*Item, error)
	Search(ctx context.Context, text string) ([]*Item, error)
}

type service struct {
	repo     Repository
	users    user.Service
	bookings BookingLookup

	now func() time.Time
}

// NewService creates a new item Service.
func NewService(repo Repository, users user.Service, bookings BookingLookup) Service {
	return &service{
		repo:     repo,
		users:    users,
		bookings: bookings,
		now:      time.Now,
	}
}

func (s *service) Create(ctx context.Context, i *Item, ownerID int64) (*Item, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(i.Name) == "" {
		return nil, ErrNameEmpty
	}
	if strings.TrimSpace(i.Description) == "" {
		return nil, ErrDescriptionEmpty
	}

	i.OwnerID = ownerID
	if err := s.repo.Create(ctx, i); err != nil {
		return nil, err
	}

	return i, nil
}

func (s *service) Update(ctx context.Context, itemID int64, upd Update, actingUserID int64) (*Item, error) {
	existing, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	// Masked as not-found so strangers cannot probe for other users' items.
	if existing.OwnerID != actingUserID {
		return nil, ErrNotOwner
	}

	if upd.Name != nil && strings.TrimSpace(*upd.Name) != "" {
		existing.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Description != nil && strings.TrimSpace(*upd.Description) != "" {
		existing.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.Available != nil {
		existing.Available = *upd.Available
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	return existing, nil
}

func (s *service) GetByID(ctx context.Context, itemID, actingUserID int64) (*Item, error) {
	i, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	// Booking annotations are owner-only; other viewers just see the item.
	if i.OwnerID == actingUserID {
		if err := s.annotate(ctx, i, s.now()); err != nil {
			return nil, err
		}
	}

	return i, nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID int64, page request.PageParams) ([]*Item, error) {
	items, err := s.repo.ListByOwner(ctx, ownerID, page.From, page.Size)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for _, i := range items {
		if err := s.annotate(ctx, i, now); err != nil {
			return nil, err
		}
	}

	return items, nil
}

func (s *service) Search(ctx context.Context, text string) ([]*Item, error) {
	if strings.TrimSpace(text) == "" {
		return []*Item{}, nil
	}
	return s.repo.Search(ctx, text)
}

func (s *service) annotate(ctx context.Context, i *Item, now time.Time) error {
	last, err := s.bookings.LastForItem(ctx, i.ID, now)
	if err != nil {
		return err
	}
	next, err := s.bookings.NextForItem(ctx, i.ID, now)
	if err != nil {
		return err
	}

	i.LastBooking = last
	i.NextBooking = next
	return nil
}
