package booking

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gearshare/gearshare-backend/internal/item"
	"github.com/gearshare/gearshare-backend/internal/pkg/request"
	"github.com/gearshare/gearshare-backend/internal/user"
)

// fakeRepo is an in-memory stand-in implementing the same store contract as
// the pgx repository, including inclusive overlap semantics.
type fakeRepo struct {
	nextID   int64
	bookings map[int64]*Booking
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, bookings: map[int64]*Booking{}}
}

func (f *fakeRepo) Create(_ context.Context, b *Booking) error {
	b.ID = f.nextID
	f.nextID++
	b.CreatedAt = time.Now()
	copied := *b
	f.bookings[b.ID] = &copied
	return nil
}

func (f *fakeRepo) Update(_ context.Context, b *Booking) error {
	if _, ok := f.bookings[b.ID]; !ok {
		return ErrNotFound
	}
	copied := *b
	f.bookings[b.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeRepo) ListByBooker(_ context.Context, bookerID int64, q Query) ([]*Booking, error) {
	return f.list(func(b *Booking) bool { return b.BookerID == bookerID }, q), nil
}

func (f *fakeRepo) ListByOwner(_ context.Context, ownerID int64, q Query) ([]*Booking, error) {
	return f.list(func(b *Booking) bool { return b.OwnerID == ownerID }, q), nil
}

func (f *fakeRepo) list(role func(*Booking) bool, q Query) []*Booking {
	var out []*Booking
	for _, b := range f.bookings {
		if !role(b) || !matchesState(b, q) {
			continue
		}
		copied := *b
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.After(out[j].Start) })
	if q.Offset >= len(out) {
		return nil
	}
	out = out[q.Offset:]
	if q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out
}

func matchesState(b *Booking, q Query) bool {
	switch q.State {
	case StateCurrent:
		return !b.Start.After(q.Now) && !b.End.Before(q.Now)
	case StatePast:
		return b.End.Before(q.Now)
	case StateFuture:
		return b.Start.After(q.Now)
	case StateWaiting:
		return b.Status == StatusWaiting
	case StateRejected:
		return b.Status == StatusRejected
	default:
		return true
	}
}

func (f *fakeRepo) ExistsOverlapping(_ context.Context, itemID int64, start, end time.Time) (bool, error) {
	for _, b := range f.bookings {
		if b.ItemID != itemID || b.Status != StatusApproved {
			continue
		}
		startInside := !b.Start.Before(start) && !b.Start.After(end)
		endInside := !b.End.Before(start) && !b.End.After(end)
		covers := !b.Start.After(start) && !b.End.Before(end)
		if startInside || endInside || covers {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) LastForItem(_ context.Context, itemID int64, now time.Time) (*Booking, error) {
	var last *Booking
	for _, b := range f.bookings {
		if b.ItemID != itemID || b.Status != StatusApproved || !b.Start.Before(now) {
			continue
		}
		if last == nil || b.Start.After(last.Start) {
			copied := *b
			last = &copied
		}
	}
	return last, nil
}

func (f *fakeRepo) NextForItem(_ context.Context, itemID int64, now time.Time) (*Booking, error) {
	var next *Booking
	for _, b := range f.bookings {
		if b.ItemID != itemID || b.Status != StatusApproved || !b.Start.After(now) {
			continue
		}
		if next == nil || b.Start.Before(next.Start) {
			copied := *b
			next = &copied
		}
	}
	return next, nil
}

type fakeUsers struct {
	users map[int64]*user.User
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) Create(context.Context, string, string) (*user.User, error) { panic("not used") }
func (f *fakeUsers) Update(context.Context, int64, user.Update) (*user.User, error) {
	panic("not used")
}
func (f *fakeUsers) List(context.Context) ([]*user.User, error) { panic("not used") }
func (f *fakeUsers) Delete(context.Context, int64) error        { panic("not used") }

type fakeItems struct {
	items map[int64]*item.Item
}

func (f *fakeItems) GetByID(_ context.Context, id, _ int64) (*item.Item, error) {
	i, ok := f.items[id]
	if !ok {
		return nil, item.ErrNotFound
	}
	return i, nil
}

func (f *fakeItems) Create(context.Context, *item.Item, int64) (*item.Item, error) {
	panic("not used")
}
func (f *fakeItems) Update(context.Context, int64, item.Update, int64) (*item.Item, error) {
	panic("not used")
}
func (f *fakeItems) ListByOwner(context.Context, int64, request.PageParams) ([]*item.Item, error) {
	panic("not used")
}
func (f *fakeItems) Search(context.Context, string) ([]*item.Item, error) { panic("not used") }

// Fixture ids: user 1 owns item 10, users 2 and 3 are potential bookers.
const (
	ownerID    = int64(1)
	bookerID   = int64(2)
	strangerID = int64(3)
	itemID     = int64(10)
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newEngine() (*service, *fakeRepo, *fakeItems) {
	repo := newFakeRepo()
	items := &fakeItems{items: map[int64]*item.Item{
		itemID: {ID: itemID, Name: "Drill", Available: true, OwnerID: ownerID},
	}}
	users := &fakeUsers{users: map[int64]*user.User{
		ownerID:    {ID: ownerID, Name: "owner"},
		bookerID:   {ID: bookerID, Name: "booker"},
		strangerID: {ID: strangerID, Name: "stranger"},
	}}

	svc := NewService(repo, users, items, zap.NewNop()).(*service)
	svc.now = func() time.Time { return testNow }
	return svc, repo, items
}

func window(startOffset, endOffset time.Duration) CreateRequest {
	return CreateRequest{
		ItemID: itemID,
		Start:  testNow.Add(startOffset),
		End:    testNow.Add(endOffset),
	}
}

func TestCreateBooking(t *testing.T) {
	svc, _, _ := newEngine()

	b, err := svc.Create(context.Background(), window(24*time.Hour, 48*time.Hour), bookerID)
	require.NoError(t, err)
	assert.NotZero(t, b.ID)
	assert.Equal(t, StatusWaiting, b.Status)
	assert.Equal(t, bookerID, b.BookerID)
	assert.Equal(t, "booker", b.BookerName)
	assert.Equal(t, itemID, b.ItemID)
	assert.Equal(t, ownerID, b.OwnerID)
}

func TestCreateBookingUnknownUser(t *testing.T) {
	svc, _, _ := newEngine()

	_, err := svc.Create(context.Background(), window(24*time.Hour, 48*time.Hour), 99)
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestCreateBookingUnknownItem(t *testing.T) {
	svc, _, _ := newEngine()

	req := window(24*time.Hour, 48*time.Hour)
	req.ItemID = 999
	_, err := svc.Create(context.Background(), req, bookerID)
	assert.ErrorIs(t, err, item.ErrNotFound)
}

func TestCreateBookingUnavailableItem(t *testing.T) {
	svc, _, items := newEngine()
	items.items[itemID].Available = false

	// Bad dates too: availability must be the error that fires.
	req := window(-48*time.Hour, -24*time.Hour)
	_, err := svc.Create(context.Background(), req, bookerID)
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestCreateBookingOwnItem(t *testing.T) {
	svc, _, _ := newEngine()

	_, err := svc.Create(context.Background(), window(24*time.Hour, 48*time.Hour), ownerID)
	require.ErrorIs(t, err, ErrOwnBooking)
	// Deliberately not-found, not forbidden.
	assert.Equal(t, 404, ErrOwnBooking.Code)
}

func TestCreateBookingUnavailableBeforeOwnership(t *testing.T) {
	svc, _, items := newEngine()
	items.items[itemID].Available = false

	_, err := svc.Create(context.Background(), window(24*time.Hour, 48*time.Hour), ownerID)
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestCreateBookingOverlap(t *testing.T) {
	svc, repo, _ := newEngine()

	first, err := svc.Create(context.Background(), window(24*time.Hour, 48*time.Hour), bookerID)
	require.NoError(t, err)

	// Only an approved booking blocks the window.
	_, err = svc.Create(context.Background(), window(30*time.Hour, 42*time.Hour), strangerID)
	require.NoError(t, err)

	first.Status = StatusApproved
	require.NoError(t, repo.Update(context.Background(), first))

	cases := []struct {
		name string
		req  CreateRequest
	}{
		{"inside", window(30*time.Hour, 42*time.Hour)},
		{"covering", window(12*time.Hour, 72*time.Hour)},
		{"left edge touches", window(12*time.Hour, 24*time.Hour)},
		{"right edge touches", window(48*time.Hour, 72*time.Hour)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.req, strangerID)
			assert.ErrorIs(t, err, ErrAlreadyBooked)
		})
	}

	// Disjoint window is still fine.
	_, err = svc.Create(context.Background(), window(49*time.Hour, 72*time.Hour), strangerID)
	assert.NoError(t, err)
}

func TestCreateBookingOverlapBeforeDateValidation(t *testing.T) {
	svc, repo, _ := newEngine()

	first, err := svc.Create(context.Background(), window(24*time.Hour, 48*time.Hour), bookerID)
	require.NoError(t, err)
	first.Status = StatusApproved
	require.NoError(t, repo.Update(context.Background(), first))

	// Start after end AND overlapping: the overlap error wins.
	req := CreateRequest{ItemID: itemID, Start: testNow.Add(40 * time.Hour), End: testNow.Add(30 * time.Hour)}
	_, err = svc.Create(context.Background(), req, strangerID)
	assert.ErrorIs(t, err, ErrAlreadyBooked)
}

func TestCreateBookingDateValidation(t *testing.T) {
	svc, _, _ := newEngine()

	cases := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{"zero start", time.Time{}, testNow.Add(time.Hour), ErrDatesMissing},
		{"zero end", testNow.Add(time.Hour), time.Time{}, ErrDatesMissing},
		{"start after end", testNow.Add(48 * time.Hour), testNow.Add(24 * time.Hour), ErrStartAfterEnd},
		{"start equals end", testNow.Add(24 * time.Hour), testNow.Add(24 * time.Hour), ErrDatesEqual},
		{"start in past", testNow.Add(-time.Minute), testNow.Add(time.Hour), ErrStartInPast},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), CreateRequest{
				ItemID: itemID, Start: tc.start, End: tc.end,
			}, bookerID)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestValidateDatesBoundaries(t *testing.T) {
	// Start exactly at now is allowed.
	assert.NoError(t, validateDates(testNow, testNow.Add(time.Hour), testNow))
	// Even a small margin into the past is not.
	assert.ErrorIs(t,
		validateDates(testNow.Add(-time.Millisecond), testNow.Add(time.Hour), testNow),
		ErrStartInPast)
	assert.ErrorIs(t,
		validateDates(time.Time{}, time.Time{}, testNow),
		ErrDatesMissing)
}

func TestApproveBooking(t *testing.T) {
	svc, _, _ := newEngine()

	b, err := svc.Create(context.Background(), window(24*time.Hour, 48*time.Hour), bookerID)
	require.NoError(t, err)

	decided, err := svc.Approve(context.Background(), b.ID, ownerID, true)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, decided.Status)

	// Second decision always fails, same or different direction.
	_, err = svc.Approve(context.Background(), b.ID, ownerID, true)
	assert.ErrorIs(t, err, ErrAlreadyDecided)
	_, err = svc.Approve(context.Background(), b.ID, ownerID, false)
	assert.ErrorIs(t, err, ErrAlreadyDecided)

	// Status never changed after the first decision.
	got, err := svc.GetByID(context.Background(), b.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got.Status)
}

func TestRejectBooking(t *testing.T) {
	svc, _, _ := newEngine()

	b, err := svc.Create(context.Background(), window(24*time.Hour, 48*time.Hour), bookerID)
	require.NoError(t, err)

	decided, err := svc.Approve(context.Background(), b.ID, ownerID, false)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, decided.Status)
}

func TestApproveBookingNotOwner(t *testing.T) {
	svc, _, _ := newEngine()

	b, err := svc.Create(context.Background(), window(24*time.Hour, 48*time.Hour), bookerID)
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), b.ID, strangerID, true)
	require.ErrorIs(t, err, ErrNotOwner)
	assert.Equal(t, 403, ErrNotOwner.Code)

	// The booker cannot decide either.
	_, err = svc.Approve(context.Background(), b.ID, bookerID, true)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestApproveBookingMissing(t *testing.T) {
	svc, _, _ := newEngine()

	_, err := svc.Approve(context.Background(), 42, ownerID, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetBookingVisibility(t *testing.T) {
	svc, _, _ := newEngine()

	b, err := svc.Create(context.Background(), window(24*time.Hour, 48*time.Hour), bookerID)
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), b.ID, bookerID)
	assert.NoError(t, err)
	_, err = svc.GetByID(context.Background(), b.ID, ownerID)
	assert.NoError(t, err)

	_, err = svc.GetByID(context.Background(), b.ID, strangerID)
	require.ErrorIs(t, err, ErrNotViewable)
	// Existence is masked from unrelated users.
	assert.Equal(t, 404, ErrNotViewable.Code)
}

func TestListDispatch(t *testing.T) {
	svc, repo, _ := newEngine()

	page := request.PageParams{From: 0, Size: 10}
	ctx := context.Background()

	// past: ended yesterday; current: straddles now; future x2, one rejected.
	seed := []struct {
		start, end time.Duration
		status     Status
	}{
		{-48 * time.Hour, -24 * time.Hour, StatusApproved},
		{-time.Hour, time.Hour, StatusApproved},
		{24 * time.Hour, 48 * time.Hour, StatusWaiting},
		{72 * time.Hour, 96 * time.Hour, StatusRejected},
	}
	for _, sd := range seed {
		require.NoError(t, repo.Create(ctx, &Booking{
			ItemID: itemID, OwnerID: ownerID, BookerID: bookerID,
			Start: testNow.Add(sd.start), End: testNow.Add(sd.end), Status: sd.status,
		}))
	}

	cases := []struct {
		state State
		count int
	}{
		{StateAll, 4},
		{StateCurrent, 1},
		{StatePast, 1},
		{StateFuture, 2},
		{StateWaiting, 1},
		{StateRejected, 1},
	}

	for _, tc := range cases {
		t.Run(string(tc.state), func(t *testing.T) {
			forBooker, err := svc.ListForBooker(ctx, bookerID, tc.state, page)
			require.NoError(t, err)
			assert.Len(t, forBooker, tc.count)

			forOwner, err := svc.ListForOwner(ctx, ownerID, tc.state, page)
			require.NoError(t, err)
			assert.Len(t, forOwner, tc.count)
		})
	}

	// FUTURE is time-based: it includes the WAITING booking before approval.
	future, err := svc.ListForOwner(ctx, ownerID, StateFuture, page)
	require.NoError(t, err)
	statuses := []Status{future[0].Status, future[1].Status}
	assert.Contains(t, statuses, StatusWaiting)
	assert.Contains(t, statuses, StatusRejected)
}

func TestListOrderingAndPagination(t *testing.T) {
	svc, repo, _ := newEngine()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, repo.Create(ctx, &Booking{
			ItemID: itemID, OwnerID: ownerID, BookerID: bookerID,
			Start:  testNow.Add(time.Duration(i) * 24 * time.Hour),
			End:    testNow.Add(time.Duration(i)*24*time.Hour + 12*time.Hour),
			Status: StatusWaiting,
		}))
	}

	all, err := svc.ListForBooker(ctx, bookerID, StateAll, request.PageParams{From: 0, Size: 10})
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.True(t, all[i-1].Start.After(all[i].Start), "expected start descending")
	}

	page, err := svc.ListForBooker(ctx, bookerID, StateAll, request.PageParams{From: 2, Size: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, all[2].ID, page[0].ID)
	assert.Equal(t, all[3].ID, page[1].ID)
}

func TestListUnknownUser(t *testing.T) {
	svc, _, _ := newEngine()

	_, err := svc.ListForBooker(context.Background(), 99, StateAll, request.PageParams{Size: 10})
	assert.ErrorIs(t, err, user.ErrNotFound)

	_, err = svc.ListForOwner(context.Background(), 99, StateAll, request.PageParams{Size: 10})
	assert.ErrorIs(t, err, user.ErrNotFound)
}
