package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gearshare/gearshare-backend/internal/booking"
	"github.com/gearshare/gearshare-backend/internal/identity"
	"github.com/gearshare/gearshare-backend/internal/pkg/request"
	"github.com/gearshare/gearshare-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		ItemID: req.ItemID,
		Start:  req.Start,
		End:    req.End,
	}, identity.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) Approve(c *gin.Context) {
	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "approved must be true or false"})
		return
	}

	b, err := h.service.Approve(c.Request.Context(), id, identity.UserID(c), approved)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id, identity.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// ListOwn returns the acting user's bookings as a booker.
func (h *Handler) ListOwn(c *gin.Context) {
	h.list(c, h.service.ListForBooker)
}

// ListForOwner returns bookings of items the acting user owns.
func (h *Handler) ListForOwner(c *gin.Context) {
	h.list(c, h.service.ListForOwner)
}

type listFn func(ctx context.Context, actingUserID int64, state booking.State, page request.PageParams) ([]*booking.Booking, error)

func (h *Handler) list(c *gin.Context, fn listFn) {
	state, err := booking.ParseState(c.DefaultQuery("state", string(booking.StateAll)))
	if err != nil {
		response.Error(c, err)
		return
	}

	page, err := request.ParsePage(c.Query("from"), c.Query("size"))
	if err != nil {
		response.Error(c, err)
		return
	}

	bookings, err := fn(c.Request.Context(), identity.UserID(c), state, page)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, NewBookingResponse(b))
	}

	c.JSON(http.StatusOK, out)
}

func parseBookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("bookingId"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return 0, false
	}
	return id, true
}
