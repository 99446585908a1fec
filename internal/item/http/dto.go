package http

import (
	"time"

	"github.com/gearshare/gearshare-backend/internal/item"
)

type CreateItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
}

type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// BookingRefResponse is the short booking view attached to an owner's item.
type BookingRefResponse struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

type ItemResponse struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Available   bool                `json:"available"`
	LastBooking *BookingRefResponse `json:"lastBooking,omitempty"`
	NextBooking *BookingRefResponse `json:"nextBooking,omitempty"`
}

func NewItemResponse(i *item.Item) ItemResponse {
	return ItemResponse{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Available:   i.Available,
		LastBooking: newBookingRefResponse(i.LastBooking),
		NextBooking: newBookingRefResponse(i.NextBooking),
	}
}

func newBookingRefResponse(ref *item.BookingRef) *BookingRefResponse {
	if ref == nil {
		return nil
	}
	return &BookingRefResponse{
		ID:       ref.ID,
		BookerID: ref.BookerID,
		Start:    ref.Start,
		End:      ref.End,
	}
}
