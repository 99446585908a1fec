package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gearshare/gearshare-backend/internal/identity"
	"github.com/gearshare/gearshare-backend/internal/item"
	"github.com/gearshare/gearshare-backend/internal/pkg/request"
	"github.com/gearshare/gearshare-backend/internal/pkg/response"
)

type Handler struct {
	service item.Service
}

func NewHandler(service item.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	i := &item.Item{
		Name:        req.Name,
		Description: req.Description,
		Available:   *req.Available,
	}

	created, err := h.service.Create(c.Request.Context(), i, identity.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewItemResponse(created))
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseItemID(c)
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, item.Update{
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
	}, identity.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewItemResponse(updated))
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseItemID(c)
	if !ok {
		return
	}

	i, err := h.service.GetByID(c.Request.Context(), id, identity.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewItemResponse(i))
}

func (h *Handler) ListOwn(c *gin.Context) {
	page, err := request.ParsePage(c.Query("from"), c.Query("size"))
	if err != nil {
		response.Error(c, err)
		return
	}

	items, err := h.service.ListByOwner(c.Request.Context(), identity.UserID(c), page)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponses(items))
}

func (h *Handler) Search(c *gin.Context) {
	items, err := h.service.Search(c.Request.Context(), c.Query("text"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponses(items))
}

func toResponses(items []*item.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, NewItemResponse(i))
	}
	return out
}

func parseItemID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return 0, false
	}
	return id, true
}
