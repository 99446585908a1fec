package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, userRequired gin.HandlerFunc) {
	group := g.Group("/bookings")

	group.Use(userRequired)
	{
		group.POST("", h.Create)
		group.GET("", h.ListOwn)
		group.GET("/owner", h.ListForOwner)
		group.GET("/:bookingId", h.Get)
		group.PATCH("/:bookingId", h.Approve)
	}
}
