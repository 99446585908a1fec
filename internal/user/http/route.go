package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/users")
	{
		group.POST("", h.Create)
		group.GET("", h.List)
		group.GET("/:userId", h.Get)
		group.PATCH("/:userId", h.Update)
		group.DELETE("/:userId", h.Delete)
	}
}
