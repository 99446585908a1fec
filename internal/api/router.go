package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gearshare/gearshare-backend/internal/booking"
	bookingHttp "github.com/gearshare/gearshare-backend/internal/booking/http"
	"github.com/gearshare/gearshare-backend/internal/identity"
	"github.com/gearshare/gearshare-backend/internal/item"
	itemHttp "github.com/gearshare/gearshare-backend/internal/item/http"
	"github.com/gearshare/gearshare-backend/internal/user"
	userHttp "github.com/gearshare/gearshare-backend/internal/user/http"
)

// Config holds the services and settings the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	Logger *zap.Logger

	UserService    user.Service
	ItemService    item.Service
	BookingService booking.Service
}

// NewRouter assembles middleware and registers routes for all modules.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	r.Use(RequestLogger(cfg.Logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = []string{cfg.ProdOrigins}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", identity.Header}
	r.Use(cors.New(corsConfig))

	// Acting user comes from the X-Sharer-User-Id header on item and booking
	// routes. User CRUD itself is unauthenticated, matching the upstream
	// gateway contract.
	userRequired := identity.Required()

	userHandler := userHttp.NewHandler(cfg.UserService)
	itemHandler := itemHttp.NewHandler(cfg.ItemService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)

	root := r.Group("/")
	{
		userHttp.RegisterRoutes(root, userHandler)
		itemHttp.RegisterRoutes(root, itemHandler, userRequired)
		bookingHttp.RegisterRoutes(root, bookingHandler, userRequired)
	}

	return r
}
