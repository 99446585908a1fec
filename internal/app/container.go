package app

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/gearshare/gearshare-backend/internal/api"
	"github.com/gearshare/gearshare-backend/internal/booking"
	"github.com/gearshare/gearshare-backend/internal/item"
	"github.com/gearshare/gearshare-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	Logger       *zap.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router *gin.Engine
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	// User module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo)

	// Booking store comes first: the item module needs it for last/next
	// booking annotations.
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)

	// Item module
	itemRepo := item.NewPgxRepository(cfg.DBPool)
	itemService := item.NewService(itemRepo, userService, booking.NewItemAnnotator(bookingRepo))

	// Booking module
	bookingService := booking.NewService(bookingRepo, userService, itemService, cfg.Logger)

	router := api.NewRouter(api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		Logger:         cfg.Logger,
		UserService:    userService,
		ItemService:    itemService,
		BookingService: bookingService,
	})

	return &Container{Router: router}
}
