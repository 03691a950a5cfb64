package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hotel-desk/access"
	"hotel-desk/controllers"
	"hotel-desk/middleware"
	"hotel-desk/services"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Auth         *services.AuthService
	Rooms        *services.RoomService
	Bookings     *services.BookingService
	Policy       access.Policy
	Logger       *slog.Logger
	CorsOrigins  []string
	SecureCookie bool
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}
}

// SetupRouter builds the engine. Every /api route except auth is gated by
// d.Policy.
func SetupRouter(d Deps) *gin.Engine {
	if d.Policy == nil {
		d.Policy = access.DefaultPolicy()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	rc := controllers.NewRoomController(d.Rooms, d.Logger)
	bc := controllers.NewBookingController(d.Bookings, d.Logger)
	ac := controllers.NewAuthController(d.Auth, d.Logger, d.SecureCookie)
	gate := func(op access.Operation) gin.HandlerFunc {
		return middleware.Require(d.Policy, op)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		cors.New(corsConfig(d.CorsOrigins)),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(middleware.Authenticate(d.Auth, d.Logger))
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", ac.Signup)
			auth.POST("/login", ac.Login)
			auth.POST("/logout", ac.Logout)
			auth.GET("/me", gate(access.UsersMe), ac.Me)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", gate(access.RoomsList), rc.GetRooms)
			rooms.POST("", gate(access.RoomsCreate), rc.CreateRoom)

			// must stay before /:id
			rooms.GET("/audit", gate(access.RoomsAudit), rc.AuditRooms)

			rooms.GET("/:id", gate(access.RoomsView), rc.GetRoom)
			rooms.PUT("/:id", gate(access.RoomsUpdate), rc.UpdateRoom)
			rooms.PATCH("/:id", gate(access.RoomsUpdate), rc.UpdateRoom)
			rooms.DELETE("/:id", gate(access.RoomsDelete), rc.DeleteRoom)
		}

		bookings := api.Group("/bookings")
		{
			bookings.GET("", gate(access.BookingsList), bc.GetBookings)
			bookings.POST("", gate(access.BookingsCreate), bc.CreateBooking)
			bookings.GET("/:id", gate(access.BookingsView), bc.GetBookingDetails)
			bookings.PUT("/:id", gate(access.BookingsUpdate), bc.UpdateBooking)
			bookings.DELETE("/:id", gate(access.BookingsCancel), bc.CancelBooking)
		}

		api.GET("/dashboard", gate(access.DashboardView), rc.Dashboard)
	}

	return r
}
