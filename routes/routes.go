package routes

import (
	"strings"
	"time"

	"choreify/config"
	"choreify/handlers"
	"choreify/middleware"
	"choreify/services/access"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	customerGuard = access.Guard{RequireAuth: true}
	workerGuard   = access.Guard{RequireAuth: true, AllowedRoles: []string{"WORKER", "ADMIN"}}
	adminGuard    = access.Guard{RequireAuth: true, AllowedRoles: []string{"ADMIN"}}
)

// RegisterAuthRoutes registers sign-in, sign-up and session endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/signin", hb.Auth.SignIn)
		api.POST("/signup", hb.Auth.SignUp)
		api.POST("/signout", hb.Auth.SignOut)
		api.GET("/session", hb.Auth.Session)
	}
}

// RegisterCatalogRoutes registers the public catalog and pricing endpoints.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	services := r.Group("/api/services")
	{
		services.GET("", hb.Catalog.ListServices)
		services.GET("/:slug", hb.Catalog.GetService)
		services.GET("/:slug/price-range", hb.Catalog.GetPriceRange)
	}

	pricing := r.Group("/api/pricing")
	{
		pricing.POST("/quote", hb.Catalog.Quote)
		pricing.POST("/format", hb.Catalog.FormatPrice)
	}
}

// RegisterBookingRoutes registers quote sessions and the cart.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	quotes := r.Group("/api/booking")
	{
		quotes.POST("/quote", hb.Booking.StartQuote)
		quotes.PUT("/quote/:id", hb.Booking.UpdateQuote)
		quotes.GET("/quote/:id", hb.Booking.GetQuote)
		quotes.POST("/confirm", middleware.RequireAccess(customerGuard), hb.Booking.Confirm)
	}

	cart := r.Group("/api/cart")
	{
		cart.GET("", hb.Booking.GetCart)
		cart.POST("", hb.Booking.AddToCart)
		cart.DELETE("", hb.Booking.ClearCart)
		cart.DELETE("/:itemId", hb.Booking.RemoveFromCart)
		cart.POST("/checkout", middleware.RequireAccess(customerGuard), hb.Booking.Checkout)
	}
}

// RegisterProfileRoutes registers the signed-in user's profile endpoints.
func RegisterProfileRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/profile")
	{
		api.Use(middleware.RequireAccess(customerGuard))
		api.GET("/me", hb.Profile.GetMe)
		api.PUT("", hb.Profile.Update)
	}
}

// RegisterWorkerRoutes registers the worker portal API.
func RegisterWorkerRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/worker")
	{
		// Any signed-in user may apply or check on an application.
		api.POST("/apply", middleware.RequireAccess(customerGuard), hb.Worker.Apply)

		portal := api.Group("")
		portal.Use(middleware.RequireAccess(workerGuard))
		portal.GET("/application-status", hb.Worker.ApplicationStatus)
		portal.GET("/bookings", hb.Worker.ListBookings)
		portal.PATCH("/bookings/:id", hb.Worker.UpdateBooking)
		portal.GET("/documents", hb.Worker.ListDocuments)
		portal.POST("/documents", hb.Worker.UploadDocument)
	}
}

// RegisterPageRoutes registers the server-rendered views.
func RegisterPageRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/", hb.Pages.Home)
	r.GET("/services", hb.Pages.Services)
	r.GET("/services/:slug", hb.Pages.Service)
	r.GET("/login", hb.Pages.Login)
	r.GET("/signup", hb.Pages.Signup)

	r.GET("/book/:slug", middleware.RequireAccess(customerGuard), hb.Pages.Book)
	r.GET("/dashboard", middleware.RequireAccess(customerGuard), hb.Pages.Dashboard)

	worker := r.Group("/worker")
	{
		worker.Use(middleware.RequireAccess(workerGuard))
		worker.GET("/dashboard", hb.Pages.WorkerDashboard)
		worker.GET("/application-status", hb.Pages.WorkerApplicationStatus)
	}

	r.GET("/admin", middleware.RequireAccess(adminGuard), hb.Pages.Admin)
	r.NoRoute(hb.Pages.NotFound)
}

// RegisterRealtimeRoutes registers the session feed websocket.
func RegisterRealtimeRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/ws/session", hb.Realtime.SessionFeed)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health)
}

// allowedOrigins lists the cross-origin callers from ALLOWED_ORIGINS. An
// empty list keeps the API same-origin only.
func allowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(config.AppConfig.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// corsMiddleware returns nil when no origins are configured. A lone "*"
// opens the API to any origin without credentials, since the session
// cookie must only travel to origins that were named.
func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return nil
	}
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 1 && origins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}
	return cors.New(corsConfig)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	if h := corsMiddleware(allowedOrigins()); h != nil {
		r.Use(h)
	}

	RegisterHealthRoute(r, hb)
	RegisterAuthRoutes(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterProfileRoutes(r, hb)
	RegisterWorkerRoutes(r, hb)
	RegisterRealtimeRoutes(r, hb)
	RegisterPageRoutes(r, hb)
}
