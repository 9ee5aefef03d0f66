package api

import (
	"log"
	stdhttp "net/http"

	intconfig "travelweb/internal/config"
	h "travelweb/internal/http/handlers"
	"travelweb/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// adminRoles may use /api/admin; the backend still authorizes each call.
var adminRoles = []string{"admin", "superadmin", "staff"}

// webhookMaxBody bounds payment provider callbacks.
const webhookMaxBody = 64 << 10

// webhookSignatureHeaders are relayed so the backend can verify the callback.
var webhookSignatureHeaders = []string{"Stripe-Signature", "X-Callback-Token", "X-Signature"}

func NewRouter(env intconfig.Env, hs *h.Handlers, authLimiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger("/api/health"), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route tidak ditemukan",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	bearer := middleware.RequireBearer()
	decoder := middleware.TokenDecoder{Secret: []byte(env.JWTSecret)}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/upstream-check", hs.UpstreamCheck)
		api.GET("/db-check", hs.DBCheck)
		api.GET("/routes", h.Routes)

		// Auth
		auth := api.Group("/auth")
		limited := auth.Group("", middleware.RateLimit(authLimiter))
		limited.POST("/login", hs.Login)
		limited.POST("/register", hs.Register)
		auth.POST("/refresh", hs.Refresh)
		auth.POST("/logout", hs.Logout)
		auth.GET("/me", bearer, hs.Forward(h.To("auth", "me")))
		auth.POST("/forgot-password", hs.Forward(h.To("auth", "forgot-password")))
		auth.POST("/reset-password", hs.Forward(h.To("auth", "reset-password")))

		// Catalogue (bearer optional)
		flights := api.Group("/flights")
		flights.GET("/search", hs.Forward(h.To("flights", "search")))
		flights.POST("/offers/price", hs.Forward(h.To("flights", "offers", "price")))

		packages := api.Group("/packages")
		packages.GET("", hs.Forward(h.To("packages")))
		packages.GET("/:slug", hs.Forward(h.To("packages", ":slug")))

		// Bookings
		bookings := api.Group("/bookings", bearer)
		bookings.GET("", hs.Forward(h.To("bookings")))
		bookings.POST("", hs.Forward(h.To("bookings")))
		bookings.GET("/:reference", hs.Forward(h.To("bookings", ":reference")))
		bookings.POST("/:reference/cancel", hs.Forward(h.To("bookings", ":reference", "cancel")))
		bookings.GET("/:reference/invoice", hs.Forward(h.To("bookings", ":reference", "invoice")))
		bookings.GET("/:reference/timeline", hs.BookingTimeline)
		bookings.GET("/:reference/invoice.pdf", hs.InvoicePDF)
		bookings.GET("/:reference/e-ticket.pdf", hs.ETicketPDF)

		// Payments
		payments := api.Group("/payments")
		payments.POST("/intent", bearer, hs.Forward(h.To("payments", "intent")))
		payments.POST("/confirm", bearer, hs.Forward(h.To("payments", "confirm")))
		webhook := h.To("payments", "webhook")
		webhook.Extra = webhookSignatureHeaders
		webhook.MaxBody = webhookMaxBody
		payments.POST("/webhook", hs.Forward(webhook))

		// Dashboard
		dashboard := api.Group("/dashboard", bearer)
		dashboard.GET("/flights", hs.Forward(h.To("dashboard", "flights")))
		dashboard.GET("/bookings", hs.Forward(h.To("dashboard", "bookings")))
		dashboard.GET("/summary", hs.Forward(h.To("dashboard", "summary")))

		// Admin
		admin := api.Group("/admin", middleware.Authenticate(decoder), middleware.RequireRoles(adminRoles...))
		mountAdmin(admin, hs)
	}

	return r
}

func mountAdmin(g *gin.RouterGroup, hs *h.Handlers) {
	audited := func(segments ...string) gin.HandlerFunc {
		rt := h.To(segments...)
		rt.Audited = true
		return hs.Forward(rt)
	}

	g.GET("/bookings", hs.Forward(h.To("admin", "bookings")))
	g.GET("/bookings/:reference", hs.Forward(h.To("admin", "bookings", ":reference")))
	g.PATCH("/bookings/:reference/status", audited("admin", "bookings", ":reference", "status"))
	g.GET("/bookings/:reference/timeline", hs.AdminBookingTimeline)

	g.GET("/flights", hs.Forward(h.To("admin", "flights")))
	g.GET("/flights/:reference", hs.Forward(h.To("admin", "flights", ":reference")))
	g.PATCH("/flights/:reference", audited("admin", "flights", ":reference"))
	g.POST("/flights/:reference/ticket", audited("admin", "flights", ":reference", "ticket"))

	g.GET("/packages", hs.Forward(h.To("admin", "packages")))
	g.POST("/packages", audited("admin", "packages"))
	g.PUT("/packages/:id", audited("admin", "packages", ":id"))
	g.DELETE("/packages/:id", audited("admin", "packages", ":id"))

	g.GET("/users", hs.Forward(h.To("admin", "users")))
	g.PATCH("/users/:id", audited("admin", "users", ":id"))

	g.GET("/invoices", hs.Forward(h.To("admin", "invoices")))
	g.GET("/audit", hs.AuditLog)
}
