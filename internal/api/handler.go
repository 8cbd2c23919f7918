package api

import (
	"net/http"
	"time"

	"marketplace-service/config"
	"marketplace-service/internal/models"
	"marketplace-service/internal/redisclient"
	"marketplace-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	authService    *service.AuthService
	userService    *service.UserService
	cartService    *service.CartService
	orderService   *service.OrderService
	paymentService *service.PaymentService
	catalogService *service.CatalogService
	reviewService  *service.ReviewService
	contentService *service.ContentService
	redis          *redisclient.Client
	cfg            *config.Config
}

// NewHandler creates a new HTTP handler
func NewHandler(
	authService *service.AuthService,
	userService *service.UserService,
	cartService *service.CartService,
	orderService *service.OrderService,
	paymentService *service.PaymentService,
	catalogService *service.CatalogService,
	reviewService *service.ReviewService,
	contentService *service.ContentService,
	redis *redisclient.Client,
	cfg *config.Config,
) *Handler {
	return &Handler{
		authService:    authService,
		userService:    userService,
		cartService:    cartService,
		orderService:   orderService,
		paymentService: paymentService,
		catalogService: catalogService,
		reviewService:  reviewService,
		contentService: contentService,
		redis:          redis,
		cfg:            cfg,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     h.cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", h.healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limited := rateLimitMiddleware(h.redis, h.cfg.RateLimit)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", limited, h.registerUser)
			auth.POST("/login", limited, h.loginUser)
			auth.POST("/seller/register", limited, h.registerSeller)
			auth.POST("/seller/login", limited, h.loginSeller)
			auth.POST("/refresh", limited, h.refreshToken)
		}

		v1.GET("/products", h.searchProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.GET("/products/:id/reviews", h.listProductReviews)
		v1.GET("/banners", h.listBanners)
		v1.GET("/homepage-sections", h.listHomepageSections)

		authed := v1.Group("", h.authMiddleware())
		{
			authed.GET("/me", h.getProfile)
			authed.PUT("/me", h.updateProfile)
			authed.PUT("/me/addresses", h.setAddresses)
			authed.PUT("/me/preferences", h.setPreferences)

			authed.GET("/wishlist", h.getWishlist)
			authed.POST("/wishlist/:productId", h.addToWishlist)
			authed.DELETE("/wishlist/:productId", h.removeFromWishlist)

			authed.GET("/cart", h.getCart)
			authed.PUT("/cart", h.replaceCart)
			authed.DELETE("/cart", h.clearCart)
			authed.POST("/cart/items", h.addCartItem)
			authed.PUT("/cart/items/:productId", h.updateCartItem)
			authed.DELETE("/cart/items/:productId", h.removeCartItem)

			authed.POST("/orders", h.placeOrder)
			authed.GET("/orders", h.listOrders)
			authed.GET("/orders/:id", h.getOrder)
			authed.POST("/orders/:id/cancel", h.cancelOrder)
			authed.POST("/orders/:id/return", h.requestReturn)
			authed.POST("/orders/:id/payment-intent", limited, h.createPaymentIntent)
			authed.POST("/orders/:id/payment/confirm", limited, h.confirmPayment)

			authed.POST("/reviews", h.createReview)

			seller := authed.Group("/seller", requireSeller())
			{
				seller.GET("/profile", h.getSellerProfile)
				seller.PUT("/profile", h.updateSellerProfile)
			}

			vendor := authed.Group("/vendor", requireRoles(models.RoleVendor, models.RoleSeller, models.RoleAdmin))
			{
				vendor.GET("/products", h.listOwnProducts)
				vendor.POST("/products", h.createProduct)
				vendor.PUT("/products/:id", h.updateProduct)
				vendor.DELETE("/products/:id", h.deleteProduct)
				vendor.GET("/orders", h.listVendorOrders)
				vendor.PUT("/orders/:id/status", h.updateVendorOrderStatus)
			}

			admin := authed.Group("/admin", requireRoles(models.RoleAdmin))
			{
				admin.GET("/users", h.listUsers)
				admin.PUT("/users/:id/suspend", h.suspendUser)
				admin.GET("/sellers", h.listSellers)
				admin.PUT("/sellers/:id/approve", h.approveSeller)
				admin.PUT("/sellers/:id/suspend", h.suspendSeller)
				admin.GET("/orders", h.listAllOrders)
				admin.PUT("/orders/:id/status", h.updateOrderStatus)
				admin.POST("/orders/:id/refund", h.refundOrder)
				admin.GET("/reviews/pending", h.listPendingReviews)
				admin.PUT("/reviews/:id/moderate", h.moderateReview)

				admin.POST("/banners", h.createBanner)
				admin.PUT("/banners/:id", h.updateBanner)
				admin.DELETE("/banners/:id", h.deleteBanner)
				admin.GET("/banners", h.listAllBanners)
				admin.POST("/homepage-sections", h.createHomepageSection)
				admin.PUT("/homepage-sections/:id", h.updateHomepageSection)
				admin.DELETE("/homepage-sections/:id", h.deleteHomepageSection)
				admin.GET("/homepage-sections", h.listAllHomepageSections)
			}
		}
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}
