package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Callmeduobgne/Luong-ban-hoa/internal/service"
)

// NewRouter configura el router de Gin con middlewares y todas las rutas.
func NewRouter(
	logger *zap.Logger,
	authSvc *service.AuthService,
	authH *AuthHandler,
	adminH *AdminHandler,
	productH *ProductHandler,
	cartH *CartHandler,
	blogH *BlogHandler,
	healthH *HealthHandler,
	corsOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Middlewares básicos: logging, recovery, CORS y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), corsMiddleware(corsOrigins), jsonContentTypeMiddleware())

	requireAuth := RequireAuth(authSvc)
	requireAdmin := RequireAdmin()

	r.GET("/", healthH.Root)
	r.GET("/api/health", healthH.APIHealth)
	r.GET("/api/info", healthH.APIInfo)

	auth := r.Group("/api/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.POST("/refresh-token", authH.RefreshToken)
	auth.GET("/verify-token", requireAuth, authH.VerifyToken)
	auth.POST("/change-password", requireAuth, authH.ChangePassword)
	auth.GET("/profile", requireAuth, authH.GetProfile)
	auth.PUT("/update-profile", requireAuth, authH.UpdateProfile)

	r.GET("/api/products", productH.ListProducts)
	r.GET("/api/products/:id", productH.GetProduct)

	r.GET("/api/blogs", blogH.ListPublished)
	r.GET("/api/blogs/featured", blogH.ListFeatured)
	r.GET("/api/blogs/:id", blogH.GetBlog)

	cart := r.Group("/api/cart", requireAuth)
	cart.GET("", cartH.GetCart)
	cart.POST("", cartH.AddToCart)
	cart.PUT("/:product_id", cartH.UpdateCartItem)
	cart.DELETE("/:product_id", cartH.RemoveCartItem)

	admin := r.Group("/api/admin", requireAuth)
	// Órdenes de usuario: autenticadas pero sin rol admin, por compatibilidad
	// con los prefijos del cliente existente.
	admin.POST("/orders", adminH.CreateOrder)
	admin.GET("/my-orders", adminH.MyOrders)

	admin.GET("/dashboard-stats", requireAdmin, adminH.DashboardStats)
	admin.GET("/recent-activity", requireAdmin, adminH.RecentActivity)
	admin.GET("/users", requireAdmin, adminH.ListUsers)
	admin.GET("/users/:id", requireAdmin, adminH.GetUser)
	admin.PUT("/users/:id/status", requireAdmin, adminH.ToggleUserStatus)
	admin.DELETE("/users/:id", requireAdmin, adminH.DeleteUser)
	admin.GET("/orders", requireAdmin, adminH.ListOrders)
	admin.PUT("/orders/:id/status", requireAdmin, adminH.UpdateOrderStatus)
	admin.POST("/products", requireAdmin, productH.CreateProduct)
	admin.PUT("/products/:id", requireAdmin, productH.UpdateProduct)
	admin.DELETE("/products/:id", requireAdmin, productH.DeleteProduct)
	admin.GET("/blogs", requireAdmin, blogH.ListAll)
	admin.POST("/blogs", requireAdmin, blogH.CreateBlog)
	admin.PUT("/blogs/:id", requireAdmin, blogH.UpdateBlog)
	admin.DELETE("/blogs/:id", requireAdmin, blogH.DeleteBlog)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// corsMiddleware habilita CORS para los orígenes del frontend.
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	}
	return cors.New(cfg)
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
