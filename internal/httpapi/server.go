package httpapi

import (
	"storemart-be/internal/catalog"
	"storemart-be/internal/dashboard"
	"storemart-be/internal/logger"
	"storemart-be/internal/middleware"
	"storemart-be/internal/order"
	"storemart-be/internal/user"

	"github.com/gin-gonic/gin"
)

// Server wires the domain services into the HTTP transport.
type Server struct {
	catalog   catalog.Service
	orders    order.Service
	users     user.Service
	dashboard dashboard.Service
	jwtSecret []byte
}

func NewServer(catalogSvc catalog.Service, orderSvc order.Service, userSvc user.Service, dashboardSvc dashboard.Service, jwtSecret []byte) *Server {
	return &Server{
		catalog:   catalogSvc,
		orders:    orderSvc,
		users:     userSvc,
		dashboard: dashboardSvc,
		jwtSecret: jwtSecret,
	}
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(middleware.Authenticate(s.jwtSecret))
	r.Use(middleware.RateLimit())

	products := r.Group("/api/products")
	{
		products.GET("", s.listProducts)
		products.GET("/search", s.searchProducts)
		products.GET("/categories", s.listCategories)
		products.GET("/slug/:slug", s.getProductBySlug)
		products.GET("/category/:category", s.listProductsByCategory)
		products.GET("/:id", s.getProduct)

		admin := products.Group("", middleware.RequireAuth(), middleware.RequireAdmin())
		{
			admin.POST("", s.createProduct)
			admin.PUT("/:id", s.updateProduct)
			admin.DELETE("/:id", s.deleteProduct)
		}
	}

	orders := r.Group("/api/orders", middleware.RequireAuth())
	{
		orders.POST("", s.createOrder)
		orders.GET("/mine", s.listMyOrders)
		orders.GET("/:id", s.getOrder)
		orders.PUT("/:id/pay", s.payOrder)

		admin := orders.Group("", middleware.RequireAdmin())
		{
			admin.GET("", s.listOrders)
			admin.PUT("/:id/deliver", s.deliverOrder)
			admin.DELETE("/:id", s.deleteOrder)
			admin.DELETE("/purge/unpaid", s.purgeUnpaidOrders)
			admin.DELETE("/purge/completed", s.purgeCompletedOrders)
		}
	}

	users := r.Group("/api/users")
	{
		users.POST("/signup", s.signup)
		users.POST("/signin", s.signin)
		users.POST("/signout", s.signout)
		users.PUT("/profile", middleware.RequireAuth(), s.updateProfile)

		admin := users.Group("", middleware.RequireAuth(), middleware.RequireAdmin())
		{
			admin.GET("", s.listUsers)
			admin.DELETE("/:id", s.deleteUser)
		}
	}

	adminGroup := r.Group("/api/admin", middleware.RequireAuth(), middleware.RequireAdmin())
	{
		adminGroup.GET("/summary", s.adminSummary)
		adminGroup.GET("/metrics", s.adminMetrics)
	}

	return r
}
