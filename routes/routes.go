package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/inherbver/herbisveritas-sub008/controllers"
	"github.com/inherbver/herbisveritas-sub008/middleware"
)

// Controllers bundles every controller the router wires up.
type Controllers struct {
	Auth     *controllers.AuthController
	Users    *controllers.UserController
	Products *controllers.ProductController
	Category *controllers.CategoryController
	Cart     *controllers.CartController
	Orders   *controllers.OrderController
	Shipping *controllers.ShippingController
	Magazine *controllers.MagazineController
	Webhooks *controllers.WebhookController
	Metrics  *controllers.MetricsController
}

// Register sets up the whole HTTP surface: public storefront reads, the
// authenticated cart/order routes, the provider webhook and the admin group.
func Register(r *gin.Engine, c Controllers, jwtSecret []byte) {
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "herbisveritas"})
	})

	// Credential endpoints get a per-IP budget to slow down stuffing.
	authLimiter := middleware.NewRateLimiter(rate.Limit(1), 5)
	auth := r.Group("/auth")
	{
		auth.POST("/register", authLimiter.Middleware(), c.Auth.Register)
		auth.POST("/login", authLimiter.Middleware(), c.Auth.Login)
		auth.GET("/me", middleware.RequireAuth(jwtSecret), c.Auth.Me)
	}

	// Public storefront reads.
	r.GET("/products", c.Products.GetProducts)
	r.GET("/products/:id", c.Products.GetProduct)
	r.GET("/categories", c.Category.GetCategories)
	r.GET("/magazine", c.Magazine.GetArticles)
	r.GET("/magazine/:slug", c.Magazine.GetArticle)

	cart := r.Group("/cart")
	cart.Use(middleware.RequireAuth(jwtSecret))
	{
		cart.GET("", c.Cart.GetCart)
		cart.POST("/items", c.Cart.AddItem)
		cart.PUT("/items/:product_id", c.Cart.UpdateItem)
		cart.DELETE("/items/:product_id", c.Cart.RemoveItem)
		cart.DELETE("", c.Cart.ClearCart)
		cart.POST("/checkout", c.Cart.Checkout)
	}

	orders := r.Group("/orders")
	orders.Use(middleware.RequireAuth(jwtSecret))
	{
		orders.GET("", c.Orders.GetMyOrders)
		orders.GET("/:id", c.Orders.GetMyOrder)
		orders.GET("/:id/tracking", c.Shipping.GetTracking)
	}

	// Signature verification replaces auth here; the provider cannot log in.
	r.POST("/webhooks/stripe", c.Webhooks.HandleStripeWebhook)

	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuth(jwtSecret), middleware.RequireRole(middleware.AdminRole))
	{
		admin.POST("/products", c.Products.CreateProduct)
		admin.PUT("/products/:id", c.Products.UpdateProduct)
		admin.DELETE("/products/:id", c.Products.DeleteProduct)

		admin.POST("/categories", c.Category.CreateCategory)

		admin.GET("/articles", c.Magazine.ListAllArticles)
		admin.POST("/articles", c.Magazine.CreateArticle)
		admin.PUT("/articles/:id", c.Magazine.UpdateArticle)
		admin.POST("/articles/:id/publish", c.Magazine.PublishArticle)
		admin.POST("/articles/:id/unpublish", c.Magazine.UnpublishArticle)
		admin.DELETE("/articles/:id", c.Magazine.DeleteArticle)

		admin.GET("/users", c.Users.ListUsers)
		admin.PATCH("/users/:id/role", c.Users.UpdateRole)

		admin.GET("/orders", c.Orders.ListAllOrders)
		admin.PATCH("/orders/:id/status", c.Orders.UpdateStatus)
		admin.PUT("/orders/:id/shipment", c.Shipping.UpsertShipment)

		admin.GET("/metrics", c.Metrics.GetMetrics)
	}
}
