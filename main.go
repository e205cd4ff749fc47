package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inherbver/herbisveritas-sub008/cache"
	"github.com/inherbver/herbisveritas-sub008/config"
	"github.com/inherbver/herbisveritas-sub008/controllers"
	"github.com/inherbver/herbisveritas-sub008/database"
	"github.com/inherbver/herbisveritas-sub008/logger"
	"github.com/inherbver/herbisveritas-sub008/metrics"
	"github.com/inherbver/herbisveritas-sub008/middleware"
	"github.com/inherbver/herbisveritas-sub008/models"
	"github.com/inherbver/herbisveritas-sub008/repository"
	"github.com/inherbver/herbisveritas-sub008/routes"
	"github.com/inherbver/herbisveritas-sub008/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync() //nolint:errcheck

	db, err := database.ConnectPostgres(cfg, logger.Log,
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderLine{},
		&models.Shipment{},
		&models.Article{},
		&models.WebhookEvent{},
	)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db) //nolint:errcheck

	redisClient := database.NewRedisClient(cfg.RedisURL)
	defer redisClient.Close() //nolint:errcheck

	store := cache.New(cfg.CacheMaxEntries)
	webhookMetrics := metrics.NewWebhookMetrics()

	// Repositories
	userRepo := repository.NewGormUserRepository(db)
	productRepo := repository.NewGormProductRepository(db)
	categoryRepo := repository.NewGormCategoryRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)
	shipmentRepo := repository.NewGormShipmentRepository(db)
	articleRepo := repository.NewGormArticleRepository(db)
	webhookEventRepo := repository.NewGormWebhookEventRepository(db)
	cartRepo := repository.NewRedisCartRepository(redisClient, cfg.CartTTL)

	// Services
	stripeService := services.NewStripeService(
		cfg.StripeSecretKey, cfg.StripeWebhookKey,
		cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL,
	)
	userService := services.NewUserService(userRepo, cfg.JWTSecret, logger.Log)
	catalogService := services.NewCatalogService(productRepo, categoryRepo, store, cfg.CacheTTL, logger.Log)
	cartService := services.NewCartService(cartRepo, productRepo, logger.Log)
	checkoutService := services.NewCheckoutService(orderRepo, cartRepo, productRepo, stripeService, cfg.Currency, logger.Log)
	orderService := services.NewOrderService(orderRepo, logger.Log)
	shippingService := services.NewShippingService(shipmentRepo, orderRepo, logger.Log)
	renderer := services.NewArticleRenderer(0, 0)
	magazineService := services.NewMagazineService(articleRepo, renderer, store, cfg.CacheTTL, logger.Log)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 30-second request timeout
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	routes.Register(r, routes.Controllers{
		Auth:     controllers.NewAuthController(userService),
		Users:    controllers.NewUserController(userService),
		Products: controllers.NewProductController(catalogService),
		Category: controllers.NewCategoryController(catalogService),
		Cart:     controllers.NewCartController(cartService, checkoutService),
		Orders:   controllers.NewOrderController(orderService),
		Shipping: controllers.NewShippingController(shippingService),
		Magazine: controllers.NewMagazineController(magazineService),
		Webhooks: controllers.NewWebhookController(stripeService, checkoutService, webhookEventRepo, webhookMetrics, logger.Log),
		Metrics:  controllers.NewMetricsController(webhookMetrics),
	}, []byte(cfg.JWTSecret))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return store.Janitor(ctx, cfg.CacheSweepInterval)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Log.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	logger.Log.Info("Server started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := g.Wait(); err != nil {
		logger.Log.Fatal("Server failed", zap.Error(err))
	}
	logger.Log.Info("Server exited cleanly")
}
