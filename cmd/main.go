package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"store-service/internal/api"
	"store-service/internal/config"
	"store-service/internal/repository"
	"store-service/internal/service"
	"store-service/internal/storage"
	"store-service/migrations"
)

func connectDB(cfg config.Config) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("Connected to DB %s", cfg.DBName)
				return db, nil
			}
		}
		log.Printf("Retry %d: Failed to connect to DB %s (%s:%s): %v", i+1, cfg.DBName, cfg.DBHost, cfg.DBPort, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to DB %s at %s:%s after retries: %v", cfg.DBName, cfg.DBHost, cfg.DBPort, err)
}

func main() {
	cfg := config.Load()

	db, err := connectDB(cfg)
	if err != nil {
		panic(err)
	}

	if err := migrations.AutoMigrate(db, 3); err != nil {
		log.Fatalf("Failed to migrate tables: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	blobs, err := storage.NewDiskStore(cfg.MediaDir)
	if err != nil {
		log.Fatalf("Failed to open media dir: %v", err)
	}

	orderEvents := config.NewKafkaWriter("order-topic")
	stockAlerts := config.NewKafkaWriter("stock-alert-topic")

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	imageRepo := repository.NewImageRepository(db)
	cartRepo := repository.NewCartRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)
	promoRepo := repository.NewPromoRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reportRepo := repository.NewReportRepository(db)

	productCache := service.NewRedisProductCache(rdb)

	userService := service.NewUserService(userRepo, rdb, cfg.JWTSecret)
	categoryService := service.NewCategoryService(categoryRepo)
	productService := service.NewProductService(productRepo, imageRepo, productCache)
	imageService := service.NewImageService(imageRepo, blobs, productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo)
	promoService := service.NewPromoService(promoRepo)
	checkoutService := service.NewCheckoutService(orderRepo, promoRepo, orderEvents, stockAlerts, productCache)
	reportService := service.NewReportService(reportRepo)

	if err := userService.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to ensure admin account: %v", err)
	}

	authHandler := api.NewAuthHandler(userService)
	categoryHandler := api.NewCategoryHandler(categoryService)
	productHandler := api.NewProductHandler(productService)
	imageHandler := api.NewImageHandler(imageService)
	cartHandler := api.NewCartHandler(cartService, checkoutService)
	wishlistHandler := api.NewWishlistHandler(wishlistService)
	promoHandler := api.NewPromoHandler(promoService)
	orderHandler := api.NewOrderHandler(orderRepo)
	reportHandler := api.NewReportHandler(reportService)

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(20),
				Burst:     60,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"detail": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"detail": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	authRequired := api.NewAuthMiddleware(cfg.JWTSecret)
	managerOnly := api.RequireManager()
	adminOnly := api.RequireAdmin()

	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/create-manager", authHandler.CreateManager, authRequired, adminOnly)

	// Read-only catalog is open to anyone; mutations are manager gated.
	e.GET("/products", productHandler.List)
	e.GET("/products/:slug/:id", productHandler.Get)
	e.POST("/products", productHandler.Create, authRequired, managerOnly)
	e.PUT("/products/:slug/:id", productHandler.Update, authRequired, managerOnly)
	e.DELETE("/products/:slug/:id", productHandler.Delete, authRequired, managerOnly)

	e.GET("/products/:product_id/images", imageHandler.List, authRequired, managerOnly)
	e.POST("/products/:product_id/images", imageHandler.Create, authRequired, managerOnly)
	e.PATCH("/products/:product_id/images/:id", imageHandler.Replace, authRequired, managerOnly)
	e.DELETE("/products/:product_id/images/:id", imageHandler.Delete, authRequired, managerOnly)

	e.GET("/categories", categoryHandler.List)
	e.GET("/categories/:slug/:id", categoryHandler.Get)
	e.POST("/categories", categoryHandler.Create, authRequired, managerOnly)
	e.PUT("/categories/:slug/:id", categoryHandler.Update, authRequired, managerOnly)
	e.DELETE("/categories/:slug/:id", categoryHandler.Delete, authRequired, managerOnly)

	e.GET("/cart", cartHandler.List, authRequired)
	e.POST("/cart", cartHandler.Add, authRequired)
	e.PUT("/cart/:id", cartHandler.UpdateQuantity, authRequired)
	e.DELETE("/cart/:id", cartHandler.Remove, authRequired)
	e.POST("/cart/checkout", cartHandler.Checkout, authRequired)

	e.GET("/wishlist", wishlistHandler.List, authRequired)
	e.POST("/wishlist", wishlistHandler.Add, authRequired)
	e.DELETE("/wishlist/:id", wishlistHandler.Remove, authRequired)

	e.GET("/orders", orderHandler.ListMine, authRequired)

	e.GET("/promocodes", promoHandler.List, authRequired, managerOnly)
	e.POST("/promocodes", promoHandler.Create, authRequired, managerOnly)
	e.GET("/promocodes/:id", promoHandler.Get, authRequired, managerOnly)
	e.PUT("/promocodes/:id", promoHandler.Update, authRequired, managerOnly)
	e.DELETE("/promocodes/:id", promoHandler.Delete, authRequired, managerOnly)

	e.GET("/reports/sales-by-product", reportHandler.SalesByProduct, authRequired, managerOnly)

	e.Static("/media", cfg.MediaDir)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "store-service",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	e.Logger.Fatal(e.Start(cfg.HTTPAddr))
}
