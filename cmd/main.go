package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/tunam1808/regional-specialties-be/internal/api"
	"github.com/tunam1808/regional-specialties-be/internal/config"
	"github.com/tunam1808/regional-specialties-be/internal/repository"
	"github.com/tunam1808/regional-specialties-be/internal/scheduler"
	"github.com/tunam1808/regional-specialties-be/internal/service"
	"github.com/tunam1808/regional-specialties-be/migrations"
)

func connectDB(dsn string) (*sql.DB, error) {
	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("Connected to DB")
				return db, nil
			}
		}
		log.Printf("Retry %d: failed to connect to DB: %v", i+1, err)
		time.Sleep(3 * time.Second)
	}
	return nil, err
}

func main() {
	cfg := config.Load()

	db, err := connectDB(cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	if err := migrations.AutoMigrate(3, db); err != nil {
		log.Fatalf("Failed to migrate tables: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	kafkaWriter := config.NewKafkaWriter("order-topic")

	inventoryRepo := repository.NewInventoryRepository(db)
	cartRepo := repository.NewCartRepository(db, inventoryRepo)
	orderRepo := repository.NewOrderRepository(db, inventoryRepo, cartRepo)
	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(rdb)

	sched := scheduler.New(orderRepo, scheduler.Options{
		Tick:          cfg.SchedulerTick,
		ShipAfter:     cfg.ShipAfter,
		CompleteAfter: cfg.CompleteAfter,
	})
	go sched.Start(context.Background())

	orderService := service.NewOrderService(orderRepo, sched, kafkaWriter, idempotencyRepo)
	cartService := service.NewCartService(cartRepo)
	productService := service.NewProductService(productRepo, rdb)
	customerService := service.NewCustomerService(customerRepo)

	orderHandler := api.NewOrderHandler(orderService)
	cartHandler := api.NewCartHandler(cartService)
	productHandler := api.NewProductHandler(productService)
	customerHandler := api.NewCustomerHandler(customerService)
	paymentHandler := api.NewPaymentHandler(orderService)

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(10),
				Burst:     30,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	// Gateway callback and catalog reads stay outside the JWT group.
	e.POST("/api/payment/capture", paymentHandler.Capture)
	e.GET("/api/products", productHandler.ListProducts)
	e.GET("/api/products/:id", productHandler.GetProduct)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "shop-backend",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	jwtConfig := echojwt.Config{
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(api.AuthClaims)
		},
		SigningKey: []byte(cfg.JWTSecret),
	}
	g := e.Group("/api", echojwt.WithConfig(jwtConfig))

	g.POST("/cart/add", cartHandler.AddLine)
	g.GET("/cart/me", cartHandler.GetCart)
	g.DELETE("/cart/product/:productId", cartHandler.RemoveLine)

	g.POST("/orders/checkout", orderHandler.Checkout)
	g.POST("/orders/direct", orderHandler.CheckoutDirect)
	g.GET("/orders", orderHandler.ListOrders)
	g.GET("/orders/:id", orderHandler.GetOrder)
	g.PUT("/orders/:id/status", orderHandler.UpdateStatus)
	g.POST("/orders/:id/cancel", orderHandler.CancelOrder)
	g.DELETE("/orders/:id", orderHandler.DeleteOrder)

	g.GET("/customers/me", customerHandler.GetProfile)
	g.PUT("/customers/me", customerHandler.UpsertProfile)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
