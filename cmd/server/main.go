package main

import (
	"context"
	"errors"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-service/internal/config"
	"storefront-service/internal/controllers/http"
	"storefront-service/internal/infra/cache"
	mmysql "storefront-service/internal/infra/mysql"
	"storefront-service/internal/infra/rabbitmq"
	"storefront-service/internal/logger"
	mysqlrepo "storefront-service/internal/repository/mysql"
	"storefront-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	pricing, err := cfg.Pricing.Policy()
	if err != nil {
		log.Fatal("invalid pricing config", "error", err)
	}

	db, err := mmysql.NewMySQL(cfg.MySQL)
	if err != nil {
		log.Fatal("db: connect", "error", err)
	}

	users := mysqlrepo.NewUserRepository(db)
	products := mysqlrepo.NewProductRepository(db, log)
	categories := mysqlrepo.NewCategoryRepository(db)
	carts := mysqlrepo.NewCartRepository(db)
	orders := mysqlrepo.NewOrderRepository(db, log)

	var publisher rabbitmq.PublisherInterface
	if cfg.RabbitMQ.URL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
		if err != nil {
			log.Fatal("failed to init publisher", "error", err)
		}
		defer pub.Close()
		publisher = rabbitmq.NewBreakerPublisher(pub, rabbitmq.BreakerSettings{Name: "order-events"})
	} else {
		log.Warn("RABBITMQ_URL not set, order events are disabled")
	}

	productSvc := services.NewProductService(products, categories, mysqlrepo.NewReviewRepository(db), log)
	checkoutSvc := services.NewCheckoutService(mysqlrepo.NewTxRunner(db), carts, products, orders, pricing, publisher, log)

	if addr := cfg.Redis.Addr(); addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:         addr,
			DB:           cfg.Redis.DB,
			PoolSize:     200,
			MinIdleConns: 20,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		})
		defer redisClient.Close()

		productCache := cache.NewRedisProductCache(redisClient)
		productSvc.SetProductCache(productCache)
		checkoutSvc.SetProductCache(productCache)

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := productSvc.WarmupFeatured(ctx); err != nil {
				log.Warn("failed to warm up product cache", "error", err)
				return
			}
			log.Info("product cache warmed up")
		}()
	} else {
		log.Warn("REDIS_HOST not set, product cache is disabled")
	}

	handler := http.NewHandler(http.Services{
		Auth:       services.NewAuthService(users, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, log),
		Users:      services.NewUserService(users, log),
		Products:   productSvc,
		Categories: services.NewCategoryService(categories, log),
		Cart:       services.NewCartService(carts, products, pricing, log),
		Checkout:   checkoutSvc,
		Orders:     services.NewOrderService(orders, publisher, log),
		Admin:      services.NewAdminService(users, products, orders, log),
	}, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &nethttp.Server{
		Addr:              ":" + cfg.Port,
		Handler:           http.NewRouter(handler, cfg.FrontendURL),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting storefront service", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatal("server run", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down storefront service")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
