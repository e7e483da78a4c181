package main

import (
	"context"
	"database/sql"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc"

	"github.com/uniqlo-mini/storefront/internal/adapter/auth"
	"github.com/uniqlo-mini/storefront/internal/adapter/handler"
	"github.com/uniqlo-mini/storefront/internal/adapter/notify"
	"github.com/uniqlo-mini/storefront/internal/adapter/storage"
	"github.com/uniqlo-mini/storefront/internal/config"
	"github.com/uniqlo-mini/storefront/internal/core/domain"
	"github.com/uniqlo-mini/storefront/internal/core/service"
	"github.com/uniqlo-mini/storefront/internal/port"
)

const notifyQueueSize = 1000

func main() {
	cfg := config.Load()
	decimal.MarshalJSONWithoutQuotes = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize MySQL
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxOpenConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}
	log.Println("connected to mysql")

	if cfg.DBMigrate {
		if err := storage.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("failed to apply schema: %v", err)
		}
		log.Println("schema applied")
	}

	// Initialize Redis. Without it checkout idempotency and the login
	// lockout are off.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	var cache port.CacheRepository
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis unavailable, idempotency and login lockout disabled: %v", err)
	} else {
		cache = storage.NewRedisAdapter(rdb)
		log.Println("connected to redis")
	}

	// Initialize adapters
	mysqlAdapter := storage.NewMySQLAdapter(db)
	catalog, err := storage.NewGormCatalog(db)
	if err != nil {
		log.Fatalf("failed to init catalog: %v", err)
	}
	audit := storage.NewMySQLAuditLogger(db)

	var sender notify.Sender = notify.LogSender{}
	if cfg.SMTPHost != "" {
		smtp, err := notify.NewSMTPSender(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
		if err != nil {
			log.Fatalf("failed to init smtp: %v", err)
		}
		sender = smtp
	}
	dispatcher := notify.NewDispatcher(sender, cfg.NotifyWorkers, notifyQueueSize)
	log.Printf("started %d notification workers", cfg.NotifyWorkers)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	policy := domain.DefaultPolicy()

	// Initialize services
	opts := []service.Option{service.WithAudit(audit), service.WithNotifier(dispatcher)}
	pricing := service.NewPricingService(mysqlAdapter, catalog)
	fulfillment := service.NewFulfillmentService(mysqlAdapter, mysqlAdapter, opts...)

	httpHandler := handler.NewHTTPHandler(handler.Services{
		Checkout:    service.NewCheckoutService(mysqlAdapter, pricing, mysqlAdapter, cache, policy, opts...),
		Cart:        service.NewCartService(mysqlAdapter, pricing),
		Fulfillment: fulfillment,
		Auth:        service.NewAuthService(mysqlAdapter, cache, tokens, opts...),
		Catalog:     service.NewCatalogService(catalog, pricing, opts...),
		Promotions:  service.NewPromotionService(mysqlAdapter, pricing, opts...),
		Reports:     service.NewReportService(mysqlAdapter, mysqlAdapter),
		Tokens:      tokens,
		Policy:      policy,
	})

	// Initialize gRPC server
	grpcServer := grpc.NewServer()
	handler.RegisterFulfillmentServer(grpcServer, handler.NewGRPCHandler(fulfillment))

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	go func() {
		log.Printf("gRPC server listening on :%s", cfg.GRPCPort)
		if err := grpcServer.Serve(lis); err != nil {
			log.Printf("gRPC server error: %v", err)
		}
	}()

	// Initialize HTTP server
	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           httpHandler.Router(cfg.FrontendOrigin),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
	log.Println("HTTP server stopped")

	grpcServer.GracefulStop()
	log.Println("gRPC server stopped")

	dispatcher.Close()
	log.Println("notification workers stopped")

	rdb.Close()
	db.Close()
	log.Println("connections closed")
}
