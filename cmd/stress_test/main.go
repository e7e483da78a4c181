package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/uniqlo-mini/storefront/internal/adapter/auth"
	"github.com/uniqlo-mini/storefront/internal/adapter/storage"
	"github.com/uniqlo-mini/storefront/internal/config"
	"github.com/uniqlo-mini/storefront/internal/core/domain"
	"github.com/uniqlo-mini/storefront/internal/core/service"
)

const unitPrice = 300_000

// Fires concurrent add-to-cart + checkout rounds for a single customer and
// checks that no spend credit or stock decrement was lost.
func main() {
	var (
		totalRequests = flag.Int("requests", 50, "number of concurrent checkout attempts")
		initialStock  = flag.Int("stock", 20, "stock of the test variant")
	)
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)

	if err := storage.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}

	mysqlAdapter := storage.NewMySQLAdapter(db)
	catalog, err := storage.NewGormCatalog(db)
	if err != nil {
		log.Fatalf("failed to init catalog: %v", err)
	}

	policy := domain.DefaultPolicy()
	pricing := service.NewPricingService(mysqlAdapter, catalog)
	authService := service.NewAuthService(mysqlAdapter, nil, auth.NewTokenManager(cfg.JWTSecret, time.Hour))
	cartService := service.NewCartService(mysqlAdapter, pricing)
	checkoutService := service.NewCheckoutService(mysqlAdapter, pricing, mysqlAdapter, nil, policy)

	// Fresh fixtures
	suffix := uuid.NewString()[:8]
	customer, err := authService.Register(ctx, service.RegisterRequest{
		Username: "stress-" + suffix,
		Password: "stress-password",
		Email:    "stress-" + suffix + "@example.com",
	})
	if err != nil {
		log.Fatalf("failed to register customer: %v", err)
	}
	product, err := catalog.CreateProduct(ctx, domain.Product{
		Name: "Stress Tee " + suffix,
		Variants: []domain.Variant{
			{Color: "White", Size: "M", Price: decimal.NewFromInt(unitPrice), Stock: *initialStock},
		},
	})
	if err != nil {
		log.Fatalf("failed to create product: %v", err)
	}
	variant := product.Variants[0]

	var (
		successCount atomic.Int32
		emptyCount   atomic.Int32
		stockCount   atomic.Int32
		failCount    atomic.Int32
		mu           sync.Mutex
		subtotals    = decimal.Zero
		unitsSold    int
	)

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < *totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			item := domain.CartItem{ProductID: product.ID, VariantID: variant.ID, Quantity: 1}
			if err := cartService.Add(ctx, customer.ID, item); err != nil {
				failCount.Add(1)
				return
			}

			order, err := checkoutService.Checkout(ctx, service.CheckoutRequest{
				CustomerID:    customer.ID,
				PaymentMethod: string(domain.PaymentCash),
				Address:       "stress test",
			})
			switch {
			case err == nil:
				successCount.Add(1)
				mu.Lock()
				subtotals = subtotals.Add(order.Subtotal)
				for _, it := range order.Items {
					unitsSold += it.Quantity
				}
				mu.Unlock()
			case errors.Is(err, domain.ErrEmptyCart):
				emptyCount.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				stockCount.Add(1)
			default:
				failCount.Add(1)
				log.Printf("checkout failed: %v", err)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	stored, err := mysqlAdapter.GetCustomer(ctx, customer.ID)
	if err != nil {
		log.Fatalf("failed to load customer: %v", err)
	}
	after, err := catalog.GetProduct(ctx, product.ID)
	if err != nil {
		log.Fatalf("failed to load product: %v", err)
	}
	remaining := after.Variants[0].Stock

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:       %d\n", *initialStock)
	fmt.Printf("Total Requests:      %d\n", *totalRequests)
	fmt.Printf("Orders Placed:       %d\n", successCount.Load())
	fmt.Printf("Empty Cart:          %d\n", emptyCount.Load())
	fmt.Printf("Insufficient Stock:  %d\n", stockCount.Load())
	fmt.Printf("Failed:              %d\n", failCount.Load())
	fmt.Printf("Duration:            %v\n", elapsed)
	fmt.Println("==========================================")

	if stored.TotalSpent.Equal(subtotals) {
		fmt.Printf("PASS: totalSpent %s matches placed orders\n", stored.TotalSpent)
	} else {
		fmt.Printf("FAIL: totalSpent %s, placed orders sum to %s\n", stored.TotalSpent, subtotals)
	}

	if remaining == *initialStock-unitsSold && remaining >= 0 {
		fmt.Printf("PASS: stock %d after %d units sold\n", remaining, unitsSold)
	} else {
		fmt.Printf("FAIL: expected stock %d, got %d\n", *initialStock-unitsSold, remaining)
	}

	if stored.MemberTier == domain.TierOf(stored.TotalSpent) {
		fmt.Printf("PASS: tier %s\n", stored.MemberTier)
	} else {
		fmt.Printf("FAIL: tier %s does not match spend %s\n", stored.MemberTier, stored.TotalSpent)
	}
}
