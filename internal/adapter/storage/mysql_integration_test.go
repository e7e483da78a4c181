package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
	"github.com/uniqlo-mini/storefront/internal/port"
)

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/uniqlo_mini?parseTime=true&loc=Local"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return db
}

func seedCustomer(t *testing.T, adapter *MySQLAdapter) domain.Account {
	t.Helper()

	name := "it-" + uuid.NewString()[:8]
	account, err := adapter.CreateAccount(context.Background(), domain.Account{
		Username:     name,
		Email:        name + "@example.com",
		Role:         domain.RoleCustomer,
		PasswordHash: "x",
		CreatedAt:    time.Now(),
	})
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return account
}

func TestLive_ConcurrentCheckoutNeverOversells(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	catalog, err := NewGormCatalog(db)
	if err != nil {
		t.Fatalf("gorm: %v", err)
	}

	const stock = 5
	const buyers = 12

	product, err := catalog.CreateProduct(ctx, domain.Product{
		Name:     "Integration Tee " + uuid.NewString()[:8],
		Category: "T-Shirts",
		Variants: []domain.Variant{{Color: "Black", Size: "M", Price: decimal.NewFromInt(300_000), Stock: stock}},
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	variant := product.Variants[0]

	customers := make([]domain.Account, buyers)
	for i := range customers {
		customers[i] = seedCustomer(t, adapter)
		err := adapter.AddItem(ctx, customers[i].ID, domain.CartItem{ProductID: product.ID, VariantID: variant.ID, Quantity: 1})
		if err != nil {
			t.Fatalf("add item: %v", err)
		}
	}

	var successCount atomic.Int32
	var stockOut atomic.Int32
	var wg sync.WaitGroup
	for _, c := range customers {
		wg.Add(1)
		go func(customerID int64) {
			defer wg.Done()
			_, err := adapter.PlaceOrder(ctx, port.PlaceOrderParams{
				CustomerID:    customerID,
				PaymentMethod: domain.PaymentCash,
				Policy:        domain.DefaultPolicy(),
				Now:           time.Now(),
			})
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				stockOut.Add(1)
			default:
				t.Errorf("customer %d: %v", customerID, err)
			}
		}(c.ID)
	}
	wg.Wait()

	if successCount.Load() != stock {
		t.Errorf("expected %d orders, got %d", stock, successCount.Load())
	}
	if stockOut.Load() != buyers-stock {
		t.Errorf("expected %d stock-outs, got %d", buyers-stock, stockOut.Load())
	}

	var left int
	db.QueryRowContext(ctx, `SELECT stock FROM product_variants WHERE id = ?`, variant.ID).Scan(&left)
	if left != 0 {
		t.Errorf("expected stock 0, got %d", left)
	}

	// A buyer who lost the race keeps their cart and spend
	for _, c := range customers {
		cust, err := adapter.GetCustomer(ctx, c.ID)
		if err != nil {
			t.Fatalf("customer: %v", err)
		}
		lines, _ := adapter.ListLines(ctx, c.ID)
		switch {
		case cust.TotalSpent.IsZero() && len(lines) != 1:
			t.Errorf("customer %d: lost the race but cart has %d lines", c.ID, len(lines))
		case !cust.TotalSpent.IsZero() && len(lines) != 0:
			t.Errorf("customer %d: ordered but cart has %d lines", c.ID, len(lines))
		case !cust.TotalSpent.IsZero() && !cust.TotalSpent.Equal(decimal.NewFromInt(300_000)):
			t.Errorf("customer %d: unexpected spend %s", c.ID, cust.TotalSpent)
		}
	}

	// Ordered products can no longer be deleted
	if err := catalog.DeleteProduct(ctx, product.ID); !errors.Is(err, port.ErrReferenced) {
		t.Errorf("expected ErrReferenced, got: %v", err)
	}
}

func TestLive_ShippingThenDelivered(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	catalog, err := NewGormCatalog(db)
	if err != nil {
		t.Fatalf("gorm: %v", err)
	}

	product, err := catalog.CreateProduct(ctx, domain.Product{
		Name:     "Integration Jeans " + uuid.NewString()[:8],
		Variants: []domain.Variant{{Color: "Blue", Size: "32", Price: decimal.NewFromInt(799_000), Stock: 3}},
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	customer := seedCustomer(t, adapter)
	adapter.AddItem(ctx, customer.ID, domain.CartItem{ProductID: product.ID, VariantID: product.Variants[0].ID, Quantity: 1})

	order, err := adapter.PlaceOrder(ctx, port.PlaceOrderParams{
		CustomerID: customer.ID, ShippingUnitID: 2, Policy: domain.DefaultPolicy(), Now: time.Now(),
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	serial := 0
	next := func() int { serial++; return 500000 + serial }

	for i := 0; i < 2; i++ {
		change, err := adapter.TransitionOrder(ctx, port.TransitionParams{
			OrderID: order.ID, To: domain.OrderStatusShipping, Now: time.Now(), NewSerial: next,
		})
		if err != nil {
			t.Fatalf("shipping %d: %v", i+1, err)
		}
		if change.Shipment == nil || change.Shipment.TrackingCode != "VTP-500001" {
			t.Errorf("shipping %d: unexpected shipment %+v", i+1, change.Shipment)
		}
	}

	change, err := adapter.TransitionOrder(ctx, port.TransitionParams{
		OrderID: order.ID, To: domain.OrderStatusDelivered, Now: time.Now(), NewSerial: next,
	})
	if err != nil {
		t.Fatalf("delivered: %v", err)
	}
	if change.Shipment.DeliveryDate == nil {
		t.Error("expected delivery date")
	}

	_, err = adapter.TransitionOrder(ctx, port.TransitionParams{
		OrderID: order.ID, To: domain.OrderStatusCancelled, Now: time.Now(), NewSerial: next,
	})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got: %v", err)
	}

	orders, err := adapter.CustomerOrders(ctx, customer.ID, []domain.OrderStatus{domain.OrderStatusDelivered})
	if err != nil {
		t.Fatalf("customer orders: %v", err)
	}
	if len(orders) != 1 || len(orders[0].Items) != 1 {
		t.Errorf("expected one delivered order with one item, got %s", fmt.Sprint(orders))
	}
}
