package handler

import (
	"context"
	"time"

	"github.com/uniqlo-mini/storefront/internal/adapter/auth"
	"github.com/uniqlo-mini/storefront/internal/core/domain"
	"github.com/uniqlo-mini/storefront/internal/core/service"
)

type CheckoutService interface {
	Checkout(ctx context.Context, req service.CheckoutRequest) (domain.Order, error)
}

type CartService interface {
	Lines(ctx context.Context, customerID int64) ([]domain.CartLine, error)
	Add(ctx context.Context, customerID int64, item domain.CartItem) error
	SetQuantity(ctx context.Context, customerID int64, item domain.CartItem) error
	Remove(ctx context.Context, customerID, productID, variantID int64) error
}

type FulfillmentService interface {
	UpdateOrderStatus(ctx context.Context, orderID int64, status string, actorID int64) (domain.StatusChange, error)
	Shipment(ctx context.Context, orderID int64) (*domain.Shipment, error)
}

type AuthService interface {
	Register(ctx context.Context, req service.RegisterRequest) (domain.Account, error)
	Login(ctx context.Context, username, password string) (domain.Account, string, error)
}

type CatalogService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, actorID int64, product domain.Product) (domain.Product, error)
	Update(ctx context.Context, actorID int64, product domain.Product) (domain.Product, error)
	Delete(ctx context.Context, actorID, id int64) error
}

type PromotionService interface {
	List(ctx context.Context) ([]domain.Promotion, error)
	Create(ctx context.Context, actorID int64, promo domain.Promotion) (domain.Promotion, error)
	Update(ctx context.Context, actorID int64, promo domain.Promotion) error
	Delete(ctx context.Context, actorID, id int64) error
	Validate(ctx context.Context, code string) (domain.Promotion, error)
}

type ReportService interface {
	CustomerOrders(ctx context.Context, customerID int64, statusList string) ([]domain.Order, error)
	Revenue(ctx context.Context, from, to time.Time) ([]domain.RevenueRow, error)
	CustomerTier(ctx context.Context, customerID int64) (domain.TierProgress, error)
}

type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Services groups what the HTTP layer calls into.
type Services struct {
	Checkout    CheckoutService
	Cart        CartService
	Fulfillment FulfillmentService
	Auth        AuthService
	Catalog     CatalogService
	Promotions  PromotionService
	Reports     ReportService
	Tokens      TokenParser
	Policy      domain.Policy
}
