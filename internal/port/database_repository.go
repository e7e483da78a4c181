package port

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("duplicate record")
	ErrReferenced = errors.New("record is referenced by other data")
)

type CartRepository interface {
	// AddItem creates the customer's cart on first use and adds quantity to
	// an existing line instead of duplicating it
	AddItem(ctx context.Context, customerID int64, item domain.CartItem) error

	// SetItemQuantity overwrites a line's quantity; quantity <= 0 removes it
	SetItemQuantity(ctx context.Context, customerID int64, item domain.CartItem) error

	// RemoveItem deletes a line; removing a missing line is not an error
	RemoveItem(ctx context.Context, customerID, productID, variantID int64) error

	ListLines(ctx context.Context, customerID int64) ([]domain.CartLine, error)
}

type PlaceOrderParams struct {
	CustomerID     int64
	PaymentMethod  domain.PaymentMethod
	Address        string
	ShippingUnitID int
	Voucher        *domain.Promotion
	Policy         domain.Policy
	Now            time.Time
}

type TransitionParams struct {
	OrderID int64
	To      domain.OrderStatus
	Now     time.Time

	// NewSerial supplies the numeric part of a new tracking code
	NewSerial func() int
}

type OrderRepository interface {
	// PlaceOrder converts the customer's cart into an order in one transaction
	PlaceOrder(ctx context.Context, params PlaceOrderParams) (domain.Order, error)

	// TransitionOrder updates the order status and its shipment in one transaction
	TransitionOrder(ctx context.Context, params TransitionParams) (domain.StatusChange, error)

	GetShipment(ctx context.Context, orderID int64) (*domain.Shipment, error)
}

type AccountRepository interface {
	// CreateAccount also creates the customer profile for customer accounts
	CreateAccount(ctx context.Context, account domain.Account) (domain.Account, error)
	GetAccount(ctx context.Context, id int64) (*domain.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error)
	GetCustomer(ctx context.Context, accountID int64) (*domain.Customer, error)
}

type PromotionRepository interface {
	ListPromotions(ctx context.Context) ([]domain.Promotion, error)
	GetPromotion(ctx context.Context, id int64) (*domain.Promotion, error)
	GetPromotionByVoucher(ctx context.Context, code string) (*domain.Promotion, error)
	CreatePromotion(ctx context.Context, promo domain.Promotion) (domain.Promotion, error)
	UpdatePromotion(ctx context.Context, promo domain.Promotion) error
	DeletePromotion(ctx context.Context, id int64) error

	// ActiveDiscounts returns automatic (non-voucher) discounts running at now
	ActiveDiscounts(ctx context.Context, productID, variantID int64, now time.Time) ([]domain.Discount, error)
}

type CatalogRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	VariantPrice(ctx context.Context, productID, variantID int64) (decimal.Decimal, error)
}

type ReportRepository interface {
	CustomerOrders(ctx context.Context, customerID int64, statuses []domain.OrderStatus) ([]domain.Order, error)
	Revenue(ctx context.Context, from, to time.Time) ([]domain.RevenueRow, error)
}

type AuditLogger interface {
	// Record never fails the caller; implementations log their own errors
	Record(ctx context.Context, entry domain.AuditEntry)
}
