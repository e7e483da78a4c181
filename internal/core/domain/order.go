package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUnknownStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipping   OrderStatus = "Shipping"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipping,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ParseOrderStatus matches s case-insensitively against the known statuses.
func ParseOrderStatus(s string) (OrderStatus, error) {
	s = strings.TrimSpace(s)
	for _, st := range orderStatuses {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CheckTransition allows any move between non-terminal statuses and
// rewriting the current status. Terminal orders cannot move elsewhere.
func CheckTransition(from, to OrderStatus) error {
	if from == to {
		return nil
	}
	if from.Terminal() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "Cash"
	PaymentBanking PaymentMethod = "Banking"
)

// NormalizePaymentMethod coerces anything other than Banking to Cash.
func NormalizePaymentMethod(s string) PaymentMethod {
	if strings.EqualFold(strings.TrimSpace(s), string(PaymentBanking)) {
		return PaymentBanking
	}
	return PaymentCash
}

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "Unpaid"
	PaymentPaid   PaymentStatus = "Paid"
)

type Order struct {
	ID             int64           `json:"orderId"`
	CustomerID     int64           `json:"customerId"`
	OrderDate      time.Time       `json:"orderDate"`
	Status         OrderStatus     `json:"status"`
	Address        string          `json:"address"`
	PaymentMethod  PaymentMethod   `json:"paymentMethod"`
	PaymentStatus  PaymentStatus   `json:"paymentStatus"`
	ShippingUnitID int             `json:"shippingUnitId,omitempty"`
	VoucherCode    string          `json:"voucherCode,omitempty"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	ShippingFee    decimal.Decimal `json:"shippingFee"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	Items          []OrderItem     `json:"items"`

	// MemberTier is the customer's tier after the order was placed. It is
	// only filled in by checkout.
	MemberTier Tier `json:"memberTier,omitempty"`
}

// OrderItem is a price snapshot taken at checkout.
type OrderItem struct {
	OrderID         int64           `json:"orderId"`
	ProductID       int64           `json:"productId"`
	VariantID       int64           `json:"variantId"`
	ProductName     string          `json:"productName,omitempty"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Subtotal is the sum of quantity times price at purchase.
func Subtotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

type OrderTotals struct {
	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
}

// ComputeTotals prices an order from its item snapshot. voucher may be nil.
func ComputeTotals(items []OrderItem, policy Policy, voucher *Promotion) OrderTotals {
	t := OrderTotals{Subtotal: Subtotal(items)}
	t.ShippingFee = policy.ShippingFee(t.Subtotal)
	if voucher != nil {
		t.Discount = VoucherDiscount(*voucher, items)
	} else {
		t.Discount = decimal.Zero
	}

	t.Total = t.Subtotal.Sub(t.Discount).Add(t.ShippingFee)
	if t.Total.IsNegative() {
		t.Total = decimal.Zero
	}
	return t
}

// StatusChange reports what a fulfillment transition did.
type StatusChange struct {
	OrderID         int64       `json:"orderId"`
	CustomerID      int64       `json:"customerId"`
	From            OrderStatus `json:"from"`
	To              OrderStatus `json:"to"`
	Shipment        *Shipment   `json:"shipment,omitempty"`
	ShipmentCreated bool        `json:"shipmentCreated"`
}
