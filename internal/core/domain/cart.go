package domain

import "github.com/shopspring/decimal"

type Cart struct {
	ID         int64 `json:"cartId"`
	CustomerID int64 `json:"customerId"`
}

type CartItem struct {
	CartID    int64 `json:"cartId"`
	ProductID int64 `json:"productId"`
	VariantID int64 `json:"variantId"`
	Quantity  int   `json:"quantity"`
}

// CartLine is a cart item joined with catalog data for display.
type CartLine struct {
	ProductID   int64           `json:"productId"`
	VariantID   int64           `json:"variantId"`
	ProductName string          `json:"productName"`
	Color       string          `json:"color"`
	Size        string          `json:"size"`
	Quantity    int             `json:"quantity"`
	Stock       int             `json:"stock"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	FinalPrice  decimal.Decimal `json:"finalPrice"`
}
