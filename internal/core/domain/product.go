package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64     `json:"productId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"imageUrl"`
	Variants    []Variant `json:"variants"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Variant is a color/size SKU with its own price and stock.
type Variant struct {
	ID         int64           `json:"variantId"`
	ProductID  int64           `json:"productId"`
	Color      string          `json:"color"`
	Size       string          `json:"size"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	FinalPrice decimal.Decimal `json:"finalPrice"`
}

// PriceQuote is the resolved browse-time price of one variant.
type PriceQuote struct {
	ProductID  int64           `json:"productId"`
	VariantID  int64           `json:"variantId"`
	BasePrice  decimal.Decimal `json:"basePrice"`
	FinalPrice decimal.Decimal `json:"finalPrice"`
	Discounts  []Discount      `json:"discounts"`
}
