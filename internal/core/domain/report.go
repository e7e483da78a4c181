package domain

import "github.com/shopspring/decimal"

// RevenueRow aggregates orders sharing one status.
type RevenueRow struct {
	Status     OrderStatus     `json:"status"`
	OrderCount int64           `json:"orderCount"`
	Revenue    decimal.Decimal `json:"revenue"`
}
