package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
)

func TestWindow_Defaults(t *testing.T) {
	now := time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC)

	from, to, err := window("", "", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 13, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC), to)
}

func TestWindow_InclusiveEnd(t *testing.T) {
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	from, to, err := window("2025-01-01", "2025-01-31", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), to)
}

func TestWindow_Invalid(t *testing.T) {
	now := time.Now()

	_, _, err := window("2025-02-01", "2025-01-01", now)
	assert.Error(t, err)

	_, _, err = window("01/02/2025", "", now)
	assert.Error(t, err)
}

func TestRenderRevenue(t *testing.T) {
	var buf bytes.Buffer
	err := renderRevenue(&buf, []domain.RevenueRow{
		{Status: domain.OrderStatusDelivered, OrderCount: 2, Revenue: decimal.NewFromInt(1_200_000)},
		{Status: domain.OrderStatusPending, OrderCount: 1, Revenue: decimal.NewFromInt(630_000)},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "1200000")
	assert.Contains(t, out, "630000")
	assert.Contains(t, out, "1830000")
}
