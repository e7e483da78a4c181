package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
)

// CustomerOrders lists the customer's orders newest first with their items.
// An empty statuses slice means every status.
func (m *MySQLAdapter) CustomerOrders(ctx context.Context, customerID int64, statuses []domain.OrderStatus) ([]domain.Order, error) {
	query := `
		SELECT id, customer_id, order_date, status, address, payment_method, payment_status,
			shipping_unit_id, voucher_code, subtotal, shipping_fee, discount_amount, total_amount
		FROM orders
		WHERE customer_id = ?`
	args := []any{customerID}
	if len(statuses) > 0 {
		query += ` AND status IN (` + placeholders(len(statuses)) + `)`
		for _, s := range statuses {
			args = append(args, string(s))
		}
	}
	query += ` ORDER BY order_date DESC, id DESC`

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	index := map[int64]int{}
	for rows.Next() {
		var (
			o                       domain.Order
			status, method, payment string
			unit                    sql.NullInt64
			voucher                 sql.NullString
		)
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.OrderDate, &status, &o.Address, &method, &payment,
			&unit, &voucher, &o.Subtotal, &o.ShippingFee, &o.DiscountAmount, &o.TotalAmount); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Status = domain.OrderStatus(status)
		o.PaymentMethod = domain.PaymentMethod(method)
		o.PaymentStatus = domain.PaymentStatus(payment)
		o.ShippingUnitID = int(unit.Int64)
		o.VoucherCode = voucher.String
		o.Items = []domain.OrderItem{}

		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	itemRows, err := m.db.QueryContext(ctx, `
		SELECT oi.order_id, oi.product_id, oi.variant_id, p.name, oi.quantity, oi.price_at_purchase
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE o.customer_id = ?
		ORDER BY oi.order_id, oi.id`, customerID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var it domain.OrderItem
		if err := itemRows.Scan(&it.OrderID, &it.ProductID, &it.VariantID, &it.ProductName,
			&it.Quantity, &it.PriceAtPurchase); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if i, ok := index[it.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	return orders, itemRows.Err()
}

// Revenue groups orders placed in [from, to) by status.
func (m *MySQLAdapter) Revenue(ctx context.Context, from, to time.Time) ([]domain.RevenueRow, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE order_date >= ? AND order_date < ?
		GROUP BY status
		ORDER BY status`, from, to)
	if err != nil {
		return nil, fmt.Errorf("query revenue: %w", err)
	}
	defer rows.Close()

	out := []domain.RevenueRow{}
	for rows.Next() {
		var (
			r      domain.RevenueRow
			status string
		)
		if err := rows.Scan(&status, &r.OrderCount, &r.Revenue); err != nil {
			return nil, fmt.Errorf("scan revenue: %w", err)
		}
		r.Status = domain.OrderStatus(status)
		out = append(out, r)
	}
	return out, rows.Err()
}
