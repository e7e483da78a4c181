package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
	"github.com/uniqlo-mini/storefront/internal/port"
)

// PlaceOrder locks the cart, reserves stock, writes the order with its item
// snapshot, credits the customer's spend and empties the cart. Any failure
// rolls the whole thing back.
func (m *MySQLAdapter) PlaceOrder(ctx context.Context, p port.PlaceOrderParams) (domain.Order, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var cartID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM carts WHERE customer_id = ? FOR UPDATE`, p.CustomerID).Scan(&cartID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrEmptyCart
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("lock cart: %w", err)
	}

	items, err := cartSnapshot(ctx, tx, cartID)
	if err != nil {
		return domain.Order{}, err
	}
	if len(items) == 0 {
		return domain.Order{}, domain.ErrEmptyCart
	}

	for _, it := range items {
		result, err := tx.ExecContext(ctx, `
			UPDATE product_variants
			SET stock = stock - ?
			WHERE id = ? AND stock >= ?`,
			it.Quantity, it.VariantID, it.Quantity,
		)
		if err != nil {
			return domain.Order{}, fmt.Errorf("reserve stock: %w", err)
		}

		rows, _ := result.RowsAffected()
		if rows == 0 {
			return domain.Order{}, fmt.Errorf("%w: variant %d", domain.ErrInsufficientStock, it.VariantID)
		}
	}

	totals := domain.ComputeTotals(items, p.Policy, p.Voucher)
	order := domain.Order{
		CustomerID:     p.CustomerID,
		OrderDate:      p.Now,
		Status:         domain.OrderStatusPending,
		Address:        p.Address,
		PaymentMethod:  p.PaymentMethod,
		PaymentStatus:  domain.PaymentUnpaid,
		ShippingUnitID: p.ShippingUnitID,
		Subtotal:       totals.Subtotal,
		ShippingFee:    totals.ShippingFee,
		DiscountAmount: totals.Discount,
		TotalAmount:    totals.Total,
	}
	if p.Voucher != nil {
		order.VoucherCode = p.Voucher.VoucherCode
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO orders (customer_id, order_date, status, address, payment_method, payment_status,
			shipping_unit_id, voucher_code, subtotal, shipping_fee, discount_amount, total_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.CustomerID, order.OrderDate, order.Status, order.Address, order.PaymentMethod, order.PaymentStatus,
		nullInt(int64(order.ShippingUnitID)), nullString(order.VoucherCode),
		order.Subtotal, order.ShippingFee, order.DiscountAmount, order.TotalAmount,
	)
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert order: %w", classify(err))
	}
	order.ID, err = result.LastInsertId()
	if err != nil {
		return domain.Order{}, fmt.Errorf("order id: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := insertOrderItems(ctx, tx, items); err != nil {
		return domain.Order{}, err
	}
	order.Items = items

	order.MemberTier, err = creditCustomer(ctx, tx, p.CustomerID, totals.Subtotal)
	if err != nil {
		return domain.Order{}, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, cartID); err != nil {
		return domain.Order{}, fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Order{}, fmt.Errorf("commit: %w", err)
	}
	return order, nil
}

// cartSnapshot reads the cart lines at their current variant price. The
// variant rows stay locked until the transaction ends.
func cartSnapshot(ctx context.Context, tx *sql.Tx, cartID int64) ([]domain.OrderItem, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT ci.product_id, ci.variant_id, p.name, ci.quantity, pv.price
		FROM cart_items ci
		JOIN product_variants pv ON pv.id = ci.variant_id
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = ? AND ci.quantity > 0
		ORDER BY ci.product_id, ci.variant_id
		FOR UPDATE`, cartID)
	if err != nil {
		return nil, fmt.Errorf("query cart: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ProductID, &it.VariantID, &it.ProductName, &it.Quantity, &it.PriceAtPurchase); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func insertOrderItems(ctx context.Context, tx *sql.Tx, items []domain.OrderItem) error {
	values := make([]string, 0, len(items))
	args := make([]any, 0, len(items)*5)
	for _, it := range items {
		values = append(values, "(?, ?, ?, ?, ?)")
		args = append(args, it.OrderID, it.ProductID, it.VariantID, it.Quantity, it.PriceAtPurchase)
	}

	query := `INSERT INTO order_items (order_id, product_id, variant_id, quantity, price_at_purchase) VALUES ` +
		strings.Join(values, ", ")
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert order items: %w", classify(err))
	}
	return nil
}

// creditCustomer adds amount to the customer's spend and stores the tier the
// new total falls into.
func creditCustomer(ctx context.Context, tx *sql.Tx, customerID int64, amount decimal.Decimal) (domain.Tier, error) {
	result, err := tx.ExecContext(ctx, `
		UPDATE customers SET total_spent = total_spent + ? WHERE account_id = ?`,
		amount, customerID,
	)
	if err != nil {
		return "", fmt.Errorf("credit customer: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return "", fmt.Errorf("customer %d: %w", customerID, port.ErrNotFound)
	}

	var total decimal.Decimal
	err = tx.QueryRowContext(ctx, `SELECT total_spent FROM customers WHERE account_id = ?`, customerID).Scan(&total)
	if err != nil {
		return "", fmt.Errorf("read total spent: %w", err)
	}

	tier := domain.TierOf(total)
	if _, err := tx.ExecContext(ctx, `UPDATE customers SET member_tier = ? WHERE account_id = ?`, tier, customerID); err != nil {
		return "", fmt.Errorf("update tier: %w", err)
	}
	return tier, nil
}

func nullInt(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v > 0}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
