package storage

import (
	"context"
	"fmt"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
)

// ensureCart returns the customer's cart id, creating the cart on first use.
// LAST_INSERT_ID(id) makes the duplicate branch report the existing id.
func ensureCart(ctx context.Context, q queryer, customerID int64) (int64, error) {
	result, err := q.ExecContext(ctx, `
		INSERT INTO carts (customer_id) VALUES (?)
		ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)`, customerID)
	if err != nil {
		return 0, fmt.Errorf("ensure cart: %w", classify(err))
	}
	return result.LastInsertId()
}

func (m *MySQLAdapter) AddItem(ctx context.Context, customerID int64, item domain.CartItem) error {
	cartID, err := ensureCart(ctx, m.db, customerID)
	if err != nil {
		return err
	}

	_, err = m.db.ExecContext(ctx, `
		INSERT INTO cart_items (cart_id, product_id, variant_id, quantity)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE quantity = quantity + ?`,
		cartID, item.ProductID, item.VariantID, item.Quantity, item.Quantity,
	)
	if err != nil {
		return fmt.Errorf("add cart item: %w", classify(err))
	}
	return nil
}

func (m *MySQLAdapter) SetItemQuantity(ctx context.Context, customerID int64, item domain.CartItem) error {
	if item.Quantity <= 0 {
		return m.RemoveItem(ctx, customerID, item.ProductID, item.VariantID)
	}

	cartID, err := ensureCart(ctx, m.db, customerID)
	if err != nil {
		return err
	}

	_, err = m.db.ExecContext(ctx, `
		INSERT INTO cart_items (cart_id, product_id, variant_id, quantity)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE quantity = ?`,
		cartID, item.ProductID, item.VariantID, item.Quantity, item.Quantity,
	)
	if err != nil {
		return fmt.Errorf("set cart item: %w", classify(err))
	}
	return nil
}

func (m *MySQLAdapter) RemoveItem(ctx context.Context, customerID, productID, variantID int64) error {
	_, err := m.db.ExecContext(ctx, `
		DELETE ci FROM cart_items ci
		JOIN carts c ON c.id = ci.cart_id
		WHERE c.customer_id = ? AND ci.product_id = ? AND ci.variant_id = ?`,
		customerID, productID, variantID,
	)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) ListLines(ctx context.Context, customerID int64) ([]domain.CartLine, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT ci.product_id, ci.variant_id, p.name, pv.color, pv.size, ci.quantity, pv.stock, pv.price
		FROM carts c
		JOIN cart_items ci ON ci.cart_id = c.id
		JOIN product_variants pv ON pv.id = ci.variant_id
		JOIN products p ON p.id = ci.product_id
		WHERE c.customer_id = ?
		ORDER BY p.name, pv.id`, customerID)
	if err != nil {
		return nil, fmt.Errorf("query cart lines: %w", err)
	}
	defer rows.Close()

	lines := []domain.CartLine{}
	for rows.Next() {
		var l domain.CartLine
		if err := rows.Scan(&l.ProductID, &l.VariantID, &l.ProductName, &l.Color, &l.Size,
			&l.Quantity, &l.Stock, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		l.FinalPrice = l.UnitPrice
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
