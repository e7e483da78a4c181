package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
	"github.com/uniqlo-mini/storefront/internal/port"
)

const shipmentColumns = `id, order_id, unit_id, tracking_code, status, shipped_date, delivery_date`

// TransitionOrder moves an order to params.To. Entering Shipping creates the
// shipment once; entering Delivered stamps the existing shipment, if any;
// entering Cancelled returns the reserved stock. Rewriting the current
// status has no side effects.
func (m *MySQLAdapter) TransitionOrder(ctx context.Context, p port.TransitionParams) (domain.StatusChange, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.StatusChange{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var (
		current string
		unit    sql.NullInt64
		change  = domain.StatusChange{OrderID: p.OrderID, To: p.To}
	)
	err = tx.QueryRowContext(ctx, `
		SELECT customer_id, status, shipping_unit_id FROM orders WHERE id = ? FOR UPDATE`, p.OrderID,
	).Scan(&change.CustomerID, &current, &unit)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StatusChange{}, fmt.Errorf("order %d: %w", p.OrderID, port.ErrNotFound)
	}
	if err != nil {
		return domain.StatusChange{}, fmt.Errorf("lock order: %w", err)
	}
	change.From = domain.OrderStatus(current)

	if err := domain.CheckTransition(change.From, p.To); err != nil {
		return domain.StatusChange{}, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, p.To, p.OrderID); err != nil {
		return domain.StatusChange{}, fmt.Errorf("update status: %w", err)
	}

	shipment, err := scanShipment(tx.QueryRowContext(ctx,
		`SELECT `+shipmentColumns+` FROM shipments WHERE order_id = ? FOR UPDATE`, p.OrderID))
	if err != nil && !errors.Is(err, port.ErrNotFound) {
		return domain.StatusChange{}, err
	}

	entering := change.From != p.To
	switch {
	case p.To == domain.OrderStatusShipping && entering:
		if shipment == nil {
			shipment = &domain.Shipment{
				OrderID:      p.OrderID,
				UnitID:       int(unit.Int64),
				TrackingCode: domain.TrackingCode(int(unit.Int64), p.NewSerial()),
				Status:       domain.ShipmentShipping,
				ShippedDate:  p.Now,
			}
			result, err := tx.ExecContext(ctx, `
				INSERT INTO shipments (order_id, unit_id, tracking_code, status, shipped_date)
				VALUES (?, ?, ?, ?, ?)`,
				shipment.OrderID, shipment.UnitID, shipment.TrackingCode, shipment.Status, shipment.ShippedDate,
			)
			if err != nil {
				return domain.StatusChange{}, fmt.Errorf("insert shipment: %w", classify(err))
			}
			if shipment.ID, err = result.LastInsertId(); err != nil {
				return domain.StatusChange{}, fmt.Errorf("shipment id: %w", err)
			}
			change.ShipmentCreated = true
		}

	case p.To == domain.OrderStatusDelivered && entering:
		if shipment != nil {
			delivered := p.Now
			_, err := tx.ExecContext(ctx, `
				UPDATE shipments SET status = ?, delivery_date = ? WHERE id = ?`,
				domain.ShipmentDelivered, delivered, shipment.ID,
			)
			if err != nil {
				return domain.StatusChange{}, fmt.Errorf("deliver shipment: %w", err)
			}
			shipment.Status = domain.ShipmentDelivered
			shipment.DeliveryDate = &delivered
		}

	case p.To == domain.OrderStatusCancelled && entering:
		_, err := tx.ExecContext(ctx, `
			UPDATE product_variants pv JOIN order_items oi ON oi.variant_id = pv.id
			SET pv.stock = pv.stock + oi.quantity WHERE oi.order_id = ?`, p.OrderID,
		)
		if err != nil {
			return domain.StatusChange{}, fmt.Errorf("restock: %w", err)
		}
	}
	change.Shipment = shipment

	if err := tx.Commit(); err != nil {
		return domain.StatusChange{}, fmt.Errorf("commit: %w", err)
	}
	return change, nil
}

func (m *MySQLAdapter) GetShipment(ctx context.Context, orderID int64) (*domain.Shipment, error) {
	return scanShipment(m.db.QueryRowContext(ctx,
		`SELECT `+shipmentColumns+` FROM shipments WHERE order_id = ?`, orderID))
}

func scanShipment(row *sql.Row) (*domain.Shipment, error) {
	var (
		s         domain.Shipment
		status    string
		delivered sql.NullTime
	)
	err := row.Scan(&s.ID, &s.OrderID, &s.UnitID, &s.TrackingCode, &status, &s.ShippedDate, &delivered)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query shipment: %w", err)
	}

	s.Status = domain.ShipmentStatus(status)
	if delivered.Valid {
		s.DeliveryDate = &delivered.Time
	}
	return &s, nil
}
