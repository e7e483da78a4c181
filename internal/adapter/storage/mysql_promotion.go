package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
	"github.com/uniqlo-mini/storefront/internal/port"
)

const promotionColumns = `id, name, description, discount_type, discount_value, voucher_code, start_date, end_date`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPromotion(row rowScanner) (domain.Promotion, error) {
	var (
		p       domain.Promotion
		desc    sql.NullString
		kind    string
		voucher sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Name, &desc, &kind, &p.DiscountValue, &voucher, &p.StartDate, &p.EndDate); err != nil {
		return domain.Promotion{}, err
	}
	p.Description = desc.String
	p.DiscountType = domain.RuleType(kind)
	p.VoucherCode = voucher.String
	p.Targets = []domain.PromotionTarget{}
	return p, nil
}

func (m *MySQLAdapter) ListPromotions(ctx context.Context) ([]domain.Promotion, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT `+promotionColumns+` FROM promotions ORDER BY start_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query promotions: %w", err)
	}
	defer rows.Close()

	promos := []domain.Promotion{}
	index := map[int64]int{}
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		index[p.ID] = len(promos)
		promos = append(promos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(promos) == 0 {
		return promos, nil
	}

	targets, err := m.promotionTargets(ctx, 0)
	if err != nil {
		return nil, err
	}
	for id, ts := range targets {
		if i, ok := index[id]; ok {
			promos[i].Targets = ts
		}
	}
	return promos, nil
}

func (m *MySQLAdapter) GetPromotion(ctx context.Context, id int64) (*domain.Promotion, error) {
	return m.getPromotion(ctx, `SELECT `+promotionColumns+` FROM promotions WHERE id = ?`, id)
}

func (m *MySQLAdapter) GetPromotionByVoucher(ctx context.Context, code string) (*domain.Promotion, error) {
	return m.getPromotion(ctx, `SELECT `+promotionColumns+` FROM promotions WHERE voucher_code = ?`, code)
}

func (m *MySQLAdapter) getPromotion(ctx context.Context, query string, arg any) (*domain.Promotion, error) {
	p, err := scanPromotion(m.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query promotion: %w", err)
	}

	targets, err := m.promotionTargets(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if ts, ok := targets[p.ID]; ok {
		p.Targets = ts
	}
	return &p, nil
}

// promotionTargets loads rule rows grouped by promotion. promotionID 0
// loads all of them.
func (m *MySQLAdapter) promotionTargets(ctx context.Context, promotionID int64) (map[int64][]domain.PromotionTarget, error) {
	query := `SELECT promotion_id, product_id, variant_id FROM promotion_rules`
	var args []any
	if promotionID > 0 {
		query += ` WHERE promotion_id = ?`
		args = append(args, promotionID)
	}
	query += ` ORDER BY id`

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query promotion rules: %w", err)
	}
	defer rows.Close()

	out := map[int64][]domain.PromotionTarget{}
	for rows.Next() {
		var (
			promoID int64
			t       domain.PromotionTarget
			variant sql.NullInt64
		)
		if err := rows.Scan(&promoID, &t.ProductID, &variant); err != nil {
			return nil, fmt.Errorf("scan promotion rule: %w", err)
		}
		if variant.Valid {
			v := variant.Int64
			t.VariantID = &v
		}
		out[promoID] = append(out[promoID], t)
	}
	return out, rows.Err()
}

func (m *MySQLAdapter) CreatePromotion(ctx context.Context, p domain.Promotion) (domain.Promotion, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Promotion{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO promotions (name, description, discount_type, discount_value, voucher_code, start_date, end_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Description, p.DiscountType, p.DiscountValue, nullString(p.VoucherCode), p.StartDate, p.EndDate,
	)
	if err != nil {
		return domain.Promotion{}, fmt.Errorf("insert promotion: %w", classify(err))
	}
	if p.ID, err = result.LastInsertId(); err != nil {
		return domain.Promotion{}, fmt.Errorf("promotion id: %w", err)
	}

	if err := insertTargets(ctx, tx, p.ID, p.Targets); err != nil {
		return domain.Promotion{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Promotion{}, fmt.Errorf("commit: %w", err)
	}
	if p.Targets == nil {
		p.Targets = []domain.PromotionTarget{}
	}
	return p, nil
}

// UpdatePromotion rewrites the promotion and replaces its targets.
func (m *MySQLAdapter) UpdatePromotion(ctx context.Context, p domain.Promotion) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM promotions WHERE id = ? FOR UPDATE`, p.ID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("promotion %d: %w", p.ID, port.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lock promotion: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE promotions
		SET name = ?, description = ?, discount_type = ?, discount_value = ?, voucher_code = ?, start_date = ?, end_date = ?
		WHERE id = ?`,
		p.Name, p.Description, p.DiscountType, p.DiscountValue, nullString(p.VoucherCode), p.StartDate, p.EndDate, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update promotion: %w", classify(err))
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM promotion_rules WHERE promotion_id = ?`, p.ID); err != nil {
		return fmt.Errorf("clear promotion rules: %w", err)
	}
	if err := insertTargets(ctx, tx, p.ID, p.Targets); err != nil {
		return err
	}
	return tx.Commit()
}

func insertTargets(ctx context.Context, tx *sql.Tx, promotionID int64, targets []domain.PromotionTarget) error {
	for _, t := range targets {
		var variant sql.NullInt64
		if t.VariantID != nil {
			variant = sql.NullInt64{Int64: *t.VariantID, Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO promotion_rules (promotion_id, product_id, variant_id) VALUES (?, ?, ?)`,
			promotionID, t.ProductID, variant,
		)
		if err != nil {
			return fmt.Errorf("insert promotion rule: %w", classify(err))
		}
	}
	return nil
}

func (m *MySQLAdapter) DeletePromotion(ctx context.Context, id int64) error {
	result, err := m.db.ExecContext(ctx, `DELETE FROM promotions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete promotion: %w", classify(err))
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("promotion %d: %w", id, port.ErrNotFound)
	}
	return nil
}

// ActiveDiscounts only considers promotions without a voucher code; vouchers
// are applied at checkout.
func (m *MySQLAdapter) ActiveDiscounts(ctx context.Context, productID, variantID int64, now time.Time) ([]domain.Discount, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT DISTINCT p.id, p.discount_type, p.discount_value
		FROM promotions p
		JOIN promotion_rules r ON r.promotion_id = p.id
		WHERE p.voucher_code IS NULL
		  AND p.start_date <= ? AND p.end_date >= ?
		  AND r.product_id = ?
		  AND (r.variant_id IS NULL OR r.variant_id = ?)
		ORDER BY p.id`,
		now, now, productID, variantID,
	)
	if err != nil {
		return nil, fmt.Errorf("query discounts: %w", err)
	}
	defer rows.Close()

	var discounts []domain.Discount
	for rows.Next() {
		var (
			d    domain.Discount
			kind string
		)
		if err := rows.Scan(&d.PromotionID, &kind, &d.Value); err != nil {
			return nil, fmt.Errorf("scan discount: %w", err)
		}
		d.Type = domain.RuleType(kind)
		discounts = append(discounts, d)
	}
	return discounts, rows.Err()
}
