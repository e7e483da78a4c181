package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
	"github.com/uniqlo-mini/storefront/internal/port"
)

const accountColumns = `id, username, email, phone, dob, role, password_hash, created_at`

func (m *MySQLAdapter) CreateAccount(ctx context.Context, a domain.Account) (domain.Account, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Account{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var dob sql.NullTime
	if a.DOB != nil {
		dob = sql.NullTime{Time: *a.DOB, Valid: true}
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO accounts (username, email, phone, dob, role, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.Username, a.Email, a.Phone, dob, a.Role, a.PasswordHash, a.CreatedAt,
	)
	if err != nil {
		return domain.Account{}, fmt.Errorf("insert account: %w", classify(err))
	}
	if a.ID, err = result.LastInsertId(); err != nil {
		return domain.Account{}, fmt.Errorf("account id: %w", err)
	}

	if a.Role == domain.RoleCustomer {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO customers (account_id, total_spent, member_tier) VALUES (?, ?, ?)`,
			a.ID, decimal.Zero, domain.TierNewMember,
		)
		if err != nil {
			return domain.Account{}, fmt.Errorf("insert customer: %w", classify(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.Account{}, fmt.Errorf("commit: %w", err)
	}
	return a, nil
}

func (m *MySQLAdapter) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	return scanAccount(m.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
}

func (m *MySQLAdapter) GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return scanAccount(m.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE username = ?`, username))
}

func scanAccount(row *sql.Row) (*domain.Account, error) {
	var (
		a    domain.Account
		dob  sql.NullTime
		role string
	)
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.Phone, &dob, &role, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query account: %w", err)
	}

	a.Role = domain.Role(role)
	if dob.Valid {
		a.DOB = &dob.Time
	}
	return &a, nil
}

func (m *MySQLAdapter) GetCustomer(ctx context.Context, accountID int64) (*domain.Customer, error) {
	var (
		c    domain.Customer
		tier string
	)
	err := m.db.QueryRowContext(ctx, `
		SELECT account_id, total_spent, member_tier FROM customers WHERE account_id = ?`, accountID,
	).Scan(&c.AccountID, &c.TotalSpent, &tier)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query customer: %w", err)
	}

	c.MemberTier = domain.Tier(tier)
	return &c, nil
}
