package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrUnknownRole = errors.New("unknown role")

type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleEmployee Role = "Employee"
	RoleCustomer Role = "Customer"
)

// ParseRole defaults an empty role to Customer.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RoleCustomer, nil
	}
	for _, r := range []Role{RoleAdmin, RoleEmployee, RoleCustomer} {
		if strings.EqualFold(s, string(r)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

type Capability string

const (
	CapShop             Capability = "shop"
	CapManageOrders     Capability = "orders.manage"
	CapManagePromotions Capability = "promotions.manage"
	CapManageCatalog    Capability = "catalog.manage"
	CapViewReports      Capability = "reports.view"
	CapManageEmployees  Capability = "employees.manage"
)

var roleCapabilities = map[Role][]Capability{
	RoleAdmin: {
		CapManageOrders, CapManagePromotions, CapManageCatalog,
		CapViewReports, CapManageEmployees,
	},
	RoleEmployee: {
		CapManageOrders, CapManageCatalog, CapViewReports,
	},
	RoleCustomer: {
		CapShop,
	},
}

func (r Role) Capabilities() []Capability {
	caps := roleCapabilities[r]
	out := make([]Capability, len(caps))
	copy(out, caps)
	return out
}

func (r Role) Can(c Capability) bool {
	for _, have := range roleCapabilities[r] {
		if have == c {
			return true
		}
	}
	return false
}

// UIRole is the coarse role the storefront uses to pick a layout.
func (r Role) UIRole() string {
	switch r {
	case RoleAdmin, RoleEmployee:
		return "seller"
	default:
		return "customer"
	}
}

type Account struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	DOB          *time.Time `json:"dob,omitempty"`
	Role         Role       `json:"role"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
}

type Customer struct {
	AccountID  int64           `json:"customerId"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
	MemberTier Tier            `json:"memberTier"`
}
