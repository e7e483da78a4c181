package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
	"github.com/uniqlo-mini/storefront/internal/port"
)

var fixedNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// Mock OrderRepository. PlaceOrder follows the storage contract: it prices
// the cart snapshot, credits the customer and empties the cart.
type mockOrderRepo struct {
	mu        sync.Mutex
	carts     map[int64][]domain.OrderItem
	customers map[int64]*domain.Customer
	nextID    int64
	placeErr  error
	placed    []port.PlaceOrderParams

	change        domain.StatusChange
	transitionErr error
	transitions   []port.TransitionParams
	shipment      *domain.Shipment
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{
		carts:     make(map[int64][]domain.OrderItem),
		customers: make(map[int64]*domain.Customer),
	}
}

func (m *mockOrderRepo) PlaceOrder(ctx context.Context, p port.PlaceOrderParams) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.placed = append(m.placed, p)
	if m.placeErr != nil {
		return domain.Order{}, m.placeErr
	}

	items := m.carts[p.CustomerID]
	if len(items) == 0 {
		return domain.Order{}, domain.ErrEmptyCart
	}
	customer, ok := m.customers[p.CustomerID]
	if !ok {
		return domain.Order{}, fmt.Errorf("customer %d: %w", p.CustomerID, port.ErrNotFound)
	}

	totals := domain.ComputeTotals(items, p.Policy, p.Voucher)
	customer.TotalSpent = customer.TotalSpent.Add(totals.Subtotal)
	customer.MemberTier = domain.TierOf(customer.TotalSpent)

	m.nextID++
	order := domain.Order{
		ID:             m.nextID,
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
		Items:          items,
		MemberTier:     customer.MemberTier,
	}
	if p.Voucher != nil {
		order.VoucherCode = p.Voucher.VoucherCode
	}
	delete(m.carts, p.CustomerID)
	return order, nil
}

func (m *mockOrderRepo) TransitionOrder(ctx context.Context, p port.TransitionParams) (domain.StatusChange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.transitions = append(m.transitions, p)
	if m.transitionErr != nil {
		return domain.StatusChange{}, m.transitionErr
	}
	change := m.change
	change.OrderID = p.OrderID
	change.To = p.To
	return change, nil
}

func (m *mockOrderRepo) GetShipment(ctx context.Context, orderID int64) (*domain.Shipment, error) {
	if m.shipment == nil || m.shipment.OrderID != orderID {
		return nil, port.ErrNotFound
	}
	return m.shipment, nil
}

// Mock AccountRepository
type mockAccountRepo struct {
	mu        sync.Mutex
	accounts  map[int64]*domain.Account
	customers map[int64]*domain.Customer
	nextID    int64
	getErr    error
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{
		accounts:  make(map[int64]*domain.Account),
		customers: make(map[int64]*domain.Customer),
	}
}

func (m *mockAccountRepo) CreateAccount(ctx context.Context, a domain.Account) (domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.accounts {
		if existing.Username == a.Username || existing.Email == a.Email {
			return domain.Account{}, fmt.Errorf("%w: accounts", port.ErrDuplicate)
		}
	}
	m.nextID++
	a.ID = m.nextID
	m.accounts[a.ID] = &a
	if a.Role == domain.RoleCustomer {
		m.customers[a.ID] = &domain.Customer{AccountID: a.ID, TotalSpent: decimal.Zero, MemberTier: domain.TierNewMember}
	}
	return a, nil
}

func (m *mockAccountRepo) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}
	a, ok := m.accounts[id]
	if !ok {
		return nil, port.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockAccountRepo) GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.accounts {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, port.ErrNotFound
}

func (m *mockAccountRepo) GetCustomer(ctx context.Context, accountID int64) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.customers[accountID]
	if !ok {
		return nil, port.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// Mock CacheRepository
type mockCacheRepo struct {
	mu             sync.Mutex
	idempotencySet map[string]bool
	released       []string
	failures       map[string]int64
	locks          map[string]time.Duration
}

func newMockCacheRepo() *mockCacheRepo {
	return &mockCacheRepo{
		idempotencySet: make(map[string]bool),
		failures:       make(map[string]int64),
		locks:          make(map[string]time.Duration),
	}
}

func (m *mockCacheRepo) SetIdempotency(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.idempotencySet[key] {
		return false, nil
	}
	m.idempotencySet[key] = true
	return true, nil
}

func (m *mockCacheRepo) ReleaseIdempotency(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.idempotencySet, key)
	m.released = append(m.released, key)
	return nil
}

func (m *mockCacheRepo) RecordLoginFailure(ctx context.Context, username string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failures[username]++
	return m.failures[username], nil
}

func (m *mockCacheRepo) ClearLoginFailures(ctx context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.failures, username)
	return nil
}

func (m *mockCacheRepo) LockLogin(ctx context.Context, username string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.locks[username] = ttl
	return nil
}

func (m *mockCacheRepo) LoginLockRemaining(ctx context.Context, username string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.locks[username], nil
}

type variantKey struct{ product, variant int64 }

// Mock PromotionRepository
type mockPromotionRepo struct {
	mu        sync.Mutex
	promos    map[int64]*domain.Promotion
	discounts map[variantKey][]domain.Discount
	nextID    int64
	err       error
}

func newMockPromotionRepo() *mockPromotionRepo {
	return &mockPromotionRepo{
		promos:    make(map[int64]*domain.Promotion),
		discounts: make(map[variantKey][]domain.Discount),
	}
}

func (m *mockPromotionRepo) add(p domain.Promotion) domain.Promotion {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	p.ID = m.nextID
	m.promos[p.ID] = &p
	return p
}

func (m *mockPromotionRepo) ListPromotions(ctx context.Context) ([]domain.Promotion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []domain.Promotion{}
	for _, p := range m.promos {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockPromotionRepo) GetPromotion(ctx context.Context, id int64) (*domain.Promotion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.promos[id]
	if !ok {
		return nil, port.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPromotionRepo) GetPromotionByVoucher(ctx context.Context, code string) (*domain.Promotion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.promos {
		if p.VoucherCode == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, port.ErrNotFound
}

func (m *mockPromotionRepo) CreatePromotion(ctx context.Context, p domain.Promotion) (domain.Promotion, error) {
	if p.VoucherCode != "" {
		if _, err := m.GetPromotionByVoucher(ctx, p.VoucherCode); err == nil {
			return domain.Promotion{}, fmt.Errorf("%w: voucher", port.ErrDuplicate)
		}
	}
	return m.add(p), nil
}

func (m *mockPromotionRepo) UpdatePromotion(ctx context.Context, p domain.Promotion) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.promos[p.ID]; !ok {
		return port.ErrNotFound
	}
	m.promos[p.ID] = &p
	return nil
}

func (m *mockPromotionRepo) DeletePromotion(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.promos[id]; !ok {
		return port.ErrNotFound
	}
	delete(m.promos, id)
	return nil
}

func (m *mockPromotionRepo) ActiveDiscounts(ctx context.Context, productID, variantID int64, now time.Time) ([]domain.Discount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	return m.discounts[variantKey{productID, variantID}], nil
}

// Mock CatalogRepository
type mockCatalogRepo struct {
	products  map[int64]domain.Product
	nextID    int64
	deleteErr error
}

func newMockCatalogRepo(products ...domain.Product) *mockCatalogRepo {
	m := &mockCatalogRepo{products: make(map[int64]domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
		if p.ID > m.nextID {
			m.nextID = p.ID
		}
	}
	return m
}

func (m *mockCatalogRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(m.products))
	for id := int64(1); id <= m.nextID; id++ {
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockCatalogRepo) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, port.ErrNotFound
	}
	return &p, nil
}

func (m *mockCatalogRepo) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	m.nextID++
	p.ID = m.nextID
	m.products[p.ID] = p
	return p, nil
}

func (m *mockCatalogRepo) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if _, ok := m.products[p.ID]; !ok {
		return domain.Product{}, port.ErrNotFound
	}
	m.products[p.ID] = p
	return p, nil
}

func (m *mockCatalogRepo) DeleteProduct(ctx context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.products[id]; !ok {
		return port.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockCatalogRepo) VariantPrice(ctx context.Context, productID, variantID int64) (decimal.Decimal, error) {
	p, ok := m.products[productID]
	if !ok {
		return decimal.Zero, port.ErrNotFound
	}
	for _, v := range p.Variants {
		if v.ID == variantID {
			return v.Price, nil
		}
	}
	return decimal.Zero, port.ErrNotFound
}

// Mock CartRepository
type mockCartRepo struct {
	lines       map[int64][]domain.CartLine
	removeCalls int
	setCalls    int
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{lines: make(map[int64][]domain.CartLine)}
}

func (m *mockCartRepo) AddItem(ctx context.Context, customerID int64, item domain.CartItem) error {
	lines := m.lines[customerID]
	for i := range lines {
		if lines[i].ProductID == item.ProductID && lines[i].VariantID == item.VariantID {
			lines[i].Quantity += item.Quantity
			return nil
		}
	}
	m.lines[customerID] = append(lines, domain.CartLine{
		ProductID: item.ProductID, VariantID: item.VariantID, Quantity: item.Quantity,
	})
	return nil
}

func (m *mockCartRepo) SetItemQuantity(ctx context.Context, customerID int64, item domain.CartItem) error {
	m.setCalls++
	lines := m.lines[customerID]
	for i := range lines {
		if lines[i].ProductID == item.ProductID && lines[i].VariantID == item.VariantID {
			lines[i].Quantity = item.Quantity
			return nil
		}
	}
	return m.AddItem(ctx, customerID, item)
}

func (m *mockCartRepo) RemoveItem(ctx context.Context, customerID, productID, variantID int64) error {
	m.removeCalls++
	lines := m.lines[customerID]
	for i := range lines {
		if lines[i].ProductID == productID && lines[i].VariantID == variantID {
			m.lines[customerID] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockCartRepo) ListLines(ctx context.Context, customerID int64) ([]domain.CartLine, error) {
	out := make([]domain.CartLine, len(m.lines[customerID]))
	copy(out, m.lines[customerID])
	return out, nil
}

// Mock ReportRepository
type mockReportRepo struct {
	orders   []domain.Order
	statuses []domain.OrderStatus
	rows     []domain.RevenueRow
	from, to time.Time
}

func (m *mockReportRepo) CustomerOrders(ctx context.Context, customerID int64, statuses []domain.OrderStatus) ([]domain.Order, error) {
	m.statuses = statuses
	return m.orders, nil
}

func (m *mockReportRepo) Revenue(ctx context.Context, from, to time.Time) ([]domain.RevenueRow, error) {
	m.from, m.to = from, to
	return m.rows, nil
}

// Mock AuditLogger
type mockAudit struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (m *mockAudit) Record(ctx context.Context, e domain.AuditEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
}

func (m *mockAudit) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Mock Notifier
type mockNotifier struct {
	mu      sync.Mutex
	placed  []domain.Order
	changes []domain.StatusChange
}

func (m *mockNotifier) OrderPlaced(ctx context.Context, a domain.Account, o domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.placed = append(m.placed, o)
}

func (m *mockNotifier) OrderStatusChanged(ctx context.Context, a domain.Account, c domain.StatusChange) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changes = append(m.changes, c)
}

// Mock TokenIssuer
type mockTokens struct{}

func (mockTokens) Issue(a domain.Account) (string, error) {
	return fmt.Sprintf("token-%d", a.ID), nil
}
