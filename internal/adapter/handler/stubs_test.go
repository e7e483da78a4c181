package handler

import (
	"context"
	"time"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
	"github.com/uniqlo-mini/storefront/internal/core/service"
)

type stubCheckout struct {
	last  service.CheckoutRequest
	order domain.Order
	err   error
}

func (s *stubCheckout) Checkout(ctx context.Context, req service.CheckoutRequest) (domain.Order, error) {
	s.last = req
	return s.order, s.err
}

type stubCart struct {
	lines   []domain.CartLine
	lastQty int
	err     error
}

func (s *stubCart) Lines(ctx context.Context, customerID int64) ([]domain.CartLine, error) {
	return s.lines, s.err
}

func (s *stubCart) Add(ctx context.Context, customerID int64, item domain.CartItem) error {
	s.lastQty = item.Quantity
	return s.err
}

func (s *stubCart) SetQuantity(ctx context.Context, customerID int64, item domain.CartItem) error {
	s.lastQty = item.Quantity
	return s.err
}

func (s *stubCart) Remove(ctx context.Context, customerID, productID, variantID int64) error {
	return s.err
}

type stubFulfillment struct {
	lastActor  int64
	lastStatus string
	change     domain.StatusChange
	shipment   *domain.Shipment
	err        error
}

func (s *stubFulfillment) UpdateOrderStatus(ctx context.Context, orderID int64, status string, actorID int64) (domain.StatusChange, error) {
	s.lastActor = actorID
	s.lastStatus = status
	if s.err != nil {
		return domain.StatusChange{}, s.err
	}
	change := s.change
	change.OrderID = orderID
	return change, nil
}

func (s *stubFulfillment) Shipment(ctx context.Context, orderID int64) (*domain.Shipment, error) {
	return s.shipment, s.err
}

type stubAuth struct {
	lastRegister service.RegisterRequest
	account      domain.Account
	token        string
	err          error
}

func (s *stubAuth) Register(ctx context.Context, req service.RegisterRequest) (domain.Account, error) {
	s.lastRegister = req
	if s.err != nil {
		return domain.Account{}, s.err
	}
	return domain.Account{ID: 5, Username: req.Username, Email: req.Email, Role: domain.Role(req.Role), DOB: req.DOB}, nil
}

func (s *stubAuth) Login(ctx context.Context, username, password string) (domain.Account, string, error) {
	return s.account, s.token, s.err
}

type stubCatalog struct {
	products []domain.Product
	err      error
}

func (s *stubCatalog) List(ctx context.Context) ([]domain.Product, error) { return s.products, s.err }

func (s *stubCatalog) Get(ctx context.Context, id int64) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &s.products[0], nil
}

func (s *stubCatalog) Create(ctx context.Context, actorID int64, p domain.Product) (domain.Product, error) {
	p.ID = 9
	return p, s.err
}

func (s *stubCatalog) Update(ctx context.Context, actorID int64, p domain.Product) (domain.Product, error) {
	return p, s.err
}

func (s *stubCatalog) Delete(ctx context.Context, actorID, id int64) error { return s.err }

type stubPromotions struct {
	last domain.Promotion
	err  error
}

func (s *stubPromotions) List(ctx context.Context) ([]domain.Promotion, error) { return nil, s.err }

func (s *stubPromotions) Create(ctx context.Context, actorID int64, p domain.Promotion) (domain.Promotion, error) {
	s.last = p
	p.ID = 3
	return p, s.err
}

func (s *stubPromotions) Update(ctx context.Context, actorID int64, p domain.Promotion) error {
	s.last = p
	return s.err
}

func (s *stubPromotions) Delete(ctx context.Context, actorID, id int64) error { return s.err }

func (s *stubPromotions) Validate(ctx context.Context, code string) (domain.Promotion, error) {
	return domain.Promotion{VoucherCode: code}, s.err
}

type stubReports struct {
	from, to time.Time
	progress domain.TierProgress
	err      error
}

func (s *stubReports) CustomerOrders(ctx context.Context, customerID int64, statusList string) ([]domain.Order, error) {
	return []domain.Order{}, s.err
}

func (s *stubReports) Revenue(ctx context.Context, from, to time.Time) ([]domain.RevenueRow, error) {
	s.from, s.to = from, to
	return []domain.RevenueRow{}, s.err
}

func (s *stubReports) CustomerTier(ctx context.Context, customerID int64) (domain.TierProgress, error) {
	return s.progress, s.err
}
