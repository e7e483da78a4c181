package notify

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
)

type recordingSender struct {
	mu     sync.Mutex
	emails []Email
	err    error
	block  chan struct{}
}

func (s *recordingSender) Send(_ context.Context, email Email) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emails = append(s.emails, email)
	return s.err
}

func (s *recordingSender) sent() []Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Email(nil), s.emails...)
}

var alice = domain.Account{ID: 7, Username: "alice", Email: "alice@example.com"}

func TestDispatcher_OrderPlaced(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, 2, 10)

	d.OrderPlaced(context.Background(), alice, domain.Order{
		ID: 42,
		Items: []domain.OrderItem{
			{ProductName: "AIRism Tee", Quantity: 2, PriceAtPurchase: decimal.NewFromInt(300000)},
		},
		Subtotal:       decimal.NewFromInt(600000),
		ShippingFee:    decimal.Zero,
		DiscountAmount: decimal.Zero,
		TotalAmount:    decimal.NewFromInt(600000),
		MemberTier:     domain.TierBronze,
	})
	d.Close()

	emails := sender.sent()
	require.Len(t, emails, 1)
	assert.Equal(t, "alice@example.com", emails[0].To)
	assert.Equal(t, "Order #42 confirmed", emails[0].Subject)
	assert.Contains(t, emails[0].Body, "AIRism Tee x2  600000")
	assert.Contains(t, emails[0].Body, "Total: 600000")
	assert.Contains(t, emails[0].Body, "Bronze")
}

func TestDispatcher_StatusChangedIncludesTracking(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, 1, 10)

	d.OrderStatusChanged(context.Background(), alice, domain.StatusChange{
		OrderID:  42,
		From:     domain.OrderStatusProcessing,
		To:       domain.OrderStatusShipping,
		Shipment: &domain.Shipment{TrackingCode: "VTP-123456"},
	})
	d.Close()

	emails := sender.sent()
	require.Len(t, emails, 1)
	assert.Equal(t, "Order #42: Shipping", emails[0].Subject)
	assert.Contains(t, emails[0].Body, "VTP-123456")
}

func TestDispatcher_SkipsAccountsWithoutEmail(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, 1, 10)

	d.OrderPlaced(context.Background(), domain.Account{ID: 1, Username: "bob"}, domain.Order{ID: 1})
	d.Close()

	assert.Empty(t, sender.sent())
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	sender := &recordingSender{block: make(chan struct{})}
	d := NewDispatcher(sender, 1, 1)

	// One email is held by the blocked worker, one fits the queue, the rest drop.
	for i := 0; i < 5; i++ {
		d.OrderPlaced(context.Background(), alice, domain.Order{ID: int64(i)})
	}
	close(sender.block)
	d.Close()

	emails := sender.sent()
	assert.GreaterOrEqual(t, len(emails), 1)
	assert.LessOrEqual(t, len(emails), 2)
}

func TestDispatcher_SendErrorsAreSwallowed(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	d := NewDispatcher(sender, 1, 10)

	d.OrderPlaced(context.Background(), alice, domain.Order{ID: 1})
	d.OrderPlaced(context.Background(), alice, domain.Order{ID: 2})
	d.Close()

	assert.Len(t, sender.sent(), 2)
}

func TestDispatcher_CloseTwice(t *testing.T) {
	d := NewDispatcher(LogSender{}, 1, 1)
	d.Close()
	assert.NotPanics(t, d.Close)
}

func TestBuildMsg(t *testing.T) {
	msg, err := buildMsg("shop@example.com", Email{To: "alice@example.com", Subject: "Order #1 confirmed", Body: "hello"})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Subject: Order #1 confirmed")
	assert.Contains(t, buf.String(), "alice@example.com")
}

func TestBuildMsg_InvalidAddress(t *testing.T) {
	_, err := buildMsg("shop@example.com", Email{To: "not an address", Subject: "x"})
	assert.Error(t, err)
}
