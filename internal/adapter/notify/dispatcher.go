package notify

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
)

const sendTimeout = 10 * time.Second

// Dispatcher queues customer emails and sends them from a fixed set of
// workers. A full queue drops the email.
type Dispatcher struct {
	sender Sender
	queue  chan Email
	wg     sync.WaitGroup
	once   sync.Once
}

func NewDispatcher(sender Sender, workers, queueSize int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	d := &Dispatcher{
		sender: sender,
		queue:  make(chan Email, queueSize),
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go func(id int) {
			defer d.wg.Done()
			d.workerLoop(id)
		}(i)
	}
	return d
}

func (d *Dispatcher) workerLoop(id int) {
	for email := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := d.sender.Send(ctx, email); err != nil {
			log.Printf("notify worker %d: failed to send %q to %s: %v", id, email.Subject, email.To, err)
		}
		cancel()
	}
}

// Close stops accepting emails and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}

func (d *Dispatcher) enqueue(email Email) {
	if email.To == "" {
		return
	}
	select {
	case d.queue <- email:
	default:
		log.Printf("notify queue full, dropped %q to %s", email.Subject, email.To)
	}
}

func (d *Dispatcher) OrderPlaced(_ context.Context, account domain.Account, order domain.Order) {
	d.enqueue(orderPlacedEmail(account, order))
}

func (d *Dispatcher) OrderStatusChanged(_ context.Context, account domain.Account, change domain.StatusChange) {
	d.enqueue(statusChangedEmail(account, change))
}

func orderPlacedEmail(account domain.Account, order domain.Order) Email {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThanks for your order #%d.\n\n", account.Username, order.ID)
	for _, it := range order.Items {
		fmt.Fprintf(&b, "  %s x%d  %s\n", it.ProductName, it.Quantity, it.LineTotal().StringFixed(0))
	}
	fmt.Fprintf(&b, "\nSubtotal: %s\n", order.Subtotal.StringFixed(0))
	fmt.Fprintf(&b, "Shipping: %s\n", order.ShippingFee.StringFixed(0))
	if order.DiscountAmount.IsPositive() {
		fmt.Fprintf(&b, "Discount (%s): -%s\n", order.VoucherCode, order.DiscountAmount.StringFixed(0))
	}
	fmt.Fprintf(&b, "Total: %s\n", order.TotalAmount.StringFixed(0))
	if order.MemberTier != "" {
		fmt.Fprintf(&b, "\nYour member tier: %s\n", order.MemberTier)
	}

	return Email{
		To:      account.Email,
		Subject: fmt.Sprintf("Order #%d confirmed", order.ID),
		Body:    b.String(),
	}
}

func statusChangedEmail(account domain.Account, change domain.StatusChange) Email {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nYour order #%d is now %s.\n", account.Username, change.OrderID, change.To)
	if change.Shipment != nil && change.To == domain.OrderStatusShipping {
		fmt.Fprintf(&b, "Tracking code: %s\n", change.Shipment.TrackingCode)
	}

	return Email{
		To:      account.Email,
		Subject: fmt.Sprintf("Order #%d: %s", change.OrderID, change.To),
		Body:    b.String(),
	}
}
