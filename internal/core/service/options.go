package service

import (
	"context"
	"errors"
	"time"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
	"github.com/uniqlo-mini/storefront/internal/port"
)

var ErrInvalidInput = errors.New("invalid input")

type Option func(*options)

type options struct {
	audit    port.AuditLogger
	notifier port.Notifier
	now      func() time.Time
}

func WithAudit(a port.AuditLogger) Option {
	return func(o *options) {
		if a != nil {
			o.audit = a
		}
	}
}

func WithNotifier(n port.Notifier) Option {
	return func(o *options) {
		if n != nil {
			o.notifier = n
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		audit:    nopAudit{},
		notifier: nopNotifier{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type nopAudit struct{}

func (nopAudit) Record(context.Context, domain.AuditEntry) {}

type nopNotifier struct{}

func (nopNotifier) OrderPlaced(context.Context, domain.Account, domain.Order) {}

func (nopNotifier) OrderStatusChanged(context.Context, domain.Account, domain.StatusChange) {}
