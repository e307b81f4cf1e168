package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/errors"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/logger"
)

const outcomeSuccess = "success"

var operationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "drinks_service_operations_total",
		Help: "Application service calls by operation and outcome.",
	},
	[]string{"service", "operation", "outcome"},
)

// Option configures a service.
type Option func(*options)

type options struct {
	now        func() time.Time
	bcryptCost int
}

func defaultOptions() options {
	return options{now: time.Now, bcryptCost: defaultBcryptCost}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock replaces time.Now as the source of timestamps and drink ids.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithBcryptCost sets the cost used to hash new passwords.
func WithBcryptCost(cost int) Option {
	return func(o *options) {
		if cost > 0 {
			o.bcryptCost = cost
		}
	}
}

// boundary turns whatever an operation produced into the failure contract:
// a recovered panic or any error leaves as an *apperrors.AppError. It must be
// deferred directly so recover sees the panic.
type boundary struct {
	service string
	logger  *slog.Logger
}

func (b boundary) done(ctx context.Context, operation string, errp *error) {
	if r := recover(); r != nil {
		*errp = fmt.Errorf("%s: panic: %v", operation, r)
	}

	if *errp == nil {
		operationsTotal.WithLabelValues(b.service, operation, outcomeSuccess).Inc()
		return
	}

	failure := apperrors.Failed(*errp)
	operationsTotal.WithLabelValues(b.service, operation, string(failure.Kind)).Inc()

	if failure.Kind == apperrors.KindSystem {
		logger.WithContext(ctx, b.logger).ErrorContext(ctx, "operation failed",
			slog.String("operation", operation),
			slog.String("error", (*errp).Error()),
		)
	}

	*errp = failure
}

// logPublishFailure records an event that could not be published. The
// operation that produced it has already succeeded.
func logPublishFailure(ctx context.Context, l *slog.Logger, topic, aggregateID string, err error) {
	l.ErrorContext(ctx, "failed to publish event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
		slog.String("error", err.Error()),
	)
}
