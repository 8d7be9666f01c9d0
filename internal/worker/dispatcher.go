package worker

import (
	"context"

	"github.com/ekartshop/backend/internal/mail"
	"github.com/ekartshop/backend/internal/models"
	"go.uber.org/zap"
)

// Mailer sends single outcome email
type Mailer interface {
	SendOrderEmail(order models.Order, outcome mail.Outcome) error
}

// Notification is queued outcome email
type Notification struct {
	Order   models.Order
	Outcome mail.Outcome
}

// Dispatcher drains the notification queue in the background. Email is
// best-effort: enqueueing never blocks the caller and delivery errors are
// only logged.
type Dispatcher struct {
	mailer Mailer
	logger *zap.Logger
	queue  chan Notification
}

// NewDispatcher creates new Dispatcher with queue of given size
func NewDispatcher(mailer Mailer, logger *zap.Logger, size int) *Dispatcher {
	return &Dispatcher{
		mailer: mailer,
		logger: logger,
		queue:  make(chan Notification, size),
	}
}

// Enqueue puts notification to the queue. On full queue the notification
// is dropped with a log line instead of blocking checkout.
func (d *Dispatcher) Enqueue(order models.Order, outcome mail.Outcome) {
	select {
	case d.queue <- Notification{Order: order, Outcome: outcome}:
	default:
		d.logger.Warn("notification queue is full, dropping",
			zap.String("order", order.ID),
			zap.String("outcome", string(outcome)))
	}
}

// Run sends queued notifications until ctx is done
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			d.logger.Debug("notification dispatcher is done")
			return
		case n := <-d.queue:
			if err := d.mailer.SendOrderEmail(n.Order, n.Outcome); err != nil {
				d.logger.Error("send order email",
					zap.String("order", n.Order.ID),
					zap.Error(err))
				continue
			}
			d.logger.Debug("order email sent", zap.String("order", n.Order.ID))
		}
	}
}
