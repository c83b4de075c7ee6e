// Package notify fans order status changes out to interested parties.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"foodrunner-api/logger"
	"foodrunner-api/models"
)

type StatusEvent struct {
	OrderID      string             `json:"order_id"`
	UserID       string             `json:"user_id"`
	RestaurantID string             `json:"restaurant_id"`
	OldStatus    models.OrderStatus `json:"old_status"`
	NewStatus    models.OrderStatus `json:"new_status"`
	ChangedBy    string             `json:"changed_by"`
	Note         string             `json:"note,omitempty"`
	ChangedAt    time.Time          `json:"changed_at"`
}

type Notifier interface {
	Name() string
	Notify(ctx context.Context, ev StatusEvent) error
}

const (
	// DefaultTimeout bounds a single delivery to one notifier.
	DefaultTimeout = 10 * time.Second
	queueSize      = 64
)

type delivery struct {
	ctx context.Context
	ev  StatusEvent
}

type subscription struct {
	n     Notifier
	queue chan delivery
}

// Hub delivers every event to all subscribed notifiers off the caller's
// goroutine. Each notifier has its own queue and worker, so events reach it
// in the order they were raised and a slow or failing notifier never holds
// up the others or the request that raised the event.
type Hub struct {
	mu      sync.RWMutex
	subs    []*subscription
	closed  bool
	log     *logger.Logger
	timeout time.Duration

	pending sync.WaitGroup
	workers sync.WaitGroup
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{log: log, timeout: DefaultTimeout}
}

// SetTimeout changes the per-delivery deadline. Call it before Subscribe.
func (h *Hub) SetTimeout(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.timeout = d
}

func (h *Hub) Subscribe(n Notifier) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	sub := &subscription{n: n, queue: make(chan delivery, queueSize)}
	h.subs = append(h.subs, sub)
	h.workers.Add(1)
	go h.run(sub, h.timeout)
}

// Notify queues ev for every subscriber and returns immediately. Deliveries
// keep ctx's values but not its cancellation. When a subscriber's queue is
// full the event is dropped for that subscriber and logged.
func (h *Hub) Notify(ctx context.Context, ev StatusEvent) {
	d := delivery{ctx: context.WithoutCancel(ctx), ev: ev}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	for _, sub := range h.subs {
		h.pending.Add(1)
		select {
		case sub.queue <- d:
		default:
			h.pending.Done()
			h.log.Warn("notify_dropped", "", "Notification queue full",
				slog.String("notifier", sub.n.Name()),
				slog.String("order_id", ev.OrderID),
			)
		}
	}
}

// Flush blocks until every event queued so far has been delivered or has
// failed. No events may be raised while it waits.
func (h *Hub) Flush() {
	h.pending.Wait()
}

// Close stops accepting events and waits for the queues to drain.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	for _, sub := range h.subs {
		close(sub.queue)
	}
	h.mu.Unlock()
	h.workers.Wait()
}

func (h *Hub) run(sub *subscription, timeout time.Duration) {
	defer h.workers.Done()
	for d := range sub.queue {
		h.deliver(sub.n, d, timeout)
	}
}

func (h *Hub) deliver(n Notifier, d delivery, timeout time.Duration) {
	defer h.pending.Done()
	ctx, cancel := context.WithTimeout(d.ctx, timeout)
	defer cancel()
	if err := n.Notify(ctx, d.ev); err != nil {
		h.log.Error("notify_failed", "", "Status notification failed", err,
			slog.String("notifier", n.Name()),
			slog.String("order_id", d.ev.OrderID),
		)
	}
}

// LogNotifier writes each event to the application log.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Name() string { return "log" }

func (n *LogNotifier) Notify(_ context.Context, ev StatusEvent) error {
	n.log.Info("order_status_changed", "", "Order status changed",
		slog.String("order_id", ev.OrderID),
		slog.String("old_status", string(ev.OldStatus)),
		slog.String("new_status", string(ev.NewStatus)),
		slog.String("changed_by", ev.ChangedBy),
	)
	return nil
}
