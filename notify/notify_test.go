package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"foodrunner-api/logger"
	"foodrunner-api/models"
)

type recorder struct {
	mu     sync.Mutex
	name   string
	err    error
	events []StatusEvent
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) Notify(_ context.Context, ev StatusEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

var sampleEvent = StatusEvent{
	OrderID:   "o-1",
	UserID:    "u-1",
	OldStatus: models.StatusPending,
	NewStatus: models.StatusReadyForPickup,
	ChangedBy: "owner-1",
	ChangedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
}

func TestHub_FailingNotifierDoesNotStopOthers(t *testing.T) {
	var buf bytes.Buffer
	hub := NewHub(logger.New("test", &buf, slog.LevelDebug))

	broken := &recorder{name: "broken", err: errors.New("boom")}
	ok := &recorder{name: "ok"}
	hub.Subscribe(broken)
	hub.Subscribe(ok)
	t.Cleanup(hub.Close)

	hub.Notify(context.Background(), sampleEvent)
	hub.Flush()

	assert.Len(t, broken.events, 1)
	require.Len(t, ok.events, 1)
	assert.Equal(t, "o-1", ok.events[0].OrderID)
	assert.Contains(t, buf.String(), `"notifier":"broken"`)
}

func TestHub_ConcurrentSubscribeAndNotify(t *testing.T) {
	hub := NewHub(logger.Discard())
	r := &recorder{name: "r"}
	hub.Subscribe(r)
	t.Cleanup(hub.Close)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); hub.Notify(context.Background(), sampleEvent) }()
		go func() { defer wg.Done(); hub.Subscribe(&recorder{name: "late"}) }()
	}
	wg.Wait()
	hub.Flush()

	assert.Len(t, r.events, 20)
}

type blockingNotifier struct {
	release  chan struct{}
	deadline chan time.Time
	canceled chan error
}

func (b *blockingNotifier) Name() string { return "blocking" }

func (b *blockingNotifier) Notify(ctx context.Context, _ StatusEvent) error {
	if dl, ok := ctx.Deadline(); ok {
		b.deadline <- dl
	}
	select {
	case <-b.release:
		return nil
	case <-ctx.Done():
		b.canceled <- ctx.Err()
		return ctx.Err()
	}
}

func TestHub_NotifyDoesNotWaitForDelivery(t *testing.T) {
	hub := NewHub(logger.Discard())
	slow := &blockingNotifier{release: make(chan struct{}), deadline: make(chan time.Time, 1), canceled: make(chan error, 1)}
	fast := &recorder{name: "fast"}
	hub.Subscribe(slow)
	hub.Subscribe(fast)

	ctx, cancel := context.WithCancel(context.Background())
	returned := make(chan struct{})
	go func() {
		hub.Notify(ctx, sampleEvent)
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a slow notifier")
	}

	// The request finishing must not cancel the delivery.
	cancel()
	select {
	case dl := <-slow.deadline:
		assert.WithinDuration(t, time.Now().Add(DefaultTimeout), dl, time.Second)
	case <-time.After(time.Second):
		t.Fatal("delivery never started")
	}
	close(slow.release)
	hub.Close()

	assert.Empty(t, slow.canceled)
	assert.Len(t, fast.events, 1)
}

func TestHub_TimeoutBoundsDelivery(t *testing.T) {
	var buf bytes.Buffer
	hub := NewHub(logger.New("test", &buf, slog.LevelDebug))
	hub.SetTimeout(20 * time.Millisecond)
	stuck := &blockingNotifier{release: make(chan struct{}), deadline: make(chan time.Time, 1), canceled: make(chan error, 1)}
	hub.Subscribe(stuck)

	hub.Notify(context.Background(), sampleEvent)
	hub.Close()

	require.Len(t, stuck.canceled, 1)
	assert.ErrorIs(t, <-stuck.canceled, context.DeadlineExceeded)
	assert.Contains(t, buf.String(), `"notifier":"blocking"`)
}

func TestHub_PreservesOrderPerNotifier(t *testing.T) {
	hub := NewHub(logger.Discard())
	r := &recorder{name: "r"}
	hub.Subscribe(r)

	statuses := []models.OrderStatus{models.StatusPreparing, models.StatusReadyForPickup, models.StatusOutForDelivery, models.StatusDelivered}
	for _, st := range statuses {
		ev := sampleEvent
		ev.NewStatus = st
		hub.Notify(context.Background(), ev)
	}
	hub.Close()

	got := []models.OrderStatus{}
	for _, ev := range r.events {
		got = append(got, ev.NewStatus)
	}
	assert.Equal(t, statuses, got)
}

func TestHub_ClosedHubDropsEvents(t *testing.T) {
	hub := NewHub(logger.Discard())
	r := &recorder{name: "r"}
	hub.Subscribe(r)
	hub.Close()
	hub.Close()

	hub.Notify(context.Background(), sampleEvent)
	hub.Subscribe(&recorder{name: "late"})
	hub.Flush()

	assert.Empty(t, r.events)
}

type fakeRedis struct {
	channel string
	payload []byte
}

func (f *fakeRedis) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	f.channel = channel
	f.payload = message.([]byte)
	return redis.NewIntResult(1, nil)
}

func TestRedisNotifier(t *testing.T) {
	f := &fakeRedis{}
	require.NoError(t, NewRedisNotifier(f).Notify(context.Background(), sampleEvent))

	assert.Equal(t, StatusChannel, f.channel)
	var got StatusEvent
	require.NoError(t, json.Unmarshal(f.payload, &got))
	assert.Equal(t, models.StatusReadyForPickup, got.NewStatus)
}

type fakeChannel struct {
	exchange string
	msg      amqp091.Publishing
	err      error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, _ string, _, _ bool, msg amqp091.Publishing) error {
	f.exchange = exchange
	f.msg = msg
	return f.err
}

func TestAMQPNotifier(t *testing.T) {
	ch := &fakeChannel{}
	n := &AMQPNotifier{ch: ch}

	require.NoError(t, n.Notify(context.Background(), sampleEvent))
	assert.Equal(t, StatusExchange, ch.exchange)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, "o-1", ch.msg.MessageId)
	assert.Contains(t, string(ch.msg.Body), `"new_status":"ready_for_pickup"`)

	ch.err = errors.New("channel closed")
	assert.Error(t, n.Notify(context.Background(), sampleEvent))
}

type fakeSender struct {
	sent []*gomail.Message
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return nil
}

func TestEmailNotifier(t *testing.T) {
	sender := &fakeSender{}
	n := &EmailNotifier{
		sender: sender,
		from:   "orders@foodrunner.test",
		lookup: func(_ context.Context, userID string) (string, error) {
			return userID + "@example.com", nil
		},
	}

	require.NoError(t, n.Notify(context.Background(), sampleEvent))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"u-1@example.com"}, sender.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"Your order is ready for pickup"}, sender.sent[0].GetHeader("Subject"))

	n.lookup = func(context.Context, string) (string, error) { return "", errors.New("no user") }
	assert.Error(t, n.Notify(context.Background(), sampleEvent))
}

type stalledSender struct{ release chan struct{} }

func (s *stalledSender) DialAndSend(...*gomail.Message) error {
	<-s.release
	return nil
}

func TestEmailNotifier_GivesUpWhenContextEnds(t *testing.T) {
	sender := &stalledSender{release: make(chan struct{})}
	defer close(sender.release)
	n := &EmailNotifier{
		sender: sender,
		from:   "orders@foodrunner.test",
		lookup: func(_ context.Context, userID string) (string, error) {
			return userID + "@example.com", nil
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := n.Notify(ctx, sampleEvent)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
