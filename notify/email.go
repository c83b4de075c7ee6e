package notify

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailLookup resolves the address an order's customer is mailed at.
type EmailLookup func(ctx context.Context, userID string) (string, error)

// EmailNotifier mails the customer whenever their order changes status.
type EmailNotifier struct {
	sender mailSender
	from   string
	lookup EmailLookup
}

func NewEmailNotifier(host string, port int, user, password, from string, lookup EmailLookup) *EmailNotifier {
	return &EmailNotifier{
		sender: gomail.NewDialer(host, port, user, password),
		from:   from,
		lookup: lookup,
	}
}

func (n *EmailNotifier) Name() string { return "email" }

func (n *EmailNotifier) Notify(ctx context.Context, ev StatusEvent) error {
	to, err := n.lookup(ctx, ev.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve recipient: %w", err)
	}

	status := strings.ReplaceAll(string(ev.NewStatus), "_", " ")
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your order is "+status)
	m.SetBody("text/html", fmt.Sprintf(`
		<h2>Order update</h2>
		<p>Your order <b>%s</b> is now <b>%s</b>.</p>
	`, ev.OrderID, status))

	// gomail has no context support; give up waiting once ctx is done and
	// let the send finish in the background.
	done := make(chan error, 1)
	go func() { done <- n.sender.DialAndSend(m) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("send mail: %w", ctx.Err())
	}
}
