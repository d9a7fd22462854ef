package sender

import "context"

// Message is an order-confirmation email to deliver.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender defines the interface for delivering confirmation messages.
type Sender interface {
	Name() string
	Send(ctx context.Context, msg *Message) error
}
