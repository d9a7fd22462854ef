package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/OrderEntryGo/internal/domain"
	pkgkafka "github.com/utafrali/OrderEntryGo/pkg/kafka"
)

// Kafka topic constants for order domain events.
const (
	TopicOrderCreated          = "orderentry.order.created"
	TopicConfirmationEmailSent = "orderentry.order.confirmation_sent"
)

// Aggregate type constant.
const AggregateTypeOrder = "order"

// Source identifier for events originating from this service.
const SourceOrderEntry = "order-entry-service"

// OrderCreatedData is the payload for an order.created event (full order snapshot).
type OrderCreatedData struct {
	ID           string          `json:"id"`
	CustomerName string          `json:"customer_name"`
	Currency     string          `json:"currency"`
	Items        []OrderItemData `json:"items"`
	TotalPrice   string          `json:"total_price"`
}

// OrderItemData is the event payload for an order line. Prices travel as
// decimal strings so consumers do not lose precision.
type OrderItemData struct {
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	NetPrice    string `json:"net_price"`
}

// ConfirmationSentData is the payload for an order.confirmation_sent event.
type ConfirmationSentData struct {
	OrderID string `json:"order_id"`
	Email   string `json:"email"`
}

// Producer publishes order domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishOrderCreated publishes an order.created event with the full order snapshot.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	items := make([]OrderItemData, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemData{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.String(),
			NetPrice:    item.NetPrice.String(),
		}
	}

	data := OrderCreatedData{
		ID:           order.ID,
		CustomerName: order.CustomerName,
		Currency:     order.Currency,
		Items:        items,
		TotalPrice:   order.TotalPrice.String(),
	}

	event, err := pkgkafka.NewEvent(TopicOrderCreated, order.ID, AggregateTypeOrder, SourceOrderEntry, data)
	if err != nil {
		return fmt.Errorf("create order.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderCreated, event); err != nil {
		return fmt.Errorf("publish order.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.created event",
		slog.String("order_id", order.ID),
	)

	return nil
}

// PublishConfirmationSent publishes an order.confirmation_sent event.
func (p *Producer) PublishConfirmationSent(ctx context.Context, orderID, email string) error {
	data := ConfirmationSentData{
		OrderID: orderID,
		Email:   email,
	}

	event, err := pkgkafka.NewEvent(TopicConfirmationEmailSent, orderID, AggregateTypeOrder, SourceOrderEntry, data)
	if err != nil {
		return fmt.Errorf("create order.confirmation_sent event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicConfirmationEmailSent, event); err != nil {
		return fmt.Errorf("publish order.confirmation_sent event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.confirmation_sent event",
		slog.String("order_id", orderID),
	)

	return nil
}
