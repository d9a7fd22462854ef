package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/utafrali/OrderEntryGo/internal/domain"
	"github.com/utafrali/OrderEntryGo/internal/event"
	"github.com/utafrali/OrderEntryGo/internal/receipt"
	"github.com/utafrali/OrderEntryGo/internal/refdata"
	"github.com/utafrali/OrderEntryGo/internal/repository"
	"github.com/utafrali/OrderEntryGo/internal/sender"
	apperrors "github.com/utafrali/OrderEntryGo/pkg/errors"
	"github.com/utafrali/OrderEntryGo/pkg/validator"
)

// OrderService implements the business logic for order entry: pricing,
// validation, persistence, and confirmation follow-ups.
type OrderService struct {
	repo     repository.OrderRepository
	refdata  *refdata.Store
	producer *event.Producer
	renderer *receipt.Renderer
	sender   sender.Sender
	opts     domain.ValidateOptions
	logger   *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	repo repository.OrderRepository,
	store *refdata.Store,
	producer *event.Producer,
	renderer *receipt.Renderer,
	emailSender sender.Sender,
	opts domain.ValidateOptions,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		repo:     repo,
		refdata:  store,
		producer: producer,
		renderer: renderer,
		sender:   emailSender,
		opts:     opts,
		logger:   logger,
	}
}

// CreateOrderItemInput holds the parameters for one order line. Quantity is
// a raw number; the engine rejects non-integer values.
type CreateOrderItemInput struct {
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
}

// CreateOrderInput holds the parameters for creating an order.
type CreateOrderInput struct {
	CustomerName string
	Currency     string
	Items        []CreateOrderItemInput
}

// CreateOrder validates and prices a draft order against the current
// reference-data snapshot, persists it, and publishes an order.created event.
// Business-rule violations come back as 422 errors carrying the rule code.
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, apperrors.InvalidInput("order must contain at least one item")
	}

	snap, err := s.refdata.Snapshot()
	if err != nil {
		return nil, err
	}

	draft := domain.DraftOrder{
		CustomerName: input.CustomerName,
		Currency:     input.Currency,
		Items:        make([]domain.DraftItem, len(input.Items)),
	}
	for i, item := range input.Items {
		draft.Items[i] = domain.DraftItem{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
		}
	}

	if vErr := domain.ValidateOrder(draft, snap.Catalog, s.opts); vErr != nil {
		return nil, apperrors.ValidationFailed(vErr.Code, vErr.Message)
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if !snap.Rates.Has(currency) {
		return nil, apperrors.ValidationFailed("UNSUPPORTED_CURRENCY",
			fmt.Sprintf("currency %q is not supported", input.Currency))
	}

	now := time.Now().UTC()
	total := decimal.Zero
	items := make([]domain.OrderItem, len(draft.Items))
	for i, line := range draft.Items {
		priced := domain.PriceItem(line.ProductName, line.Quantity, snap.Catalog, snap.Rates, currency)
		items[i] = domain.OrderItem{
			ProductName: line.ProductName,
			Quantity:    int64(line.Quantity),
			UnitPrice:   priced.UnitPrice,
			NetPrice:    priced.NetPrice,
		}
		total = total.Add(priced.NetPrice)
	}

	order := &domain.Order{
		ID:           uuid.New().String(),
		CustomerName: strings.TrimSpace(input.CustomerName),
		Currency:     currency,
		Items:        items,
		TotalPrice:   total,
		CreatedAt:    now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "order created",
		slog.String("order_id", order.ID),
		slog.String("currency", order.Currency),
		slog.String("total_price", order.TotalPrice.String()),
		slog.Int("items", len(order.Items)),
	)

	return order, nil
}

// GetOrder retrieves an order by its ID.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order by id: %w", err)
	}
	return order, nil
}

// ListOrders returns a filtered, paginated list of orders.
func (s *OrderService) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	return orders, total, nil
}

// Receipt renders the PDF receipt for a stored order.
func (s *OrderService) Receipt(ctx context.Context, id string) ([]byte, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order for receipt: %w", err)
	}

	pdf, err := s.renderer.Render(order)
	if err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}

	return pdf, nil
}

// EmailConfirmation sends the order confirmation to the given address and
// publishes an order.confirmation_sent event.
func (s *OrderService) EmailConfirmation(ctx context.Context, id, email string) error {
	if err := validator.Var(email, "required,email"); err != nil {
		return apperrors.InvalidInput("a valid email address is required")
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get order for confirmation: %w", err)
	}

	msg := &sender.Message{
		To:      email,
		Subject: fmt.Sprintf("Order confirmation %s", order.ID),
		Body:    confirmationBody(order),
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send confirmation: %w", err)
	}

	if err := s.producer.PublishConfirmationSent(ctx, order.ID, email); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.confirmation_sent event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "confirmation email sent",
		slog.String("order_id", order.ID),
		slog.String("sender", s.sender.Name()),
	)

	return nil
}

// Catalog returns the current product catalog snapshot.
func (s *OrderService) Catalog() (domain.Catalog, error) {
	snap, err := s.refdata.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Catalog, nil
}

// ExchangeRates returns the current exchange-rate table snapshot.
func (s *OrderService) ExchangeRates() (domain.RateTable, error) {
	snap, err := s.refdata.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Rates, nil
}

// ReloadReferenceData reloads catalog and rates wholesale.
func (s *OrderService) ReloadReferenceData(ctx context.Context) (*refdata.Snapshot, error) {
	return s.refdata.Reload(ctx)
}

func confirmationBody(order *domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\nThank you for your order %s.\n\n", order.CustomerName, order.ID)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "  %s x%d @ %s = %s %s\n",
			item.ProductName, item.Quantity,
			item.UnitPrice.StringFixed(2), item.NetPrice.StringFixed(2), order.Currency)
	}
	fmt.Fprintf(&b, "\nTotal: %s %s\n", order.TotalPrice.StringFixed(2), order.Currency)
	return b.String()
}
