package mock

import (
	"context"
	"log/slog"
	"time"

	"github.com/utafrali/OrderEntryGo/internal/sender"
)

// MockSender is a sender implementation that logs messages and always
// succeeds. It simulates a 10ms delay to mimic real sending latency.
type MockSender struct {
	logger *slog.Logger
}

// NewMockSender creates a new mock sender.
func NewMockSender(logger *slog.Logger) *MockSender {
	return &MockSender{logger: logger}
}

// Name returns the name of this sender.
func (s *MockSender) Name() string {
	return "mock-email"
}

// Send logs the message details and simulates a 10ms sending delay.
func (s *MockSender) Send(ctx context.Context, msg *sender.Message) error {
	time.Sleep(10 * time.Millisecond)

	s.logger.InfoContext(ctx, "mock sender: confirmation sent",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)

	return nil
}
