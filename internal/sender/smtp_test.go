package sender

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSMTPSender_Send(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{
		Host: "mail.example.com",
		Port: 587,
		From: "orders@example.com",
	}, newTestLogger())

	var (
		gotAddr string
		gotFrom string
		gotTo   []string
		gotMsg  []byte
	)
	s.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := s.Send(context.Background(), &Message{
		To:      "jane@example.com",
		Subject: "Your order",
		Body:    "Thanks, Jane.",
	})
	require.NoError(t, err)

	assert.Equal(t, "mail.example.com:587", gotAddr)
	assert.Equal(t, "orders@example.com", gotFrom)
	assert.Equal(t, []string{"jane@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Your order")
	assert.Contains(t, string(gotMsg), "Thanks, Jane.")
}

func TestSMTPSender_Send_RelayError(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "mail.example.com", Port: 25}, newTestLogger())
	s.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("relay refused")
	}

	err := s.Send(context.Background(), &Message{To: "jane@example.com"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "send mail")
}

func TestSMTPSender_Send_CanceledContext(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "mail.example.com", Port: 25}, newTestLogger())

	called := false
	s.send = func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Send(ctx, &Message{To: "jane@example.com"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
