package telegram

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/brunoavln/goalscout/internal/platform/logging"
	"github.com/brunoavln/goalscout/internal/platform/resilience"
	"github.com/brunoavln/goalscout/internal/usecase"
)

type stubBot struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (b *stubBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		b.sent = append(b.sent, msg)
	}
	return tgbotapi.Message{}, b.err
}

func TestNotifier_SendUsesHTMLMode(t *testing.T) {
	t.Parallel()

	bot := &stubBot{}
	n := newNotifier(bot, NotifierConfig{Logger: logging.NewNop()})

	if err := n.Send(context.Background(), "12345", "<b>Porto vs Benfica</b>"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(bot.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(bot.sent))
	}

	msg := bot.sent[0]
	if msg.ChatID != 12345 {
		t.Fatalf("unexpected chat id: %d", msg.ChatID)
	}
	if msg.ParseMode != tgbotapi.ModeHTML {
		t.Fatalf("unexpected parse mode: %s", msg.ParseMode)
	}
}

func TestNotifier_RejectsNonNumericRecipient(t *testing.T) {
	t.Parallel()

	n := newNotifier(&stubBot{}, NotifierConfig{Logger: logging.NewNop()})

	err := n.Send(context.Background(), "not-a-chat", "text")
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNotifier_CircuitOpensAfterFailures(t *testing.T) {
	t.Parallel()

	bot := &stubBot{err: errors.New("api down")}
	n := newNotifier(bot, NotifierConfig{
		Logger: logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			HalfOpenMaxReq:   1,
		},
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := n.Send(ctx, "1", "text"); err == nil {
			t.Fatalf("expected delivery error")
		}
	}

	err := n.Send(ctx, "1", "text")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected circuit rejection, got %v", err)
	}
	if len(bot.sent) != 2 {
		t.Fatalf("open circuit must not reach the bot, sends=%d", len(bot.sent))
	}
}

func TestNotifier_CanceledContext(t *testing.T) {
	t.Parallel()

	n := newNotifier(&stubBot{}, NotifierConfig{Logger: logging.NewNop()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := n.Send(ctx, "1", "text"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
