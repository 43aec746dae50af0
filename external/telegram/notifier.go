package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/brunoavln/goalscout/internal/platform/logging"
	"github.com/brunoavln/goalscout/internal/platform/resilience"
	"github.com/brunoavln/goalscout/internal/usecase"
)

// botAPI is the slice of tgbotapi the notifier needs; tests stub it.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type NotifierConfig struct {
	Token          string
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Notifier sends alert messages over the Telegram bot API in HTML parse
// mode. Recipients are chat ids as decimal strings.
type Notifier struct {
	bot            botAPI
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewNotifier(cfg NotifierConfig) (*Notifier, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return newNotifier(bot, cfg), nil
}

func newNotifier(bot botAPI, cfg NotifierConfig) *Notifier {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Notifier{
		bot:            bot,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// Send delivers one message to one chat. The context is honored up front;
// the underlying bot API call itself is not cancelable.
func (n *Notifier) Send(ctx context.Context, recipient, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	chatID, err := strconv.ParseInt(strings.TrimSpace(recipient), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: recipient %q is not a chat id", usecase.ErrInvalidInput, recipient)
	}

	if n.circuitEnabled {
		if err := n.breaker.Allow(); err != nil {
			n.logger.WarnContext(ctx, "telegram circuit breaker rejected send", "state", n.breaker.State())
			return fmt.Errorf("%w: telegram is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	_, err = n.bot.Send(msg)
	if n.circuitEnabled {
		if err != nil {
			n.breaker.RecordFailure()
		} else {
			n.breaker.RecordSuccess()
		}
	}
	if err != nil {
		return fmt.Errorf("send telegram message chat=%d: %w", chatID, err)
	}
	return nil
}
