// internal/app/notifier.go
package app

import (
	"fmt"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/sirupsen/logrus"

	domainTelegram "homework_status_bot/internal/domain/telegram"
)

// Notifier delivers plain text messages and never reports failure to its caller.
type Notifier struct {
	telegramClient domainTelegram.Client
	attempts       uint
	retryDelay     time.Duration
	logger         *logrus.Entry
}

func NewNotifier(tc domainTelegram.Client, attempts uint, retryDelay time.Duration, logger *logrus.Entry) *Notifier {
	if attempts == 0 {
		attempts = 1
	}
	return &Notifier{
		telegramClient: tc,
		attempts:       attempts,
		retryDelay:     retryDelay,
		logger:         logger,
	}
}

// Notify sends text to chatID. Send errors, and panics raised by the client, are logged and dropped.
func (n *Notifier) Notify(chatID int64, text string) {
	logCtx := n.logger.WithField("chat_id", chatID)

	defer func() {
		if r := recover(); r != nil {
			logCtx.WithField("panic", fmt.Sprint(r)).Error("Telegram client panicked while sending message")
		}
	}()

	err := retry.Do(
		func() error {
			return n.telegramClient.SendMessage(chatID, text, nil)
		},
		retry.Attempts(n.attempts),
		retry.Delay(n.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.OnRetry(func(attempt uint, err error) {
			logCtx.WithError(err).Warnf("Message send attempt %d of %d failed", attempt+1, n.attempts)
		}),
	)
	if err != nil {
		logCtx.WithError(err).Error("Failed to send message")
		return
	}
	logCtx.WithField("text", text).Info("Message sent")
}
