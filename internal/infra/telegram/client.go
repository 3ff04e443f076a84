// internal/infra/telegram/client.go
package telegram

import (
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the Client interface using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// NewBot creates a send-only bot without contacting Telegram.
// A bad token or an unreachable API surfaces on the first send instead.
func NewBot(token string) (*telebot.Bot, error) {
	return telebot.NewBot(telebot.Settings{
		Token:   token,
		Offline: true,
	})
}

// SendMessage sends a plain text message to the specified chat.
// Returned errors never contain the bot token.
func (tba *TelebotAdapter) SendMessage(chatID int64, text string, options *telebot.SendOptions) error {
	if options == nil {
		options = &telebot.SendOptions{}
	}

	_, err := tba.bot.Send(telebot.ChatID(chatID), text, options)
	if err != nil && tba.bot.Token != "" {
		return errors.New(strings.ReplaceAll(err.Error(), tba.bot.Token, "***"))
	}
	return err
}
